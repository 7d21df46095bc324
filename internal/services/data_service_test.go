package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landlord-service/internal/metrics"
	"landlord-service/internal/models"
	"landlord-service/internal/store"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// faultyStore wraps the in-memory store and injects failures per operation.
type faultyStore struct {
	store.Store
	durable            bool
	down               bool
	failCreateProperty bool
	failCreatePayment  bool
	failUpdateTenant   bool
	failFetchPayments  bool
}

func newFaultyStore() *faultyStore {
	return &faultyStore{Store: store.NewMemoryStore()}
}

func (f *faultyStore) Durable() bool { return f.durable }

func (f *faultyStore) TestConnection(ctx context.Context) bool {
	if f.down {
		return false
	}
	return f.Store.TestConnection(ctx)
}

func (f *faultyStore) CreateProperty(ctx context.Context, p models.Property) (models.Property, error) {
	if f.failCreateProperty {
		return models.Property{}, errors.New("write failed")
	}
	return f.Store.CreateProperty(ctx, p)
}

func (f *faultyStore) CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	if f.failCreatePayment {
		return models.Payment{}, errors.New("write failed")
	}
	return f.Store.CreatePayment(ctx, p)
}

func (f *faultyStore) UpdateTenant(ctx context.Context, t models.Tenant) (models.Tenant, error) {
	if f.failUpdateTenant {
		return models.Tenant{}, errors.New("write failed")
	}
	return f.Store.UpdateTenant(ctx, t)
}

func (f *faultyStore) FetchPayments(ctx context.Context) ([]models.Payment, error) {
	if f.failFetchPayments {
		return nil, errors.New("fetch failed")
	}
	return f.Store.FetchPayments(ctx)
}

func newTestData(t *testing.T) *DataService {
	t.Helper()
	return NewDataService(store.NewMemoryStore(), testLogger())
}

func addProperty(t *testing.T, svc *DataService) models.Property {
	t.Helper()
	prop, err := svc.AddProperty(context.Background(), models.Property{
		Address: "12 Oak Lane",
		City:    "Springfield",
		Rent:    1500,
	})
	require.NoError(t, err)
	return prop
}

func TestAddPropertyDefaultsToVacant(t *testing.T) {
	svc := newTestData(t)

	prop := addProperty(t, svc)

	assert.NotEmpty(t, prop.ID)
	assert.Equal(t, models.PropertyVacant, prop.Status)

	stored, err := svc.Store().FetchProperties(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, prop.ID, stored[0].ID)
}

func TestAddPropertyRequiresAddress(t *testing.T) {
	svc := newTestData(t)

	_, err := svc.AddProperty(context.Background(), models.Property{})
	require.Error(t, err)
	_, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Empty(t, svc.Properties())
}

func TestFailedStoreWriteLeavesMemoryUntouched(t *testing.T) {
	fs := newFaultyStore()
	fs.failCreateProperty = true
	svc := NewDataService(fs, testLogger())
	before := testutil.ToFloat64(metrics.StoreErrorsTotal.WithLabelValues(store.KindMemory))

	_, err := svc.AddProperty(context.Background(), models.Property{Address: "9 Elm St"})
	require.Error(t, err)
	assert.Empty(t, svc.Properties())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StoreErrorsTotal.WithLabelValues(store.KindMemory)))
}

func TestAddTenantMarksPropertyOccupiedAndComputesRenewal(t *testing.T) {
	svc := newTestData(t)
	prop := addProperty(t, svc)

	tenant, err := svc.AddTenant(context.Background(), models.Tenant{
		Name:       "Ava Brooks",
		PropertyID: prop.ID,
		LeaseEnd:   "2026-06-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-05-15", tenant.LeaseRenewal)

	updated, ok := svc.PropertyByID(prop.ID)
	require.True(t, ok)
	assert.Equal(t, models.PropertyOccupied, updated.Status)

	// status change has to reach the store too
	stored, err := svc.Store().FetchProperties(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.PropertyOccupied, stored[0].Status)
}

func TestAddTenantRejectsUnknownProperty(t *testing.T) {
	svc := newTestData(t)

	_, err := svc.AddTenant(context.Background(), models.Tenant{
		Name:       "Ava Brooks",
		PropertyID: "missing",
	})
	require.Error(t, err)
	_, ok := IsValidationError(err)
	assert.True(t, ok)
}

func TestUpdateTenantLeaseEndRecomputesRenewal(t *testing.T) {
	svc := newTestData(t)
	prop := addProperty(t, svc)
	tenant, err := svc.AddTenant(context.Background(), models.Tenant{
		Name:       "Ava Brooks",
		PropertyID: prop.ID,
		LeaseEnd:   "2026-06-15",
	})
	require.NoError(t, err)

	newEnd := "2026-12-31"
	updated, err := svc.UpdateTenant(context.Background(), tenant.ID, TenantUpdate{LeaseEnd: &newEnd})
	require.NoError(t, err)
	assert.Equal(t, "2026-11-30", updated.LeaseRenewal)

	// unrelated updates keep the renewal date
	phone := "555-0101"
	updated, err = svc.UpdateTenant(context.Background(), tenant.ID, TenantUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "2026-11-30", updated.LeaseRenewal)
	assert.Equal(t, "555-0101", updated.Phone)
}

func TestDeleteTenantCascadesPaymentsAndVacatesProperty(t *testing.T) {
	svc := newTestData(t)
	ctx := context.Background()
	prop := addProperty(t, svc)
	tenant, err := svc.AddTenant(ctx, models.Tenant{Name: "Ava Brooks", PropertyID: prop.ID})
	require.NoError(t, err)

	_, err = svc.AddPayment(ctx, models.Payment{
		PropertyID: prop.ID,
		TenantID:   tenant.ID,
		Amount:     1500,
		RentMonth:  "June 2026",
	})
	require.NoError(t, err)
	_, err = svc.AddRepair(ctx, models.RepairRequest{
		PropertyID: prop.ID,
		TenantID:   tenant.ID,
		Title:      "Leaky faucet",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTenant(ctx, tenant.ID))

	assert.Empty(t, svc.Tenants())
	assert.Empty(t, svc.Payments())
	assert.Empty(t, svc.Repairs())

	updated, ok := svc.PropertyByID(prop.ID)
	require.True(t, ok)
	assert.Equal(t, models.PropertyVacant, updated.Status)

	storedPayments, err := svc.Store().FetchPayments(ctx)
	require.NoError(t, err)
	assert.Empty(t, storedPayments)

	storedRepairs, err := svc.Store().FetchRepairs(ctx)
	require.NoError(t, err)
	assert.Empty(t, storedRepairs)
}

func TestDeleteTenantKeepsRepairsWhenCascadeDisabled(t *testing.T) {
	svc := newTestData(t)
	svc.SetCascadeRepairs(false)
	ctx := context.Background()
	prop := addProperty(t, svc)
	tenant, err := svc.AddTenant(ctx, models.Tenant{Name: "Ava Brooks", PropertyID: prop.ID})
	require.NoError(t, err)
	_, err = svc.AddRepair(ctx, models.RepairRequest{PropertyID: prop.ID, TenantID: tenant.ID, Title: "Broken window"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTenant(ctx, tenant.ID))

	assert.Empty(t, svc.Tenants())
	assert.Len(t, svc.Repairs(), 1)
}

func TestDeletePropertyCascades(t *testing.T) {
	svc := newTestData(t)
	ctx := context.Background()
	prop := addProperty(t, svc)
	tenant, err := svc.AddTenant(ctx, models.Tenant{Name: "Ava Brooks", PropertyID: prop.ID})
	require.NoError(t, err)
	_, err = svc.AddPayment(ctx, models.Payment{PropertyID: prop.ID, TenantID: tenant.ID, Amount: 1500, RentMonth: "June 2026"})
	require.NoError(t, err)
	_, err = svc.AddRepair(ctx, models.RepairRequest{PropertyID: prop.ID, Title: "Leaky faucet"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProperty(ctx, prop.ID))

	assert.Empty(t, svc.Properties())
	assert.Empty(t, svc.Tenants())
	assert.Empty(t, svc.Payments())
	assert.Empty(t, svc.Repairs())
}

func TestDeletePropertyKeepsRepairsWhenCascadeDisabled(t *testing.T) {
	svc := newTestData(t)
	svc.SetCascadeRepairs(false)
	ctx := context.Background()
	prop := addProperty(t, svc)
	_, err := svc.AddRepair(ctx, models.RepairRequest{PropertyID: prop.ID, Title: "Broken window"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProperty(ctx, prop.ID))

	assert.Empty(t, svc.Properties())
	assert.Len(t, svc.Repairs(), 1)
}

func TestAddPaymentDerivesStatus(t *testing.T) {
	svc := newTestData(t)
	ctx := context.Background()
	prop := addProperty(t, svc)

	payment, err := svc.AddPayment(ctx, models.Payment{
		PropertyID: prop.ID,
		Amount:     1500,
		AmountPaid: 500,
		RentMonth:  "June 2026",
		Status:     models.PaymentPaid, // caller-supplied status is ignored
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPartiallyPaid, payment.Status)
}

func TestUpdatePaymentRecomputesStatus(t *testing.T) {
	svc := newTestData(t)
	ctx := context.Background()
	prop := addProperty(t, svc)
	payment, err := svc.AddPayment(ctx, models.Payment{PropertyID: prop.ID, Amount: 1500, RentMonth: "June 2026"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentNotPaid, payment.Status)

	paid := 1500.0
	updated, err := svc.UpdatePayment(ctx, payment.ID, PaymentUpdate{AmountPaid: &paid})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.Status)
}

func TestUpdatePaymentUnknownID(t *testing.T) {
	svc := newTestData(t)

	_, err := svc.UpdatePayment(context.Background(), "missing", PaymentUpdate{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateRepairStampsResolutionDate(t *testing.T) {
	svc := newTestData(t)
	ctx := context.Background()
	prop := addProperty(t, svc)
	repair, err := svc.AddRepair(ctx, models.RepairRequest{PropertyID: prop.ID, Title: "Leaky faucet"})
	require.NoError(t, err)
	assert.Equal(t, models.RepairPending, repair.Status)
	assert.NotEmpty(t, repair.DateSubmitted)

	completed := models.RepairCompleted
	updated, err := svc.UpdateRepair(ctx, repair.ID, RepairUpdate{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format(models.DateLayout), updated.DateResolved)
}

func TestUpdateRepairKeepsExplicitResolutionDate(t *testing.T) {
	svc := newTestData(t)
	ctx := context.Background()
	prop := addProperty(t, svc)
	repair, err := svc.AddRepair(ctx, models.RepairRequest{PropertyID: prop.ID, Title: "Leaky faucet"})
	require.NoError(t, err)

	completed := models.RepairCompleted
	resolved := "2026-01-05"
	updated, err := svc.UpdateRepair(ctx, repair.ID, RepairUpdate{Status: &completed, DateResolved: &resolved})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", updated.DateResolved)
}

func TestGenerateForMonthIsIdempotent(t *testing.T) {
	svc := newTestData(t)
	ctx := context.Background()
	prop := addProperty(t, svc)
	_, err := svc.AddTenant(ctx, models.Tenant{Name: "Ava Brooks", PropertyID: prop.ID, RentAmount: 1400})
	require.NoError(t, err)

	target := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	summary, err := svc.GenerateForMonth(ctx, target, false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Generated)
	assert.Equal(t, "June 2026", summary.Month)

	payments := svc.Payments()
	require.Len(t, payments, 1)
	assert.Equal(t, 1400.0, payments[0].Amount)
	assert.Equal(t, models.PaymentNotPaid, payments[0].Status)

	summary, err = svc.GenerateForMonth(ctx, target, false)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Generated)
	assert.Len(t, svc.Payments(), 1)
}

func TestGeneratePersistFailureSkipsRecord(t *testing.T) {
	fs := newFaultyStore()
	svc := NewDataService(fs, testLogger())
	ctx := context.Background()
	prop := addProperty(t, svc)
	_, err := svc.AddTenant(ctx, models.Tenant{Name: "Ava Brooks", PropertyID: prop.ID})
	require.NoError(t, err)

	fs.failCreatePayment = true

	summary, err := svc.GenerateForMonth(ctx, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), false)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Generated)
	assert.Empty(t, svc.Payments())
}

func TestGenerateForRangeReportsPerMonth(t *testing.T) {
	svc := newTestData(t)
	ctx := context.Background()
	prop := addProperty(t, svc)
	_, err := svc.AddTenant(ctx, models.Tenant{Name: "Ava Brooks", PropertyID: prop.ID})
	require.NoError(t, err)

	from := time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)

	summaries, err := svc.GenerateForRange(ctx, from, to, false)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "November 2026", summaries[0].Month)
	assert.Equal(t, "January 2027", summaries[2].Month)
	for _, s := range summaries {
		assert.Equal(t, 1, s.Generated)
	}
	assert.Len(t, svc.Payments(), 3)
}

func TestLoadFallsBackToDemoDataset(t *testing.T) {
	fs := newFaultyStore()
	fs.durable = true
	fs.down = true
	svc := NewDataService(fs, testLogger())

	svc.Load(context.Background())

	assert.NotEmpty(t, svc.Properties())
	assert.NotEmpty(t, svc.Tenants())
}

func TestLoadSeedsDemoDatasetOnMemoryBackend(t *testing.T) {
	svc := NewDataService(store.NewMemoryStore(), testLogger())

	svc.Load(context.Background())

	assert.NotEmpty(t, svc.Properties())
	assert.NotEmpty(t, svc.Tenants())
	assert.NotEmpty(t, svc.Payments())
}

func TestLoadEmptyOnMemoryBackendInProduction(t *testing.T) {
	svc := NewDataService(store.NewMemoryStore(), testLogger())
	svc.SetDemoFallback(false)

	svc.Load(context.Background())

	assert.Empty(t, svc.Properties())
	assert.Empty(t, svc.Tenants())
}

func TestLoadFallsBackEmptyInProduction(t *testing.T) {
	fs := newFaultyStore()
	fs.durable = true
	fs.failFetchPayments = true
	svc := NewDataService(fs, testLogger())
	svc.SetDemoFallback(false)

	svc.Load(context.Background())

	assert.Empty(t, svc.Properties())
	assert.Empty(t, svc.Payments())
}

func TestReplaceAllSwapsCollections(t *testing.T) {
	svc := newTestData(t)
	addProperty(t, svc)

	svc.ReplaceAll(
		[]models.Property{{ID: "p-9", Address: "1 New Rd"}},
		nil,
		[]models.Payment{{ID: "pay-9", PropertyID: "p-9"}},
		nil,
	)

	props := svc.Properties()
	require.Len(t, props, 1)
	assert.Equal(t, "p-9", props[0].ID)
	assert.Empty(t, svc.Tenants())
	assert.Len(t, svc.Payments(), 1)
}
