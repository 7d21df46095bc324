package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"landlord-service/internal/models"
)

func newTestGorm(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	st := NewGormStore(db, KindSQLite)
	require.NoError(t, st.AutoMigrate())
	return st
}

func TestGormStoreCRUD(t *testing.T) {
	st := newTestGorm(t)
	ctx := context.Background()

	assert.Equal(t, KindSQLite, st.Kind())
	assert.True(t, st.Durable())
	assert.True(t, st.TestConnection(ctx))

	created, err := st.CreateProperty(ctx, models.Property{
		Address: "12 Oak Lane",
		City:    "Springfield",
		Rent:    1500,
		Status:  models.PropertyVacant,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	second, err := st.CreateProperty(ctx, models.Property{Address: "77 Birch Rd"})
	require.NoError(t, err)

	props, err := st.FetchProperties(ctx)
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, created.ID, props[0].ID)
	assert.Equal(t, second.ID, props[1].ID)

	created.Status = models.PropertyOccupied
	updated, err := st.UpdateProperty(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, models.PropertyOccupied, updated.Status)

	require.NoError(t, st.DeleteProperty(ctx, second.ID))
	props, err = st.FetchProperties(ctx)
	require.NoError(t, err)
	require.Len(t, props, 1)
}

func TestGormStoreUpdateUnknownID(t *testing.T) {
	st := newTestGorm(t)
	ctx := context.Background()

	_, err := st.UpdateProperty(ctx, models.Property{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, st.DeleteProperty(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, st.DeleteTenant(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, st.DeletePayment(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, st.DeleteRepair(ctx, "missing"), ErrNotFound)
}

func TestGormStoreRoundTripsAllEntities(t *testing.T) {
	st := newTestGorm(t)
	ctx := context.Background()

	tenant, err := st.CreateTenant(ctx, models.Tenant{
		Name:         "Ava Brooks",
		PropertyID:   "prop-1",
		LeaseStart:   "2026-01-01",
		LeaseEnd:     "2026-12-31",
		LeaseRenewal: "2026-11-30",
		RentAmount:   1400,
	})
	require.NoError(t, err)

	payment, err := st.CreatePayment(ctx, models.Payment{
		PropertyID: "prop-1",
		TenantID:   tenant.ID,
		Amount:     1400,
		RentMonth:  "June 2026",
		Status:     models.PaymentNotPaid,
	})
	require.NoError(t, err)

	repair, err := st.CreateRepair(ctx, models.RepairRequest{
		PropertyID:    "prop-1",
		Title:         "Leaky faucet",
		Status:        models.RepairPending,
		DateSubmitted: "2026-06-01",
	})
	require.NoError(t, err)

	tenants, err := st.FetchTenants(ctx)
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, "2026-11-30", tenants[0].LeaseRenewal)

	payments, err := st.FetchPayments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, payment.ID, payments[0].ID)
	assert.Equal(t, models.PaymentNotPaid, payments[0].Status)

	repairs, err := st.FetchRepairs(ctx)
	require.NoError(t, err)
	require.Len(t, repairs, 1)
	assert.Equal(t, repair.ID, repairs[0].ID)
}
