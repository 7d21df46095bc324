package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landlord-service/internal/models"
)

var march = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func occupiedProperty(id string, rent float64) models.Property {
	return models.Property{ID: id, Address: "12 Main St", Rent: rent, Status: models.PropertyOccupied}
}

func TestForMonthGeneratesForOccupiedProperty(t *testing.T) {
	props := []models.Property{occupiedProperty("p1", 1200)}

	created, summary := ForMonth(march, props, nil, nil, false)

	require.Len(t, created, 1)
	assert.Equal(t, "March 2024", summary.Month)
	assert.Equal(t, 1, summary.Generated)

	payment := created[0]
	assert.Equal(t, "p1", payment.PropertyID)
	assert.Equal(t, "March 2024", payment.RentMonth)
	assert.Equal(t, 1200.0, payment.Amount)
	assert.Equal(t, 0.0, payment.AmountPaid)
	assert.Equal(t, models.PaymentNotPaid, payment.Status)
	assert.Empty(t, payment.PaymentDate)
	assert.Empty(t, payment.ID)
}

func TestForMonthIsIdempotent(t *testing.T) {
	props := []models.Property{occupiedProperty("p1", 1200)}

	first, _ := ForMonth(march, props, nil, nil, false)
	require.Len(t, first, 1)

	second, summary := ForMonth(march, props, nil, first, false)
	assert.Empty(t, second)
	assert.Equal(t, 0, summary.Generated)
}

func TestForMonthSkipsVacantWithoutForce(t *testing.T) {
	props := []models.Property{{ID: "p1", Rent: 900, Status: models.PropertyVacant}}

	created, summary := ForMonth(march, props, nil, nil, false)
	assert.Empty(t, created)
	assert.Equal(t, 0, summary.Generated)

	forced, summary := ForMonth(march, props, nil, nil, true)
	require.Len(t, forced, 1)
	assert.Equal(t, 1, summary.Generated)
	assert.Equal(t, 900.0, forced[0].Amount)
}

func TestForMonthAmountComesFromTenantWhenAttached(t *testing.T) {
	props := []models.Property{occupiedProperty("p1", 1200)}
	tenants := []models.Tenant{{ID: "t1", PropertyID: "p1", RentAmount: 1350}}

	created, _ := ForMonth(march, props, tenants, nil, false)
	require.Len(t, created, 1)
	assert.Equal(t, 1350.0, created[0].Amount)
	assert.Equal(t, "t1", created[0].TenantID)
}

func TestForMonthOccupiedWithoutTenantUsesListedRent(t *testing.T) {
	props := []models.Property{occupiedProperty("p1", 1200)}

	created, _ := ForMonth(march, props, nil, nil, false)
	require.Len(t, created, 1)
	assert.Equal(t, 1200.0, created[0].Amount)
	assert.Empty(t, created[0].TenantID)
}

func TestForMonthExistingPaymentForOtherMonthDoesNotBlock(t *testing.T) {
	props := []models.Property{occupiedProperty("p1", 1200)}
	existing := []models.Payment{{PropertyID: "p1", RentMonth: "February 2024"}}

	created, _ := ForMonth(march, props, nil, existing, false)
	assert.Len(t, created, 1)
}

func TestForMonthZeroEligibleProperties(t *testing.T) {
	created, summary := ForMonth(march, nil, nil, nil, false)
	assert.Empty(t, created)
	assert.Equal(t, 0, summary.Generated)
	assert.Equal(t, "March 2024", summary.Month)
}

func TestForCurrentAndNext(t *testing.T) {
	props := []models.Property{occupiedProperty("p1", 1200)}

	created, summaries := ForCurrentAndNext(march, props, nil, nil, false)
	require.Len(t, created, 2)
	require.Len(t, summaries, 2)
	assert.Equal(t, "March 2024", created[0].RentMonth)
	assert.Equal(t, "April 2024", created[1].RentMonth)

	// Running again on top of the first batch creates nothing
	again, _ := ForCurrentAndNext(march, props, nil, created, false)
	assert.Empty(t, again)
}

func TestForMonthYear(t *testing.T) {
	props := []models.Property{occupiedProperty("p1", 1200)}

	created, summary := ForMonthYear(time.December, 2024, props, nil, nil, false)
	require.Len(t, created, 1)
	assert.Equal(t, "December 2024", summary.Month)
}

func TestForRangeCoversEveryMonthOnce(t *testing.T) {
	props := []models.Property{occupiedProperty("p1", 1200), occupiedProperty("p2", 800)}

	from := time.Date(2024, time.November, 20, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC)

	created, summaries := ForRange(from, to, props, nil, nil, false)
	assert.Len(t, created, 8) // 2 properties x 4 months, crossing the year boundary
	require.Len(t, summaries, 4)
	assert.Equal(t, "November 2024", summaries[0].Month)
	assert.Equal(t, "February 2025", summaries[3].Month)

	seen := map[string]bool{}
	for _, p := range created {
		key := p.PropertyID + "|" + p.RentMonth
		assert.False(t, seen[key], "duplicate payment for %s", key)
		seen[key] = true
	}
}

func TestForRangeInverted(t *testing.T) {
	props := []models.Property{occupiedProperty("p1", 1200)}
	created, summaries := ForRange(march, march.AddDate(0, -2, 0), props, nil, nil, false)
	assert.Empty(t, created)
	assert.Empty(t, summaries)
}

func TestForRangeSkipsAlreadyCoveredMonths(t *testing.T) {
	props := []models.Property{occupiedProperty("p1", 1200)}
	existing := []models.Payment{{PropertyID: "p1", RentMonth: "April 2024"}}

	created, _ := ForRange(march, march.AddDate(0, 2, 0), props, nil, existing, false)
	require.Len(t, created, 2)
	assert.Equal(t, "March 2024", created[0].RentMonth)
	assert.Equal(t, "May 2024", created[1].RentMonth)
}

func TestForMonthsAhead(t *testing.T) {
	props := []models.Property{occupiedProperty("p1", 1200)}

	created, summaries := ForMonthsAhead(march, 6, props, nil, nil, false)
	assert.Len(t, created, 6)
	require.Len(t, summaries, 6)
	assert.Equal(t, "August 2024", summaries[5].Month)

	none, _ := ForMonthsAhead(march, 0, props, nil, nil, false)
	assert.Empty(t, none)
}
