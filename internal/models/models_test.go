package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		paid   float64
		want   PaymentStatus
	}{
		{"nothing paid", 1200, 0, PaymentNotPaid},
		{"negative paid treated as unpaid", 1200, -50, PaymentNotPaid},
		{"partial", 1200, 600, PaymentPartiallyPaid},
		{"one short of full", 1200, 1199.99, PaymentPartiallyPaid},
		{"exact", 1200, 1200, PaymentPaid},
		{"overpaid", 1200, 1500, PaymentPaid},
		{"zero amount zero paid", 0, 0, PaymentNotPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PaymentStatusFor(tt.amount, tt.paid))
		})
	}
}

func TestRentMonthLabel(t *testing.T) {
	target := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "March 2024", RentMonthLabel(target))

	// Only year and month matter
	first := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, RentMonthLabel(first), RentMonthLabel(last))
}

func TestLeaseRenewalDate(t *testing.T) {
	assert.Equal(t, "2024-11-30", LeaseRenewalDate("2024-12-31"))
	assert.Equal(t, "2024-05-15", LeaseRenewalDate("2024-06-15"))
	assert.Equal(t, "2024-12-31", LeaseRenewalDate("2025-01-31"))
	assert.Equal(t, "2024-02-29", LeaseRenewalDate("2024-03-31"))
	assert.Equal(t, "", LeaseRenewalDate(""))
	assert.Equal(t, "", LeaseRenewalDate("not-a-date"))
}
