// Package seed provides the illustrative dataset non-production builds load
// when no durable backend is reachable, so the dashboard is never empty
// during development.
package seed

import "landlord-service/internal/models"

// Properties returns the demo properties.
func Properties() []models.Property {
	return []models.Property{
		{ID: "prop-1", Address: "123 Maple Street", City: "Springfield", State: "IL", ZipCode: "62701", Rent: 1200, Status: models.PropertyOccupied},
		{ID: "prop-2", Address: "456 Oak Avenue", City: "Springfield", State: "IL", ZipCode: "62702", Rent: 950, Status: models.PropertyVacant},
		{ID: "prop-3", Address: "789 Pine Lane, Unit B", City: "Chatham", State: "IL", ZipCode: "62629", Rent: 1450, Status: models.PropertyMaintenance},
	}
}

// Tenants returns the demo tenants.
func Tenants() []models.Tenant {
	return []models.Tenant{
		{
			ID:            "tenant-1",
			Name:          "Jordan Ellis",
			Email:         "jordan.ellis@example.com",
			Phone:         "217-555-0142",
			PropertyID:    "prop-1",
			LeaseStart:    "2024-01-01",
			LeaseEnd:      "2024-12-31",
			LeaseRenewal:  models.LeaseRenewalDate("2024-12-31"),
			RentAmount:    1200,
			PaymentMethod: "bank transfer",
			LeaseType:     "yearly",
		},
	}
}

// Payments returns the demo payments.
func Payments() []models.Payment {
	return []models.Payment{
		{
			ID:          "pay-1",
			PropertyID:  "prop-1",
			TenantID:    "tenant-1",
			RentMonth:   "January 2024",
			Amount:      1200,
			AmountPaid:  1200,
			PaymentDate: "2024-01-03",
			Status:      models.PaymentPaid,
		},
		{
			ID:         "pay-2",
			PropertyID: "prop-1",
			TenantID:   "tenant-1",
			RentMonth:  "February 2024",
			Amount:     1200,
			AmountPaid: 600,
			Status:     models.PaymentPartiallyPaid,
		},
	}
}

// Repairs returns the demo repair requests.
func Repairs() []models.RepairRequest {
	return []models.RepairRequest{
		{
			ID:            "repair-1",
			TenantID:      "tenant-1",
			PropertyID:    "prop-1",
			Title:         "Leaking kitchen faucet",
			Description:   "Steady drip from the cold water handle.",
			Priority:      models.PriorityMedium,
			Status:        models.RepairPending,
			DateSubmitted: "2024-02-10",
			Category:      "plumbing",
		},
	}
}
