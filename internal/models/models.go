package models

import (
	"time"
)

// DateLayout is the wire format for all domain date fields (lease dates,
// payment dates, repair dates). Dates travel as strings so the spreadsheet
// and relational backends share one representation; an empty string means
// "not set".
const DateLayout = "2006-01-02"

// PropertyStatus is the occupancy state of a property
type PropertyStatus string

const (
	PropertyVacant      PropertyStatus = "vacant"
	PropertyOccupied    PropertyStatus = "occupied"
	PropertyMaintenance PropertyStatus = "maintenance"
)

// PaymentStatus is derived from amount due vs amount paid, never set directly
type PaymentStatus string

const (
	PaymentNotPaid       PaymentStatus = "Not Paid Yet"
	PaymentPartiallyPaid PaymentStatus = "Partially Paid"
	PaymentPaid          PaymentStatus = "Paid"
)

// RepairStatus is the lifecycle state of a repair request
type RepairStatus string

const (
	RepairPending    RepairStatus = "pending"
	RepairInProgress RepairStatus = "in-progress"
	RepairCompleted  RepairStatus = "completed"
)

// RepairPriority levels for repair requests
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Property represents a rentable unit
type Property struct {
	ID      string         `json:"id"`
	Address string         `json:"address"`
	City    string         `json:"city"`
	State   string         `json:"state"`
	ZipCode string         `json:"zip_code"`
	Rent    float64        `json:"rent"`
	Status  PropertyStatus `json:"status"`
}

// Tenant represents a lease holder attached to a property
type Tenant struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	PropertyID   string  `json:"property_id"`
	LeaseStart   string  `json:"lease_start"`
	LeaseEnd     string  `json:"lease_end"`
	LeaseRenewal string  `json:"lease_renewal"`
	RentAmount   float64 `json:"rent_amount"`
	// PaymentMethod and LeaseType may be empty when unknown
	PaymentMethod string `json:"payment_method"`
	LeaseType     string `json:"lease_type"`
}

// Payment represents one rent obligation for one calendar month.
// (PropertyID, RentMonth) is the natural key; the generator never creates a
// second payment for the same pair.
type Payment struct {
	ID            string        `json:"id"`
	PropertyID    string        `json:"property_id"`
	TenantID      string        `json:"tenant_id"`
	RentMonth     string        `json:"rent_month"`
	Amount        float64       `json:"amount"`
	AmountPaid    float64       `json:"amount_paid"`
	PaymentDate   string        `json:"payment_date"`
	Status        PaymentStatus `json:"status"`
	PaymentMethod string        `json:"payment_method"`
}

// RepairRequest represents a maintenance ticket
type RepairRequest struct {
	ID            string       `json:"id"`
	TenantID      string       `json:"tenant_id"`
	PropertyID    string       `json:"property_id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Priority      string       `json:"priority"`
	Status        RepairStatus `json:"status"`
	DateSubmitted string       `json:"date_submitted"`
	DateResolved  string       `json:"date_resolved"`
	Category      string       `json:"category"`
	Notes         string       `json:"notes"`
}

// PaymentStatusFor derives the payment status from amount due and amount
// paid. Zero paid means not paid yet; anything at or above the amount due
// means paid; everything in between is a partial payment.
func PaymentStatusFor(amount, paid float64) PaymentStatus {
	switch {
	case paid <= 0:
		return PaymentNotPaid
	case paid >= amount:
		return PaymentPaid
	default:
		return PaymentPartiallyPaid
	}
}

// RentMonthLabel formats a date as a human-readable month label such as
// "March 2024". Only year and month are significant; the label plus the
// property id is the dedup key for payments.
func RentMonthLabel(t time.Time) string {
	return t.Format("January 2006")
}

// LeaseRenewalDate computes the lease-renewal reminder date: one full
// calendar month before the lease end, keeping the day of month. When the
// previous month is shorter the day clamps to its last day, so a Dec 31
// lease end yields Nov 30 rather than rolling over. Returns an empty string
// when leaseEnd is empty or unparsable.
func LeaseRenewalDate(leaseEnd string) string {
	end, err := time.Parse(DateLayout, leaseEnd)
	if err != nil {
		return ""
	}
	year, month, day := end.Date()
	firstOfPrev := time.Date(year, month-1, 1, 0, 0, 0, 0, time.UTC)
	if lastDay := firstOfPrev.AddDate(0, 1, -1).Day(); day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfPrev.Year(), firstOfPrev.Month(), day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}
