// Package payments computes which rent payments are missing for a month or
// range of months. All functions are pure: they read the current collections
// and return newly synthesized records without touching the inputs.
// Persistence and id assignment belong to the data service.
package payments

import (
	"time"

	"landlord-service/internal/models"
)

// Summary reports the outcome of a generation run
type Summary struct {
	Generated int    `json:"generated"`
	Month     string `json:"month"`
}

// ForMonth synthesizes the payments missing for the month containing target.
// A property is covered when a payment already exists for
// (property id, month label); covered properties are always skipped.
// Vacant and maintenance properties are skipped unless force is set.
// The amount comes from the first tenant attached to the property, falling
// back to the property's listed rent when no tenant is attached.
func ForMonth(target time.Time, props []models.Property, tenants []models.Tenant, existing []models.Payment, force bool) ([]models.Payment, Summary) {
	label := models.RentMonthLabel(target)

	covered := make(map[string]bool, len(existing))
	for _, p := range existing {
		if p.RentMonth == label {
			covered[p.PropertyID] = true
		}
	}

	tenantByProperty := make(map[string]models.Tenant, len(tenants))
	for _, t := range tenants {
		if _, ok := tenantByProperty[t.PropertyID]; !ok {
			tenantByProperty[t.PropertyID] = t
		}
	}

	var created []models.Payment
	for _, prop := range props {
		if covered[prop.ID] {
			continue
		}
		if prop.Status != models.PropertyOccupied && !force {
			continue
		}

		payment := models.Payment{
			PropertyID: prop.ID,
			RentMonth:  label,
			Amount:     prop.Rent,
			AmountPaid: 0,
			Status:     models.PaymentNotPaid,
		}
		if tenant, ok := tenantByProperty[prop.ID]; ok {
			payment.TenantID = tenant.ID
			payment.Amount = tenant.RentAmount
		}
		created = append(created, payment)
	}

	return created, Summary{Generated: len(created), Month: label}
}

// ForCurrentAndNext generates for the month containing now plus the
// immediately following month.
func ForCurrentAndNext(now time.Time, props []models.Property, tenants []models.Tenant, existing []models.Payment, force bool) ([]models.Payment, []Summary) {
	return ForMonthsAhead(now, 2, props, tenants, existing, force)
}

// ForMonthYear generates for an explicit month and year pair.
func ForMonthYear(month time.Month, year int, props []models.Property, tenants []models.Tenant, existing []models.Payment, force bool) ([]models.Payment, Summary) {
	return ForMonth(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), props, tenants, existing, force)
}

// ForRange generates across an inclusive month range. Only the year and
// month of the bounds are significant. An inverted range yields nothing.
func ForRange(from, to time.Time, props []models.Property, tenants []models.Tenant, existing []models.Payment, force bool) ([]models.Payment, []Summary) {
	start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)

	var all []models.Payment
	var summaries []Summary
	pool := existing
	for month := start; !month.After(end); month = month.AddDate(0, 1, 0) {
		created, summary := ForMonth(month, props, tenants, pool, force)
		all = append(all, created...)
		pool = append(pool, created...)
		summaries = append(summaries, summary)
	}
	return all, summaries
}

// ForMonthsAhead generates for n consecutive months beginning with the month
// containing start. n below one yields nothing.
func ForMonthsAhead(start time.Time, n int, props []models.Property, tenants []models.Tenant, existing []models.Payment, force bool) ([]models.Payment, []Summary) {
	if n < 1 {
		return nil, nil
	}
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	return ForRange(first, first.AddDate(0, n-1, 0), props, tenants, existing, force)
}
