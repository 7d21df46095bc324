package store

import (
	"fmt"
	"strconv"
	"strings"

	"landlord-service/internal/models"
)

// Sheet titles for the four logical tables
const (
	sheetProperties = "Properties"
	sheetTenants    = "Tenants"
	sheetPayments   = "Payments"
	sheetRepairs    = "Repairs"
)

// Header rows. Column order is the write order; reads resolve columns by
// header name so a reordered sheet still maps correctly.
var (
	propertyHeaders = []string{"ID", "Address", "City", "State", "Zip Code", "Rent", "Status"}
	tenantHeaders   = []string{"ID", "Name", "Email", "Phone", "Property ID", "Lease Start", "Lease End", "Lease Renewal", "Rent Amount", "Payment Method", "Lease Type"}
	paymentHeaders  = []string{"ID", "Property ID", "Tenant ID", "Rent Month", "Amount", "Amount Paid", "Payment Date", "Status", "Payment Method"}
	repairHeaders   = []string{"ID", "Tenant ID", "Property ID", "Title", "Description", "Priority", "Status", "Date Submitted", "Date Resolved", "Category", "Notes"}
)

// cellString normalizes a raw cell value from the values API. Cells arrive
// as strings, JSON numbers or booleans depending on the sheet's formatting.
func cellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprintf("%v", c)
	}
}

// parseAmount coerces numeric-looking cell text into a number. Currency
// symbols and thousands separators are tolerated; anything unparsable
// defaults to zero rather than rejecting the row.
func parseAmount(s string) float64 {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return n
}

func canonicalHeader(sheet string) []string {
	switch sheet {
	case sheetProperties:
		return propertyHeaders
	case sheetTenants:
		return tenantHeaders
	case sheetPayments:
		return paymentHeaders
	case sheetRepairs:
		return repairHeaders
	}
	return nil
}

// normalizeRows re-maps fetched rows into canonical column order, header row
// included. Full-range rewrites emit rows in canonical order, so a sheet
// whose header was reordered or narrowed by hand must be normalized before
// writing back or its columns get scrambled. Columns outside the schema are
// dropped.
func normalizeRows(sheet string, rows [][]interface{}) [][]interface{} {
	headers := canonicalHeader(sheet)
	out := make([][]interface{}, 0, len(rows)+1)
	hdr := make([]interface{}, len(headers))
	for i, name := range headers {
		hdr[i] = name
	}
	out = append(out, hdr)
	if len(rows) == 0 {
		return out
	}
	idx := indexHeaders(rows[0])
	for _, row := range rows[1:] {
		mapped := make([]interface{}, len(headers))
		for i, name := range headers {
			mapped[i] = idx.cell(row, name)
		}
		out = append(out, mapped)
	}
	return out
}

// headerIndex maps header names to column positions for a fetched sheet.
type headerIndex map[string]int

func indexHeaders(row []interface{}) headerIndex {
	idx := make(headerIndex, len(row))
	for i, cell := range row {
		name := strings.TrimSpace(cellString(cell))
		if name != "" {
			idx[name] = i
		}
	}
	return idx
}

// cell returns the named column of a row, or "" when the column is missing
// or the row is too short. Absent values map to the domain default.
func (h headerIndex) cell(row []interface{}, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return cellString(row[i])
}

func propertyFromSheetRow(h headerIndex, row []interface{}) (models.Property, bool) {
	id := h.cell(row, "ID")
	if id == "" {
		return models.Property{}, false
	}
	return models.Property{
		ID:      id,
		Address: h.cell(row, "Address"),
		City:    h.cell(row, "City"),
		State:   h.cell(row, "State"),
		ZipCode: h.cell(row, "Zip Code"),
		Rent:    parseAmount(h.cell(row, "Rent")),
		Status:  models.PropertyStatus(h.cell(row, "Status")),
	}, true
}

func propertyToSheetRow(p models.Property) []interface{} {
	return []interface{}{p.ID, p.Address, p.City, p.State, p.ZipCode, p.Rent, string(p.Status)}
}

func tenantFromSheetRow(h headerIndex, row []interface{}) (models.Tenant, bool) {
	id := h.cell(row, "ID")
	if id == "" {
		return models.Tenant{}, false
	}
	return models.Tenant{
		ID:            id,
		Name:          h.cell(row, "Name"),
		Email:         h.cell(row, "Email"),
		Phone:         h.cell(row, "Phone"),
		PropertyID:    h.cell(row, "Property ID"),
		LeaseStart:    h.cell(row, "Lease Start"),
		LeaseEnd:      h.cell(row, "Lease End"),
		LeaseRenewal:  h.cell(row, "Lease Renewal"),
		RentAmount:    parseAmount(h.cell(row, "Rent Amount")),
		PaymentMethod: h.cell(row, "Payment Method"),
		LeaseType:     h.cell(row, "Lease Type"),
	}, true
}

func tenantToSheetRow(t models.Tenant) []interface{} {
	return []interface{}{t.ID, t.Name, t.Email, t.Phone, t.PropertyID, t.LeaseStart, t.LeaseEnd, t.LeaseRenewal, t.RentAmount, t.PaymentMethod, t.LeaseType}
}

func paymentFromSheetRow(h headerIndex, row []interface{}) (models.Payment, bool) {
	id := h.cell(row, "ID")
	if id == "" {
		return models.Payment{}, false
	}
	return models.Payment{
		ID:            id,
		PropertyID:    h.cell(row, "Property ID"),
		TenantID:      h.cell(row, "Tenant ID"),
		RentMonth:     h.cell(row, "Rent Month"),
		Amount:        parseAmount(h.cell(row, "Amount")),
		AmountPaid:    parseAmount(h.cell(row, "Amount Paid")),
		PaymentDate:   h.cell(row, "Payment Date"),
		Status:        models.PaymentStatus(h.cell(row, "Status")),
		PaymentMethod: h.cell(row, "Payment Method"),
	}, true
}

func paymentToSheetRow(p models.Payment) []interface{} {
	return []interface{}{p.ID, p.PropertyID, p.TenantID, p.RentMonth, p.Amount, p.AmountPaid, p.PaymentDate, string(p.Status), p.PaymentMethod}
}

func repairFromSheetRow(h headerIndex, row []interface{}) (models.RepairRequest, bool) {
	id := h.cell(row, "ID")
	if id == "" {
		return models.RepairRequest{}, false
	}
	return models.RepairRequest{
		ID:            id,
		TenantID:      h.cell(row, "Tenant ID"),
		PropertyID:    h.cell(row, "Property ID"),
		Title:         h.cell(row, "Title"),
		Description:   h.cell(row, "Description"),
		Priority:      h.cell(row, "Priority"),
		Status:        models.RepairStatus(h.cell(row, "Status")),
		DateSubmitted: h.cell(row, "Date Submitted"),
		DateResolved:  h.cell(row, "Date Resolved"),
		Category:      h.cell(row, "Category"),
		Notes:         h.cell(row, "Notes"),
	}, true
}

func repairToSheetRow(r models.RepairRequest) []interface{} {
	return []interface{}{r.ID, r.TenantID, r.PropertyID, r.Title, r.Description, r.Priority, string(r.Status), r.DateSubmitted, r.DateResolved, r.Category, r.Notes}
}
