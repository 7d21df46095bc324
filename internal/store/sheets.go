package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"landlord-service/internal/models"
)

// readRange caps how many rows a fetch pulls per sheet.
const readRange = "A1:Z5000"

// SheetsStore persists records in one spreadsheet with four sheets, using a
// Sheets-style values API over HTTP. The first row of each sheet is the
// header; data rows without an id in the first column are skipped on read.
// Writes are read-modify-write of the full used range.
type SheetsStore struct {
	baseURL       string
	spreadsheetID string
	tokens        *TokenSource
	httpClient    *http.Client
	logger        *logrus.Entry
}

// SheetsConfig carries the spreadsheet backend settings.
type SheetsConfig struct {
	BaseURL       string
	SpreadsheetID string
}

// NewSheetsStore creates the spreadsheet adapter.
func NewSheetsStore(cfg SheetsConfig, tokens *TokenSource, logger *logrus.Logger) *SheetsStore {
	return &SheetsStore{
		baseURL:       cfg.BaseURL,
		spreadsheetID: cfg.SpreadsheetID,
		tokens:        tokens,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		logger:        logger.WithField("component", "sheets_store"),
	}
}

func (s *SheetsStore) Kind() string { return KindSheets }

func (s *SheetsStore) Durable() bool { return true }

// TestConnection fetches the spreadsheet metadata. Any failure, including a
// dead refresh token, reports false rather than an error.
func (s *SheetsStore) TestConnection(ctx context.Context) bool {
	if s.spreadsheetID == "" || !s.tokens.Connected() {
		return false
	}
	_, err := s.sheetTitles(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("spreadsheet connection test failed")
		return false
	}
	return true
}

// ProvisionSchema ensures the four sheets exist, creating all missing ones
// in a single batchUpdate call, then writing their header rows.
func (s *SheetsStore) ProvisionSchema(ctx context.Context) error {
	titles, err := s.sheetTitles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sheets: %w", err)
	}

	existing := make(map[string]bool, len(titles))
	for _, t := range titles {
		existing[t] = true
	}

	wanted := map[string][]string{
		sheetProperties: propertyHeaders,
		sheetTenants:    tenantHeaders,
		sheetPayments:   paymentHeaders,
		sheetRepairs:    repairHeaders,
	}

	var requests []map[string]interface{}
	var missing []string
	for _, title := range []string{sheetProperties, sheetTenants, sheetPayments, sheetRepairs} {
		if !existing[title] {
			missing = append(missing, title)
			requests = append(requests, map[string]interface{}{
				"addSheet": map[string]interface{}{
					"properties": map[string]interface{}{"title": title},
				},
			})
		}
	}
	if len(requests) == 0 {
		return nil
	}

	batchURL := fmt.Sprintf("%s/%s:batchUpdate", s.baseURL, s.spreadsheetID)
	if err := s.doJSON(ctx, http.MethodPost, batchURL, map[string]interface{}{"requests": requests}, nil); err != nil {
		return fmt.Errorf("failed to create sheets: %w", err)
	}

	for _, title := range missing {
		header := make([]interface{}, len(wanted[title]))
		for i, h := range wanted[title] {
			header[i] = h
		}
		if err := s.writeRows(ctx, title, [][]interface{}{header}); err != nil {
			return fmt.Errorf("failed to write header for sheet %s: %w", title, err)
		}
	}

	s.logger.WithField("sheets", missing).Info("provisioned missing sheets")
	return nil
}

func (s *SheetsStore) FetchProperties(ctx context.Context) ([]models.Property, error) {
	header, rows, err := s.readRows(ctx, sheetProperties)
	if err != nil {
		return nil, err
	}
	out := make([]models.Property, 0, len(rows))
	for _, row := range rows {
		if p, ok := propertyFromSheetRow(header, row); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *SheetsStore) CreateProperty(ctx context.Context, p models.Property) (models.Property, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	err := s.appendRecord(ctx, sheetProperties, propertyToSheetRow(p))
	if err != nil {
		return models.Property{}, err
	}
	return p, nil
}

func (s *SheetsStore) UpdateProperty(ctx context.Context, p models.Property) (models.Property, error) {
	if err := s.replaceRecord(ctx, sheetProperties, p.ID, propertyToSheetRow(p)); err != nil {
		return models.Property{}, err
	}
	return p, nil
}

func (s *SheetsStore) DeleteProperty(ctx context.Context, id string) error {
	return s.removeRecord(ctx, sheetProperties, id)
}

func (s *SheetsStore) FetchTenants(ctx context.Context) ([]models.Tenant, error) {
	header, rows, err := s.readRows(ctx, sheetTenants)
	if err != nil {
		return nil, err
	}
	out := make([]models.Tenant, 0, len(rows))
	for _, row := range rows {
		if t, ok := tenantFromSheetRow(header, row); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *SheetsStore) CreateTenant(ctx context.Context, t models.Tenant) (models.Tenant, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if err := s.appendRecord(ctx, sheetTenants, tenantToSheetRow(t)); err != nil {
		return models.Tenant{}, err
	}
	return t, nil
}

func (s *SheetsStore) UpdateTenant(ctx context.Context, t models.Tenant) (models.Tenant, error) {
	if err := s.replaceRecord(ctx, sheetTenants, t.ID, tenantToSheetRow(t)); err != nil {
		return models.Tenant{}, err
	}
	return t, nil
}

func (s *SheetsStore) DeleteTenant(ctx context.Context, id string) error {
	return s.removeRecord(ctx, sheetTenants, id)
}

func (s *SheetsStore) FetchPayments(ctx context.Context) ([]models.Payment, error) {
	header, rows, err := s.readRows(ctx, sheetPayments)
	if err != nil {
		return nil, err
	}
	out := make([]models.Payment, 0, len(rows))
	for _, row := range rows {
		if p, ok := paymentFromSheetRow(header, row); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *SheetsStore) CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if err := s.appendRecord(ctx, sheetPayments, paymentToSheetRow(p)); err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

func (s *SheetsStore) UpdatePayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	if err := s.replaceRecord(ctx, sheetPayments, p.ID, paymentToSheetRow(p)); err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

func (s *SheetsStore) DeletePayment(ctx context.Context, id string) error {
	return s.removeRecord(ctx, sheetPayments, id)
}

func (s *SheetsStore) FetchRepairs(ctx context.Context) ([]models.RepairRequest, error) {
	header, rows, err := s.readRows(ctx, sheetRepairs)
	if err != nil {
		return nil, err
	}
	out := make([]models.RepairRequest, 0, len(rows))
	for _, row := range rows {
		if r, ok := repairFromSheetRow(header, row); ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *SheetsStore) CreateRepair(ctx context.Context, r models.RepairRequest) (models.RepairRequest, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if err := s.appendRecord(ctx, sheetRepairs, repairToSheetRow(r)); err != nil {
		return models.RepairRequest{}, err
	}
	return r, nil
}

func (s *SheetsStore) UpdateRepair(ctx context.Context, r models.RepairRequest) (models.RepairRequest, error) {
	if err := s.replaceRecord(ctx, sheetRepairs, r.ID, repairToSheetRow(r)); err != nil {
		return models.RepairRequest{}, err
	}
	return r, nil
}

func (s *SheetsStore) DeleteRepair(ctx context.Context, id string) error {
	return s.removeRecord(ctx, sheetRepairs, id)
}

// appendRecord re-reads the sheet and rewrites it, normalized to canonical
// column order, with the new row added.
func (s *SheetsStore) appendRecord(ctx context.Context, sheet string, row []interface{}) error {
	if !s.tokens.Connected() {
		return ErrNotConnected
	}
	rows, err := s.rawRows(ctx, sheet)
	if err != nil {
		return err
	}
	rows = normalizeRows(sheet, rows)
	return s.writeRows(ctx, sheet, append(rows, row))
}

// replaceRecord rewrites the sheet, normalized to canonical column order,
// with the row matching id replaced.
func (s *SheetsStore) replaceRecord(ctx context.Context, sheet, id string, row []interface{}) error {
	if !s.tokens.Connected() {
		return ErrNotConnected
	}
	if id == "" {
		return ErrNotFound
	}
	rows, err := s.rawRows(ctx, sheet)
	if err != nil {
		return err
	}
	rows = normalizeRows(sheet, rows)
	replaced := false
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) > 0 && cellString(rows[i][0]) == id {
			rows[i] = row
			replaced = true
			break
		}
	}
	if !replaced {
		return ErrNotFound
	}
	return s.writeRows(ctx, sheet, rows)
}

// removeRecord rewrites the sheet without the row matching id.
func (s *SheetsStore) removeRecord(ctx context.Context, sheet, id string) error {
	if !s.tokens.Connected() {
		return ErrNotConnected
	}
	rows, err := s.rawRows(ctx, sheet)
	if err != nil {
		return err
	}
	rows = normalizeRows(sheet, rows)
	kept := rows[:0]
	removed := false
	for i, row := range rows {
		if i > 0 && len(row) > 0 && cellString(row[0]) == id {
			removed = true
			continue
		}
		kept = append(kept, row)
	}
	if !removed {
		return ErrNotFound
	}
	return s.writeRows(ctx, sheet, kept)
}

// readRows fetches a sheet and splits it into header index and data rows.
func (s *SheetsStore) readRows(ctx context.Context, sheet string) (headerIndex, [][]interface{}, error) {
	rows, err := s.rawRows(ctx, sheet)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return headerIndex{}, nil, nil
	}
	return indexHeaders(rows[0]), rows[1:], nil
}

type valuesResponse struct {
	Values [][]interface{} `json:"values"`
}

// rawRows fetches the used range of a sheet, header row included.
func (s *SheetsStore) rawRows(ctx context.Context, sheet string) ([][]interface{}, error) {
	rng := url.PathEscape(fmt.Sprintf("%s!%s", sheet, readRange))
	getURL := fmt.Sprintf("%s/%s/values/%s", s.baseURL, s.spreadsheetID, rng)

	var resp valuesResponse
	if err := s.doJSON(ctx, http.MethodGet, getURL, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return resp.Values, nil
}

// writeRows clears the used range and rewrites it in full.
func (s *SheetsStore) writeRows(ctx context.Context, sheet string, rows [][]interface{}) error {
	rng := url.PathEscape(fmt.Sprintf("%s!%s", sheet, readRange))

	clearURL := fmt.Sprintf("%s/%s/values/%s:clear", s.baseURL, s.spreadsheetID, rng)
	if err := s.doJSON(ctx, http.MethodPost, clearURL, map[string]interface{}{}, nil); err != nil {
		return fmt.Errorf("failed to clear sheet %s: %w", sheet, err)
	}

	updateURL := fmt.Sprintf("%s/%s/values/%s?valueInputOption=RAW", s.baseURL, s.spreadsheetID, rng)
	body := map[string]interface{}{"values": rows}
	if err := s.doJSON(ctx, http.MethodPut, updateURL, body, nil); err != nil {
		return fmt.Errorf("failed to write sheet %s: %w", sheet, err)
	}
	return nil
}

type spreadsheetMeta struct {
	Sheets []struct {
		Properties struct {
			Title string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

// sheetTitles lists the titles of all sheets in the spreadsheet.
func (s *SheetsStore) sheetTitles(ctx context.Context) ([]string, error) {
	metaURL := fmt.Sprintf("%s/%s?fields=sheets.properties.title", s.baseURL, s.spreadsheetID)
	var meta spreadsheetMeta
	if err := s.doJSON(ctx, http.MethodGet, metaURL, nil, &meta); err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(meta.Sheets))
	for _, sh := range meta.Sheets {
		titles = append(titles, sh.Properties.Title)
	}
	return titles, nil
}

// doJSON performs an authenticated request, decoding the response into out
// when out is non-nil.
func (s *SheetsStore) doJSON(ctx context.Context, method, rawURL string, body interface{}, out interface{}) error {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return err
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spreadsheet request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: spreadsheet API returned %d", ErrNotConnected, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("spreadsheet API returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
