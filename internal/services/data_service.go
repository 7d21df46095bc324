package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"landlord-service/internal/metrics"
	"landlord-service/internal/models"
	natsClient "landlord-service/internal/nats"
	"landlord-service/internal/payments"
	redisClient "landlord-service/internal/redis"
	"landlord-service/internal/seed"
	"landlord-service/internal/store"
)

// DataService owns the authoritative in-memory collections and composes
// store writes with memory mutation and cross-entity side effects. Every
// mutation writes to the store first and commits to memory only on success;
// a failed write leaves memory untouched. No other component mutates the
// collections; accessors hand out copies.
type DataService struct {
	mu    sync.RWMutex
	store store.Store

	events *natsClient.Client
	cache  *redisClient.Client
	logger *logrus.Entry

	cascadeRepairs bool
	demoFallback   bool

	properties []models.Property
	tenants    []models.Tenant
	payments   []models.Payment
	repairs    []models.RepairRequest
}

// NewDataService creates the orchestration layer over the given store.
func NewDataService(st store.Store, logger *logrus.Logger) *DataService {
	return &DataService{
		store:          st,
		logger:         logger.WithField("component", "data_service"),
		cascadeRepairs: true,
		demoFallback:   true,
	}
}

// SetEventPublisher wires the optional NATS publisher.
func (s *DataService) SetEventPublisher(c *natsClient.Client) { s.events = c }

// SetCache wires the optional Redis cache; the service invalidates the
// dashboard summary on every mutation.
func (s *DataService) SetCache(c *redisClient.Client) { s.cache = c }

// SetCascadeRepairs controls whether deleting a property or tenant also
// removes the associated repair requests.
func (s *DataService) SetCascadeRepairs(v bool) { s.cascadeRepairs = v }

// SetDemoFallback controls whether an unreachable backend falls back to the
// illustrative dataset (development) or to empty collections (production).
func (s *DataService) SetDemoFallback(v bool) { s.demoFallback = v }

// Load populates the collections on startup. If a durable backend is
// reachable it bulk-fetches all four entity kinds (provisioning the
// spreadsheet schema first when needed); with no durable backend, or when
// the backend is down, it degrades to the demo dataset or empty
// collections, logging why.
func (s *DataService) Load(ctx context.Context) {
	if !s.store.Durable() {
		s.logger.WithField("backend", s.store.Kind()).Info("no durable backend configured")
		s.loadFallback()
		return
	}

	if s.store.TestConnection(ctx) {
		if p, ok := s.store.(store.Provisioner); ok {
			if err := p.ProvisionSchema(ctx); err != nil {
				s.storeError()
				s.logger.WithError(err).Error("schema provisioning failed")
				s.loadFallback()
				return
			}
		}
		if err := s.loadFromStore(ctx); err != nil {
			s.storeError()
			s.logger.WithError(err).Error("initial fetch failed")
			s.loadFallback()
		}
		return
	}

	s.logger.WithField("backend", s.store.Kind()).Warn("durable backend unreachable")
	s.loadFallback()
}

func (s *DataService) loadFromStore(ctx context.Context) error {
	props, err := s.store.FetchProperties(ctx)
	if err != nil {
		return err
	}
	tenants, err := s.store.FetchTenants(ctx)
	if err != nil {
		return err
	}
	pays, err := s.store.FetchPayments(ctx)
	if err != nil {
		return err
	}
	repairs, err := s.store.FetchRepairs(ctx)
	if err != nil {
		return err
	}

	s.ReplaceAll(props, tenants, pays, repairs)
	s.logger.WithFields(logrus.Fields{
		"properties": len(props),
		"tenants":    len(tenants),
		"payments":   len(pays),
		"repairs":    len(repairs),
	}).Info("collections loaded from store")
	return nil
}

func (s *DataService) loadFallback() {
	if !s.demoFallback {
		s.ReplaceAll(nil, nil, nil, nil)
		return
	}
	s.ReplaceAll(seed.Properties(), seed.Tenants(), seed.Payments(), seed.Repairs())
	s.logger.Info("loaded illustrative dataset")
}

// ReplaceAll swaps the four collections wholesale. Used by startup loading
// and by the sync coordinator's pull-and-replace.
func (s *DataService) ReplaceAll(props []models.Property, tenants []models.Tenant, pays []models.Payment, repairs []models.RepairRequest) {
	s.mu.Lock()
	s.properties = append([]models.Property(nil), props...)
	s.tenants = append([]models.Tenant(nil), tenants...)
	s.payments = append([]models.Payment(nil), pays...)
	s.repairs = append([]models.RepairRequest(nil), repairs...)
	s.mu.Unlock()
	s.invalidateCache()
}

// Store exposes the backing store, e.g. for the sync coordinator.
func (s *DataService) Store() store.Store { return s.store }

// Properties returns a copy of the property collection.
func (s *DataService) Properties() []models.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Property(nil), s.properties...)
}

// Tenants returns a copy of the tenant collection.
func (s *DataService) Tenants() []models.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Tenant(nil), s.tenants...)
}

// Payments returns a copy of the payment collection.
func (s *DataService) Payments() []models.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Payment(nil), s.payments...)
}

// Repairs returns a copy of the repair collection.
func (s *DataService) Repairs() []models.RepairRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RepairRequest(nil), s.repairs...)
}

// PropertyByID looks up a property.
func (s *DataService) PropertyByID(id string) (models.Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.properties {
		if p.ID == id {
			return p, true
		}
	}
	return models.Property{}, false
}

// TenantByID looks up a tenant.
func (s *DataService) TenantByID(id string) (models.Tenant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tenants {
		if t.ID == id {
			return t, true
		}
	}
	return models.Tenant{}, false
}

// PaymentByID looks up a payment.
func (s *DataService) PaymentByID(id string) (models.Payment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.payments {
		if p.ID == id {
			return p, true
		}
	}
	return models.Payment{}, false
}

// RepairByID looks up a repair request.
func (s *DataService) RepairByID(id string) (models.RepairRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.repairs {
		if r.ID == id {
			return r, true
		}
	}
	return models.RepairRequest{}, false
}

// AddProperty persists and registers a new property.
func (s *DataService) AddProperty(ctx context.Context, p models.Property) (models.Property, error) {
	if p.Address == "" {
		return models.Property{}, NewValidationError("address", "address is required")
	}
	if p.Status == "" {
		p.Status = models.PropertyVacant
	}
	created, err := s.store.CreateProperty(ctx, p)
	if err != nil {
		s.storeError()
		return models.Property{}, fmt.Errorf("failed to add property: %w", err)
	}

	s.mu.Lock()
	s.properties = append(s.properties, created)
	s.mu.Unlock()

	s.events.PublishPropertyCreated(created)
	s.invalidateCache()
	return created, nil
}

// PropertyUpdate carries a partial property update; nil fields are left
// unchanged.
type PropertyUpdate struct {
	Address *string                `json:"address"`
	City    *string                `json:"city"`
	State   *string                `json:"state"`
	ZipCode *string                `json:"zip_code"`
	Rent    *float64               `json:"rent"`
	Status  *models.PropertyStatus `json:"status"`
}

// UpdateProperty applies a partial update.
func (s *DataService) UpdateProperty(ctx context.Context, id string, upd PropertyUpdate) (models.Property, error) {
	current, ok := s.PropertyByID(id)
	if !ok {
		return models.Property{}, store.ErrNotFound
	}

	if upd.Address != nil {
		current.Address = *upd.Address
	}
	if upd.City != nil {
		current.City = *upd.City
	}
	if upd.State != nil {
		current.State = *upd.State
	}
	if upd.ZipCode != nil {
		current.ZipCode = *upd.ZipCode
	}
	if upd.Rent != nil {
		current.Rent = *upd.Rent
	}
	if upd.Status != nil {
		current.Status = *upd.Status
	}

	updated, err := s.store.UpdateProperty(ctx, current)
	if err != nil {
		s.storeError()
		return models.Property{}, fmt.Errorf("failed to update property: %w", err)
	}

	s.commitProperty(updated)
	s.invalidateCache()
	return updated, nil
}

// DeleteProperty removes a property and cascades to its tenants and
// payments, and to its repair requests when cascading repairs is enabled.
// The property delete must succeed remotely before anything is touched;
// cascade deletions are best-effort per record.
func (s *DataService) DeleteProperty(ctx context.Context, id string) error {
	prop, ok := s.PropertyByID(id)
	if !ok {
		return store.ErrNotFound
	}

	if err := s.store.DeleteProperty(ctx, id); err != nil {
		s.storeError()
		return fmt.Errorf("failed to delete property: %w", err)
	}

	for _, t := range s.Tenants() {
		if t.PropertyID != id {
			continue
		}
		if err := s.store.DeleteTenant(ctx, t.ID); err != nil {
			s.storeError()
			s.logger.WithError(err).WithField("tenant_id", t.ID).Error("cascade tenant delete failed")
		}
	}
	for _, p := range s.Payments() {
		if p.PropertyID != id {
			continue
		}
		if err := s.store.DeletePayment(ctx, p.ID); err != nil {
			s.storeError()
			s.logger.WithError(err).WithField("payment_id", p.ID).Error("cascade payment delete failed")
		}
	}
	if s.cascadeRepairs {
		for _, r := range s.Repairs() {
			if r.PropertyID != id {
				continue
			}
			if err := s.store.DeleteRepair(ctx, r.ID); err != nil {
				s.storeError()
				s.logger.WithError(err).WithField("repair_id", r.ID).Error("cascade repair delete failed")
			}
		}
	}

	s.mu.Lock()
	s.properties = filterProperties(s.properties, func(p models.Property) bool { return p.ID != id })
	s.tenants = filterTenants(s.tenants, func(t models.Tenant) bool { return t.PropertyID != id })
	s.payments = filterPayments(s.payments, func(p models.Payment) bool { return p.PropertyID != id })
	if s.cascadeRepairs {
		s.repairs = filterRepairs(s.repairs, func(r models.RepairRequest) bool { return r.PropertyID != id })
	}
	s.mu.Unlock()

	s.events.PublishPropertyDeleted(prop)
	s.invalidateCache()
	return nil
}

// AddTenant persists a new tenant, computing the lease-renewal reminder
// date, then marks the referenced property occupied.
func (s *DataService) AddTenant(ctx context.Context, t models.Tenant) (models.Tenant, error) {
	if t.Name == "" {
		return models.Tenant{}, NewValidationError("name", "name is required")
	}
	if t.PropertyID != "" {
		if _, ok := s.PropertyByID(t.PropertyID); !ok {
			return models.Tenant{}, NewValidationError("property_id", "unknown property")
		}
	}
	t.LeaseRenewal = models.LeaseRenewalDate(t.LeaseEnd)

	created, err := s.store.CreateTenant(ctx, t)
	if err != nil {
		s.storeError()
		return models.Tenant{}, fmt.Errorf("failed to add tenant: %w", err)
	}

	s.mu.Lock()
	s.tenants = append(s.tenants, created)
	s.mu.Unlock()

	s.setPropertyStatus(ctx, created.PropertyID, models.PropertyOccupied)
	s.events.PublishTenantCreated(created)
	s.invalidateCache()
	return created, nil
}

// TenantUpdate carries a partial tenant update; nil fields are left
// unchanged. Changing LeaseEnd recomputes the renewal reminder.
type TenantUpdate struct {
	Name          *string  `json:"name"`
	Email         *string  `json:"email"`
	Phone         *string  `json:"phone"`
	LeaseStart    *string  `json:"lease_start"`
	LeaseEnd      *string  `json:"lease_end"`
	RentAmount    *float64 `json:"rent_amount"`
	PaymentMethod *string  `json:"payment_method"`
	LeaseType     *string  `json:"lease_type"`
}

// UpdateTenant applies a partial update, recomputing the lease renewal
// whenever the lease end changes.
func (s *DataService) UpdateTenant(ctx context.Context, id string, upd TenantUpdate) (models.Tenant, error) {
	current, ok := s.TenantByID(id)
	if !ok {
		return models.Tenant{}, store.ErrNotFound
	}

	if upd.Name != nil {
		current.Name = *upd.Name
	}
	if upd.Email != nil {
		current.Email = *upd.Email
	}
	if upd.Phone != nil {
		current.Phone = *upd.Phone
	}
	if upd.LeaseStart != nil {
		current.LeaseStart = *upd.LeaseStart
	}
	if upd.LeaseEnd != nil {
		current.LeaseEnd = *upd.LeaseEnd
		current.LeaseRenewal = models.LeaseRenewalDate(current.LeaseEnd)
	}
	if upd.RentAmount != nil {
		current.RentAmount = *upd.RentAmount
	}
	if upd.PaymentMethod != nil {
		current.PaymentMethod = *upd.PaymentMethod
	}
	if upd.LeaseType != nil {
		current.LeaseType = *upd.LeaseType
	}

	updated, err := s.store.UpdateTenant(ctx, current)
	if err != nil {
		s.storeError()
		return models.Tenant{}, fmt.Errorf("failed to update tenant: %w", err)
	}

	s.commitTenant(updated)
	s.invalidateCache()
	return updated, nil
}

// DeleteTenant removes a tenant, cascades the tenant's payments (and repair
// requests when cascading repairs is enabled), and marks the property vacant
// again.
func (s *DataService) DeleteTenant(ctx context.Context, id string) error {
	tenant, ok := s.TenantByID(id)
	if !ok {
		return store.ErrNotFound
	}

	if err := s.store.DeleteTenant(ctx, id); err != nil {
		s.storeError()
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	for _, p := range s.Payments() {
		if p.TenantID != id {
			continue
		}
		if err := s.store.DeletePayment(ctx, p.ID); err != nil {
			s.storeError()
			s.logger.WithError(err).WithField("payment_id", p.ID).Error("cascade payment delete failed")
		}
	}
	if s.cascadeRepairs {
		for _, r := range s.Repairs() {
			if r.TenantID != id {
				continue
			}
			if err := s.store.DeleteRepair(ctx, r.ID); err != nil {
				s.storeError()
				s.logger.WithError(err).WithField("repair_id", r.ID).Error("cascade repair delete failed")
			}
		}
	}

	s.mu.Lock()
	s.tenants = filterTenants(s.tenants, func(t models.Tenant) bool { return t.ID != id })
	s.payments = filterPayments(s.payments, func(p models.Payment) bool { return p.TenantID != id })
	if s.cascadeRepairs {
		s.repairs = filterRepairs(s.repairs, func(r models.RepairRequest) bool { return r.TenantID != id })
	}
	s.mu.Unlock()

	s.setPropertyStatus(ctx, tenant.PropertyID, models.PropertyVacant)
	s.events.PublishTenantDeleted(tenant)
	s.invalidateCache()
	return nil
}

// AddPayment persists a manually entered payment. Status is always derived
// from the amounts, never taken from the caller.
func (s *DataService) AddPayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	if p.PropertyID == "" {
		return models.Payment{}, NewValidationError("property_id", "property_id is required")
	}
	if _, ok := s.PropertyByID(p.PropertyID); !ok {
		return models.Payment{}, NewValidationError("property_id", "unknown property")
	}
	p.Status = models.PaymentStatusFor(p.Amount, p.AmountPaid)

	created, err := s.store.CreatePayment(ctx, p)
	if err != nil {
		s.storeError()
		return models.Payment{}, fmt.Errorf("failed to add payment: %w", err)
	}

	s.mu.Lock()
	s.payments = append(s.payments, created)
	s.mu.Unlock()

	s.invalidateCache()
	return created, nil
}

// PaymentUpdate carries a partial payment update; nil fields are left
// unchanged. Status is recomputed from the merged amounts on every update.
type PaymentUpdate struct {
	TenantID      *string  `json:"tenant_id"`
	Amount        *float64 `json:"amount"`
	AmountPaid    *float64 `json:"amount_paid"`
	PaymentDate   *string  `json:"payment_date"`
	PaymentMethod *string  `json:"payment_method"`
}

// UpdatePayment applies a partial update and re-derives the status.
func (s *DataService) UpdatePayment(ctx context.Context, id string, upd PaymentUpdate) (models.Payment, error) {
	current, ok := s.PaymentByID(id)
	if !ok {
		return models.Payment{}, store.ErrNotFound
	}

	if upd.TenantID != nil {
		current.TenantID = *upd.TenantID
	}
	if upd.Amount != nil {
		current.Amount = *upd.Amount
	}
	if upd.AmountPaid != nil {
		current.AmountPaid = *upd.AmountPaid
	}
	if upd.PaymentDate != nil {
		current.PaymentDate = *upd.PaymentDate
	}
	if upd.PaymentMethod != nil {
		current.PaymentMethod = *upd.PaymentMethod
	}
	current.Status = models.PaymentStatusFor(current.Amount, current.AmountPaid)

	updated, err := s.store.UpdatePayment(ctx, current)
	if err != nil {
		s.storeError()
		return models.Payment{}, fmt.Errorf("failed to update payment: %w", err)
	}

	s.commitPayment(updated)
	s.invalidateCache()
	return updated, nil
}

// DeletePayment removes a single payment.
func (s *DataService) DeletePayment(ctx context.Context, id string) error {
	if _, ok := s.PaymentByID(id); !ok {
		return store.ErrNotFound
	}
	if err := s.store.DeletePayment(ctx, id); err != nil {
		s.storeError()
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	s.mu.Lock()
	s.payments = filterPayments(s.payments, func(p models.Payment) bool { return p.ID != id })
	s.mu.Unlock()

	s.invalidateCache()
	return nil
}

// AddRepair persists a new repair request, defaulting status and submission
// date.
func (s *DataService) AddRepair(ctx context.Context, r models.RepairRequest) (models.RepairRequest, error) {
	if r.Title == "" {
		return models.RepairRequest{}, NewValidationError("title", "title is required")
	}
	if r.PropertyID == "" {
		return models.RepairRequest{}, NewValidationError("property_id", "property_id is required")
	}
	if _, ok := s.PropertyByID(r.PropertyID); !ok {
		return models.RepairRequest{}, NewValidationError("property_id", "unknown property")
	}
	if r.Status == "" {
		r.Status = models.RepairPending
	}
	if r.DateSubmitted == "" {
		r.DateSubmitted = time.Now().Format(models.DateLayout)
	}

	created, err := s.store.CreateRepair(ctx, r)
	if err != nil {
		s.storeError()
		return models.RepairRequest{}, fmt.Errorf("failed to add repair request: %w", err)
	}

	s.mu.Lock()
	s.repairs = append(s.repairs, created)
	s.mu.Unlock()

	s.invalidateCache()
	return created, nil
}

// RepairUpdate carries a partial repair update; nil fields are left
// unchanged.
type RepairUpdate struct {
	Title        *string              `json:"title"`
	Description  *string              `json:"description"`
	Priority     *string              `json:"priority"`
	Status       *models.RepairStatus `json:"status"`
	DateResolved *string              `json:"date_resolved"`
	Category     *string              `json:"category"`
	Notes        *string              `json:"notes"`
}

// UpdateRepair applies a partial update, stamping the resolution date the
// moment the request transitions to completed without one already set.
func (s *DataService) UpdateRepair(ctx context.Context, id string, upd RepairUpdate) (models.RepairRequest, error) {
	current, ok := s.RepairByID(id)
	if !ok {
		return models.RepairRequest{}, store.ErrNotFound
	}

	if upd.Title != nil {
		current.Title = *upd.Title
	}
	if upd.Description != nil {
		current.Description = *upd.Description
	}
	if upd.Priority != nil {
		current.Priority = *upd.Priority
	}
	if upd.DateResolved != nil {
		current.DateResolved = *upd.DateResolved
	}
	if upd.Category != nil {
		current.Category = *upd.Category
	}
	if upd.Notes != nil {
		current.Notes = *upd.Notes
	}
	if upd.Status != nil {
		current.Status = *upd.Status
		if current.Status == models.RepairCompleted && current.DateResolved == "" {
			current.DateResolved = time.Now().Format(models.DateLayout)
		}
	}

	updated, err := s.store.UpdateRepair(ctx, current)
	if err != nil {
		s.storeError()
		return models.RepairRequest{}, fmt.Errorf("failed to update repair request: %w", err)
	}

	s.commitRepair(updated)
	s.invalidateCache()
	return updated, nil
}

// DeleteRepair removes a single repair request.
func (s *DataService) DeleteRepair(ctx context.Context, id string) error {
	if _, ok := s.RepairByID(id); !ok {
		return store.ErrNotFound
	}
	if err := s.store.DeleteRepair(ctx, id); err != nil {
		s.storeError()
		return fmt.Errorf("failed to delete repair request: %w", err)
	}

	s.mu.Lock()
	s.repairs = filterRepairs(s.repairs, func(r models.RepairRequest) bool { return r.ID != id })
	s.mu.Unlock()

	s.invalidateCache()
	return nil
}

// GenerateForMonth runs the single-month generator and persists the result.
func (s *DataService) GenerateForMonth(ctx context.Context, target time.Time, force bool) (payments.Summary, error) {
	props, tenants, existing := s.snapshot()
	created, summary := payments.ForMonth(target, props, tenants, existing, force)
	persisted := s.persistGenerated(ctx, created)
	summary.Generated = len(persisted)
	s.announceGenerated(summary)
	return summary, nil
}

// GenerateForMonthYear generates for an explicit month and year.
func (s *DataService) GenerateForMonthYear(ctx context.Context, month time.Month, year int, force bool) (payments.Summary, error) {
	return s.GenerateForMonth(ctx, time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), force)
}

// GenerateCurrentAndNext generates for the current and immediately next
// month.
func (s *DataService) GenerateCurrentAndNext(ctx context.Context, now time.Time, force bool) ([]payments.Summary, error) {
	return s.GenerateForMonthsAhead(ctx, now, 2, force)
}

// GenerateForRange generates across an inclusive month range.
func (s *DataService) GenerateForRange(ctx context.Context, from, to time.Time, force bool) ([]payments.Summary, error) {
	props, tenants, existing := s.snapshot()
	created, summaries := payments.ForRange(from, to, props, tenants, existing, force)
	persisted := s.persistGenerated(ctx, created)
	summaries = recount(summaries, persisted)
	for _, sum := range summaries {
		s.announceGenerated(sum)
	}
	return summaries, nil
}

// GenerateForMonthsAhead generates for n consecutive months starting with
// the month containing start.
func (s *DataService) GenerateForMonthsAhead(ctx context.Context, start time.Time, n int, force bool) ([]payments.Summary, error) {
	props, tenants, existing := s.snapshot()
	created, summaries := payments.ForMonthsAhead(start, n, props, tenants, existing, force)
	persisted := s.persistGenerated(ctx, created)
	summaries = recount(summaries, persisted)
	for _, sum := range summaries {
		s.announceGenerated(sum)
	}
	return summaries, nil
}

// snapshot copies the inputs the generator needs under one read lock.
func (s *DataService) snapshot() ([]models.Property, []models.Tenant, []models.Payment) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Property(nil), s.properties...),
		append([]models.Tenant(nil), s.tenants...),
		append([]models.Payment(nil), s.payments...)
}

// persistGenerated stores each synthesized payment. A per-payment failure is
// logged and skipped so one bad record never aborts the rest of the batch.
func (s *DataService) persistGenerated(ctx context.Context, created []models.Payment) []models.Payment {
	persisted := make([]models.Payment, 0, len(created))
	for _, p := range created {
		stored, err := s.store.CreatePayment(ctx, p)
		if err != nil {
			s.storeError()
			s.logger.WithError(err).WithFields(logrus.Fields{
				"property_id": p.PropertyID,
				"rent_month":  p.RentMonth,
			}).Error("failed to persist generated payment")
			continue
		}
		persisted = append(persisted, stored)
	}

	if len(persisted) > 0 {
		s.mu.Lock()
		s.payments = append(s.payments, persisted...)
		s.mu.Unlock()
		metrics.PaymentsGeneratedTotal.Add(float64(len(persisted)))
		s.invalidateCache()
	}
	return persisted
}

func (s *DataService) announceGenerated(sum payments.Summary) {
	if sum.Generated > 0 {
		s.events.PublishPaymentsGenerated(sum.Month, sum.Generated)
	}
}

// recount rewrites per-month summaries with the counts that actually
// persisted.
func recount(summaries []payments.Summary, persisted []models.Payment) []payments.Summary {
	byMonth := make(map[string]int, len(persisted))
	for _, p := range persisted {
		byMonth[p.RentMonth]++
	}
	out := make([]payments.Summary, 0, len(summaries))
	for _, sum := range summaries {
		sum.Generated = byMonth[sum.Month]
		out = append(out, sum)
	}
	return out
}

// setPropertyStatus flips a property's occupancy as a side effect of tenant
// changes. Failures are logged, not propagated: the tenant mutation already
// committed.
func (s *DataService) setPropertyStatus(ctx context.Context, propertyID string, status models.PropertyStatus) {
	if propertyID == "" {
		return
	}
	prop, ok := s.PropertyByID(propertyID)
	if !ok || prop.Status == status {
		return
	}
	prop.Status = status

	updated, err := s.store.UpdateProperty(ctx, prop)
	if err != nil {
		s.storeError()
		s.logger.WithError(err).WithField("property_id", propertyID).Error("failed to update property status")
		return
	}
	s.commitProperty(updated)
}

func (s *DataService) commitProperty(p models.Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.properties {
		if s.properties[i].ID == p.ID {
			s.properties[i] = p
			return
		}
	}
}

func (s *DataService) commitTenant(t models.Tenant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tenants {
		if s.tenants[i].ID == t.ID {
			s.tenants[i] = t
			return
		}
	}
}

func (s *DataService) commitPayment(p models.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.payments {
		if s.payments[i].ID == p.ID {
			s.payments[i] = p
			return
		}
	}
}

func (s *DataService) commitRepair(r models.RepairRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.repairs {
		if s.repairs[i].ID == r.ID {
			s.repairs[i] = r
			return
		}
	}
}

// storeError bumps the per-backend failure counter.
func (s *DataService) storeError() {
	metrics.StoreErrorsTotal.WithLabelValues(s.store.Kind()).Inc()
}

func (s *DataService) invalidateCache() {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.InvalidateDashboardSummary(ctx); err != nil {
		s.logger.WithError(err).Warn("failed to invalidate dashboard cache")
	}
}

func filterProperties(in []models.Property, keep func(models.Property) bool) []models.Property {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterTenants(in []models.Tenant, keep func(models.Tenant) bool) []models.Tenant {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterPayments(in []models.Payment, keep func(models.Payment) bool) []models.Payment {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterRepairs(in []models.RepairRequest, keep func(models.RepairRequest) bool) []models.RepairRequest {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
