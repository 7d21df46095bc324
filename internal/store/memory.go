package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"landlord-service/internal/models"
)

// MemoryStore keeps records in process memory for the lifetime of the
// service. It backs STORE_BACKEND=memory and doubles as the test double for
// every component that takes a Store. Fetches return records in insertion
// order; all operations succeed except updates/deletes of unknown ids.
type MemoryStore struct {
	mu         sync.RWMutex
	properties []models.Property
	tenants    []models.Tenant
	payments   []models.Payment
	repairs    []models.RepairRequest
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Kind() string { return KindMemory }

func (s *MemoryStore) Durable() bool { return false }

func (s *MemoryStore) TestConnection(_ context.Context) bool { return true }

func (s *MemoryStore) FetchProperties(_ context.Context) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Property, len(s.properties))
	copy(out, s.properties)
	return out, nil
}

func (s *MemoryStore) CreateProperty(_ context.Context, p models.Property) (models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.properties = append(s.properties, p)
	return p, nil
}

func (s *MemoryStore) UpdateProperty(_ context.Context, p models.Property) (models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.properties {
		if s.properties[i].ID == p.ID {
			s.properties[i] = p
			return p, nil
		}
	}
	return models.Property{}, ErrNotFound
}

func (s *MemoryStore) DeleteProperty(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.properties {
		if s.properties[i].ID == id {
			s.properties = append(s.properties[:i], s.properties[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) FetchTenants(_ context.Context) ([]models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tenant, len(s.tenants))
	copy(out, s.tenants)
	return out, nil
}

func (s *MemoryStore) CreateTenant(_ context.Context, t models.Tenant) (models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	s.tenants = append(s.tenants, t)
	return t, nil
}

func (s *MemoryStore) UpdateTenant(_ context.Context, t models.Tenant) (models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tenants {
		if s.tenants[i].ID == t.ID {
			s.tenants[i] = t
			return t, nil
		}
	}
	return models.Tenant{}, ErrNotFound
}

func (s *MemoryStore) DeleteTenant(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tenants {
		if s.tenants[i].ID == id {
			s.tenants = append(s.tenants[:i], s.tenants[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) FetchPayments(_ context.Context) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Payment, len(s.payments))
	copy(out, s.payments)
	return out, nil
}

func (s *MemoryStore) CreatePayment(_ context.Context, p models.Payment) (models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.payments = append(s.payments, p)
	return p, nil
}

func (s *MemoryStore) UpdatePayment(_ context.Context, p models.Payment) (models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.payments {
		if s.payments[i].ID == p.ID {
			s.payments[i] = p
			return p, nil
		}
	}
	return models.Payment{}, ErrNotFound
}

func (s *MemoryStore) DeletePayment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.payments {
		if s.payments[i].ID == id {
			s.payments = append(s.payments[:i], s.payments[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) FetchRepairs(_ context.Context) ([]models.RepairRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.RepairRequest, len(s.repairs))
	copy(out, s.repairs)
	return out, nil
}

func (s *MemoryStore) CreateRepair(_ context.Context, r models.RepairRequest) (models.RepairRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	s.repairs = append(s.repairs, r)
	return r, nil
}

func (s *MemoryStore) UpdateRepair(_ context.Context, r models.RepairRequest) (models.RepairRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.repairs {
		if s.repairs[i].ID == r.ID {
			s.repairs[i] = r
			return r, nil
		}
	}
	return models.RepairRequest{}, ErrNotFound
}

func (s *MemoryStore) DeleteRepair(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.repairs {
		if s.repairs[i].ID == id {
			s.repairs = append(s.repairs[:i], s.repairs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
