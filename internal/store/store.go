// Package store translates domain records to and from the durable backends.
// Three interchangeable implementations exist: a relational adapter (gorm on
// postgres or sqlite), a spreadsheet adapter (HTTP values API) and a local
// in-memory adapter used when no durable backend is configured. Cascade
// logic never lives here; adapters delete exactly the record they are told
// to delete.
package store

import (
	"context"
	"errors"

	"landlord-service/internal/models"
)

var (
	// ErrNotConnected is returned by write operations invoked while the
	// adapter has no usable connection or credentials.
	ErrNotConnected = errors.New("store: not connected")

	// ErrReauthRequired is returned when the spreadsheet refresh token
	// itself is rejected and a new sign-in is needed.
	ErrReauthRequired = errors.New("store: reauthentication required")

	// ErrNotFound is returned when an update or delete targets a record
	// that does not exist.
	ErrNotFound = errors.New("store: record not found")
)

// Backend kinds selectable via STORE_BACKEND
const (
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
	KindSheets   = "sheets"
	KindMemory   = "memory"
)

// Store is the uniform persistence contract. Fetches return records in
// stable insertion order; creates return the record with its assigned id;
// updates replace the stored record matching the given record's id.
type Store interface {
	// Kind reports which backend this adapter talks to.
	Kind() string
	// Durable reports whether records survive process exit.
	Durable() bool
	// TestConnection reports reachability. It never returns an error;
	// callers use it to decide whether to fall back to local data.
	TestConnection(ctx context.Context) bool

	FetchProperties(ctx context.Context) ([]models.Property, error)
	CreateProperty(ctx context.Context, p models.Property) (models.Property, error)
	UpdateProperty(ctx context.Context, p models.Property) (models.Property, error)
	DeleteProperty(ctx context.Context, id string) error

	FetchTenants(ctx context.Context) ([]models.Tenant, error)
	CreateTenant(ctx context.Context, t models.Tenant) (models.Tenant, error)
	UpdateTenant(ctx context.Context, t models.Tenant) (models.Tenant, error)
	DeleteTenant(ctx context.Context, id string) error

	FetchPayments(ctx context.Context) ([]models.Payment, error)
	CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error)
	UpdatePayment(ctx context.Context, p models.Payment) (models.Payment, error)
	DeletePayment(ctx context.Context, id string) error

	FetchRepairs(ctx context.Context) ([]models.RepairRequest, error)
	CreateRepair(ctx context.Context, r models.RepairRequest) (models.RepairRequest, error)
	UpdateRepair(ctx context.Context, r models.RepairRequest) (models.RepairRequest, error)
	DeleteRepair(ctx context.Context, id string) error
}

// Provisioner is implemented by backends whose logical tables must be created
// before the first write. The sheets adapter creates its four sheets in one
// batch call; relational backends migrate in main instead.
type Provisioner interface {
	ProvisionSchema(ctx context.Context) error
}
