package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"landlord-service/internal/models"
)

// propertyRow is the relational shape of a property. Row structs own the
// schema, including the audit timestamps the domain model never sees.
type propertyRow struct {
	ID        string `gorm:"type:varchar(64);primaryKey"`
	Address   string `gorm:"not null"`
	City      string
	State     string
	ZipCode   string
	Rent      float64 `gorm:"not null;default:0"`
	Status    string  `gorm:"type:varchar(20);not null;default:'vacant';index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (propertyRow) TableName() string { return "properties" }

type tenantRow struct {
	ID            string `gorm:"type:varchar(64);primaryKey"`
	Name          string `gorm:"not null"`
	Email         string
	Phone         string
	PropertyID    string `gorm:"type:varchar(64);index"`
	LeaseStart    string `gorm:"type:varchar(10)"`
	LeaseEnd      string `gorm:"type:varchar(10)"`
	LeaseRenewal  string `gorm:"type:varchar(10)"`
	RentAmount    float64
	PaymentMethod string
	LeaseType     string `gorm:"type:varchar(20)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (tenantRow) TableName() string { return "tenants" }

type paymentRow struct {
	ID            string `gorm:"type:varchar(64);primaryKey"`
	PropertyID    string `gorm:"type:varchar(64);index"`
	TenantID      string `gorm:"type:varchar(64);index"`
	RentMonth     string `gorm:"type:varchar(32);index"`
	Amount        float64
	AmountPaid    float64
	PaymentDate   string `gorm:"type:varchar(10)"`
	Status        string `gorm:"type:varchar(20)"`
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (paymentRow) TableName() string { return "payments" }

type repairRow struct {
	ID            string `gorm:"type:varchar(64);primaryKey"`
	TenantID      string `gorm:"type:varchar(64);index"`
	PropertyID    string `gorm:"type:varchar(64);index"`
	Title         string `gorm:"not null"`
	Description   string
	Priority      string `gorm:"type:varchar(10)"`
	Status        string `gorm:"type:varchar(20);index"`
	DateSubmitted string `gorm:"type:varchar(10)"`
	DateResolved  string `gorm:"type:varchar(10)"`
	Category      string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (repairRow) TableName() string { return "repair_requests" }

func propertyToRow(p models.Property) propertyRow {
	return propertyRow{
		ID:      p.ID,
		Address: p.Address,
		City:    p.City,
		State:   p.State,
		ZipCode: p.ZipCode,
		Rent:    p.Rent,
		Status:  string(p.Status),
	}
}

func propertyFromRow(r propertyRow) models.Property {
	return models.Property{
		ID:      r.ID,
		Address: r.Address,
		City:    r.City,
		State:   r.State,
		ZipCode: r.ZipCode,
		Rent:    r.Rent,
		Status:  models.PropertyStatus(r.Status),
	}
}

func tenantToRow(t models.Tenant) tenantRow {
	return tenantRow{
		ID:            t.ID,
		Name:          t.Name,
		Email:         t.Email,
		Phone:         t.Phone,
		PropertyID:    t.PropertyID,
		LeaseStart:    t.LeaseStart,
		LeaseEnd:      t.LeaseEnd,
		LeaseRenewal:  t.LeaseRenewal,
		RentAmount:    t.RentAmount,
		PaymentMethod: t.PaymentMethod,
		LeaseType:     t.LeaseType,
	}
}

func tenantFromRow(r tenantRow) models.Tenant {
	return models.Tenant{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		PropertyID:    r.PropertyID,
		LeaseStart:    r.LeaseStart,
		LeaseEnd:      r.LeaseEnd,
		LeaseRenewal:  r.LeaseRenewal,
		RentAmount:    r.RentAmount,
		PaymentMethod: r.PaymentMethod,
		LeaseType:     r.LeaseType,
	}
}

func paymentToRow(p models.Payment) paymentRow {
	return paymentRow{
		ID:            p.ID,
		PropertyID:    p.PropertyID,
		TenantID:      p.TenantID,
		RentMonth:     p.RentMonth,
		Amount:        p.Amount,
		AmountPaid:    p.AmountPaid,
		PaymentDate:   p.PaymentDate,
		Status:        string(p.Status),
		PaymentMethod: p.PaymentMethod,
	}
}

func paymentFromRow(r paymentRow) models.Payment {
	return models.Payment{
		ID:            r.ID,
		PropertyID:    r.PropertyID,
		TenantID:      r.TenantID,
		RentMonth:     r.RentMonth,
		Amount:        r.Amount,
		AmountPaid:    r.AmountPaid,
		PaymentDate:   r.PaymentDate,
		Status:        models.PaymentStatus(r.Status),
		PaymentMethod: r.PaymentMethod,
	}
}

func repairToRow(r models.RepairRequest) repairRow {
	return repairRow{
		ID:            r.ID,
		TenantID:      r.TenantID,
		PropertyID:    r.PropertyID,
		Title:         r.Title,
		Description:   r.Description,
		Priority:      r.Priority,
		Status:        string(r.Status),
		DateSubmitted: r.DateSubmitted,
		DateResolved:  r.DateResolved,
		Category:      r.Category,
		Notes:         r.Notes,
	}
}

func repairFromRow(r repairRow) models.RepairRequest {
	return models.RepairRequest{
		ID:            r.ID,
		TenantID:      r.TenantID,
		PropertyID:    r.PropertyID,
		Title:         r.Title,
		Description:   r.Description,
		Priority:      r.Priority,
		Status:        models.RepairStatus(r.Status),
		DateSubmitted: r.DateSubmitted,
		DateResolved:  r.DateResolved,
		Category:      r.Category,
		Notes:         r.Notes,
	}
}

// GormStore is the relational adapter. The same implementation serves the
// postgres and sqlite drivers; only the dialector differs.
type GormStore struct {
	db   *gorm.DB
	kind string
}

// NewGormStore wraps an open gorm connection as a Store.
func NewGormStore(db *gorm.DB, kind string) *GormStore {
	return &GormStore{db: db, kind: kind}
}

// AutoMigrate creates or updates the four tables.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&propertyRow{}, &tenantRow{}, &paymentRow{}, &repairRow{})
}

func (s *GormStore) Kind() string { return s.kind }

func (s *GormStore) Durable() bool { return true }

// TestConnection pings the underlying connection with a short timeout.
func (s *GormStore) TestConnection(ctx context.Context) bool {
	sqlDB, err := s.db.DB()
	if err != nil {
		return false
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return sqlDB.PingContext(pingCtx) == nil
}

func (s *GormStore) FetchProperties(ctx context.Context) ([]models.Property, error) {
	var rows []propertyRow
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch properties: %w", err)
	}
	out := make([]models.Property, 0, len(rows))
	for _, r := range rows {
		out = append(out, propertyFromRow(r))
	}
	return out, nil
}

func (s *GormStore) CreateProperty(ctx context.Context, p models.Property) (models.Property, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	row := propertyToRow(p)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Property{}, fmt.Errorf("failed to create property: %w", err)
	}
	return propertyFromRow(row), nil
}

func (s *GormStore) UpdateProperty(ctx context.Context, p models.Property) (models.Property, error) {
	row := propertyToRow(p)
	if err := s.saveExisting(ctx, &propertyRow{}, p.ID, &row); err != nil {
		return models.Property{}, fmt.Errorf("failed to update property: %w", err)
	}
	return propertyFromRow(row), nil
}

func (s *GormStore) DeleteProperty(ctx context.Context, id string) error {
	if err := s.deleteByID(ctx, &propertyRow{}, id); err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return nil
}

func (s *GormStore) FetchTenants(ctx context.Context) ([]models.Tenant, error) {
	var rows []tenantRow
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tenants: %w", err)
	}
	out := make([]models.Tenant, 0, len(rows))
	for _, r := range rows {
		out = append(out, tenantFromRow(r))
	}
	return out, nil
}

func (s *GormStore) CreateTenant(ctx context.Context, t models.Tenant) (models.Tenant, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	row := tenantToRow(t)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Tenant{}, fmt.Errorf("failed to create tenant: %w", err)
	}
	return tenantFromRow(row), nil
}

func (s *GormStore) UpdateTenant(ctx context.Context, t models.Tenant) (models.Tenant, error) {
	row := tenantToRow(t)
	if err := s.saveExisting(ctx, &tenantRow{}, t.ID, &row); err != nil {
		return models.Tenant{}, fmt.Errorf("failed to update tenant: %w", err)
	}
	return tenantFromRow(row), nil
}

func (s *GormStore) DeleteTenant(ctx context.Context, id string) error {
	if err := s.deleteByID(ctx, &tenantRow{}, id); err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	return nil
}

func (s *GormStore) FetchPayments(ctx context.Context) ([]models.Payment, error) {
	var rows []paymentRow
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}
	out := make([]models.Payment, 0, len(rows))
	for _, r := range rows {
		out = append(out, paymentFromRow(r))
	}
	return out, nil
}

func (s *GormStore) CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	row := paymentToRow(p)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Payment{}, fmt.Errorf("failed to create payment: %w", err)
	}
	return paymentFromRow(row), nil
}

func (s *GormStore) UpdatePayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	row := paymentToRow(p)
	if err := s.saveExisting(ctx, &paymentRow{}, p.ID, &row); err != nil {
		return models.Payment{}, fmt.Errorf("failed to update payment: %w", err)
	}
	return paymentFromRow(row), nil
}

func (s *GormStore) DeletePayment(ctx context.Context, id string) error {
	if err := s.deleteByID(ctx, &paymentRow{}, id); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

func (s *GormStore) FetchRepairs(ctx context.Context) ([]models.RepairRequest, error) {
	var rows []repairRow
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch repair requests: %w", err)
	}
	out := make([]models.RepairRequest, 0, len(rows))
	for _, r := range rows {
		out = append(out, repairFromRow(r))
	}
	return out, nil
}

func (s *GormStore) CreateRepair(ctx context.Context, r models.RepairRequest) (models.RepairRequest, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	row := repairToRow(r)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.RepairRequest{}, fmt.Errorf("failed to create repair request: %w", err)
	}
	return repairFromRow(row), nil
}

func (s *GormStore) UpdateRepair(ctx context.Context, r models.RepairRequest) (models.RepairRequest, error) {
	row := repairToRow(r)
	if err := s.saveExisting(ctx, &repairRow{}, r.ID, &row); err != nil {
		return models.RepairRequest{}, fmt.Errorf("failed to update repair request: %w", err)
	}
	return repairFromRow(row), nil
}

func (s *GormStore) DeleteRepair(ctx context.Context, id string) error {
	if err := s.deleteByID(ctx, &repairRow{}, id); err != nil {
		return fmt.Errorf("failed to delete repair request: %w", err)
	}
	return nil
}

// saveExisting replaces every column of the stored row (including ones being
// zeroed) except id and created_at, failing with ErrNotFound instead of
// upserting when the id is unknown.
func (s *GormStore) saveExisting(ctx context.Context, model interface{}, id string, row interface{}) error {
	if id == "" {
		return ErrNotFound
	}
	res := s.db.WithContext(ctx).Model(model).Where("id = ?", id).
		Select("*").Omit("id", "created_at").Updates(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// deleteByID removes the row matching id, reporting ErrNotFound when nothing
// matched so unknown ids surface the same way as in the other backends.
func (s *GormStore) deleteByID(ctx context.Context, model interface{}, id string) error {
	res := s.db.WithContext(ctx).Delete(model, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
