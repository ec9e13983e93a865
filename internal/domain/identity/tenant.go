package identity

import (
	"strings"
	"time"

	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantStatus represents the status of a tenant (store)
type TenantStatus string

const (
	TenantStatusTrial     TenantStatus = "trial"
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended" // Subscription lapsed or payment issues
)

// DefaultTrialDays is the free trial length for new stores
const DefaultTrialDays = 14

// Tenant represents a store in the multi-tenant system.
// Each store has its own users, products, sales and debt ledger.
type Tenant struct {
	shared.BaseAggregateRoot
	Name            string       `gorm:"type:varchar(200);not null"`
	Phone           string       `gorm:"type:varchar(50)"`
	Address         string       `gorm:"type:text"`
	Status          TenantStatus `gorm:"type:varchar(20);not null;default:'trial'"`
	PlanID          *uuid.UUID   `gorm:"type:uuid;index"`
	SubscriptionEnd *time.Time   `gorm:"index"`
	OwnerID         *uuid.UUID   `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new store starting its free trial
func NewTenant(name, phone string) (*Tenant, error) {
	if err := validateTenantName(name); err != nil {
		return nil, err
	}
	if phone != "" && len(phone) > 50 {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	trialEnd := time.Now().AddDate(0, 0, DefaultTrialDays)
	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Phone:             strings.TrimSpace(phone),
		Status:            TenantStatusTrial,
		SubscriptionEnd:   &trialEnd,
	}

	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))

	return tenant, nil
}

// Update updates the store's basic information
func (t *Tenant) Update(name, phone, address string) error {
	if err := validateTenantName(name); err != nil {
		return err
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	t.Name = strings.TrimSpace(name)
	t.Phone = strings.TrimSpace(phone)
	t.Address = address
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetOwner records the admin user who owns the store
func (t *Tenant) SetOwner(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Owner ID cannot be empty")
	}

	t.OwnerID = &userID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// ExtendSubscription moves the store onto a plan and pushes the
// subscription end forward by the given number of months. An expired
// subscription restarts from now rather than the lapsed date.
func (t *Tenant) ExtendSubscription(planID uuid.UUID, months int) error {
	if planID == uuid.Nil {
		return shared.NewDomainError("INVALID_PLAN", "Plan ID cannot be empty")
	}
	if months <= 0 {
		return shared.NewDomainError("INVALID_MONTHS", "Subscription months must be positive")
	}

	base := time.Now()
	if t.SubscriptionEnd != nil && t.SubscriptionEnd.After(base) {
		base = *t.SubscriptionEnd
	}
	newEnd := base.AddDate(0, months, 0)

	t.PlanID = &planID
	t.SubscriptionEnd = &newEnd
	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantSubscriptionExtendedEvent(t, months))

	return nil
}

// Suspend blocks the store, typically for an expired subscription
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Tenant is already suspended")
	}

	t.Status = TenantStatusSuspended
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantSuspendedEvent(t))

	return nil
}

// Reactivate restores a suspended store with a valid subscription
func (t *Tenant) Reactivate() error {
	if t.Status != TenantStatusSuspended {
		return shared.NewDomainError("NOT_SUSPENDED", "Tenant is not suspended")
	}
	if t.IsExpired() {
		return shared.ErrSubscriptionExpired
	}

	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// IsExpired returns true if the subscription end date has passed
func (t *Tenant) IsExpired() bool {
	return t.SubscriptionEnd != nil && time.Now().After(*t.SubscriptionEnd)
}

// IsOperational returns true if the store can be used
func (t *Tenant) IsOperational() bool {
	if t.Status == TenantStatusSuspended {
		return false
	}
	return !t.IsExpired()
}

func validateTenantName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_TENANT_NAME", "Store name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_TENANT_NAME", "Store name cannot exceed 200 characters")
	}
	return nil
}
