package identity

import "github.com/crmpro/backend/internal/domain/shared"

const (
	EventTypeUserCreated     = "identity.user.created"
	EventTypeUserDeactivated = "identity.user.deactivated"

	EventTypeTenantCreated              = "identity.tenant.created"
	EventTypeTenantSubscriptionExtended = "identity.tenant.subscription_extended"
	EventTypeTenantSuspended            = "identity.tenant.suspended"

	aggregateTypeUser   = "User"
	aggregateTypeTenant = "Tenant"
)

// UserCreatedEvent is raised when a new user account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Role     string `json:"role"`
}

func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, aggregateTypeUser, u.ID, u.TenantID),
		Username:        u.Username,
		Role:            string(u.Role),
	}
}

// UserDeactivatedEvent is raised when a user account is disabled
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

func NewUserDeactivatedEvent(u *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeactivated, aggregateTypeUser, u.ID, u.TenantID),
		Username:        u.Username,
	}
}

// TenantCreatedEvent is raised when a new store is registered
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

func NewTenantCreatedEvent(t *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, aggregateTypeTenant, t.ID, t.ID),
		Name:            t.Name,
	}
}

// TenantSubscriptionExtendedEvent is raised when a subscription payment is approved
type TenantSubscriptionExtendedEvent struct {
	shared.BaseDomainEvent
	Months int    `json:"months"`
	NewEnd string `json:"new_end"`
}

func NewTenantSubscriptionExtendedEvent(t *Tenant, months int) *TenantSubscriptionExtendedEvent {
	newEnd := ""
	if t.SubscriptionEnd != nil {
		newEnd = t.SubscriptionEnd.Format("2006-01-02")
	}
	return &TenantSubscriptionExtendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantSubscriptionExtended, aggregateTypeTenant, t.ID, t.ID),
		Months:          months,
		NewEnd:          newEnd,
	}
}

// TenantSuspendedEvent is raised when a store is suspended
type TenantSuspendedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

func NewTenantSuspendedEvent(t *Tenant) *TenantSuspendedEvent {
	return &TenantSuspendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantSuspended, aggregateTypeTenant, t.ID, t.ID),
		Name:            t.Name,
	}
}
