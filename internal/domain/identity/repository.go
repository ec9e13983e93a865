package identity

import (
	"context"

	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository persists user accounts
type UserRepository interface {
	shared.TenantRepository[User]

	// FindByUsername looks a user up within a tenant
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)

	// CountForTenant returns the number of users in a tenant, for quota checks
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// TenantRepository persists stores
type TenantRepository interface {
	shared.Repository[Tenant]

	// FindExpiring returns active tenants whose subscription ends within the
	// given number of days
	FindExpiring(ctx context.Context, withinDays int) ([]Tenant, error)
}
