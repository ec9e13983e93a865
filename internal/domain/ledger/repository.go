package ledger

import (
	"context"

	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleLineRepository provides persistence for sale lines
type SaleLineRepository interface {
	shared.TenantRepository[SaleLine]

	// FindDebtsByTenant returns all lines with positive debt for a tenant
	FindDebtsByTenant(ctx context.Context, tenantID uuid.UUID) ([]*SaleLine, error)

	// FindDebtsByCustomer returns a customer's lines with positive debt,
	// matched on the normalized customer name
	FindDebtsByCustomer(ctx context.Context, tenantID uuid.UUID, normalizedName string) ([]*SaleLine, error)

	// FindBySale returns all lines belonging to one sale
	FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]*SaleLine, error)

	// SaveWithLock saves a line with an optimistic version check.
	// Returns shared.ErrConcurrencyConflict if the stored version does
	// not match the version the line was loaded at.
	SaveWithLock(ctx context.Context, line *SaleLine) error

	// SaveAll persists new lines in one transaction
	SaveAll(ctx context.Context, lines []*SaleLine) error
}
