package inventory

import (
	"context"

	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockCountRepository persists stock count sessions
type StockCountRepository interface {
	shared.TenantRepository[StockCount]

	// FindDraftByTenant returns the open draft session for a tenant, if any
	FindDraftByTenant(ctx context.Context, tenantID uuid.UUID) (*StockCount, error)

	// FindByStatus returns sessions in the given status, newest first
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status StockCountStatus, filter shared.Filter) (*shared.Paginated[StockCount], error)
}
