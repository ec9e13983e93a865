package catalog

import (
	"context"

	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository provides persistence for products
type ProductRepository interface {
	shared.TenantRepository[Product]

	// FindByBarcode looks a product up by barcode within a tenant
	FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*Product, error)

	// FindLowStock returns active products at or below their alert level
	FindLowStock(ctx context.Context, tenantID uuid.UUID) ([]*Product, error)

	// CountForTenant returns the number of products a tenant has
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// SaveWithLock saves a product with an optimistic version check.
	// Returns shared.ErrConcurrencyConflict on version mismatch.
	SaveWithLock(ctx context.Context, product *Product) error
}

// CategoryRepository provides persistence for categories
type CategoryRepository interface {
	shared.TenantRepository[Category]
}
