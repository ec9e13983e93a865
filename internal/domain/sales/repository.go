package sales

import (
	"context"
	"time"

	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRepository provides persistence for sales and their items
type SaleRepository interface {
	shared.TenantRepository[Sale]

	// FindByDateRange returns sales recorded within [from, to)
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) ([]*Sale, int64, error)

	// SumTotalsByDateRange returns total revenue, paid and debt amounts
	// for sales within [from, to)
	SumTotalsByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*SaleTotals, error)

	// SumItemsByProduct aggregates sold base units and revenue per
	// product for sales within [from, to), most units sold first
	SumItemsByProduct(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]ProductSales, error)
}

// SaleTotals is an aggregate over a set of sales
type SaleTotals struct {
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	DebtAmount  decimal.Decimal `json:"debt_amount"`
}

// ProductSales is a per-product aggregate over sold items. The product
// name is the one captured on the sale line, so renamed or deleted
// products keep their history.
type ProductSales struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitsSold   decimal.Decimal `json:"units_sold"` // in base units
	Revenue     decimal.Decimal `json:"revenue"`
	SaleCount   int64           `json:"sale_count"`
}
