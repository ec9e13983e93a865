package catalog

import (
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the catalog domain
const (
	EventTypeProductCreated      = "catalog.product.created"
	EventTypeProductUpdated      = "catalog.product.updated"
	EventTypeProductPriceChanged = "catalog.product.price_changed"
	EventTypeProductStockChanged = "catalog.product.stock_changed"
)

const aggregateTypeProduct = "Product"

// ProductCreatedEvent is raised when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, aggregateTypeProduct, p.ID, p.TenantID),
		Name:            p.Name,
	}
}

// ProductUpdatedEvent is raised when a product's details change
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, aggregateTypeProduct, p.ID, p.TenantID),
		Name:            p.Name,
	}
}

// ProductPriceChangedEvent is raised when prices change
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	OldCostPrice    decimal.Decimal `json:"old_cost_price"`
	OldSellingPrice decimal.Decimal `json:"old_selling_price"`
	NewCostPrice    decimal.Decimal `json:"new_cost_price"`
	NewSellingPrice decimal.Decimal `json:"new_selling_price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(p *Product, oldCost, oldSelling decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, aggregateTypeProduct, p.ID, p.TenantID),
		OldCostPrice:    oldCost,
		OldSellingPrice: oldSelling,
		NewCostPrice:    p.CostPrice,
		NewSellingPrice: p.SellingPrice,
	}
}

// ProductStockChangedEvent is raised when on-hand stock changes.
// Delta is positive for intake, negative for deduction.
type ProductStockChangedEvent struct {
	shared.BaseDomainEvent
	Delta    decimal.Decimal `json:"delta"`
	NewStock decimal.Decimal `json:"new_stock"`
}

// NewProductStockChangedEvent creates a new ProductStockChangedEvent
func NewProductStockChangedEvent(p *Product, delta decimal.Decimal) *ProductStockChangedEvent {
	return &ProductStockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStockChanged, aggregateTypeProduct, p.ID, p.TenantID),
		Delta:           delta,
		NewStock:        p.StockQty,
	}
}
