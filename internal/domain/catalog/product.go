package catalog

import (
	"strings"
	"time"

	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// IsValid checks if the status is valid
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// SellType is how a product is sold at the counter: by single unit or
// by whole pack (blok)
type SellType string

const (
	SellTypeUnit SellType = "unit"
	SellTypePack SellType = "pack"
)

// IsValid checks if the sell type is valid
func (s SellType) IsValid() bool {
	return s == SellTypeUnit || s == SellTypePack
}

// Product represents a product in the tenant's catalog. Stock is
// tracked directly on the product in base units; pack sales convert
// through PackSize.
type Product struct {
	shared.TenantAggregateRoot
	Name         string          `gorm:"type:varchar(200);not null"`
	Barcode      string          `gorm:"type:varchar(50);index"`
	CategoryID   *uuid.UUID      `gorm:"type:uuid;index"`
	Unit         string          `gorm:"type:varchar(20);not null"`             // base unit ("pcs", "kg", "l")
	PackSize     int64           `gorm:"not null;default:1"`                    // units per pack
	CostPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"` // per base unit
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"` // per base unit
	StockQty     decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"` // on hand, base units
	MinStock     decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"` // low-stock alert level
	Status       ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(tenantID uuid.UUID, name, unit string, packSize int64, costPrice, sellingPrice valueobject.Money) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if packSize < 1 {
		return nil, shared.NewDomainError("INVALID_PACK_SIZE", "Pack size must be at least 1")
	}
	if costPrice.IsNegative() || sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Unit:                unit,
		PackSize:            packSize,
		CostPrice:           costPrice.Amount(),
		SellingPrice:        sellingPrice.Amount(),
		StockQty:            decimal.Zero,
		MinStock:            decimal.Zero,
		Status:              ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, unit string, packSize int64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if packSize < 1 {
		return shared.NewDomainError("INVALID_PACK_SIZE", "Pack size must be at least 1")
	}

	p.Name = name
	p.Unit = unit
	p.PackSize = packSize
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetBarcode sets the product barcode
func (p *Product) SetBarcode(barcode string) error {
	if len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}

	p.Barcode = barcode
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetPrices sets both cost and selling prices, per base unit
func (p *Product) SetPrices(costPrice, sellingPrice valueobject.Money) error {
	if costPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}

	oldCost := p.CostPrice
	oldSelling := p.SellingPrice

	p.CostPrice = costPrice.Amount()
	p.SellingPrice = sellingPrice.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldCost, oldSelling))

	return nil
}

// SetMinStock sets the low-stock alert level
func (p *Product) SetMinStock(minStock decimal.Decimal) error {
	if minStock.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}

	p.MinStock = minStock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// PriceFor returns the selling price for one unit of the given sell
// type: the base price for units, base price times PackSize for packs
func (p *Product) PriceFor(sellType SellType) (valueobject.Money, error) {
	switch sellType {
	case SellTypeUnit:
		return valueobject.NewMoneyUZS(p.SellingPrice), nil
	case SellTypePack:
		return valueobject.NewMoneyUZS(p.SellingPrice.Mul(decimal.NewFromInt(p.PackSize))), nil
	default:
		return valueobject.Money{}, shared.NewDomainError("INVALID_SELL_TYPE", "Sell type must be unit or pack")
	}
}

// BaseUnitsFor converts a sold quantity of the given sell type into
// base units for stock deduction
func (p *Product) BaseUnitsFor(sellType SellType, quantity decimal.Decimal) (decimal.Decimal, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	switch sellType {
	case SellTypeUnit:
		return quantity, nil
	case SellTypePack:
		return quantity.Mul(decimal.NewFromInt(p.PackSize)), nil
	default:
		return decimal.Zero, shared.NewDomainError("INVALID_SELL_TYPE", "Sell type must be unit or pack")
	}
}

// ReceiveStock increases on-hand stock by the given base units and
// optionally updates the cost price from the intake
func (p *Product) ReceiveStock(quantity decimal.Decimal, unitCost *valueobject.Money) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Intake quantity must be positive")
	}

	p.StockQty = p.StockQty.Add(quantity)
	if unitCost != nil {
		if unitCost.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
		}
		p.CostPrice = unitCost.Amount()
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, quantity))

	return nil
}

// DeductStock decreases on-hand stock by the given base units.
// Deduction below zero is rejected.
func (p *Product) DeductStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduction quantity must be positive")
	}
	if p.StockQty.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	p.StockQty = p.StockQty.Sub(quantity)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, quantity.Neg()))

	return nil
}

// SetStock overwrites on-hand stock with a counted physical quantity
func (p *Product) SetStock(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}

	delta := quantity.Sub(p.StockQty)
	p.StockQty = quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, delta))

	return nil
}

// IsLowStock returns true if on-hand stock is at or below the alert level
func (p *Product) IsLowStock() bool {
	return p.MinStock.IsPositive() && p.StockQty.LessThanOrEqual(p.MinStock)
}

// IsActive returns true if the product can be sold
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// Activate marks the product sellable
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Deactivate removes the product from sale without deleting history
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// GetSellingPriceMoney returns the per-unit selling price as Money
func (p *Product) GetSellingPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUZS(p.SellingPrice)
}

// GetCostPriceMoney returns the per-unit cost price as Money
func (p *Product) GetCostPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUZS(p.CostPrice)
}
