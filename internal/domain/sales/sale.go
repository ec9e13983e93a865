package sales

import (
	"time"

	"github.com/crmpro/backend/internal/domain/catalog"
	"github.com/crmpro/backend/internal/domain/ledger"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer settled the sale at the counter
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodDebt    PaymentMethod = "debt"    // nothing paid now
	PaymentMethodPartial PaymentMethod = "partial" // part paid, rest as debt
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodDebt, PaymentMethodPartial:
		return true
	}
	return false
}

// SaleItem is one product line within a sale
type SaleItem struct {
	ID          uuid.UUID        `json:"id"`
	SaleID      uuid.UUID        `json:"sale_id"`
	ProductID   uuid.UUID        `json:"product_id"`
	ProductName string           `json:"product_name"`
	SellType    catalog.SellType `json:"sell_type"`
	Quantity    decimal.Decimal  `json:"quantity"`   // in sell-type units
	BaseUnits   decimal.Decimal  `json:"base_units"` // quantity converted to base units
	UnitPrice   decimal.Decimal  `json:"unit_price"` // per sell-type unit
	LineTotal   decimal.Decimal  `json:"line_total"` // quantity * unit price, rounded to 2dp
	CreatedAt   time.Time        `json:"created_at"`
}

// NewSaleItem creates a sale item priced from the product's catalog
// price for the given sell type
func NewSaleItem(saleID uuid.UUID, product *catalog.Product, sellType catalog.SellType, quantity decimal.Decimal) (*SaleItem, error) {
	if product == nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product cannot be nil")
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Cannot sell an inactive product")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	price, err := product.PriceFor(sellType)
	if err != nil {
		return nil, err
	}
	baseUnits, err := product.BaseUnitsFor(sellType, quantity)
	if err != nil {
		return nil, err
	}

	return &SaleItem{
		ID:          uuid.New(),
		SaleID:      saleID,
		ProductID:   product.ID,
		ProductName: product.Name,
		SellType:    sellType,
		Quantity:    quantity,
		BaseUnits:   baseUnits,
		UnitPrice:   price.Amount(),
		LineTotal:   quantity.Mul(price.Amount()).Round(2),
		CreatedAt:   time.Now(),
	}, nil
}

// Sale records one point-of-sale transaction. TotalAmount always
// equals the sum of line totals, and PaidAmount + DebtAmount equals
// TotalAmount.
type Sale struct {
	shared.TenantAggregateRoot
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	Items         []SaleItem      `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	DebtAmount    decimal.Decimal `json:"debt_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	SoldBy        uuid.UUID       `json:"sold_by"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewSale creates an empty sale for building up items
func NewSale(tenantID uuid.UUID, customerName, customerPhone string, soldBy uuid.UUID, occurredAt time.Time) *Sale {
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	return &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerName:        customerName,
		CustomerPhone:       customerPhone,
		Items:               make([]SaleItem, 0, 4),
		TotalAmount:         decimal.Zero,
		PaidAmount:          decimal.Zero,
		DebtAmount:          decimal.Zero,
		SoldBy:              soldBy,
		OccurredAt:          occurredAt,
	}
}

// AddItem adds a product line, pricing it from the catalog
func (s *Sale) AddItem(product *catalog.Product, sellType catalog.SellType, quantity decimal.Decimal) error {
	item, err := NewSaleItem(s.ID, product, sellType, quantity)
	if err != nil {
		return err
	}

	s.Items = append(s.Items, *item)
	s.TotalAmount = s.TotalAmount.Add(item.LineTotal)

	return nil
}

// Settle fixes the payment split for the sale. For cash and card the
// full total is paid now; for debt nothing is; partial requires a paid
// amount strictly between zero and the total.
func (s *Sale) Settle(method PaymentMethod, paidNow valueobject.Money) error {
	if len(s.Items) == 0 {
		return shared.NewDomainError("EMPTY_SALE", "Sale has no items")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	switch method {
	case PaymentMethodCash, PaymentMethodCard:
		s.PaidAmount = s.TotalAmount
		s.DebtAmount = decimal.Zero
	case PaymentMethodDebt:
		s.PaidAmount = decimal.Zero
		s.DebtAmount = s.TotalAmount
	case PaymentMethodPartial:
		paid := paidNow.Amount()
		if paid.LessThanOrEqual(decimal.Zero) || paid.GreaterThanOrEqual(s.TotalAmount) {
			return shared.NewDomainError("INVALID_PAYMENT_AMOUNT", "Partial payment must be between zero and the sale total")
		}
		s.PaidAmount = paid
		s.DebtAmount = s.TotalAmount.Sub(paid)
	}

	if s.DebtAmount.IsPositive() && ledger.NormalizeCustomerName(s.CustomerName) == ledger.UnknownCustomer {
		// debt with no customer books under the unknown bucket
		s.CustomerName = ""
	}

	s.PaymentMethod = method
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleRecordedEvent(s))

	return nil
}

// BuildDebtLines produces one ledger sale line per item when the sale
// carries debt, with the sale's debt prorated across items by line
// total so the per-line debts sum exactly to the sale's debt. Returns
// nil when the sale carries no debt.
func (s *Sale) BuildDebtLines() ([]*ledger.SaleLine, error) {
	if s.PaymentMethod == "" {
		return nil, shared.NewDomainError("INVALID_STATE", "Sale has not been settled")
	}
	if !s.DebtAmount.IsPositive() {
		return nil, nil
	}

	weights := make([]decimal.Decimal, len(s.Items))
	for i, item := range s.Items {
		weights[i] = item.LineTotal
	}

	debtParts, err := valueobject.NewMoneyUZS(s.DebtAmount).ProrateBy(weights)
	if err != nil {
		return nil, err
	}

	lines := make([]*ledger.SaleLine, 0, len(s.Items))
	for i, item := range s.Items {
		lineDebt := debtParts[i].Amount()
		linePaid := item.LineTotal.Sub(lineDebt)
		line, err := ledger.NewSaleLine(
			s.TenantID,
			s.ID,
			item.ProductID,
			item.ProductName,
			s.CustomerName,
			s.CustomerPhone,
			item.BaseUnits,
			item.UnitPrice,
			valueobject.NewMoneyUZS(item.LineTotal),
			valueobject.NewMoneyUZS(linePaid),
			s.OccurredAt,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// GetTotalAmountMoney returns the sale total as Money
func (s *Sale) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUZS(s.TotalAmount)
}

// HasDebt returns true if part of the sale remains unpaid
func (s *Sale) HasDebt() bool {
	return s.DebtAmount.IsPositive()
}
