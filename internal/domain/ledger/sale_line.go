package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnknownCustomer is the bucket for lines recorded without a customer name
const UnknownCustomer = "unknown"

// NormalizeCustomerName returns the grouping key for a customer name:
// lower-cased and trimmed, with empty names mapped to UnknownCustomer
func NormalizeCustomerName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return UnknownCustomer
	}
	return normalized
}

// SaleLine represents one product line of a recorded sale that carries
// its own debt sub-state. Lines are created when a sale is recorded
// with an unpaid or partially paid amount, mutated only by payment
// application, and never deleted.
type SaleLine struct {
	shared.TenantAggregateRoot
	SaleID        uuid.UUID       `json:"sale_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Debt          decimal.Decimal `json:"debt"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewSaleLine creates a sale line with an initial debt position.
// initialPaid may be zero (full debt) or positive (partial payment at
// the counter); it must not exceed the line total.
func NewSaleLine(
	tenantID uuid.UUID,
	saleID uuid.UUID,
	productID uuid.UUID,
	productName string,
	customerName string,
	customerPhone string,
	quantity decimal.Decimal,
	unitPrice decimal.Decimal,
	totalAmount valueobject.Money,
	initialPaid valueobject.Money,
	occurredAt time.Time,
) (*SaleLine, error) {
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}
	if initialPaid.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}
	if initialPaid.Amount().GreaterThan(totalAmount.Amount()) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot exceed total amount")
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	line := &SaleLine{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SaleID:              saleID,
		ProductID:           productID,
		ProductName:         productName,
		CustomerName:        customerName,
		CustomerPhone:       customerPhone,
		Quantity:            quantity,
		UnitPrice:           unitPrice,
		TotalAmount:         totalAmount.Amount(),
		PaidAmount:          initialPaid.Amount(),
		Debt:                totalAmount.Amount().Sub(initialPaid.Amount()),
		OccurredAt:          occurredAt,
	}

	line.AddDomainEvent(NewSaleLineCreatedEvent(line))

	return line, nil
}

// ApplyPayment applies a payment amount to this line.
// The amount must be positive and must not exceed the line's debt.
func (l *SaleLine) ApplyPayment(amount valueobject.Money) error {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PAYMENT_AMOUNT", "Payment amount must be positive")
	}
	if amount.Amount().GreaterThan(l.Debt) {
		return shared.NewDomainError("INVALID_PAYMENT_AMOUNT",
			fmt.Sprintf("Payment amount %s exceeds line debt %s", amount.Amount().String(), l.Debt.String()))
	}

	l.PaidAmount = l.PaidAmount.Add(amount.Amount())
	l.Debt = l.TotalAmount.Sub(l.PaidAmount)

	if l.Debt.IsZero() {
		l.AddDomainEvent(NewSaleLineSettledEvent(l))
	} else {
		l.AddDomainEvent(NewSaleLinePaymentAppliedEvent(l, amount))
	}

	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// NormalizedCustomer returns the grouping key for this line's customer
func (l *SaleLine) NormalizedCustomer() string {
	return NormalizeCustomerName(l.CustomerName)
}

// HasDebt returns true if the line still carries outstanding debt
func (l *SaleLine) HasDebt() bool {
	return l.Debt.IsPositive()
}

// IsSettled returns true if the line is fully paid
func (l *SaleLine) IsSettled() bool {
	return l.Debt.IsZero()
}

// GetTotalAmountMoney returns the line total as Money
func (l *SaleLine) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUZS(l.TotalAmount)
}

// GetPaidAmountMoney returns the paid amount as Money
func (l *SaleLine) GetPaidAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUZS(l.PaidAmount)
}

// GetDebtMoney returns the outstanding debt as Money
func (l *SaleLine) GetDebtMoney() valueobject.Money {
	return valueobject.NewMoneyUZS(l.Debt)
}

// CheckInvariant verifies paid + debt == total and debt >= 0.
// Repositories call this before persisting a mutation.
func (l *SaleLine) CheckInvariant() error {
	if l.Debt.IsNegative() {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Line debt is negative")
	}
	if l.PaidAmount.IsNegative() {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Line paid amount is negative")
	}
	if !l.PaidAmount.Add(l.Debt).Equal(l.TotalAmount) {
		return shared.NewDomainError("INVARIANT_VIOLATION",
			fmt.Sprintf("paid %s + debt %s != total %s", l.PaidAmount.String(), l.Debt.String(), l.TotalAmount.String()))
	}
	return nil
}
