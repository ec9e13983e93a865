package ledger

import (
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Event types for the ledger domain
const (
	EventTypeSaleLineCreated        = "ledger.sale_line.created"
	EventTypeSaleLinePaymentApplied = "ledger.sale_line.payment_applied"
	EventTypeSaleLineSettled        = "ledger.sale_line.settled"
)

const aggregateTypeSaleLine = "SaleLine"

// SaleLineCreatedEvent is raised when a sale line with debt is recorded
type SaleLineCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerName string          `json:"customer_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Debt         decimal.Decimal `json:"debt"`
}

// NewSaleLineCreatedEvent creates a new SaleLineCreatedEvent
func NewSaleLineCreatedEvent(line *SaleLine) *SaleLineCreatedEvent {
	return &SaleLineCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleLineCreated, aggregateTypeSaleLine, line.ID, line.TenantID),
		CustomerName:    line.CustomerName,
		TotalAmount:     line.TotalAmount,
		Debt:            line.Debt,
	}
}

// SaleLinePaymentAppliedEvent is raised when a payment partially retires a line
type SaleLinePaymentAppliedEvent struct {
	shared.BaseDomainEvent
	AppliedAmount decimal.Decimal `json:"applied_amount"`
	RemainingDebt decimal.Decimal `json:"remaining_debt"`
}

// NewSaleLinePaymentAppliedEvent creates a new SaleLinePaymentAppliedEvent
func NewSaleLinePaymentAppliedEvent(line *SaleLine, amount valueobject.Money) *SaleLinePaymentAppliedEvent {
	return &SaleLinePaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleLinePaymentApplied, aggregateTypeSaleLine, line.ID, line.TenantID),
		AppliedAmount:   amount.Amount(),
		RemainingDebt:   line.Debt,
	}
}

// SaleLineSettledEvent is raised when a line's debt reaches zero
type SaleLineSettledEvent struct {
	shared.BaseDomainEvent
	CustomerName string          `json:"customer_name"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
}

// NewSaleLineSettledEvent creates a new SaleLineSettledEvent
func NewSaleLineSettledEvent(line *SaleLine) *SaleLineSettledEvent {
	return &SaleLineSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleLineSettled, aggregateTypeSaleLine, line.ID, line.TenantID),
		CustomerName:    line.CustomerName,
		PaidAmount:      line.PaidAmount,
	}
}
