package sales

import (
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the sales domain
const (
	EventTypeSaleRecorded = "sales.sale.recorded"
)

const aggregateTypeSale = "Sale"

// SaleRecordedEvent is raised when a sale is settled at the counter
type SaleRecordedEvent struct {
	shared.BaseDomainEvent
	CustomerName  string          `json:"customer_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	DebtAmount    decimal.Decimal `json:"debt_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	ItemCount     int             `json:"item_count"`
}

// NewSaleRecordedEvent creates a new SaleRecordedEvent
func NewSaleRecordedEvent(s *Sale) *SaleRecordedEvent {
	return &SaleRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleRecorded, aggregateTypeSale, s.ID, s.TenantID),
		CustomerName:    s.CustomerName,
		TotalAmount:     s.TotalAmount,
		PaidAmount:      s.PaidAmount,
		DebtAmount:      s.DebtAmount,
		PaymentMethod:   s.PaymentMethod,
		ItemCount:       len(s.Items),
	}
}
