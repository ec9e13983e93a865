package ledger

import (
	"time"

	"github.com/crmpro/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===================== Request DTOs =====================

// ListDebtorsRequest represents a request to list debtors
type ListDebtorsRequest struct {
	Filter string `form:"filter" binding:"omitempty,oneof=all overdue recent"`
	Sort   string `form:"sort" binding:"omitempty,oneof=debt last_activity name"`
	Search string `form:"search"`
}

// ApplyPaymentRequest represents a request to apply a customer payment
type ApplyPaymentRequest struct {
	CustomerName string          `json:"customer_name" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// ===================== Response DTOs =====================

// SaleLineResponse represents one debt ledger line
type SaleLineResponse struct {
	ID            uuid.UUID       `json:"id"`
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

// DebtorResponse represents one aggregated debtor
type DebtorResponse struct {
	NormalizedName string             `json:"normalized_name"`
	DisplayName    string             `json:"display_name"`
	Phone          string             `json:"phone,omitempty"`
	TotalDebt      decimal.Decimal    `json:"total_debt"`
	TotalPaid      decimal.Decimal    `json:"total_paid"`
	FirstActivity  time.Time          `json:"first_activity"`
	LastActivity   time.Time          `json:"last_activity"`
	Overdue        bool               `json:"overdue"`
	LineCount      int                `json:"line_count"`
	Lines          []SaleLineResponse `json:"lines,omitempty"`
}

// DebtorListResponse represents the debtor listing with totals
type DebtorListResponse struct {
	Debtors    []DebtorResponse `json:"debtors"`
	TotalDebt  decimal.Decimal  `json:"total_debt"`
	DebtorCount int              `json:"debtor_count"`
}

// PaymentResultResponse reports how a payment was spread across lines
type PaymentResultResponse struct {
	CustomerName   string             `json:"customer_name"`
	TotalAllocated decimal.Decimal    `json:"total_allocated"`
	RemainingDebt  decimal.Decimal    `json:"remaining_debt"`
	LinesSettled   []uuid.UUID        `json:"lines_settled"`
	LinesPartial   []uuid.UUID        `json:"lines_partial"`
	Mutations      []LineMutationItem `json:"mutations"`
}

// LineMutationItem is one line's movement within a payment result
type LineMutationItem struct {
	LineID        uuid.UUID       `json:"line_id"`
	AppliedAmount decimal.Decimal `json:"applied_amount"`
	NewDebt       decimal.Decimal `json:"new_debt"`
	NewPaidAmount decimal.Decimal `json:"new_paid_amount"`
}

// ===================== Converters =====================

// ToSaleLineResponse converts a domain sale line to a response DTO
func ToSaleLineResponse(line *ledger.SaleLine) SaleLineResponse {
	return SaleLineResponse{
		ID:            line.ID,
		SaleID:        line.SaleID,
		ProductID:     line.ProductID,
		ProductName:   line.ProductName,
		CustomerName:  line.CustomerName,
		CustomerPhone: line.CustomerPhone,
		Quantity:      line.Quantity,
		UnitPrice:     line.UnitPrice,
		TotalAmount:   line.TotalAmount,
		PaidAmount:    line.PaidAmount,
		Debt:          line.Debt,
		OccurredAt:    line.OccurredAt,
	}
}

// ToDebtorResponse converts a debtor summary to a response DTO
func ToDebtorResponse(summary *ledger.DebtorSummary, now time.Time, includeLines bool) DebtorResponse {
	response := DebtorResponse{
		NormalizedName: summary.NormalizedName,
		DisplayName:    summary.DisplayName,
		Phone:          summary.Phone,
		TotalDebt:      summary.TotalDebt,
		TotalPaid:      summary.TotalPaid,
		FirstActivity:  summary.FirstActivity,
		LastActivity:   summary.LastActivity,
		Overdue:        summary.IsOverdue(now),
		LineCount:      len(summary.Lines),
	}
	if includeLines {
		response.Lines = make([]SaleLineResponse, len(summary.Lines))
		for i, line := range summary.Lines {
			response.Lines[i] = ToSaleLineResponse(line)
		}
	}
	return response
}

// ToPaymentResultResponse converts an allocation to a response DTO
func ToPaymentResultResponse(customerName string, allocation *ledger.Allocation, remainingDebt decimal.Decimal) PaymentResultResponse {
	mutations := make([]LineMutationItem, len(allocation.Mutations))
	for i, m := range allocation.Mutations {
		mutations[i] = LineMutationItem{
			LineID:        m.LineID,
			AppliedAmount: m.AppliedAmount,
			NewDebt:       m.NewDebt,
			NewPaidAmount: m.NewPaidAmount,
		}
	}
	return PaymentResultResponse{
		CustomerName:   customerName,
		TotalAllocated: allocation.TotalAllocated,
		RemainingDebt:  remainingDebt,
		LinesSettled:   allocation.LinesSettled,
		LinesPartial:   allocation.LinesPartial,
		Mutations:      mutations,
	}
}
