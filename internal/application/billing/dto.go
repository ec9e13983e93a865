package billing

import (
	"time"

	"github.com/crmpro/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmitPaymentRequest represents a store submitting proof of a bank
// transfer for a subscription period
type SubmitPaymentRequest struct {
	PlanCode  string `json:"plan_code" binding:"required,oneof=starter basic pro"`
	Months    int    `json:"months" binding:"required,min=1,max=24"`
	Reference string `json:"reference" binding:"omitempty,max=200"`
}

// ReviewPaymentRequest represents an operator approving or rejecting a request
type ReviewPaymentRequest struct {
	Note string `json:"note" binding:"omitempty,max=1000"`
}

// ListPaymentRequestsRequest represents query parameters for listing requests
type ListPaymentRequestsRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// PlanResponse represents a subscription tier in API responses
type PlanResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	MaxUsers     int             `json:"max_users"`
	MaxProducts  int             `json:"max_products"`
}

// PaymentRequestResponse represents a payment request in API responses
type PaymentRequestResponse struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	PlanID      uuid.UUID       `json:"plan_id"`
	Months      int             `json:"months"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference,omitempty"`
	Status      string          `json:"status"`
	SubmittedBy uuid.UUID       `json:"submitted_by"`
	ReviewedBy  *uuid.UUID      `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
	ReviewNote  string          `json:"review_note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToPlanResponse converts a domain plan to a response DTO
func ToPlanResponse(plan *billing.Plan) PlanResponse {
	return PlanResponse{
		ID:           plan.ID,
		Code:         string(plan.Code),
		Name:         plan.Name,
		MonthlyPrice: plan.MonthlyPrice.Amount(),
		MaxUsers:     plan.MaxUsers,
		MaxProducts:  plan.MaxProducts,
	}
}

// ToPaymentRequestResponse converts a domain payment request to a response DTO
func ToPaymentRequestResponse(pr *billing.PaymentRequest) PaymentRequestResponse {
	return PaymentRequestResponse{
		ID:          pr.ID,
		TenantID:    pr.TenantID,
		PlanID:      pr.PlanID,
		Months:      pr.Months,
		Amount:      pr.Amount.Amount(),
		Reference:   pr.Reference,
		Status:      string(pr.Status),
		SubmittedBy: pr.SubmittedBy,
		ReviewedBy:  pr.ReviewedBy,
		ReviewedAt:  pr.ReviewedAt,
		ReviewNote:  pr.ReviewNote,
		CreatedAt:   pr.CreatedAt,
	}
}

// ToPaymentRequestResponses converts a slice of payment requests to DTOs
func ToPaymentRequestResponses(requests []billing.PaymentRequest) []PaymentRequestResponse {
	responses := make([]PaymentRequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToPaymentRequestResponse(&requests[i])
	}
	return responses
}
