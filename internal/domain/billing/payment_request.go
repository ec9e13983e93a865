package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PaymentRequestStatus represents the review state of a payment request
type PaymentRequestStatus string

const (
	PaymentRequestStatusPending  PaymentRequestStatus = "PENDING"
	PaymentRequestStatusApproved PaymentRequestStatus = "APPROVED"
	PaymentRequestStatusRejected PaymentRequestStatus = "REJECTED"
)

// PaymentRequest is a store owner's claim that they paid for a
// subscription period. A platform operator reviews it; approval
// extends the store's subscription by the requested months.
type PaymentRequest struct {
	shared.BaseAggregateRoot
	TenantID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	PlanID      uuid.UUID            `gorm:"type:uuid;not null"`
	Months      int                  `gorm:"not null"`
	Amount      valueobject.Money    `gorm:"type:decimal(18,2);not null"`
	Reference   string               `gorm:"type:varchar(200)"` // Bank transfer reference or receipt number
	Status      PaymentRequestStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	SubmittedBy uuid.UUID            `gorm:"type:uuid;not null"`
	ReviewedBy  *uuid.UUID           `gorm:"type:uuid"`
	ReviewedAt  *time.Time
	ReviewNote  string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentRequest) TableName() string {
	return "payment_requests"
}

// NewPaymentRequest creates a pending subscription payment request
func NewPaymentRequest(tenantID, planID, submittedBy uuid.UUID, months int, amount valueobject.Money, reference string) (*PaymentRequest, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if planID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan ID cannot be empty")
	}
	if months <= 0 || months > 24 {
		return nil, shared.NewDomainError("INVALID_MONTHS", "Months must be between 1 and 24")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	pr := &PaymentRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TenantID:          tenantID,
		PlanID:            planID,
		Months:            months,
		Amount:            amount,
		Reference:         strings.TrimSpace(reference),
		Status:            PaymentRequestStatusPending,
		SubmittedBy:       submittedBy,
	}

	pr.AddDomainEvent(NewPaymentRequestSubmittedEvent(pr))

	return pr, nil
}

// Approve accepts the payment. The caller is responsible for extending
// the tenant's subscription in the same transaction.
func (pr *PaymentRequest) Approve(reviewerID uuid.UUID, note string) error {
	if pr.Status != PaymentRequestStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve request in %s status", pr.Status))
	}
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Reviewer ID cannot be empty")
	}

	now := time.Now()
	pr.Status = PaymentRequestStatusApproved
	pr.ReviewedBy = &reviewerID
	pr.ReviewedAt = &now
	pr.ReviewNote = note
	pr.UpdatedAt = now
	pr.IncrementVersion()

	pr.AddDomainEvent(NewPaymentRequestApprovedEvent(pr))

	return nil
}

// Reject declines the payment with a reason
func (pr *PaymentRequest) Reject(reviewerID uuid.UUID, reason string) error {
	if pr.Status != PaymentRequestStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject request in %s status", pr.Status))
	}
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Reviewer ID cannot be empty")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason cannot be empty")
	}

	now := time.Now()
	pr.Status = PaymentRequestStatusRejected
	pr.ReviewedBy = &reviewerID
	pr.ReviewedAt = &now
	pr.ReviewNote = reason
	pr.UpdatedAt = now
	pr.IncrementVersion()

	pr.AddDomainEvent(NewPaymentRequestRejectedEvent(pr))

	return nil
}

// IsPending returns true while the request awaits review
func (pr *PaymentRequest) IsPending() bool {
	return pr.Status == PaymentRequestStatusPending
}
