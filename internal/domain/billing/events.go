package billing

import "github.com/crmpro/backend/internal/domain/shared"

const (
	EventTypePaymentRequestSubmitted = "billing.payment_request.submitted"
	EventTypePaymentRequestApproved  = "billing.payment_request.approved"
	EventTypePaymentRequestRejected  = "billing.payment_request.rejected"

	aggregateTypePaymentRequest = "PaymentRequest"
)

// PaymentRequestSubmittedEvent is raised when a store submits a payment claim
type PaymentRequestSubmittedEvent struct {
	shared.BaseDomainEvent
	Months int    `json:"months"`
	Amount string `json:"amount"`
}

func NewPaymentRequestSubmittedEvent(pr *PaymentRequest) *PaymentRequestSubmittedEvent {
	return &PaymentRequestSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRequestSubmitted, aggregateTypePaymentRequest, pr.ID, pr.TenantID),
		Months:          pr.Months,
		Amount:          pr.Amount.String(),
	}
}

// PaymentRequestApprovedEvent is raised when an operator accepts the payment
type PaymentRequestApprovedEvent struct {
	shared.BaseDomainEvent
	Months int `json:"months"`
}

func NewPaymentRequestApprovedEvent(pr *PaymentRequest) *PaymentRequestApprovedEvent {
	return &PaymentRequestApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRequestApproved, aggregateTypePaymentRequest, pr.ID, pr.TenantID),
		Months:          pr.Months,
	}
}

// PaymentRequestRejectedEvent is raised when an operator declines the payment
type PaymentRequestRejectedEvent struct {
	shared.BaseDomainEvent
	Reason string `json:"reason"`
}

func NewPaymentRequestRejectedEvent(pr *PaymentRequest) *PaymentRequestRejectedEvent {
	return &PaymentRequestRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRequestRejected, aggregateTypePaymentRequest, pr.ID, pr.TenantID),
		Reason:          pr.ReviewNote,
	}
}
