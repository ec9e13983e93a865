package billing

import (
	"context"

	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PlanRepository persists subscription tiers
type PlanRepository interface {
	shared.Repository[Plan]

	// FindByCode looks a plan up by its tier code
	FindByCode(ctx context.Context, code PlanCode) (*Plan, error)

	// FindActive returns plans open for new subscriptions
	FindActive(ctx context.Context) ([]Plan, error)
}

// PaymentRequestRepository persists subscription payment requests
type PaymentRequestRepository interface {
	shared.Repository[PaymentRequest]

	// FindByTenant returns a tenant's requests, newest first
	FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[PaymentRequest], error)

	// FindPending returns all requests awaiting review, oldest first
	FindPending(ctx context.Context, filter shared.Filter) (*shared.Paginated[PaymentRequest], error)
}
