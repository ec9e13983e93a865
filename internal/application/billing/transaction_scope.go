package billing

import (
	"context"

	"github.com/crmpro/backend/internal/domain/billing"
	"github.com/crmpro/backend/internal/domain/identity"
)

// TransactionScope provides transactional access to the repositories an
// approval touches. Approving a payment request extends the store's
// subscription in the same transaction that closes the request.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories inside a transaction
type TransactionalRepositories interface {
	PaymentRequestRepo() billing.PaymentRequestRepository
	TenantRepo() identity.TenantRepository
}

// NoOpTransactionScope runs the function without a transaction. Used in tests.
type NoOpTransactionScope struct {
	paymentRepo billing.PaymentRequestRepository
	tenantRepo  identity.TenantRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	paymentRepo billing.PaymentRequestRepository,
	tenantRepo identity.TenantRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{paymentRepo: paymentRepo, tenantRepo: tenantRepo}
}

// Execute runs the function directly without transaction semantics
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PaymentRequestRepo returns the payment request repository
func (s *NoOpTransactionScope) PaymentRequestRepo() billing.PaymentRequestRepository {
	return s.paymentRepo
}

// TenantRepo returns the tenant repository
func (s *NoOpTransactionScope) TenantRepo() identity.TenantRepository {
	return s.tenantRepo
}
