package ledger

import (
	"context"

	"github.com/crmpro/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to ledger repositories.
// A payment touches several sale lines; either every mutated line is
// persisted or none is.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to ledger repositories
// sharing one underlying database transaction.
type TransactionalRepositories interface {
	// LineRepo returns the sale line repository scoped to the current transaction
	LineRepo() ledger.SaleLineRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests.
type NoOpTransactionScope struct {
	lineRepo ledger.SaleLineRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repository.
func NewNoOpTransactionScope(lineRepo ledger.SaleLineRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{lineRepo: lineRepo}
}

// Execute runs the function directly.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// LineRepo returns the sale line repository.
func (s *NoOpTransactionScope) LineRepo() ledger.SaleLineRepository {
	return s.lineRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
