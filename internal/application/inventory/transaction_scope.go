package inventory

import (
	"context"

	"github.com/crmpro/backend/internal/domain/catalog"
	"github.com/crmpro/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories a
// stock count reconciliation touches. Completing a count writes the
// counted quantities back onto the products and closes the session in
// one transaction.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories inside a transaction
type TransactionalRepositories interface {
	CountRepo() inventory.StockCountRepository
	ProductRepo() catalog.ProductRepository
}

// NoOpTransactionScope runs the function without a transaction. Used in tests.
type NoOpTransactionScope struct {
	countRepo   inventory.StockCountRepository
	productRepo catalog.ProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	countRepo inventory.StockCountRepository,
	productRepo catalog.ProductRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{countRepo: countRepo, productRepo: productRepo}
}

// Execute runs the function directly without transaction semantics
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CountRepo returns the stock count repository
func (s *NoOpTransactionScope) CountRepo() inventory.StockCountRepository {
	return s.countRepo
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}
