package sales

import (
	"context"

	"github.com/crmpro/backend/internal/domain/catalog"
	"github.com/crmpro/backend/internal/domain/ledger"
	"github.com/crmpro/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories a
// sale touches. Recording a sale deducts stock, stores the sale and
// books its debt lines; all of it commits or none of it does.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories
// sharing one underlying database transaction.
type TransactionalRepositories interface {
	// SaleRepo returns the sale repository scoped to the current transaction
	SaleRepo() sales.SaleRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// LineRepo returns the sale line repository scoped to the current transaction
	LineRepo() ledger.SaleLineRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests.
type NoOpTransactionScope struct {
	saleRepo    sales.SaleRepository
	productRepo catalog.ProductRepository
	lineRepo    ledger.SaleLineRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	saleRepo sales.SaleRepository,
	productRepo catalog.ProductRepository,
	lineRepo ledger.SaleLineRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		lineRepo:    lineRepo,
	}
}

// Execute runs the function directly.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SaleRepo returns the sale repository.
func (s *NoOpTransactionScope) SaleRepo() sales.SaleRepository {
	return s.saleRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// LineRepo returns the sale line repository.
func (s *NoOpTransactionScope) LineRepo() ledger.SaleLineRepository {
	return s.lineRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
