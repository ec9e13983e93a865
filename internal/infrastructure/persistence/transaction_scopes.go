package persistence

import (
	"context"

	appbilling "github.com/crmpro/backend/internal/application/billing"
	appinv "github.com/crmpro/backend/internal/application/inventory"
	appledger "github.com/crmpro/backend/internal/application/ledger"
	appsales "github.com/crmpro/backend/internal/application/sales"
	"github.com/crmpro/backend/internal/domain/billing"
	"github.com/crmpro/backend/internal/domain/catalog"
	"github.com/crmpro/backend/internal/domain/identity"
	"github.com/crmpro/backend/internal/domain/inventory"
	"github.com/crmpro/backend/internal/domain/ledger"
	"github.com/crmpro/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormLedgerTransactionScope implements the ledger TransactionScope
// using GORM transactions, so a payment allocation either writes all
// of its line mutations or none of them.
type GormLedgerTransactionScope struct {
	db *gorm.DB
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerRepositories{tx: tx})
	})
}

type gormLedgerRepositories struct {
	tx *gorm.DB
}

// LineRepo returns the sale line repository scoped to the current transaction
func (r *gormLedgerRepositories) LineRepo() ledger.SaleLineRepository {
	return NewGormSaleLineRepository(r.tx)
}

// GormSalesTransactionScope implements the sales TransactionScope using
// GORM transactions. Recording a sale touches the sale, the products it
// deducts stock from and any debt lines it books, atomically.
type GormSalesTransactionScope struct {
	db *gorm.DB
}

// NewGormSalesTransactionScope creates a new GormSalesTransactionScope
func NewGormSalesTransactionScope(db *gorm.DB) *GormSalesTransactionScope {
	return &GormSalesTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormSalesTransactionScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSalesRepositories{tx: tx})
	})
}

type gormSalesRepositories struct {
	tx *gorm.DB
}

// SaleRepo returns the sale repository scoped to the current transaction
func (r *gormSalesRepositories) SaleRepo() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormSalesRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// LineRepo returns the sale line repository scoped to the current transaction
func (r *gormSalesRepositories) LineRepo() ledger.SaleLineRepository {
	return NewGormSaleLineRepository(r.tx)
}

// GormInventoryTransactionScope implements the inventory
// TransactionScope using GORM transactions, so completing a stock count
// reconciles products and closes the session together.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

type gormInventoryRepositories struct {
	tx *gorm.DB
}

// CountRepo returns the stock count repository scoped to the current transaction
func (r *gormInventoryRepositories) CountRepo() inventory.StockCountRepository {
	return NewGormStockCountRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormInventoryRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// GormBillingTransactionScope implements the billing TransactionScope
// using GORM transactions, so approving a payment request and extending
// the subscription commit together.
type GormBillingTransactionScope struct {
	db *gorm.DB
}

// NewGormBillingTransactionScope creates a new GormBillingTransactionScope
func NewGormBillingTransactionScope(db *gorm.DB) *GormBillingTransactionScope {
	return &GormBillingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormBillingTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormBillingRepositories{tx: tx})
	})
}

type gormBillingRepositories struct {
	tx *gorm.DB
}

// PaymentRequestRepo returns the payment request repository scoped to the current transaction
func (r *gormBillingRepositories) PaymentRequestRepo() billing.PaymentRequestRepository {
	return NewGormPaymentRequestRepository(r.tx)
}

// TenantRepo returns the tenant repository scoped to the current transaction
func (r *gormBillingRepositories) TenantRepo() identity.TenantRepository {
	return NewGormTenantRepository(r.tx)
}

// Interface assertions
var (
	_ appledger.TransactionScope             = (*GormLedgerTransactionScope)(nil)
	_ appledger.TransactionalRepositories    = (*gormLedgerRepositories)(nil)
	_ appsales.TransactionScope              = (*GormSalesTransactionScope)(nil)
	_ appsales.TransactionalRepositories     = (*gormSalesRepositories)(nil)
	_ appinv.TransactionScope                = (*GormInventoryTransactionScope)(nil)
	_ appinv.TransactionalRepositories       = (*gormInventoryRepositories)(nil)
	_ appbilling.TransactionScope            = (*GormBillingTransactionScope)(nil)
	_ appbilling.TransactionalRepositories   = (*gormBillingRepositories)(nil)
)
