package models

import (
	"time"

	"github.com/crmpro/backend/internal/domain/ledger"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLineModel is the persistence model for the SaleLine aggregate root.
// NormalizedCustomer is a denormalized grouping key kept in sync on
// every write so debtor queries never scan on expressions.
type SaleLineModel struct {
	TenantAggregateModel
	SaleID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName        string          `gorm:"type:varchar(200);not null"`
	CustomerName       string          `gorm:"type:varchar(200)"`
	CustomerPhone      string          `gorm:"type:varchar(50)"`
	NormalizedCustomer string          `gorm:"type:varchar(200);not null;index:idx_sale_lines_tenant_customer,priority:2"`
	Quantity           decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Debt               decimal.Decimal `gorm:"type:decimal(18,2);not null;index"`
	OccurredAt         time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SaleLineModel) TableName() string {
	return "sale_lines"
}

// ToDomain converts the persistence model to a domain SaleLine entity.
func (m *SaleLineModel) ToDomain() *ledger.SaleLine {
	return &ledger.SaleLine{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		SaleID:        m.SaleID,
		ProductID:     m.ProductID,
		ProductName:   m.ProductName,
		CustomerName:  m.CustomerName,
		CustomerPhone: m.CustomerPhone,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		TotalAmount:   m.TotalAmount,
		PaidAmount:    m.PaidAmount,
		Debt:          m.Debt,
		OccurredAt:    m.OccurredAt,
	}
}

// FromDomain populates the persistence model from a domain SaleLine entity.
func (m *SaleLineModel) FromDomain(line *ledger.SaleLine) {
	m.FromDomainTenantAggregateRoot(line.TenantAggregateRoot)
	m.SaleID = line.SaleID
	m.ProductID = line.ProductID
	m.ProductName = line.ProductName
	m.CustomerName = line.CustomerName
	m.CustomerPhone = line.CustomerPhone
	m.NormalizedCustomer = line.NormalizedCustomer()
	m.Quantity = line.Quantity
	m.UnitPrice = line.UnitPrice
	m.TotalAmount = line.TotalAmount
	m.PaidAmount = line.PaidAmount
	m.Debt = line.Debt
	m.OccurredAt = line.OccurredAt
}

// SaleLineModelFromDomain creates a new persistence model from a domain SaleLine.
func SaleLineModelFromDomain(line *ledger.SaleLine) *SaleLineModel {
	m := &SaleLineModel{}
	m.FromDomain(line)
	return m
}
