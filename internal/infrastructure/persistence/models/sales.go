package models

import (
	"time"

	"github.com/crmpro/backend/internal/domain/catalog"
	"github.com/crmpro/backend/internal/domain/sales"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate root.
type SaleModel struct {
	TenantAggregateModel
	CustomerName  string              `gorm:"type:varchar(200)"`
	CustomerPhone string              `gorm:"type:varchar(50)"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	PaidAmount    decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	DebtAmount    decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	PaymentMethod sales.PaymentMethod `gorm:"type:varchar(20);not null;index"`
	SoldBy        uuid.UUID           `gorm:"type:uuid;not null;index"`
	OccurredAt    time.Time           `gorm:"not null;index:idx_sales_tenant_occurred,priority:2"`
	Items         []SaleItemModel     `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// SaleItemModel is the persistence model for one line of a sale.
type SaleItemModel struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key"`
	SaleID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductName string           `gorm:"type:varchar(200);not null"`
	SellType    catalog.SellType `gorm:"type:varchar(20);not null"`
	Quantity    decimal.Decimal  `gorm:"type:decimal(18,3);not null"`
	BaseUnits   decimal.Decimal  `gorm:"type:decimal(18,3);not null"`
	UnitPrice   decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	LineTotal   decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain SaleItem.
func (m *SaleItemModel) ToDomain() sales.SaleItem {
	return sales.SaleItem{
		ID:          m.ID,
		SaleID:      m.SaleID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		SellType:    m.SellType,
		Quantity:    m.Quantity,
		BaseUnits:   m.BaseUnits,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
		CreatedAt:   m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain SaleItem.
func (m *SaleItemModel) FromDomain(item sales.SaleItem) {
	m.ID = item.ID
	m.SaleID = item.SaleID
	m.ProductID = item.ProductID
	m.ProductName = item.ProductName
	m.SellType = item.SellType
	m.Quantity = item.Quantity
	m.BaseUnits = item.BaseUnits
	m.UnitPrice = item.UnitPrice
	m.LineTotal = item.LineTotal
	m.CreatedAt = item.CreatedAt
}

// ToDomain converts the persistence model to a domain Sale entity.
func (m *SaleModel) ToDomain() *sales.Sale {
	items := make([]sales.SaleItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = item.ToDomain()
	}
	return &sales.Sale{
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
		CustomerName:  m.CustomerName,
		CustomerPhone: m.CustomerPhone,
		Items:         items,
		TotalAmount:   m.TotalAmount,
		PaidAmount:    m.PaidAmount,
		DebtAmount:    m.DebtAmount,
		PaymentMethod: m.PaymentMethod,
		SoldBy:        m.SoldBy,
		OccurredAt:    m.OccurredAt,
	}
}

// FromDomain populates the persistence model from a domain Sale entity.
func (m *SaleModel) FromDomain(sale *sales.Sale) {
	m.FromDomainTenantAggregateRoot(sale.TenantAggregateRoot)
	m.CustomerName = sale.CustomerName
	m.CustomerPhone = sale.CustomerPhone
	m.TotalAmount = sale.TotalAmount
	m.PaidAmount = sale.PaidAmount
	m.DebtAmount = sale.DebtAmount
	m.PaymentMethod = sale.PaymentMethod
	m.SoldBy = sale.SoldBy
	m.OccurredAt = sale.OccurredAt

	m.Items = make([]SaleItemModel, len(sale.Items))
	for i, item := range sale.Items {
		m.Items[i].FromDomain(item)
	}
}

// SaleModelFromDomain creates a new persistence model from a domain Sale.
func SaleModelFromDomain(sale *sales.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(sale)
	return m
}
