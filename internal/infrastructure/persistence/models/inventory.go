package models

import (
	"time"

	"github.com/crmpro/backend/internal/domain/inventory"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockCountModel is the persistence model for the StockCount aggregate root.
type StockCountModel struct {
	TenantAggregateModel
	Status           inventory.StockCountStatus `gorm:"type:varchar(20);not null;index:idx_stock_counts_tenant_status,priority:2"`
	StartedBy        uuid.UUID                  `gorm:"type:uuid;not null"`
	CompletedAt      *time.Time
	Note             string                `gorm:"type:text"`
	TotalItems       int                   `gorm:"not null;default:0"`
	CountedItems     int                   `gorm:"not null;default:0"`
	DiscrepancyItems int                   `gorm:"not null;default:0"`
	Items            []StockCountItemModel `gorm:"foreignKey:CountID;references:ID"`
}

// TableName returns the table name for GORM
func (StockCountModel) TableName() string {
	return "stock_counts"
}

// StockCountItemModel is the persistence model for one product snapshot
// within a count session. ActualQty stays NULL until the shelf is counted.
type StockCountItemModel struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key"`
	CountID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductName string           `gorm:"type:varchar(200);not null"`
	Unit        string           `gorm:"type:varchar(20);not null"`
	SystemQty   decimal.Decimal  `gorm:"type:decimal(18,3);not null"`
	ActualQty   *decimal.Decimal `gorm:"type:decimal(18,3)"`
	Difference  decimal.Decimal  `gorm:"type:decimal(18,3);not null;default:0"`
	CreatedAt   time.Time        `gorm:"not null"`
	UpdatedAt   time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockCountItemModel) TableName() string {
	return "stock_count_items"
}

// ToDomain converts the persistence model to a domain StockCountItem.
func (m *StockCountItemModel) ToDomain() inventory.StockCountItem {
	return inventory.StockCountItem{
		ID:          m.ID,
		CountID:     m.CountID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Unit:        m.Unit,
		SystemQty:   m.SystemQty,
		ActualQty:   m.ActualQty,
		Difference:  m.Difference,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain StockCountItem.
func (m *StockCountItemModel) FromDomain(item inventory.StockCountItem) {
	m.ID = item.ID
	m.CountID = item.CountID
	m.ProductID = item.ProductID
	m.ProductName = item.ProductName
	m.Unit = item.Unit
	m.SystemQty = item.SystemQty
	m.ActualQty = item.ActualQty
	m.Difference = item.Difference
	m.CreatedAt = item.CreatedAt
	m.UpdatedAt = item.UpdatedAt
}

// ToDomain converts the persistence model to a domain StockCount entity.
func (m *StockCountModel) ToDomain() *inventory.StockCount {
	items := make([]inventory.StockCountItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = item.ToDomain()
	}
	return &inventory.StockCount{
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
		Status:           m.Status,
		StartedBy:        m.StartedBy,
		CompletedAt:      m.CompletedAt,
		Note:             m.Note,
		TotalItems:       m.TotalItems,
		CountedItems:     m.CountedItems,
		DiscrepancyItems: m.DiscrepancyItems,
		Items:            items,
	}
}

// FromDomain populates the persistence model from a domain StockCount entity.
func (m *StockCountModel) FromDomain(sc *inventory.StockCount) {
	m.FromDomainTenantAggregateRoot(sc.TenantAggregateRoot)
	m.Status = sc.Status
	m.StartedBy = sc.StartedBy
	m.CompletedAt = sc.CompletedAt
	m.Note = sc.Note
	m.TotalItems = sc.TotalItems
	m.CountedItems = sc.CountedItems
	m.DiscrepancyItems = sc.DiscrepancyItems

	m.Items = make([]StockCountItemModel, len(sc.Items))
	for i, item := range sc.Items {
		m.Items[i].FromDomain(item)
	}
}

// StockCountModelFromDomain creates a new persistence model from a domain StockCount.
func StockCountModelFromDomain(sc *inventory.StockCount) *StockCountModel {
	m := &StockCountModel{}
	m.FromDomain(sc)
	return m
}
