package inventory

import "github.com/crmpro/backend/internal/domain/shared"

const (
	EventTypeStockCountStarted   = "inventory.stock_count.started"
	EventTypeStockCountCompleted = "inventory.stock_count.completed"

	aggregateTypeStockCount = "StockCount"
)

// StockCountStartedEvent is raised when a new count session is opened
type StockCountStartedEvent struct {
	shared.BaseDomainEvent
	StartedBy string `json:"started_by"`
}

func NewStockCountStartedEvent(sc *StockCount) *StockCountStartedEvent {
	return &StockCountStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCountStarted, aggregateTypeStockCount, sc.ID, sc.TenantID),
		StartedBy:       sc.StartedBy.String(),
	}
}

// StockCountCompletedEvent is raised when a count session is frozen
type StockCountCompletedEvent struct {
	shared.BaseDomainEvent
	CountedItems     int    `json:"counted_items"`
	DiscrepancyItems int    `json:"discrepancy_items"`
	TotalDifference  string `json:"total_difference"`
}

func NewStockCountCompletedEvent(sc *StockCount) *StockCountCompletedEvent {
	return &StockCountCompletedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeStockCountCompleted, aggregateTypeStockCount, sc.ID, sc.TenantID),
		CountedItems:     sc.CountedItems,
		DiscrepancyItems: sc.DiscrepancyItems,
		TotalDifference:  sc.TotalDifference().String(),
	}
}
