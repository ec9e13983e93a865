package inventory

import (
	"fmt"
	"time"

	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockCountStatus represents the lifecycle of a stock count session
type StockCountStatus string

const (
	StockCountStatusDraft     StockCountStatus = "DRAFT"
	StockCountStatusCompleted StockCountStatus = "COMPLETED"
	StockCountStatusCancelled StockCountStatus = "CANCELLED"
)

// IsValid checks if the status is a valid StockCountStatus
func (s StockCountStatus) IsValid() bool {
	switch s {
	case StockCountStatusDraft, StockCountStatusCompleted, StockCountStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for completed and cancelled counts
func (s StockCountStatus) IsTerminal() bool {
	return s == StockCountStatusCompleted || s == StockCountStatusCancelled
}

// StockCountItem is one product within a count session. ActualQty is
// nil until the operator records a physical count; uncounted items are
// excluded from discrepancy totals rather than treated as zero.
type StockCountItem struct {
	ID          uuid.UUID        `json:"id"`
	CountID     uuid.UUID        `json:"count_id"`
	ProductID   uuid.UUID        `json:"product_id"`
	ProductName string           `json:"product_name"`
	Unit        string           `json:"unit"`
	SystemQty   decimal.Decimal  `json:"system_qty"`
	ActualQty   *decimal.Decimal `json:"actual_qty"`
	Difference  decimal.Decimal  `json:"difference"` // actual - system, zero until counted
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Counted returns true once a physical count has been recorded
func (i *StockCountItem) Counted() bool {
	return i.ActualQty != nil
}

// HasDiscrepancy returns true if the counted quantity differs from the system
func (i *StockCountItem) HasDiscrepancy() bool {
	return i.Counted() && !i.Difference.IsZero()
}

// recordCount sets the physical count and the signed difference
func (i *StockCountItem) recordCount(actualQty decimal.Decimal) error {
	if actualQty.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Actual quantity cannot be negative")
	}

	qty := actualQty
	i.ActualQty = &qty
	i.Difference = actualQty.Sub(i.SystemQty)
	i.UpdatedAt = time.Now()

	return nil
}

// StockCount is a physical inventory count session. It snapshots the
// system quantity per product when started and collects operator
// counts until completed.
type StockCount struct {
	shared.TenantAggregateRoot
	Status           StockCountStatus `json:"status"`
	StartedBy        uuid.UUID        `json:"started_by"`
	CompletedAt      *time.Time       `json:"completed_at"`
	Note             string           `json:"note"`
	TotalItems       int              `json:"total_items"`
	CountedItems     int              `json:"counted_items"`
	DiscrepancyItems int              `json:"discrepancy_items"`
	Items            []StockCountItem `json:"items"`
}

// NewStockCount creates a draft count session
func NewStockCount(tenantID, startedBy uuid.UUID, note string) (*StockCount, error) {
	if startedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Starting user ID cannot be empty")
	}

	sc := &StockCount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              StockCountStatusDraft,
		StartedBy:           startedBy,
		Note:                note,
		Items:               make([]StockCountItem, 0),
	}

	sc.AddDomainEvent(NewStockCountStartedEvent(sc))

	return sc, nil
}

// AddItem snapshots one product's system quantity into the session
func (sc *StockCount) AddItem(productID uuid.UUID, productName, unit string, systemQty decimal.Decimal) error {
	if sc.Status != StockCountStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only add items to a draft count")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	for _, item := range sc.Items {
		if item.ProductID == productID {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Product already in this count")
		}
	}

	now := time.Now()
	sc.Items = append(sc.Items, StockCountItem{
		ID:          uuid.New(),
		CountID:     sc.ID,
		ProductID:   productID,
		ProductName: productName,
		Unit:        unit,
		SystemQty:   systemQty,
		Difference:  decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	sc.TotalItems++
	sc.UpdatedAt = now
	sc.IncrementVersion()

	return nil
}

// RecordCount records the operator's physical count for a product
func (sc *StockCount) RecordCount(productID uuid.UUID, actualQty decimal.Decimal) error {
	if sc.Status != StockCountStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only record counts on a draft count")
	}

	for i := range sc.Items {
		if sc.Items[i].ProductID == productID {
			wasCounted := sc.Items[i].Counted()

			if err := sc.Items[i].recordCount(actualQty); err != nil {
				return err
			}

			if !wasCounted {
				sc.CountedItems++
			}
			sc.recalculateDiscrepancies()
			sc.UpdatedAt = time.Now()
			sc.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Product not found in this count")
}

// recalculateDiscrepancies recounts items whose counted quantity differs
func (sc *StockCount) recalculateDiscrepancies() {
	sc.DiscrepancyItems = 0
	for _, item := range sc.Items {
		if item.HasDiscrepancy() {
			sc.DiscrepancyItems++
		}
	}
}

// Complete freezes the count session. At least one item must have been
// counted; uncounted items simply stay uncounted.
func (sc *StockCount) Complete() error {
	if sc.Status != StockCountStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete count in %s status", sc.Status))
	}
	if sc.CountedItems == 0 {
		return shared.NewDomainError("NO_COUNTS", "Cannot complete a count with no recorded counts")
	}

	now := time.Now()
	sc.Status = StockCountStatusCompleted
	sc.CompletedAt = &now
	sc.UpdatedAt = now
	sc.IncrementVersion()

	sc.AddDomainEvent(NewStockCountCompletedEvent(sc))

	return nil
}

// Cancel abandons a draft count session
func (sc *StockCount) Cancel(reason string) error {
	if sc.Status != StockCountStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel count in %s status", sc.Status))
	}

	sc.Status = StockCountStatusCancelled
	sc.Note = reason
	sc.UpdatedAt = time.Now()
	sc.IncrementVersion()

	return nil
}

// Discrepancies returns the counted items whose quantity differs from
// the system quantity
func (sc *StockCount) Discrepancies() []StockCountItem {
	result := make([]StockCountItem, 0)
	for _, item := range sc.Items {
		if item.HasDiscrepancy() {
			result = append(result, item)
		}
	}
	return result
}

// CountedItemsList returns only items with a recorded physical count
func (sc *StockCount) CountedItemsList() []StockCountItem {
	result := make([]StockCountItem, 0, sc.CountedItems)
	for _, item := range sc.Items {
		if item.Counted() {
			result = append(result, item)
		}
	}
	return result
}

// TotalDifference sums the signed differences of counted items
func (sc *StockCount) TotalDifference() decimal.Decimal {
	total := decimal.Zero
	for _, item := range sc.Items {
		if item.Counted() {
			total = total.Add(item.Difference)
		}
	}
	return total
}
