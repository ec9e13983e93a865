package inventory

import (
	"time"

	"github.com/crmpro/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StartStockCountRequest represents a request to open a count session
type StartStockCountRequest struct {
	Note string `json:"note" binding:"omitempty,max=500"`
}

// RecordCountRequest represents a physical count for one product
type RecordCountRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	ActualQty decimal.Decimal `json:"actual_qty"`
}

// CancelStockCountRequest represents a request to abandon a session
type CancelStockCountRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// ListStockCountsRequest represents query parameters for listing sessions
type ListStockCountsRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT COMPLETED CANCELLED"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// StockCountItemResponse represents one line of a count session
type StockCountItemResponse struct {
	ID          uuid.UUID        `json:"id"`
	ProductID   uuid.UUID        `json:"product_id"`
	ProductName string           `json:"product_name"`
	Unit        string           `json:"unit"`
	SystemQty   decimal.Decimal  `json:"system_qty"`
	ActualQty   *decimal.Decimal `json:"actual_qty,omitempty"`
	Difference  decimal.Decimal  `json:"difference"`
	Counted     bool             `json:"counted"`
}

// StockCountResponse represents a count session in API responses
type StockCountResponse struct {
	ID               uuid.UUID                `json:"id"`
	Status           string                   `json:"status"`
	StartedBy        uuid.UUID                `json:"started_by"`
	CompletedAt      *time.Time               `json:"completed_at,omitempty"`
	Note             string                   `json:"note,omitempty"`
	TotalItems       int                      `json:"total_items"`
	CountedItems     int                      `json:"counted_items"`
	DiscrepancyItems int                      `json:"discrepancy_items"`
	TotalDifference  decimal.Decimal          `json:"total_difference"`
	Items            []StockCountItemResponse `json:"items,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// ToStockCountItemResponse converts a domain count item to a response DTO
func ToStockCountItemResponse(item *inventory.StockCountItem) StockCountItemResponse {
	return StockCountItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Unit:        item.Unit,
		SystemQty:   item.SystemQty,
		ActualQty:   item.ActualQty,
		Difference:  item.Difference,
		Counted:     item.Counted(),
	}
}

// ToStockCountResponse converts a domain count session to a response DTO
func ToStockCountResponse(sc *inventory.StockCount, includeItems bool) StockCountResponse {
	response := StockCountResponse{
		ID:               sc.ID,
		Status:           string(sc.Status),
		StartedBy:        sc.StartedBy,
		CompletedAt:      sc.CompletedAt,
		Note:             sc.Note,
		TotalItems:       sc.TotalItems,
		CountedItems:     sc.CountedItems,
		DiscrepancyItems: sc.DiscrepancyItems,
		TotalDifference:  sc.TotalDifference(),
		CreatedAt:        sc.CreatedAt,
		UpdatedAt:        sc.UpdatedAt,
	}
	if includeItems {
		response.Items = make([]StockCountItemResponse, len(sc.Items))
		for i := range sc.Items {
			response.Items[i] = ToStockCountItemResponse(&sc.Items[i])
		}
	}
	return response
}
