package sales

import (
	"time"

	"github.com/crmpro/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===================== Request DTOs =====================

// SaleItemRequest is one product line of a sale being recorded
type SaleItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	SellType  string          `json:"sell_type" binding:"required,oneof=unit pack"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// RecordSaleRequest represents a request to record a point-of-sale transaction
type RecordSaleRequest struct {
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	PaymentMethod string            `json:"payment_method" binding:"required,oneof=cash card debt partial"`
	PaidAmount    decimal.Decimal   `json:"paid_amount"` // only for partial
	Items         []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	OccurredAt    *time.Time        `json:"occurred_at"` // optional, defaults to now
}

// ListSalesRequest represents a request to list sales within a period
type ListSalesRequest struct {
	From     *time.Time `form:"from"`
	To       *time.Time `form:"to"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir"`
	Search   string     `form:"search"`
}

// ===================== Response DTOs =====================

// SaleItemResponse is one product line of a recorded sale
type SaleItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SellType    string          `json:"sell_type"`
	Quantity    decimal.Decimal `json:"quantity"`
	BaseUnits   decimal.Decimal `json:"base_units"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SaleResponse represents a recorded sale
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	PaidAmount    decimal.Decimal    `json:"paid_amount"`
	DebtAmount    decimal.Decimal    `json:"debt_amount"`
	PaymentMethod string             `json:"payment_method"`
	SoldBy        uuid.UUID          `json:"sold_by"`
	OccurredAt    time.Time          `json:"occurred_at"`
	CreatedAt     time.Time          `json:"created_at"`
}

// SaleTotalsResponse aggregates sales over a period
type SaleTotalsResponse struct {
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	DebtAmount  decimal.Decimal `json:"debt_amount"`
}

// ===================== Converters =====================

// ToSaleResponse converts a domain sale to a response DTO
func ToSaleResponse(sale *sales.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(sale.Items))
	for i, item := range sale.Items {
		items[i] = SaleItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SellType:    string(item.SellType),
			Quantity:    item.Quantity,
			BaseUnits:   item.BaseUnits,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		}
	}
	return SaleResponse{
		ID:            sale.ID,
		CustomerName:  sale.CustomerName,
		CustomerPhone: sale.CustomerPhone,
		Items:         items,
		TotalAmount:   sale.TotalAmount,
		PaidAmount:    sale.PaidAmount,
		DebtAmount:    sale.DebtAmount,
		PaymentMethod: string(sale.PaymentMethod),
		SoldBy:        sale.SoldBy,
		OccurredAt:    sale.OccurredAt,
		CreatedAt:     sale.CreatedAt,
	}
}

// ToSaleResponses converts a slice of domain sales to response DTOs
func ToSaleResponses(saleList []*sales.Sale) []SaleResponse {
	responses := make([]SaleResponse, len(saleList))
	for i, sale := range saleList {
		responses[i] = ToSaleResponse(sale)
	}
	return responses
}
