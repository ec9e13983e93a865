package catalog

import (
	"time"

	"github.com/crmpro/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required,max=200"`
	Barcode      string          `json:"barcode" binding:"omitempty,max=50"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	Unit         string          `json:"unit" binding:"required,max=20"`
	PackSize     int64           `json:"pack_size" binding:"omitempty,min=1"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	MinStock     decimal.Decimal `json:"min_stock"`
	InitialStock decimal.Decimal `json:"initial_stock"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name       string     `json:"name" binding:"required,max=200"`
	Unit       string     `json:"unit" binding:"required,max=20"`
	PackSize   int64      `json:"pack_size" binding:"omitempty,min=1"`
	CategoryID *uuid.UUID `json:"category_id"`
}

// SetPricesRequest represents a request to change product prices
type SetPricesRequest struct {
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

// SetBarcodeRequest represents a request to assign a barcode
type SetBarcodeRequest struct {
	Barcode string `json:"barcode" binding:"required,max=50"`
}

// SetMinStockRequest represents a request to change the low-stock level
type SetMinStockRequest struct {
	MinStock decimal.Decimal `json:"min_stock"`
}

// ReceiveStockRequest represents an incoming stock delivery
type ReceiveStockRequest struct {
	Quantity decimal.Decimal  `json:"quantity" binding:"required"`
	UnitCost *decimal.Decimal `json:"unit_cost"`
}

// ListProductsRequest represents query parameters for listing products
type ListProductsRequest struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=active inactive"`
	CategoryID string `form:"category_id"`
	LowStock   bool   `form:"low_stock"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Barcode      string          `json:"barcode,omitempty"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	Unit         string          `json:"unit"`
	PackSize     int64           `json:"pack_size"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	StockQty     decimal.Decimal `json:"stock_qty"`
	MinStock     decimal.Decimal `json:"min_stock"`
	LowStock     bool            `json:"low_stock"`
	Status       string          `json:"status"`
	Version      int             `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	SortOrder int    `json:"sort_order"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	SortOrder int    `json:"sort_order"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToProductResponse converts a domain product to a response DTO
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           product.ID,
		Name:         product.Name,
		Barcode:      product.Barcode,
		CategoryID:   product.CategoryID,
		Unit:         product.Unit,
		PackSize:     product.PackSize,
		CostPrice:    product.CostPrice,
		SellingPrice: product.SellingPrice,
		StockQty:     product.StockQty,
		MinStock:     product.MinStock,
		LowStock:     product.IsLowStock(),
		Status:       string(product.Status),
		Version:      product.Version,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain products to response DTOs
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToCategoryResponse converts a domain category to a response DTO
func ToCategoryResponse(category *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		SortOrder: category.SortOrder,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of domain categories to response DTOs
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}
