package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crmpro/backend/internal/application/catalog"
)

// ProductHandler handles product catalog endpoints.
type ProductHandler struct {
	BaseHandler
	productService *catalog.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *catalog.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.List)
		products.POST("", h.Create)
		products.GET("/low-stock", h.LowStock)
		products.GET("/barcode/:barcode", h.GetByBarcode)
		products.GET("/:id", h.Get)
		products.PUT("/:id", h.Update)
		products.PUT("/:id/prices", h.SetPrices)
		products.PUT("/:id/barcode", h.SetBarcode)
		products.PUT("/:id/min-stock", h.SetMinStock)
		products.POST("/:id/receive", h.ReceiveStock)
		products.POST("/:id/activate", h.Activate)
		products.POST("/:id/deactivate", h.Deactivate)
	}
}

// List returns a page of products matching the query parameters.
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req catalog.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// Get returns a single product.
func (h *ProductHandler) Get(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// GetByBarcode looks a product up by its barcode, the scanner fast path.
func (h *ProductHandler) GetByBarcode(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	product, err := h.productService.GetByBarcode(c.Request.Context(), tenantID, c.Param("barcode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// LowStock returns products at or below their reorder threshold.
func (h *ProductHandler) LowStock(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	products, err := h.productService.LowStock(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Create adds a product to the catalog.
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req catalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update changes a product's descriptive fields.
func (h *ProductHandler) Update(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// SetPrices updates cost and selling prices.
func (h *ProductHandler) SetPrices(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.SetPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.productService.SetPrices(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// SetBarcode assigns or replaces the product barcode.
func (h *ProductHandler) SetBarcode(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.SetBarcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.productService.SetBarcode(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// SetMinStock updates the reorder threshold.
func (h *ProductHandler) SetMinStock(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.SetMinStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.productService.SetMinStock(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ReceiveStock books an inbound delivery.
func (h *ProductHandler) ReceiveStock(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.productService.ReceiveStock(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Activate puts a product back on sale.
func (h *ProductHandler) Activate(c *gin.Context) {
	h.toggle(c, h.productService.Activate)
}

// Deactivate removes a product from sale while keeping its history.
func (h *ProductHandler) Deactivate(c *gin.Context) {
	h.toggle(c, h.productService.Deactivate)
}

func (h *ProductHandler) toggle(c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) error) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := fn(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
