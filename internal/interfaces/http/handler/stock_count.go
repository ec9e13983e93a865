package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/crmpro/backend/internal/application/inventory"
)

// StockCountHandler handles physical inventory count sessions.
type StockCountHandler struct {
	BaseHandler
	stockCountService *inventory.StockCountService
}

// NewStockCountHandler creates a new stock count handler
func NewStockCountHandler(stockCountService *inventory.StockCountService) *StockCountHandler {
	return &StockCountHandler{stockCountService: stockCountService}
}

// RegisterRoutes registers stock count routes
func (h *StockCountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	counts := rg.Group("/stock-counts")
	{
		counts.POST("", h.Start)
		counts.GET("", h.List)
		counts.GET("/draft", h.GetDraft)
		counts.GET("/:id", h.Get)
		counts.POST("/:id/counts", h.RecordCount)
		counts.POST("/:id/complete", h.Complete)
		counts.POST("/:id/cancel", h.Cancel)
	}
}

// Start opens a count session snapshotting the active catalog.
func (h *StockCountHandler) Start(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	userID, err := h.getUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req inventory.StartStockCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	sc, err := h.stockCountService.Start(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sc)
}

// List returns past count sessions, completed ones by default.
func (h *StockCountHandler) List(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req inventory.ListStockCountsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	page, err := h.stockCountService.List(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetDraft returns the in-progress session, if any.
func (h *StockCountHandler) GetDraft(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	sc, err := h.stockCountService.GetDraft(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sc)
}

// Get returns one session with its items.
func (h *StockCountHandler) Get(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	sc, err := h.stockCountService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sc)
}

// RecordCount stores the physically counted quantity for one product.
func (h *StockCountHandler) RecordCount(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.RecordCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	sc, err := h.stockCountService.RecordCount(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sc)
}

// Complete closes the session and reconciles stock for counted items.
func (h *StockCountHandler) Complete(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	sc, err := h.stockCountService.Complete(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sc)
}

// Cancel abandons the session without touching stock.
func (h *StockCountHandler) Cancel(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.CancelStockCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	if err := h.stockCountService.Cancel(c.Request.Context(), tenantID, id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
