package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crmpro/backend/internal/application/sales"
	"github.com/crmpro/backend/internal/interfaces/http/dto"
)

// SaleHandler handles point-of-sale endpoints.
type SaleHandler struct {
	BaseHandler
	saleService *sales.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *sales.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// RegisterRoutes registers sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/sales")
	{
		group.POST("", h.Record)
		group.GET("", h.List)
		group.GET("/totals", h.Totals)
		group.GET("/:id", h.Get)
	}
}

// Record books a sale, deducting stock and opening debt lines if unpaid.
func (h *SaleHandler) Record(c *gin.Context) {
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

	var req sales.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	sale, err := h.saleService.RecordSale(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// List returns a page of sales within the requested period.
func (h *SaleHandler) List(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req sales.ListSalesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	list, total, err := h.saleService.List(c.Request.Context(), tenantID, req)
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
	h.SuccessWithMeta(c, list, total, page, pageSize)
}

// Get returns a single sale with its items.
func (h *SaleHandler) Get(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Totals returns aggregated figures for a period. Without parameters it
// covers the current day.
func (h *SaleHandler) Totals(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	from, to, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	totals, err := h.saleService.Totals(c.Request.Context(), tenantID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}

// parsePeriod reads from/to query parameters accepting RFC3339 or plain dates.
func (h *SaleHandler) parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	if raw := c.Query("from"); raw != "" {
		parsed, err := parseTimeParam(raw)
		if err != nil {
			h.Error(c, dto.ErrCodeValidation, "invalid from")
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := parseTimeParam(raw)
		if err != nil {
			h.Error(c, dto.ErrCodeValidation, "invalid to")
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	return from, to, true
}

func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
