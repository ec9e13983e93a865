package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/crmpro/backend/internal/application/ledger"
)

// DebtorHandler handles the debt book: listing debtors and taking payments.
type DebtorHandler struct {
	BaseHandler
	debtorService  *ledger.DebtorService
	paymentService *ledger.PaymentService
}

// NewDebtorHandler creates a new debtor handler
func NewDebtorHandler(debtorService *ledger.DebtorService, paymentService *ledger.PaymentService) *DebtorHandler {
	return &DebtorHandler{debtorService: debtorService, paymentService: paymentService}
}

// RegisterRoutes registers debtor routes
func (h *DebtorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	debtors := rg.Group("/debtors")
	{
		debtors.GET("", h.List)
		debtors.POST("/payments", h.ApplyPayment)
		debtors.GET("/:name", h.Get)
		debtors.GET("/sales/:id/lines", h.SaleLines)
	}
}

// List returns the aggregated debtor book.
func (h *DebtorHandler) List(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req ledger.ListDebtorsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	list, err := h.debtorService.List(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Get returns one debtor's aggregate by customer name.
func (h *DebtorHandler) Get(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	debtor, err := h.debtorService.Get(c.Request.Context(), tenantID, c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, debtor)
}

// SaleLines returns the debt lines opened by a single sale.
func (h *DebtorHandler) SaleLines(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	saleID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	lines, err := h.debtorService.SaleLines(c.Request.Context(), tenantID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}

// ApplyPayment spreads a customer payment across their open lines,
// oldest first.
func (h *DebtorHandler) ApplyPayment(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req ledger.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := h.paymentService.ApplyPayment(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
