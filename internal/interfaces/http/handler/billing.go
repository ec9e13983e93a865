package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crmpro/backend/internal/application/billing"
	"github.com/crmpro/backend/internal/interfaces/http/middleware"
)

// BillingHandler handles subscription plans and payment requests.
type BillingHandler struct {
	BaseHandler
	subscriptionService *billing.SubscriptionService
}

type reviewFunc func(ctx context.Context, requestID, reviewerID uuid.UUID, req billing.ReviewPaymentRequest) (*billing.PaymentRequestResponse, error)

// NewBillingHandler creates a new billing handler
func NewBillingHandler(subscriptionService *billing.SubscriptionService) *BillingHandler {
	return &BillingHandler{subscriptionService: subscriptionService}
}

// RegisterRoutes registers billing routes
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/billing")
	{
		group.GET("/plans", h.ListPlans)
		group.GET("/payment-requests", h.ListForTenant)
		group.POST("/payment-requests", middleware.RequireAdmin(), h.Submit)
		// cross-tenant review surface, platform operator only
		group.GET("/payment-requests/pending", middleware.RequireSuperAdmin(), h.ListPending)
		group.POST("/payment-requests/:id/approve", middleware.RequireSuperAdmin(), h.Approve)
		group.POST("/payment-requests/:id/reject", middleware.RequireSuperAdmin(), h.Reject)
	}
}

// ListPlans returns the active subscription tiers.
func (h *BillingHandler) ListPlans(c *gin.Context) {
	plans, err := h.subscriptionService.ListPlans(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plans)
}

// ListForTenant returns the store's own payment requests.
func (h *BillingHandler) ListForTenant(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req billing.ListPaymentRequestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	page, err := h.subscriptionService.ListForTenant(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListPending returns payment requests awaiting review.
func (h *BillingHandler) ListPending(c *gin.Context) {
	var req billing.ListPaymentRequestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	page, err := h.subscriptionService.ListPending(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Submit files a payment request for a plan extension.
func (h *BillingHandler) Submit(c *gin.Context) {
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

	var req billing.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	request, err := h.subscriptionService.Submit(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, request)
}

// Approve accepts a payment request and extends the subscription.
func (h *BillingHandler) Approve(c *gin.Context) {
	h.review(c, h.subscriptionService.Approve)
}

// Reject declines a payment request.
func (h *BillingHandler) Reject(c *gin.Context) {
	h.review(c, h.subscriptionService.Reject)
}

func (h *BillingHandler) review(c *gin.Context, fn reviewFunc) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	requestID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req billing.ReviewPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := fn(c.Request.Context(), requestID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
