package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/crmpro/backend/internal/application/identity"
	"github.com/crmpro/backend/internal/interfaces/http/middleware"
)

// TenantHandler handles store profile endpoints.
type TenantHandler struct {
	BaseHandler
	tenantService *identity.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *identity.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// RegisterRoutes registers tenant routes
func (h *TenantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tenant := rg.Group("/tenant")
	{
		tenant.GET("", h.Get)
		tenant.PUT("", middleware.RequireAdmin(), h.Update)
	}
}

// Get returns the authenticated store's profile.
func (h *TenantHandler) Get(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	tenant, err := h.tenantService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Update changes the store's profile.
func (h *TenantHandler) Update(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req identity.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	tenant, err := h.tenantService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}
