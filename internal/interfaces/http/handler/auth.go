package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/crmpro/backend/internal/application/identity"
)

// AuthHandler handles authentication and session endpoints.
type AuthHandler struct {
	BaseHandler
	authService   *identity.AuthService
	tenantService *identity.TenantService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, tenantService *identity.TenantService) *AuthHandler {
	return &AuthHandler{authService: authService, tenantService: tenantService}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/super-admin/login", h.SuperAdminLogin)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me)
		auth.POST("/change-password", h.ChangePassword)
	}
}

// Register creates a new store together with its admin account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.tenantService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Login authenticates a user and issues a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SuperAdminLogin authenticates the platform operator and issues a
// token pair carrying the super admin role.
func (h *AuthHandler) SuperAdminLogin(c *gin.Context) {
	var req identity.SuperAdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	pair, err := h.authService.SuperAdminLogin(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pair)
}

// Refresh exchanges a refresh token for a fresh token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pair)
}

// Logout revokes the current access token.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, err := h.getClaims(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
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

	user, err := h.authService.GetCurrentUser(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword updates the authenticated user's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
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

	var req identity.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), tenantID, userID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
