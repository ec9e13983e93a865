package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/crmpro/backend/internal/infrastructure/auth"
	"github.com/crmpro/backend/internal/infrastructure/logger"
	"github.com/crmpro/backend/internal/interfaces/http/dto"
)

// Context keys populated by the JWT middleware.
const (
	ContextKeyClaims   = "claims"
	ContextKeyTenantID = "tenant_id"
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyRole     = "role"
)

// JWTMiddlewareConfig configures the JWT authentication middleware.
type JWTMiddlewareConfig struct {
	JWTService       *auth.JWTService
	TokenBlacklist   auth.TokenBlacklist
	SkipPaths        []string
	SkipPathPrefixes []string
}

// JWTMiddleware validates the Bearer token and stores the claims in the
// request context. Revoked tokens are rejected when a blacklist is
// configured; a blacklist lookup failure does not block the request.
func JWTMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, ok := extractBearerToken(c)
		if !ok {
			abortUnauthorized(c, "missing or malformed authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		if cfg.TokenBlacklist != nil && claims.ID != "" {
			revoked, err := cfg.TokenBlacklist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.FromContext(c.Request.Context()).Warn("token blacklist lookup failed")
			} else if revoked {
				abortUnauthorized(c, "token has been revoked")
				return
			}
		}

		ctx := c.Request.Context()
		ctx, log := logger.WithTenantID(ctx, logger.FromContext(ctx), claims.TenantID)
		ctx, _ = logger.WithUserID(ctx, log, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyTenantID, claims.TenantID)
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin rejects requests whose token does not carry the admin role.
// It must run after JWTMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextKeyClaims)
		if !exists {
			abortUnauthorized(c, "authentication required")
			return
		}
		claims, ok := value.(*auth.Claims)
		if !ok || !claims.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "admin role required", logger.GetRequestID(c.Request.Context())))
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin rejects requests whose token does not belong to the
// platform operator. A tenant admin token is not enough: cross-tenant
// surfaces like payment-request review sit behind this guard.
// It must run after JWTMiddleware.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextKeyClaims)
		if !exists {
			abortUnauthorized(c, "authentication required")
			return
		}
		claims, ok := value.(*auth.Claims)
		if !ok || !claims.IsSuperAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "super admin role required", logger.GetRequestID(c.Request.Context())))
			return
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeUnauthorized, message, logger.GetRequestID(c.Request.Context())))
}
