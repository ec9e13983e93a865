package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/infrastructure/auth"
	"github.com/crmpro/backend/internal/infrastructure/logger"
	"github.com/crmpro/backend/internal/interfaces/http/dto"
	"github.com/crmpro/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common response helpers for all handlers.
type BaseHandler struct{}

// Success writes a 200 response with the given payload.
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 response with pagination metadata.
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created writes a 201 response with the given payload.
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent writes a 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error writes an error response with an explicit code.
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	requestID := logger.GetRequestID(c.Request.Context())
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// BadRequest writes a 400 validation error, typically for binding failures.
// Validator errors carry per-field details.
func (h *BaseHandler) BadRequest(c *gin.Context, err error) {
	requestID := logger.GetRequestID(c.Request.Context())
	c.JSON(http.StatusBadRequest, middleware.FormatValidationErrors(err, requestID))
}

// HandleError maps an application error to an HTTP response. Domain errors
// keep their code; anything else becomes an opaque 500 so internals do not
// leak to clients.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, domainErr.Code, domainErr.Message)
		return
	}
	logger.GetGinLogger(c).Error("unhandled error", zap.Error(err))
	h.Error(c, dto.ErrCodeInternal, "internal server error")
}

// getTenantID extracts the authenticated tenant ID from the request context.
func (h *BaseHandler) getTenantID(c *gin.Context) (uuid.UUID, error) {
	return h.getClaimUUID(c, middleware.ContextKeyTenantID)
}

// getUserID extracts the authenticated user ID from the request context.
func (h *BaseHandler) getUserID(c *gin.Context) (uuid.UUID, error) {
	return h.getClaimUUID(c, middleware.ContextKeyUserID)
}

// getClaims returns the full token claims set by the JWT middleware.
func (h *BaseHandler) getClaims(c *gin.Context) (*auth.Claims, error) {
	value, exists := c.Get(middleware.ContextKeyClaims)
	if !exists {
		return nil, shared.ErrUnauthorized
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil, shared.ErrUnauthorized
	}
	return claims, nil
}

func (h *BaseHandler) getClaimUUID(c *gin.Context, key string) (uuid.UUID, error) {
	value, exists := c.Get(key)
	if !exists {
		return uuid.Nil, shared.ErrUnauthorized
	}
	raw, ok := value.(string)
	if !ok {
		return uuid.Nil, shared.ErrUnauthorized
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, shared.ErrUnauthorized
	}
	return id, nil
}

// parseUUIDParam parses a path parameter as a UUID.
func (h *BaseHandler) parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, dto.ErrCodeValidation, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
