package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crmpro/backend/internal/infrastructure/logger"
)

// RequestIDHeader is the header carrying the correlation ID.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns a correlation ID to every request. A client-provided
// X-Request-ID is honored so callers can trace their own requests. The ID
// is stored in the gin context, the request context and the base logger.
func RequestID(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx, _ := logger.WithRequestID(c.Request.Context(), base, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
