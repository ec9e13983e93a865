package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/interfaces/http/dto"
	"github.com/crmpro/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setAuthContext simulates an authenticated request without a real token.
func setAuthContext(c *gin.Context, tenantID, userID uuid.UUID) {
	c.Set(middleware.ContextKeyTenantID, tenantID.String())
	c.Set(middleware.ContextKeyUserID, userID.String())
}

func newTestContext(t *testing.T, method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t, http.MethodGet, "/")

	h.Success(c, gin.H{"name": "Baraka Market"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandler_Created(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t, http.MethodPost, "/")

	h.Created(c, gin.H{"id": uuid.NewString()})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"version conflict", shared.ErrConcurrencyConflict, http.StatusConflict, "CONCURRENCY_CONFLICT"},
		{"invalid payment", shared.ErrInvalidPayment, http.StatusBadRequest, "INVALID_PAYMENT_AMOUNT"},
		{"quota", shared.ErrQuotaExceeded, http.StatusForbidden, "QUOTA_EXCEEDED"},
		{"insufficient stock", shared.ErrInsufficientStock, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"plain error is opaque", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(t, http.MethodGet, "/")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
			if tt.expectedCode == dto.ErrCodeInternal {
				// database details must not leak to the client
				assert.NotContains(t, resp.Error.Message, "pq:")
			}
		})
	}
}

func TestBaseHandler_GetTenantID(t *testing.T) {
	h := &BaseHandler{}

	t.Run("present", func(t *testing.T) {
		c, _ := newTestContext(t, http.MethodGet, "/")
		tenantID := uuid.New()
		setAuthContext(c, tenantID, uuid.New())

		got, err := h.getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, tenantID, got)
	})

	t.Run("missing", func(t *testing.T) {
		c, _ := newTestContext(t, http.MethodGet, "/")

		_, err := h.getTenantID(c)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("not a uuid", func(t *testing.T) {
		c, _ := newTestContext(t, http.MethodGet, "/")
		c.Set(middleware.ContextKeyTenantID, "nope")

		_, err := h.getTenantID(c)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestBaseHandler_ParseUUIDParam(t *testing.T) {
	h := &BaseHandler{}

	t.Run("valid", func(t *testing.T) {
		c, _ := newTestContext(t, http.MethodGet, "/")
		id := uuid.New()
		c.Params = gin.Params{{Key: "id", Value: id.String()}}

		got, ok := h.parseUUIDParam(c, "id")
		assert.True(t, ok)
		assert.Equal(t, id, got)
	})

	t.Run("invalid writes 400", func(t *testing.T) {
		c, w := newTestContext(t, http.MethodGet, "/")
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		_, ok := h.parseUUIDParam(c, "id")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
