package dto

import "net/http"

// Error codes returned by the HTTP layer itself. Domain error codes come
// straight from shared.DomainError and are part of the API contract.
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,

	"NOT_FOUND":              http.StatusNotFound,
	"ALREADY_EXISTS":         http.StatusConflict,
	"CONCURRENCY_CONFLICT":   http.StatusConflict,
	"USERNAME_TAKEN":         http.StatusConflict,
	"COUNT_IN_PROGRESS":      http.StatusConflict,
	"INVALID_PAYMENT_AMOUNT": http.StatusBadRequest,
	"QUOTA_EXCEEDED":         http.StatusForbidden,
	"SUBSCRIPTION_EXPIRED":   http.StatusForbidden,
	"FORBIDDEN":              http.StatusForbidden,
	"UNAUTHORIZED":           http.StatusUnauthorized,
	"INVALID_CREDENTIALS":    http.StatusUnauthorized,
	"USER_INACTIVE":          http.StatusForbidden,
	"INSUFFICIENT_STOCK":     http.StatusUnprocessableEntity,
	"INVALID_STATE":          http.StatusUnprocessableEntity,
	"NO_COUNTS":              http.StatusUnprocessableEntity,
	"ITEM_NOT_FOUND":         http.StatusNotFound,
	"PLAN_INACTIVE":          http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown domain codes default to 400: the request was understood but
// rejected by a business rule.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}
