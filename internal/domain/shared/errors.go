package shared

// DomainError is a business rule violation. The Code is stable API
// surface: the HTTP layer maps it to a status and clients branch on it.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Sentinel errors shared across contexts. Compare with errors.Is; the
// pointer identity makes that work without an Is method.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInvalidPayment      = NewDomainError("INVALID_PAYMENT_AMOUNT", "Payment amount must be positive and not exceed outstanding debt")
	ErrQuotaExceeded       = NewDomainError("QUOTA_EXCEEDED", "Subscription plan quota exceeded")
	ErrSubscriptionExpired = NewDomainError("SUBSCRIPTION_EXPIRED", "Tenant subscription has expired")
	ErrInvalidCredentials  = NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
)
