package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that NewDomainError("NOT_FOUND", "...")
// satisfies errors.Is(err, ErrNotFound).
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound        = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists   = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrConflict        = NewDomainError("CONFLICT", "Request conflicts with the current state")
	ErrInvalidInput    = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized    = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden       = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState    = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrConfirmRequired = NewDomainError("CONFIRMATION_REQUIRED", "This action is destructive and must be confirmed")
	ErrPaymentProvider = NewDomainError("PAYMENT_PROVIDER", "Payment provider request failed")
)
