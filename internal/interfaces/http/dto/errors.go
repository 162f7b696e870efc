package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeConfirmationRequired is used when a destructive action is not confirmed
	ErrCodeConfirmationRequired = "ERR_CONFIRMATION_REQUIRED"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeTokenRevoked is used when the token was revoked by logout or a role change
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeEditor prefixes rejected editor actions
	ErrCodeEditor = "ERR_EDITOR"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Upstream error codes
const (
	// ErrCodePaymentProvider is used when the payment provider rejects or fails a call
	ErrCodePaymentProvider = "ERR_PAYMENT_PROVIDER"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:           http.StatusBadRequest,
	ErrCodeConfirmationRequired: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodePaymentProvider: http.StatusBadGateway,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Codes outside the table are classified by their shape: *_NOT_FOUND is 404,
// ERR_ALREADY_* is 409, ERR_INVALID_* is 400, *_REQUIRED and editor
// rejections are 422. Anything else is 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "ERR_ALREADY_"):
		return http.StatusConflict
	case strings.HasPrefix(code, "ERR_INVALID_"), strings.HasPrefix(code, "ERR_VALIDATION"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_REQUIRED"), strings.HasPrefix(code, ErrCodeEditor+"_"):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// domainCodeMapping maps domain error codes whose name differs from the API code
var domainCodeMapping = map[string]string{
	"VALIDATION_FAILED": ErrCodeValidation,
	"INTERNAL_ERROR":    ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format by
// prefixing it with ERR_. Codes already in the API format pass through.
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainCodeMapping[code]; ok {
		return mapped
	}
	if code == "" {
		return ErrCodeUnknown
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}
