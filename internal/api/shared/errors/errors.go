package errors

import (
	"encoding/json"
	"strings"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeValidationFailed ErrorCode = "validation_failed"
	ErrCodeUnauthorized     ErrorCode = "unauthorized"
	ErrCodeConflict         ErrorCode = "conflict"
	ErrCodePayloadTooLarge  ErrorCode = "payload_too_large"
	ErrCodeTooManyRequests  ErrorCode = "too_many_requests"

	// Server errors (5xx)
	ErrCodeInternalError  ErrorCode = "internal_error"
	ErrCodeLedgerError    ErrorCode = "ledger_error"
	ErrCodeGatewayTimeout ErrorCode = "confirmation_timeout"
	ErrCodeServiceError   ErrorCode = "service_error"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

func newError(code ErrorCode, message string, details []string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

// Error constructors for common error types
func NewBadRequestError(message string, details ...string) *APIError {
	return newError(ErrCodeBadRequest, message, details)
}

func NewNotFoundError(message string, details ...string) *APIError {
	return newError(ErrCodeNotFound, message, details)
}

func NewValidationError(details ...string) *APIError {
	return newError(ErrCodeValidationFailed, "Validation failed", details)
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return newError(ErrCodeUnauthorized, message, details)
}

func NewConflictError(message string, details ...string) *APIError {
	return newError(ErrCodeConflict, message, details)
}

func NewPayloadTooLargeError(message string, details ...string) *APIError {
	return newError(ErrCodePayloadTooLarge, message, details)
}

func NewTooManyRequestsError(message string, details ...string) *APIError {
	return newError(ErrCodeTooManyRequests, message, details)
}

func NewInternalError(message string, details ...string) *APIError {
	return newError(ErrCodeInternalError, message, details)
}

func NewLedgerError(message string, details ...string) *APIError {
	return newError(ErrCodeLedgerError, message, details)
}

func NewGatewayTimeoutError(message string, details ...string) *APIError {
	return newError(ErrCodeGatewayTimeout, message, details)
}

func NewServiceError(message string, details ...string) *APIError {
	return newError(ErrCodeServiceError, message, details)
}
