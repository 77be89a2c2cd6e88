package dto

import "net/http"

// Error codes shared between the domain layer and the transport layer.
// Handlers pass domain error codes through unchanged so API clients can
// branch on them.
const (
	ErrCodeInternal           = "INTERNAL"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeConcurrency        = "CONCURRENCY_CONFLICT"
	ErrCodeAlreadyConverted   = "ALREADY_CONVERTED"
	ErrCodeDuplicatePayment   = "DUPLICATE_PAYMENT"
	ErrCodeStateConflict      = "STATE_CONFLICT"
	ErrCodeSMTPNotConfigured  = "SMTP_NOT_CONFIGURED"
	ErrCodeExternalFailure    = "EXTERNAL_FAILURE"
	ErrCodeRequestTooLarge    = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited        = "RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,

	ErrCodeNotFound: http.StatusNotFound,

	// Conflicts with an existing resource or a concurrent writer -> 409
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeConcurrency:      http.StatusConflict,
	ErrCodeAlreadyConverted: http.StatusConflict,
	ErrCodeDuplicatePayment: http.StatusConflict,

	// Well-formed requests the current state cannot accept -> 422
	ErrCodeStateConflict:     http.StatusUnprocessableEntity,
	ErrCodeSMTPNotConfigured: http.StatusUnprocessableEntity,

	ErrCodeExternalFailure: http.StatusBadGateway,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
