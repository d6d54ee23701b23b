// Package apierrors provides structured API error codes and responses.
// All codes are namespaced under "amend:" (e.g., "amend:not_found").
package apierrors

import "net/http"

// Amendment service error codes - registered automatically at init
const (
	// Request errors
	CodeBadRequest       = "amend:bad_request"
	CodeValidationFailed = "amend:validation_failed"
	CodeInvalidID        = "amend:invalid_id"

	// Resource errors
	CodeNotFound = "amend:not_found"
	CodeConflict = "amend:conflict"

	// Rate limiting
	CodeRateLimited = "amend:rate_limited"

	// Server errors
	CodeStoreError         = "amend:store_error"
	CodeInternalError      = "amend:internal_error"
	CodeServiceUnavailable = "amend:service_unavailable"
)

// serviceErrors defines all error codes with their default messages and HTTP
// status. ValidationFailed maps to 422: the request parsed but its content is
// rejected, which gin's 400 binding errors do not cover.
var serviceErrors = []ErrorCode{
	// Request errors
	{Code: CodeBadRequest, Message: "Invalid request body", HTTPStatus: http.StatusBadRequest},
	{Code: CodeValidationFailed, Message: "Request validation failed", HTTPStatus: http.StatusUnprocessableEntity},
	{Code: CodeInvalidID, Message: "Invalid ID format", HTTPStatus: http.StatusBadRequest},

	// Resource errors
	{Code: CodeNotFound, Message: "Resource not found", HTTPStatus: http.StatusNotFound},
	{Code: CodeConflict, Message: "Resource conflict", HTTPStatus: http.StatusConflict},

	// Rate limiting
	{Code: CodeRateLimited, Message: "Too many requests", HTTPStatus: http.StatusTooManyRequests},

	// Server errors
	{Code: CodeStoreError, Message: "Storage operation failed", HTTPStatus: http.StatusInternalServerError},
	{Code: CodeInternalError, Message: "Internal server error", HTTPStatus: http.StatusInternalServerError},
	{Code: CodeServiceUnavailable, Message: "Service temporarily unavailable", HTTPStatus: http.StatusServiceUnavailable},
}

func init() {
	for _, e := range serviceErrors {
		Registry.Register(e)
	}
}
