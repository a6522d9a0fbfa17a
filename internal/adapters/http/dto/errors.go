// Package dto provides the request and response bodies of the account API
// and the shared error envelope.
package dto

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/logging"
)

// ErrorResponse is the standard error envelope for all error responses.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND", "PROVIDER_ERROR").
	Code string `json:"code"`

	// Message is the human-readable message. For vendor failures it is the
	// normalized vendor message, e.g. "Provider API Error: Invalid package".
	Message string `json:"message"`

	// Details carries field errors for validation failures and the vendor
	// diagnostics (status code, field errors, raw payload) for vendor failures.
	Details map[string]any `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	// ErrorCodeNotFound indicates a site, domain or plan could not be resolved.
	ErrorCodeNotFound = "NOT_FOUND"

	// ErrorCodeValidation indicates request validation failed.
	ErrorCodeValidation = "VALIDATION_ERROR"

	// ErrorCodeUnauthorized indicates a missing or wrong API token.
	ErrorCodeUnauthorized = "UNAUTHORIZED"

	// ErrorCodeUnavailable indicates the vendor could not be reached.
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"

	// ErrorCodeProvider indicates the vendor answered with a failure.
	ErrorCodeProvider = "PROVIDER_ERROR"

	// ErrorCodeInternal indicates an internal server error.
	ErrorCodeInternal = "INTERNAL_ERROR"

	// ErrorCodeTimeout indicates the request deadline passed.
	ErrorCodeTimeout = "TIMEOUT"

	// ErrorCodeBadRequest indicates the request was malformed.
	ErrorCodeBadRequest = "BAD_REQUEST"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]any) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeProvider:
		return http.StatusBadGateway
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// MapDomainError maps a domain error to an HTTP status code and error response.
// Errors outside the domain taxonomy become a 500 with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	var code string

	switch {
	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]any{validationErr.Field: validationErr.Message}
		}

		return http.StatusBadRequest, resp

	case domain.IsNotFound(err):
		code = ErrorCodeNotFound
	case domain.IsUnavailable(err) && errors.Is(err, context.DeadlineExceeded):
		code = ErrorCodeTimeout
	case domain.IsUnavailable(err):
		code = ErrorCodeUnavailable
	case domain.IsProvider(err):
		code = ErrorCodeProvider
	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}

	return HTTPStatusFromCode(code), NewErrorResponseWithDetails(code, err.Error(), errorDetails(err))
}

// errorDetails collects the vendor diagnostics attached to err.
func errorDetails(err error) map[string]any {
	details := make(map[string]any)

	var provErr *domain.ProviderError
	if errors.As(err, &provErr) {
		details["provider"] = provErr.Provider
		if provErr.StatusCode != 0 {
			details["status_code"] = provErr.StatusCode
		}
		if len(provErr.Errors) > 0 {
			details["errors"] = provErr.Errors
		}
	}

	if data := domain.DiagnosticData(err); len(data) > 0 {
		details["data"] = data
	}

	if len(details) == 0 {
		return nil
	}

	return details
}

// GetTraceID returns the trace id of the request's span. Without a sampled
// span it falls back to the value stored under "trace_id", then the request
// id assigned by the request id middleware, then the X-Request-ID header.
func GetTraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	for _, key := range []string{"trace_id", "request_id"} {
		if v, ok := c.Get(key); ok {
			if id, ok := v.(string); ok && id != "" {
				return id
			}
		}
	}

	return c.GetHeader("X-Request-ID")
}

// HandleError writes the mapped error response. Internal errors are logged
// with full details because their response hides them.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "internal error",
			"error", err.Error(),
			"trace_id", resp.TraceID,
		)
	}

	c.JSON(status, resp)
}

// AbortWithErrorCode aborts the request chain with a specific error code.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}
