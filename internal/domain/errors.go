// Package domain contains the provisioning types and errors shared by every
// website builder adapter.
// Domain errors describe provisioning failures, NOT HTTP errors.
// They are vendor-agnostic and can be mapped to HTTP/CLI output by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Messages surfaced to callers for transport and payload failures.
const (
	// MsgConnectionError is reported when no response was received from a vendor.
	MsgConnectionError = "Provider API Connection Error"

	// MsgUnknownProviderError is reported when a vendor response body is not usable JSON.
	MsgUnknownProviderError = "Unknown Provider API Error"

	// MsgProviderErrorPrefix prefixes every vendor-declared failure message.
	MsgProviderErrorPrefix = "Provider API Error: "
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates a resolver found no matching site, domain or plan.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates the caller omitted or malformed a required field.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable indicates the vendor could not be reached.
	ErrUnavailable = errors.New("unavailable")

	// ErrProvider indicates the vendor answered with a failure.
	ErrProvider = errors.New("provider api error")

	// ErrUnexpectedResponse indicates a vendor body that could not be parsed.
	ErrUnexpectedResponse = errors.New("unexpected provider response")
)

// NotFoundError provides context for resolver misses.
// Listing holds the full vendor response that was searched.
type NotFoundError struct {
	Entity  string
	ID      string
	Message string
	Listing any
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// NewNotFoundErrorWithListing creates a not found error carrying the searched listing.
func NewNotFoundErrorWithListing(entity, id, message string, listing any) error {
	return &NotFoundError{Entity: entity, ID: id, Message: message, Listing: listing}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// UnavailableError reports a transport failure: no response was received.
// Err keeps the underlying network error reachable via errors.Is/As.
type UnavailableError struct {
	Service string
	Reason  string
	Err     error
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel and the transport cause.
func (e *UnavailableError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUnavailable}
	}

	return []error{ErrUnavailable, e.Err}
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// NewConnectionError wraps a transport failure talking to service.
func NewConnectionError(service string, cause error) error {
	return &UnavailableError{Service: service, Reason: MsgConnectionError, Err: cause}
}

// ProviderError is a normalized vendor failure.
//
// StatusCode is the vendor-declared status (or the HTTP status), Errors the
// structured field errors as the vendor sent them, and Data the full raw or
// parsed response for support diagnostics.
type ProviderError struct {
	Provider   string
	Message    string
	StatusCode int
	Errors     map[string]any
	Data       map[string]any
	unexpected bool
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return e.Message
}

// Unwrap returns ErrUnexpectedResponse for unparseable bodies, ErrProvider otherwise.
func (e *ProviderError) Unwrap() error {
	if e.unexpected {
		return ErrUnexpectedResponse
	}

	return ErrProvider
}

// NewProviderError creates a vendor API error.
func NewProviderError(provider, message string, statusCode int, fieldErrors, data map[string]any) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Message:    message,
		StatusCode: statusCode,
		Errors:     fieldErrors,
		Data:       data,
	}
}

// NewUnexpectedResponseError reports a body that was not usable JSON; raw is kept verbatim.
func NewUnexpectedResponseError(provider string, statusCode int, raw string) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Message:    MsgUnknownProviderError,
		StatusCode: statusCode,
		Data:       map[string]any{"response": raw},
		unexpected: true,
	}
}

// DiagnosticData returns the structured payload attached to a normalized error, if any.
func DiagnosticData(err error) map[string]any {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Data
	}

	var nfErr *NotFoundError
	if errors.As(err, &nfErr) && nfErr.Listing != nil {
		return map[string]any{"response": nfErr.Listing}
	}

	return nil
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsProvider checks if an error is a vendor API error, including unparseable responses.
func IsProvider(err error) bool {
	return errors.Is(err, ErrProvider) || errors.Is(err, ErrUnexpectedResponse)
}

// IsUnexpectedResponse checks if an error reports an unparseable vendor body.
func IsUnexpectedResponse(err error) bool {
	return errors.Is(err, ErrUnexpectedResponse)
}
