package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrValidation,
		ErrUnavailable,
		ErrProvider,
		ErrUnexpectedResponse,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name        string
		entity      string
		id          string
		expectedMsg string
	}{
		{
			name:        "with entity and ID",
			entity:      "site",
			id:          "123",
			expectedMsg: `site with id "123" not found`,
		},
		{
			name:        "with entity only",
			entity:      "plan",
			id:          "",
			expectedMsg: "plan not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFoundError(tt.entity, tt.id)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrNotFound)

			var notFound *NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.entity, notFound.Entity)
			assert.Equal(t, tt.id, notFound.ID)
		})
	}
}

func TestNotFoundError_WithListing(t *testing.T) {
	listing := map[string]any{"sites": []any{map[string]any{"domain": "a.com"}}}
	err := NewNotFoundErrorWithListing("domain", "b.com", "Domain b.com not found", listing)

	assert.Equal(t, "Domain b.com not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.Equal(t, map[string]any{"response": listing}, DiagnosticData(err))
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		message     string
		expectedMsg string
	}{
		{
			name:        "with field",
			field:       "domain_name",
			message:     "is required",
			expectedMsg: "validation failed for domain_name: is required",
		},
		{
			name:        "without field",
			field:       "",
			message:     "general validation error",
			expectedMsg: "validation failed: general validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrValidation)

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
			assert.Equal(t, tt.message, validation.Message)
		})
	}
}

func TestConnectionError(t *testing.T) {
	cause := fmt.Errorf("dial tcp: %w", context.DeadlineExceeded)
	err := NewConnectionError("basekit", cause)

	assert.Equal(t, MsgConnectionError, err.Error())
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "basekit", unavailable.Service)
}

func TestUnavailableError_WithoutReason(t *testing.T) {
	err := NewUnavailableError("weebly", "")

	assert.Equal(t, `service "weebly" unavailable`, err.Error())
	assert.True(t, IsUnavailable(err))
}

func TestProviderError(t *testing.T) {
	fieldErrors := map[string]any{"domain": map[string]any{"format": "must be valid"}}
	data := map[string]any{"response_data": map[string]any{"success": false}}

	err := NewProviderError("websitecom", "Provider API Error: Invalid domain", 422, fieldErrors, data)

	assert.Equal(t, "Provider API Error: Invalid domain", err.Error())
	assert.True(t, IsProvider(err))
	assert.False(t, IsUnexpectedResponse(err))
	assert.Equal(t, 422, err.StatusCode)
	assert.Equal(t, data, DiagnosticData(fmt.Errorf("wrapped: %w", err)))
}

func TestUnexpectedResponseError(t *testing.T) {
	err := NewUnexpectedResponseError("yola", 200, "<html>oops</html>")

	assert.Equal(t, MsgUnknownProviderError, err.Error())
	assert.True(t, IsUnexpectedResponse(err))
	assert.True(t, IsProvider(err))
	assert.Equal(t, "<html>oops</html>", err.Data["response"])
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isFunc   func(error) bool
		expected bool
	}{
		{"IsNotFound with NotFoundError", NewNotFoundError("site", "123"), IsNotFound, true},
		{"IsNotFound with wrapped", fmt.Errorf("wrapped: %w", ErrNotFound), IsNotFound, true},
		{"IsNotFound with other error", ErrValidation, IsNotFound, false},
		{"IsNotFound with nil", nil, IsNotFound, false},

		{"IsValidation with ValidationError", NewValidationError("email", "invalid"), IsValidation, true},
		{"IsValidation with other error", ErrNotFound, IsValidation, false},

		{"IsUnavailable with connection error", NewConnectionError("db", errors.New("refused")), IsUnavailable, true},
		{"IsUnavailable with other error", ErrProvider, IsUnavailable, false},

		{"IsProvider with sentinel", ErrProvider, IsProvider, true},
		{"IsProvider with unexpected response", NewUnexpectedResponseError("x", 0, ""), IsProvider, true},
		{"IsProvider with unrelated", errors.New("boom"), IsProvider, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.isFunc(tt.err))
		})
	}
}

func TestDiagnosticData_UnrelatedError(t *testing.T) {
	assert.Nil(t, DiagnosticData(errors.New("boom")))
	assert.Nil(t, DiagnosticData(NewNotFoundError("site", "1")))
}
