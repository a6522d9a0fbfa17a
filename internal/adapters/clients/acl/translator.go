package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/logging"
)

// BaseAdapter provides the request pipeline shared by the vendor adapters.
// Embed this in a vendor-specific API type.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
	shape       ErrorShape
}

// NewBaseAdapter creates a base adapter for one vendor.
func NewBaseAdapter(client *clients.Client, serviceName string, shape ErrorShape) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
		shape:       shape,
	}
}

// Client returns the underlying HTTP client.
func (a *BaseAdapter) Client() *clients.Client {
	return a.client
}

// ServiceName returns the name of the vendor.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Request sends one signed request and returns the raw JSON body.
//
// body, when non-nil, is marshalled once and those exact bytes are signed
// and sent. The result is:
//   - a *domain.UnavailableError when no response was received
//   - a normalized *domain.ProviderError for a non-2xx status or an in-band failure
//   - nil, nil for a zero-length body
//   - an unexpected-response *domain.ProviderError for a body that is not
//     JSON or decodes to a falsy value (null, false, 0, "", [] or {}),
//     unless the shape allows falsy bodies
//
// Errors outside that taxonomy, such as a body that cannot be marshalled,
// are returned wrapped but otherwise unchanged.
func (a *BaseAdapter) Request(ctx context.Context, operation, method, path string, query url.Values, body any) (json.RawMessage, error) {
	logger := logging.FromContext(ctx).With(
		slog.String("downstream", a.serviceName),
		slog.String("vendor_operation", operation),
	)

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("encoding %s request: %w", operation, err)
		}
	}

	resp, err := a.client.Send(ctx, method, path, query, payload)
	if err != nil {
		if errors.Is(err, clients.ErrTransport) {
			logger.WarnContext(ctx, "vendor unreachable", slog.Any("error", err))
			return nil, domain.NewConnectionError(a.serviceName, err)
		}

		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	if !resp.OK() {
		normErr := Normalize(a.serviceName, &a.shape, resp, nil)
		logger.InfoContext(ctx, "vendor rejected request",
			slog.Int("status", resp.StatusCode),
			slog.String("message", normErr.Message),
		)

		return nil, normErr
	}

	if len(resp.Body) == 0 {
		return nil, nil
	}

	parsed, ok := decodeTruthy(resp.Body)
	if !ok && !(a.shape.AllowFalsyBodies && json.Valid(resp.Body)) {
		return nil, domain.NewUnexpectedResponseError(a.serviceName, resp.StatusCode, string(resp.Body))
	}

	if obj, isObject := parsed.(map[string]any); isObject && a.shape.InBandFailure != nil && a.shape.InBandFailure(obj) {
		normErr := Normalize(a.serviceName, &a.shape, resp, obj)
		logger.InfoContext(ctx, "vendor reported failure", slog.String("message", normErr.Message))

		return nil, normErr
	}

	return json.RawMessage(resp.Body), nil
}

// decodeTruthy decodes body and reports whether it is usable: valid JSON
// that is not null, false, zero, an empty string, an empty array or an
// empty object.
func decodeTruthy(body []byte) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}

	if dec.More() {
		return nil, false
	}

	switch val := v.(type) {
	case nil:
		return nil, false
	case bool:
		return v, val
	case json.Number:
		f, err := val.Float64()
		return v, err == nil && f != 0
	case string:
		return v, val != "" && val != "0"
	case []any:
		return v, len(val) > 0
	case map[string]any:
		return v, len(val) > 0
	default:
		return v, true
	}
}

// Decode decodes a raw vendor body into the target type. A nil body or a
// shape mismatch is reported as an unexpected response from provider.
func Decode[T any](provider string, raw json.RawMessage) (*T, error) {
	if raw == nil {
		return nil, domain.NewUnexpectedResponseError(provider, 0, "")
	}

	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, domain.NewUnexpectedResponseError(provider, 0, string(raw))
	}

	return &result, nil
}

// ValidateRequired checks that a required field is not empty.
// Returns a domain.ValidationError if the field is empty.
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(fieldName, "is required")
	}

	return nil
}

// FlexString accepts a JSON string or number. Vendors are inconsistent
// about quoting ids.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = FlexString(n.String())

	return nil
}

// String returns the value as a string.
func (f FlexString) String() string {
	return string(f)
}

// FlexBool accepts a JSON boolean, number or string. Zero, "", "0" and
// "false" are false.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexBool) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch val := v.(type) {
	case nil:
		*f = false
	case bool:
		*f = FlexBool(val)
	case float64:
		*f = val != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		*f = s != "" && s != "0" && s != "false"
	default:
		return fmt.Errorf("expected boolean, got %s", b)
	}

	return nil
}

var numericPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// IsNumeric reports whether s is a plain decimal or float literal such as
// "42", "-1.5" or "1e3". Hex, NaN and Inf are not numeric.
func IsNumeric(s string) bool {
	return numericPattern.MatchString(strings.TrimSpace(s))
}
