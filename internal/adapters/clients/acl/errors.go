package acl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
)

// ErrorShape describes where one vendor puts failure details in its bodies.
// One shape per vendor drives the shared Normalize.
type ErrorShape struct {
	// StatusFields are in-body status or code fields, checked in order.
	// The first numeric one overrides the HTTP status.
	StatusFields []string

	// MessagePaths are dotted paths to a message string, checked in order,
	// e.g. "error.message", "message".
	MessagePaths []string

	// DetailField names a field holding either a message string or an
	// object with its own "message". It is consulted after MessagePaths.
	DetailField string

	// FieldErrorsField names an object of per-field errors whose messages
	// are appended to the primary message.
	FieldErrorsField string

	// InBandFailure reports whether a parsed 2xx body still declares failure.
	InBandFailure func(body map[string]any) bool

	// RawHints annotate bodies that are not JSON at all.
	RawHints []RawHint

	// AllowFalsyBodies accepts 2xx bodies that are valid JSON but falsy,
	// such as {} from a delete. Bodies that are not JSON still fail.
	AllowFalsyBodies bool
}

// RawHint appends Suffix to the message when a non-JSON body contains Contains.
type RawHint struct {
	Contains string
	Suffix   string
}

// StatusFieldFailure reports an in-band failure when the first numeric
// status field present is outside 2xx.
func StatusFieldFailure(fields ...string) func(map[string]any) bool {
	shape := ErrorShape{StatusFields: fields}

	return func(body map[string]any) bool {
		code, ok := shape.statusFrom(body)
		return ok && !isSuccessStatus(code)
	}
}

// FieldPresentFailure reports an in-band failure whenever field is set.
func FieldPresentFailure(field string) func(map[string]any) bool {
	return func(body map[string]any) bool {
		v, ok := body[field]
		return ok && v != nil && v != false && v != ""
	}
}

// FlagMessageFailure reports an in-band failure when flag is not true and a
// non-empty message field is present.
func FlagMessageFailure(flag, messageField string) func(map[string]any) bool {
	return func(body map[string]any) bool {
		if ok, _ := body[flag].(bool); ok {
			return false
		}
		msg, _ := body[messageField].(string)
		return msg != ""
	}
}

// Normalize turns one failed vendor exchange into a *domain.ProviderError.
//
// parsed is the decoded body when the caller already has it, nil otherwise.
// The message is "Provider API Error: " followed by the vendor message (or
// the HTTP reason phrase) and, after "; ", every flattened field error joined
// with ", ". The full parsed body, or the raw text when it is not JSON, is
// kept under Data["response"].
func Normalize(provider string, shape *ErrorShape, resp *clients.Response, parsed any) *domain.ProviderError {
	if parsed == nil && len(bytes.TrimSpace(resp.Body)) > 0 {
		parsed = decodeLoose(resp.Body)
	}

	obj, isObject := parsed.(map[string]any)
	if !isObject {
		return normalizeUnstructured(provider, shape, resp, parsed)
	}

	statusCode := resp.StatusCode
	inBodyStatus, hasInBodyStatus := shape.statusFrom(obj)
	if hasInBodyStatus {
		statusCode = inBodyStatus
	}

	message := shape.messageFrom(obj)

	// A body claiming success on a failed exchange says nothing useful.
	if hasInBodyStatus && isSuccessStatus(inBodyStatus) && !resp.OK() {
		message = fmt.Sprintf("%d %s", resp.StatusCode, resp.Reason)
	}

	if message == "" {
		message = reasonOrStatus(resp)
	}

	var fieldErrors map[string]any
	if shape.FieldErrorsField != "" {
		if fe, ok := obj[shape.FieldErrorsField].(map[string]any); ok && len(fe) > 0 {
			fieldErrors = fe
			if msgs := FlattenFieldErrors(fe); len(msgs) > 0 {
				message += "; " + strings.Join(msgs, ", ")
			}
		}
	}

	return domain.NewProviderError(
		provider,
		domain.MsgProviderErrorPrefix+message,
		statusCode,
		fieldErrors,
		map[string]any{"response": obj},
	)
}

func normalizeUnstructured(provider string, shape *ErrorShape, resp *clients.Response, parsed any) *domain.ProviderError {
	message := reasonOrStatus(resp)

	var response any = parsed
	if parsed == nil {
		raw := string(resp.Body)
		response = raw

		for _, hint := range shape.RawHints {
			if strings.Contains(raw, hint.Contains) {
				message += hint.Suffix
			}
		}
	}

	return domain.NewProviderError(
		provider,
		domain.MsgProviderErrorPrefix+message,
		resp.StatusCode,
		nil,
		map[string]any{"response": response},
	)
}

// FlattenFieldErrors collects every message from a per-field error object.
// Fields are visited in key order; nested objects and arrays are walked in
// order so the output is deterministic.
func FlattenFieldErrors(fieldErrors map[string]any) []string {
	var out []string

	for _, field := range sortedKeys(fieldErrors) {
		out = appendMessages(out, fieldErrors[field])
	}

	return out
}

func appendMessages(out []string, v any) []string {
	switch val := v.(type) {
	case string:
		if val != "" {
			out = append(out, val)
		}
	case []any:
		for _, item := range val {
			out = appendMessages(out, item)
		}
	case map[string]any:
		for _, k := range sortedKeys(val) {
			out = appendMessages(out, val[k])
		}
	case nil:
	default:
		out = append(out, fmt.Sprint(val))
	}

	return out
}

func (s *ErrorShape) statusFrom(obj map[string]any) (int, bool) {
	for _, field := range s.StatusFields {
		if code, ok := asInt(obj[field]); ok {
			return code, true
		}
	}

	return 0, false
}

func (s *ErrorShape) messageFrom(obj map[string]any) string {
	for _, path := range s.MessagePaths {
		if msg, ok := lookup(obj, path).(string); ok && msg != "" {
			return msg
		}
	}

	if s.DetailField != "" {
		switch detail := obj[s.DetailField].(type) {
		case string:
			return detail
		case map[string]any:
			if msg, ok := detail["message"].(string); ok {
				return msg
			}
		}
	}

	return ""
}

// lookup resolves a dotted path through nested objects.
func lookup(obj map[string]any, path string) any {
	var cur any = obj

	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[part]
	}

	return cur
}

func asInt(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		return int(val), true
	case json.Number:
		n, err := val.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		return n, err == nil
	default:
		return 0, false
	}
}

func isSuccessStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

func reasonOrStatus(resp *clients.Response) string {
	if resp.Reason != "" {
		return resp.Reason
	}

	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}

// decodeLoose decodes JSON, returning nil when the body is not JSON.
func decodeLoose(body []byte) any {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil
	}

	return v
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
