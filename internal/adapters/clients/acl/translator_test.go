package acl

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
)

// newTestAdapter returns an adapter pointed at a server answering with handler.
func newTestAdapter(t *testing.T, shape ErrorShape, handler http.HandlerFunc) *BaseAdapter {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := clients.New(&clients.Config{
		BaseURL:     server.URL,
		ServiceName: "test-vendor",
		Timeout:     2 * time.Second,
	})
	require.NoError(t, err)

	adapter := NewBaseAdapter(client, "test-vendor", shape)

	return &adapter
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestBaseAdapter_Accessors(t *testing.T) {
	a := newTestAdapter(t, ErrorShape{}, respond(http.StatusOK, `{}`))

	assert.Equal(t, "test-vendor", a.ServiceName())
	assert.NotNil(t, a.Client())
}

func TestRequest_Success(t *testing.T) {
	var gotBody string
	var gotQuery url.Values

	a := newTestAdapter(t, ErrorShape{}, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotQuery = r.URL.Query()
		_, _ = io.WriteString(w, `{"user":{"user_id":"12"}}`)
	})

	raw, err := a.Request(context.Background(), "create user", http.MethodPost, "user",
		url.Values{"extras": {"subs"}}, map[string]string{"email": "a@example.com"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"user":{"user_id":"12"}}`, string(raw))
	assert.JSONEq(t, `{"email":"a@example.com"}`, gotBody)
	assert.Equal(t, "subs", gotQuery.Get("extras"))
}

func TestRequest_EmptyBodyIsNil(t *testing.T) {
	a := newTestAdapter(t, ErrorShape{}, respond(http.StatusNoContent, ""))

	raw, err := a.Request(context.Background(), "delete", http.MethodDelete, "site/1", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestRequest_FalsyOrInvalidBody(t *testing.T) {
	bodies := []string{"null", "{}", "[]", "false", "0", `""`, "not json", "<html></html>", `{"a":1} trailing`}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			a := newTestAdapter(t, ErrorShape{}, respond(http.StatusOK, body))

			_, err := a.Request(context.Background(), "get", http.MethodGet, "x", nil, nil)
			require.Error(t, err)

			assert.True(t, domain.IsUnexpectedResponse(err))
			assert.Equal(t, domain.MsgUnknownProviderError, err.Error())
			assert.Equal(t, body, domain.DiagnosticData(err)["response"])
		})
	}
}

func TestRequest_AllowFalsyBodies(t *testing.T) {
	shape := ErrorShape{AllowFalsyBodies: true}

	a := newTestAdapter(t, shape, respond(http.StatusOK, "{}"))
	raw, err := a.Request(context.Background(), "delete", http.MethodDelete, "x", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))

	a = newTestAdapter(t, shape, respond(http.StatusOK, "<html>oops</html>"))
	_, err = a.Request(context.Background(), "delete", http.MethodDelete, "x", nil, nil)
	assert.True(t, domain.IsUnexpectedResponse(err))
}

func TestRequest_TruthyScalarsAccepted(t *testing.T) {
	for _, body := range []string{"true", "1", `"ok"`, `[1]`} {
		t.Run(body, func(t *testing.T) {
			a := newTestAdapter(t, ErrorShape{}, respond(http.StatusOK, body))

			raw, err := a.Request(context.Background(), "get", http.MethodGet, "x", nil, nil)
			require.NoError(t, err)
			assert.Equal(t, body, string(raw))
		})
	}
}

func TestRequest_Non2xxNormalized(t *testing.T) {
	shape := ErrorShape{MessagePaths: []string{"message"}, FieldErrorsField: "errors"}
	a := newTestAdapter(t, shape, respond(http.StatusUnprocessableEntity,
		`{"success":false,"message":"Invalid domain","errors":{"domain":{"format":"must be valid"}}}`))

	_, err := a.Request(context.Background(), "create", http.MethodPost, "create", nil, map[string]string{"d": "x"})
	require.Error(t, err)

	var provErr *domain.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, "Provider API Error: Invalid domain; must be valid", provErr.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, provErr.StatusCode)
	assert.Equal(t, "test-vendor", provErr.Provider)
}

func TestRequest_InBandFailure(t *testing.T) {
	shape := ErrorShape{
		MessagePaths:  []string{"error.message", "error"},
		InBandFailure: FieldPresentFailure("error"),
	}

	t.Run("string error", func(t *testing.T) {
		a := newTestAdapter(t, shape, respond(http.StatusOK, `{"error":"Site is locked"}`))

		_, err := a.Request(context.Background(), "suspend", http.MethodPost, "user/1/site/2/disable", nil, nil)
		require.Error(t, err)
		assert.Equal(t, "Provider API Error: Site is locked", err.Error())
		assert.True(t, domain.IsProvider(err))
		assert.Equal(t, map[string]any{"error": "Site is locked"}, domain.DiagnosticData(err)["response"])
	})

	t.Run("object error", func(t *testing.T) {
		a := newTestAdapter(t, shape, respond(http.StatusOK, `{"error":{"message":"Plan unavailable"}}`))

		_, err := a.Request(context.Background(), "plan", http.MethodPost, "plan", nil, nil)
		require.Error(t, err)
		assert.Equal(t, "Provider API Error: Plan unavailable", err.Error())
	})
}

func TestRequest_ConnectionError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	client, err := clients.New(&clients.Config{BaseURL: "http://" + addr, ServiceName: "test-vendor"})
	require.NoError(t, err)
	a := NewBaseAdapter(client, "test-vendor", ErrorShape{})

	_, err = a.Request(context.Background(), "get", http.MethodGet, "x", nil, nil)
	require.Error(t, err)

	assert.True(t, domain.IsUnavailable(err))
	assert.Equal(t, domain.MsgConnectionError, err.Error())
	assert.ErrorIs(t, err, clients.ErrTransport)
	assert.Nil(t, domain.DiagnosticData(err))
}

func TestRequest_UnencodableBodyPropagates(t *testing.T) {
	a := newTestAdapter(t, ErrorShape{}, respond(http.StatusOK, `{"ok":true}`))

	_, err := a.Request(context.Background(), "create", http.MethodPost, "x", nil, map[string]any{"bad": make(chan int)})
	require.Error(t, err)

	assert.False(t, domain.IsProvider(err))
	assert.False(t, domain.IsUnavailable(err))
	assert.Contains(t, err.Error(), "encoding create request")
}

func TestDecode(t *testing.T) {
	type site struct {
		SiteID FlexString `json:"site_id"`
		Domain string     `json:"domain"`
	}

	t.Run("decodes", func(t *testing.T) {
		out, err := Decode[site]("weebly", []byte(`{"site_id":123,"domain":"example.com"}`))
		require.NoError(t, err)
		assert.Equal(t, "123", out.SiteID.String())
		assert.Equal(t, "example.com", out.Domain)
	})

	t.Run("nil body", func(t *testing.T) {
		_, err := Decode[site]("weebly", nil)
		assert.True(t, domain.IsUnexpectedResponse(err))
	})

	t.Run("shape mismatch", func(t *testing.T) {
		_, err := Decode[site]("weebly", []byte(`{"site_id":{"x":1}}`))
		require.Error(t, err)
		assert.True(t, domain.IsUnexpectedResponse(err))
		assert.Equal(t, `{"site_id":{"x":1}}`, domain.DiagnosticData(err)["response"])
	})
}

func TestFlexString(t *testing.T) {
	type holder struct {
		ID FlexString `json:"id"`
	}

	tests := []struct {
		in   string
		want string
	}{
		{`{"id":"abc"}`, "abc"},
		{`{"id":42}`, "42"},
		{`{"id":12345678901234567890}`, "12345678901234567890"},
		{`{"id":null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out, err := Decode[holder]("v", []byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.ID.String())
		})
	}
}

func TestFlexBool(t *testing.T) {
	type holder struct {
		On FlexBool `json:"on"`
	}

	tests := []struct {
		in   string
		want bool
	}{
		{`{"on":true}`, true},
		{`{"on":false}`, false},
		{`{"on":1}`, true},
		{`{"on":0}`, false},
		{`{"on":"1"}`, true},
		{`{"on":"false"}`, false},
		{`{"on":""}`, false},
		{`{"on":null}`, false},
		{`{}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out, err := Decode[holder]("v", []byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, bool(out.On))
		})
	}

	_, err := Decode[holder]("v", []byte(`{"on":[1]}`))
	assert.True(t, domain.IsUnexpectedResponse(err))
}

func TestValidateRequired(t *testing.T) {
	require.NoError(t, ValidateRequired("example.com", "domain_name"))

	err := ValidateRequired("  ", "domain_name")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "domain_name")
}

func TestIsNumeric(t *testing.T) {
	for _, s := range []string{"42", " 7 ", "-1", "1.5", ".5", "1e3"} {
		assert.True(t, IsNumeric(s), s)
	}

	for _, s := range []string{"", "abc", "42a", "0x1A", "NaN", "Inf", "1 2"} {
		assert.False(t, IsNumeric(s), s)
	}
}
