package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/http/dto"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/logging"
)

const uuidPattern = `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// logLines decodes one JSON object per line.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}

		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}

	return lines
}

func TestIDMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		middleware  gin.HandlerFunc
		header      string
		fromGin     func(*gin.Context) string
		fromContext func(context.Context) string
		incoming    string
		replaced    bool
	}{
		{
			name:        "request id generated",
			middleware:  RequestID(),
			header:      HeaderRequestID,
			fromGin:     GetRequestID,
			fromContext: RequestIDFromContext,
		},
		{
			name:        "request id propagated",
			middleware:  RequestID(),
			header:      HeaderRequestID,
			fromGin:     GetRequestID,
			fromContext: RequestIDFromContext,
			incoming:    "req-123",
		},
		{
			name:        "correlation id generated",
			middleware:  CorrelationID(),
			header:      HeaderCorrelationID,
			fromGin:     GetCorrelationID,
			fromContext: CorrelationIDFromContext,
		},
		{
			name:        "correlation id propagated",
			middleware:  CorrelationID(),
			header:      HeaderCorrelationID,
			fromGin:     GetCorrelationID,
			fromContext: CorrelationIDFromContext,
			incoming:    "invoice-42",
		},
		{
			name:        "request id with spaces replaced",
			middleware:  RequestID(),
			header:      HeaderRequestID,
			fromGin:     GetRequestID,
			fromContext: RequestIDFromContext,
			incoming:    "req 123",
			replaced:    true,
		},
		{
			name:        "oversized correlation id replaced",
			middleware:  CorrelationID(),
			header:      HeaderCorrelationID,
			fromGin:     GetCorrelationID,
			fromContext: CorrelationIDFromContext,
			incoming:    strings.Repeat("x", maxIDLength+1),
			replaced:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var ginID, ctxID string

			router := gin.New()
			router.Use(tt.middleware)
			router.GET("/test", func(c *gin.Context) {
				ginID = tt.fromGin(c)
				ctxID = tt.fromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.incoming != "" {
				req.Header.Set(tt.header, tt.incoming)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, w.Header().Get(tt.header), ginID)
			assert.Equal(t, ginID, ctxID, "vendor clients read the id from context.Context")

			if tt.incoming != "" && !tt.replaced {
				assert.Equal(t, tt.incoming, ginID)
			} else {
				assert.Regexp(t, uuidPattern, ginID)
			}
		})
	}
}

func TestRequestID_EnrichesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	})
	router.Use(RequestID(), CorrelationID())
	router.GET("/test", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	req.Header.Set(HeaderCorrelationID, "corr-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "req-1", lines[0]["request_id"])
	assert.Equal(t, "corr-1", lines[0]["correlation_id"])
}

func TestGetIDFromContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, GetRequestID(c))

	c.Set(ContextKeyRequestID, 42)
	assert.Empty(t, GetRequestID(c))

	c.Set(ContextKeyRequestID, "req-9")
	assert.Equal(t, "req-9", GetRequestID(c))
}

func TestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "request-123")
	ctx = ContextWithCorrelationID(ctx, "correlation-456")

	assert.Equal(t, "request-123", RequestIDFromContext(ctx))
	assert.Equal(t, "correlation-456", CorrelationIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(nil)) //nolint:staticcheck // nil context is tolerated
}

func TestRequireToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		token          string
		authorization  string
		expectedStatus int
		expectedBody   string
	}{
		{name: "disabled", token: "", expectedStatus: http.StatusOK},
		{name: "valid", token: "s3cret", authorization: "Bearer s3cret", expectedStatus: http.StatusOK},
		{name: "scheme is case insensitive", token: "s3cret", authorization: "bearer s3cret", expectedStatus: http.StatusOK},
		{
			name:           "missing header",
			token:          "s3cret",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "missing bearer token",
		},
		{
			name:           "wrong scheme",
			token:          "s3cret",
			authorization:  "Basic czNjcmV0",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "missing bearer token",
		},
		{
			name:           "wrong token",
			token:          "s3cret",
			authorization:  "Bearer guess",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "invalid bearer token",
		},
		{
			name:           "empty token",
			token:          "s3cret",
			authorization:  "Bearer   ",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "missing bearer token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := gin.New()
			router.Use(RequireToken(tt.token))
			router.GET("/api/v1/accounts/1", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/1", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedBody != "" {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, dto.ErrorCodeUnauthorized, resp.Error.Code)
				assert.Equal(t, tt.expectedBody, resp.Error.Message)
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
			}
		})
	}
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		wantLines int
		wantLevel string
	}{
		{name: "success", path: "/api/v1/accounts/1?domain_name=example.com", status: http.StatusOK, wantLines: 2, wantLevel: "INFO"},
		{name: "client error", path: "/api/v1/accounts/1", status: http.StatusBadRequest, wantLines: 2, wantLevel: "WARN"},
		{name: "vendor error", path: "/api/v1/accounts/1", status: http.StatusBadGateway, wantLines: 2, wantLevel: "ERROR"},
		{name: "operational route skipped", path: "/-/live", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			router := gin.New()
			router.Use(Logging(logger))
			handler := func(c *gin.Context) { c.Status(tt.status) }
			router.GET("/api/v1/accounts/:reference", handler)
			router.GET("/-/live", handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)

			lines := logLines(t, &buf)
			require.Len(t, lines, tt.wantLines)
			if tt.wantLines == 0 {
				return
			}

			completed := lines[1]
			assert.Equal(t, "request completed", completed["msg"])
			assert.Equal(t, tt.wantLevel, completed["level"])
			assert.Equal(t, "/api/v1/accounts/1", completed["path"])
			assert.Equal(t, "/api/v1/accounts/:reference", completed["route"])
			assert.NotContains(t, buf.String(), "example.com")
		})
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("normal request passes through", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(discardLogger()))
		router.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("panicking handler returns 500", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		router := gin.New()
		router.Use(Recovery(slog.New(slog.NewJSONHandler(&buf, nil))))
		router.GET("/test", func(*gin.Context) {
			panic("something went wrong")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrorCodeInternal)
		assert.Contains(t, buf.String(), "panic recovered")
		assert.Contains(t, buf.String(), "something went wrong")
	})
}

func TestTimeout(t *testing.T) {
	t.Run("sets context deadline", func(t *testing.T) {
		var deadline time.Time
		var hasDeadline bool

		router := gin.New()
		router.Use(Timeout(5*time.Second, discardLogger()))
		router.GET("/test", func(c *gin.Context) {
			deadline, hasDeadline = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, hasDeadline)
		assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
	})

	t.Run("logs an exceeded deadline", func(t *testing.T) {
		var buf bytes.Buffer

		router := gin.New()
		router.Use(Timeout(10*time.Millisecond, slog.New(slog.NewJSONHandler(&buf, nil))))
		router.GET("/test", func(c *gin.Context) {
			<-c.Request.Context().Done()
			c.Status(http.StatusGatewayTimeout)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.Contains(t, buf.String(), "request deadline exceeded")
	})
}
