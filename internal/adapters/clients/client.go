package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/http/middleware"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/config"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/logging"
)

const (
	// instrumentationName is used for OpenTelemetry tracer and meter.
	instrumentationName = "github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients"

	// httpStatusCategoryDivisor divides status code to get category (2xx, 4xx, 5xx).
	httpStatusCategoryDivisor = 100

	// DefaultTimeout is the total request timeout used when none is configured.
	DefaultTimeout = 30 * time.Second

	// defaultConnectTimeout is the default dial timeout if not configured.
	defaultConnectTimeout = 5 * time.Second

	// maxResponseBytes caps how much of a vendor response is read.
	maxResponseBytes = 10 << 20
)

// Config configures an HTTP client instance bound to one vendor.
type Config struct {
	// BaseURL is the base URL for all requests, e.g. "https://api.weeblycloud.com/".
	// A path component is kept: request paths are appended to it.
	BaseURL string

	// ServiceName identifies the vendor for logging, tracing and metrics.
	ServiceName string

	// Timeout bounds the whole exchange, including reading the body.
	Timeout time.Duration

	// ConnectTimeout bounds dialing and should be shorter than Timeout.
	ConnectTimeout time.Duration

	// Transport tunes the connection pool. Zero values use the defaults.
	Transport config.TransportConfig

	// UserAgent is sent on every request.
	UserAgent string

	// Headers are sent on every request before signing headers are applied.
	Headers http.Header

	// Signer computes per-request authentication headers. Optional.
	Signer Signer

	// Debug logs full request and response bodies.
	Debug bool

	// Logger is an optional logger. If nil, a default logger is used.
	Logger *slog.Logger
}

// Response is a fully read vendor response.
type Response struct {
	StatusCode int
	Reason     string
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Client is an instrumented HTTP client for one vendor API.
// It provides:
//   - one attempt per call, with a total and a connect timeout
//   - request signing through a pluggable Signer
//   - OpenTelemetry tracing and metrics
//   - request/correlation ID propagation
//   - optional body-level debug logging
type Client struct {
	http        *http.Client
	baseURL     string
	serviceName string
	cfg         *Config
	logger      *slog.Logger

	tracer trace.Tracer

	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
}

// New creates a new instrumented HTTP client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	if _, err := url.Parse(cfg.BaseURL); err != nil || cfg.BaseURL == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		slog.String("component", "clients.Client"),
		slog.String("downstream", cfg.ServiceName),
	)

	tracer := otel.Tracer(instrumentationName)
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of vendor API requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requestTotal, err := meter.Int64Counter(
		"http.client.request.total",
		metric.WithDescription("Total number of vendor API requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	return &Client{
		http:            &http.Client{Timeout: cfg.Timeout, Transport: newTransport(cfg)},
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceName:     cfg.ServiceName,
		cfg:             cfg,
		logger:          logger,
		tracer:          tracer,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}, nil
}

func newTransport(cfg *Config) *http.Transport {
	maxIdle := cfg.Transport.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = config.DefaultTransportMaxIdleConns
	}

	maxIdlePerHost := cfg.Transport.MaxIdleConnsPerHost
	if maxIdlePerHost <= 0 {
		maxIdlePerHost = config.DefaultTransportMaxIdleConnsPerHost
	}

	idleTimeout := cfg.Transport.IdleConnTimeout
	if idleTimeout <= 0 {
		idleTimeout = 90 * time.Second
	}

	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}

	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: cfg.ConnectTimeout,
		MaxIdleConns:        maxIdle,
		MaxIdleConnsPerHost: maxIdlePerHost,
		IdleConnTimeout:     idleTimeout,
	}
}

// ServiceName returns the vendor name this client is bound to.
func (c *Client) ServiceName() string {
	return c.serviceName
}

// Send signs and dispatches one request and reads the whole response body.
//
// path is relative to the base URL and is what the Signer sees. body is sent
// verbatim; nil means no body. Any response, whatever its status, is
// returned without error. A failure to obtain a response is returned wrapped
// in ErrTransport.
func (c *Client) Send(ctx context.Context, method, path string, query url.Values, body []byte) (*Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, vals := range c.cfg.Headers {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	if body != nil {
		req.Header.Set("Content-Type", ContentTypeJSON)
	}

	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	if c.cfg.Signer != nil {
		signed, err := c.cfg.Signer.Sign(method, path, body)
		if err != nil {
			return nil, fmt.Errorf("signing request: %w", err)
		}
		for k, vals := range signed {
			req.Header[k] = vals
		}
	}

	c.debugRequest(ctx, req, body)

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close response body", slog.Any("error", closeErr))
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", ErrTransport, err)
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Reason:     reasonPhrase(resp),
		Header:     resp.Header,
		Body:       data,
	}

	c.debugResponse(ctx, out)

	return out, nil
}

// Do executes a single HTTP attempt with tracing, metrics and logging.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	logger := logging.FromContext(ctx).With(
		slog.String("downstream", c.serviceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	c.injectHeaders(ctx, req)

	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("HTTP %s %s", req.Method, c.serviceName),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", redactQuery(req.URL)),
			attribute.String("peer.service", c.serviceName),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req.WithContext(ctx))
	duration := time.Since(startTime)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.recordMetrics(ctx, req.Method, 0, duration, "transport_error")
		logger.Warn("vendor request failed",
			slog.Duration("duration", duration),
			slog.Any("error", err),
		)

		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	statusCategory := fmt.Sprintf("%dxx", resp.StatusCode/httpStatusCategoryDivisor)
	c.recordMetrics(ctx, req.Method, resp.StatusCode, duration, statusCategory)

	logger.Debug("vendor request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
	)

	return resp, nil
}

// injectHeaders propagates request and correlation IDs to the vendor.
func (c *Client) injectHeaders(ctx context.Context, req *http.Request) {
	if requestID := middleware.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(middleware.HeaderRequestID, requestID)
	}

	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(middleware.HeaderCorrelationID, correlationID)
	}
}

// buildURL joins the base URL, the relative path and the encoded query.
func (c *Client) buildURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

func (c *Client) debugRequest(ctx context.Context, req *http.Request, body []byte) {
	if !c.cfg.Debug {
		return
	}

	c.logger.InfoContext(ctx, "vendor api request",
		slog.String("method", req.Method),
		slog.String("url", redactQuery(req.URL)),
		slog.Any("body", debugBody(body)),
	)
}

func (c *Client) debugResponse(ctx context.Context, resp *Response) {
	if !c.cfg.Debug {
		return
	}

	c.logger.InfoContext(ctx, "vendor api response",
		slog.Int("status", resp.StatusCode),
		slog.Any("body", debugBody(resp.Body)),
	)
}

// debugBody decodes JSON bodies so field-name redaction applies to them.
func debugBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}

	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		return v
	}

	return string(body)
}

// redactQuery drops the query string, which may carry account identifiers.
func redactQuery(u *url.URL) string {
	clean := *u
	clean.RawQuery = ""
	clean.User = nil

	return clean.String()
}

// reasonPhrase extracts the reason phrase from "422 Unprocessable Entity".
func reasonPhrase(resp *http.Response) string {
	if _, reason, ok := strings.Cut(resp.Status, " "); ok && reason != "" {
		if _, err := strconv.Atoi(reason); err != nil {
			return reason
		}
	}

	return http.StatusText(resp.StatusCode)
}

// recordMetrics records request metrics.
func (c *Client) recordMetrics(ctx context.Context, method string, statusCode int, duration time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.serviceName),
		attribute.String("result", result),
	}

	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	c.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	c.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
