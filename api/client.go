// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/bureau-foundation/slackline/lib/metrics"
	"github.com/bureau-foundation/slackline/lib/netutil"
	"github.com/bureau-foundation/slackline/lib/secret"
	"github.com/bureau-foundation/slackline/lib/version"
)

// DefaultBaseURL is the platform's public API root.
const DefaultBaseURL = "https://slack.com/api/"

const tracerName = "github.com/bureau-foundation/slackline/api"

// Caller issues one method call. *Client implements it; tests and the
// generated method table depend only on this interface.
type Caller interface {
	Call(ctx context.Context, method string, args Args) (json.RawMessage, error)
}

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is prefixed to every method name. Defaults to
	// DefaultBaseURL. A trailing slash is added if missing.
	BaseURL string

	// Token authenticates every call. The Client takes ownership and
	// releases it on Close.
	Token *secret.Buffer

	// HTTPClient is used for all requests. If nil, a client with
	// Timeout is created.
	HTTPClient *http.Client

	// Timeout bounds each call when HTTPClient is nil. Zero means 30s.
	Timeout time.Duration

	// RequestsPerSecond enables a client-side token bucket when
	// positive. Burst is its capacity (minimum 1).
	RequestsPerSecond float64
	Burst             int

	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Metrics records per-method call counts and latency. May be nil.
	Metrics *metrics.Collectors

	// TracerProvider supplies the tracer for per-call spans. If nil,
	// the global provider is used.
	TracerProvider trace.TracerProvider
}

// Client is an authenticated HTTP client for the platform's method API.
// Every call is a single GET with the arguments in the query string;
// there are no retries at this layer.
type Client struct {
	baseURL    string
	token      *secret.Buffer
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *metrics.Collectors
	tracer     trace.Tracer
	userAgent  string

	// Methods is the generated method table bound to this client.
	Methods Methods
}

// NewClient creates a Client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Token == nil || config.Token.Closed() {
		return nil, fmt.Errorf("api: Token is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid BaseURL %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api: BaseURL %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracerProvider := config.TracerProvider
	if tracerProvider == nil {
		tracerProvider = otel.GetTracerProvider()
	}

	client := &Client{
		baseURL:    baseURL,
		token:      config.Token,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
		metrics:    config.Metrics,
		tracer:     tracerProvider.Tracer(tracerName),
		userAgent:  version.UserAgent(),
	}
	client.Methods = NewMethods(client)
	return client, nil
}

// Close releases the token. Calls made after Close fail.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return c.token.Close()
}

// Call invokes method with args and returns the raw response body on
// success. Failures are *RemoteError when the body was readable and
// *TransportError otherwise.
func (c *Client) Call(ctx context.Context, method string, args Args) (json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("slackline.method", method)),
	)
	defer span.End()

	start := time.Now()
	body, statusCode, err := c.do(ctx, method, args)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = "transport_error"
		var remoteErr *RemoteError
		if errors.As(err, &remoteErr) {
			outcome = "remote_error"
			span.SetAttributes(attribute.String("slackline.error_code", remoteErr.Code))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	if statusCode != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	}
	c.metrics.ObserveAPICall(method, outcome, elapsed)
	c.logger.Debug("api call", "method", method, "outcome", outcome, "duration", elapsed)

	if err != nil {
		return nil, err
	}
	return body, nil
}

// envelope is the part of every response body that signals success.
type envelope struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error"`
	Warning  string `json:"warning"`
	Needed   string `json:"needed"`
	Provided string `json:"provided"`
}

func (c *Client) do(ctx context.Context, method string, args Args) ([]byte, int, error) {
	query, err := args.Encode()
	if err != nil {
		return nil, 0, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, &TransportError{Method: method, Err: fmt.Errorf("waiting for rate limiter: %w", err)}
		}
	}

	requestURL := c.baseURL + method
	if query != "" {
		requestURL += "?" + query
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("api: failed to create request: %w", err)
	}
	if c.token.Closed() {
		return nil, 0, &TransportError{Method: method, Err: secret.ErrClosed}
	}
	// The token becomes a Go string only at the header boundary.
	request.Header.Set("Authorization", "Bearer "+c.token.String())
	request.Header.Set("User-Agent", c.userAgent)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, 0, &TransportError{Method: method, Err: err}
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, response.StatusCode, &TransportError{Method: method, StatusCode: response.StatusCode, Err: err}
	}

	var result envelope
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, response.StatusCode, &TransportError{
			Method:     method,
			StatusCode: response.StatusCode,
			Err:        fmt.Errorf("undecodable response %q: %w", netutil.Snippet(body), err),
		}
	}

	if result.Warning != "" {
		c.logger.Warn("api warning", "method", method, "warning", result.Warning)
	}

	if result.OK && result.Error == "" {
		return body, response.StatusCode, nil
	}

	remoteErr := &RemoteError{
		Method:     method,
		Code:       result.Error,
		StatusCode: response.StatusCode,
		Warning:    result.Warning,
		Needed:     result.Needed,
		Provided:   result.Provided,
	}
	if remoteErr.Code == "" {
		remoteErr.Code = CodeUnknown
	}
	if response.StatusCode == http.StatusTooManyRequests {
		remoteErr.RetryAfter = parseRetryAfter(response.Header.Get("Retry-After"))
	}
	return body, response.StatusCode, remoteErr
}

func parseRetryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
