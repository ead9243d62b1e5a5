// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package backend is the HTTP client for the external book REST service.

Every call goes through a single round-trip helper that applies the outbound
rate limit, logs the exchange, records metrics, and classifies failures into
the admin error taxonomy:

  - The request never completed, or the answer could not be decoded: Network.
  - 401 or 403: Auth.
  - Any other non-2xx: Server, carrying the backend's message verbatim.

Calls that need a bearer token check it locally first; an expired or missing
token fails with Auth and nothing is sent. Nothing is retried.
*/
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/bookdesk/internal/platform/apperr"
	"github.com/taibuivan/bookdesk/internal/platform/constants"
	"github.com/taibuivan/bookdesk/internal/platform/ctxutil"
	"github.com/taibuivan/bookdesk/internal/platform/metrics"
	"github.com/taibuivan/bookdesk/internal/platform/sec"
)

// maxResponseBytes bounds how much of a backend response is read.
const maxResponseBytes = 4 << 20

// maxRawMessage bounds a non-JSON error body surfaced as a message.
const maxRawMessage = 512

// Options configures a [Client].
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RPS       float64
	Inspector *sec.TokenInspector
	Metrics   *metrics.Metrics

	// HTTPClient overrides the default transport. Its Timeout is left untouched.
	HTTPClient *http.Client
}

// Client talks to the book backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	inspector  *sec.TokenInspector
	metrics    *metrics.Metrics
}

// New builds a client from options. A non-positive RPS disables the outbound limit.
func New(options Options) *Client {
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if options.RPS > 0 {
		burst := int(options.RPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(options.RPS), burst)
	}

	inspector := options.Inspector
	if inspector == nil {
		inspector = sec.NewTokenInspector("")
	}

	return &Client{
		baseURL:    strings.TrimRight(options.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		inspector:  inspector,
		metrics:    options.Metrics,
	}
}

// # Round Trip

// call describes one backend request.
type call struct {
	// endpoint is a stable name used as the metrics label.
	endpoint string
	method   string
	path     string
	query    url.Values
	body     any
	token    string
}

// do runs c and decodes a 2xx body into target (when non-nil).
func (client *Client) do(ctx context.Context, c call, target any) error {
	startTime := time.Now()
	status, err := client.roundTrip(ctx, c, target)
	elapsed := time.Since(startTime)

	client.metrics.ObserveBackend(c.endpoint, string(apperr.KindOf(err)), elapsed)

	logger := ctxutil.GetLogger(ctx)
	attrs := []any{
		slog.String("endpoint", c.endpoint),
		slog.String("method", c.method),
		slog.String("backend_path", c.path),
		slog.Int("status", status),
		slog.Int64("latency_ms", elapsed.Milliseconds()),
	}
	if err != nil {
		attrs = append(attrs, slog.String("kind", string(apperr.KindOf(err))), slog.String("error", err.Error()))
		logger.WarnContext(ctx, "backend_call_failed", attrs...)
		return err
	}
	logger.DebugContext(ctx, "backend_call_finished", attrs...)
	return nil
}

// roundTrip performs the HTTP exchange and returns the status (0 when none arrived).
func (client *Client) roundTrip(ctx context.Context, c call, target any) (int, error) {
	request, err := client.newRequest(ctx, c)
	if err != nil {
		return 0, err
	}

	if err := client.limiter.Wait(ctx); err != nil {
		return 0, apperr.Network(fmt.Errorf("backend: rate limiter: %w", err))
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return 0, apperr.Network(fmt.Errorf("backend: %s %s: %w", c.method, c.path, err))
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return response.StatusCode, apperr.Network(fmt.Errorf("backend: read body: %w", err))
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return response.StatusCode, classifyStatus(response.StatusCode, payload)
	}

	if target == nil || len(bytes.TrimSpace(payload)) == 0 {
		return response.StatusCode, nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return response.StatusCode, apperr.Network(fmt.Errorf("backend: decode %s: %w", c.endpoint, err))
	}
	return response.StatusCode, nil
}

// newRequest builds the HTTP request for c.
func (client *Client) newRequest(ctx context.Context, c call) (*http.Request, error) {
	target := client.baseURL + c.path
	if len(c.query) > 0 {
		target += "?" + c.query.Encode()
	}

	var body io.Reader
	if c.body != nil {
		encoded, err := json.Marshal(c.body)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("backend: encode %s: %w", c.endpoint, err))
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, c.method, target, body)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("backend: build %s: %w", c.endpoint, err))
	}

	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+c.token)
	}
	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		request.Header.Set(constants.HeaderXRequestID, requestID)
	}

	return request, nil
}

// authorize checks a bearer token locally before it is sent.
func (client *Client) authorize(token string) error {
	_, err := client.inspector.Inspect(token)
	return err
}

// # Error Classification

// classifyStatus maps a non-2xx answer onto the error taxonomy.
func classifyStatus(status int, payload []byte) error {
	message := extractMessage(payload)

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		if message == "" {
			message = "Not authorized by the book service"
		}
		if status == http.StatusForbidden {
			return apperr.Forbidden(message)
		}
		return apperr.Auth(message)
	}

	return apperr.Server(status, message)
}

// extractMessage pulls a human message out of an error body.
// JSON bodies use "message" (or "error"); short plain-text bodies are used as-is.
func extractMessage(payload []byte) string {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return ""
	}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		return body.Error
	}

	// A JSON string literal, e.g. "No books found".
	var literal string
	if err := json.Unmarshal(trimmed, &literal); err == nil {
		return literal
	}

	if len(trimmed) > maxRawMessage || bytes.HasPrefix(trimmed, []byte("<")) {
		return ""
	}
	return string(trimmed)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	ae := apperr.As(err)
	return ae != nil && ae.Kind == apperr.KindServer && ae.HTTPStatus == http.StatusNotFound
}
