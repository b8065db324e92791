// Package api wraps net/http for talking to the zynor REST API: base URL,
// fixed timeout, JSON headers, API root prefixing, bearer token attachment
// and translation of failures into NetworkError and HTTPError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/zynor/internal/metrics"
	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second
	// DefaultRoot is the mount point of the API on the server.
	DefaultRoot = "/api"
	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	statusNetworkError = "network_error"
)

// CredentialProvider supplies the bearer token for outgoing requests.
// It is consulted on every request; ok is false when no token is stored.
type CredentialProvider interface {
	Token(ctx context.Context) (token string, ok bool)
}

// UnauthorizedHook is invoked for every 401 response before the error is returned.
type UnauthorizedHook func(ctx context.Context, resp *Response)

// Response is a successful (or 401) response with its body fully read.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Client performs JSON requests against the configured base URL.
type Client struct {
	log            *slog.Logger
	baseURL        string
	root           string
	rewrite        bool
	timeout        time.Duration
	http           *http.Client
	creds          CredentialProvider
	onUnauthorized UnauthorizedHook
	metrics        *metrics.Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is kept
// when set, otherwise the client timeout applies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRoot sets the API root used for prefixing and fallback paths.
func WithRoot(root string) Option {
	return func(c *Client) { c.root = normalizeRoot(root) }
}

// WithoutPathRewrite sends relative paths as given instead of prefixing them with the root.
func WithoutPathRewrite() Option {
	return func(c *Client) { c.rewrite = false }
}

// WithCredentials sets the token source.
func WithCredentials(p CredentialProvider) Option {
	return func(c *Client) { c.creds = p }
}

// WithUnauthorizedHook replaces the default 401 hook.
func WithUnauthorizedHook(h UnauthorizedHook) Option {
	return func(c *Client) {
		if h != nil {
			c.onUnauthorized = h
		}
	}
}

// WithMetrics enables request instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a Client for baseURL, which must be an absolute http(s) URL.
func NewClient(log *slog.Logger, baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: expected http(s)://host", baseURL)
	}

	client := &Client{
		log:     log,
		baseURL: strings.TrimRight(parsed.String(), "/"),
		root:    DefaultRoot,
		rewrite: true,
		timeout: DefaultTimeout,
	}
	client.onUnauthorized = client.logUnauthorized

	for _, opt := range opts {
		opt(client)
	}

	if client.http == nil {
		client.http = &http.Client{Timeout: client.timeout}
	} else if client.http.Timeout == 0 {
		hc := *client.http
		hc.Timeout = client.timeout
		client.http = &hc
	}

	return client, nil
}

// BaseURL returns the base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Root returns the API root, e.g. "/api". It is empty when no root is configured.
func (c *Client) Root() string {
	return c.root
}

// Prefixed returns path under the API root regardless of the rewrite setting.
func (c *Client) Prefixed(path string) string {
	path = leadingSlash(path)
	if c.root == "" || hasRoot(path, c.root) {
		return path
	}
	return c.root + path
}

// ResolvePath applies the request shaping rule: relative paths outside the
// API root get the root prepended, absolute URLs are left alone.
func (c *Client) ResolvePath(path string) string {
	if isAbsoluteURL(path) {
		return path
	}
	if !c.rewrite {
		return leadingSlash(path)
	}
	return c.Prefixed(path)
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// Do performs a request. A nil body sends no payload. Transport failures
// return *NetworkError, non-2xx statuses return *HTTPError.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	target := c.urlFor(path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.creds != nil {
		if token, ok := c.creds.Token(ctx); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, statusNetworkError, time.Since(start))
		c.log.WarnContext(ctx, "API request failed", "method", method, "url", target, "request_id", requestID, "error", err)
		return nil, &NetworkError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(method, statusNetworkError, time.Since(start))
		return nil, &NetworkError{Method: method, URL: target, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	elapsed := time.Since(start)
	c.observe(method, strconv.Itoa(resp.StatusCode), elapsed)
	c.log.DebugContext(ctx, "API request completed",
		"method", method, "url", target, "status", resp.StatusCode,
		"duration", elapsed, "request_id", requestID)

	out := &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}

	if resp.StatusCode == http.StatusUnauthorized {
		c.onUnauthorized(ctx, out)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPError{Method: method, URL: target, Status: resp.StatusCode, Body: data}
	}

	return out, nil
}

func (c *Client) urlFor(path string) string {
	resolved := c.ResolvePath(path)
	if isAbsoluteURL(resolved) {
		return resolved
	}
	return c.baseURL + resolved
}

func (c *Client) observe(method, status string, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.APIRequests.WithLabelValues(method, status).Inc()
	c.metrics.APIRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (c *Client) logUnauthorized(ctx context.Context, _ *Response) {
	c.log.WarnContext(ctx, "API rejected credentials, token is missing or expired")
}

func isAbsoluteURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func leadingSlash(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

func hasRoot(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+"/") || strings.HasPrefix(path, root+"?")
}

func normalizeRoot(root string) string {
	root = strings.TrimRight(strings.TrimSpace(root), "/")
	if root == "" {
		return ""
	}
	return leadingSlash(root)
}
