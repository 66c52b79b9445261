// Package client is the HTTP transport to the querylab backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TFMV/querylab/pkg/errors"
	"github.com/TFMV/querylab/pkg/infrastructure/metrics"
	"github.com/TFMV/querylab/pkg/models"
)

// DefaultBaseURL is where the backend API lives in a default deployment.
const DefaultBaseURL = "http://localhost:8080/api"

const defaultTimeout = 60 * time.Second

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// Option configures a Client.
type Option func(c *Client)

// Client sends JSON requests to the backend.
type Client struct {
	base           url.URL
	http           *http.Client
	tokens         TokenSource
	logger         zerolog.Logger
	metrics        metrics.Collector
	onUnauthorized func()
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInvalidRequest, "invalid base URL %q", baseURL)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.Newf(errors.CodeInvalidRequest, "base URL %q must be http or https", baseURL)
	}

	c := &Client{
		base:    *base,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  zerolog.Nop(),
		metrics: metrics.NewNoOpCollector(),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.http
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	hc.Transport = chain(next,
		newMetricsTransport(c.metrics),
		newLoggingTransport(c.logger),
	)
	c.http = &hc

	return c, nil
}

// WithHTTPClient replaces the underlying HTTP client. Its transport is
// wrapped, the client itself is not modified.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector metrics.Collector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithUnauthorizedHandler registers fn to run whenever an authenticated
// request is answered with 401.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, query url.Values, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, query, in, out)
}

// Do sends one request. in is JSON-encoded when non-nil; out is decoded from
// a 2xx body when non-nil. Non-2xx responses become *errors.ClientError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, errors.CodeInvalidRequest, "encode %s request", path)
		}
		body = bytes.NewReader(data)
	}

	reqURL := c.base.JoinPath(path)
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return errors.Wrapf(err, errors.CodeInvalidRequest, "build %s request", path)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())

	authenticated := !isPublic(path)
	if authenticated && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(ctx, err, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(ctx, err, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp.StatusCode, respBody).WithDetail(errors.DetailPath, path)
		if resp.StatusCode == http.StatusUnauthorized && authenticated {
			c.metrics.IncrementCounter(metrics.UnauthorizedTotal)
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrapf(err, errors.CodeDecodeFailed, "decode %s response", path)
	}
	return nil
}

// isPublic reports whether path is reachable without a token.
func isPublic(path string) bool {
	p := "/" + strings.TrimLeft(path, "/")
	return p == "/auth/login" || p == "/auth/register"
}

func transportError(ctx context.Context, err error, path string) error {
	switch {
	case stderrors.Is(ctx.Err(), context.Canceled):
		return errors.Wrapf(err, errors.CodeCanceled, "%s canceled", path)
	case stderrors.Is(ctx.Err(), context.DeadlineExceeded), isTimeout(err):
		return errors.Wrapf(err, errors.CodeDeadlineExceeded, "%s timed out", path)
	default:
		return errors.Wrapf(err, errors.CodeConnectionFailed, "backend unreachable")
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return stderrors.As(err, &t) && t.Timeout()
}

// decodeError turns an error response into a ClientError, preferring the
// backend's own message.
func decodeError(status int, body []byte) *errors.ClientError {
	var apiErr models.APIError
	if len(body) > 0 {
		// A malformed timestamp must not hide the message.
		_ = json.Unmarshal(body, &apiErr)
	}
	code := errors.CodeForStatus(status)
	message := strings.TrimSpace(apiErr.Message)
	if message == "" {
		return errors.Newf(code, "request failed: %d %s", status, http.StatusText(status)).WithStatus(status)
	}
	return errors.New(code, message).
		WithStatus(status).
		WithDetail(errors.DetailBackendMessage, message)
}
