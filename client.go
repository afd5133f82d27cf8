package ecoflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the EcoFlow IoT Open API base URL.
const DefaultBaseURL = "https://api-e.ecoflow.com"

// Client is an EcoFlow IoT Open API client. Credentials are immutable for the
// client's lifetime; the zero value is not usable, construct with NewClient.
type Client struct {
	baseURL    string
	accessKey  string
	secretKey  string
	httpClient *http.Client
	logger     *slog.Logger

	// Seams for deterministic signing in tests.
	nonce func() string
	now   func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP request timeout. The client imposes no timeout
// by default; callers bound requests with this option or with the context.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// WithNonceSource overrides the per-request nonce generator.
// Intended for tests that need reproducible signatures.
func WithNonceSource(nonce func() string) Option {
	return func(c *Client) {
		c.nonce = nonce
	}
}

// WithClock overrides the timestamp source used in signed headers.
// Intended for tests that need reproducible signatures.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new EcoFlow API client with the access key pair from
// the EcoFlow developer portal. Returns ErrEmptyAccessKey or ErrEmptySecretKey
// if a credential is missing.
func NewClient(accessKey, secretKey string, opts ...Option) (*Client, error) {
	if accessKey == "" {
		return nil, ErrEmptyAccessKey
	}
	if secretKey == "" {
		return nil, ErrEmptySecretKey
	}

	c := &Client{
		baseURL:   DefaultBaseURL,
		accessKey: accessKey,
		secretKey: secretKey,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				DisableKeepAlives:   false,
			},
		},
		nonce: defaultNonce,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// do performs a signed HTTP request and returns the raw response body.
// params feed the signing string on every request; GET encodes them as the
// query string in canonical order (so the server verifies the exact bytes
// that were signed), PUT serializes them as the JSON body.
func (c *Client) do(ctx context.Context, method, path string, params map[string]any) ([]byte, error) {
	url := c.baseURL + path

	var reqBody io.Reader
	if method == http.MethodGet {
		if len(params) > 0 {
			url += "?" + canonicalize(flattenParams(params))
		}
	} else if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range c.signHeaders(params) {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logResponse(ctx, method, path, 0, time.Since(start), err)
		return nil, &TransportError{Op: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logResponse(ctx, method, path, resp.StatusCode, time.Since(start), err)
		return nil, &TransportError{Op: method, URL: url, Err: err}
	}

	c.logResponse(ctx, method, path, resp.StatusCode, time.Since(start), nil)

	if resp.StatusCode >= 400 {
		return nil, c.handleError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// request performs a signed call and decodes the enveloped JSON response.
// A non-zero envelope code becomes an *APIError; when out is non-nil the
// envelope's data payload is decoded into it.
func (c *Client) request(ctx context.Context, method, path string, params map[string]any, out any) error {
	data, err := c.do(ctx, method, path, params)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return &DecodeError{Resource: path, Err: err, Body: truncatePreview(data)}
	}
	if !env.ok() {
		return &APIError{Code: env.Code, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &DecodeError{Resource: path, Err: err, Body: truncatePreview(env.Data)}
		}
	}
	return nil
}

// handleError converts HTTP error responses to appropriate errors.
func (c *Client) handleError(statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		var env envelope
		if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
			return &APIError{StatusCode: statusCode, Code: env.Code, Message: env.Message}
		}
		return &APIError{StatusCode: statusCode, Message: truncatePreview(body)}
	}
}

// get performs a signed GET request.
func (c *Client) get(ctx context.Context, path string, params map[string]any, out any) error {
	return c.request(ctx, http.MethodGet, path, params, out)
}

// put performs a signed PUT request.
func (c *Client) put(ctx context.Context, path string, params map[string]any, out any) error {
	return c.request(ctx, http.MethodPut, path, params, out)
}
