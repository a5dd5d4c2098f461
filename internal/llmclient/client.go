// Package llmclient provides the base HTTP client shared by all upstream
// provider adapters: request marshaling, a fixed per-call timeout, optional
// bounded retries for transient status codes, and observability hooks.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"time"

	"voxd/internal/core"
)

// DefaultTimeout is the fixed per-call upstream timeout.
const DefaultTimeout = 30 * time.Second

// HeaderSetter is a function that sets headers on an HTTP request
type HeaderSetter func(req *http.Request)

// Hooks are optional callbacks around every upstream call, used for
// metrics collection. Either field may be nil.
type Hooks struct {
	OnRequest  func(provider, endpoint string)
	OnResponse func(provider, endpoint string, statusCode int, duration time.Duration, err error)
}

// Config holds configuration for the LLM client
type Config struct {
	// ProviderName identifies the provider in error messages and metrics
	ProviderName string

	// BaseURL is the API base URL
	BaseURL string

	// Timeout bounds each upstream call. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts for 429/5xx responses.
	// Zero preserves single-call semantics.
	MaxRetries     int
	InitialBackoff time.Duration
	BackoffFactor  float64

	Hooks Hooks
}

// DefaultConfig returns a Config with the fixed upstream timeout and
// retries disabled.
func DefaultConfig(providerName, baseURL string) Config {
	return Config{
		ProviderName:   providerName,
		BaseURL:        baseURL,
		Timeout:        DefaultTimeout,
		InitialBackoff: 1 * time.Second,
		BackoffFactor:  2.0,
	}
}

// Client is the base HTTP client for provider adapters
type Client struct {
	httpClient   *http.Client
	config       Config
	headerSetter HeaderSetter
}

// New creates a new client with the given configuration
func New(config Config, headerSetter HeaderSetter) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		config:       config,
		headerSetter: headerSetter,
	}
}

// NewWithHTTPClient creates a new client with a custom HTTP client.
// If httpClient is nil, a client with the default timeout is used.
func NewWithHTTPClient(httpClient *http.Client, config Config, headerSetter HeaderSetter) *Client {
	c := New(config, headerSetter)
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

// SetBaseURL updates the base URL
func (c *Client) SetBaseURL(url string) {
	c.config.BaseURL = url
}

// BaseURL returns the current base URL
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// ProviderName returns the provider this client talks to
func (c *Client) ProviderName() string {
	return c.config.ProviderName
}

// Request represents an HTTP request to be made
type Request struct {
	Method   string
	Endpoint string
	Body     interface{} // JSON marshaled if not nil
	RawBody  []byte      // sent verbatim when Body is nil (audio uploads)
	Headers  map[string]string
}

// Response represents an HTTP response. Non-200 statuses are returned
// here rather than as errors; the adapter owns status mapping.
type Response struct {
	StatusCode int
	Body       []byte
}

// Do executes a request. Only transport failures (connect, timeout, read)
// are returned as errors, wrapped with the provider name.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	maxAttempts := c.config.MaxRetries + 1
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	var lastResp *Response
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, core.NewTransportError(c.config.ProviderName, "request canceled: "+ctx.Err().Error(), ctx.Err())
			case <-time.After(c.backoff(attempt)):
			}
		}

		resp, err := c.doRequest(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}
		if c.retryable(resp.StatusCode) && attempt < maxAttempts-1 {
			lastResp = resp
			continue
		}
		return resp, nil
	}

	if lastResp != nil {
		return lastResp, nil
	}
	return nil, lastErr
}

// DecodeJSON unmarshals a response body, converting decode failures into
// transport errors so the adapter boundary never leaks raw json errors.
func (c *Client) DecodeJSON(body []byte, result interface{}) error {
	if err := json.Unmarshal(body, result); err != nil {
		return core.NewTransportError(c.config.ProviderName, "malformed response body: "+err.Error(), err)
	}
	return nil
}

// doRequest executes a single HTTP request without retries
func (c *Client) doRequest(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if c.config.Hooks.OnRequest != nil {
		c.config.Hooks.OnRequest(c.config.ProviderName, req.Endpoint)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(req.Endpoint, 0, start, err)
		return nil, core.NewTransportError(c.config.ProviderName, "request failed: "+err.Error(), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(req.Endpoint, resp.StatusCode, start, err)
		return nil, core.NewTransportError(c.config.ProviderName, "failed to read response: "+err.Error(), err)
	}

	c.observe(req.Endpoint, resp.StatusCode, start, nil)
	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// buildRequest creates an HTTP request from a Request
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := c.config.BaseURL + req.Endpoint

	var bodyReader io.Reader
	contentType := ""
	switch {
	case req.Body != nil:
		bodyBytes, err := json.Marshal(req.Body)
		if err != nil {
			return nil, core.NewTransportError(c.config.ProviderName, "failed to marshal request: "+err.Error(), err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
		contentType = "application/json"
	case req.RawBody != nil:
		bodyReader = bytes.NewReader(req.RawBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, bodyReader)
	if err != nil {
		return nil, core.NewTransportError(c.config.ProviderName, "failed to create request: "+err.Error(), err)
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.headerSetter != nil {
		c.headerSetter(httpReq)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	// Forward request ID if present in context
	if requestID := core.GetRequestID(ctx); requestID != "" {
		httpReq.Header.Set("X-Request-ID", requestID)
	}

	return httpReq, nil
}

func (c *Client) observe(endpoint string, status int, start time.Time, err error) {
	if c.config.Hooks.OnResponse != nil {
		c.config.Hooks.OnResponse(c.config.ProviderName, endpoint, status, time.Since(start), err)
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	initial := c.config.InitialBackoff
	if initial <= 0 {
		initial = 1 * time.Second
	}
	factor := c.config.BackoffFactor
	if factor <= 0 {
		factor = 2.0
	}
	return time.Duration(float64(initial) * math.Pow(factor, float64(attempt-1)))
}

func (c *Client) retryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusBadGateway ||
		statusCode == http.StatusGatewayTimeout
}
