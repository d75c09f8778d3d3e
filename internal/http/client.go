// Package http provides the HTTP transport shared by all vRA resource
// clients.
package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/vra-client/internal/auth"
	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/hashicorp/go-retryablehttp"
)

// Logger is the minimal structured logger the transport logs through.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request represents an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client executes requests against a vRA server, attaching bearer tokens
// obtained from the token manager.
type Client struct {
	baseURL      string
	tokenManager auth.TokenManager
	retryClient  *retryablehttp.Client
	logger       Logger
	debug        bool
	userAgent    string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables transport retries for transient failures.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryClient.RetryMax = retryMax
		c.retryClient.RetryWaitMin = waitMin
		c.retryClient.RetryWaitMax = waitMax
	}
}

// WithTimeout bounds each request round trip.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.retryClient.HTTPClient.Timeout = timeout
	}
}

// WithSkipTLSVerify disables certificate verification. Appliances commonly
// run self-signed certificates.
func WithSkipTLSVerify(skip bool) Option {
	return func(c *Client) {
		if !skip {
			return
		}

		transport, ok := c.retryClient.HTTPClient.Transport.(*http.Transport)
		if !ok {
			transport = &http.Transport{}
			c.retryClient.HTTPClient.Transport = transport
		}

		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402 -- Self-signed appliance certificates are opted into explicitly
			MinVersion:         tls.VersionTLS12,
		}
	}
}

// NewClient creates a transport for the given base URL. A nil tokenManager
// sends requests unauthenticated. Retries are disabled unless enabled via
// WithRetryConfig, so the provisioning poller stays the only repeat
// mechanism.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	// Surface the last response instead of a give-up error so callers can
	// inspect the status code.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		tokenManager: tokenManager,
		retryClient:  retryClient,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes an API request. Responses with status >= 400 return both the
// response and a *vra.ResponseError so callers can inspect status and body.
// A 401 triggers one forced token refresh and a single repeat of the
// request; managers that cannot refresh leave the original response in
// place.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	resp, err := c.execute(ctx, req)
	if resp == nil || resp.StatusCode != http.StatusUnauthorized || c.tokenManager == nil {
		return resp, err
	}

	refreshErr := c.tokenManager.RefreshToken(ctx)
	if refreshErr != nil {
		return resp, err
	}

	return c.execute(ctx, req)
}

func (c *Client) execute(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	c.logRequest(req.Method, httpReq.URL.String())

	start := time.Now()

	httpResp, err := c.retryClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	c.logResponse(resp, time.Since(start))

	if resp.StatusCode >= constants.HTTPStatusBadRequest {
		return resp, vra.ParseResponseError(resp.StatusCode, body)
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

func (c *Client) buildRequest(ctx context.Context, req *Request) (*retryablehttp.Request, error) {
	var body io.Reader

	if req.Body != nil {
		switch typed := req.Body.(type) {
		case []byte:
			body = bytes.NewReader(typed)
		default:
			data, err := json.Marshal(req.Body)
			if err != nil {
				return nil, fmt.Errorf("marshaling request body: %w", err)
			}

			body = bytes.NewReader(data)
		}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, c.requestURL(req), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	err = c.setAuthHeader(ctx, httpReq)
	if err != nil {
		return nil, err
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

// requestURL resolves the request path against the base URL. Absolute URLs
// pass through unchanged; day-2 operation endpoints arrive fully formed.
func (c *Client) requestURL(req *Request) string {
	fullURL := req.Path
	if !strings.Contains(req.Path, "://") {
		fullURL = c.baseURL + req.Path
	}

	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	return fullURL
}

func (c *Client) setAuthHeader(ctx context.Context, httpReq *retryablehttp.Request) error {
	if c.tokenManager == nil {
		return nil
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("getting token: %w", err)
	}

	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	return nil
}

func (c *Client) logRequest(method, fullURL string) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method": method,
		"url":    fullURL,
	})
}

func (c *Client) logResponse(resp *Response, duration time.Duration) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Response", map[string]interface{}{
		"status":      resp.StatusCode,
		"bytes":       len(resp.Body),
		"duration_ms": duration.Milliseconds(),
	})
}
