package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/workos-client/internal/auth"
	"github.com/fivetwenty-io/workos-client/internal/constants"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
	"github.com/google/go-querystring/query"
	"github.com/hashicorp/go-retryablehttp"
)

// ClassifyFunc turns a completed exchange into an error, or nil on success.
type ClassifyFunc func(statusCode int, body []byte) error

// Client is the HTTP transport shared by every resource client.
type Client struct {
	baseURL      string
	credential   auth.CredentialProvider
	httpClient   *retryablehttp.Client
	logger       workos.Logger
	debug        bool
	userAgent    string
	interceptors *workos.InterceptorChain
}

// Request is a single API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Form    url.Values
	// Raw is sent verbatim with ContentType.
	Raw         []byte
	ContentType string
	Headers     map[string]string
	// NoAuth omits the Authorization header.
	NoAuth bool
	// Token replaces the configured credential for this request.
	Token string
	// Classify replaces workos.ClassifyResponse for this request.
	Classify ClassifyFunc
}

// Response is a completed exchange with the body fully read.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger workos.Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.httpClient.Logger = &leveledLogger{client: c}
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithRetryConfig opts in to transport retries of connection failures, 429 and
// 5xx responses.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout bounds each exchange.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient.HTTPClient = httpClient
		}
	}
}

// WithInterceptors installs an interceptor chain.
func WithInterceptors(chain *workos.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a transport for baseURL. A nil credential sends no
// Authorization header.
func NewClient(baseURL string, credential auth.CredentialProvider, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.ExtendedRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.CheckRetry = checkRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		credential: credential,
		httpClient: retryClient,
		userAgent:  constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// checkRetry never retries an authentication failure.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if resp != nil && resp.StatusCode == http.StatusUnauthorized {
		return false, nil
	}

	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// EncodeQuery flattens a params struct with `url` tags into query values. A nil
// pointer yields no values.
func EncodeQuery(params interface{}) (url.Values, error) {
	values, err := query.Values(params)
	if err != nil {
		return nil, workos.NewURLError(fmt.Errorf("encoding query: %w", err))
	}

	return values, nil
}

// Do performs req. The response is returned alongside any classified error so
// callers can inspect the status of a failed call.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	reqURL, err := url.Parse(c.baseURL + req.Path)
	if err != nil {
		return nil, workos.NewURLError(fmt.Errorf("parsing request URL: %w", err))
	}

	if len(req.Query) > 0 {
		reqURL.RawQuery = req.Query.Encode()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	var rawBody interface{}
	if body != nil {
		rawBody = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, reqURL.String(), rawBody)
	if err != nil {
		return nil, workos.NewURLError(fmt.Errorf("creating request: %w", err))
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	err = c.authorize(ctx, req, httpReq.Header)
	if err != nil {
		return nil, err
	}

	view := &workos.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: httpReq.Header,
		Body:    bytes.Clone(body),
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, view)
	if err != nil {
		return nil, workos.NewNetworkError(err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    reqURL.Redacted(),
		})
	}

	start := time.Now()
	resp, err := c.exchange(httpReq)
	duration := time.Since(start)

	observed := &workos.Response{Duration: duration, Error: err}
	if resp != nil {
		observed.StatusCode = resp.StatusCode
		observed.Headers = resp.Headers
		observed.Body = resp.Body
	}

	iErr := c.interceptors.ExecuteResponseInterceptors(ctx, view, observed)
	if iErr != nil && c.logger != nil {
		c.logger.Warn("Response interceptor failed", map[string]interface{}{"error": iErr.Error()})
	}

	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status_code": resp.StatusCode,
			"duration":    duration.String(),
		})
	}

	classify := req.Classify
	if classify == nil {
		classify = workos.ClassifyResponse
	}

	return resp, classify(resp.StatusCode, resp.Body)
}

func (c *Client) exchange(httpReq *retryablehttp.Request) (*Response, error) {
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, workos.NewNetworkError(fmt.Errorf("executing request: %w", err))
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, workos.NewNetworkError(fmt.Errorf("reading response body: %w", err))
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, nil
}

func (c *Client) authorize(ctx context.Context, req *Request, header http.Header) error {
	if req.NoAuth {
		return nil
	}

	token := req.Token
	if token == "" && c.credential != nil {
		credential, err := c.credential.Credential(ctx)
		if err != nil {
			return workos.NewNetworkError(fmt.Errorf("getting credential: %w", err))
		}

		token = credential
	}

	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	return nil
}

func encodeBody(req *Request) ([]byte, string, error) {
	switch {
	case req.Raw != nil:
		contentType := req.ContentType
		if contentType == "" {
			contentType = "text/plain; charset=utf-8"
		}

		return req.Raw, contentType, nil
	case req.Form != nil:
		return []byte(req.Form.Encode()), "application/x-www-form-urlencoded", nil
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", workos.NewURLError(fmt.Errorf("marshaling request body: %w", err))
		}

		return data, "application/json", nil
	default:
		return nil, "", nil
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// Decode unmarshals a successful response body. A body that does not match the
// expected shape is reported as a network error.
func Decode(resp *Response, v interface{}) error {
	err := json.Unmarshal(resp.Body, v)
	if err != nil {
		return workos.NewNetworkError(fmt.Errorf("decoding response: %w", err))
	}

	return nil
}

// leveledLogger forwards retryablehttp's logging. Debug and Info lines are only
// forwarded in debug mode.
type leveledLogger struct {
	client *Client
}

func (l *leveledLogger) fields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}

		fields[key] = keysAndValues[i+1]
	}

	return fields
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.client.logger.Error(msg, l.fields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.client.logger.Warn(msg, l.fields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	if l.client.debug {
		l.client.logger.Info(msg, l.fields(keysAndValues))
	}
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	if l.client.debug {
		l.client.logger.Debug(msg, l.fields(keysAndValues))
	}
}

var _ retryablehttp.LeveledLogger = (*leveledLogger)(nil)
