package workos

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// Request is the view of an outgoing request given to interceptors. Headers are
// the live request headers; Body is a copy.
type Request struct {
	Method  string
	Path    string
	Headers http.Header
	Body    []byte
}

// Response is the view of a completed exchange given to interceptors. Error is set
// when the exchange failed before a response arrived.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
	Error      error
}

// RequestInterceptor is called before a request is sent. A returned error aborts
// the request.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received. It observes the
// exchange and cannot change its classification.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain manages a chain of interceptors. Build the chain before handing
// it to a client; it must not be modified while requests are in flight.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) *InterceptorChain {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)

	return c
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) *InterceptorChain {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)

	return c
}

// ExecuteRequestInterceptors runs all request interceptors in order.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	if c == nil {
		return nil
	}

	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors in order.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	if c == nil {
		return nil
	}

	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses. Failed exchanges and 5xx responses
// are logged at error level.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
			"duration":    resp.Duration.String(),
		}

		switch {
		case resp.Error != nil:
			fields["error"] = resp.Error.Error()
			logger.Error("API Response Error", fields)
		case resp.StatusCode >= http.StatusInternalServerError:
			logger.Error("API Response Error", fields)
		default:
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// HeaderInterceptor adds custom headers to requests.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}

// RateLimitInterceptor waits for limiter before each request. The wait honours the
// request context.
func RateLimitInterceptor(limiter *rate.Limiter) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		err := limiter.Wait(ctx)
		if err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}

		return nil
	}
}

// NewRateLimitInterceptor limits requests to requestsPerSecond with the given burst.
func NewRateLimitInterceptor(requestsPerSecond float64, burst int) RequestInterceptor {
	return RateLimitInterceptor(rate.NewLimiter(rate.Limit(requestsPerSecond), burst))
}

// MetricsCollector records request counts and latencies as Prometheus metrics.
type MetricsCollector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsCollector registers the client metrics with reg.
func NewMetricsCollector(reg prometheus.Registerer) (*MetricsCollector, error) {
	collector := &MetricsCollector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workos",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Requests sent to the WorkOS API by resource group, method and status.",
		}, []string{"group", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "workos",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Duration of WorkOS API exchanges.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"group", "method"}),
	}

	for _, c := range []prometheus.Collector{collector.requests, collector.duration} {
		err := reg.Register(c)
		if err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}

	return collector, nil
}

// ResponseInterceptor returns the interceptor that records each exchange.
func (m *MetricsCollector) ResponseInterceptor() ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		group := resourceGroup(req.Path)

		status := "error"
		if resp.Error == nil {
			status = strconv.Itoa(resp.StatusCode)
		}

		m.requests.WithLabelValues(group, req.Method, status).Inc()
		m.duration.WithLabelValues(group, req.Method).Observe(resp.Duration.Seconds())

		return nil
	}
}

// resourceGroup returns the first path segment, which keeps label cardinality
// independent of object IDs.
func resourceGroup(path string) string {
	trimmed := strings.TrimPrefix(path, "/")

	group, _, _ := strings.Cut(trimmed, "/")
	if group == "" {
		return "root"
	}

	return group
}
