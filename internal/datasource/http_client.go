package datasource

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/pool-edge/internal/config"
	"github.com/yourusername/pool-edge/internal/logger"
	"github.com/yourusername/pool-edge/internal/metrics"
)

// HTTPClientConfig holds configuration for HTTP clients
type HTTPClientConfig struct {
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RateLimit         float64 // requests per second
	Burst             int
	CircuitBreakerMax int // consecutive failures that open the breaker; 0 disables it
}

// DefaultHTTPClientConfig suits the odds API free tier.
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:           30 * time.Second,
		MaxRetries:        3,
		RetryWaitMin:      500 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         1,
		Burst:             1,
		CircuitBreakerMax: 5,
	}
}

// HTTPClientConfigFrom overlays the odds_api settings on the defaults.
func HTTPClientConfigFrom(cfg config.OddsAPIConfig) HTTPClientConfig {
	c := DefaultHTTPClientConfig()
	c.MaxRetries = cfg.RetryAttempts
	if cfg.TimeoutSeconds > 0 {
		c.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.RateLimitPerSecond > 0 {
		c.RateLimit = cfg.RateLimitPerSecond
	}
	if cfg.Burst > 0 {
		c.Burst = cfg.Burst
	}
	return c
}

// breaker opens after max consecutive failures and stays open until reset.
type breaker struct {
	max int

	mu       sync.Mutex
	failures int
	open     bool
	cause    error
}

func (b *breaker) check() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open {
		return fmt.Errorf("%w: %v", ErrCircuitOpen, b.cause)
	}
	return nil
}

// record returns true when this failure is the one that opened the breaker.
func (b *breaker) record(failure error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if failure == nil {
		b.failures = 0
		return false
	}
	b.failures++
	b.cause = failure
	if b.max > 0 && !b.open && b.failures >= b.max {
		b.open = true
		return true
	}
	return false
}

func (b *breaker) isOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

func (b *breaker) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open, b.failures, b.cause = false, 0, nil
}

// RateLimitedHTTPClient is a retrying client behind a token bucket and a
// circuit breaker.
type RateLimitedHTTPClient struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	breaker *breaker
	log     *logrus.Entry
}

// NewRateLimitedHTTPClient creates a new rate-limited HTTP client
func NewRateLimitedHTTPClient(cfg HTTPClientConfig, log *logrus.Logger) *RateLimitedHTTPClient {
	entry := logger.OrDiscard(log).WithField("component", "http_client")

	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = cfg.RetryWaitMin
	rc.RetryWaitMax = cfg.RetryWaitMax
	rc.CheckRetry = retryTransient
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt == 0 {
			return
		}
		entry.WithFields(logrus.Fields{
			"url":     req.URL.Redacted(),
			"attempt": attempt,
		}).Warn("Retrying odds request")
	}

	return &RateLimitedHTTPClient{
		client:  rc,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.Burst, 1)),
		breaker: &breaker{max: cfg.CircuitBreakerMax},
		log:     entry,
	}
}

// Do sends req once the limiter admits it. Transport errors and 5xx
// responses count against the breaker.
func (c *RateLimitedHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.breaker.check(); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	rreq, err := retryablehttp.FromRequest(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(rreq)

	failure := err
	if failure == nil && resp.StatusCode >= http.StatusInternalServerError {
		failure = fmt.Errorf("status %d", resp.StatusCode)
	}
	if c.breaker.record(failure) {
		metrics.RecordCircuitBreakerTrip()
		c.log.WithError(failure).WithField("threshold", c.breaker.max).Error("Circuit breaker opened")
	}
	return resp, err
}

// Get executes a GET request
func (c *RateLimitedHTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// IsOpen reports whether the circuit breaker is refusing requests
func (c *RateLimitedHTTPClient) IsOpen() bool { return c.breaker.isOpen() }

// Reset closes the circuit breaker
func (c *RateLimitedHTTPClient) Reset() { c.breaker.reset() }

// Close releases idle connections.
func (c *RateLimitedHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// retryTransient retries network errors, 429 and gateway-class 5xx.
func retryTransient(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true, nil
	}
	return false, nil
}
