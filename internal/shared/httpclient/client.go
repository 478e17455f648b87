// Package httpclient wraps outbound HTTP calls with a per-call timeout,
// bounded retries with exponential backoff, an optional outbound rate limit
// and a circuit breaker, so a slow or failing peer cannot hold the caller
// hostage.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/insurance-system/insurance-backend/internal/shared/apperr"
)

// Options configures a Client. Zero values fall back to the defaults below.
type Options struct {
	// MaxRetryAttempts bounds retries of transient failures; the first
	// attempt is not a retry. Zero picks the default; a negative value
	// disables retries.
	MaxRetryAttempts int
	// BaseRetryDelay is the backoff base: delay = base * 2^(attempt-1).
	BaseRetryDelay          time.Duration
	CircuitBreakerThreshold int
	CircuitBreakerCooldown  time.Duration
	// Timeout bounds every individual attempt.
	Timeout time.Duration
	// RetryableStatusCodes are treated as transient failures.
	RetryableStatusCodes []int
	// RequestsPerSecond throttles outbound calls; 0 disables the limiter.
	RequestsPerSecond float64
}

func (o Options) withDefaults() Options {
	if o.MaxRetryAttempts == 0 {
		o.MaxRetryAttempts = 3
	}
	if o.MaxRetryAttempts < 0 {
		o.MaxRetryAttempts = 0
	}
	if o.BaseRetryDelay == 0 {
		o.BaseRetryDelay = time.Second
	}
	if o.CircuitBreakerThreshold == 0 {
		o.CircuitBreakerThreshold = 5
	}
	if o.CircuitBreakerCooldown == 0 {
		o.CircuitBreakerCooldown = 30 * time.Second
	}
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
	if o.RetryableStatusCodes == nil {
		o.RetryableStatusCodes = []int{
			http.StatusRequestTimeout,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		}
	}
	return o
}

// Client is safe for concurrent use.
type Client struct {
	http      *http.Client
	opts      Options
	breaker   *breaker
	limiter   *rate.Limiter
	retryable map[int]bool
}

func New(opts Options) *Client {
	opts = opts.withDefaults()

	retryable := make(map[int]bool, len(opts.RetryableStatusCodes))
	for _, code := range opts.RetryableStatusCodes {
		retryable[code] = true
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		// The attempt context carries the timeout; the client itself
		// stays unbounded so the two do not race.
		http:      &http.Client{},
		opts:      opts,
		breaker:   newBreaker(opts.CircuitBreakerThreshold, opts.CircuitBreakerCooldown),
		limiter:   limiter,
		retryable: retryable,
	}
}

// Get issues a GET request through Do.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.Do(req)
}

// Do executes the request with the configured resilience policy.
//
// Transient failures (transport errors and retryable status codes) are
// retried with exponential backoff. Non-retryable responses are returned
// immediately without consuming retry budget. A response that exhausts the
// retry budget is still returned to the caller; its status code tells the
// story. The breaker records one outcome per Do call.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if !c.breaker.allow() {
		return nil, apperr.ErrCircuitOpen
	}

	var (
		resp    *http.Response
		lastErr error
	)

	for attempt := 0; attempt <= c.opts.MaxRetryAttempts; attempt++ {
		if attempt > 0 {
			// delay = base * 2^(attempt-1)
			delay := c.opts.BaseRetryDelay << (attempt - 1)
			select {
			case <-req.Context().Done():
				c.breaker.failure()
				return nil, c.classify(req, req.Context().Err())
			case <-time.After(delay):
			}
		}

		resp, lastErr = c.attempt(req)
		if lastErr == nil && !c.retryable[resp.StatusCode] {
			c.breaker.success()
			return resp, nil
		}

		if lastErr != nil {
			log.Printf("[warn] operation=http_call url=%s attempt=%d err=%v", req.URL, attempt+1, lastErr)
		} else {
			log.Printf("[warn] operation=http_call url=%s attempt=%d status=%d", req.URL, attempt+1, resp.StatusCode)
		}

		// Drop the failed response body before retrying.
		if lastErr == nil && attempt < c.opts.MaxRetryAttempts {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	}

	c.breaker.failure()
	if lastErr != nil {
		return nil, c.classify(req, lastErr)
	}
	return resp, nil
}

func (c *Client) attempt(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(req.Context(), c.opts.Timeout)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			cancel()
			return nil, err
		}
	}

	attemptReq := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			cancel()
			return nil, fmt.Errorf("rewind request body: %w", err)
		}
		attemptReq.Body = body
	}

	resp, err := c.http.Do(attemptReq)
	if err != nil {
		cancel()
		return nil, err
	}

	// Tie the cancel to body close so the response survives the attempt.
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (c *Client) classify(req *http.Request, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &apperr.TimeoutError{
			Op:  fmt.Sprintf("%s %s", req.Method, req.URL),
			Err: err,
		}
	}
	return fmt.Errorf("%s %s failed: %w", req.Method, req.URL, err)
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
