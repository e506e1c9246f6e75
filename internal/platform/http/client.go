package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Client is a wrapper for HTTP client with rate limiting, retries and a circuit breaker
type Client struct {
	HTTPClient *http.Client
	Limiter    *rate.Limiter

	breaker         *gobreaker.CircuitBreaker
	maxRetryTimeout time.Duration
	retryInterval   time.Duration
	logger          zerolog.Logger
}

// ClientOptions holds options for creating a new Client
type ClientOptions struct {
	Name            string
	Timeout         time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
	RetryInterval   time.Duration

	// consecutive failed requests before the breaker opens, and how long it stays open
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// NewClient creates a new HTTP client
func NewClient(opts ClientOptions) *Client {
	// Set default values if not provided
	if opts.Name == "" {
		opts.Name = "http"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 5
	}
	if opts.MaxRetryTimeout == 0 {
		opts.MaxRetryTimeout = 30 * time.Second
	}
	if opts.RetryInterval == 0 {
		opts.RetryInterval = 500 * time.Millisecond
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerTimeout == 0 {
		opts.BreakerTimeout = time.Minute
	}

	logger := log.With().Str("component", "http_client").Str("upstream", opts.Name).Logger()

	settings := gobreaker.Settings{
		Name:    opts.Name,
		Timeout: opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		// a rejected request says nothing about upstream health
		IsSuccessful: func(err error) bool {
			return err == nil || isClientError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: opts.Timeout,
		},
		Limiter:         rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.RequestsPerSec),
		breaker:         gobreaker.NewCircuitBreaker(settings),
		maxRetryTimeout: opts.MaxRetryTimeout,
		retryInterval:   opts.RetryInterval,
		logger:          logger,
	}
}

// DoRequest performs an HTTP request with rate limiting and retries.
// Server errors and 429 are retried with exponential backoff; other 4xx fail at once.
// While the breaker is open the request is not sent and gobreaker.ErrOpenState is returned.
func (c *Client) DoRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	// Wait for rate limiter
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doWithRetry(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	return result.(*http.Response), nil
}

func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var resp *http.Response
	attempt := 0
	operation := func() error {
		attempt++
		var err error
		resp, err = c.HTTPClient.Do(req.Clone(ctx))
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			statusErr := &HTTPStatusError{StatusCode: resp.StatusCode}
			if isClientError(statusErr) {
				return backoff.Permanent(statusErr)
			}
			return statusErr
		}
		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.InitialInterval = c.retryInterval
	backoffStrategy.MaxElapsedTime = c.maxRetryTimeout

	notify := func(err error, wait time.Duration) {
		c.logger.Debug().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("Retrying request")
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(backoffStrategy, ctx), notify); err != nil {
		return nil, err
	}

	return resp, nil
}

// HTTPStatusError represents an error due to a non-200 HTTP status code
type HTTPStatusError struct {
	StatusCode int
}

// Error implements the error interface
func (e *HTTPStatusError) Error() string {
	return "non-200 status code: " + http.StatusText(e.StatusCode)
}

func isClientError(err error) bool {
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 &&
		statusErr.StatusCode != http.StatusTooManyRequests
}
