package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultAttempts  = 3
	defaultBaseDelay = time.Second
)

// Response is a fetched http resource. The caller is responsible for
// closing Body.
type Response struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// Fetcher fetches vendor pages and binary assets via http with a fixed
// retry budget and exponential backoff. Transient failures (network
// errors, 5xx responses) are retried, other statuses fail fast.
type Fetcher struct {
	client    *http.Client
	userAgent string
	accept    string
	attempts  int
	baseDelay time.Duration
	limiter   *rate.Limiter
}

// Option is custom configuration of Fetcher.
type Option func(f *Fetcher)

// New returns a new Fetcher.
func New(client *http.Client, userAgent string, ops ...Option) *Fetcher {
	fet := &Fetcher{
		client:    client,
		userAgent: userAgent,
		attempts:  defaultAttempts,
		baseDelay: defaultBaseDelay,
	}

	for _, op := range ops {
		op(fet)
	}

	return fet
}

// WithAttempts sets the retry budget.
func WithAttempts(attempts int) Option {
	return func(f *Fetcher) {
		f.attempts = attempts
	}
}

// WithBaseDelay sets the first retry delay. The delay doubles after
// every failed attempt.
func WithBaseDelay(delay time.Duration) Option {
	return func(f *Fetcher) {
		f.baseDelay = delay
	}
}

// WithAccept sets the Accept request header.
func WithAccept(accept string) Option {
	return func(f *Fetcher) {
		f.accept = accept
	}
}

// WithRateLimit throttles outgoing requests to rps requests per second.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// Fetch fetches url and returns the response stream with its declared
// content type and length. The caller is responsible for closing the body.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	delay := f.baseDelay
	var lastErr error

	for attempt := 0; attempt < f.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := f.fetchOnce(ctx, url)
		if err == nil {
			return resp, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("all %d attempts failed: %w", f.attempts, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("can't build http request: %w", err)
	}

	req.Header.Add("User-Agent", f.userAgent)
	if f.accept != "" {
		req.Header.Add("Accept", f.accept)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("can't get http response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return &Response{
			Body:          resp.Body,
			ContentType:   resp.Header.Get("Content-Type"),
			ContentLength: resp.ContentLength,
		}, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %d", ErrServerStatus, resp.StatusCode)
	default:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %d", ErrStatusNotOK, resp.StatusCode)
	}
}

// isRetryable reports whether fetching should be retried. Network level
// errors and 5xx responses are transient, non-200 statuses below 500
// are permanent.
func isRetryable(err error) bool {
	return !errors.Is(err, ErrStatusNotOK)
}
