// Package httpx builds the HTTP clients shared by the provider integrations.
//
// Requests are retried with exponential backoff when the provider answers 429
// or a 5xx status, or when the transport fails before a response arrives.
// Retry-After headers are honoured up to maxRetryAfter.
package httpx

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultTimeout     = 15 * time.Second
	DefaultMaxRetries  = 3
	DefaultBaseBackoff = 500 * time.Millisecond
	maxRetryAfter      = 30 * time.Second
)

// Option configures a client built by New.
type Option func(*retryTransport)

// WithBaseTransport overrides the wrapped round tripper.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(t *retryTransport) {
		if rt != nil {
			t.base = rt
		}
	}
}

// WithBaseBackoff sets the first retry delay.
func WithBaseBackoff(d time.Duration) Option {
	return func(t *retryTransport) {
		if d > 0 {
			t.baseBackoff = d
		}
	}
}

// New returns an http.Client with the given overall timeout whose transport
// retries throttled and failed requests up to maxRetries times.
func New(timeout time.Duration, maxRetries int, opts ...Option) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	transport := &retryTransport{
		base:        http.DefaultTransport,
		maxRetries:  uint64(maxRetries),
		baseBackoff: DefaultBaseBackoff,
	}
	for _, opt := range opts {
		opt(transport)
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

type retryTransport struct {
	base        http.RoundTripper
	maxRetries  uint64
	baseBackoff time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	var resp *http.Response

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = t.baseBackoff
	policy.MaxInterval = 10 * t.baseBackoff
	policy.MaxElapsedTime = 0

	attempt := func() error {
		r, err := t.base.RoundTrip(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		if !retryable(r.StatusCode) {
			resp = r
			return nil
		}
		wait := retryAfter(r)
		_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, 4096))
		r.Body.Close()
		if wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return backoff.Permanent(ctx.Err())
			}
		}
		return fmt.Errorf("%s %s returned %d", req.Method, req.URL.Path, r.StatusCode)
	}

	if err := backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(policy, t.maxRetries), ctx)); err != nil {
		return nil, err
	}
	return resp, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func retryAfter(resp *http.Response) time.Duration {
	value := resp.Header.Get("Retry-After")
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return min(time.Duration(seconds)*time.Second, maxRetryAfter)
	}
	if when, err := http.ParseTime(value); err == nil {
		if d := time.Until(when); d > 0 {
			return min(d, maxRetryAfter)
		}
	}
	return 0
}
