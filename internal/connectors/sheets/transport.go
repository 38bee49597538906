package sheets

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

const maxAttempts = 5

// RateLimiter hands out turns at a fixed interval.
type RateLimiter struct {
	mu            sync.Mutex
	nextAllowedAt time.Time
	interval      time.Duration
}

func NewRateLimiter(requestsPerSecond int) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &RateLimiter{interval: time.Second / time.Duration(requestsPerSecond)}
}

func (r *RateLimiter) WaitTurn(ctx context.Context) error {
	r.mu.Lock()
	now := time.Now()
	scheduled := now
	if r.nextAllowedAt.After(now) {
		scheduled = r.nextAllowedAt
	}
	r.nextAllowedAt = scheduled.Add(r.interval)
	r.mu.Unlock()

	return sleepCtx(ctx, time.Until(scheduled))
}

// retryTransport retries idempotent requests on transport errors and on
// 429/5xx answers with jittered exponential backoff.
type retryTransport struct {
	base    http.RoundTripper
	limiter *RateLimiter
	backoff func(attempt int) time.Duration
}

func newRetryTransport(base http.RoundTripper, limiter *RateLimiter) *retryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &retryTransport{base: base, limiter: limiter, backoff: jitteredBackoff}
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil && req.GetBody == nil {
		return t.send(req)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attemptReq := req
		if attempt > 1 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq = req.Clone(req.Context())
			attemptReq.Body = body
		}

		resp, err := t.send(attemptReq)
		switch {
		case err != nil:
			lastErr = err
		case isRetryableStatus(resp.StatusCode) && attempt < maxAttempts:
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("sheets status %d", resp.StatusCode)
		default:
			return resp, nil
		}

		if attempt < maxAttempts {
			if err := sleepCtx(req.Context(), t.backoff(attempt)); err != nil {
				return nil, err
			}
		}
	}
	return nil, lastErr
}

func (t *retryTransport) send(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.WaitTurn(req.Context()); err != nil {
			return nil, err
		}
	}
	return t.base.RoundTrip(req)
}

func jitteredBackoff(attempt int) time.Duration {
	return time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
