package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type retryPolicy struct {
	attempts  int
	baseDelay time.Duration
	maxDelay  time.Duration
	sleeper   func(time.Duration)
}

func (c *Client) retryPolicy() retryPolicy {
	p := retryPolicy{
		attempts:  c.retryMaxAttempts,
		baseDelay: c.retryBaseDelay,
		maxDelay:  c.retryMaxDelay,
		sleeper:   c.sleeper,
	}
	if p.attempts <= 0 {
		p.attempts = 1
	}
	if p.maxDelay <= 0 {
		p.maxDelay = defaultRetryMaxDelay
	}
	return p
}

// withRetry runs fn until it succeeds, fails permanently, or the attempt
// budget is spent. Only timeouts, 408/429/5xx responses, and empty content are
// retried; context cancellation ends the loop immediately.
func withRetry(ctx context.Context, p retryPolicy, op string, fn func() (string, error)) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		content, err := fn()
		if err == nil {
			return content, nil
		}
		lastErr = err
		if attempt == p.attempts || ctx.Err() != nil {
			break
		}
		delay, retry := p.delayFor(err, attempt)
		if !retry {
			return "", err
		}
		if err := p.sleep(ctx, delay); err != nil {
			return "", err
		}
	}
	if p.attempts == 1 {
		return "", lastErr
	}
	return "", fmt.Errorf("%s: failed after %d attempts: %w", op, p.attempts, lastErr)
}

func (p retryPolicy) delayFor(err error, attempt int) (time.Duration, bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var empty *EmptyContentError
	if errors.As(err, &empty) {
		return p.backoff(attempt), true
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			if statusErr.RetryAfter > 0 {
				return min(statusErr.RetryAfter, p.maxDelay), true
			}
			return p.backoff(attempt), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return p.backoff(attempt), true
	}
	return 0, false
}

// backoff doubles the base delay per attempt: base, base*2, base*4, ...
func (p retryPolicy) backoff(attempt int) time.Duration {
	if p.baseDelay <= 0 {
		return 0
	}
	delay := p.baseDelay
	for i := 1; i < attempt; i++ {
		if delay >= p.maxDelay/2 {
			return p.maxDelay
		}
		delay *= 2
	}
	return min(delay, p.maxDelay)
}

func (p retryPolicy) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if p.sleeper != nil {
		p.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		if delay := time.Until(when); delay > 0 {
			return delay, true
		}
	}
	return 0, false
}
