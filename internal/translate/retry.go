package translate

import (
	"context"
	"time"
)

// RetryPolicy retries an operation with a configurable backoff. It lives
// at the API-client boundary so the paragraph and redistribution logic
// stays free of retry loops.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// ExponentialBackoff returns 1s, 2s, 4s, ... for attempts 0, 1, 2, ...
func ExponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// DefaultRetryPolicy retries three times with exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: ExponentialBackoff}
}

// Do runs fn up to MaxAttempts times, sleeping Backoff(attempt) between
// attempts and honoring context cancellation.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}

		if attempt < attempts-1 && p.Backoff != nil {
			timer := time.NewTimer(p.Backoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return lastErr
}
