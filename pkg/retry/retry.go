// Package retry implements the explicit retry combinator the Design Notes
// call for in place of the source's decorator-based retry: retry(op, policy)
// where policy names max attempts, base delay, backoff factor, and which
// error kinds are worth retrying at all.
package retry

import (
	"context"
	"time"

	"flightcore/internal/apperr"
)

// Policy configures a retry combinator run (spec.md §5 "Deadlock avoidance").
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Factor      float64
	// Retryable decides whether an error is worth a further attempt. If nil,
	// apperr.Kind.Retryable is used.
	Retryable func(error) bool
}

// DefaultBookingPolicy matches spec.md §5: base 50ms, factor 2, up to 5
// tries, wrapping seat-allocation and confirmation transactions.
func DefaultBookingPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		BaseDelay:   50 * time.Millisecond,
		Factor:      2,
	}
}

// Do runs op, retrying per policy while ctx is not done and op's error is
// retryable. It returns the last error if every attempt is exhausted.
func Do(ctx context.Context, policy Policy, op func(ctx context.Context) error) error {
	retryable := policy.Retryable
	if retryable == nil {
		retryable = func(err error) bool {
			return apperr.KindOf(err).Retryable()
		}
	}

	delay := policy.BaseDelay
	var lastErr error

	attempts := policy.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == attempts || !retryable(err) {
			return lastErr
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * policy.Factor)
	}

	return lastErr
}
