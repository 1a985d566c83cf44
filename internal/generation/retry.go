package generation

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy describes a bounded retry schedule with exponential backoff.
// It is a plain value so the schedule can be configured and tested apart
// from any particular call.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// DefaultRetryPolicy matches the production schedule: three attempts,
// one second before the second attempt, doubling after that.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	BaseDelay:   time.Second,
	Multiplier:  2.0,
}

// Delay returns the backoff before the given attempt (1-based). There is no
// delay before the first attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	d := float64(p.BaseDelay)
	for i := 2; i < attempt; i++ {
		d *= p.Multiplier
	}
	return time.Duration(d)
}

// Retry runs fn under the policy, sleeping the scheduled backoff between
// attempts. It stops early when the context is done and wraps the final
// failure in ErrRetryExhausted.
func Retry[T any](ctx context.Context, policy RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if delay := policy.Delay(attempt); delay > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, attempts, lastErr)
}
