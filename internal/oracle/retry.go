package oracle

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// RetryPolicy controls how often a failed oracle call is repeated. Only
// errors marked Retryable are repeated.
type RetryPolicy struct {
	// MaxRetries is the number of extra attempts after the first.
	MaxRetries int

	// Backoff is the delay before the first retry; it doubles per retry.
	Backoff time.Duration
}

// NoRetry runs an operation exactly once.
var NoRetry = RetryPolicy{}

// Retry runs fn under policy p and returns its last result together with
// the number of attempts made.
func Retry[T any](ctx context.Context, p RetryPolicy, op string, fn func(context.Context) (T, error)) (T, int, error) {
	var (
		zero    T
		lastErr error
	)

	attempts := 0
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := p.Backoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return zero, attempts, ctx.Err()
			case <-time.After(backoff):
			}
		}

		attempts++
		out, err := fn(ctx)
		if err == nil {
			return out, attempts, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || !IsRetryable(err) {
			return zero, attempts, err
		}
		if attempt < p.MaxRetries {
			slog.Warn("oracle call failed, retrying",
				slog.String("op", op),
				slog.Int("attempt", attempt+1),
				slog.Int("max_retries", p.MaxRetries),
				slog.String("error", err.Error()),
			)
		}
	}
	return zero, attempts, lastErr
}
