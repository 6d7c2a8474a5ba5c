package modlate

import (
	"context"
	"errors"
	"time"

	"github.com/jpillora/backoff"
)

// RetryConfig bounds the retry behavior around provider calls.
type RetryConfig struct {
	MaxRetries int           // retries after the first attempt
	BaseDelay  time.Duration // initial backoff delay
	MaxDelay   time.Duration // backoff ceiling
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes fn with jittered exponential backoff. Only errors
// classified retryable by IsRetryable are retried; the rest fail
// immediately without consuming the retry budget.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var zero T

	b := &backoff.Backoff{
		Min:    cfg.BaseDelay,
		Max:    cfg.MaxDelay,
		Factor: 2,
		Jitter: true,
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) || attempt == cfg.MaxRetries {
			return zero, err
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(b.Duration()):
		}
	}
}

// IsRetryable reports whether an error is worth retrying. Only provider
// errors explicitly flagged retryable qualify; cancellation and request
// errors never do.
func IsRetryable(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr) && providerErr.Retryable
}
