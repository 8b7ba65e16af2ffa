package restapi

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 500 * time.Millisecond
)

// RetryConfig is a bounded, fixed-delay retry policy.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	// Retryable decides whether err is worth another attempt; nil retries
	// everything except not found and open circuits.
	Retryable func(error) bool
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: DefaultRetryAttempts, Delay: DefaultRetryDelay}
}

func (c RetryConfig) retryable(err error) bool {
	if c.Retryable != nil {
		return c.Retryable(err)
	}
	return !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrCircuitOpen)
}

// Retry runs fn until it succeeds, returns a non-retryable error, the context
// ends, or MaxAttempts is reached.
func Retry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := RetryWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func RetryWithResult[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	attempts := max(cfg.MaxAttempts, 1)
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !cfg.retryable(err) {
			return zero, err
		}

		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(cfg.Delay):
			}
		}
	}

	return zero, fmt.Errorf("max retries (%d) exceeded: %w", attempts, lastErr)
}
