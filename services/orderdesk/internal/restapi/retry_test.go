package restapi

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, Delay: time.Millisecond}

	t.Run("stopsAfterMaxAttempts", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := Retry(context.Background(), cfg, func() error {
			calls++
			return boom
		})
		if calls != 3 {
			t.Fatalf("expected 3 attempts, got %d", calls)
		}
		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
	})

	t.Run("returnsOnFirstSuccess", func(t *testing.T) {
		calls := 0
		got, err := RetryWithResult(context.Background(), cfg, func() (int, error) {
			calls++
			if calls < 2 {
				return 0, errors.New("transient")
			}
			return 42, nil
		})
		if err != nil || got != 42 {
			t.Fatalf("unexpected result %d, %v", got, err)
		}
		if calls != 2 {
			t.Fatalf("expected 2 attempts, got %d", calls)
		}
	})

	t.Run("doesNotRetryNotFound", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), cfg, func() error {
			calls++
			return fmt.Errorf("%w: order", ErrNotFound)
		})
		if calls != 1 {
			t.Fatalf("expected a single attempt, got %d", calls)
		}
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("honoursCancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := Retry(ctx, cfg, func() error {
			calls++
			return nil
		})
		if calls != 0 {
			t.Fatalf("expected no attempts, got %d", calls)
		}
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("customRetryable", func(t *testing.T) {
		calls := 0
		custom := cfg
		custom.Retryable = func(error) bool { return false }
		_ = Retry(context.Background(), custom, func() error {
			calls++
			return errors.New("fatal")
		})
		if calls != 1 {
			t.Fatalf("expected a single attempt, got %d", calls)
		}
	})
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "sentinel", err: ErrNotFound, want: true},
		{name: "statusCode", err: errors.New("request failed with status 404"), want: true},
		{name: "message", err: errors.New("Order Not Found"), want: true},
		{name: "other", err: errors.New("status 500"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Fatalf("IsNotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestLoadError(t *testing.T) {
	err := NewLoadError(errors.New("status 404"))
	if !err.NotFound {
		t.Fatal("expected not found classification")
	}

	generic := NewLoadError(errors.New("connection refused"))
	if generic.NotFound {
		t.Fatal("expected generic failure")
	}

	var target *LoadError
	if !errors.As(fmt.Errorf("wrapped: %w", generic), &target) {
		t.Fatal("expected errors.As to find LoadError")
	}
}
