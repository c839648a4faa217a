package errors

import (
	"context"
	"errors"
	"testing"
)

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("retries retryable errors", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			if calls < 3 {
				return NewDeliveryError("group", errors.New("timeout"))
			}
			return nil
		})
		if err != nil {
			t.Fatalf("expected nil error after retries, got %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
	})

	t.Run("does not retry validation errors", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			return NewValidationError("bad phone")
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		failure := NewDeliveryError("group", errors.New("down"))
		err := WithRetry(ctx, func() error {
			calls++
			return failure
		})
		if !errors.Is(err, failure) {
			t.Fatalf("expected final failure, got %v", err)
		}
		if calls != MaxRetries+1 {
			t.Errorf("expected %d calls, got %d", MaxRetries+1, calls)
		}
	})
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil error must not be retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors must not be retryable")
	}
	if !IsRetryable(NewStorageError(errors.New("redis down"))) {
		t.Error("storage errors must be retryable")
	}
	if IsRetryable(NewStateError("wrong state")) {
		t.Error("state errors must not be retryable")
	}
}
