package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// recordingSleep returns a SleepFunc that records requested durations without waiting.
func recordingSleep(delays *[]time.Duration) SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
}

func TestPoll_Success(t *testing.T) {
	t.Parallel()
	var delays []time.Duration
	operation := func(_ context.Context, _ int) error {
		return nil
	}

	attempts, err := Poll(context.Background(), operation, WithSleep(recordingSleep(&delays)))

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got: %d", attempts)
	}
	if len(delays) != 0 {
		t.Errorf("Expected no waits, got: %v", delays)
	}
}

func TestPoll_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	var delays []time.Duration
	operation := func(_ context.Context, attempt int) error {
		if attempt < 3 {
			return Retryable(errors.New("out of capacity"))
		}
		return nil
	}

	attempts, err := Poll(context.Background(), operation,
		WithInterval(2*time.Minute),
		WithSleep(recordingSleep(&delays)))

	if err != nil {
		t.Errorf("Expected no error after retries, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got: %d", attempts)
	}
	if len(delays) != 2 {
		t.Fatalf("Expected 2 waits, got: %d", len(delays))
	}
	for i, d := range delays {
		if d != 2*time.Minute {
			t.Errorf("Wait %d: expected constant 2m, got %v", i+1, d)
		}
	}
}

func TestPoll_NonRetryableErrorStops(t *testing.T) {
	t.Parallel()
	sentinel := errors.New("connection refused")
	var delays []time.Duration
	operation := func(_ context.Context, _ int) error {
		return fmt.Errorf("dial: %w", sentinel)
	}

	attempts, err := Poll(context.Background(), operation, WithSleep(recordingSleep(&delays)))

	if !errors.Is(err, sentinel) {
		t.Errorf("Expected wrapped sentinel error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got: %d", attempts)
	}
	if len(delays) != 0 {
		t.Errorf("Expected no waits, got: %v", delays)
	}
}

func TestPoll_MaxAttempts(t *testing.T) {
	t.Parallel()
	var delays []time.Duration
	calls := 0
	operation := func(_ context.Context, _ int) error {
		calls++
		return Retryable(errors.New("too many requests"))
	}

	attempts, err := Poll(context.Background(), operation,
		WithMaxAttempts(4),
		WithSleep(recordingSleep(&delays)))

	if !errors.Is(err, ErrAttemptsExhausted) {
		t.Errorf("Expected ErrAttemptsExhausted, got: %v", err)
	}
	if attempts != 4 || calls != 4 {
		t.Errorf("Expected 4 attempts, got attempts=%d calls=%d", attempts, calls)
	}
	if len(delays) != 3 {
		t.Errorf("Expected 3 waits, got: %d", len(delays))
	}
}

func TestPoll_MaxElapsed(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	sleep := func(_ context.Context, d time.Duration) error {
		now = now.Add(d)
		return nil
	}
	operation := func(_ context.Context, _ int) error {
		return Retryable(errors.New("out of capacity"))
	}

	attempts, err := Poll(context.Background(), operation,
		WithInterval(time.Minute),
		WithMaxElapsed(3*time.Minute),
		WithClock(clock),
		WithSleep(sleep))

	if !errors.Is(err, ErrElapsedExhausted) {
		t.Errorf("Expected ErrElapsedExhausted, got: %v", err)
	}
	// Attempts at t=0,1m,2m,3m; the next wait would pass the 3m limit.
	if attempts != 4 {
		t.Errorf("Expected 4 attempts, got: %d", attempts)
	}
}

func TestPoll_ZeroIntervalDoesNotSpin(t *testing.T) {
	t.Parallel()
	calls := 0
	operation := func(_ context.Context, _ int) error {
		calls++
		if calls < 50 {
			return Retryable(errors.New("out of capacity"))
		}
		return nil
	}

	attempts, err := Poll(context.Background(), operation, WithInterval(0))

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if attempts != 50 {
		t.Errorf("Expected 50 attempts, got: %d", attempts)
	}
}

func TestPoll_ContextCancellation(t *testing.T) {
	t.Parallel()
	calls := 0
	operation := func(_ context.Context, _ int) error {
		calls++
		return Retryable(errors.New("out of capacity"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts, err := Poll(ctx, operation, WithInterval(10*time.Millisecond))

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled error, got: %v", err)
	}
	if attempts != 0 || calls != 0 {
		t.Errorf("Expected no attempts on a cancelled context, got attempts=%d calls=%d", attempts, calls)
	}
}

func TestPoll_CancelDuringWait(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	calls := 0
	operation := func(_ context.Context, _ int) error {
		calls++
		return Retryable(errors.New("out of capacity"))
	}

	start := time.Now()
	_, err := Poll(ctx, operation, WithInterval(time.Hour))

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 attempt before the wait was interrupted, got: %d", calls)
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("Wait was not interrupted by context deadline")
	}
}

func TestPoll_OnRetry(t *testing.T) {
	t.Parallel()
	var seen []int
	operation := func(_ context.Context, attempt int) error {
		if attempt < 3 {
			return Retryable(errors.New("out of capacity"))
		}
		return nil
	}

	_, err := Poll(context.Background(), operation,
		WithInterval(0),
		WithOnRetry(func(attempt int, _ error, _ time.Duration) {
			seen = append(seen, attempt)
		}))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("Expected OnRetry for attempts [1 2], got: %v", seen)
	}
}

func TestRetryable(t *testing.T) {
	t.Run("Nil error", func(t *testing.T) {
		if err := Retryable(nil); err != nil {
			t.Errorf("Expected nil, got: %v", err)
		}
	})

	t.Run("Non-nil error", func(t *testing.T) {
		originalErr := errors.New("test error")
		err := Retryable(originalErr)

		if !IsRetryable(err) {
			t.Error("Expected error to be retryable")
		}
		if err.Error() != originalErr.Error() {
			t.Errorf("Expected error message %q, got %q", originalErr.Error(), err.Error())
		}
		if !errors.Is(err, originalErr) {
			t.Error("Expected retryable error to unwrap to the original")
		}
	})
}

func TestIsRetryable(t *testing.T) {
	t.Run("Plain error", func(t *testing.T) {
		if IsRetryable(errors.New("regular error")) {
			t.Error("Expected plain error to be non-retryable")
		}
	})

	t.Run("Wrapped retryable error", func(t *testing.T) {
		err := fmt.Errorf("attempt 3: %w", Retryable(errors.New("base error")))
		if !IsRetryable(err) {
			t.Error("Expected wrapped retryable error to be detected")
		}
	})
}

func TestContextSleep(t *testing.T) {
	t.Parallel()

	t.Run("zero duration returns immediately", func(t *testing.T) {
		if err := ContextSleep(context.Background(), 0); err != nil {
			t.Errorf("Expected nil, got: %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := ContextSleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got: %v", err)
		}
	})
}
