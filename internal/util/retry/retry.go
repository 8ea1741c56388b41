package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAttemptsExhausted is returned when the attempt guard stops polling.
	ErrAttemptsExhausted = errors.New("maximum attempts reached")
	// ErrElapsedExhausted is returned when the elapsed-time guard stops polling.
	ErrElapsedExhausted = errors.New("maximum duration reached")
)

// SleepFunc blocks for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config holds polling configuration.
type Config struct {
	Interval    time.Duration // Constant wait between attempts
	MaxAttempts int           // Zero means unbounded
	MaxElapsed  time.Duration // Zero means unbounded
	Sleep       SleepFunc
	Now         func() time.Time
	OnRetry     func(attempt int, err error, wait time.Duration)
}

// Option is a functional option for polling configuration.
type Option func(*Config)

// Poll runs operation until it returns nil or an error that is not retryable.
// The attempt number passed to operation starts at 1. Poll returns the number of
// attempts made together with the final error, if any.
//
// Only errors wrapped with Retryable() trigger another attempt. Any other error is
// returned unchanged so callers can inspect it with errors.As. Context cancellation
// is respected both before each attempt and while waiting.
func Poll(ctx context.Context, operation func(ctx context.Context, attempt int) error, opts ...Option) (int, error) {
	cfg := &Config{
		Interval: 2 * time.Minute,
		Sleep:    ContextSleep,
		Now:      time.Now,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	start := cfg.Now()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, fmt.Errorf("context cancelled after %d attempts: %w", attempt-1, err)
		}

		err := operation(ctx, attempt)
		if err == nil {
			return attempt, nil
		}

		if !IsRetryable(err) {
			return attempt, err
		}

		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			return attempt, fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, attempt, err)
		}

		if cfg.MaxElapsed > 0 && cfg.Now().Sub(start)+cfg.Interval > cfg.MaxElapsed {
			return attempt, fmt.Errorf("%w (%v) after %d attempts: %w", ErrElapsedExhausted, cfg.MaxElapsed, attempt, err)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, cfg.Interval)
		}

		if err := cfg.Sleep(ctx, cfg.Interval); err != nil {
			return attempt, fmt.Errorf("context cancelled after %d attempts: %w", attempt, err)
		}
	}
}

// ContextSleep is the default SleepFunc. A non-positive duration returns at once.
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WithInterval sets the constant wait between attempts.
func WithInterval(d time.Duration) Option {
	return func(c *Config) {
		c.Interval = d
	}
}

// WithMaxAttempts bounds the number of attempts. Zero disables the guard.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithMaxElapsed bounds the total polling time. Zero disables the guard.
func WithMaxElapsed(d time.Duration) Option {
	return func(c *Config) {
		c.MaxElapsed = d
	}
}

// WithSleep replaces the wait implementation.
func WithSleep(fn SleepFunc) Option {
	return func(c *Config) {
		c.Sleep = fn
	}
}

// WithClock replaces the time source used by the elapsed-time guard.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// WithOnRetry registers a callback invoked before each wait.
func WithOnRetry(fn func(attempt int, err error, wait time.Duration)) Option {
	return func(c *Config) {
		c.OnRetry = fn
	}
}

// RetryableError wraps an error to mark it as retryable.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Retryable marks an error as retryable.
// Poll waits and tries again only for errors marked this way.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable checks if an error is marked retryable.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}
