package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config holds retry configuration.
type Config struct {
	Attempts     int
	InitialDelay time.Duration
	OnFailure    func(attempt int, err error)
}

// Option is a functional option for retry configuration.
type Option func(*Config)

// Do executes the operation with exponential backoff retry.
//
// The operation is invoked at most Attempts times. After each failed
// attempt (except the last) Do sleeps for the current delay and then
// doubles it. The delay sequence is deterministic: for N attempts with
// initial delay D the total sleep across all-failing attempts is
// D*(2^(N-1) - 1). There is no jitter and no delay cap.
//
// Errors wrapped with Fatal are not retried. Context cancellation is
// respected during sleeps.
func Do(ctx context.Context, operation func() error, opts ...Option) error {
	cfg := &Config{
		Attempts:     5,
		InitialDelay: 1 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if IsFatal(err) {
			return fmt.Errorf("fatal error (not retrying): %w", err)
		}

		// Report before sleeping so observers see progress between attempts.
		if cfg.OnFailure != nil {
			cfg.OnFailure(attempt, err)
		}

		if attempt < cfg.Attempts {
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled after %d attempts: %w", attempt, ctx.Err())
			case <-time.After(delay):
				delay *= 2
			}
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", cfg.Attempts, lastErr)
}

// WithAttempts sets the maximum number of attempts. Values below 1 are
// treated as 1.
func WithAttempts(n int) Option {
	return func(c *Config) {
		if n < 1 {
			n = 1
		}
		c.Attempts = n
	}
}

// WithInitialDelay sets the delay before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = d
	}
}

// WithOnFailure sets a callback invoked after each failed attempt,
// before the backoff sleep.
func WithOnFailure(fn func(attempt int, err error)) Option {
	return func(c *Config) {
		c.OnFailure = fn
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
// Operations that encounter fatal errors will not be retried.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether err is marked fatal.
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
