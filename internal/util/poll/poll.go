// Package poll provides a bounded wait-until-true primitive over a
// boolean probe.
//
// Unlike the retry package, which handles transient operation failures
// with backoff, this package waits at a fixed interval for a condition
// that is expected to become true. A probe error is treated the same as
// "not yet true" unless the probe marks it fatal with [Fatal], in which
// case the wait short-circuits instead of running out the timeout.
package poll

import (
	"context"
	"errors"
	"time"
)

// Outcome classifies the result of a bounded wait.
type Outcome int

const (
	// Succeeded means the probe returned true within the timeout.
	Succeeded Outcome = iota
	// TimedOut means the probe never returned true within the timeout.
	TimedOut
	// FatalError means the probe reported a condition that can never
	// become true, and the wait stopped early.
	FatalError
	// Canceled means the context was canceled before the timeout, so
	// the budget was not exhausted.
	Canceled
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case TimedOut:
		return "timed out"
	case FatalError:
		return "fatal error"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Result is the outcome of one bounded wait.
type Result struct {
	Outcome Outcome
	// Elapsed is the wall-clock time spent waiting. On Succeeded it is
	// the time at which the probe first returned true.
	Elapsed time.Duration
	// Err carries the fatal probe error, the last probe error on
	// timeout, or the context error on cancellation.
	Err error
}

// Probe observes a condition. It must be idempotent and side-effect
// free. Returning an error is equivalent to returning false unless the
// error is wrapped with Fatal.
type Probe func(ctx context.Context) (bool, error)

// Config holds poll configuration.
type Config struct {
	Timeout          time.Duration
	Interval         time.Duration
	ProgressInterval time.Duration
	Progress         func(description string, elapsed time.Duration)
	Description      string
}

// Option is a functional option for poll configuration.
type Option func(*Config)

// WithTimeout sets the total wait budget.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithInterval sets the fixed sleep between probe invocations.
func WithInterval(d time.Duration) Option {
	return func(c *Config) { c.Interval = d }
}

// WithProgress sets a callback invoked at fixed elapsed-time boundaries
// (default every 60s) while waiting. It does not alter timing.
func WithProgress(fn func(description string, elapsed time.Duration)) Option {
	return func(c *Config) { c.Progress = fn }
}

// WithProgressInterval sets the boundary size for progress callbacks.
func WithProgressInterval(d time.Duration) Option {
	return func(c *Config) { c.ProgressInterval = d }
}

// WithDescription sets a human-readable name for the awaited condition,
// passed to the progress callback.
func WithDescription(desc string) Option {
	return func(c *Config) { c.Description = desc }
}

// Until repeatedly invokes the probe until it returns true, the timeout
// elapses, or the probe reports a fatal error. The probe is invoked
// immediately, then once per interval.
//
// The poller never retries past its own timeout budget; escalation is
// the caller's responsibility.
func Until(ctx context.Context, probe Probe, opts ...Option) Result {
	cfg := &Config{
		Timeout:          5 * time.Minute,
		Interval:         10 * time.Second,
		ProgressInterval: 60 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	start := time.Now()
	deadline := start.Add(cfg.Timeout)
	var lastErr error
	nextProgress := cfg.ProgressInterval

	for {
		ok, err := probe(ctx)
		if err != nil {
			if IsFatal(err) {
				return Result{Outcome: FatalError, Elapsed: time.Since(start), Err: err}
			}
			// Treated as condition-not-yet-true.
			lastErr = err
		}
		if ok && err == nil {
			return Result{Outcome: Succeeded, Elapsed: time.Since(start)}
		}

		now := time.Now()
		if !now.Before(deadline) {
			return Result{Outcome: TimedOut, Elapsed: time.Since(start), Err: lastErr}
		}

		// Never sleep past the deadline; the final probe runs at the
		// timeout boundary.
		sleep := cfg.Interval
		if remaining := deadline.Sub(now); remaining < sleep {
			sleep = remaining
		}

		select {
		case <-ctx.Done():
			return Result{Outcome: Canceled, Elapsed: time.Since(start), Err: ctx.Err()}
		case <-time.After(sleep):
		}

		if cfg.Progress != nil {
			for elapsed := time.Since(start); elapsed >= nextProgress; nextProgress += cfg.ProgressInterval {
				cfg.Progress(cfg.Description, elapsed)
			}
		}
	}
}

// FatalProbeError wraps a probe error to signal that the awaited
// condition can never become true.
type FatalProbeError struct {
	Err error
}

func (e *FatalProbeError) Error() string {
	return e.Err.Error()
}

func (e *FatalProbeError) Unwrap() error {
	return e.Err
}

// Fatal marks a probe error as fatal, short-circuiting the wait.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalProbeError{Err: err}
}

// IsFatal reports whether err is marked fatal.
func IsFatal(err error) bool {
	var fatalErr *FatalProbeError
	return errors.As(err, &fatalErr)
}
