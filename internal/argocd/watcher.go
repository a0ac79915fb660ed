package argocd

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/argoboot/internal/util/poll"
)

// Watcher drives the bounded sync and health waits of a rollout wave.
type Watcher struct {
	client   Client
	interval time.Duration
	progress func(description string, elapsed time.Duration)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithPollInterval sets the status poll interval.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.interval = d }
}

// WithProgress sets a callback invoked while a wait is in progress.
func WithProgress(fn func(description string, elapsed time.Duration)) WatcherOption {
	return func(w *Watcher) { w.progress = fn }
}

// NewWatcher creates a Watcher over the given client.
func NewWatcher(client Client, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		client:   client,
		interval: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WaitForSynced waits until the Application reports Synced. A fatal
// sync condition (comparison error, invalid spec, sync error) aborts
// the wait within one poll interval instead of running out the timeout.
// An Application that does not exist yet counts as pending: the
// app-of-apps controller may not have created it.
func (w *Watcher) WaitForSynced(ctx context.Context, ref AppRef, timeout time.Duration) error {
	probe := func(ctx context.Context) (bool, error) {
		state, err := w.client.GetApplication(ctx, ref)
		if err != nil {
			if IsNotFound(err) {
				return false, fmt.Errorf("application %s not created yet", ref)
			}
			// Transient read failure, keep polling.
			return false, err
		}

		if fatal := state.FatalConditions(); len(fatal) > 0 {
			return false, poll.Fatal(&TerminalError{
				Ref:        ref,
				Reason:     "sync failed with terminal condition",
				Conditions: fatal,
			})
		}

		return state.Sync == SyncSynced, nil
	}

	result := poll.Until(ctx, probe,
		poll.WithTimeout(timeout),
		poll.WithInterval(w.interval),
		poll.WithProgress(w.progress),
		poll.WithDescription(fmt.Sprintf("application %s sync", ref)),
	)

	switch result.Outcome {
	case poll.Succeeded:
		return nil
	case poll.FatalError:
		return result.Err
	case poll.Canceled:
		return fmt.Errorf("application %s sync wait canceled after %s: %w", ref, result.Elapsed.Round(time.Second), result.Err)
	default:
		if result.Err != nil {
			return fmt.Errorf("application %s not synced after %s: %w", ref, timeout, result.Err)
		}
		return fmt.Errorf("application %s not synced after %s", ref, timeout)
	}
}

// WaitForHealthy waits until the Application reports Healthy. Degraded
// aborts the wait within one poll interval; Progressing, Missing and
// Unknown keep waiting.
func (w *Watcher) WaitForHealthy(ctx context.Context, ref AppRef, timeout time.Duration) error {
	probe := func(ctx context.Context) (bool, error) {
		state, err := w.client.GetApplication(ctx, ref)
		if err != nil {
			if IsNotFound(err) {
				return false, fmt.Errorf("application %s not created yet", ref)
			}
			return false, err
		}

		if state.Health == HealthDegraded {
			return false, poll.Fatal(&TerminalError{
				Ref:        ref,
				Reason:     "health degraded",
				Conditions: state.Conditions,
			})
		}

		return state.Health == HealthHealthy, nil
	}

	result := poll.Until(ctx, probe,
		poll.WithTimeout(timeout),
		poll.WithInterval(w.interval),
		poll.WithProgress(w.progress),
		poll.WithDescription(fmt.Sprintf("application %s health", ref)),
	)

	switch result.Outcome {
	case poll.Succeeded:
		return nil
	case poll.FatalError:
		return result.Err
	case poll.Canceled:
		return fmt.Errorf("application %s health wait canceled after %s: %w", ref, result.Elapsed.Round(time.Second), result.Err)
	default:
		if result.Err != nil {
			return fmt.Errorf("application %s not healthy after %s: %w", ref, timeout, result.Err)
		}
		return fmt.Errorf("application %s not healthy after %s", ref, timeout)
	}
}
