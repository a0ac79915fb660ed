package rollout

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/imamik/argoboot/internal/argocd"
)

// Cleaner is the stage-scoped failure handler. It runs on every
// non-success exit path and derives what it may delete from the
// highest stage the tracker recorded.
type Cleaner struct {
	ctx   *Context
	waves []WaveSpec

	// confirm gates cluster deletion. Replaceable in tests.
	confirm func(title string) bool
}

// NewCleaner creates a Cleaner for the given run.
func NewCleaner(ctx *Context, waves []WaveSpec) *Cleaner {
	return &Cleaner{
		ctx:     ctx,
		waves:   waves,
		confirm: ttyConfirm,
	}
}

// Run reports the failure and performs stage-scoped cleanup. Deletions
// are best-effort: failures are logged, never escalated. The caller
// guarantees Run is invoked at most once per process.
func (c *Cleaner) Run(runErr error) {
	c.reportFailure(runErr)

	if !c.ctx.Config.Cleanup {
		c.printManualInstructions()
		return
	}

	// The run context is usually already dead here (interrupt, overall
	// deadline); deletions get their own bounded context so an aborted
	// run can still be cleaned up.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.ctx), c.ctx.Timeouts.Total)
	defer cancel()

	stage := c.ctx.Tracker.Current()

	// A failure during cluster provisioning itself leaves nothing worth
	// keeping; delete the cluster whole. From the controller install
	// onward the cluster may hold prior work, so its deletion is gated
	// behind the confirmation below.
	if stage < StageClusterReady {
		c.deleteCluster(ctx, false)
		return
	}

	c.deleteApplications(ctx)
	c.deleteNamespaces(ctx)
	c.deleteCluster(ctx, true)
}

// reportFailure prints the failed stage, the error, and any Argo CD
// conditions carried by it.
func (c *Cleaner) reportFailure(runErr error) {
	observer := c.ctx.Observer

	var rerr *Error
	if errors.As(runErr, &rerr) {
		observer.Printf("Rollout failed at stage %s (exit code %d): %v", rerr.Stage, rerr.Code, rerr.Err)
		for _, condition := range rerr.Conditions {
			observer.Printf("  condition %s: %s", condition.Type, condition.Message)
		}
		return
	}

	observer.Printf("Rollout failed: %v", runErr)
}

// printManualInstructions tells the user what to remove by hand when
// automatic cleanup is disabled.
func (c *Cleaner) printManualInstructions() {
	observer := c.ctx.Observer
	profile := c.ctx.Config.Profile

	observer.Printf("Automatic cleanup is disabled. To clean up manually:")
	observer.Printf("  minikube delete -p %s", profile)
	if c.ctx.Tracker.Current() >= StageControllerInstalled {
		observer.Printf("or, to keep the cluster, remove the rollout resources:")
		for _, wave := range c.waves {
			observer.Printf("  kubectl delete application -n %s %s", wave.App.Namespace, wave.App.Name)
			if wave.Namespace != "" {
				observer.Printf("  kubectl delete namespace %s", wave.Namespace)
			}
		}
	}
}

// deleteApplications removes the root and wave Applications best-effort.
func (c *Cleaner) deleteApplications(ctx context.Context) {
	if c.ctx.Apps == nil {
		return
	}

	cfg := c.ctx.Config
	refs := make([]argocd.AppRef, 0, len(c.waves)+1)
	refs = append(refs, argocd.AppRef{Name: cfg.Root.Name, Namespace: cfg.ArgoCD.Namespace})
	for _, wave := range c.waves {
		refs = append(refs, wave.App)
	}

	for _, ref := range refs {
		c.ctx.Observer.Event(Event{Type: EventResourceDeleting, Resource: ref.String(), Message: "deleting application"})

		if err := c.ctx.Apps.DeleteApplication(ctx, ref, c.ctx.Timeouts.Delete); err != nil {
			c.ctx.Observer.Event(Event{
				Type:     EventResourceDeleteFailed,
				Resource: ref.String(),
				Message:  fmt.Sprintf("failed to delete application: %v", err),
			})
			continue
		}
		c.ctx.Observer.Event(Event{Type: EventResourceDeleted, Resource: ref.String(), Message: "application deleted"})
	}
}

// deleteNamespaces removes the wave-owned namespaces best-effort.
func (c *Cleaner) deleteNamespaces(ctx context.Context) {
	if c.ctx.K8s == nil {
		return
	}

	for _, wave := range c.waves {
		if wave.Namespace == "" {
			continue
		}
		c.ctx.Observer.Event(Event{Type: EventResourceDeleting, Resource: wave.Namespace, Message: "deleting namespace"})

		if err := c.ctx.K8s.DeleteNamespace(ctx, wave.Namespace, c.ctx.Timeouts.Delete); err != nil {
			c.ctx.Observer.Event(Event{
				Type:     EventResourceDeleteFailed,
				Resource: wave.Namespace,
				Message:  fmt.Sprintf("failed to delete namespace: %v", err),
			})
			continue
		}
		c.ctx.Observer.Event(Event{Type: EventResourceDeleted, Resource: wave.Namespace, Message: "namespace deleted"})
	}
}

// deleteCluster removes the minikube profile, optionally behind an
// interactive confirmation.
func (c *Cleaner) deleteCluster(ctx context.Context, askFirst bool) {
	profile := c.ctx.Config.Profile

	if askFirst {
		title := fmt.Sprintf("Delete cluster %q as well?", profile)
		if !c.confirm(title) {
			c.ctx.Observer.Printf("Keeping cluster %q", profile)
			return
		}
	}

	c.ctx.Observer.Event(Event{Type: EventResourceDeleting, Resource: profile, Message: "deleting cluster"})
	if err := c.ctx.Cluster.Delete(ctx, profile); err != nil {
		c.ctx.Observer.Event(Event{
			Type:     EventResourceDeleteFailed,
			Resource: profile,
			Message:  fmt.Sprintf("failed to delete cluster: %v", err),
		})
		return
	}
	c.ctx.Observer.Event(Event{Type: EventResourceDeleted, Resource: profile, Message: "cluster deleted"})
}

// Destroy tears down the cluster behind a confirmation. Used by the
// destroy command.
func (c *Cleaner) Destroy() error {
	profile := c.ctx.Config.Profile

	if !c.confirm(fmt.Sprintf("Delete cluster %q and everything in it?", profile)) {
		return fmt.Errorf("aborted")
	}

	if err := c.ctx.Cluster.Delete(c.ctx, profile); err != nil {
		return fmt.Errorf("failed to delete cluster %q: %w", profile, err)
	}
	c.ctx.Observer.Printf("Cluster %q deleted", profile)
	return nil
}

// ttyConfirm shows an interactive confirmation. A non-TTY stdout means
// nobody can answer, so the answer is "no".
func ttyConfirm(title string) bool {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return false
	}

	var confirmed bool
	prompt := huh.NewConfirm().
		Title(title).
		Affirmative("Delete").
		Negative("Keep").
		Value(&confirmed)

	if err := prompt.Run(); err != nil {
		return false
	}
	return confirmed
}
