package rollout

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/argoboot/internal/argocd"
	"github.com/imamik/argoboot/internal/platform/minikube"
	"github.com/imamik/argoboot/internal/util/poll"
	"github.com/imamik/argoboot/internal/util/retry"
)

// Orchestrator drives the rollout stages strictly in order. The first
// failure aborts the run; later stages are never touched.
type Orchestrator struct {
	ctx   *Context
	waves []WaveSpec
}

// New creates an Orchestrator over the given context.
func New(ctx *Context) *Orchestrator {
	return &Orchestrator{ctx: ctx}
}

// Waves returns the wave specs built during the run, for the cleanup
// controller. Empty until the controller install stage connects the
// cluster clients.
func (o *Orchestrator) Waves() []WaveSpec {
	return o.waves
}

// Run executes the full rollout. Every terminal failure is a *Error
// carrying the failed stage and exit code.
func (o *Orchestrator) Run() error {
	start := time.Now()
	o.ctx.Observer.Printf("Starting rollout for profile %q with %d waves...",
		o.ctx.Config.Profile, len(o.ctx.Config.Waves))

	stages := []struct {
		name string
		run  func() error
	}{
		{"cluster", o.ensureCluster},
		{"controller", o.installController},
		{"credentials", o.provisionSecrets},
		{"root-application", o.applyRoot},
		{"waves", o.runWaves},
	}

	for _, stage := range stages {
		stageStart := time.Now()
		logStageStart(o.ctx.Observer, stage.name)

		if err := stage.run(); err != nil {
			logStageFailed(o.ctx.Observer, stage.name, err)
			return err
		}

		logStageComplete(o.ctx.Observer, stage.name, time.Since(stageStart))
	}

	if err := o.ctx.Tracker.Advance(StageVerified); err != nil {
		return newError(StageVerified, ExitVerification, err)
	}

	o.ctx.Observer.Printf("Rollout completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

// ensureCluster brings the minikube profile to Running and waits for
// the API server to answer.
func (o *Orchestrator) ensureCluster() error {
	cfg := o.ctx.Config

	status, err := o.ctx.Cluster.Status(o.ctx, cfg.Profile)
	if err != nil {
		return newError(StageClusterReady, ExitClusterCreate,
			fmt.Errorf("failed to determine cluster status: %w", err))
	}

	switch status {
	case minikube.StatusAbsent:
		o.ctx.Observer.Printf("Creating cluster %q (%d CPUs, %d MB)...",
			cfg.Profile, cfg.Cluster.CPUs, cfg.Cluster.MemoryMB)
		err := o.ctx.Cluster.Create(o.ctx, cfg.Profile, minikube.CreateOpts{
			CPUs:     cfg.Cluster.CPUs,
			MemoryMB: cfg.Cluster.MemoryMB,
			Driver:   cfg.Cluster.Driver,
		})
		if err != nil {
			return newError(StageClusterReady, ExitClusterCreate, err)
		}
	case minikube.StatusStopped:
		o.ctx.Observer.Printf("Starting stopped cluster %q...", cfg.Profile)
		if err := o.ctx.Cluster.Start(o.ctx, cfg.Profile); err != nil {
			return newError(StageClusterReady, ExitClusterStart, err)
		}
	case minikube.StatusRunning:
		o.ctx.Observer.Printf("Cluster %q already running", cfg.Profile)
	default:
		return newError(StageClusterReady, ExitClusterCreate,
			fmt.Errorf("cluster %q in unexpected state %s", cfg.Profile, status))
	}

	k8sClient, appClient, err := o.ctx.ConnectK8s(cfg.Profile)
	if err != nil {
		return newError(StageClusterReady, ExitClusterReadiness,
			fmt.Errorf("failed to connect to cluster: %w", err))
	}
	o.ctx.K8s = k8sClient
	o.ctx.Apps = appClient

	result := poll.Until(o.ctx, func(ctx context.Context) (bool, error) {
		return o.ctx.K8s.Ping(ctx)
	},
		poll.WithTimeout(o.ctx.Timeouts.ClusterReady),
		poll.WithInterval(o.ctx.Timeouts.PollInterval),
		poll.WithProgress(o.ctx.Observer.Progress),
		poll.WithDescription("API server reachability"),
	)
	if result.Outcome == poll.Canceled {
		return newError(StageClusterReady, ExitClusterReadiness,
			fmt.Errorf("API server reachability wait canceled: %w", result.Err))
	}
	if result.Outcome != poll.Succeeded {
		return newError(StageClusterReady, ExitClusterReadiness,
			fmt.Errorf("API server not reachable after %s: %w", o.ctx.Timeouts.ClusterReady, result.Err))
	}

	if err := o.ctx.Tracker.Advance(StageClusterReady); err != nil {
		return newError(StageClusterReady, ExitClusterReadiness, err)
	}
	return nil
}

// installController renders and applies the Argo CD chart, then waits
// for its core deployments.
func (o *Orchestrator) installController() error {
	cfg := o.ctx.Config

	chart := argocd.DefaultChartSpec
	if cfg.ArgoCD.ChartRepository != "" {
		chart.Repository = cfg.ArgoCD.ChartRepository
	}
	if cfg.ArgoCD.Chart != "" {
		chart.Name = cfg.ArgoCD.Chart
	}
	if cfg.ArgoCD.ChartVersion != "" {
		chart.Version = cfg.ArgoCD.ChartVersion
	}

	err := o.ctx.InstallController(o.ctx, o.ctx.K8s, argocd.InstallOptions{
		Namespace: cfg.ArgoCD.Namespace,
		Chart:     chart,
	})
	if err != nil {
		return newError(StageControllerInstalled, ExitControllerInstall, err)
	}

	// The chart installs the Application CRDs; the mapper has to see
	// them before the root application can be applied.
	if refresher, ok := o.ctx.K8s.(discoveryRefresher); ok {
		if err := refresher.RefreshDiscovery(o.ctx); err != nil {
			return newError(StageControllerInstalled, ExitControllerInstall, err)
		}
	}

	for _, deployment := range argocd.CoreDeployments(chart.Name) {
		name := deployment
		result := poll.Until(o.ctx, func(ctx context.Context) (bool, error) {
			return o.ctx.K8s.DeploymentAvailable(ctx, cfg.ArgoCD.Namespace, name)
		},
			poll.WithTimeout(o.ctx.Timeouts.ControllerReady),
			poll.WithInterval(o.ctx.Timeouts.PollInterval),
			poll.WithProgress(o.ctx.Observer.Progress),
			poll.WithDescription(fmt.Sprintf("deployment %s availability", name)),
		)
		if result.Outcome == poll.Canceled {
			return newError(StageControllerInstalled, ExitControllerReadiness,
				fmt.Errorf("deployment %s availability wait canceled: %w", name, result.Err))
		}
		if result.Outcome != poll.Succeeded {
			return newError(StageControllerInstalled, ExitControllerReadiness,
				fmt.Errorf("deployment %s not available after %s", name, o.ctx.Timeouts.ControllerReady))
		}
	}

	if err := o.ctx.Tracker.Advance(StageControllerInstalled); err != nil {
		return newError(StageControllerInstalled, ExitControllerReadiness, err)
	}
	return nil
}

type discoveryRefresher interface {
	RefreshDiscovery(ctx context.Context) error
}

// provisionSecrets creates the repository credential secret and
// retrieves the initial admin password.
func (o *Orchestrator) provisionSecrets() error {
	cfg := o.ctx.Config

	secret := argocd.RepoCredentialSecret(
		cfg.ArgoCD.Namespace,
		"repo-"+cfg.Root.Name,
		cfg.Repo.URL,
		cfg.Repo.Username,
		o.ctx.State.RepoToken,
	)

	err := retry.Do(o.ctx, func() error {
		return o.ctx.K8s.CreateSecret(o.ctx, secret)
	},
		retry.WithAttempts(o.ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(o.ctx.Timeouts.RetryInitialDelay),
		retry.WithOnFailure(func(attempt int, err error) {
			o.ctx.Observer.Printf("repository secret attempt %d failed: %v", attempt, err)
		}),
	)
	if err != nil {
		return newError(StageSecretProvisioned, ExitSecretCreation,
			fmt.Errorf("failed to create repository secret: %w", err))
	}

	password, err := argocd.AdminPassword(o.ctx, o.ctx.K8s, cfg.ArgoCD.Namespace,
		retry.WithAttempts(o.ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(o.ctx.Timeouts.RetryInitialDelay),
	)
	if err != nil {
		return newError(StageSecretProvisioned, ExitSecretCreation, err)
	}
	o.ctx.State.AdminPassword = password

	if err := o.ctx.Tracker.Advance(StageSecretProvisioned); err != nil {
		return newError(StageSecretProvisioned, ExitSecretCreation, err)
	}
	return nil
}

// applyRoot applies the root app-of-apps Application.
func (o *Orchestrator) applyRoot() error {
	cfg := o.ctx.Config

	manifest, err := argocd.RootApplication(
		argocd.AppRef{Name: cfg.Root.Name, Namespace: cfg.ArgoCD.Namespace},
		cfg.Repo.URL,
		cfg.Root.Path,
		cfg.Root.Revision,
	)
	if err != nil {
		return newError(StageRootApplied, ExitResourceApplication, err)
	}

	err = retry.Do(o.ctx, func() error {
		return o.ctx.K8s.ApplyManifests(o.ctx, manifest, "argoboot")
	},
		retry.WithAttempts(o.ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(o.ctx.Timeouts.RetryInitialDelay),
		retry.WithOnFailure(func(attempt int, err error) {
			o.ctx.Observer.Printf("root application apply attempt %d failed: %v", attempt, err)
		}),
	)
	if err != nil {
		return newError(StageRootApplied, ExitResourceApplication,
			fmt.Errorf("failed to apply root application: %w", err))
	}

	if err := o.ctx.Tracker.Advance(StageRootApplied); err != nil {
		return newError(StageRootApplied, ExitResourceApplication, err)
	}
	return nil
}

// runWaves drives each wave strictly in order: sync, health, then the
// verification probes. The first failing wave aborts the run.
func (o *Orchestrator) runWaves() error {
	waves, err := BuildWaves(o.ctx.Config, o.ctx.K8s, o.ctx.Timeouts)
	if err != nil {
		return newError(StageRootApplied, ExitResourceApplication, err)
	}
	o.waves = waves

	watcher := argocd.NewWatcher(o.ctx.Apps,
		argocd.WithPollInterval(o.ctx.Timeouts.PollInterval),
		argocd.WithProgress(o.ctx.Observer.Progress),
	)

	for i, wave := range waves {
		observer := o.ctx.Observer.WithFields(map[string]string{"wave": wave.App.Name})
		stage := WaveStage(i)

		if err := watcher.WaitForSynced(o.ctx, wave.App, wave.SyncTimeout); err != nil {
			return newError(stage, ExitWaveSync, err)
		}
		observer.Event(Event{Type: EventWaveSynced, Stage: stage.String(), Message: "synced"})

		if err := watcher.WaitForHealthy(o.ctx, wave.App, wave.HealthTimeout); err != nil {
			return newError(stage, ExitWaveHealth, err)
		}
		observer.Event(Event{Type: EventWaveHealthy, Stage: stage.String(), Message: "healthy"})

		if err := o.runProbes(wave, observer); err != nil {
			return newError(stage, ExitVerification, err)
		}
		observer.Event(Event{Type: EventWaveVerified, Stage: stage.String(), Message: "verified"})

		if err := o.ctx.Tracker.Advance(stage); err != nil {
			return newError(stage, ExitVerification, err)
		}
	}

	return nil
}

// runProbes runs a wave's verification probes sequentially, each with
// its own timeout. The first failure aborts the wave.
func (o *Orchestrator) runProbes(wave WaveSpec, observer Observer) error {
	for _, probe := range wave.Probes {
		result := poll.Until(o.ctx, probe.Fn,
			poll.WithTimeout(probe.Timeout),
			poll.WithInterval(o.ctx.Timeouts.PollInterval),
			poll.WithProgress(observer.Progress),
			poll.WithDescription(probe.Name),
		)
		if result.Outcome != poll.Succeeded {
			if result.Outcome == poll.Canceled {
				return fmt.Errorf("probe %s canceled after %s: %w", probe.Name, result.Elapsed.Round(time.Millisecond), result.Err)
			}
			if result.Err != nil {
				return fmt.Errorf("probe %s failed after %s: %w", probe.Name, result.Elapsed.Round(time.Millisecond), result.Err)
			}
			return fmt.Errorf("probe %s not satisfied after %s", probe.Name, probe.Timeout)
		}
	}
	return nil
}
