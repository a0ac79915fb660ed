package rollout

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/argoboot/internal/argocd"
	"github.com/imamik/argoboot/internal/config"
	"github.com/imamik/argoboot/internal/k8s"
	"github.com/imamik/argoboot/internal/util/poll"
)

// Probe is one post-health verification check for a wave.
type Probe struct {
	Name    string
	Timeout time.Duration
	Fn      poll.Probe
}

// WaveSpec describes one ordered sync wave: the Application to watch,
// its wait budgets, and the verification probes run after it reports
// healthy.
type WaveSpec struct {
	App           argocd.AppRef
	Namespace     string
	SyncTimeout   time.Duration
	HealthTimeout time.Duration
	Probes        []Probe
}

// BuildWaves translates the configured waves into WaveSpecs with the
// verification probes bound to the cluster client. Zero timeouts fall
// back to the global defaults.
func BuildWaves(cfg *config.Config, client k8s.Interface, timeouts *config.Timeouts) ([]WaveSpec, error) {
	namespace := cfg.ArgoCD.Namespace
	waves := make([]WaveSpec, 0, len(cfg.Waves))

	for _, wc := range cfg.Waves {
		wave := WaveSpec{
			App:           argocd.AppRef{Name: wc.Name, Namespace: namespace},
			Namespace:     wc.Namespace,
			SyncTimeout:   durationOr(wc.SyncTimeout, timeouts.Sync),
			HealthTimeout: durationOr(wc.HealthTimeout, timeouts.Health),
		}

		for _, pc := range wc.Probes {
			probe, err := buildProbe(pc, client, timeouts.Probe)
			if err != nil {
				return nil, fmt.Errorf("wave %s: %w", wc.Name, err)
			}
			wave.Probes = append(wave.Probes, probe)
		}

		waves = append(waves, wave)
	}

	return waves, nil
}

func buildProbe(pc config.ProbeConfig, client k8s.Interface, defaultTimeout time.Duration) (Probe, error) {
	probe := Probe{
		Name:    fmt.Sprintf("%s %s", pc.Type, pc.Name),
		Timeout: durationOr(pc.Timeout, defaultTimeout),
	}

	switch pc.Type {
	case config.ProbeCRDEstablished:
		name := pc.Name
		probe.Fn = func(ctx context.Context) (bool, error) {
			return client.HasCRD(ctx, name)
		}
	case config.ProbeDeploymentAvailable:
		namespace, name := pc.Namespace, pc.Name
		probe.Fn = func(ctx context.Context) (bool, error) {
			return client.DeploymentAvailable(ctx, namespace, name)
		}
	case config.ProbeDaemonSetRolledOut:
		namespace, name := pc.Namespace, pc.Name
		probe.Fn = func(ctx context.Context) (bool, error) {
			return client.DaemonSetRolledOut(ctx, namespace, name)
		}
	case config.ProbeEndpointsReady:
		namespace, name := pc.Namespace, pc.Name
		probe.Fn = func(ctx context.Context) (bool, error) {
			return client.ServiceHasEndpoints(ctx, namespace, name)
		}
	default:
		return Probe{}, fmt.Errorf("unknown probe type %q", pc.Type)
	}

	return probe, nil
}

func durationOr(d config.Duration, fallback time.Duration) time.Duration {
	if d.Std() > 0 {
		return d.Std()
	}
	return fallback
}
