package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxWaves bounds the number of configured waves. The stage ordering
// reserves a contiguous range for wave stages; see internal/rollout.
const MaxWaves = 64

// Duration wraps time.Duration with YAML unmarshalling from strings
// like "5m" or "90s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the top-level rollout configuration.
type Config struct {
	// Profile names the minikube profile hosting the rollout.
	Profile string `yaml:"profile"`

	Cluster ClusterConfig `yaml:"cluster"`
	ArgoCD  ArgoCDConfig  `yaml:"argocd"`
	Repo    RepoConfig    `yaml:"repo"`
	Root    RootAppConfig `yaml:"rootApp"`
	Waves   []WaveConfig  `yaml:"waves"`

	// Cleanup enables automatic resource deletion on failure. When
	// false, failures print manual cleanup instructions instead.
	Cleanup bool `yaml:"cleanup"`
}

// ClusterConfig describes the minikube cluster to provision.
type ClusterConfig struct {
	CPUs     int    `yaml:"cpus"`
	MemoryMB int    `yaml:"memoryMB"`
	Driver   string `yaml:"driver"`
}

// ArgoCDConfig describes the GitOps controller install.
type ArgoCDConfig struct {
	Namespace       string `yaml:"namespace"`
	ChartRepository string `yaml:"chartRepository"`
	Chart           string `yaml:"chart"`
	ChartVersion    string `yaml:"chartVersion"`
}

// RepoConfig describes the Git repository Argo CD pulls from.
type RepoConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`

	// TokenEnv names the environment variable holding the repository
	// token. The token never appears in the config file itself.
	TokenEnv string `yaml:"tokenEnv"`

	// SkipTokenValidation lets the user override the token format check
	// (for registries or forges with non-standard token shapes).
	SkipTokenValidation bool `yaml:"skipTokenValidation"`
}

// RootAppConfig describes the root app-of-apps Application.
type RootAppConfig struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	Revision string `yaml:"revision"`
}

// WaveConfig describes one ordered sync wave.
type WaveConfig struct {
	// Name is the Argo CD Application name for this wave.
	Name string `yaml:"name"`

	// Namespace is the namespace owned by this wave's resources,
	// deleted during cleanup. Empty means the wave owns no namespace.
	Namespace string `yaml:"namespace"`

	// SyncTimeout and HealthTimeout override the global defaults for
	// this wave when non-zero.
	SyncTimeout   Duration `yaml:"syncTimeout"`
	HealthTimeout Duration `yaml:"healthTimeout"`

	Probes []ProbeConfig `yaml:"probes"`
}

// ProbeType identifies a verification probe kind.
type ProbeType string

const (
	// ProbeCRDEstablished waits for a CustomResourceDefinition to be
	// registered and established.
	ProbeCRDEstablished ProbeType = "crd-established"
	// ProbeDeploymentAvailable waits for a Deployment to have all
	// replicas available.
	ProbeDeploymentAvailable ProbeType = "deployment-available"
	// ProbeDaemonSetRolledOut waits for a DaemonSet to have
	// ready == desired with desired > 0.
	ProbeDaemonSetRolledOut ProbeType = "daemonset-rolledout"
	// ProbeEndpointsReady waits for a Service to have at least one
	// ready endpoint.
	ProbeEndpointsReady ProbeType = "endpoints-ready"
)

// ProbeConfig describes one wave-specific verification probe.
type ProbeConfig struct {
	Type      ProbeType `yaml:"type"`
	Name      string    `yaml:"name"`
	Namespace string    `yaml:"namespace"`
	Timeout   Duration  `yaml:"timeout"`
}
