package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file looked up when no path is given.
const DefaultConfigFile = "argoboot.yaml"

// FindConfigFile returns the default config file path if it exists.
func FindConfigFile() (string, error) {
	if _, err := os.Stat(DefaultConfigFile); err != nil {
		return "", fmt.Errorf("%s not found in current directory", DefaultConfigFile)
	}
	return DefaultConfigFile, nil
}

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Load(data)
}

// Load parses configuration from YAML bytes, applies defaults, and
// validates the result.
func Load(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills unset fields with their defaults.
func (c *Config) applyDefaults() {
	if c.Profile == "" {
		c.Profile = "argoboot"
	}
	if c.Cluster.CPUs == 0 {
		c.Cluster.CPUs = 2
	}
	if c.Cluster.MemoryMB == 0 {
		c.Cluster.MemoryMB = 4096
	}
	if c.Cluster.Driver == "" {
		c.Cluster.Driver = "docker"
	}
	if c.ArgoCD.Namespace == "" {
		c.ArgoCD.Namespace = "argocd"
	}
	if c.ArgoCD.ChartRepository == "" {
		c.ArgoCD.ChartRepository = "https://argoproj.github.io/argo-helm"
	}
	if c.ArgoCD.Chart == "" {
		c.ArgoCD.Chart = "argo-cd"
	}
	if c.ArgoCD.ChartVersion == "" {
		c.ArgoCD.ChartVersion = "7.7.12"
	}
	if c.Repo.Username == "" {
		c.Repo.Username = "git"
	}
	if c.Repo.TokenEnv == "" {
		c.Repo.TokenEnv = "ARGOBOOT_REPO_TOKEN"
	}
	if c.Root.Name == "" {
		c.Root.Name = "root"
	}
	if c.Root.Path == "" {
		c.Root.Path = "bootstrap"
	}
	if c.Root.Revision == "" {
		c.Root.Revision = "HEAD"
	}
}
