package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Profile) == "" {
		return fmt.Errorf("profile must not be empty")
	}
	if c.Cluster.CPUs < 1 {
		return fmt.Errorf("cluster.cpus must be at least 1, got %d", c.Cluster.CPUs)
	}
	if c.Cluster.MemoryMB < 1024 {
		return fmt.Errorf("cluster.memoryMB must be at least 1024, got %d", c.Cluster.MemoryMB)
	}
	if strings.TrimSpace(c.Repo.URL) == "" {
		return fmt.Errorf("repo.url is required")
	}
	if len(c.Waves) == 0 {
		return fmt.Errorf("at least one wave is required")
	}
	if len(c.Waves) > MaxWaves {
		return fmt.Errorf("at most %d waves are supported, got %d", MaxWaves, len(c.Waves))
	}

	seen := make(map[string]bool, len(c.Waves))
	for i, wave := range c.Waves {
		if strings.TrimSpace(wave.Name) == "" {
			return fmt.Errorf("wave %d: name is required", i)
		}
		if seen[wave.Name] {
			return fmt.Errorf("wave %d: duplicate name %q", i, wave.Name)
		}
		seen[wave.Name] = true

		for j, probe := range wave.Probes {
			if err := probe.validate(); err != nil {
				return fmt.Errorf("wave %q probe %d: %w", wave.Name, j, err)
			}
		}
	}

	return nil
}

func (p *ProbeConfig) validate() error {
	switch p.Type {
	case ProbeCRDEstablished:
		if p.Name == "" {
			return fmt.Errorf("crd-established probe requires a name")
		}
	case ProbeDeploymentAvailable, ProbeDaemonSetRolledOut, ProbeEndpointsReady:
		if p.Name == "" || p.Namespace == "" {
			return fmt.Errorf("%s probe requires name and namespace", p.Type)
		}
	case "":
		return fmt.Errorf("probe type is required")
	default:
		return fmt.Errorf("unknown probe type %q", p.Type)
	}
	return nil
}
