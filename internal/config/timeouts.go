package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	ClusterReady      time.Duration // Timeout for the cluster API server to become reachable
	ControllerReady   time.Duration // Timeout for the GitOps controller deployments to become available
	Sync              time.Duration // Default per-wave sync timeout
	Health            time.Duration // Default per-wave health timeout
	Probe             time.Duration // Default per-probe verification timeout
	Delete            time.Duration // Timeout for each best-effort deletion during cleanup
	Total             time.Duration // Aggregate deadline for the whole rollout
	PollInterval      time.Duration // Fixed interval between condition polls
	RetryMaxAttempts  int           // Maximum number of retry attempts for transient remote calls
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - ARGOBOOT_TIMEOUT_CLUSTER_READY (default: 5m)
//   - ARGOBOOT_TIMEOUT_CONTROLLER_READY (default: 5m)
//   - ARGOBOOT_TIMEOUT_SYNC (default: 5m)
//   - ARGOBOOT_TIMEOUT_HEALTH (default: 5m)
//   - ARGOBOOT_TIMEOUT_PROBE (default: 2m)
//   - ARGOBOOT_TIMEOUT_DELETE (default: 2m)
//   - ARGOBOOT_TIMEOUT_TOTAL (default: 30m)
//   - ARGOBOOT_POLL_INTERVAL (default: 10s)
//   - ARGOBOOT_RETRY_MAX_ATTEMPTS (default: 5)
//   - ARGOBOOT_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		ClusterReady:      parseDuration("ARGOBOOT_TIMEOUT_CLUSTER_READY", 5*time.Minute),
		ControllerReady:   parseDuration("ARGOBOOT_TIMEOUT_CONTROLLER_READY", 5*time.Minute),
		Sync:              parseDuration("ARGOBOOT_TIMEOUT_SYNC", 5*time.Minute),
		Health:            parseDuration("ARGOBOOT_TIMEOUT_HEALTH", 5*time.Minute),
		Probe:             parseDuration("ARGOBOOT_TIMEOUT_PROBE", 2*time.Minute),
		Delete:            parseDuration("ARGOBOOT_TIMEOUT_DELETE", 2*time.Minute),
		Total:             parseDuration("ARGOBOOT_TIMEOUT_TOTAL", 30*time.Minute),
		PollInterval:      parseDuration("ARGOBOOT_POLL_INTERVAL", 10*time.Second),
		RetryMaxAttempts:  parseInt("ARGOBOOT_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("ARGOBOOT_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
