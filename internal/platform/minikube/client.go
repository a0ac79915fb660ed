package minikube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Status describes the lifecycle state of a minikube profile.
type Status string

const (
	// StatusRunning means the cluster exists and the host is up.
	StatusRunning Status = "Running"
	// StatusStopped means the cluster exists but the host is down.
	StatusStopped Status = "Stopped"
	// StatusAbsent means no cluster exists for the profile.
	StatusAbsent Status = "Absent"
	// StatusUnknown means the state could not be determined.
	StatusUnknown Status = "Unknown"
)

// CreateOpts holds sizing options for cluster creation.
type CreateOpts struct {
	CPUs     int
	MemoryMB int
	Driver   string
}

// Manager defines cluster lifecycle operations.
type Manager interface {
	// Status reports the lifecycle state of the profile.
	Status(ctx context.Context, profile string) (Status, error)

	// Create creates and starts a new cluster for the profile.
	Create(ctx context.Context, profile string, opts CreateOpts) error

	// Start starts an existing stopped cluster.
	Start(ctx context.Context, profile string) error

	// Delete removes the cluster and all its state.
	Delete(ctx context.Context, profile string) error
}

// minikube status exit code for a nonexistent profile.
const exitCodeNonexistent = 85

// CLI implements Manager by invoking the minikube binary.
type CLI struct {
	// run executes minikube with the given arguments and returns the
	// combined output. Replaceable in tests.
	run func(ctx context.Context, args ...string) ([]byte, error)
}

// NewCLI creates a Manager backed by the minikube binary on PATH.
func NewCLI() *CLI {
	return &CLI{
		run: func(ctx context.Context, args ...string) ([]byte, error) {
			// #nosec G204 - arguments are built from validated config, not raw user input
			cmd := exec.CommandContext(ctx, "minikube", args...)
			return cmd.CombinedOutput()
		},
	}
}

// statusOutput is the relevant subset of `minikube status -o json`.
type statusOutput struct {
	Host string `json:"Host"`
}

// Status reports the lifecycle state of the profile.
func (c *CLI) Status(ctx context.Context, profile string) (Status, error) {
	output, err := c.run(ctx, "status", "-p", profile, "-o", "json")
	if err != nil {
		// minikube uses a distinct exit code for unknown profiles; it
		// also prints a recognizable message, which covers older
		// releases that predate the exit code.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == exitCodeNonexistent {
			return StatusAbsent, nil
		}
		if strings.Contains(string(output), "not found") ||
			strings.Contains(string(output), "Nonexistent") {
			return StatusAbsent, nil
		}
		// A stopped cluster also yields a non-zero exit; fall through
		// to JSON parsing before giving up.
		if parsed, parseErr := parseStatus(output); parseErr == nil {
			return parsed, nil
		}
		return StatusUnknown, fmt.Errorf("minikube status failed: %w: %s", err, output)
	}

	return parseStatus(output)
}

func parseStatus(output []byte) (Status, error) {
	// Multi-node clusters emit a JSON array; single-node a single object.
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return StatusUnknown, fmt.Errorf("empty status output")
	}

	var st statusOutput
	if strings.HasPrefix(trimmed, "[") {
		var list []statusOutput
		if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
			return StatusUnknown, fmt.Errorf("failed to parse status output: %w", err)
		}
		if len(list) == 0 {
			return StatusAbsent, nil
		}
		st = list[0]
	} else {
		if err := json.Unmarshal([]byte(trimmed), &st); err != nil {
			return StatusUnknown, fmt.Errorf("failed to parse status output: %w", err)
		}
	}

	switch st.Host {
	case "Running":
		return StatusRunning, nil
	case "Stopped":
		return StatusStopped, nil
	case "Nonexistent":
		return StatusAbsent, nil
	default:
		return StatusUnknown, nil
	}
}

// Create creates and starts a new cluster for the profile.
func (c *CLI) Create(ctx context.Context, profile string, opts CreateOpts) error {
	args := []string{
		"start",
		"-p", profile,
		"--cpus", fmt.Sprintf("%d", opts.CPUs),
		"--memory", fmt.Sprintf("%dmb", opts.MemoryMB),
		"--interactive=false",
	}
	if opts.Driver != "" {
		args = append(args, "--driver", opts.Driver)
	}

	output, err := c.run(ctx, args...)
	if err != nil {
		return fmt.Errorf("minikube start failed: %w: %s", err, output)
	}
	return nil
}

// Start starts an existing stopped cluster, keeping its original sizing.
func (c *CLI) Start(ctx context.Context, profile string) error {
	output, err := c.run(ctx, "start", "-p", profile, "--interactive=false")
	if err != nil {
		return fmt.Errorf("minikube start failed: %w: %s", err, output)
	}
	return nil
}

// Delete removes the cluster and all its state.
func (c *CLI) Delete(ctx context.Context, profile string) error {
	output, err := c.run(ctx, "delete", "-p", profile)
	if err != nil {
		return fmt.Errorf("minikube delete failed: %w: %s", err, output)
	}
	return nil
}
