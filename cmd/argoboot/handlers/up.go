// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic
// and can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode"

	"github.com/imamik/argoboot/internal/config"
	"github.com/imamik/argoboot/internal/platform/minikube"
	"github.com/imamik/argoboot/internal/rollout"
	"github.com/imamik/argoboot/internal/util/prerequisites"
)

// minTokenLength guards against obviously truncated repository tokens.
const minTokenLength = 8

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// findConfigFile finds the default config file.
	findConfigFile = config.FindConfigFile

	// checkDefaultPrereqs runs prerequisite checks.
	checkDefaultPrereqs = prerequisites.CheckDefault

	// newClusterManager creates the minikube client.
	newClusterManager = func() minikube.Manager {
		return minikube.NewCLI()
	}

	// newRolloutContext builds the rollout context.
	newRolloutContext = rollout.NewContext

	// getenv reads environment variables.
	getenv = os.Getenv
)

// UpOptions carries the flag values of the up command.
type UpOptions struct {
	// ConfigPath is the configuration file. Empty means auto-detect.
	ConfigPath string

	// Timeout overrides the overall rollout deadline. Zero keeps the
	// env-derived default.
	Timeout time.Duration

	// Cleanup overrides the config's cleanup setting when non-nil.
	Cleanup *bool
}

// Up runs the full bootstrap rollout.
//
// The flow is:
//  1. Load and validate the configuration
//  2. Check prerequisites and the repository token
//  3. Run the staged rollout under a signal-aware overall deadline
//  4. On failure, report and run stage-scoped cleanup, then surface
//     the stage's exit code
//  5. On success, print the Argo CD access instructions
func Up(ctx context.Context, opts UpOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Cleanup != nil {
		cfg.Cleanup = *opts.Cleanup
	}

	if err := checkPrerequisites(); err != nil {
		return &rollout.Error{Stage: rollout.StageInit, Code: rollout.ExitMissingDependency, Err: err}
	}

	token, err := readRepoToken(cfg)
	if err != nil {
		return err
	}

	// An interrupt or the overall deadline cancels the in-flight stage;
	// the cleanup that follows is best-effort either way.
	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	timeouts := config.LoadTimeouts()
	total := timeouts.Total
	if opts.Timeout > 0 {
		total = opts.Timeout
	}
	runCtx, cancel := context.WithTimeout(runCtx, total)
	defer cancel()

	rctx := newRolloutContext(runCtx, cfg, newClusterManager())
	rctx.Timeouts = timeouts
	rctx.State.RepoToken = token

	orch := rollout.New(rctx)
	if err := orch.Run(); err != nil {
		rollout.NewCleaner(rctx, orch.Waves()).Run(err)
		return err
	}

	printUpSuccess(cfg, rctx.State)
	return nil
}

// loadConfig loads and validates the rollout configuration.
// If configPath is empty, it looks for argoboot.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w", err)
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// checkPrerequisites verifies required client tools are available.
func checkPrerequisites() error {
	results := checkDefaultPrereqs()
	return results.Error()
}

// readRepoToken reads the repository token from the configured
// environment variable and validates its format.
func readRepoToken(cfg *config.Config) (string, error) {
	token := getenv(cfg.Repo.TokenEnv)
	if token == "" {
		return "", &rollout.Error{
			Stage: rollout.StageInit,
			Code:  rollout.ExitMissingCredential,
			Err:   fmt.Errorf("repository token not set: export %s with a token that can read %s", cfg.Repo.TokenEnv, cfg.Repo.URL),
		}
	}

	if !cfg.Repo.SkipTokenValidation {
		if err := validateTokenFormat(token); err != nil {
			return "", &rollout.Error{
				Stage: rollout.StageInit,
				Code:  rollout.ExitInvalidCredential,
				Err:   fmt.Errorf("%s: %w", cfg.Repo.TokenEnv, err),
			}
		}
	}

	return token, nil
}

// validateTokenFormat rejects tokens that cannot possibly be valid:
// too short, or containing whitespace or control characters. These are
// almost always copy-paste accidents.
func validateTokenFormat(token string) error {
	if len(token) < minTokenLength {
		return fmt.Errorf("token is shorter than %d characters", minTokenLength)
	}
	for _, r := range token {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("token contains whitespace or control characters")
		}
	}
	return nil
}

// printUpSuccess outputs completion message and next steps for the user.
func printUpSuccess(cfg *config.Config, state *rollout.State) {
	fmt.Printf("\nRollout complete! All %d waves are Synced and Healthy.\n", len(cfg.Waves))
	fmt.Printf("\nArgo CD admin credentials:\n")
	fmt.Printf("  username: admin\n")
	fmt.Printf("  password: %s\n", state.AdminPassword)
	fmt.Printf("\nTo open the Argo CD UI:\n")
	fmt.Printf("  kubectl --context %s -n %s port-forward svc/argocd-server 8080:443\n", cfg.Profile, cfg.ArgoCD.Namespace)
	fmt.Printf("  open https://localhost:8080\n")
}
