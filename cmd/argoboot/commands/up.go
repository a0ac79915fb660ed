package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/argoboot/cmd/argoboot/handlers"
)

// Up returns the command that runs the full bootstrap rollout.
//
// The rollout provisions a minikube cluster, installs Argo CD, creates
// the repository credential secret, applies the root app-of-apps
// Application, and waits for every configured wave to reach
// Synced + Healthy.
//
// Optional flags:
//
//	--config, -c: Path to rollout configuration YAML file (default: auto-detect argoboot.yaml)
//	--timeout:    Overall deadline for the whole rollout (default: ARGOBOOT_TIMEOUT_TOTAL or 30m)
//	--cleanup:    Override the config's cleanup setting for this run
//
// Environment variables:
//
//	ARGOBOOT_REPO_TOKEN (or the variable named by repo.tokenEnv): Git repository token (required)
func Up() *cobra.Command {
	var (
		configPath string
		timeout    time.Duration
		cleanup    bool
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Bootstrap the cluster and drive all sync waves to completion",
		Long: `Bootstrap a local GitOps environment end to end.

This command provisions a minikube cluster, installs Argo CD from its
Helm chart, provisions repository credentials, applies the root
app-of-apps Application, and waits for every configured wave to become
Synced and Healthy, running its verification probes in between.

If no config file is specified, it looks for argoboot.yaml in the
current directory.

Examples:
  # Bootstrap using argoboot.yaml in the current directory
  argoboot up

  # Bootstrap using a specific config file
  argoboot up -c staging.yaml

  # Bootstrap with a one-hour overall deadline
  argoboot up --timeout 1h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := handlers.UpOptions{
				ConfigPath: configPath,
				Timeout:    timeout,
			}
			if cmd.Flags().Changed("cleanup") {
				opts.Cleanup = &cleanup
			}
			return handlers.Up(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: argoboot.yaml)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Overall deadline for the rollout (0 uses ARGOBOOT_TIMEOUT_TOTAL)")
	cmd.Flags().BoolVar(&cleanup, "cleanup", true, "Clean up stage-scoped resources on failure")

	return cmd
}
