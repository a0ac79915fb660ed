package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/argoboot/cmd/argoboot/handlers"
)

// Destroy returns the command that tears down the bootstrapped cluster.
func Destroy() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete the bootstrapped cluster",
		Long: `Delete the minikube cluster created by 'argoboot up'.

This removes the whole cluster profile, including Argo CD and every
application it manages. You will be asked to confirm before anything
is deleted.

Examples:
  # Destroy the cluster named in argoboot.yaml
  argoboot destroy

  # Destroy the cluster named in a specific config file
  argoboot destroy -c staging.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: argoboot.yaml)")

	return cmd
}
