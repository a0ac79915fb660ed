package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/argoboot/cmd/argoboot/handlers"
)

// Doctor returns the command that diagnoses the local environment.
func Doctor() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the local environment",
		Long: `Check that the local environment is ready for 'argoboot up'.

Reports which client tools are installed, whether a configuration file
was found and is valid, and the current state of the target cluster.

Examples:
  # Human-readable report
  argoboot doctor

  # Machine-readable report
  argoboot doctor --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: argoboot.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")

	return cmd
}
