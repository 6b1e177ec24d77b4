package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kspray/cmd/kspray/handlers"
)

// Doctor returns the command that checks the local setup.
//
// Optional flags:
//
//	--config, -c: Path to configuration file (default: auto-detect kspray.yaml)
//	--json: Output in JSON format
func Doctor() *cobra.Command {
	var configPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check tools, inputs and cluster access",
		Long: `Check that the tools and files a run needs are present.

When a kubeconfig is installed the API server is queried as well.
Exits non-zero when a required tool or file is missing.

Examples:
  kspray doctor
  kspray doctor --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), handlers.Options{ConfigPath: configPath}, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: kspray.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
