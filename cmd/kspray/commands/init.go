package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kspray/cmd/kspray/handlers"
	"github.com/imamik/kspray/internal/config"
)

// Init returns the command that writes a default configuration file.
//
// Flags:
//
//	--output, -o: Path to output file (default "kspray.yaml")
//	--force: Overwrite an existing file
func Init() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Init(outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Output file path")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
