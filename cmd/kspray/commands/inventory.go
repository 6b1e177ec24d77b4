package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kspray/cmd/kspray/handlers"
)

// Inventory returns the command that prints the generated inventory.
func Inventory() *cobra.Command {
	var opts handlers.InventoryOptions

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Print the generated inventory",
		Long: `Build the inventory from the provisioning outputs and print it.

Nothing is written unless --write is given. With --refresh the terraform
outputs are captured again before building.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Inventory(cmd.Context(), opts)
		},
	}

	addCommonFlags(cmd, &opts.Options)
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "yaml", "Output format: yaml or json")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "Capture the terraform outputs before building")
	cmd.Flags().BoolVar(&opts.Write, "write", false, "Also write the inventory files")

	return cmd
}
