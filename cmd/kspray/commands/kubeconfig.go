package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kspray/cmd/kspray/handlers"
)

// Kubeconfig returns the command that installs the admin kubeconfig.
func Kubeconfig() *cobra.Command {
	var opts handlers.KubeconfigOptions

	cmd := &cobra.Command{
		Use:   "kubeconfig",
		Short: "Install the admin kubeconfig fetched by Kubespray",
		Long: `Copy the admin kubeconfig written by Kubespray to kubeconfig.destination,
pointing it at the configured API server address.

With --verify the tunnel is opened when enabled and the cluster is checked
once the kubeconfig is installed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Kubeconfig(cmd.Context(), opts)
		},
	}

	addCommonFlags(cmd, &opts.Options)
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "Check the cluster after installing")

	return cmd
}
