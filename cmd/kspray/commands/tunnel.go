package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kspray/cmd/kspray/handlers"
)

// Tunnel returns the command that holds an SSH tunnel to the API server open.
func Tunnel() *cobra.Command {
	var opts handlers.Options

	cmd := &cobra.Command{
		Use:   "tunnel",
		Short: "Forward a local port to the API server over SSH",
		Long: `Open an SSH tunnel through the primary control-plane node and keep it
open until interrupted.

The local port is tunnel.local_port and the remote end is the private
address of the primary control-plane node on inventory.api_port.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Tunnel(cmd.Context(), opts)
		},
	}

	addCommonFlags(cmd, &opts)

	return cmd
}
