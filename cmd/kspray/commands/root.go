// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kspray/cmd/kspray/handlers"
)

// Root returns the root command for the kspray CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kspray",
		Short:         "Build Kubespray inventories and drive the install",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Pipeline commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Inventory())
	cmd.AddCommand(Kubeconfig())
	cmd.AddCommand(Tunnel())
	cmd.AddCommand(Doctor())

	// Utility commands
	cmd.AddCommand(PatchDNS())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

// addCommonFlags binds the flags shared by every command that loads a configuration.
func addCommonFlags(cmd *cobra.Command, opts *handlers.Options) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: kspray.yaml)")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", "", "Log format: auto, console or json")
}
