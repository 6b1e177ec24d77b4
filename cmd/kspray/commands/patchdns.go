package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kspray/cmd/kspray/handlers"
	"github.com/imamik/kspray/internal/templatepatch"
)

// PatchDNS returns the command that pins the kubelet cluster DNS address in
// the Kubespray templates.
func PatchDNS() *cobra.Command {
	var opts handlers.PatchDNSOptions

	cmd := &cobra.Command{
		Use:   "patch-dns",
		Short: "Pin the kubelet cluster DNS in the Kubespray templates",
		Long: `Replace the kubelet_cluster_dns loop in the Kubespray control-plane
templates with a single fixed address.

Without --dir the templates of ansible.work_dir are patched.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.PatchDNS(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: kspray.yaml)")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "Templates directory to patch")
	cmd.Flags().StringVar(&opts.Address, "address", templatepatch.DefaultDNSAddress, "Cluster DNS address")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report what would change without writing")

	return cmd
}
