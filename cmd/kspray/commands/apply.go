package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kspray/cmd/kspray/handlers"
)

// Apply returns the command that runs the whole installation pipeline.
//
// Flags:
//
//	--config, -c: Path to configuration file (default: auto-detect kspray.yaml)
//	--only: Run only the named steps
//	--skip: Skip the named steps
func Apply() *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Build the inventory and install the cluster",
		Long: `Build the Kubespray inventory from the provisioning outputs and install the cluster.

Steps run in order and the first failure stops the run:

  prerequisites        check that the required tools are on PATH
  provisioning-output  capture terraform output (with provisioning.terraform_dir)
  storage-output       capture object-storage output (with storage.terraform_dir)
  inventory            write hosts.yaml and the group_vars files
  artifacts            upload the inventory to object storage
  playbook-<name>      run each configured playbook
  tunnel               open the SSH tunnel to the API server
  kubeconfig           install the admin kubeconfig
  verify               wait for every node to be Ready

Examples:
  # Run every step
  kspray apply

  # Regenerate the inventory only
  kspray apply --only inventory

  # Skip the playbooks of an already installed cluster
  kspray apply --skip playbook-cluster`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	addCommonFlags(cmd, &opts.Options)
	cmd.Flags().StringSliceVar(&opts.Only, "only", nil, "Run only these steps")
	cmd.Flags().StringSliceVar(&opts.Skip, "skip", nil, "Skip these steps")

	return cmd
}
