// Package orchestration wires the installation workflow into pipeline steps.
//
// The Installer owns the state that flows between steps and builds the apply
// pipeline in this order:
//  1. prerequisites - required tools on PATH
//  2. provisioning-output - capture `terraform output -json` for the nodes
//  3. storage-output - capture the object-storage output, when configured
//  4. inventory - assemble and write the Kubespray inventory and group vars
//  5. artifacts - check the bucket and upload the inventory, when configured
//  6. playbook-<name> - one step per configured playbook
//  7. tunnel - SSH local forward to the primary control-plane node
//  8. kubeconfig - install the admin kubeconfig for the current user
//  9. verify - check nodes and pods through the API server
//
// # Usage
//
//	installer := orchestration.NewInstaller(cfg, orchestration.DefaultDependencies())
//	results, err := installer.Run(pctx, installer.Steps())
//
// External effects go through Dependencies so tests can replace them.
package orchestration
