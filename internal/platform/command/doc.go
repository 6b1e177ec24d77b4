// Package command invokes the external tools kspray drives: Terraform for
// provisioning outputs and ansible-playbook for the Kubespray playbooks.
//
// All invocations go through a [Runner] so steps can be tested without the
// tools installed. A non-zero exit is reported as [*ExitError].
package command
