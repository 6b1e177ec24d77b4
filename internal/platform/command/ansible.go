package command

import (
	"context"
	"io"
)

// PlaybookOptions describes one ansible-playbook run.
type PlaybookOptions struct {
	Binary    string
	Inventory string
	Playbook  string

	// WorkDir is the Kubespray checkout; playbook paths are relative to it.
	WorkDir string

	VaultPasswordFile string

	// ExtraArgs are placed before the playbook path, global ones first.
	ExtraArgs []string

	// HostKeyChecking sets ANSIBLE_HOST_KEY_CHECKING.
	HostKeyChecking bool

	Stdout io.Writer
	Stderr io.Writer
}

// PlaybookCommand builds the ansible-playbook invocation.
func PlaybookCommand(opts PlaybookOptions) Command {
	args := []string{"-i", opts.Inventory}
	if opts.VaultPasswordFile != "" {
		args = append(args, "--vault-password-file", opts.VaultPasswordFile)
	}
	args = append(args, opts.ExtraArgs...)
	args = append(args, opts.Playbook)

	env := []string{"ANSIBLE_HOST_KEY_CHECKING=False"}
	if opts.HostKeyChecking {
		env = []string{"ANSIBLE_HOST_KEY_CHECKING=True"}
	}

	return Command{
		Name:   opts.Binary,
		Args:   args,
		Dir:    opts.WorkDir,
		Env:    env,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	}
}

// RunPlaybook runs one playbook to completion.
func RunPlaybook(ctx context.Context, runner Runner, opts PlaybookOptions) error {
	return runner.Run(ctx, PlaybookCommand(opts))
}
