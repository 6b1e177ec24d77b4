package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string

	// Dir is the working directory; empty means the current one.
	Dir string

	// Env is appended to the parent environment.
	Env []string

	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs and errors.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// RunnerFunc adapts a function to a Runner.
type RunnerFunc func(ctx context.Context, cmd Command) error

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// ExitError reports an external tool that ran and exited non-zero, or that
// could not be started.
type ExitError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *ExitError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// Run implements Runner. Output defaults to the parent's stdout and stderr.
func (ExecRunner) Run(ctx context.Context, c Command) error {
	// #nosec G204 - binaries and arguments come from the validated configuration
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdout = c.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = c.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s interrupted: %w", c.Name, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Command: c.String(), ExitCode: exitErr.ExitCode(), Err: err}
		}
		return &ExitError{Command: c.String(), ExitCode: -1, Err: err}
	}
	return nil
}
