package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TerraformOutput runs `terraform output -json` in dir and returns the document.
func TerraformOutput(ctx context.Context, runner Runner, binary, dir string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := Command{
		Name:   binary,
		Args:   []string{"output", "-json"},
		Dir:    dir,
		Stdout: &stdout,
		Stderr: &stderr,
	}

	if err := runner.Run(ctx, cmd); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("terraform output in %s: %w: %s", dir, err, msg)
		}
		return nil, fmt.Errorf("terraform output in %s: %w", dir, err)
	}

	if !json.Valid(stdout.Bytes()) {
		return nil, fmt.Errorf("terraform output in %s is not valid JSON", dir)
	}
	return stdout.Bytes(), nil
}

// WriteTerraformOutput captures the output document of dir into dest.
func WriteTerraformOutput(ctx context.Context, runner Runner, binary, dir, dest string) error {
	data, err := TerraformOutput(ctx, runner, binary, dir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}
	if err := os.WriteFile(dest, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}
