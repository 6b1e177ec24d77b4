// Package shellrc edits shell profiles such as ~/.bashrc.
package shellrc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var validName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// EnsureExport makes `export name=value` the only assignment of name in the
// profile at path, appending it at the end. Other lines, including ones
// that merely mention name, are kept. The file is created when missing and
// replaced atomically. It reports whether the file changed.
func EnsureExport(path, name, value string) (bool, error) {
	if !validName.MatchString(name) {
		return false, fmt.Errorf("invalid variable name %q", name)
	}

	// #nosec G304 - path is the user's configured shell profile
	current, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated := rewrite(current, name, value)
	if bytes.Equal(current, updated) {
		return false, nil
	}

	if err := writeAtomic(path, updated); err != nil {
		return false, err
	}
	return true, nil
}

func rewrite(content []byte, name, value string) []byte {
	var kept []string
	if len(content) > 0 {
		lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
		for _, line := range lines {
			if !IsAssignment(line, name) {
				kept = append(kept, line)
			}
		}
	}

	// Drop trailing blank lines so repeated runs converge.
	for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
		kept = kept[:len(kept)-1]
	}

	var buf strings.Builder
	for _, line := range kept {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if len(kept) > 0 {
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, "export %s=%s\n", name, Quote(value))
	return []byte(buf.String())
}

// IsAssignment reports whether line assigns name, with or without export.
func IsAssignment(line, name string) bool {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "export ")
	trimmed = strings.TrimLeft(trimmed, " \t")
	return strings.HasPrefix(trimmed, name+"=")
}

// Quote returns value in a form safe for a POSIX shell assignment.
func Quote(value string) string {
	if value != "" && strings.IndexFunc(value, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("/._-+:@%,=", r))
	}) < 0 {
		return value
	}
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

// writeAtomic replaces the file behind path. A symlinked profile is resolved
// first so the link itself survives.
func writeAtomic(path string, data []byte) error {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
