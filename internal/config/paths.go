package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// userHomeDir is replaced in tests.
var userHomeDir = os.UserHomeDir

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory for %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
