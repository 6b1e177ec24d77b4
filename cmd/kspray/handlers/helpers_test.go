package handlers

import (
	"bytes"
	"io"
	"testing"

	"github.com/imamik/kspray/internal/config"
	"github.com/imamik/kspray/internal/orchestration"
)

func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origLoadConfig := loadConfig
	origNewDependencies := newDependencies
	origStdout := stdout
	origLogOutput := logOutput
	origIsInteractiveTTY := isInteractiveTTY
	origFileExists := fileExists
	origSaveConfig := saveConfig
	origCheckTools := checkTools
	origNewClientset := newClientset
	origLoadTimeouts := loadTimeouts
	origWaitForPort := waitForPort

	t.Cleanup(func() {
		loadConfig = origLoadConfig
		newDependencies = origNewDependencies
		stdout = origStdout
		logOutput = origLogOutput
		isInteractiveTTY = origIsInteractiveTTY
		fileExists = origFileExists
		saveConfig = origSaveConfig
		checkTools = origCheckTools
		newClientset = origNewClientset
		loadTimeouts = origLoadTimeouts
		waitForPort = origWaitForPort
	})

	logOutput = io.Discard
	isInteractiveTTY = func() bool { return false }
}

// useConfig makes every handler see cfg, loaded from path.
func useConfig(cfg *config.Config, path string) {
	loadConfig = func(string) (*config.Config, string, error) {
		return cfg, path, nil
	}
}

func useDependencies(deps orchestration.Dependencies) {
	newDependencies = func() orchestration.Dependencies {
		if deps.Stdout == nil {
			deps.Stdout = io.Discard
		}
		if deps.Stderr == nil {
			deps.Stderr = io.Discard
		}
		return deps
	}
}

func captureStdout() *bytes.Buffer {
	buf := &bytes.Buffer{}
	stdout = buf
	return buf
}
