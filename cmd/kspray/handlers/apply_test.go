package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/kspray/internal/config"
	"github.com/imamik/kspray/internal/orchestration"
	"github.com/imamik/kspray/internal/pipeline"
	testutil "github.com/imamik/kspray/internal/testing"
)

func TestApply(t *testing.T) {
	saveAndRestoreFactories(t)

	dir := t.TempDir()
	cfg := testutil.NewConfigBuilder(dir).
		WithPlaybooks(config.Playbook{Name: "cluster", Path: "cluster.yml"}).
		Build()
	cfg.Metrics.Textfile = filepath.Join(dir, "kspray.prom")
	testutil.WriteFile(t, cfg.Provisioning.OutputFile, testutil.TerraformOutput)

	runner := testutil.NewMockRunner()
	useConfig(cfg, filepath.Join(dir, "kspray.yaml"))
	useDependencies(orchestration.Dependencies{Runner: runner})
	out := captureStdout()

	err := Apply(context.Background(), ApplyOptions{})
	require.NoError(t, err)

	assert.FileExists(t, cfg.Inventory.Path)
	runner.AssertNumberOfCalls(t, "Run", 1)

	assert.Contains(t, out.String(), "✓ inventory")
	assert.Contains(t, out.String(), "✓ playbook-cluster")
	assert.Contains(t, out.String(), "- kubeconfig")
	assert.Contains(t, out.String(), "Cluster test-cluster applied")

	metrics, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `kspray_run_success{cluster="test-cluster"} 1`)
}

func TestApply_OnlySteps(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testutil.NewConfigBuilder(t.TempDir()).
		WithPlaybooks(config.Playbook{Name: "cluster", Path: "cluster.yml"}).
		Build()
	testutil.WriteFile(t, cfg.Provisioning.OutputFile, testutil.TerraformOutput)

	runner := &testutil.MockRunner{}
	useConfig(cfg, "")
	useDependencies(orchestration.Dependencies{Runner: runner})
	out := captureStdout()

	err := Apply(context.Background(), ApplyOptions{Only: []string{orchestration.StepInventory}})
	require.NoError(t, err)

	assert.FileExists(t, cfg.Inventory.Path)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	assert.NotContains(t, out.String(), "playbook-cluster")
}

func TestApply_UnknownStep(t *testing.T) {
	saveAndRestoreFactories(t)
	useConfig(testutil.NewConfigBuilder(t.TempDir()).Build(), "")
	captureStdout()

	err := Apply(context.Background(), ApplyOptions{Skip: []string{"playbooks"}})
	assert.ErrorContains(t, err, "unknown steps: playbooks")
}

func TestApply_StepFailure(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testutil.NewConfigBuilder(t.TempDir()).Build()
	useConfig(cfg, "")
	useDependencies(orchestration.Dependencies{})
	out := captureStdout()

	err := Apply(context.Background(), ApplyOptions{})

	var stepErr *pipeline.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, orchestration.StepInventory, stepErr.Step)
	assert.Contains(t, out.String(), "✗ inventory")
	assert.NotContains(t, out.String(), "applied")
}

func TestApply_ConfigError(t *testing.T) {
	saveAndRestoreFactories(t)
	loadConfig = func(string) (*config.Config, string, error) {
		return nil, "", errors.New("configuration validation failed: inventory.ssh_user is required")
	}

	err := Apply(context.Background(), ApplyOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inventory.ssh_user is required")
	assert.Contains(t, err.Error(), "kspray init")
}

func TestApply_InvalidLogLevel(t *testing.T) {
	saveAndRestoreFactories(t)
	useConfig(testutil.NewConfigBuilder(t.TempDir()).Build(), "")

	err := Apply(context.Background(), ApplyOptions{Options: Options{LogLevel: "loud"}})
	assert.ErrorContains(t, err, "invalid log level")
}
