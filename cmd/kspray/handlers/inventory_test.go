package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/kspray/internal/orchestration"
	"github.com/imamik/kspray/internal/platform/command"
	testutil "github.com/imamik/kspray/internal/testing"
)

func TestInventory_PrintsYAML(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testutil.NewConfigBuilder(t.TempDir()).Build()
	testutil.WriteFile(t, cfg.Provisioning.OutputFile, testutil.TerraformOutput)
	useConfig(cfg, "")
	out := captureStdout()

	require.NoError(t, Inventory(context.Background(), InventoryOptions{}))

	assert.Contains(t, out.String(), "kube_control_plane:")
	assert.Contains(t, out.String(), "ansible_host: 203.0.113.10")
	assert.NoFileExists(t, cfg.Inventory.Path)
}

func TestInventory_JSONAndWrite(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testutil.NewConfigBuilder(t.TempDir()).Build()
	testutil.WriteFile(t, cfg.Provisioning.OutputFile, testutil.TerraformOutput)
	useConfig(cfg, "")
	out := captureStdout()

	require.NoError(t, Inventory(context.Background(), InventoryOptions{Format: "json", Write: true}))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Contains(t, doc, "all")
	assert.FileExists(t, cfg.Inventory.Path)
}

func TestInventory_Refresh(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testutil.NewConfigBuilder(t.TempDir()).WithTerraformDir(t.TempDir()).Build()
	runner := &testutil.MockRunner{}
	runner.On("Run", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		cmd := args.Get(1).(command.Command)
		_, _ = cmd.Stdout.Write([]byte(testutil.TerraformOutput))
	}).Return(nil)
	useConfig(cfg, "")
	useDependencies(orchestration.Dependencies{Runner: runner})
	out := captureStdout()

	require.NoError(t, Inventory(context.Background(), InventoryOptions{Refresh: true}))

	runner.AssertNumberOfCalls(t, "Run", 1)
	assert.FileExists(t, cfg.Provisioning.OutputFile)
	assert.Contains(t, out.String(), "worker2:")
}

func TestInventory_InvalidFormat(t *testing.T) {
	saveAndRestoreFactories(t)
	err := Inventory(context.Background(), InventoryOptions{Format: "ini"})
	assert.ErrorContains(t, err, `unsupported format "ini"`)
}
