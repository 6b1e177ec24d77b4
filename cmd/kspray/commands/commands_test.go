package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/kspray/internal/templatepatch"
)

func TestInventory_Flags(t *testing.T) {
	cmd := Inventory()

	format := cmd.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "f", format.Shorthand)
	assert.Equal(t, "yaml", format.DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("refresh"))
	assert.NotNil(t, cmd.Flags().Lookup("write"))
}

func TestKubeconfig_Flags(t *testing.T) {
	cmd := Kubeconfig()

	verify := cmd.Flags().Lookup("verify")
	require.NotNil(t, verify)
	assert.Equal(t, "false", verify.DefValue)
}

func TestPatchDNS_Flags(t *testing.T) {
	cmd := PatchDNS()

	assert.Equal(t, "patch-dns", cmd.Use)
	address := cmd.Flags().Lookup("address")
	require.NotNil(t, address)
	assert.Equal(t, templatepatch.DefaultDNSAddress, address.DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("dir"))
	assert.NotNil(t, cmd.Flags().Lookup("dry-run"))
}

func TestPatchDNS_RejectsArgs(t *testing.T) {
	root := Root()
	root.SetArgs([]string{"patch-dns", "extra"})
	root.SetOut(&bytes.Buffer{})

	assert.Error(t, root.Execute())
}

func TestDoctor_Flags(t *testing.T) {
	cmd := Doctor()

	assert.Equal(t, "doctor", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("json"))
	assert.NotNil(t, cmd.Flags().Lookup("config"))
}

func TestInit_Flags(t *testing.T) {
	cmd := Init()

	output := cmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)
	assert.Equal(t, "kspray.yaml", output.DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("force"))
}

func TestInit_Execute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kspray.yaml")

	root := Root()
	root.SetArgs([]string{"init", "--output", path})
	require.NoError(t, root.Execute())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
