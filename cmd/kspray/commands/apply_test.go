package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	cmd := Apply()

	require.NotNil(t, cmd)
	assert.Equal(t, "apply", cmd.Use)
	assert.Equal(t, "Build the inventory and install the cluster", cmd.Short)
}

func TestApply_StepFlags(t *testing.T) {
	cmd := Apply()

	require.NoError(t, cmd.ParseFlags([]string{"--only", "inventory,artifacts", "--skip", "verify"}))

	only, err := cmd.Flags().GetStringSlice("only")
	require.NoError(t, err)
	assert.Equal(t, []string{"inventory", "artifacts"}, only)

	skip, err := cmd.Flags().GetStringSlice("skip")
	require.NoError(t, err)
	assert.Equal(t, []string{"verify"}, skip)
}
