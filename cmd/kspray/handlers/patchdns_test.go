package handlers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/imamik/kspray/internal/testing"
)

const kubeletTemplate = `clusterDNS:
{% for dns_address in kubelet_cluster_dns %}
- {{ dns_address }}
{% endfor %}
`

func TestPatchDNS_ExplicitDir(t *testing.T) {
	saveAndRestoreFactories(t)

	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "kubelet.j2"), kubeletTemplate)
	testutil.WriteFile(t, filepath.Join(dir, "other.j2"), "static\n")
	out := captureStdout()

	require.NoError(t, PatchDNS(PatchDNSOptions{Dir: dir}))

	data, err := os.ReadFile(filepath.Join(dir, "kubelet.j2"))
	require.NoError(t, err)
	assert.Equal(t, "clusterDNS:\n- 10.233.0.10\n", string(data))
	assert.Contains(t, out.String(), "Patched 1 file(s), 1 unchanged.")
}

func TestPatchDNS_DefaultsToKubesprayCheckout(t *testing.T) {
	saveAndRestoreFactories(t)

	workDir := t.TempDir()
	cfg := testutil.NewConfigBuilder(t.TempDir()).Build()
	cfg.Ansible.WorkDir = workDir
	useConfig(cfg, "")
	template := filepath.Join(workDir, "roles", "kubernetes", "control-plane", "templates", "kubeadm-config.j2")
	testutil.WriteFile(t, template, kubeletTemplate)
	out := captureStdout()

	require.NoError(t, PatchDNS(PatchDNSOptions{Address: "169.254.25.10", DryRun: true}))

	data, err := os.ReadFile(template)
	require.NoError(t, err)
	assert.Equal(t, kubeletTemplate, string(data))
	assert.Contains(t, out.String(), "Would patch 1 file(s), 0 unchanged.")
}
