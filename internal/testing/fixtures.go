package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TerraformOutput describes one control-plane node and two workers spread
// over two /24 subnets.
const TerraformOutput = `{
  "private_master_ips": {"sensitive": false, "type": ["tuple", [["string"]]], "value": ["10.0.1.10"]},
  "external_master_ips": {"sensitive": false, "type": ["tuple", [["string"]]], "value": ["203.0.113.10"]},
  "private_worker_ips": {"sensitive": false, "type": ["tuple", [["string"], ["string"]]], "value": ["10.0.1.11", "10.0.2.12"]},
  "external_worker_ips": {"sensitive": false, "type": ["tuple", [["string"], ["string"]]], "value": ["203.0.113.11", "203.0.113.12"]}
}`

// StorageOutput carries object-storage credentials.
const StorageOutput = `{
  "s3_access_key": {"sensitive": true, "value": "AKIATEST"},
  "s3_secret_key": {"sensitive": true, "value": "secret"},
  "s3_bucket": {"sensitive": false, "value": "cluster-artifacts"},
  "s3_endpoint": {"sensitive": false, "value": "https://objects.example.com"}
}`

// AdminKubeconfig mimics the admin.conf fetched by Kubespray.
const AdminKubeconfig = `apiVersion: v1
kind: Config
clusters:
- cluster:
    certificate-authority-data: Y2E=
    server: https://10.0.1.10:6443
  name: cluster.local
contexts:
- context:
    cluster: cluster.local
    user: kubernetes-admin
  name: kubernetes-admin@cluster.local
current-context: kubernetes-admin@cluster.local
preferences: {}
users:
- name: kubernetes-admin
  user:
    client-certificate-data: Y2VydA==
    client-key-data: a2V5
`

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}
