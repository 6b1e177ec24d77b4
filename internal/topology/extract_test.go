package topology

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `{
  "private_master_ips": {"sensitive": false, "type": ["tuple", ["string"]], "value": ["10.0.1.10"]},
  "external_master_ips": {"sensitive": false, "value": ["203.0.113.10"]},
  "private_worker_ips": {"sensitive": false, "value": ["10.0.1.11", "10.0.2.12"]},
  "external_worker_ips": {"sensitive": false, "value": ["203.0.113.11", "203.0.113.12"]}
}`

func TestParse(t *testing.T) {
	t.Parallel()

	topo, err := Parse([]byte(sampleOutput))
	require.NoError(t, err)

	require.Len(t, topo.ControlPlanes, 1)
	assert.Equal(t, Node{
		Role:           RoleControlPlane,
		PrivateAddress: netip.MustParseAddr("10.0.1.10"),
		PublicAddress:  netip.MustParseAddr("203.0.113.10"),
	}, topo.Primary())

	require.Len(t, topo.Workers, 2)
	assert.Equal(t, RoleWorker, topo.Workers[0].Role)
	assert.Equal(t, "10.0.1.11", topo.Workers[0].PrivateAddress.String())
	assert.Equal(t, "203.0.113.11", topo.Workers[0].PublicAddress.String())
	assert.Equal(t, "10.0.2.12", topo.Workers[1].PrivateAddress.String())
	assert.Equal(t, "203.0.113.12", topo.Workers[1].PublicAddress.String())
}

func TestParse_NoWorkers(t *testing.T) {
	t.Parallel()

	topo, err := Parse([]byte(`{
		"private_master_ips": {"value": ["10.0.1.10"]},
		"external_master_ips": {"value": ["203.0.113.10"]},
		"private_worker_ips": {"value": []},
		"external_worker_ips": {"value": []}
	}`))
	require.NoError(t, err)
	assert.Empty(t, topo.Workers)
	assert.Len(t, topo.Nodes(), 1)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		check func(t *testing.T, err error)
	}{
		{
			name: "missing private control plane field",
			input: `{
				"external_master_ips": {"value": ["203.0.113.10"]},
				"private_worker_ips": {"value": []},
				"external_worker_ips": {"value": []}
			}`,
			check: func(t *testing.T, err error) {
				var missing *MissingFieldError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, FieldPrivateControlPlane, missing.Field)
			},
		},
		{
			name: "field without value",
			input: `{
				"private_master_ips": {"value": ["10.0.1.10"]},
				"external_master_ips": {"value": ["203.0.113.10"]},
				"private_worker_ips": {"sensitive": false},
				"external_worker_ips": {"value": []}
			}`,
			check: func(t *testing.T, err error) {
				var missing *MissingFieldError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, FieldPrivateWorker, missing.Field)
			},
		},
		{
			name: "empty control plane list",
			input: `{
				"private_master_ips": {"value": []},
				"external_master_ips": {"value": []},
				"private_worker_ips": {"value": []},
				"external_worker_ips": {"value": []}
			}`,
			check: func(t *testing.T, err error) {
				var empty *EmptyListError
				require.ErrorAs(t, err, &empty)
				assert.Equal(t, FieldPrivateControlPlane, empty.Field)
			},
		},
		{
			name: "worker list length mismatch",
			input: `{
				"private_master_ips": {"value": ["10.0.1.10"]},
				"external_master_ips": {"value": ["203.0.113.10"]},
				"private_worker_ips": {"value": ["10.0.1.11", "10.0.1.12"]},
				"external_worker_ips": {"value": ["203.0.113.11"]}
			}`,
			check: func(t *testing.T, err error) {
				var mismatch *LengthMismatchError
				require.ErrorAs(t, err, &mismatch)
				assert.Equal(t, RoleWorker, mismatch.Role)
				assert.Equal(t, 2, mismatch.PrivateCount)
				assert.Equal(t, 1, mismatch.PublicCount)
			},
		},
		{
			name: "invalid address",
			input: `{
				"private_master_ips": {"value": ["10.0.1.300"]},
				"external_master_ips": {"value": ["203.0.113.10"]},
				"private_worker_ips": {"value": []},
				"external_worker_ips": {"value": []}
			}`,
			check: func(t *testing.T, err error) {
				var invalid *InvalidAddressError
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, "10.0.1.300", invalid.Value)
				assert.Equal(t, 0, invalid.Index)
			},
		},
		{
			name: "ipv6 address",
			input: `{
				"private_master_ips": {"value": ["fd00::1"]},
				"external_master_ips": {"value": ["203.0.113.10"]},
				"private_worker_ips": {"value": []},
				"external_worker_ips": {"value": []}
			}`,
			check: func(t *testing.T, err error) {
				var invalid *InvalidAddressError
				require.ErrorAs(t, err, &invalid)
			},
		},
		{
			name:  "not json",
			input: `terraform: error`,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "failed to decode provisioning output")
			},
		},
		{
			name: "value is not a list",
			input: `{
				"private_master_ips": {"value": "10.0.1.10"},
				"external_master_ips": {"value": ["203.0.113.10"]},
				"private_worker_ips": {"value": []},
				"external_worker_ips": {"value": []}
			}`,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "must be a list of address strings")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			topo, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, topo)
			tt.check(t, err)
		})
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "terraform-output.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleOutput), 0600))

	topo, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, topo.Workers, 2)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read provisioning output")
}
