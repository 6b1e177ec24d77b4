package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaybookCommand(t *testing.T) {
	tests := []struct {
		name     string
		opts     PlaybookOptions
		wantArgs []string
		wantEnv  []string
	}{
		{
			name: "plain",
			opts: PlaybookOptions{
				Binary:    "ansible-playbook",
				Inventory: "/work/inventory/mycluster/hosts.yaml",
				Playbook:  "cluster.yml",
			},
			wantArgs: []string{"-i", "/work/inventory/mycluster/hosts.yaml", "cluster.yml"},
			wantEnv:  []string{"ANSIBLE_HOST_KEY_CHECKING=False"},
		},
		{
			name: "vault and extra args",
			opts: PlaybookOptions{
				Binary:            "ansible-playbook",
				Inventory:         "hosts.yaml",
				Playbook:          "add_ssh_keys.yml",
				VaultPasswordFile: "/secrets/vault.txt",
				ExtraArgs:         []string{"--become", "-e", "foo=bar"},
				HostKeyChecking:   true,
			},
			wantArgs: []string{"-i", "hosts.yaml", "--vault-password-file", "/secrets/vault.txt", "--become", "-e", "foo=bar", "add_ssh_keys.yml"},
			wantEnv:  []string{"ANSIBLE_HOST_KEY_CHECKING=True"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := PlaybookCommand(tt.opts)
			assert.Equal(t, "ansible-playbook", cmd.Name)
			assert.Equal(t, tt.wantArgs, cmd.Args)
			assert.Equal(t, tt.wantEnv, cmd.Env)
		})
	}
}

func TestRunPlaybook(t *testing.T) {
	var got Command
	runner := RunnerFunc(func(_ context.Context, cmd Command) error {
		got = cmd
		return nil
	})

	err := RunPlaybook(context.Background(), runner, PlaybookOptions{
		Binary:    "ansible-playbook",
		Inventory: "hosts.yaml",
		Playbook:  "cluster.yml",
		WorkDir:   "/opt/kubespray",
	})

	require.NoError(t, err)
	assert.Equal(t, "/opt/kubespray", got.Dir)
}
