package testing

import (
	"path/filepath"
	"slices"

	"github.com/imamik/kspray/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	dir string
	cfg config.Config
}

// NewConfigBuilder creates a builder whose file paths all live under dir.
// The prerequisites check, verification and shell profile update are off.
func NewConfigBuilder(dir string) *ConfigBuilder {
	off := false
	return &ConfigBuilder{
		dir: dir,
		cfg: config.Config{
			ClusterName: "test-cluster",
			Provisioning: config.ProvisioningConfig{
				OutputFile: filepath.Join(dir, "terraform-output.json"),
			},
			Inventory: config.InventoryConfig{
				Path: filepath.Join(dir, "inventory", "hosts.yaml"),
			},
			Ansible: config.AnsibleConfig{
				Playbooks: []config.Playbook{},
			},
			Kubeconfig: config.KubeconfigConfig{
				Destination:        filepath.Join(dir, "kube", "config"),
				ShellProfile:       filepath.Join(dir, ".bashrc"),
				UpdateShellProfile: &off,
			},
			Verify:                    config.VerifyConfig{Enabled: &off},
			PrerequisitesCheckEnabled: &off,
		},
	}
}

// WithClusterName sets the cluster name.
func (b *ConfigBuilder) WithClusterName(name string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.ClusterName = name
	return nb
}

// WithTerraformDir runs terraform in dir for the node outputs.
func (b *ConfigBuilder) WithTerraformDir(dir string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Provisioning.TerraformDir = dir
	return nb
}

// WithStorageOutput reads object-storage credentials from the given file.
func (b *ConfigBuilder) WithStorageOutput(path string, upload, verify bool) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Storage.OutputFile = path
	nb.cfg.Storage.UploadArtifacts = upload
	nb.cfg.Storage.VerifyBucket = verify
	return nb
}

// WithPlaybooks replaces the playbook sequence.
func (b *ConfigBuilder) WithPlaybooks(playbooks ...config.Playbook) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Ansible.Playbooks = slices.Clone(playbooks)
	return nb
}

// WithTunnel enables the SSH tunnel using the key at keyPath.
func (b *ConfigBuilder) WithTunnel(keyPath string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Tunnel.Enabled = true
	nb.cfg.Tunnel.PrivateKeyPath = keyPath
	return nb
}

// WithShellProfile enables the KUBECONFIG export in the builder's profile.
func (b *ConfigBuilder) WithShellProfile() *ConfigBuilder {
	nb := b.clone()
	on := true
	nb.cfg.Kubeconfig.UpdateShellProfile = &on
	return nb
}

// WithVerify toggles the cluster verification step.
func (b *ConfigBuilder) WithVerify(enabled bool) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Verify.Enabled = &enabled
	return nb
}

// Build applies defaults and returns the constructed config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	cfg.ApplyDefaults()
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	cfg := b.cfg
	cfg.Ansible.Playbooks = slices.Clone(b.cfg.Ansible.Playbooks)
	if cfg.Ansible.Playbooks == nil {
		cfg.Ansible.Playbooks = []config.Playbook{}
	}
	return &ConfigBuilder{dir: b.dir, cfg: cfg}
}

// Dir returns the directory the builder's paths are rooted in.
func (b *ConfigBuilder) Dir() string {
	return b.dir
}
