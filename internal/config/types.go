package config

// Config holds the complete run configuration.
type Config struct {
	ClusterName  string             `yaml:"cluster_name"`
	Provisioning ProvisioningConfig `yaml:"provisioning"`
	Inventory    InventoryConfig    `yaml:"inventory"`
	Etcd         EtcdConfig         `yaml:"etcd"`
	Storage      StorageConfig      `yaml:"storage,omitempty"`
	Ansible      AnsibleConfig      `yaml:"ansible"`
	Tunnel       TunnelConfig       `yaml:"tunnel"`
	Kubeconfig   KubeconfigConfig   `yaml:"kubeconfig"`
	Verify       VerifyConfig       `yaml:"verify"`
	Metrics      MetricsConfig      `yaml:"metrics,omitempty"`
	Logging      LoggingConfig      `yaml:"logging"`

	// PrerequisitesCheckEnabled controls the PATH check for required tools (default: true).
	PrerequisitesCheckEnabled *bool `yaml:"prerequisites_check_enabled,omitempty"`
}

// ProvisioningConfig locates the Terraform output describing the nodes.
type ProvisioningConfig struct {
	// TerraformDir is where `terraform output -json` is run. When empty,
	// OutputFile is expected to exist already.
	TerraformDir    string `yaml:"terraform_dir,omitempty"`
	TerraformBinary string `yaml:"terraform_binary"`
	OutputFile      string `yaml:"output_file"`
}

// InventoryConfig controls how the inventory is assembled.
type InventoryConfig struct {
	Path                    string                 `yaml:"path"`
	SSHUser                 string                 `yaml:"ssh_user"`
	APIPort                 int                    `yaml:"api_port"`
	APIAddress              string                 `yaml:"api_address"` // private or public
	NetworkPlugin           string                 `yaml:"network_plugin"`
	SubnetPrefixLength      int                    `yaml:"subnet_prefix_length"`
	PythonInterpreter       string                 `yaml:"python_interpreter"`
	KubeadmInitRetryTimeout int                    `yaml:"kubeadm_init_retry_timeout"`
	SSHCommonArgs           string                 `yaml:"ssh_common_args,omitempty"`
	ExtraVars               map[string]interface{} `yaml:"extra_vars,omitempty"`
}

// EtcdConfig is written to group_vars/etcd.yml.
type EtcdConfig struct {
	DeploymentType string `yaml:"deployment_type"`
	DataDir        string `yaml:"data_dir"`
}

// StorageConfig locates the optional second Terraform output carrying
// object-storage credentials.
type StorageConfig struct {
	TerraformDir string `yaml:"terraform_dir,omitempty"`
	OutputFile   string `yaml:"output_file,omitempty"`

	// VerifyBucket checks that the bucket is reachable before the playbooks run.
	VerifyBucket bool `yaml:"verify_bucket,omitempty"`

	// UploadArtifacts copies the generated inventory into the bucket.
	UploadArtifacts bool   `yaml:"upload_artifacts,omitempty"`
	ArtifactPrefix  string `yaml:"artifact_prefix,omitempty"`
}

// Enabled reports whether a storage source is configured.
func (s StorageConfig) Enabled() bool {
	return s.TerraformDir != "" || s.OutputFile != ""
}

// AnsibleConfig controls playbook invocation.
type AnsibleConfig struct {
	PlaybookBinary string `yaml:"playbook_binary"`

	// WorkDir is the Kubespray checkout the playbooks are run from.
	WorkDir           string     `yaml:"work_dir,omitempty"`
	VaultPasswordFile string     `yaml:"vault_password_file,omitempty"`
	ExtraArgs         []string   `yaml:"extra_args,omitempty"`
	HostKeyChecking   *bool      `yaml:"host_key_checking,omitempty"`
	Playbooks         []Playbook `yaml:"playbooks"`
}

// Playbook is one entry of the ordered playbook sequence.
type Playbook struct {
	Name      string   `yaml:"name"`
	Path      string   `yaml:"path"`
	ExtraArgs []string `yaml:"extra_args,omitempty"`
}

// DefaultPlaybooks is the sequence run by a stock installation.
func DefaultPlaybooks() []Playbook {
	return []Playbook{
		{Name: "add-ssh-keys", Path: "add_ssh_keys.yml"},
		{Name: "install-kube-tools", Path: "install_kube_tools.yml"},
		{Name: "cluster", Path: "playbooks/cluster.yml"},
		{Name: "create-kubeadm", Path: "create_kubeadm.yml"},
	}
}

// TunnelConfig describes the SSH tunnel to the primary control-plane node,
// used when its API port is not reachable directly.
type TunnelConfig struct {
	Enabled bool `yaml:"enabled"`

	// User defaults to the inventory SSH user.
	User           string `yaml:"user,omitempty"`
	PrivateKeyPath string `yaml:"private_key_path,omitempty"`
	SSHPort        int    `yaml:"ssh_port,omitempty"`

	// LocalPort defaults to the API port.
	LocalPort int `yaml:"local_port,omitempty"`

	// KnownHostsPath enables host key verification when set.
	KnownHostsPath string `yaml:"known_hosts_path,omitempty"`
}

// KubeconfigConfig controls installation of the admin kubeconfig.
type KubeconfigConfig struct {
	// Source defaults to <inventory dir>/artifacts/admin.conf.
	Source      string `yaml:"source,omitempty"`
	Destination string `yaml:"destination"`

	// Server replaces the API server URL. When empty and the tunnel is
	// enabled, the local tunnel endpoint is used.
	Server string `yaml:"server,omitempty"`

	// UsePublicAddress points the kubeconfig at the primary node's public address.
	UsePublicAddress bool `yaml:"use_public_address,omitempty"`

	ShellProfile       string `yaml:"shell_profile"`
	UpdateShellProfile *bool  `yaml:"update_shell_profile,omitempty"`
	ClearCache         *bool  `yaml:"clear_cache,omitempty"`
}

// VerifyConfig controls the post-install cluster check.
type VerifyConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// MetricsConfig controls the step-metrics export.
type MetricsConfig struct {
	// Textfile is written in Prometheus text format for the node-exporter textfile collector.
	Textfile string `yaml:"textfile,omitempty"`
}

// LoggingConfig controls the run log.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // auto, console or json
}

// Enabled returns the value of an optional flag, defaulting to def.
func Enabled(flag *bool, def bool) bool {
	if flag == nil {
		return def
	}
	return *flag
}
