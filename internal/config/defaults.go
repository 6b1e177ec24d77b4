package config

import (
	"path/filepath"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	if c.ClusterName == "" {
		c.ClusterName = "mycluster"
	}

	p := &c.Provisioning
	if p.TerraformBinary == "" {
		p.TerraformBinary = DefaultTerraformBinary
	}
	if p.OutputFile == "" {
		p.OutputFile = DefaultOutputFile
	}

	inv := &c.Inventory
	if inv.Path == "" {
		inv.Path = DefaultInventoryPath
	}
	if inv.SSHUser == "" {
		inv.SSHUser = DefaultSSHUser
	}
	if inv.APIPort == 0 {
		inv.APIPort = KubeAPIPort
	}
	if inv.APIAddress == "" {
		inv.APIAddress = "private"
	}
	if inv.NetworkPlugin == "" {
		inv.NetworkPlugin = DefaultNetworkPlugin
	}
	if inv.SubnetPrefixLength == 0 {
		inv.SubnetPrefixLength = DefaultSubnetPrefix
	}
	if inv.PythonInterpreter == "" {
		inv.PythonInterpreter = DefaultPythonInterpreter
	}
	if inv.KubeadmInitRetryTimeout == 0 {
		inv.KubeadmInitRetryTimeout = DefaultKubeadmRetry
	}

	if c.Etcd.DeploymentType == "" {
		c.Etcd.DeploymentType = DefaultEtcdDeploymentType
	}
	if c.Etcd.DataDir == "" {
		c.Etcd.DataDir = DefaultEtcdDataDir
	}

	if c.Storage.TerraformDir != "" && c.Storage.OutputFile == "" {
		c.Storage.OutputFile = DefaultStorageOutput
	}
	if c.Storage.ArtifactPrefix == "" {
		c.Storage.ArtifactPrefix = c.ClusterName
	}

	a := &c.Ansible
	if a.PlaybookBinary == "" {
		a.PlaybookBinary = DefaultPlaybookBinary
	}
	if a.Playbooks == nil {
		a.Playbooks = DefaultPlaybooks()
	}

	tun := &c.Tunnel
	if tun.User == "" {
		tun.User = inv.SSHUser
	}
	if tun.PrivateKeyPath == "" {
		tun.PrivateKeyPath = DefaultPrivateKeyPath
	}
	if tun.SSHPort == 0 {
		tun.SSHPort = DefaultSSHPort
	}
	if tun.LocalPort == 0 {
		tun.LocalPort = inv.APIPort
	}

	k := &c.Kubeconfig
	if k.Source == "" {
		k.Source = filepath.Join(filepath.Dir(inv.Path), "artifacts", "admin.conf")
	}
	if k.Destination == "" {
		k.Destination = DefaultKubeconfigDestination
	}
	if k.ShellProfile == "" {
		k.ShellProfile = DefaultShellProfile
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "auto"
	}
}

// ExpandPaths resolves a leading ~ in every path setting.
func (c *Config) ExpandPaths() error {
	paths := []*string{
		&c.Provisioning.TerraformDir,
		&c.Provisioning.OutputFile,
		&c.Inventory.Path,
		&c.Storage.TerraformDir,
		&c.Storage.OutputFile,
		&c.Ansible.WorkDir,
		&c.Ansible.VaultPasswordFile,
		&c.Tunnel.PrivateKeyPath,
		&c.Tunnel.KnownHostsPath,
		&c.Kubeconfig.Source,
		&c.Kubeconfig.Destination,
		&c.Kubeconfig.ShellProfile,
		&c.Metrics.Textfile,
	}
	for _, p := range paths {
		expanded, err := ExpandHome(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}
