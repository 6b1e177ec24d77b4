package config

// Defaults mirrored from a stock Kubespray checkout.
const (
	// KubeAPIPort is the standard Kubernetes API server port.
	KubeAPIPort = 6443

	DefaultInventoryPath     = "inventory/mycluster/hosts.yaml"
	DefaultSSHUser           = "ubuntu"
	DefaultNetworkPlugin     = "calico"
	DefaultPythonInterpreter = "/usr/bin/python3"
	DefaultSubnetPrefix      = 24
	DefaultKubeadmRetry      = 600

	DefaultTerraformBinary = "terraform"
	DefaultOutputFile      = "terraform-output.json"
	DefaultStorageOutput   = "storage-output.json"
	DefaultPlaybookBinary  = "ansible-playbook"

	DefaultEtcdDeploymentType = "host"
	DefaultEtcdDataDir        = "/var/lib/etcd"

	DefaultSSHPort        = 22
	DefaultPrivateKeyPath = "~/.ssh/id_rsa"

	DefaultKubeconfigDestination = "~/.kube/config"
	DefaultShellProfile          = "~/.bashrc"
)
