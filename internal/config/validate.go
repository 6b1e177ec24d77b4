package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// playbookNameRegex keeps step names usable as metric labels and log keys.
var playbookNameRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var validLogFormats = map[string]bool{"auto": true, "console": true, "json": true}

// Validate checks the configuration once, at the boundary. It reports every
// problem found, not just the first.
func (c *Config) Validate() error {
	var errs []error

	if c.ClusterName == "" {
		errs = append(errs, errors.New("cluster_name is required"))
	}
	if c.Provisioning.OutputFile == "" {
		errs = append(errs, errors.New("provisioning.output_file is required"))
	}

	errs = append(errs, c.validateInventory()...)
	errs = append(errs, c.validateAnsible()...)
	errs = append(errs, c.validateTunnel()...)

	if c.Storage.UploadArtifacts && !c.Storage.Enabled() {
		errs = append(errs, errors.New("storage.upload_artifacts requires storage.terraform_dir or storage.output_file"))
	}
	if c.Storage.VerifyBucket && !c.Storage.Enabled() {
		errs = append(errs, errors.New("storage.verify_bucket requires storage.terraform_dir or storage.output_file"))
	}

	if c.Kubeconfig.Server != "" && c.Kubeconfig.UsePublicAddress {
		errs = append(errs, errors.New("kubeconfig.server and kubeconfig.use_public_address are mutually exclusive"))
	}
	if c.Kubeconfig.Server != "" && !strings.HasPrefix(c.Kubeconfig.Server, "https://") {
		errs = append(errs, fmt.Errorf("kubeconfig.server must be an https:// URL, got %q", c.Kubeconfig.Server))
	}

	if !validLogLevels[c.Logging.Level] {
		errs = append(errs, fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level))
	}
	if !validLogFormats[c.Logging.Format] {
		errs = append(errs, fmt.Errorf("logging.format must be one of auto, console, json; got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

func (c *Config) validateInventory() []error {
	var errs []error
	inv := c.Inventory

	if inv.Path == "" {
		errs = append(errs, errors.New("inventory.path is required"))
	}
	if inv.SSHUser == "" {
		errs = append(errs, errors.New("inventory.ssh_user is required"))
	}
	if err := validatePort("inventory.api_port", inv.APIPort); err != nil {
		errs = append(errs, err)
	}
	if inv.APIAddress != "private" && inv.APIAddress != "public" {
		errs = append(errs, fmt.Errorf("inventory.api_address must be private or public, got %q", inv.APIAddress))
	}
	if inv.NetworkPlugin == "" {
		errs = append(errs, errors.New("inventory.network_plugin is required"))
	}
	if inv.SubnetPrefixLength < 1 || inv.SubnetPrefixLength > 30 {
		errs = append(errs, fmt.Errorf("inventory.subnet_prefix_length must be between 1 and 30, got %d", inv.SubnetPrefixLength))
	}
	if inv.KubeadmInitRetryTimeout < 0 {
		errs = append(errs, fmt.Errorf("inventory.kubeadm_init_retry_timeout must not be negative, got %d", inv.KubeadmInitRetryTimeout))
	}
	return errs
}

func (c *Config) validateAnsible() []error {
	var errs []error

	if c.Ansible.PlaybookBinary == "" {
		errs = append(errs, errors.New("ansible.playbook_binary is required"))
	}

	seen := make(map[string]bool, len(c.Ansible.Playbooks))
	for i, pb := range c.Ansible.Playbooks {
		if !playbookNameRegex.MatchString(pb.Name) {
			errs = append(errs, fmt.Errorf("ansible.playbooks[%d].name %q must be lowercase alphanumeric with hyphens", i, pb.Name))
		}
		if seen[pb.Name] {
			errs = append(errs, fmt.Errorf("ansible.playbooks[%d].name %q is duplicated", i, pb.Name))
		}
		seen[pb.Name] = true
		if pb.Path == "" {
			errs = append(errs, fmt.Errorf("ansible.playbooks[%d].path is required", i))
		}
	}
	return errs
}

func (c *Config) validateTunnel() []error {
	if !c.Tunnel.Enabled {
		return nil
	}

	var errs []error
	if c.Tunnel.User == "" {
		errs = append(errs, errors.New("tunnel.user is required"))
	}
	if c.Tunnel.PrivateKeyPath == "" {
		errs = append(errs, errors.New("tunnel.private_key_path is required"))
	}
	if err := validatePort("tunnel.ssh_port", c.Tunnel.SSHPort); err != nil {
		errs = append(errs, err)
	}
	if err := validatePort("tunnel.local_port", c.Tunnel.LocalPort); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func validatePort(field string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", field, port)
	}
	return nil
}
