package inventory

import (
	"os"
	"path/filepath"

	"github.com/imamik/kspray/internal/storage"
)

// EtcdVars configures how Kubespray deploys etcd.
type EtcdVars struct {
	DeploymentType string `yaml:"etcd_deployment_type"`
	DataDir        string `yaml:"etcd_data_dir"`
}

// ObjectStorageVars exposes object-storage credentials to the playbooks.
type ObjectStorageVars struct {
	AccessKey string `yaml:"s3_access_key"`
	SecretKey string `yaml:"s3_secret_key"`
	Bucket    string `yaml:"s3_bucket"`
	Endpoint  string `yaml:"s3_endpoint,omitempty"`
	Region    string `yaml:"s3_region,omitempty"`
}

// GroupVarsDir returns the group_vars directory next to the inventory file.
func GroupVarsDir(inventoryPath string) string {
	return filepath.Join(filepath.Dir(inventoryPath), "group_vars")
}

// WriteEtcdVars writes group_vars/etcd.yml and returns its path.
func WriteEtcdVars(inventoryPath string, vars EtcdVars) (string, error) {
	path := filepath.Join(GroupVarsDir(inventoryPath), "etcd.yml")
	return path, writeGroupVars(path, vars, 0644)
}

// WriteObjectStorageVars writes group_vars/all/object_storage.yml, readable by
// the owner only, and returns its path.
func WriteObjectStorageVars(inventoryPath string, creds storage.Credentials) (string, error) {
	path := filepath.Join(GroupVarsDir(inventoryPath), "all", "object_storage.yml")
	vars := ObjectStorageVars{
		AccessKey: creds.AccessKey,
		SecretKey: creds.SecretKey,
		Bucket:    creds.Bucket,
		Endpoint:  creds.Endpoint,
		Region:    creds.Region,
	}
	return path, writeGroupVars(path, vars, 0600)
}

func writeGroupVars(path string, vars interface{}, perm os.FileMode) error {
	data, err := marshalYAML(vars)
	if err != nil {
		return err
	}
	return writeFile(path, data, perm)
}
