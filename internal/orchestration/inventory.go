package orchestration

import (
	"fmt"

	"github.com/imamik/kspray/internal/config"
	"github.com/imamik/kspray/internal/inventory"
	"github.com/imamik/kspray/internal/logging"
	"github.com/imamik/kspray/internal/pipeline"
	"github.com/imamik/kspray/internal/storage"
	"github.com/imamik/kspray/internal/topology"
)

// BuildInventory reads the provisioning outputs and assembles the inventory
// in memory. Nothing is written, so invalid input leaves existing files alone.
func (i *Installer) BuildInventory() (*inventory.Document, error) {
	topo, err := topology.ParseFile(i.config.Provisioning.OutputFile)
	if err != nil {
		return nil, err
	}

	routes, err := topology.DeriveRoutes(topo, i.config.Inventory.SubnetPrefixLength)
	if err != nil {
		return nil, err
	}

	doc, err := inventory.Assemble(topo, routes, InventoryOptions(i.config))
	if err != nil {
		return nil, fmt.Errorf("failed to assemble inventory: %w", err)
	}

	var creds *storage.Credentials
	if i.config.Storage.Enabled() {
		creds, err = storage.ParseFile(i.config.Storage.OutputFile)
		if err != nil {
			return nil, err
		}
	}

	i.state.Topology = topo
	i.state.Routes = routes
	i.state.Inventory = doc
	i.state.Storage = creds
	return doc, nil
}

// WriteInventory writes what BuildInventory assembled: the hosts file, the
// etcd vars and, with object storage configured, the storage vars. It
// returns every written path.
func (i *Installer) WriteInventory() ([]string, error) {
	if i.state.Inventory == nil {
		return nil, fmt.Errorf("inventory has not been built")
	}

	path := i.config.Inventory.Path
	if err := i.state.Inventory.Write(path); err != nil {
		return nil, err
	}
	written := []string{path}

	etcdPath, err := inventory.WriteEtcdVars(path, inventory.EtcdVars{
		DeploymentType: i.config.Etcd.DeploymentType,
		DataDir:        i.config.Etcd.DataDir,
	})
	if err != nil {
		return written, err
	}
	written = append(written, etcdPath)
	i.state.Artifacts = []string{path, etcdPath}

	if i.state.Storage != nil {
		storagePath, err := inventory.WriteObjectStorageVars(path, *i.state.Storage)
		if err != nil {
			return written, err
		}
		written = append(written, storagePath)
	}
	return written, nil
}

// InventoryOptions maps the inventory settings onto assembler options.
func InventoryOptions(cfg *config.Config) inventory.Options {
	inv := cfg.Inventory
	return inventory.Options{
		SSHUser:                 inv.SSHUser,
		APIPort:                 inv.APIPort,
		NetworkPlugin:           inv.NetworkPlugin,
		PythonInterpreter:       inv.PythonInterpreter,
		APIAddress:              inventory.APIAddress(inv.APIAddress),
		KubeadmInitRetryTimeout: inv.KubeadmInitRetryTimeout,
		SSHCommonArgs:           inv.SSHCommonArgs,
		ExtraVars:               inv.ExtraVars,
	}
}

func (i *Installer) writeInventory(ctx *pipeline.Context) error {
	doc, err := i.BuildInventory()
	if err != nil {
		return err
	}
	written, err := i.WriteInventory()
	if err != nil {
		return err
	}

	ctx.Log.Info("inventory written",
		logging.KeyPath, i.config.Inventory.Path,
		"hosts", doc.All.Hosts.Len(),
		"files", len(written))
	return nil
}

// topology returns the parsed node topology, reading the output file when
// no earlier step has.
func (i *Installer) topology() (*topology.Topology, error) {
	if i.state.Topology != nil {
		return i.state.Topology, nil
	}
	topo, err := topology.ParseFile(i.config.Provisioning.OutputFile)
	if err != nil {
		return nil, err
	}
	i.state.Topology = topo
	return topo, nil
}
