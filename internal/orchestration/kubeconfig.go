package orchestration

import (
	"errors"

	"github.com/imamik/kspray/internal/config"
	"github.com/imamik/kspray/internal/k8s"
	"github.com/imamik/kspray/internal/logging"
	"github.com/imamik/kspray/internal/pipeline"
	"github.com/imamik/kspray/internal/shellrc"
)

// KubeconfigEnv is the variable exported in the shell profile.
const KubeconfigEnv = "KUBECONFIG"

// KubeconfigServer returns the API server URL written into the installed
// kubeconfig, or "" to keep the one Kubespray generated.
func (i *Installer) KubeconfigServer() (string, error) {
	k := i.config.Kubeconfig
	switch {
	case k.Server != "":
		return k.Server, nil
	case i.config.Tunnel.Enabled:
		port := i.config.Tunnel.LocalPort
		if i.state.Tunnel != nil {
			port = i.state.Tunnel.LocalPort()
		}
		return k8s.ServerURL("127.0.0.1", port), nil
	case k.UsePublicAddress:
		topo, err := i.topology()
		if err != nil {
			return "", err
		}
		return k8s.ServerURL(topo.Primary().PublicAddress.String(), i.config.Inventory.APIPort), nil
	}
	return "", nil
}

// InstallKubeconfig copies the admin kubeconfig into place and exports it in
// the shell profile. A missing admin kubeconfig returns k8s.ErrSourceNotFound.
func (i *Installer) InstallKubeconfig() (*k8s.InstallResult, error) {
	server, err := i.KubeconfigServer()
	if err != nil {
		return nil, err
	}

	k := i.config.Kubeconfig
	result, err := k8s.InstallKubeconfig(k8s.InstallOptions{
		Source:      k.Source,
		Destination: k.Destination,
		Server:      server,
		ClearCache:  config.Enabled(k.ClearCache, true),
	})
	if err != nil {
		return nil, err
	}
	i.state.Kubeconfig = result

	if config.Enabled(k.UpdateShellProfile, true) {
		if _, err := shellrc.EnsureExport(k.ShellProfile, KubeconfigEnv, result.Path); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (i *Installer) installKubeconfig(ctx *pipeline.Context) error {
	result, err := i.InstallKubeconfig()
	if errors.Is(err, k8s.ErrSourceNotFound) {
		ctx.Log.Info("admin kubeconfig not found, cluster access not configured", logging.KeyPath, i.config.Kubeconfig.Source)
		return pipeline.Skip("admin kubeconfig not found at " + i.config.Kubeconfig.Source)
	}
	if err != nil {
		return err
	}

	ctx.Log.Info("kubeconfig installed",
		logging.KeyPath, result.Path,
		"server", result.Server,
		"cacheCleared", result.CacheCleared)
	return nil
}
