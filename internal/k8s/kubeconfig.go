package k8s

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// ErrSourceNotFound is returned when the admin kubeconfig has not been
// fetched by the playbooks.
var ErrSourceNotFound = errors.New("admin kubeconfig not found")

// InstallOptions describes where the admin kubeconfig comes from and goes to.
type InstallOptions struct {
	Source      string
	Destination string

	// Server replaces the API server URL when set.
	Server string

	// ClearCache removes the discovery cache next to Destination.
	ClearCache bool
}

// InstallResult reports what InstallKubeconfig changed.
type InstallResult struct {
	Path           string
	Server         string
	ClustersEdited []string
	CacheCleared   bool
}

// InstallKubeconfig copies the admin kubeconfig to its destination with
// mode 0600, optionally pointing it at a different API server. A missing
// source returns ErrSourceNotFound and leaves the destination untouched.
func InstallKubeconfig(opts InstallOptions) (*InstallResult, error) {
	if _, err := os.Stat(opts.Source); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, opts.Source)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", opts.Source, err)
	}

	cfg, err := clientcmd.LoadFromFile(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig %s: %w", opts.Source, err)
	}

	result := &InstallResult{Path: opts.Destination}
	if opts.Server != "" {
		edited, err := RewriteServer(cfg, opts.Server)
		if err != nil {
			return nil, err
		}
		result.Server = opts.Server
		result.ClustersEdited = edited
	}

	if err := os.MkdirAll(filepath.Dir(opts.Destination), 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", opts.Destination, err)
	}
	if err := clientcmd.WriteToFile(*cfg, opts.Destination); err != nil {
		return nil, fmt.Errorf("failed to write kubeconfig %s: %w", opts.Destination, err)
	}
	if err := os.Chmod(opts.Destination, 0600); err != nil {
		return nil, fmt.Errorf("failed to set permissions on %s: %w", opts.Destination, err)
	}

	if opts.ClearCache {
		cacheDir := filepath.Join(filepath.Dir(opts.Destination), "cache")
		if err := os.RemoveAll(cacheDir); err != nil {
			return nil, fmt.Errorf("failed to clear kubeconfig cache %s: %w", cacheDir, err)
		}
		result.CacheCleared = true
	}

	return result, nil
}

// RewriteServer points the cluster of the current context at server. When
// the config has no current context every cluster is rewritten. It returns
// the names of the edited clusters, sorted.
func RewriteServer(cfg *clientcmdapi.Config, server string) ([]string, error) {
	if _, err := url.ParseRequestURI(server); err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", server, err)
	}
	if len(cfg.Clusters) == 0 {
		return nil, errors.New("kubeconfig has no clusters")
	}

	if cfg.CurrentContext != "" {
		kctx, ok := cfg.Contexts[cfg.CurrentContext]
		if !ok {
			return nil, fmt.Errorf("current context %q not found in kubeconfig", cfg.CurrentContext)
		}
		cluster, ok := cfg.Clusters[kctx.Cluster]
		if !ok {
			return nil, fmt.Errorf("cluster %q of context %q not found in kubeconfig", kctx.Cluster, cfg.CurrentContext)
		}
		cluster.Server = server
		return []string{kctx.Cluster}, nil
	}

	names := make([]string, 0, len(cfg.Clusters))
	for name, cluster := range cfg.Clusters {
		cluster.Server = server
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ServerURL builds the https URL of an API server endpoint.
func ServerURL(host string, port int) string {
	return "https://" + net.JoinHostPort(host, strconv.Itoa(port))
}
