package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/imamik/kspray/internal/config"
	"github.com/imamik/kspray/internal/k8s"
	"github.com/imamik/kspray/internal/topology"
	"github.com/imamik/kspray/internal/util/netutil"
	"github.com/imamik/kspray/internal/util/prerequisites"
)

// DoctorReport is the outcome of the doctor checks.
type DoctorReport struct {
	ConfigFile  string         `json:"configFile,omitempty"`
	ClusterName string         `json:"clusterName"`
	Tools       []ToolStatus   `json:"tools"`
	Files       []FileStatus   `json:"files"`
	SSH         *SSHStatus     `json:"ssh,omitempty"`
	Cluster     *ClusterStatus `json:"cluster,omitempty"`
}

// ToolStatus reports one external tool.
type ToolStatus struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
}

// FileStatus reports one input or output file.
type FileStatus struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Exists   bool   `json:"exists"`
	Required bool   `json:"required"`
}

// SSHStatus reports whether the tunnel host accepts TCP connections on its SSH port.
type SSHStatus struct {
	Address   string `json:"address"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

// ClusterStatus reports the API server reached through the installed kubeconfig.
type ClusterStatus struct {
	Reachable  bool   `json:"reachable"`
	Version    string `json:"version,omitempty"`
	Nodes      int    `json:"nodes"`
	ReadyNodes int    `json:"readyNodes"`
	Pods       int    `json:"pods"`
	Error      string `json:"error,omitempty"`
}

// Factory function variables for doctor - can be replaced in tests.
var (
	checkTools   = prerequisites.Check
	newClientset = k8s.NewClientset
	waitForPort  = netutil.WaitForPort
)

const (
	doctorClusterTimeout = 10 * time.Second
	doctorSSHTimeout     = 5 * time.Second
)

// Doctor checks tools, files and, when a kubeconfig is installed, the
// cluster. It fails when a required tool or file is missing.
func Doctor(ctx context.Context, opts Options, jsonOutput bool) error {
	cfg, path, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	report := &DoctorReport{
		ConfigFile:  path,
		ClusterName: cfg.ClusterName,
		Tools:       toolStatuses(cfg),
		Files:       fileStatuses(cfg),
	}
	if cfg.Tunnel.Enabled && fileExists(cfg.Provisioning.OutputFile) {
		report.SSH = probeSSH(ctx, cfg)
	}
	if fileExists(cfg.Kubeconfig.Destination) {
		report.Cluster = probeCluster(ctx, cfg.Kubeconfig.Destination)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
	} else {
		printDoctor(report)
	}

	return report.problems()
}

func toolStatuses(cfg *config.Config) []ToolStatus {
	results := checkTools(prerequisites.ToolsFor(prerequisites.Options{
		TerraformBinary: cfg.Provisioning.TerraformBinary,
		RunTerraform:    cfg.Provisioning.TerraformDir != "" || cfg.Storage.TerraformDir != "",
		PlaybookBinary:  cfg.Ansible.PlaybookBinary,
	}))

	statuses := make([]ToolStatus, 0, len(results.Results))
	for _, r := range results.Results {
		statuses = append(statuses, ToolStatus{
			Name:     r.Tool.Name,
			Required: r.Tool.Required,
			Found:    r.Found,
			Path:     r.Path,
			Version:  r.Version,
		})
	}
	return statuses
}

func fileStatuses(cfg *config.Config) []FileStatus {
	var files []FileStatus
	add := func(name, path string, required bool) {
		if path == "" {
			return
		}
		files = append(files, FileStatus{Name: name, Path: path, Exists: fileExists(path), Required: required})
	}

	if cfg.Provisioning.TerraformDir != "" {
		add("terraform dir", cfg.Provisioning.TerraformDir, true)
	} else {
		add("provisioning output", cfg.Provisioning.OutputFile, true)
	}
	if cfg.Storage.TerraformDir != "" {
		add("storage terraform dir", cfg.Storage.TerraformDir, true)
	} else {
		add("storage output", cfg.Storage.OutputFile, true)
	}
	add("kubespray checkout", cfg.Ansible.WorkDir, true)
	add("vault password file", cfg.Ansible.VaultPasswordFile, true)
	if cfg.Tunnel.Enabled {
		add("tunnel private key", cfg.Tunnel.PrivateKeyPath, true)
		add("known hosts", cfg.Tunnel.KnownHostsPath, true)
	}
	add("inventory", cfg.Inventory.Path, false)
	add("admin kubeconfig", cfg.Kubeconfig.Source, false)
	add("kubeconfig", cfg.Kubeconfig.Destination, false)
	return files
}

func probeSSH(ctx context.Context, cfg *config.Config) *SSHStatus {
	topo, err := topology.ParseFile(cfg.Provisioning.OutputFile)
	if err != nil {
		return &SSHStatus{Error: err.Error()}
	}

	host := topo.Primary().PublicAddress.String()
	status := &SSHStatus{Address: net.JoinHostPort(host, strconv.Itoa(cfg.Tunnel.SSHPort))}
	pctx, cancel := context.WithTimeout(ctx, doctorSSHTimeout)
	defer cancel()
	if err := waitForPort(pctx, host, cfg.Tunnel.SSHPort, 1, 0); err != nil {
		status.Error = err.Error()
		return status
	}
	status.Reachable = true
	return status
}

func probeCluster(ctx context.Context, kubeconfigPath string) *ClusterStatus {
	status := &ClusterStatus{}
	client, err := newClientset(kubeconfigPath)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	pctx, cancel := context.WithTimeout(ctx, doctorClusterTimeout)
	defer cancel()
	summary, err := k8s.Verify(pctx, client)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.Reachable = true
	status.Version = summary.ServerVersion
	status.Nodes = len(summary.Nodes)
	status.ReadyNodes = summary.ReadyNodes()
	status.Pods = summary.Pods
	return status
}

func (r *DoctorReport) problems() error {
	var missing []string
	for _, t := range r.Tools {
		if t.Required && !t.Found {
			missing = append(missing, t.Name)
		}
	}
	for _, f := range r.Files {
		if f.Required && !f.Exists {
			missing = append(missing, f.Path)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.New("doctor found problems: missing " + strings.Join(missing, ", "))
}

func printDoctor(r *DoctorReport) {
	st := newStyles()
	mark := func(ok, required bool) string {
		switch {
		case ok:
			return st.ok.Render("✓")
		case required:
			return st.fail.Render("✗")
		default:
			return st.dim.Render("-")
		}
	}

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, st.title.Render("kspray doctor: "+r.ClusterName))
	if r.ConfigFile != "" {
		fmt.Fprintf(stdout, "  Config: %s\n", r.ConfigFile)
	} else {
		fmt.Fprintln(stdout, "  Config: defaults (no kspray.yaml found)")
	}

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, st.section.Render("  Tools"))
	for _, t := range r.Tools {
		detail := t.Version
		if !t.Found {
			detail = "not found"
		}
		fmt.Fprintf(stdout, "  %s %-18s %s\n", mark(t.Found, t.Required), t.Name, st.dim.Render(detail))
	}

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, st.section.Render("  Files"))
	for _, f := range r.Files {
		fmt.Fprintf(stdout, "  %s %-22s %s\n", mark(f.Exists, f.Required), f.Name, st.dim.Render(f.Path))
	}

	if ssh := r.SSH; ssh != nil {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, st.section.Render("  Tunnel"))
		if ssh.Reachable {
			fmt.Fprintf(stdout, "  %s SSH %s\n", mark(true, true), ssh.Address)
		} else {
			fmt.Fprintf(stdout, "  %s SSH %s unreachable: %s\n", mark(false, false), ssh.Address, ssh.Error)
		}
	}

	if c := r.Cluster; c != nil {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, st.section.Render("  Cluster"))
		if c.Reachable {
			fmt.Fprintf(stdout, "  %s API server %s\n", mark(true, true), c.Version)
			fmt.Fprintf(stdout, "  %s Nodes      %d/%d ready\n", mark(c.ReadyNodes == c.Nodes, true), c.ReadyNodes, c.Nodes)
			fmt.Fprintf(stdout, "    Pods       %d\n", c.Pods)
		} else {
			fmt.Fprintf(stdout, "  %s API server unreachable: %s\n", mark(false, false), c.Error)
		}
	}
	fmt.Fprintln(stdout)
}
