package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"k8s.io/client-go/kubernetes"

	"github.com/imamik/kspray/internal/config"
	"github.com/imamik/kspray/internal/inventory"
	"github.com/imamik/kspray/internal/k8s"
	"github.com/imamik/kspray/internal/pipeline"
	"github.com/imamik/kspray/internal/platform/command"
	"github.com/imamik/kspray/internal/platform/s3"
	"github.com/imamik/kspray/internal/storage"
	"github.com/imamik/kspray/internal/topology"
	"github.com/imamik/kspray/internal/util/prerequisites"
)

// Step names of the apply pipeline.
const (
	StepPrerequisites      = "prerequisites"
	StepProvisioningOutput = "provisioning-output"
	StepStorageOutput      = "storage-output"
	StepInventory          = "inventory"
	StepArtifacts          = "artifacts"
	StepTunnel             = "tunnel"
	StepKubeconfig         = "kubeconfig"
	StepVerify             = "verify"
)

// PlaybookStepName returns the step name of the named playbook.
func PlaybookStepName(name string) string {
	return "playbook-" + name
}

// ObjectStore is the part of the S3 client the artifacts step uses.
type ObjectStore interface {
	Bucket() string
	BucketExists(ctx context.Context) (bool, error)
	UploadFiles(ctx context.Context, prefix string, files []string) ([]string, error)
}

// Tunnel is an open local forward to the API server.
type Tunnel interface {
	LocalAddr() string
	LocalPort() int
	RemoteAddr() string
	Wait(ctx context.Context, attempts int, interval time.Duration) error
	Close() error
}

// Dependencies are the external effects of a run.
type Dependencies struct {
	Runner         command.Runner
	CheckTools     func(tools []prerequisites.Tool) *prerequisites.CheckResults
	NewObjectStore func(ctx context.Context, creds *storage.Credentials) (ObjectStore, error)
	OpenTunnel     func(ctx context.Context, req TunnelRequest) (Tunnel, error)
	NewClientset   func(kubeconfigPath string) (kubernetes.Interface, error)

	// Stdout and Stderr receive playbook output.
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultDependencies returns the production implementations.
func DefaultDependencies() Dependencies {
	return Dependencies{
		Runner:         command.ExecRunner{},
		CheckTools:     prerequisites.Check,
		NewObjectStore: newS3Store,
		OpenTunnel:     openSSHTunnel,
		NewClientset:   k8s.NewClientset,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
	}
}

func newS3Store(ctx context.Context, creds *storage.Credentials) (ObjectStore, error) {
	client, err := s3.NewClient(ctx, creds)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (d Dependencies) withDefaults() Dependencies {
	def := DefaultDependencies()
	if d.Runner == nil {
		d.Runner = def.Runner
	}
	if d.CheckTools == nil {
		d.CheckTools = def.CheckTools
	}
	if d.NewObjectStore == nil {
		d.NewObjectStore = def.NewObjectStore
	}
	if d.OpenTunnel == nil {
		d.OpenTunnel = def.OpenTunnel
	}
	if d.NewClientset == nil {
		d.NewClientset = def.NewClientset
	}
	if d.Stdout == nil {
		d.Stdout = def.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = def.Stderr
	}
	return d
}

// State is what the steps of one run hand to each other.
type State struct {
	Topology  *topology.Topology
	Routes    topology.RouteTable
	Inventory *inventory.Document
	Storage   *storage.Credentials

	// Artifacts are the written inventory files safe to upload. The
	// object-storage vars are never included.
	Artifacts []string

	Tunnel     Tunnel
	Kubeconfig *k8s.InstallResult
	Summary    *k8s.ClusterSummary
}

// Installer runs the installation workflow for one configuration.
type Installer struct {
	config *config.Config
	deps   Dependencies
	state  *State
}

// NewInstaller creates an installer. Unset dependencies fall back to
// DefaultDependencies.
func NewInstaller(cfg *config.Config, deps Dependencies) *Installer {
	return &Installer{
		config: cfg,
		deps:   deps.withDefaults(),
		state:  &State{},
	}
}

// State returns the state accumulated by the steps run so far.
func (i *Installer) State() *State {
	return i.state
}

// Steps returns the full apply pipeline.
func (i *Installer) Steps() []pipeline.Step {
	steps := []pipeline.Step{
		pipeline.Func(StepPrerequisites, i.checkPrerequisites),
		pipeline.Func(StepProvisioningOutput, i.captureProvisioningOutput),
		pipeline.Func(StepStorageOutput, i.captureStorageOutput),
		pipeline.Func(StepInventory, i.writeInventory),
		pipeline.Func(StepArtifacts, i.publishArtifacts),
	}
	for _, pb := range i.config.Ansible.Playbooks {
		steps = append(steps, i.playbookStep(pb))
	}
	return append(steps,
		pipeline.Func(StepTunnel, i.openTunnel),
		pipeline.Func(StepKubeconfig, i.installKubeconfig),
		pipeline.Func(StepVerify, i.verifyCluster),
	)
}

// Run executes steps and closes the tunnel when they end.
func (i *Installer) Run(ctx *pipeline.Context, steps []pipeline.Step) ([]pipeline.Result, error) {
	defer func() {
		if err := i.Close(); err != nil {
			ctx.Log.Error(err, "failed to close tunnel")
		}
	}()
	return pipeline.Run(ctx, steps)
}

// Close releases the tunnel, if one is open.
func (i *Installer) Close() error {
	if i.state.Tunnel == nil {
		return nil
	}
	err := i.state.Tunnel.Close()
	i.state.Tunnel = nil
	return err
}

// Filter keeps the steps named in only (all when empty) minus those in
// skip. Unknown names are rejected.
func Filter(steps []pipeline.Step, only, skip []string) ([]pipeline.Step, error) {
	known := make(map[string]bool, len(steps))
	for _, s := range steps {
		known[s.Name()] = true
	}

	var unknown []string
	for _, name := range slices.Concat(only, skip) {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown steps: %s", strings.Join(unknown, ", "))
	}

	var filtered []pipeline.Step
	for _, s := range steps {
		if len(only) > 0 && !slices.Contains(only, s.Name()) {
			continue
		}
		if slices.Contains(skip, s.Name()) {
			continue
		}
		filtered = append(filtered, s)
	}
	if len(filtered) == 0 {
		return nil, errors.New("no steps left to run")
	}
	return filtered, nil
}

func timeoutsOf(ctx *pipeline.Context) *config.Timeouts {
	if ctx.Timeouts != nil {
		return ctx.Timeouts
	}
	return config.LoadTimeouts()
}
