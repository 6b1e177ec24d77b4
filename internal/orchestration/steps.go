package orchestration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/imamik/kspray/internal/config"
	"github.com/imamik/kspray/internal/k8s"
	"github.com/imamik/kspray/internal/logging"
	"github.com/imamik/kspray/internal/pipeline"
	"github.com/imamik/kspray/internal/platform/command"
	"github.com/imamik/kspray/internal/util/prerequisites"
)

// verifyPollInterval is how often node readiness is polled.
var verifyPollInterval = 5 * time.Second

func (i *Installer) checkPrerequisites(ctx *pipeline.Context) error {
	if !config.Enabled(i.config.PrerequisitesCheckEnabled, true) {
		return pipeline.Skip("prerequisites check disabled")
	}

	results := i.deps.CheckTools(prerequisites.ToolsFor(prerequisites.Options{
		TerraformBinary: i.config.Provisioning.TerraformBinary,
		RunTerraform:    i.config.Provisioning.TerraformDir != "" || i.config.Storage.TerraformDir != "",
		PlaybookBinary:  i.config.Ansible.PlaybookBinary,
	}))

	for _, r := range results.Results {
		switch {
		case r.Found:
			ctx.Log.V(1).Info("tool found", "tool", r.Tool.Name, logging.KeyPath, r.Path, "version", r.Version)
		case !r.Tool.Required:
			ctx.Log.Info("optional tool not found", "tool", r.Tool.Name, "install", r.Tool.InstallURL)
		}
	}
	return results.Error()
}

func (i *Installer) captureProvisioningOutput(ctx *pipeline.Context) error {
	p := i.config.Provisioning
	if p.TerraformDir == "" {
		return pipeline.Skip("no terraform_dir, using " + p.OutputFile)
	}
	return i.captureOutput(ctx, p.TerraformDir, p.OutputFile)
}

func (i *Installer) captureStorageOutput(ctx *pipeline.Context) error {
	s := i.config.Storage
	if s.TerraformDir == "" {
		if s.OutputFile != "" {
			return pipeline.Skip("no storage terraform_dir, using " + s.OutputFile)
		}
		return pipeline.Skip("object storage not configured")
	}
	return i.captureOutput(ctx, s.TerraformDir, s.OutputFile)
}

func (i *Installer) captureOutput(ctx *pipeline.Context, dir, dest string) error {
	tctx, cancel := context.WithTimeout(ctx, timeoutsOf(ctx).TerraformOutput)
	defer cancel()

	ctx.Log.Info("capturing terraform output", logging.KeyPath, dir)
	if err := command.WriteTerraformOutput(tctx, i.deps.Runner, i.config.Provisioning.TerraformBinary, dir, dest); err != nil {
		return err
	}
	ctx.Log.V(1).Info("terraform output written", logging.KeyPath, dest)
	return nil
}

func (i *Installer) publishArtifacts(ctx *pipeline.Context) error {
	s := i.config.Storage
	if !s.Enabled() || (!s.VerifyBucket && !s.UploadArtifacts) {
		return pipeline.Skip("object storage not used")
	}
	if i.state.Storage == nil {
		return errors.New("object storage credentials have not been loaded")
	}

	sctx, cancel := context.WithTimeout(ctx, timeoutsOf(ctx).ObjectStorage)
	defer cancel()

	store, err := i.deps.NewObjectStore(sctx, i.state.Storage)
	if err != nil {
		return err
	}

	if s.VerifyBucket {
		exists, err := store.BucketExists(sctx)
		if err != nil {
			return fmt.Errorf("failed to check bucket %s: %w", store.Bucket(), err)
		}
		if !exists {
			return fmt.Errorf("bucket %s does not exist", store.Bucket())
		}
		ctx.Log.Info("bucket reachable", logging.KeyBucket, store.Bucket())
	}

	if s.UploadArtifacts {
		keys, err := store.UploadFiles(sctx, s.ArtifactPrefix, i.state.Artifacts)
		if err != nil {
			return fmt.Errorf("failed to upload artifacts: %w", err)
		}
		ctx.Log.Info("artifacts uploaded", logging.KeyBucket, store.Bucket(), "objects", keys)
	}
	return nil
}

func (i *Installer) playbookStep(pb config.Playbook) pipeline.Step {
	return pipeline.Func(PlaybookStepName(pb.Name), func(ctx *pipeline.Context) error {
		inventoryPath, err := filepath.Abs(i.config.Inventory.Path)
		if err != nil {
			return fmt.Errorf("failed to resolve inventory path: %w", err)
		}

		runCtx := context.Context(ctx)
		if limit := timeoutsOf(ctx).Playbook; limit > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, limit)
			defer cancel()
		}

		a := i.config.Ansible
		opts := command.PlaybookOptions{
			Binary:            a.PlaybookBinary,
			Inventory:         inventoryPath,
			Playbook:          pb.Path,
			WorkDir:           a.WorkDir,
			VaultPasswordFile: a.VaultPasswordFile,
			ExtraArgs:         slices.Concat(a.ExtraArgs, pb.ExtraArgs),
			HostKeyChecking:   config.Enabled(a.HostKeyChecking, false),
			Stdout:            i.deps.Stdout,
			Stderr:            i.deps.Stderr,
		}

		ctx.Log.Info("running playbook", logging.KeyPlaybook, pb.Path)
		return command.RunPlaybook(runCtx, i.deps.Runner, opts)
	})
}

func (i *Installer) verifyCluster(ctx *pipeline.Context) error {
	if !config.Enabled(i.config.Verify.Enabled, true) {
		return pipeline.Skip("verification disabled")
	}

	path := i.config.Kubeconfig.Destination
	if i.state.Kubeconfig == nil {
		if _, err := os.Stat(path); err != nil {
			return pipeline.Skip("no kubeconfig at " + path)
		}
	}

	client, err := i.deps.NewClientset(path)
	if err != nil {
		return err
	}

	limit := timeoutsOf(ctx).Verify
	vctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	if topo, err := i.topology(); err == nil {
		if err := k8s.WaitForNodesReady(vctx, client, len(topo.Nodes()), verifyPollInterval, limit); err != nil {
			return err
		}
	}

	summary, err := k8s.Verify(vctx, client)
	if err != nil {
		return err
	}
	i.state.Summary = summary

	ctx.Log.Info("cluster verified",
		"version", summary.ServerVersion,
		"nodes", len(summary.Nodes),
		"ready", summary.ReadyNodes(),
		"pods", summary.Pods,
		"running", summary.RunningPods)
	return nil
}
