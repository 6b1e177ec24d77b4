package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/kspray/internal/orchestration"
)

// KubeconfigOptions controls the kubeconfig command.
type KubeconfigOptions struct {
	Options

	// Verify checks the cluster after installing, through the tunnel when enabled.
	Verify bool
}

// Kubeconfig installs the admin kubeconfig fetched by the playbooks.
func Kubeconfig(ctx context.Context, opts KubeconfigOptions) error {
	s, err := newSession(opts.Options)
	if err != nil {
		return err
	}
	defer s.close()

	only := []string{orchestration.StepKubeconfig}
	if opts.Verify {
		only = append(only, orchestration.StepTunnel, orchestration.StepVerify)
	}

	installer := s.installer()
	steps, err := orchestration.Filter(installer.Steps(), only, nil)
	if err != nil {
		return err
	}

	results, err := installer.Run(s.pipelineContext(ctx), steps)
	printResults(results)
	if err != nil {
		return err
	}

	state := installer.State()
	if state.Kubeconfig == nil {
		return fmt.Errorf("admin kubeconfig not found at %s; run 'kspray apply' first", s.cfg.Kubeconfig.Source)
	}
	fmt.Fprintf(stdout, "Kubeconfig written to %s\n", state.Kubeconfig.Path)
	if state.Kubeconfig.Server != "" {
		fmt.Fprintf(stdout, "API server: %s\n", state.Kubeconfig.Server)
	}
	return nil
}
