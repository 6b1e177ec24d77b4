package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/kspray/internal/orchestration"
	"github.com/imamik/kspray/internal/pipeline"
)

// ApplyOptions selects the steps of an apply run.
type ApplyOptions struct {
	Options

	// Only runs just the named steps; Skip leaves the named steps out.
	Only []string
	Skip []string
}

// Apply runs the installation pipeline.
//
// The pipeline captures the Terraform outputs, writes the Kubespray
// inventory, runs the configured playbooks, optionally opens the SSH tunnel,
// installs the admin kubeconfig and verifies the cluster. It stops at the
// first failing step and reports it by name.
func Apply(ctx context.Context, opts ApplyOptions) error {
	s, err := newSession(opts.Options)
	if err != nil {
		return err
	}
	defer s.close()

	installer := s.installer()
	steps, err := orchestration.Filter(installer.Steps(), opts.Only, opts.Skip)
	if err != nil {
		return err
	}

	s.log.Info("applying configuration", "steps", len(steps))
	results, err := installer.Run(s.pipelineContext(ctx), steps)
	printResults(results)
	if err != nil {
		return err
	}

	printApplySuccess(s, installer.State())
	return nil
}

func printResults(results []pipeline.Result) {
	if len(results) == 0 {
		return
	}
	st := newStyles()
	fmt.Fprintln(stdout)
	for _, r := range results {
		var mark string
		switch r.Status {
		case pipeline.StatusCompleted:
			mark = st.ok.Render("✓")
		case pipeline.StatusSkipped:
			mark = st.dim.Render("-")
		default:
			mark = st.fail.Render("✗")
		}
		line := fmt.Sprintf("  %s %-28s %8s", mark, r.Step, r.Duration.Round(time.Millisecond))
		if r.Reason != "" {
			line += "  " + st.dim.Render(r.Reason)
		}
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout)
}

func printApplySuccess(s *session, state *orchestration.State) {
	st := newStyles()
	fmt.Fprintln(stdout, st.title.Render("Cluster "+s.cfg.ClusterName+" applied"))
	fmt.Fprintf(stdout, "  Inventory:  %s\n", s.cfg.Inventory.Path)
	if state.Kubeconfig != nil {
		fmt.Fprintf(stdout, "  Kubeconfig: %s\n", state.Kubeconfig.Path)
	}
	if state.Summary != nil {
		fmt.Fprintf(stdout, "  Nodes:      %d/%d ready\n", state.Summary.ReadyNodes(), len(state.Summary.Nodes))
		fmt.Fprintf(stdout, "  Version:    %s\n", state.Summary.ServerVersion)
	}
	if s.cfg.Tunnel.Enabled {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "  The tunnel closed with this run. Run 'kspray tunnel' to reach the API server.")
	}
	fmt.Fprintln(stdout)
}
