package handlers

import (
	"fmt"
	"path/filepath"

	"github.com/imamik/kspray/internal/templatepatch"
)

// PatchDNSOptions controls the patch-dns command.
type PatchDNSOptions struct {
	Options

	// Dir defaults to the control-plane templates of the configured Kubespray checkout.
	Dir     string
	Address string
	DryRun  bool
}

// PatchDNS pins the kubelet cluster DNS in the Kubespray templates.
func PatchDNS(opts PatchDNSOptions) error {
	dir := opts.Dir
	if dir == "" {
		cfg, _, err := loadConfig(opts.ConfigPath)
		if err != nil {
			return err
		}
		dir = filepath.Join(cfg.Ansible.WorkDir, templatepatch.DefaultTemplatesDir)
	}

	results, err := templatepatch.PatchDir(dir, templatepatch.Options{
		Address: opts.Address,
		DryRun:  opts.DryRun,
	})
	if err != nil {
		return err
	}

	st := newStyles()
	for _, r := range results {
		if r.Patched() {
			fmt.Fprintf(stdout, "  %s %s (%d)\n", st.ok.Render("patched  "), r.Path, r.Replacements)
		} else {
			fmt.Fprintf(stdout, "  %s %s\n", st.dim.Render("unchanged"), r.Path)
		}
	}

	patched, unchanged := templatepatch.Summary(results)
	verb := "Patched"
	if opts.DryRun {
		verb = "Would patch"
	}
	fmt.Fprintf(stdout, "\n%s %d file(s), %d unchanged.\n", verb, patched, unchanged)
	return nil
}
