package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/kspray/internal/orchestration"
)

// InventoryOptions controls the inventory command.
type InventoryOptions struct {
	Options

	// Format is yaml or json.
	Format string

	// Refresh re-runs `terraform output -json` before reading the outputs.
	Refresh bool

	// Write also writes the hosts file and group vars.
	Write bool
}

// Inventory prints the inventory assembled from the provisioning outputs.
func Inventory(ctx context.Context, opts InventoryOptions) error {
	if opts.Format != "" && opts.Format != "yaml" && opts.Format != "json" {
		return fmt.Errorf("unsupported format %q, use yaml or json", opts.Format)
	}

	s, err := newSession(opts.Options)
	if err != nil {
		return err
	}
	defer s.close()

	installer := s.installer()
	if opts.Refresh {
		steps, err := orchestration.Filter(installer.Steps(),
			[]string{orchestration.StepProvisioningOutput, orchestration.StepStorageOutput}, nil)
		if err != nil {
			return err
		}
		if _, err := installer.Run(s.pipelineContext(ctx), steps); err != nil {
			return err
		}
	}

	doc, err := installer.BuildInventory()
	if err != nil {
		return err
	}

	var data []byte
	if opts.Format == "json" {
		data, err = doc.MarshalJSON()
	} else {
		data, err = doc.Marshal()
	}
	if err != nil {
		return err
	}

	if opts.Write {
		written, err := installer.WriteInventory()
		if err != nil {
			return err
		}
		for _, path := range written {
			s.log.Info("file written", "path", path)
		}
	}

	_, err = stdout.Write(data)
	return err
}
