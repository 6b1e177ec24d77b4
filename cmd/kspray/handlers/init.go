package handlers

import (
	"fmt"
	"os"

	"github.com/imamik/kspray/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// saveConfig writes the config to a file.
	saveConfig = config.Save
)

// Init writes a configuration file holding every default.
func Init(outputPath string, force bool) error {
	if fileExists(outputPath) && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", outputPath)
	}

	cfg := config.Default()
	if err := saveConfig(cfg, outputPath); err != nil {
		return err
	}

	st := newStyles()
	fmt.Fprintln(stdout, st.title.Render("Configuration saved to "+outputPath))
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Next steps:")
	fmt.Fprintln(stdout, "  1. Set provisioning.terraform_dir or provisioning.output_file")
	fmt.Fprintln(stdout, "  2. Point ansible.work_dir at your Kubespray checkout")
	fmt.Fprintln(stdout, "  3. Run 'kspray doctor', then 'kspray apply'")
	return nil
}
