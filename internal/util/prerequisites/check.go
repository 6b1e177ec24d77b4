// Package prerequisites checks that the external tools a run invokes are on PATH.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string

	// VersionArgs prints the tool version on its first output line.
	VersionArgs []string
}

// Options selects the tools a run needs.
type Options struct {
	// TerraformBinary is checked when RunTerraform is set.
	TerraformBinary string
	RunTerraform    bool

	PlaybookBinary string
}

// ToolsFor returns the tools needed by a run with the given options.
func ToolsFor(opts Options) []Tool {
	var tools []Tool
	if opts.RunTerraform {
		tools = append(tools, Tool{
			Name:        opts.TerraformBinary,
			Required:    true,
			Description: "Required for reading the provisioning outputs",
			InstallURL:  "https://developer.hashicorp.com/terraform/install",
			VersionArgs: []string{"version"},
		})
	}
	tools = append(tools, Tool{
		Name:        opts.PlaybookBinary,
		Required:    true,
		Description: "Required for running the Kubespray playbooks",
		InstallURL:  "https://docs.ansible.com/ansible/latest/installation_guide/",
		VersionArgs: []string{"--version"},
	})
	return append(tools, OptionalTools()...)
}

// OptionalTools returns tools that are useful but not required.
func OptionalTools() []Tool {
	return []Tool{
		{
			Name:        "kubectl",
			Required:    false,
			Description: "Useful for inspecting the cluster after installation",
			InstallURL:  "https://kubernetes.io/docs/tasks/tools/",
			VersionArgs: []string{"version", "--client"},
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// lookPath and toolVersion are replaced in tests.
var (
	lookPath    = exec.LookPath
	toolVersion = getToolVersion
)

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := lookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			result.Version = toolVersion(path, tool.VersionArgs)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// getToolVersion returns the first output line of the version command,
// or an empty string if it cannot be determined.
func getToolVersion(path string, args []string) string {
	if len(args) == 0 {
		return ""
	}
	// #nosec G204 - path and args come from trusted Tool definitions
	output, err := exec.Command(path, args...).Output()
	if err != nil {
		return ""
	}
	first, _, _ := strings.Cut(string(output), "\n")
	return strings.TrimSpace(first)
}
