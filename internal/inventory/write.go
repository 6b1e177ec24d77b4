package inventory

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

// Marshal renders the document as YAML with two-space indentation.
func (d *Document) Marshal() ([]byte, error) {
	return marshalYAML(d)
}

// MarshalJSON renders the document in Ansible's JSON inventory form.
func (d *Document) MarshalJSON() ([]byte, error) {
	data, err := d.Marshal()
	if err != nil {
		return nil, err
	}
	out, err := sigsyaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert inventory to JSON: %w", err)
	}
	return out, nil
}

// Write serializes the document to path, creating parent directories.
// An existing file is overwritten wholesale.
func (d *Document) Write(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	return writeFile(path, data, 0644)
}

func marshalYAML(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	return nil
}
