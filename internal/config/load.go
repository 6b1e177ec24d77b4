package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFilename is the default configuration filename.
const DefaultConfigFilename = "kspray.yaml"

// ErrConfigNotFound is returned by FindConfigFile when no file exists.
var ErrConfigNotFound = errors.New("config file " + DefaultConfigFilename + " not found")

// Load reads, completes and validates a configuration file.
func Load(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses, completes and validates configuration data.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return finalize(&cfg)
}

// LoadOrDefault loads the file at path. With an empty path it searches for
// kspray.yaml and falls back to defaults when none exists. The returned
// string is the file that was used, empty for defaults.
func LoadOrDefault(path string) (*Config, string, error) {
	if path == "" {
		found, err := FindConfigFile()
		if errors.Is(err, ErrConfigNotFound) {
			cfg, err := finalize(&Config{})
			return cfg, "", err
		}
		if err != nil {
			return nil, "", err
		}
		path = found
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func finalize(cfg *Config) (*Config, error) {
	cfg.ApplyDefaults()
	if err := cfg.ExpandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// FindConfigFile searches the current directory, then its parents, for kspray.yaml.
func FindConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := cwd
	for {
		path := filepath.Join(dir, DefaultConfigFilename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrConfigNotFound
}

// Save writes a configuration to a file.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
