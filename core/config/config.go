package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file looked up in the working directory
	FileName = "canonhtml.yaml"

	// DefaultDataPath is where reference data lives unless configured
	DefaultDataPath = "spec-data"
)

// Config represents the canonhtml configuration
type Config struct {
	// OpaqueTags render their whole subtree pre-formatted
	OpaqueTags []string `yaml:"opaque_tags"`

	// BlockTags exempt hyphenated custom elements from inline layout
	BlockTags []string `yaml:"block_tags,omitempty"`

	// Selector picks the element to serialize; empty means <html>
	Selector string `yaml:"selector,omitempty"`

	// OutputDir receives rendered files; empty means the working directory
	OutputDir string `yaml:"output_dir,omitempty"`

	// DataPath is the reference-data directory
	DataPath string `yaml:"data_path,omitempty"`

	// SourceURL is where reference data is downloaded from
	SourceURL string `yaml:"source_url,omitempty"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		OpaqueTags: []string{"pre", "xmp", "script", "style"},
		BlockTags:  []string{},
		DataPath:   DefaultDataPath,
	}
}

// Load reads the config file at path. With an empty path it looks for
// FileName in the working directory and falls back to the defaults when
// there is none. Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if config.DataPath == "" {
		config.DataPath = DefaultDataPath
	}
	return config, nil
}

// Save writes the configuration to path
func Save(config *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
