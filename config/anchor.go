package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// AnchorConfig stores common anchor configuration across all anchor providers
type AnchorConfig struct {
	// --- Provider Selection ---
	Provider string `yaml:"provider"` // "chainmaker", "noop"

	// --- Common Behavior Configuration ---
	RetryLimit     int `yaml:"retry_limit"`
	RetryInterval  int `yaml:"retry_interval"`
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// --- Provider-specific Configuration ---
	// This will be loaded separately based on provider type
	ProviderSpecific any `yaml:"-"`
}

// LoadAnchorConfig loads anchor configuration from the specified YAML file path
func LoadAnchorConfig(path string) (*AnchorConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path of config file: %w", err)
	}

	fmt.Printf("Loading anchor configuration from '%s'...\n", absPath)

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", absPath, err)
	}

	var cfg AnchorConfig
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
	}

	fmt.Println("Anchor configuration loaded successfully.")
	return &cfg, nil
}
