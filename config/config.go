package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the complete application configuration
type Config struct {
	Analysis *AnalysisConfig
	Gateway  *GatewayConfig
	Anchor   *AnchorConfig
}

// LoadConfig loads all configuration files from a directory
func LoadConfig(configDir string) (*Config, error) {
	absDir, err := filepath.Abs(configDir)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path of config directory: %w", err)
	}

	config := &Config{}

	// Load analysis engine config
	analysisPath := filepath.Join(absDir, "analysis.defaults.yml")
	if _, err := os.Stat(analysisPath); err == nil {
		analysisCfg, err := LoadAnalysisConfig(analysisPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load analysis config: %w", err)
		}
		config.Analysis = analysisCfg
	}

	// Load ingestion gateway config
	gatewayPath := filepath.Join(absDir, "ingestion.defaults.yml")
	if _, err := os.Stat(gatewayPath); err == nil {
		gatewayCfg, err := LoadGatewayConfig(gatewayPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load gateway config: %w", err)
		}
		config.Gateway = gatewayCfg
	}

	// Load anchor client config
	anchorPath := filepath.Join(absDir, "anchor_config.yml")
	if _, err := os.Stat(anchorPath); err == nil {
		anchorCfg, err := LoadAnchorConfig(anchorPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load anchor config: %w", err)
		}
		config.Anchor = anchorCfg
	}

	return config, nil
}
