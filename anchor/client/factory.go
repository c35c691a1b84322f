package anchor

import (
	"fmt"
	"log"
	"path/filepath"

	"claimtrace/anchor/client/chainmaker"
	"claimtrace/config"
)

// Provider represents the type of anchor provider
type Provider string

const (
	ChainMaker Provider = "chainmaker"
	Noop       Provider = "noop"
	// Future providers can be added here:
	// Ethereum Provider = "ethereum"
)

// LoadProviderSpecificConfig loads provider-specific configuration based on the provider type
func LoadProviderSpecificConfig(provider string, configDir string) (any, error) {
	switch Provider(provider) {
	case ChainMaker, "":
		chainmakerConfigPath := filepath.Join(configDir, "clients", "chainmaker.yml")
		return chainmaker.LoadChainMakerConfig(chainmakerConfigPath)
	case Noop:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported anchor provider: %s", provider)
	}
}

// NewClient creates an anchor client based on the configuration
func NewClient(cfg *config.AnchorConfig, logger *log.Logger) (Client, error) {
	switch Provider(cfg.Provider) {
	case ChainMaker, "":
		return chainmaker.NewChainMakerClient(cfg, logger)
	case Noop:
		return NewNoopClient(logger), nil
	default:
		return nil, fmt.Errorf("unsupported anchor provider: %s", cfg.Provider)
	}
}

// NewClientFromFile creates an anchor client from configuration files
func NewClientFromFile(configPath string, logger *log.Logger) (Client, error) {
	// Load common configuration
	cfg, err := config.LoadAnchorConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load common config from file '%s': %w", configPath, err)
	}

	// Load provider-specific configuration
	configDir := filepath.Dir(configPath)
	providerCfg, err := LoadProviderSpecificConfig(cfg.Provider, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load provider-specific config: %w", err)
	}

	cfg.ProviderSpecific = providerCfg
	return NewClient(cfg, logger)
}
