package config

import "fmt"

// LedgerConfig defines the receipt ledger configuration shared by the
// ingestion gateway and the analysis engine.
type LedgerConfig struct {
	Backend    string `yaml:"backend"`     // "file", "postgres", or "memory"
	Path       string `yaml:"path"`        // ledger file path for the file backend
	TenantID   string `yaml:"tenant_id"`   // tenant stamped on every receipt
	Durability string `yaml:"durability"`  // "best_effort" or "strict"
	MaxRecords int    `yaml:"max_records"` // cap on records loaded per analysis pass, 0 = unlimited

	Database DatabaseConfig `yaml:"database"` // used by the postgres backend
}

// SetDefaults sets reasonable default values for the ledger configuration
func (c *LedgerConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "file"
		fmt.Printf("Warning: ledger.backend not set, defaulting to %s\n", c.Backend)
	}
	if c.Backend == "file" && c.Path == "" {
		c.Path = "receipts.jsonl"
		fmt.Printf("Warning: ledger.path not set, defaulting to %s\n", c.Path)
	}
	if c.TenantID == "" {
		c.TenantID = "default-tenant"
		fmt.Printf("Warning: ledger.tenant_id not set, defaulting to %s\n", c.TenantID)
	}
	if c.Durability == "" {
		c.Durability = "best_effort"
		fmt.Printf("Warning: ledger.durability not set, defaulting to %s\n", c.Durability)
	}
	if c.Backend == "postgres" {
		c.Database.SetDefaults()
	}
}

// Validate validates the ledger configuration
func (c *LedgerConfig) Validate() error {
	switch c.Backend {
	case "file":
		if c.Path == "" {
			return fmt.Errorf("ledger path is required for the file backend")
		}
	case "postgres":
		if err := c.Database.Validate(); err != nil {
			return fmt.Errorf("postgres backend: %w", err)
		}
	case "memory":
		// no further settings
	default:
		return fmt.Errorf("unknown ledger backend '%s' (expected file, postgres, or memory)", c.Backend)
	}

	switch c.Durability {
	case "best_effort", "strict":
	default:
		return fmt.Errorf("unknown ledger durability '%s' (expected best_effort or strict)", c.Durability)
	}

	if c.MaxRecords < 0 {
		return fmt.Errorf("ledger max_records cannot be negative")
	}
	return nil
}
