package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// KafkaConsumerConfig defines configuration for Kafka consumer
type KafkaConsumerConfig struct {
	Brokers           []string `yaml:"brokers"`             // e.g., ["kafka1:9092", "kafka2:9092"]
	Topic             string   `yaml:"topic"`               // Topic to consume from
	GroupID           string   `yaml:"group_id"`            // Consumer group ID
	Count             int      `yaml:"count"`               // Number of consumers to create
	SessionTimeout    string   `yaml:"session_timeout"`     // Kafka session timeout
	HeartbeatInterval string   `yaml:"heartbeat_interval"`  // Kafka heartbeat interval
	MaxProcessingTime string   `yaml:"max_processing_time"` // Maximum time for processing a message
	AutoOffsetReset   string   `yaml:"auto_offset_reset"`   // earliest/latest
	EnableAutoCommit  bool     `yaml:"enable_auto_commit"`  // Enable auto offset commit
}

// SetDefaults sets reasonable default values for Kafka consumer configuration
func (c *KafkaConsumerConfig) SetDefaults() {
	if c.Count <= 0 {
		c.Count = 1
		fmt.Printf("Warning: kafka_consumer.count not set or invalid, defaulting to %d\n", c.Count)
	}
	if c.SessionTimeout == "" {
		c.SessionTimeout = "30s"
		fmt.Printf("Warning: kafka_consumer.session_timeout not set, defaulting to %s\n", c.SessionTimeout)
	}
	if c.HeartbeatInterval == "" {
		c.HeartbeatInterval = "3s"
		fmt.Printf("Warning: kafka_consumer.heartbeat_interval not set, defaulting to %s\n", c.HeartbeatInterval)
	}
	if c.MaxProcessingTime == "" {
		c.MaxProcessingTime = "5m"
		fmt.Printf("Warning: kafka_consumer.max_processing_time not set, defaulting to %s\n", c.MaxProcessingTime)
	}
	if c.AutoOffsetReset == "" {
		c.AutoOffsetReset = "earliest"
		fmt.Printf("Warning: kafka_consumer.auto_offset_reset not set, defaulting to %s\n", c.AutoOffsetReset)
	}
}

// WorkerConfig defines configuration for worker processing
type WorkerConfig struct {
	Concurrency        int    `yaml:"concurrency"`          // Number of concurrent workers per consumer
	BatchSize          int    `yaml:"batch_size"`           // Number of claims per analysis batch
	BatchTimeout       string `yaml:"batch_timeout"`        // Maximum wait time for batch
	ConsumerRetryDelay string `yaml:"consumer_retry_delay"` // Delay when consumer encounters errors
	AnchorTimeout      string `yaml:"anchor_timeout"`       // Timeout for anchor submissions
}

// SetDefaults sets reasonable default values for worker configuration
func (c *WorkerConfig) SetDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 100
		fmt.Printf("Warning: worker.batch_size not set or invalid, defaulting to %d\n", c.BatchSize)
	}
	if c.BatchTimeout == "" {
		c.BatchTimeout = "1s"
		fmt.Printf("Warning: worker.batch_timeout not set, defaulting to %s\n", c.BatchTimeout)
	}
	if c.ConsumerRetryDelay == "" {
		c.ConsumerRetryDelay = "5s"
		fmt.Printf("Warning: worker.consumer_retry_delay not set, defaulting to %s\n", c.ConsumerRetryDelay)
	}
	if c.AnchorTimeout == "" {
		c.AnchorTimeout = "15s"
		fmt.Printf("Warning: worker.anchor_timeout not set, defaulting to %s\n", c.AnchorTimeout)
	}
}

// AnalyticsConfig defines thresholds and field mappings for the fraud
// analytics pipeline.
type AnalyticsConfig struct {
	EntityKey string `yaml:"entity_key"` // record field holding the entity identifier
	LinkKey   string `yaml:"link_key"`   // record field linking entities into co-occurrence edges
	AmountKey string `yaml:"amount_key"` // record field with the monetary amount

	MinClusterSize   int     `yaml:"min_cluster_size"`  // smallest component worth reporting
	MinEdgeWeight    int     `yaml:"min_edge_weight"`   // edges lighter than this are dropped
	DegreeMultiplier float64 `yaml:"degree_multiplier"` // hub threshold as multiple of mean degree
	AmountThreshold  float64 `yaml:"amount_threshold"`  // cluster amount above which risk escalates

	CompressionBaseline float64 `yaml:"compression_baseline"` // ratio expected of legitimate records
	CompressionFloor    float64 `yaml:"compression_floor"`    // ratio at or below which fraud score saturates
	EntropyBaseline     float64 `yaml:"entropy_baseline"`     // expected structural entropy in bits
	EntropySigma        float64 `yaml:"entropy_sigma"`        // deviation beyond which entropy is anomalous

	TemporalBins int `yaml:"temporal_bins"` // bins for time-series discretization
	ChangeWindow int `yaml:"change_window"` // rolling window for change-point detection
}

// SetDefaults sets reasonable default values for the analytics configuration
func (c *AnalyticsConfig) SetDefaults() {
	if c.EntityKey == "" {
		c.EntityKey = "provider_id"
	}
	if c.LinkKey == "" {
		c.LinkKey = "patient_id"
	}
	if c.AmountKey == "" {
		c.AmountKey = "billed_amount"
	}
	if c.MinClusterSize <= 0 {
		c.MinClusterSize = 3
	}
	if c.MinEdgeWeight <= 0 {
		c.MinEdgeWeight = 1
	}
	if c.DegreeMultiplier <= 0 {
		c.DegreeMultiplier = 2.0
	}
	if c.AmountThreshold <= 0 {
		c.AmountThreshold = 10_000_000
	}
	if c.CompressionBaseline <= 0 {
		c.CompressionBaseline = 0.65
	}
	if c.CompressionFloor <= 0 {
		c.CompressionFloor = 0.40
	}
	if c.EntropyBaseline <= 0 {
		c.EntropyBaseline = 2.5
	}
	if c.EntropySigma <= 0 {
		c.EntropySigma = 0.5
	}
	if c.TemporalBins <= 0 {
		c.TemporalBins = 10
	}
	if c.ChangeWindow <= 0 {
		c.ChangeWindow = 20
	}
}

// Validate validates the analytics configuration
func (c *AnalyticsConfig) Validate() error {
	if c.CompressionFloor >= c.CompressionBaseline {
		return fmt.Errorf("analytics compression_floor (%.2f) must be below compression_baseline (%.2f)",
			c.CompressionFloor, c.CompressionBaseline)
	}
	return nil
}

// AnalysisMonitoringConfig defines monitoring configuration for the analysis engine
type AnalysisMonitoringConfig struct {
	EnableMetrics   bool   `yaml:"enable_metrics"`    // Enable metrics collection
	MetricsPath     string `yaml:"metrics_path"`      // Metrics endpoint path
	HealthCheckPath string `yaml:"health_check_path"` // Health check endpoint path
	LogLevel        string `yaml:"log_level"`         // Logging level
}

// SetDefaults sets reasonable default values for monitoring configuration
func (c *AnalysisMonitoringConfig) SetDefaults() {
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
		fmt.Printf("Warning: monitoring.metrics_path not set, defaulting to %s\n", c.MetricsPath)
	}
	if c.HealthCheckPath == "" {
		c.HealthCheckPath = "/health"
		fmt.Printf("Warning: monitoring.health_check_path not set, defaulting to %s\n", c.HealthCheckPath)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
		fmt.Printf("Warning: monitoring.log_level not set, defaulting to %s\n", c.LogLevel)
	}
}

// AnalysisConfig defines all configuration for the analysis engine
type AnalysisConfig struct {
	// Ledger Configuration
	Ledger LedgerConfig `yaml:"ledger"`

	// Kafka Consumer Configuration
	KafkaConsumer KafkaConsumerConfig `yaml:"kafka_consumer"`

	// Worker Configuration
	Worker WorkerConfig `yaml:"worker"`

	// Analytics thresholds and field mappings
	Analytics AnalyticsConfig `yaml:"analytics"`

	// Business Rules Configuration
	MaxTaskRetries int `yaml:"max_task_retries"` // Maximum retry attempts per task (business rule)

	// Monitoring Configuration
	Monitoring AnalysisMonitoringConfig `yaml:"monitoring"`

	// Anchor Client Configuration
	AnchorClientConfigPath string `yaml:"anchor_client_config_path"`
}

// LoadAnalysisConfig loads configuration from the specified YAML file path
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg AnalysisConfig
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
	}

	// Set default values for all configurations
	cfg.Ledger.SetDefaults()
	cfg.KafkaConsumer.SetDefaults()
	cfg.Worker.SetDefaults()
	cfg.Analytics.SetDefaults()
	cfg.Monitoring.SetDefaults()

	// Set default for business rules
	if cfg.MaxTaskRetries <= 0 {
		cfg.MaxTaskRetries = 3
		fmt.Printf("Warning: max_task_retries not set or invalid, defaulting to %d\n", cfg.MaxTaskRetries)
	}

	// Validate ledger configuration
	if err := cfg.Ledger.Validate(); err != nil {
		return nil, fmt.Errorf("ledger configuration error: %w", err)
	}

	// Validate analytics configuration
	if err := cfg.Analytics.Validate(); err != nil {
		return nil, fmt.Errorf("analytics configuration error: %w", err)
	}

	return &cfg, nil
}
