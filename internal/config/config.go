package config

import "time"

// Config is the complete process configuration.
type Config struct {
	Bay       BayConfig       `mapstructure:"bay"`
	Heat      HeatConfig      `mapstructure:"heat"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Database  DatabaseConfig  `mapstructure:"database"`
	API       APIConfig       `mapstructure:"api"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// BayConfig controls discovery handling during parameter extraction.
type BayConfig struct {
	// CoreOSDiscoveryTokenURL is fetched to obtain a coreos discovery token.
	// When empty a random token is generated locally.
	CoreOSDiscoveryTokenURL string `mapstructure:"coreos_discovery_token_url"`

	// PublicSwarmDiscovery registers swarm bays with the public discovery
	// service. When false, SwarmDiscoveryURLFormat is used instead.
	PublicSwarmDiscovery    bool   `mapstructure:"public_swarm_discovery"`
	PublicSwarmDiscoveryURL string `mapstructure:"public_swarm_discovery_url"`

	// SwarmDiscoveryURLFormat may contain {token} and {bay_uuid}.
	SwarmDiscoveryURLFormat string `mapstructure:"swarm_discovery_url_format"`
}

// HeatConfig holds orchestration backend settings.
type HeatConfig struct {
	// BayCreateTimeout is the stack create timeout in minutes used when a
	// create request does not carry one.
	BayCreateTimeout int           `mapstructure:"bay_create_timeout"`
	MaxAttempts      int           `mapstructure:"max_attempts"`
	WaitInterval     time.Duration `mapstructure:"wait_interval"`
	Region           string        `mapstructure:"region"`
}

// Template source kinds.
const (
	TemplateSourceEmbedded = "embedded"
	TemplateSourceDir      = "dir"
	TemplateSourceS3       = "s3"
)

// TemplatesConfig selects where Heat template documents are read from.
type TemplatesConfig struct {
	Source string   `mapstructure:"source"`
	Dir    string   `mapstructure:"dir"`
	S3     S3Config `mapstructure:"s3"`
}

// S3Config locates templates in an S3-compatible bucket.
type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Database drivers.
const (
	DatabaseMemory   = "memory"
	DatabasePostgres = "postgres"
)

// DatabaseConfig selects the repository implementation.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// APIConfig configures the HTTP API server.
type APIConfig struct {
	Listen string `mapstructure:"listen"`
}

// LogConfig configures the root logger.
type LogConfig struct {
	Development bool `mapstructure:"development"`
}

// MetricsConfig toggles prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
