package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable baystack reads.
const EnvPrefix = "BAYSTACK"

// DefaultPublicSwarmDiscoveryURL is the public swarm discovery endpoint.
const DefaultPublicSwarmDiscoveryURL = "https://discovery.hub.docker.com/v1/clusters"

var defaults = map[string]any{
	"bay.coreos_discovery_token_url": "",
	"bay.public_swarm_discovery":     true,
	"bay.public_swarm_discovery_url": DefaultPublicSwarmDiscoveryURL,
	"bay.swarm_discovery_url_format": "",

	"heat.bay_create_timeout": 60,
	"heat.max_attempts":       2000,
	"heat.wait_interval":      time.Second,
	"heat.region":             "",

	"templates.source":        TemplateSourceEmbedded,
	"templates.dir":           "",
	"templates.s3.bucket":     "",
	"templates.s3.prefix":     "",
	"templates.s3.region":     "",
	"templates.s3.endpoint":   "",
	"templates.s3.access_key": "",
	"templates.s3.secret_key": "",

	"database.driver":    DatabaseMemory,
	"database.url":       "",
	"database.max_conns": 10,

	"api.listen": ":9511",

	"log.development": false,

	"metrics.enabled": true,
}

// NewViper returns a viper instance with defaults and environment binding
// in place. Every key is registered as a default so AutomaticEnv also
// applies when decoding the whole tree.
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional file at path, applies the environment and
// returns the validated configuration.
func Load(path string) (*Config, error) {
	v := NewViper()
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return Decode(v)
}

// ReadFile merges the YAML file at path into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// Decode unmarshals v into a Config and validates it.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration built from defaults only.
func Default() *Config {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}
