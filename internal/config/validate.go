package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for values that would only fail later
// at runtime.
func (c *Config) Validate() error {
	var errs []error

	if c.Heat.BayCreateTimeout < 0 {
		errs = append(errs, fmt.Errorf("heat.bay_create_timeout must not be negative"))
	}
	if c.Heat.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("heat.max_attempts must be at least 1"))
	}
	if c.Heat.WaitInterval < 0 {
		errs = append(errs, fmt.Errorf("heat.wait_interval must not be negative"))
	}

	if err := c.validateBay(); err != nil {
		errs = append(errs, err)
	}
	if err := c.validateTemplates(); err != nil {
		errs = append(errs, err)
	}

	switch c.Database.Driver {
	case DatabaseMemory:
	case DatabasePostgres:
		if c.Database.URL == "" {
			errs = append(errs, fmt.Errorf("database.url is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported (memory, postgres)", c.Database.Driver))
	}

	if c.API.Listen == "" {
		errs = append(errs, fmt.Errorf("api.listen is required"))
	}

	return errors.Join(errs...)
}

func (c *Config) validateBay() error {
	if c.Bay.CoreOSDiscoveryTokenURL != "" {
		if err := validateURL(c.Bay.CoreOSDiscoveryTokenURL); err != nil {
			return fmt.Errorf("bay.coreos_discovery_token_url: %w", err)
		}
	}
	if c.Bay.PublicSwarmDiscovery {
		if err := validateURL(c.Bay.PublicSwarmDiscoveryURL); err != nil {
			return fmt.Errorf("bay.public_swarm_discovery_url: %w", err)
		}
		return nil
	}
	if c.Bay.SwarmDiscoveryURLFormat == "" {
		return fmt.Errorf("bay.swarm_discovery_url_format is required when public swarm discovery is disabled")
	}
	return nil
}

func (c *Config) validateTemplates() error {
	switch c.Templates.Source {
	case TemplateSourceEmbedded:
	case TemplateSourceDir:
		if c.Templates.Dir == "" {
			return fmt.Errorf("templates.dir is required for the dir source")
		}
	case TemplateSourceS3:
		if c.Templates.S3.Bucket == "" {
			return fmt.Errorf("templates.s3.bucket is required for the s3 source")
		}
	default:
		return fmt.Errorf("templates.source %q is not supported (embedded, dir, s3)", c.Templates.Source)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(u.Scheme, "http") || u.Host == "" {
		return fmt.Errorf("%q is not an http(s) URL", raw)
	}
	return nil
}
