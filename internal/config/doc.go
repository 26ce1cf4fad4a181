// Package config defines the process configuration for baystack.
//
// Values come from, in increasing priority: built-in defaults, an optional
// YAML file, and BAYSTACK_* environment variables (dots in keys become
// underscores, so heat.max_attempts is BAYSTACK_HEAT_MAX_ATTEMPTS). Command
// line flags bound by the CLI override all of them. The decoded [Config] is
// passed explicitly to every component that needs it.
package config
