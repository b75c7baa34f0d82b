// Package config provides configuration management for the dorisql CLI.
//
// This package extends the shared target configuration from internal/config
// with CLI-specific fields: dialect selection, query context and output.
package config

import (
	sharedcfg "github.com/leapstack-labs/dorisql/internal/config"
	"github.com/leapstack-labs/dorisql/pkg/dialect"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = sharedcfg.TargetConfig

// Config holds all CLI configuration options.
type Config struct {
	Dialect               string               `koanf:"dialect"`
	Timezone              string               `koanf:"timezone"`
	PreAggregationsSchema string               `koanf:"pre_aggregations_schema"`
	Environment           string               `koanf:"environment"`
	Verbose               bool                 `koanf:"verbose"`
	OutputFormat          string               `koanf:"output"`
	Target                *TargetConfig        `koanf:"target"`
	Environments          map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory the config file was found in, or the
	// working directory.
	ProjectRoot string `koanf:"-"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Dialect  string        `koanf:"dialect"`
	Timezone string        `koanf:"timezone"`
	Target   *TargetConfig `koanf:"target"`
}

// QueryContext returns the dialect query context described by the config.
func (c *Config) QueryContext() dialect.QueryContext {
	return dialect.QueryContext{
		Timezone:              c.Timezone,
		PreAggregationsSchema: c.PreAggregationsSchema,
	}
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultDialect               = sharedcfg.DefaultDialect
	DefaultTimezone              = sharedcfg.DefaultTimezone
	DefaultPreAggregationsSchema = sharedcfg.DefaultPreAggregationsSchema
	DefaultOutput                = "auto" // Auto-detect: TTY=table, non-TTY=markdown
)
