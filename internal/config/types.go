// Package config provides the shared target configuration for dorisql.
// It is decoupled from CLI concerns: the CLI loader in internal/cli/config
// fills these types from koanf.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/dorisql/pkg/adapter"
	"github.com/leapstack-labs/dorisql/pkg/core"
	"github.com/leapstack-labs/dorisql/pkg/dialect"
)

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type     string `koanf:"type"` // doris, mysql
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Database string `koanf:"database"`

	// Schema defaults to the dialect's default schema, else to Database.
	Schema string `koanf:"schema"`

	ConnectTimeout time.Duration `koanf:"connect_timeout"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// DefaultSchemaForType returns the default schema for a database type.
// It looks up the dialect in the registry and returns "" when the dialect
// is unknown or has no default schema.
func DefaultSchemaForType(dbType string) string {
	if d, ok := dialect.Get(dbType); ok {
		return d.DefaultSchema
	}
	return ""
}

// Validate checks if the target configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}

	return nil
}

// ToAdapterConfig converts the target into the config adapters connect with.
func (t *TargetConfig) ToAdapterConfig() core.AdapterConfig {
	return core.AdapterConfig{
		Type:           strings.ToLower(t.Type),
		Host:           t.Host,
		Port:           t.Port,
		Database:       t.Database,
		Username:       t.User,
		Password:       t.Password,
		ConnectTimeout: t.ConnectTimeout,
		Options:        t.Options,
	}
}
