package config

import (
	"strings"
	"time"

	"github.com/leapstack-labs/dorisql/pkg/dialect"
)

// Default configuration values.
const (
	DefaultDialect               = "doris"
	DefaultTimezone              = dialect.DefaultTimezone
	DefaultPreAggregationsSchema = dialect.DefaultPreAggregationsSchema
	DefaultConnectTimeout        = 10 * time.Second
)

// defaultPorts holds the port used when a target sets none.
var defaultPorts = map[string]int{
	"doris": 9030,
	"mysql": 3306,
}

// ApplyTargetDefaults applies default values to a TargetConfig based on the target type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}

	if t.Host == "" {
		t.Host = "localhost"
	}
	if t.Port == 0 {
		t.Port = defaultPorts[strings.ToLower(t.Type)]
	}
	if t.ConnectTimeout == 0 {
		t.ConnectTimeout = DefaultConnectTimeout
	}

	// Doris and MySQL have no schema level below the database
	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}
	if t.Schema == "" {
		t.Schema = t.Database
	}
}
