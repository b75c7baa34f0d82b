package doris

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// DefaultPort is the Doris frontend MySQL-protocol port.
const DefaultPort = 9030

// Params holds driver options read from the target's options map.
// Parsed from adapter.Config.Options using mapstructure.
type Params struct {
	Collation    string        `mapstructure:"collation"`
	TLS          string        `mapstructure:"tls"` // "true", "false", "skip-verify", "preferred"
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`

	// InterpolateParams formats placeholders client-side. Doris does not
	// support server-side prepared statements on every version, so it
	// defaults to true.
	InterpolateParams bool `mapstructure:"interpolate_params"`
}

// ParseParams decodes options into Params. Values are strings, as they come
// from YAML or the environment, and are converted weakly.
func ParseParams(options map[string]string) (Params, error) {
	params := Params{InterpolateParams: true}
	if len(options) == 0 {
		return params, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &params,
	})
	if err != nil {
		return params, err
	}
	if err := dec.Decode(options); err != nil {
		return params, fmt.Errorf("invalid doris options: %w", err)
	}
	return params, nil
}
