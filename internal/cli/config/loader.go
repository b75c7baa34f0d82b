package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	intconfig "github.com/leapstack-labs/dorisql/internal/config"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// EnvPrefix prefixes every environment variable the loader reads.
// A double underscore separates nesting levels: DORISQL_TARGET__HOST.
const EnvPrefix = "DORISQL_"

// DotEnvFile is loaded from the project root before environment variables
// are read. Variables already set in the process win.
const DotEnvFile = ".env"

// targetFlags are CLI flags that land under the target section.
var targetFlags = map[string]string{
	"adapter":  "target.type",
	"host":     "target.host",
	"port":     "target.port",
	"user":     "target.user",
	"password": "target.password",
	"database": "target.database",
}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// inferProjectRoot picks the directory that anchors the config and .env files.
// Priority: explicit config file > upward search from CWD > CWD.
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
		return filepath.Dir(cfgFile)
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := intconfig.FindProjectRoot(cwd); root != "" {
		return root
	}
	return cwd
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > selected environment
// block > config file > defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	return LoadConfigWithEnv(cfgFile, "", flags)
}

// LoadConfigWithEnv loads configuration with an optional environment override.
// The envOverride parameter selects which entry of environments to apply.
func LoadConfigWithEnv(cfgFile, envOverride string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")
	configFileUsed = ""

	projectRoot := inferProjectRoot(cfgFile)

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"dialect":                 intconfig.DefaultDialect,
		"timezone":                DefaultTimezone,
		"pre_aggregations_schema": DefaultPreAggregationsSchema,
		"verbose":                 false,
		"output":                  DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	if cfgFile == "" {
		cfgFile = intconfig.FindConfigFile(projectRoot)
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		configFileUsed = cfgFile
	}

	// 3. Load .env, then apply the selected environment block over the
	// file, then environment variables (DORISQL_ prefix).
	// Transform: DORISQL_TARGET__HOST -> target.host
	if err := godotenv.Load(filepath.Join(projectRoot, DotEnvFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}
	if err := applyEnvironment(selectEnvironment(envOverride, flags)); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ProjectRoot = projectRoot

	if cfg.Target != nil {
		if cfg.Target.Type == "" {
			cfg.Target.Type = cfg.Dialect
		}
		expandTargetEnvVars(cfg.Target)
		intconfig.ApplyTargetDefaults(cfg.Target)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// selectEnvironment names the environment block to apply. An explicit
// override wins, then --env, then DORISQL_ENVIRONMENT, then the file.
func selectEnvironment(envOverride string, flags *pflag.FlagSet) string {
	if envOverride != "" {
		return envOverride
	}
	if flags != nil {
		if f := flags.Lookup("env"); f != nil && f.Changed {
			return f.Value.String()
		}
	}
	if name := os.Getenv(EnvPrefix + "ENVIRONMENT"); name != "" {
		return name
	}
	return k.String("environment")
}

// applyEnvironment merges environments.<name> over the loaded file so that
// environment variables and flags still override it.
func applyEnvironment(name string) error {
	if name == "" {
		return nil
	}
	envs, _ := k.Get("environments").(map[string]any)
	if _, ok := envs[name]; !ok {
		return fmt.Errorf("unknown environment %q", name)
	}
	if err := k.Merge(k.Cut("environments." + name)); err != nil {
		return fmt.Errorf("failed to apply environment %q: %w", name, err)
	}
	return nil
}

// envKey maps DORISQL_PRE_AGGREGATIONS_SCHEMA to pre_aggregations_schema
// and DORISQL_TARGET__HOST to target.host.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// flagKey maps a kebab-case flag name to its config key.
func flagKey(name string) string {
	if key, ok := targetFlags[name]; ok {
		return key
	}
	if name == "env" {
		return "environment"
	}
	return strings.ReplaceAll(name, "-", "_")
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig or LoadConfigWithEnv is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
// Unset variables are left as written.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}

// expandTargetEnvVars expands environment variables in sensitive target fields.
func expandTargetEnvVars(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
	for key, val := range t.Options {
		t.Options[key] = expandEnvVars(val)
	}
}
