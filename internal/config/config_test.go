package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Register adapters and dialects via init()
	_ "github.com/leapstack-labs/dorisql/pkg/adapters/doris"
	_ "github.com/leapstack-labs/dorisql/pkg/dialects/ansi"
)

func TestTargetConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		target    TargetConfig
		errSubstr string
	}{
		{
			name:      "empty type",
			target:    TargetConfig{},
			errSubstr: "target type is required",
		},
		{
			name:   "doris",
			target: TargetConfig{Type: "doris"},
		},
		{
			name:   "doris uppercase",
			target: TargetConfig{Type: "DORIS"},
		},
		{
			name:   "mysql",
			target: TargetConfig{Type: "mysql"},
		},
		{
			name:      "unknown type",
			target:    TargetConfig{Type: "oracle"},
			errSubstr: "unknown adapter type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.errSubstr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTargetConfig_Validate_ErrorContainsAvailable(t *testing.T) {
	target := TargetConfig{Type: "invalid_db"}
	err := target.Validate()
	require.Error(t, err)

	assert.Contains(t, err.Error(), "doris", "error should list available adapters")
	assert.Contains(t, err.Error(), "dorisql.yaml", "error should mention config file")
}

func TestDefaultSchemaForType(t *testing.T) {
	tests := []struct {
		dbType   string
		expected string
	}{
		{"ansi", "public"},
		{"ANSI", "public"},
		{"doris", ""},
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			assert.Equal(t, tt.expected, DefaultSchemaForType(tt.dbType))
		})
	}
}

func TestApplyTargetDefaults(t *testing.T) {
	tests := []struct {
		name     string
		target   TargetConfig
		expected TargetConfig
	}{
		{
			name:   "doris",
			target: TargetConfig{Type: "doris", Database: "test"},
			expected: TargetConfig{
				Type: "doris", Host: "localhost", Port: 9030, Database: "test",
				Schema: "test", ConnectTimeout: DefaultConnectTimeout,
			},
		},
		{
			name:   "mysql keeps explicit values",
			target: TargetConfig{Type: "mysql", Host: "db", Port: 3307, Schema: "s", ConnectTimeout: time.Second},
			expected: TargetConfig{
				Type: "mysql", Host: "db", Port: 3307, Schema: "s", ConnectTimeout: time.Second,
			},
		},
		{
			name:   "mysql default port",
			target: TargetConfig{Type: "MySQL"},
			expected: TargetConfig{
				Type: "MySQL", Host: "localhost", Port: 3306, ConnectTimeout: DefaultConnectTimeout,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := tt.target
			ApplyTargetDefaults(&target)
			assert.Equal(t, tt.expected, target)
		})
	}

	ApplyTargetDefaults(nil)
}

func TestTargetConfig_ToAdapterConfig(t *testing.T) {
	target := TargetConfig{
		Type: "Doris", Host: "fe", Port: 9030, User: "root", Password: "pw",
		Database: "test", ConnectTimeout: 5 * time.Second,
		Options: map[string]string{"tls": "true"},
	}

	cfg := target.ToAdapterConfig()
	assert.Equal(t, "doris", cfg.Type)
	assert.Equal(t, "fe", cfg.Host)
	assert.Equal(t, 9030, cfg.Port)
	assert.Equal(t, "root", cfg.Username)
	assert.Equal(t, "pw", cfg.Password)
	assert.Equal(t, "test", cfg.Database)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, "true", cfg.Options["tls"])
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindConfigFile(dir))

	alt := filepath.Join(dir, ConfigFileNameAlt)
	require.NoError(t, os.WriteFile(alt, []byte("dialect: doris\n"), 0o600))
	assert.Equal(t, alt, FindConfigFile(dir))

	primary := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(primary, []byte("dialect: doris\n"), 0o600))
	assert.Equal(t, primary, FindConfigFile(dir), "dorisql.yaml wins over dorisql.yml")
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("dialect: doris\n"), 0o600))

	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	assert.Equal(t, root, FindProjectRoot(nested))
	assert.Equal(t, root, FindProjectRoot(root))
	assert.Empty(t, FindProjectRoot(t.TempDir()))
}
