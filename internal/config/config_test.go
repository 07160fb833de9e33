package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	// GOAL: Verify the defaults describe a usable Govee strip profile
	//
	// TEST SCENARIO: No file, no flags → characteristic pair, timeouts and
	// quiet logging populated; address intentionally left empty

	cfg := DefaultConfig()

	assert.Equal(t, DefaultWriteChar, cfg.WriteChar)
	assert.Equal(t, DefaultReadChar, cfg.ReadChar)
	assert.Equal(t, 30*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 8*time.Second, cfg.QueryTimeout)
	assert.Equal(t, "panic", cfg.LogLevel)
	assert.Empty(t, cfg.Address, "no default address MUST be baked in")
	assert.Empty(t, cfg.Adapter)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	// GOAL: Verify YAML values layer over defaults without clobbering the
	// keys the file does not mention

	path := filepath.Join(t.TempDir(), "goveectl.yaml")
	content := `
adapter: hci1
address: "A4:C1:38:AA:BB:CC"
query_timeout: 3s
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hci1", cfg.Adapter)
	assert.Equal(t, "A4:C1:38:AA:BB:CC", cfg.Address)
	assert.Equal(t, 3*time.Second, cfg.QueryTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultWriteChar, cfg.WriteChar, "unmentioned keys MUST keep their defaults")
	assert.Equal(t, 30*time.Second, cfg.ConnectTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("address: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) { c.Address = "A4:C1:38:AA:BB:CC" },
		},
		{
			name:    "missing address",
			mutate:  func(c *Config) {},
			wantErr: "device address is required",
		},
		{
			name: "bad characteristic UUID",
			mutate: func(c *Config) {
				c.Address = "A4:C1:38:AA:BB:CC"
				c.ReadChar = "not-a-uuid"
			},
			wantErr: "invalid characteristic UUID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "info"
	assert.Equal(t, logrus.InfoLevel, cfg.NewLogger().GetLevel())

	cfg.LogLevel = "no-such-level"
	assert.Equal(t, logrus.PanicLevel, cfg.NewLogger().GetLevel(),
		"unknown level MUST fall back to the quiet default")
}
