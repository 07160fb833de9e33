// Package config holds the externally supplied settings for one strip: the
// HCI adapter, the peripheral address, and the characteristic pair. Nothing
// in here is derived at runtime; values come from defaults, an optional
// YAML file, and command-line flags, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/govee-tools/goveectl/internal/device"
)

// Default GATT endpoints for Govee H6xxx strips. Discover the values for a
// different model with `goveectl scan`.
const (
	DefaultWriteChar = "00010203-0405-0607-0809-0a0b0c0d2b11"
	DefaultReadChar  = "00010203-0405-0607-0809-0a0b0c0d2b10"
)

// Config holds application configuration.
type Config struct {
	// Adapter is the HCI adapter identifier (e.g. "hci0"). Empty selects
	// the platform default.
	Adapter string `yaml:"adapter"`

	// Address is the peripheral MAC address (find it with `goveectl discover`).
	Address string `yaml:"address"`

	// WriteChar receives command frames; ReadChar delivers state notifications.
	WriteChar string `yaml:"write_char" default:"00010203-0405-0607-0809-0a0b0c0d2b11"`
	ReadChar  string `yaml:"read_char" default:"00010203-0405-0607-0809-0a0b0c0d2b10"`

	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	QueryTimeout   time.Duration `yaml:"query_timeout"`

	LogLevel string `yaml:"log_level" default:"panic"`
}

// DefaultConfig returns configuration populated with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 30 * time.Second
	}
	if cfg.QueryTimeout == 0 {
		cfg.QueryTimeout = 8 * time.Second
	}
	return cfg
}

// Load reads configuration from a YAML file layered over the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Re-apply duration fallbacks in case the file zeroed them.
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 30 * time.Second
	}
	if cfg.QueryTimeout == 0 {
		cfg.QueryTimeout = 8 * time.Second
	}
	return cfg, nil
}

// Validate checks that the configuration names a reachable target.
func (c *Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("device address is required (set --address or the address config key)")
	}
	if _, err := device.ValidateUUID(c.WriteChar, c.ReadChar); err != nil {
		return fmt.Errorf("invalid characteristic UUID: %w", err)
	}
	return nil
}

// NewLogger creates a logger configured from LogLevel. Unknown levels fall
// back to panic (near-silent), matching the CLI's quiet default.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.PanicLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	return logger
}
