package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/govee-tools/goveectl/internal/config"
)

// resolveConfig builds the effective configuration for one command run:
// defaults, then the optional --config file, then flag overrides.
// When requireAddress is set, the result must name a target device.
func resolveConfig(cmd *cobra.Command, requireAddress bool) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if address, _ := cmd.Flags().GetString("address"); address != "" {
		cfg.Address = address
	}
	if adapter, _ := cmd.Flags().GetString("adapter"); adapter != "" {
		cfg.Adapter = adapter
	}
	if logLevel, _ := cmd.Flags().GetString("log-level"); logLevel != "" {
		switch logLevel {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = logLevel
		default:
			return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", logLevel)
		}
	}

	if requireAddress {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// setupCommand resolves the configuration and logger for a device-targeting
// command and marks the argument phase as done.
func setupCommand(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	cfg, err := resolveConfig(cmd, true)
	if err != nil {
		return nil, nil, err
	}

	// All arguments validated - don't show usage on runtime errors
	cmd.SilenceUsage = true

	return cfg, cfg.NewLogger(), nil
}
