package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// formatVersion adds 'v' prefix if version starts with a digit
func formatVersion(ver string) string {
	if len(ver) > 0 && unicode.IsDigit(rune(ver[0])) {
		return "v" + ver
	}
	return ver
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "goveectl",
	Short: "Control Govee BLE LED strips",
	Long: `Command-line controller for Govee Bluetooth LE LED strips:

- Turn the strip on or off
- Check the current power state
- Toggle the power state
- Inspect the strip's GATT services and characteristics
- Discover nearby BLE devices to find your strip's address

Tested with H6xxx-series strips; other models exposing the same
control characteristics should work as well.`,
	Version: formatVersion(version),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Ctrl+C is a normal exit, not an error - exit silently
		if errors.Is(err, context.Canceled) {
			return
		}
		// Print user-friendly error message
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", FormatUserError(err))
		os.Exit(1)
	}
}

func init() {
	// Verbs are case-insensitive: ON, On and on all work
	cobra.EnableCaseInsensitive = true

	// Silence Cobra's "Error:" prefix - main() prints clean errors
	rootCmd.SilenceErrors = true

	// Add subcommands
	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(offCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(discoverCmd)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringP("address", "a", "", "Device MAC address (overrides config)")
	rootCmd.PersistentFlags().String("adapter", "", "HCI adapter to use, e.g. hci0 (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	// Add -v as a short flag for --version
	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
}
