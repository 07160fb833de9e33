package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/govee-tools/goveectl/inspector"
	"github.com/govee-tools/goveectl/internal/device"
	"github.com/govee-tools/goveectl/internal/govee"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the LED strip's power state",
	Long: `Connects to the strip, asks it for its power state, and reports
ON, OFF, or UNKNOWN. A strip that stays silent for the query window
reports UNKNOWN; that is an answer, not a failure.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setupCommand(cmd)
	if err != nil {
		return err
	}

	opts := &inspector.InspectOptions{
		Adapter:        cfg.Adapter,
		ConnectTimeout: cfg.ConnectTimeout,
	}

	progress := NewProgressPrinter(fmt.Sprintf("Querying %s", cfg.Address), "Connecting", "Processing results")
	progress.Start()
	defer progress.Stop()

	state, err := inspector.InspectDevice(context.Background(), cfg.Address, opts, logger, progress.Callback(),
		func(dev device.Device) (govee.LedState, error) {
			session, err := newStripSession(dev, cfg, logger)
			if err != nil {
				return govee.StateUnknown, err
			}
			return session.QueryState()
		})
	if err != nil {
		return err
	}

	progress.Stop()
	if state == govee.StateUnknown {
		fmt.Printf("LED state: %s (no response within %s)\n", colorState(state), cfg.QueryTimeout)
	} else {
		fmt.Printf("LED state: %s\n", colorState(state))
	}
	return nil
}
