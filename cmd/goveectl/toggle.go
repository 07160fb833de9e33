package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/govee-tools/goveectl/inspector"
	"github.com/govee-tools/goveectl/internal/device"
	"github.com/govee-tools/goveectl/internal/govee"
)

// toggleCmd represents the toggle command
var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle the LED strip's power state",
	Long: `Queries the strip's current power state and sends the opposite
command. When the strip does not report its state, nothing is sent;
toggling blind could flip the strip the wrong way.`,
	Args: cobra.NoArgs,
	RunE: runToggle,
}

func runToggle(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setupCommand(cmd)
	if err != nil {
		return err
	}

	opts := &inspector.InspectOptions{
		Adapter:        cfg.Adapter,
		ConnectTimeout: cfg.ConnectTimeout,
	}

	progress := NewProgressPrinter(fmt.Sprintf("Toggling %s", cfg.Address), "Connecting", "Processing results")
	progress.Start()
	defer progress.Stop()

	result, err := inspector.InspectDevice(context.Background(), cfg.Address, opts, logger, progress.Callback(),
		func(dev device.Device) (govee.ToggleResult, error) {
			session, err := newStripSession(dev, cfg, logger)
			if err != nil {
				return govee.ToggleResult{}, err
			}
			return session.Toggle()
		})
	if err != nil {
		return err
	}

	progress.Stop()
	if !result.Performed {
		fmt.Printf("Not toggled: current state is %s (the strip did not report its state).\n",
			colorState(govee.StateUnknown))
		return nil
	}

	fmt.Printf("Toggled: %s -> %s.\n", colorState(result.Previous), colorState(result.Target))
	return nil
}
