package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/govee-tools/goveectl/inspector"
	"github.com/govee-tools/goveectl/internal/device"
	"github.com/govee-tools/goveectl/internal/govee"
)

// onCmd represents the on command
var onCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn the LED strip on",
	Long:  `Connects to the strip and sends the power-on command.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPower(cmd, true)
	},
}

// offCmd represents the off command
var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn the LED strip off",
	Long:  `Connects to the strip and sends the power-off command.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPower(cmd, false)
	},
}

func runPower(cmd *cobra.Command, on bool) error {
	cfg, logger, err := setupCommand(cmd)
	if err != nil {
		return err
	}

	target := govee.StateOff
	if on {
		target = govee.StateOn
	}

	opts := &inspector.InspectOptions{
		Adapter:        cfg.Adapter,
		ConnectTimeout: cfg.ConnectTimeout,
	}

	progress := NewProgressPrinter(fmt.Sprintf("Connecting to %s", cfg.Address), "Connecting", "Processing results")
	progress.Start()
	defer progress.Stop()

	_, err = inspector.InspectDevice(context.Background(), cfg.Address, opts, logger, progress.Callback(),
		func(dev device.Device) (struct{}, error) {
			session, err := newStripSession(dev, cfg, logger)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, session.SetState(on)
		})
	if err != nil {
		return err
	}

	progress.Stop()
	fmt.Printf("Turned the strip %s.\n", colorState(target))
	return nil
}
