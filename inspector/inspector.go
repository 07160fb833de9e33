package inspector

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/govee-tools/goveectl/internal/device"
	"github.com/govee-tools/goveectl/internal/device/goble"
)

// ProgressCallback is called when the inspection phase changes
type ProgressCallback func(phase string)

// InspectOptions defines options for working with a connected BLE device
type InspectOptions struct {
	Adapter        string
	ConnectTimeout time.Duration
}

// InspectCallback processes a connected device and produces output of type R
type InspectCallback[R any] func(device.Device) (R, error)

// InspectDevice connects to a device, discovers its profile, and executes the callback with the connected device.
// The device lifecycle (connection and disconnection) is managed automatically.
// The callback receives the connected device and can return any result type R along with an error.
// Optional progressCallback can be provided for connection progress updates.
func InspectDevice[R any](ctx context.Context, address string, opts *InspectOptions, logger *logrus.Logger, progressCallback ProgressCallback, callback InspectCallback[R]) (R, error) {
	var zero R
	if opts == nil {
		opts = &InspectOptions{ConnectTimeout: 30 * time.Second}
	}
	if logger == nil {
		logger = logrus.New()
	}
	if progressCallback == nil {
		progressCallback = func(string) {} // No-op callback
	}

	progressCallback("Connecting")

	dev := goble.NewBLEDevice(address, logger)
	connectOpts := &device.ConnectOptions{
		Adapter:        opts.Adapter,
		ConnectTimeout: opts.ConnectTimeout,
	}

	if err := dev.Connect(ctx, connectOpts); err != nil {
		progressCallback("Failed")
		return zero, err
	}

	progressCallback("Connected")

	// Ensure the device is disconnected after the callback completes
	defer func(dev device.Device) {
		if err := dev.Disconnect(); err != nil {
			logger.WithError(err).Error("failed to disconnect device")
		}
	}(dev)

	progressCallback("Processing results")

	return callback(dev)
}
