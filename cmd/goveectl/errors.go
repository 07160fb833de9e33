package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/govee-tools/goveectl/internal/device"
)

// FormatUserError rewrites low-level failures into messages that tell the
// user what to do next. Unrecognized errors pass through unchanged.
func FormatUserError(err error) string {
	var notFound *device.NotFoundError

	switch {
	case errors.Is(err, device.ErrBluetoothOff):
		return "Bluetooth is powered off. Turn it on and try again."
	case errors.Is(err, context.DeadlineExceeded):
		return "connection timed out. Is the strip powered and in range?"
	case errors.As(err, &notFound):
		return fmt.Sprintf("%s. Run 'goveectl scan' to list what the device exposes.", notFound.Error())
	case errors.Is(err, device.ErrNotConnected):
		return "device is not connected"
	default:
		return err.Error()
	}
}
