package main

import (
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/govee-tools/goveectl/internal/config"
	"github.com/govee-tools/goveectl/internal/device"
	"github.com/govee-tools/goveectl/internal/govee"
)

// newStripSession builds a protocol session over the connected device.
func newStripSession(dev device.Device, cfg *config.Config, logger *logrus.Logger) (*govee.Session, error) {
	conn := dev.GetConnection()
	if conn == nil {
		return nil, device.ErrNotConnected
	}

	chars := govee.Characteristics{
		Write: cfg.WriteChar,
		Read:  cfg.ReadChar,
	}
	return govee.NewSession(conn, chars, cfg.QueryTimeout, logger), nil
}

var (
	stateOnText      = color.New(color.FgGreen, color.Bold)
	stateOffText     = color.New(color.FgRed, color.Bold)
	stateUnknownText = color.New(color.FgYellow, color.Bold)
)

// colorState renders a power state with the conventional color coding.
func colorState(state govee.LedState) string {
	switch state {
	case govee.StateOn:
		return stateOnText.Sprint(state.String())
	case govee.StateOff:
		return stateOffText.Sprint(state.String())
	default:
		return stateUnknownText.Sprint(state.String())
	}
}
