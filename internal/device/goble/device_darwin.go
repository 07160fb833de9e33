//go:build darwin

package goble

import (
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/darwin"
)

// newNativeDevice opens the CoreBluetooth central. macOS has no concept of
// selectable HCI adapters, so a non-empty identifier is validated for shape
// and otherwise ignored.
func newNativeDevice(adapter string) (ble.Device, error) {
	if _, err := parseAdapterID(adapter); err != nil {
		return nil, err
	}
	return darwin.NewDevice()
}
