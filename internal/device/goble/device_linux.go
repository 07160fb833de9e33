//go:build linux

package goble

import (
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
)

// newNativeDevice opens the BlueZ HCI adapter. Adapter identifiers follow
// the hciN convention; an empty identifier selects the default adapter.
func newNativeDevice(adapter string) (ble.Device, error) {
	id, err := parseAdapterID(adapter)
	if err != nil {
		return nil, err
	}
	if id < 0 {
		return linux.NewDevice()
	}
	return linux.NewDevice(ble.OptDeviceID(id))
}
