// Package goble implements the device abstraction on top of go-ble/ble.
package goble

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-ble/ble"
	"github.com/sirupsen/logrus"

	"github.com/govee-tools/goveectl/internal/device"
)

// DeviceFactory creates ble.Device instances for the given HCI adapter
// identifier (e.g. "hci0"; empty selects the platform default). It is a
// variable so tests can substitute their own transport.
var DeviceFactory = func(adapter string) (ble.Device, error) {
	return newNativeDevice(adapter)
}

// parseAdapterID extracts the numeric adapter index from an identifier such
// as "hci1". Returns -1 for an empty identifier (platform default).
func parseAdapterID(adapter string) (int, error) {
	if adapter == "" {
		return -1, nil
	}
	trimmed := strings.TrimPrefix(strings.ToLower(adapter), "hci")
	id, err := strconv.Atoi(trimmed)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid adapter identifier %q (expected hciN)", adapter)
	}
	return id, nil
}

// BLEDevice binds one peripheral address to at most one live connection.
type BLEDevice struct {
	address string
	logger  *logrus.Logger
	conn    *BLEConnection
}

// NewBLEDevice creates a device for the given peripheral address.
func NewBLEDevice(address string, logger *logrus.Logger) *BLEDevice {
	if logger == nil {
		logger = logrus.New()
	}
	return &BLEDevice{
		address: address,
		logger:  logger,
		conn:    NewBLEConnection(logger),
	}
}

// Address returns the peripheral address this device was created for.
func (d *BLEDevice) Address() string {
	return d.address
}

// Connect establishes the BLE connection and discovers the GATT profile.
func (d *BLEDevice) Connect(ctx context.Context, opts *device.ConnectOptions) error {
	if opts == nil {
		opts = &device.ConnectOptions{}
	}
	return d.conn.Connect(ctx, d.address, opts)
}

// Disconnect tears down the connection if one is live.
func (d *BLEDevice) Disconnect() error {
	return d.conn.Disconnect()
}

// IsConnected reports whether the device currently holds a live connection.
func (d *BLEDevice) IsConnected() bool {
	return d.conn.IsConnected()
}

// GetConnection returns the connection handle. The handle is only usable
// after a successful Connect.
func (d *BLEDevice) GetConnection() device.Connection {
	return d.conn
}

var _ device.Device = (*BLEDevice)(nil)
