package goble

import (
	"github.com/go-ble/ble"

	"github.com/govee-tools/goveectl/internal/bledb"
	"github.com/govee-tools/goveectl/internal/device"
)

// BLECharacteristic wraps one discovered GATT characteristic. The live
// ble.Characteristic handle stays private to this package; all I/O goes
// through BLEConnection.
type BLECharacteristic struct {
	uuid       string
	knownName  string
	properties device.Properties
	bleChar    *ble.Characteristic
}

func newCharacteristic(char *ble.Characteristic) *BLECharacteristic {
	rawUUID := char.UUID.String()
	return &BLECharacteristic{
		uuid:       device.NormalizeUUID(rawUUID),
		knownName:  bledb.LookupCharacteristic(rawUUID),
		properties: NewProperties(char.Property),
		bleChar:    char,
	}
}

// UUID returns the normalized characteristic UUID.
func (c *BLECharacteristic) UUID() string {
	return c.uuid
}

// KnownName returns the human-readable characteristic name, if known.
func (c *BLECharacteristic) KnownName() string {
	return c.knownName
}

// GetProperties returns the characteristic's property flags.
func (c *BLECharacteristic) GetProperties() device.Properties {
	return c.properties
}

var _ device.Characteristic = (*BLECharacteristic)(nil)
