// Package bledb provides UUID normalization and a small lookup table of
// human-readable names for the services and characteristics this tool is
// likely to display: the Bluetooth SIG assigned numbers that commonly show
// up on consumer peripherals, plus the Govee vendor pair.
package bledb

import "strings"

// sigBaseSuffix is the tail of the Bluetooth SIG base UUID
// (0000xxxx-0000-1000-8000-00805f9b34fb) after normalization.
const sigBaseSuffix = "00001000800000805f9b34fb"

// NormalizeUUID converts a UUID string to the internal BLE library format
// (lowercase, no dashes). Strips a 0x prefix if present. Full 128-bit UUIDs
// in the SIG base format are reduced to their 16-bit short form.
func NormalizeUUID(uuid string) string {
	s := strings.ToLower(strings.TrimSpace(uuid))
	s = strings.TrimPrefix(s, "0x")
	s = strings.ReplaceAll(s, "-", "")

	// 0000xxxx + SIG base suffix -> xxxx
	if len(s) == 32 && strings.HasPrefix(s, "0000") && strings.HasSuffix(s, sigBaseSuffix) {
		return s[4:8]
	}
	return s
}

// NormalizeUUIDs normalizes a slice of UUID strings to internal format.
func NormalizeUUIDs(uuids []string) []string {
	result := make([]string, len(uuids))
	for i, u := range uuids {
		result[i] = NormalizeUUID(u)
	}
	return result
}

var serviceNames = map[string]string{
	"1800": "Generic Access",
	"1801": "Generic Attribute",
	"1802": "Immediate Alert",
	"1803": "Link Loss",
	"1804": "Tx Power",
	"180a": "Device Information",
	"180f": "Battery Service",

	// Govee H6xxx LED strips expose their control service under this
	// vendor base UUID.
	"000102030405060708090a0b0c0d1910": "Govee LED Control",
}

var characteristicNames = map[string]string{
	"2a00": "Device Name",
	"2a01": "Appearance",
	"2a04": "Peripheral Preferred Connection Parameters",
	"2a05": "Service Changed",
	"2a19": "Battery Level",
	"2a23": "System ID",
	"2a24": "Model Number String",
	"2a25": "Serial Number String",
	"2a26": "Firmware Revision String",
	"2a27": "Hardware Revision String",
	"2a28": "Software Revision String",
	"2a29": "Manufacturer Name String",

	"000102030405060708090a0b0c0d2b11": "Govee Command",
	"000102030405060708090a0b0c0d2b10": "Govee Status",
}

// LookupService returns the human-readable name for a service UUID,
// or an empty string if the UUID is not in the table.
func LookupService(uuid string) string {
	return serviceNames[NormalizeUUID(uuid)]
}

// LookupCharacteristic returns the human-readable name for a characteristic
// UUID, or an empty string if the UUID is not in the table.
func LookupCharacteristic(uuid string) string {
	return characteristicNames[NormalizeUUID(uuid)]
}
