package goble

import (
	"context"

	"github.com/go-ble/ble"

	"github.com/govee-tools/goveectl/internal/device"
)

// BLEAdvertisement adapts ble.Advertisement to the device.Advertisement interface.
type BLEAdvertisement struct {
	adv ble.Advertisement
}

// NewBLEAdvertisement wraps a raw go-ble advertisement.
func NewBLEAdvertisement(adv ble.Advertisement) *BLEAdvertisement {
	return &BLEAdvertisement{adv: adv}
}

func (a *BLEAdvertisement) LocalName() string {
	return a.adv.LocalName()
}

func (a *BLEAdvertisement) ManufacturerData() []byte {
	return a.adv.ManufacturerData()
}

func (a *BLEAdvertisement) Services() []string {
	uuids := a.adv.Services()
	result := make([]string, 0, len(uuids))
	for _, u := range uuids {
		result = append(result, device.NormalizeUUID(u.String()))
	}
	return result
}

func (a *BLEAdvertisement) TxPowerLevel() int {
	return a.adv.TxPowerLevel()
}

func (a *BLEAdvertisement) Connectable() bool {
	return a.adv.Connectable()
}

func (a *BLEAdvertisement) RSSI() int {
	return a.adv.RSSI()
}

func (a *BLEAdvertisement) Addr() string {
	return a.adv.Addr().String()
}

var _ device.Advertisement = (*BLEAdvertisement)(nil)

// scanningDevice wraps ble.Device to implement device.ScanningDevice.
type scanningDevice struct {
	dev ble.Device
}

func (s *scanningDevice) Scan(ctx context.Context, allowDup bool, handler func(device.Advertisement)) error {
	return s.dev.Scan(ctx, allowDup, func(adv ble.Advertisement) {
		handler(NewBLEAdvertisement(adv))
	})
}

// NewScanningDevice opens the adapter for advertisement scanning.
// It is a variable so tests can substitute a fake.
var NewScanningDevice = func(adapter string) (device.ScanningDevice, error) {
	dev, err := DeviceFactory(adapter)
	if err != nil {
		return nil, err
	}
	return &scanningDevice{dev: dev}, nil
}
