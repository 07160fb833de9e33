package goble

import (
	"sort"

	"github.com/go-ble/ble"

	"github.com/govee-tools/goveectl/internal/bledb"
	"github.com/govee-tools/goveectl/internal/device"
)

// BLEService wraps one discovered GATT service.
type BLEService struct {
	uuid            string
	knownName       string
	characteristics map[string]*BLECharacteristic
}

func newService(svc *ble.Service) *BLEService {
	rawUUID := svc.UUID.String()
	s := &BLEService{
		uuid:            device.NormalizeUUID(rawUUID),
		knownName:       bledb.LookupService(rawUUID),
		characteristics: make(map[string]*BLECharacteristic, len(svc.Characteristics)),
	}
	for _, char := range svc.Characteristics {
		c := newCharacteristic(char)
		s.characteristics[c.uuid] = c
	}
	return s
}

// UUID returns the normalized service UUID.
func (s *BLEService) UUID() string {
	return s.uuid
}

// KnownName returns the human-readable service name, if known.
func (s *BLEService) KnownName() string {
	return s.knownName
}

// GetCharacteristics returns the service's characteristics sorted by UUID.
func (s *BLEService) GetCharacteristics() []device.Characteristic {
	result := make([]device.Characteristic, 0, len(s.characteristics))
	for _, c := range s.characteristics {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UUID() < result[j].UUID()
	})
	return result
}

var _ device.Service = (*BLEService)(nil)
