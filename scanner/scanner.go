// Package scanner discovers nearby BLE peripherals from their
// advertisements. It exists to answer "what is my strip's address"
// without reaching for a separate BLE tool.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cornelk/hashmap"
	"github.com/sirupsen/logrus"

	"github.com/govee-tools/goveectl/internal/device"
	"github.com/govee-tools/goveectl/internal/device/goble"
)

// ProgressCallback is called when the scan phase changes
type ProgressCallback func(phase string)

// DeviceEventType marks if the device was newly discovered or updated
type DeviceEventType int

const (
	EventNew DeviceEventType = iota
	EventUpdated
)

type DeviceEvent struct {
	Type       DeviceEventType
	DeviceInfo DeviceInfo
}

// DeviceInfo is a snapshot of everything learned about one peripheral.
type DeviceInfo struct {
	Address          string
	Name             string
	RSSI             int
	TxPowerLevel     int
	Connectable      bool
	Services         []string
	ManufacturerData []byte
	FirstSeen        time.Time
	LastSeen         time.Time
	AdvCount         int
}

// deviceRecord accumulates advertisements for one address.
type deviceRecord struct {
	mu   sync.Mutex
	info DeviceInfo
}

func newDeviceRecord(adv device.Advertisement) *deviceRecord {
	now := time.Now()
	return &deviceRecord{info: DeviceInfo{
		Address:          adv.Addr(),
		Name:             adv.LocalName(),
		RSSI:             adv.RSSI(),
		TxPowerLevel:     adv.TxPowerLevel(),
		Connectable:      adv.Connectable(),
		Services:         adv.Services(),
		ManufacturerData: adv.ManufacturerData(),
		FirstSeen:        now,
		LastSeen:         now,
		AdvCount:         1,
	}}
}

// update folds a repeat advertisement into the record. Scan responses may
// carry fields the initial advertisement lacked, so empty slots are filled
// rather than overwritten with blanks.
func (r *deviceRecord) update(adv device.Advertisement) DeviceInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name := adv.LocalName(); name != "" {
		r.info.Name = name
	}
	if services := adv.Services(); len(services) > 0 {
		r.info.Services = services
	}
	if md := adv.ManufacturerData(); len(md) > 0 {
		r.info.ManufacturerData = md
	}
	r.info.RSSI = adv.RSSI()
	r.info.LastSeen = time.Now()
	r.info.AdvCount++

	return r.info
}

func (r *deviceRecord) snapshot() DeviceInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info
}

// Scanner handles BLE device discovery
type Scanner struct {
	devices *hashmap.Map[string, *deviceRecord]
	events  *ringChannel[DeviceEvent]
	logger  *logrus.Logger

	scanOptions *ScanOptions
}

// ScanOptions configures scanning behavior
type ScanOptions struct {
	Adapter         string
	Duration        time.Duration
	DuplicateFilter bool
	ServiceUUIDs    []string
	AllowList       []string
	BlockList       []string
}

// DefaultScanOptions returns default scanning options
func DefaultScanOptions() *ScanOptions {
	return &ScanOptions{
		Duration:        10 * time.Second,
		DuplicateFilter: true,
	}
}

// NewScanner creates a new BLE scanner
func NewScanner(logger *logrus.Logger) (*Scanner, error) {
	if logger == nil {
		logger = logrus.New()
	}

	return &Scanner{
		events: newRingChannel[DeviceEvent](100),
		logger: logger,
	}, nil
}

// Scan performs BLE discovery with provided options
func (s *Scanner) Scan(ctx context.Context, opts *ScanOptions, progressCallback ProgressCallback) (map[string]DeviceInfo, error) {
	s.devices = hashmap.New[string, *deviceRecord]()

	if opts == nil {
		opts = DefaultScanOptions()
	}
	if progressCallback == nil {
		progressCallback = func(string) {} // No-op callback
	}
	opts.ServiceUUIDs = device.NormalizeUUIDs(opts.ServiceUUIDs)

	s.logger.WithField("duration", opts.Duration).Info("Starting BLE scan...")

	progressCallback("Scanning")

	dev, err := goble.NewScanningDevice(opts.Adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create BLE device: %w", err)
	}

	s.scanOptions = opts
	defer func() {
		s.scanOptions = nil
	}()

	scanCtx := ctx
	if opts.Duration > 0 {
		var cancel context.CancelFunc
		scanCtx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}

	err = dev.Scan(scanCtx, !opts.DuplicateFilter, s.handleAdvertisement)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("scan failed: %w", device.NormalizeError(err))
	}

	s.logger.WithField("device_count", s.devices.Len()).Info("BLE scan completed")

	progressCallback("Processing results")

	devices := make(map[string]DeviceInfo, s.devices.Len())
	s.devices.Range(func(key string, value *deviceRecord) bool {
		devices[key] = value.snapshot()
		return true
	})

	return devices, nil
}

// handleAdvertisement updates existing or adds a new device
func (s *Scanner) handleAdvertisement(adv device.Advertisement) {
	deviceID := adv.Addr()

	record, existing := s.devices.Get(deviceID)
	if !existing {
		if !s.shouldIncludeDevice(adv, s.scanOptions) {
			return
		}
		record, existing = s.devices.GetOrInsert(deviceID, newDeviceRecord(adv))
	}

	event := DeviceEvent{}

	if existing {
		event.Type = EventUpdated
		event.DeviceInfo = record.update(adv)
	} else {
		event.Type = EventNew
		event.DeviceInfo = record.snapshot()
		s.logger.WithFields(logrus.Fields{
			"device":  event.DeviceInfo.Name,
			"address": event.DeviceInfo.Address,
			"rssi":    event.DeviceInfo.RSSI,
		}).Info("Discovered new device")
	}

	s.events.ForceSend(event)
}

// shouldIncludeDevice applies the allow/block/service filters
func (s *Scanner) shouldIncludeDevice(adv device.Advertisement, opts *ScanOptions) bool {
	addr := adv.Addr()

	for _, blocked := range opts.BlockList {
		if addr == blocked {
			return false
		}
	}

	if len(opts.AllowList) > 0 {
		allowed := false
		for _, a := range opts.AllowList {
			if addr == a {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	if len(opts.ServiceUUIDs) > 0 {
		hasRequired := false
		for _, required := range opts.ServiceUUIDs {
			for _, advUUID := range adv.Services() {
				if required == advUUID {
					hasRequired = true
					break
				}
			}
			if hasRequired {
				break
			}
		}
		if !hasRequired {
			return false
		}
	}

	return true
}

// Events returns a read-only channel of device events
func (s *Scanner) Events() <-chan DeviceEvent {
	return s.events.C()
}
