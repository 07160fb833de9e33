package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/govee-tools/goveectl/internal/device"
	"github.com/govee-tools/goveectl/internal/device/goble"
)

// fakeAdvertisement is an in-memory device.Advertisement.
type fakeAdvertisement struct {
	addr        string
	name        string
	rssi        int
	txPower     int
	connectable bool
	services    []string
	mfrData     []byte
}

func (f *fakeAdvertisement) LocalName() string        { return f.name }
func (f *fakeAdvertisement) ManufacturerData() []byte { return f.mfrData }
func (f *fakeAdvertisement) Services() []string       { return f.services }
func (f *fakeAdvertisement) TxPowerLevel() int        { return f.txPower }
func (f *fakeAdvertisement) Connectable() bool        { return f.connectable }
func (f *fakeAdvertisement) RSSI() int                { return f.rssi }
func (f *fakeAdvertisement) Addr() string             { return f.addr }

// fakeScanningDevice replays a fixed advertisement sequence and then waits
// for the scan context to expire, like a real radio would.
type fakeScanningDevice struct {
	advertisements []device.Advertisement
}

func (f *fakeScanningDevice) Scan(ctx context.Context, allowDup bool, handler func(device.Advertisement)) error {
	for _, adv := range f.advertisements {
		handler(adv)
	}
	<-ctx.Done()
	return ctx.Err()
}

type ScannerTestSuite struct {
	suite.Suite
	logger  *logrus.Logger
	restore func(adapter string) (device.ScanningDevice, error)

	adv1, adv2, adv3 *fakeAdvertisement
}

func (suite *ScannerTestSuite) SetupTest() {
	suite.logger = logrus.New()
	suite.logger.SetLevel(logrus.PanicLevel)

	suite.adv1 = &fakeAdvertisement{
		addr:        "AA:BB:CC:DD:EE:FF",
		name:        "Govee_H6159_AABB",
		rssi:        -45,
		connectable: true,
		services:    []string{"000102030405060708090a0b0c0d1910"},
	}
	suite.adv2 = &fakeAdvertisement{
		addr:        "11:22:33:44:55:66",
		name:        "Kitchen Sensor",
		rssi:        -67,
		connectable: true,
		services:    []string{"0000180f00001000800000805f9b34fb"},
	}
	suite.adv3 = &fakeAdvertisement{
		addr: "99:88:77:66:55:44",
		rssi: -80,
	}

	suite.restore = goble.NewScanningDevice
	suite.stubAdvertisements(suite.adv1, suite.adv2, suite.adv3)
}

func (suite *ScannerTestSuite) TearDownTest() {
	goble.NewScanningDevice = suite.restore
}

func (suite *ScannerTestSuite) stubAdvertisements(advs ...device.Advertisement) {
	goble.NewScanningDevice = func(adapter string) (device.ScanningDevice, error) {
		return &fakeScanningDevice{advertisements: advs}, nil
	}
}

func (suite *ScannerTestSuite) scan(opts *ScanOptions) map[string]DeviceInfo {
	s, err := NewScanner(suite.logger)
	suite.Require().NoError(err)

	if opts == nil {
		opts = &ScanOptions{}
	}
	if opts.Duration == 0 {
		opts.Duration = 50 * time.Millisecond
	}

	devices, err := s.Scan(context.Background(), opts, nil)
	suite.Require().NoError(err, "an elapsed scan window MUST NOT be an error")
	return devices
}

func (suite *ScannerTestSuite) TestDefaultScanOptions() {
	opts := DefaultScanOptions()

	suite.Equal(10*time.Second, opts.Duration)
	suite.True(opts.DuplicateFilter)
	suite.Nil(opts.ServiceUUIDs)
	suite.Nil(opts.AllowList)
	suite.Nil(opts.BlockList)
}

func (suite *ScannerTestSuite) TestScanCollectsAllDevices() {
	// GOAL: Verify an unfiltered scan registers every advertiser once

	devices := suite.scan(nil)

	suite.Len(devices, 3)
	suite.Contains(devices, suite.adv1.addr)
	suite.Contains(devices, suite.adv2.addr)
	suite.Contains(devices, suite.adv3.addr)

	info := devices[suite.adv1.addr]
	suite.Equal("Govee_H6159_AABB", info.Name)
	suite.Equal(-45, info.RSSI)
	suite.True(info.Connectable)
	suite.Equal(1, info.AdvCount)
}

func (suite *ScannerTestSuite) TestScannerFiltering() {
	tests := []struct {
		name     string
		opts     *ScanOptions
		expected []string
	}{
		{
			name:     "block list excludes its member",
			opts:     &ScanOptions{BlockList: []string{"AA:BB:CC:DD:EE:FF"}},
			expected: []string{"11:22:33:44:55:66", "99:88:77:66:55:44"},
		},
		{
			name:     "allow list admits only its members",
			opts:     &ScanOptions{AllowList: []string{"AA:BB:CC:DD:EE:FF"}},
			expected: []string{"AA:BB:CC:DD:EE:FF"},
		},
		{
			name:     "allow list with no match admits nobody",
			opts:     &ScanOptions{AllowList: []string{"FF:EE:DD:CC:BB:AA"}},
			expected: []string{},
		},
		{
			name:     "service filter matches advertised service",
			opts:     &ScanOptions{ServiceUUIDs: []string{"180F"}},
			expected: []string{"11:22:33:44:55:66"},
		},
		{
			name:     "service filter accepts the Govee control service",
			opts:     &ScanOptions{ServiceUUIDs: []string{"00010203-0405-0607-0809-0a0b0c0d1910"}},
			expected: []string{"AA:BB:CC:DD:EE:FF"},
		},
		{
			name:     "unknown service filters everything out",
			opts:     &ScanOptions{ServiceUUIDs: []string{"1234"}},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			devices := suite.scan(tt.opts)
			suite.Len(devices, len(tt.expected))
			for _, addr := range tt.expected {
				suite.Contains(devices, addr)
			}
		})
	}
}

func (suite *ScannerTestSuite) TestRepeatAdvertisementsFold() {
	// GOAL: Verify duplicates update the record instead of duplicating it
	//
	// TEST SCENARIO: Same address seen three times, scan response fills the
	// name later → one record, advertisement count 3, name backfilled

	bare := &fakeAdvertisement{addr: "AA:BB:CC:DD:EE:FF", rssi: -50}
	named := &fakeAdvertisement{addr: "AA:BB:CC:DD:EE:FF", name: "Govee_H6159_AABB", rssi: -48}
	suite.stubAdvertisements(bare, named, bare)

	devices := suite.scan(nil)

	suite.Require().Len(devices, 1)
	info := devices["AA:BB:CC:DD:EE:FF"]
	suite.Equal(3, info.AdvCount)
	suite.Equal("Govee_H6159_AABB", info.Name, "scan response name MUST survive a later bare advertisement")
	suite.False(info.LastSeen.Before(info.FirstSeen))
}

func (suite *ScannerTestSuite) TestEventsCarryDiscoveries() {
	suite.stubAdvertisements(suite.adv1, suite.adv1)

	s, err := NewScanner(suite.logger)
	suite.Require().NoError(err)

	_, err = s.Scan(context.Background(), &ScanOptions{Duration: 50 * time.Millisecond}, nil)
	suite.Require().NoError(err)

	first := <-s.Events()
	suite.Equal(EventNew, first.Type)
	suite.Equal(suite.adv1.addr, first.DeviceInfo.Address)

	second := <-s.Events()
	suite.Equal(EventUpdated, second.Type)
	suite.Equal(2, second.DeviceInfo.AdvCount)
}

func TestScannerTestSuite(t *testing.T) {
	suite.Run(t, new(ScannerTestSuite))
}

func TestRingChannelDropsOldest(t *testing.T) {
	rc := newRingChannel[int](2)

	rc.ForceSend(1)
	rc.ForceSend(2)
	dropped := rc.ForceSend(3)

	if !dropped {
		t.Fatal("full buffer MUST drop the oldest element")
	}
	if got := <-rc.C(); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := <-rc.C(); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}
