package goble

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-ble/ble"
	"github.com/sirupsen/logrus"

	"github.com/govee-tools/goveectl/internal/device"
)

// BLEConnection represents a live BLE connection (notifications, writes).
type BLEConnection struct {
	client      ble.Client
	logger      *logrus.Logger
	writeMutex  sync.Mutex
	connMutex   sync.RWMutex
	isConnected bool

	services map[string]*BLEService
	// chars indexes every discovered characteristic by normalized UUID for
	// direct lookup; the Govee profile has no duplicate UUIDs across services.
	chars map[string]*BLECharacteristic

	// subscribed tracks UUIDs with an armed notification handler so
	// Disconnect can release them even if a caller forgot to.
	subscribed map[string]struct{}
}

// NewBLEConnection creates an unconnected BLEConnection.
func NewBLEConnection(logger *logrus.Logger) *BLEConnection {
	if logger == nil {
		logger = logrus.New()
	}
	return &BLEConnection{
		logger:     logger,
		services:   make(map[string]*BLEService),
		chars:      make(map[string]*BLECharacteristic),
		subscribed: make(map[string]struct{}),
	}
}

// Connect establishes a BLE connection and populates the GATT profile.
func (c *BLEConnection) Connect(ctx context.Context, address string, opts *device.ConnectOptions) error {
	c.connMutex.Lock()
	defer c.connMutex.Unlock()

	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("device address is empty")
	}
	if c.isConnectedInternal() {
		c.logger.WithField("address", address).Warn("Connection attempt while already connected")
		return device.ErrAlreadyConnected
	}

	c.logger.WithFields(logrus.Fields{
		"address": address,
		"adapter": opts.Adapter,
		"timeout": opts.ConnectTimeout,
	}).Info("Connecting to BLE device...")

	dev, err := DeviceFactory(opts.Adapter)
	if err != nil {
		return fmt.Errorf("failed to create BLE device on adapter %q: %w", opts.Adapter, err)
	}
	ble.SetDefaultDevice(dev)

	connCtx := ctx
	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connCtx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}

	client, err := ble.Dial(connCtx, ble.NewAddr(address))
	if err != nil {
		return fmt.Errorf("failed to connect to device with address %q: %w", address, device.NormalizeError(err))
	}

	c.logger.WithField("address", address).Debug("Discovering services and characteristics...")
	profile, err := client.DiscoverProfile(true)
	if err != nil {
		if cancelErr := client.CancelConnection(); cancelErr != nil {
			c.logger.WithError(cancelErr).Warn("Failed to cancel connection during profile discovery failure")
		}
		return fmt.Errorf("failed to discover profile: %w", device.NormalizeError(err))
	}

	for _, bleSvc := range profile.Services {
		svc := newService(bleSvc)
		c.services[svc.uuid] = svc
		for _, char := range svc.characteristics {
			c.chars[char.uuid] = char
		}
	}

	c.client = client
	c.isConnected = true

	c.logger.WithFields(logrus.Fields{
		"address":         address,
		"services":        len(c.services),
		"characteristics": len(c.chars),
	}).Info("BLE device connected")
	return nil
}

// Disconnect releases remaining subscriptions and tears the connection down.
func (c *BLEConnection) Disconnect() error {
	c.connMutex.Lock()
	if c.client == nil || !c.isConnected {
		c.connMutex.Unlock()
		c.logger.Debug("Disconnect called but already disconnected")
		return nil
	}

	client := c.client
	leftover := make([]string, 0, len(c.subscribed))
	for uuid := range c.subscribed {
		leftover = append(leftover, uuid)
	}
	c.client = nil
	c.isConnected = false
	c.subscribed = make(map[string]struct{})
	c.connMutex.Unlock()

	for _, uuid := range leftover {
		char, ok := c.chars[uuid]
		if !ok || char.bleChar == nil {
			continue
		}
		if err := client.Unsubscribe(char.bleChar, false); err != nil {
			c.logger.WithError(err).WithField("char", uuid).Warn("Failed to unsubscribe during disconnect")
		}
	}

	err := client.CancelConnection()
	if err != nil {
		c.logger.WithError(err).Warn("BLE device disconnected with errors")
		return device.NormalizeError(err)
	}
	c.logger.Info("BLE device disconnected")
	return nil
}

// isConnectedInternal checks the connection status without acquiring locks.
// Callers must hold connMutex.
func (c *BLEConnection) isConnectedInternal() bool {
	return c.client != nil && c.isConnected
}

// IsConnected reports whether the connection is live.
func (c *BLEConnection) IsConnected() bool {
	c.connMutex.RLock()
	defer c.connMutex.RUnlock()
	return c.isConnectedInternal()
}

// Services returns all discovered services sorted by UUID.
func (c *BLEConnection) Services() []device.Service {
	c.connMutex.RLock()
	defer c.connMutex.RUnlock()

	result := make([]device.Service, 0, len(c.services))
	for _, svc := range c.services {
		result = append(result, svc)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UUID() < result[j].UUID()
	})
	return result
}

// GetCharacteristic retrieves a characteristic by UUID (any accepted form).
func (c *BLEConnection) GetCharacteristic(uuid string) (device.Characteristic, error) {
	char, err := c.lookup(uuid)
	if err != nil {
		return nil, err
	}
	return char, nil
}

func (c *BLEConnection) lookup(uuid string) (*BLECharacteristic, error) {
	c.connMutex.RLock()
	defer c.connMutex.RUnlock()

	char, ok := c.chars[device.NormalizeUUID(uuid)]
	if !ok {
		return nil, &device.NotFoundError{Resource: "characteristic", UUIDs: []string{uuid}}
	}
	return char, nil
}

// Write writes data to the characteristic. With withResponse set the call
// blocks until the peripheral's link layer acknowledges receipt.
func (c *BLEConnection) Write(charUUID string, data []byte, withResponse bool) error {
	char, err := c.lookup(charUUID)
	if err != nil {
		return err
	}

	c.connMutex.RLock()
	if !c.isConnectedInternal() {
		c.connMutex.RUnlock()
		return device.ErrNotConnected
	}
	client := c.client
	c.connMutex.RUnlock()

	props := char.bleChar.Property
	if props&(ble.CharWrite|ble.CharWriteNR) == 0 {
		return fmt.Errorf("characteristic %s does not support write operations: %w", char.uuid, device.ErrUnsupported)
	}
	// Honor the requested mode only when the peripheral supports it.
	noRsp := !withResponse || props&ble.CharWrite == 0

	// Serialize writes; go-ble clients are not safe for concurrent writers.
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()

	if err := client.WriteCharacteristic(char.bleChar, data, noRsp); err != nil {
		return fmt.Errorf("failed to write characteristic %s: %w", char.uuid, device.NormalizeError(err))
	}

	c.logger.WithFields(logrus.Fields{
		"char":         char.uuid,
		"bytes":        len(data),
		"withResponse": !noRsp,
	}).Debug("Characteristic written")
	return nil
}

// Subscribe arms handler for notifications on the characteristic.
func (c *BLEConnection) Subscribe(charUUID string, handler func(data []byte)) error {
	if handler == nil {
		return fmt.Errorf("notification handler is required")
	}

	char, err := c.lookup(charUUID)
	if err != nil {
		return err
	}

	c.connMutex.Lock()
	if !c.isConnectedInternal() {
		c.connMutex.Unlock()
		return device.ErrNotConnected
	}
	client := c.client
	c.connMutex.Unlock()

	if char.bleChar.Property&(ble.CharNotify|ble.CharIndicate) == 0 {
		return fmt.Errorf("characteristic %s does not support notifications: %w", char.uuid, device.ErrUnsupported)
	}

	if err := client.Subscribe(char.bleChar, false, func(data []byte) {
		handler(data)
	}); err != nil {
		return fmt.Errorf("failed to subscribe to characteristic %s: %w", char.uuid, device.NormalizeError(err))
	}

	c.connMutex.Lock()
	c.subscribed[char.uuid] = struct{}{}
	c.connMutex.Unlock()

	c.logger.WithField("char", char.uuid).Debug("Subscribed to notifications")
	return nil
}

// Unsubscribe removes the notification subscription on the characteristic.
func (c *BLEConnection) Unsubscribe(charUUID string) error {
	char, err := c.lookup(charUUID)
	if err != nil {
		return err
	}

	c.connMutex.Lock()
	if !c.isConnectedInternal() {
		c.connMutex.Unlock()
		return device.ErrNotConnected
	}
	client := c.client
	delete(c.subscribed, char.uuid)
	c.connMutex.Unlock()

	if err := client.Unsubscribe(char.bleChar, false); err != nil {
		return fmt.Errorf("failed to unsubscribe from characteristic %s: %w", char.uuid, device.NormalizeError(err))
	}

	c.logger.WithField("char", char.uuid).Debug("Unsubscribed from notifications")
	return nil
}

var _ device.Connection = (*BLEConnection)(nil)
