// Package device defines the transport abstraction the rest of the tool is
// written against: a connectable BLE peripheral exposing GATT services,
// characteristic writes, and notification subscriptions. The go-ble backed
// implementation lives in the goble subpackage; tests substitute fakes.
package device

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// NotFoundError represents an error when a BLE resource is not found.
type NotFoundError struct {
	Resource string   // "service" or "characteristic"
	UUIDs    []string // one or more UUIDs (e.g. [charUUID] or [serviceUUID, charUUID])
}

func (e *NotFoundError) Error() string {
	switch len(e.UUIDs) {
	case 0:
		return fmt.Sprintf("%s not found", e.Resource)
	case 1:
		return fmt.Sprintf("%s %q not found", e.Resource, e.UUIDs[0])
	default:
		return fmt.Sprintf("%s %q not found in service %q", e.Resource, e.UUIDs[len(e.UUIDs)-1], e.UUIDs[0])
	}
}

// ConnectionState represents the specific kind of connection state failure.
type ConnectionState string

const (
	NotConnected     ConnectionState = "not_connected"
	AlreadyConnected ConnectionState = "already_connected"
	NotInitialized   ConnectionState = "not_initialized"
)

// ConnectionError represents any connection-related problem.
type ConnectionError struct {
	State ConnectionState
	Msg   string
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.State)
	}
	return fmt.Sprintf("%s: %s", e.State, e.Msg)
}

// Is allows errors.Is to compare ConnectionError values by State.
func (e *ConnectionError) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*ConnectionError)
	if !ok {
		return false
	}
	return e.State == t.State
}

// Predefined sentinel errors for connection states.
var (
	ErrNotConnected     = &ConnectionError{State: NotConnected}
	ErrAlreadyConnected = &ConnectionError{State: AlreadyConnected}
	ErrNotInitialized   = &ConnectionError{State: NotInitialized}
)

// Operation errors.
var (
	ErrTimeout      = errors.New("timeout")
	ErrUnsupported  = errors.New("unsupported")
	ErrBluetoothOff = errors.New("bluetooth is turned off")
)

// NormalizeError maps known go-ble error strings to structured ConnectionError
// types so callers can rely on errors.Is even if the upstream library changes
// messages slightly. Returns wrapped errors to preserve original context.
func NormalizeError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case containsIgnoreCase(msg, "is bluetooth turned on"):
		return fmt.Errorf("%w: %v", ErrBluetoothOff, err)
	case containsIgnoreCase(msg, "bluetooth is turned off"):
		return fmt.Errorf("%w: %v", ErrBluetoothOff, err)
	case containsIgnoreCase(msg, "device not connected"):
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	case containsIgnoreCase(msg, "disconnected"):
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	case containsIgnoreCase(msg, "device already connected"):
		return fmt.Errorf("%w: %v", ErrAlreadyConnected, err)
	case containsIgnoreCase(msg, "connection is not initialized"):
		return fmt.Errorf("%w: %v", ErrNotInitialized, err)
	default:
		return err
	}
}

// containsIgnoreCase checks the substring case-insensitively.
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// IsConnectionState reports whether err is a ConnectionError with the given state.
func IsConnectionState(err error, state ConnectionState) bool {
	var cerr *ConnectionError
	if errors.As(err, &cerr) {
		return cerr.State == state
	}
	return false
}

// ConnectOptions defines BLE connection options.
type ConnectOptions struct {
	Adapter        string // HCI adapter identifier (e.g. "hci0"); empty for default
	ConnectTimeout time.Duration
}

// Device defines a connectable BLE peripheral.
type Device interface {
	Address() string
	Connect(ctx context.Context, opts *ConnectOptions) error
	Disconnect() error
	IsConnected() bool
	GetConnection() Connection
}

// Connection represents a live BLE connection: the discovered GATT profile
// plus the write and notify primitives the protocol layer is built on.
type Connection interface {
	Services() []Service
	GetCharacteristic(uuid string) (Characteristic, error)

	// Write writes data to the characteristic. With withResponse set, the
	// call does not return until the peripheral's link layer acknowledges
	// receipt.
	Write(charUUID string, data []byte, withResponse bool) error

	// Subscribe arms handler for notifications on the characteristic.
	// Handlers are invoked on the transport's delivery goroutine and must
	// not block.
	Subscribe(charUUID string, handler func(data []byte)) error

	// Unsubscribe removes the notification subscription installed by
	// Subscribe. Safe to call after a failed operation.
	Unsubscribe(charUUID string) error
}

// Service represents a GATT service.
type Service interface {
	UUID() string
	KnownName() string
	GetCharacteristics() []Characteristic
}

// Characteristic represents GATT characteristic metadata.
type Characteristic interface {
	UUID() string
	KnownName() string
	GetProperties() Properties
}

// Property represents a single BLE characteristic property flag.
type Property interface {
	Value() int
	KnownName() string
}

// Properties represents the property flags of a characteristic. Accessors
// return nil when the flag is absent.
type Properties interface {
	Broadcast() Property
	Read() Property
	Write() Property
	WriteWithoutResponse() Property
	Notify() Property
	Indicate() Property
	AuthenticatedSignedWrites() Property
	ExtendedProperties() Property
}

// Advertisement is the subset of advertising data the scanner consumes.
type Advertisement interface {
	LocalName() string
	ManufacturerData() []byte
	Services() []string
	TxPowerLevel() int
	Connectable() bool
	RSSI() int
	Addr() string
}

// ScanningDevice represents a BLE adapter capable of scanning for advertisements.
type ScanningDevice interface {
	Scan(ctx context.Context, allowDup bool, handler func(Advertisement)) error
}
