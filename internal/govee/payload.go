// Package govee implements the vendor command/response protocol spoken by
// Govee H6xxx LED strips over GATT: fixed 21-byte command frames written to
// the command characteristic, and state notifications pushed on the status
// characteristic. Verified against a H617A strip.
package govee

// LedState is the protocol-visible power state of the strip.
type LedState int

const (
	// StateUnknown is the terminal value when no valid notification arrives
	// before the query timeout, or a frame fails the header check.
	StateUnknown LedState = iota
	StateOn
	StateOff
)

// String returns the display form of the state.
func (s LedState) String() string {
	switch s {
	case StateOn:
		return "ON"
	case StateOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// FrameSize is the fixed length of every command frame.
const FrameSize = 21

// notifyHeader is the first byte of every state notification frame.
const notifyHeader = 0xAA

// Command frames. The trailing byte of each frame is the XOR checksum of
// all preceding bytes. Never mutated; accessors below hand out copies.
var (
	onFrame           = buildFrame(0x33, 0x01, 0x01)
	offFrame          = buildFrame(0x33, 0x01, 0x00)
	queryTriggerFrame = buildFrame(0xAA, 0x01, 0x00)
)

// buildFrame assembles a 21-byte command frame from its leading opcode
// bytes, zero-padding and appending the XOR checksum.
func buildFrame(lead ...byte) []byte {
	frame := make([]byte, FrameSize)
	copy(frame, lead)
	frame[FrameSize-1] = Checksum(frame[:FrameSize-1])
	return frame
}

// Checksum folds data with XOR. The device validates command frames by
// checking that the final byte equals the XOR of the rest.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum ^= b
	}
	return sum
}

// OnFrame returns the power-on command frame.
func OnFrame() []byte {
	return append([]byte(nil), onFrame...)
}

// OffFrame returns the power-off command frame.
func OffFrame() []byte {
	return append([]byte(nil), offFrame...)
}

// QueryTriggerFrame returns the frame that makes the strip report its state
// on the status characteristic.
func QueryTriggerFrame() []byte {
	return append([]byte(nil), queryTriggerFrame...)
}

// DecodeNotification classifies a status notification frame. It is total:
// frames that are too short or carry the wrong header yield StateUnknown,
// never an error. Byte 2 encodes the state: 1 on, 0 off.
func DecodeNotification(frame []byte) LedState {
	if len(frame) < 3 || frame[0] != notifyHeader {
		return StateUnknown
	}
	switch frame[2] {
	case 1:
		return StateOn
	case 0:
		return StateOff
	default:
		return StateUnknown
	}
}
