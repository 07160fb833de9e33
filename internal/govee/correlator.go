package govee

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Transport is the slice of a BLE connection the protocol layer needs.
// device.Connection satisfies it; tests substitute fakes.
type Transport interface {
	Write(charUUID string, data []byte, withResponse bool) error
	Subscribe(charUUID string, handler func(data []byte)) error
	Unsubscribe(charUUID string) error
}

// AwaitState performs one request/response correlation: it arms a one-shot
// notification listener on readChar, writes trigger to writeChar with
// link-layer acknowledgment, and waits for the first decodable state
// notification or the timeout, whichever comes first.
//
// The subscription is installed before the trigger write so a responder
// that notifies synchronously from the write cannot be missed, and it is
// released on every exit path. A timeout is not an error: it resolves to
// StateUnknown. A failed write is an error and also resolves to
// StateUnknown.
func AwaitState(t Transport, writeChar, readChar string, trigger []byte, timeout time.Duration, logger *logrus.Logger) (LedState, error) {
	if logger == nil {
		logger = logrus.New()
	}

	// Buffered single-slot channel: the first valid decode wins and every
	// later (or post-timeout) notification is dropped by the default branch,
	// so a late callback can never block or double-resolve the wait.
	resolved := make(chan LedState, 1)

	handler := func(data []byte) {
		state := DecodeNotification(data)
		logger.WithFields(logrus.Fields{
			"char":  readChar,
			"bytes": fmt.Sprintf("%x", data),
			"state": state.String(),
		}).Debug("Notification received")

		if state == StateUnknown {
			// Unrecognized or malformed frame; keep waiting.
			return
		}
		select {
		case resolved <- state:
		default:
		}
	}

	if err := t.Subscribe(readChar, handler); err != nil {
		return StateUnknown, fmt.Errorf("failed to arm state listener: %w", err)
	}
	defer func() {
		if err := t.Unsubscribe(readChar); err != nil {
			logger.WithError(err).WithField("char", readChar).Warn("Failed to release state listener")
		}
	}()

	if err := t.Write(writeChar, trigger, true); err != nil {
		return StateUnknown, fmt.Errorf("failed to write state trigger: %w", err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case state := <-resolved:
		return state, nil
	case <-timer.C:
		logger.WithField("timeout", timeout).Info("No state notification before timeout")
		return StateUnknown, nil
	}
}
