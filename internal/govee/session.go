package govee

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultQueryTimeout bounds the wait for a state notification. The strip
// normally answers within a few hundred milliseconds; 8 seconds matches the
// slowest responses observed through a congested adapter.
const DefaultQueryTimeout = 8 * time.Second

// Characteristics names the GATT endpoints of one strip: commands go to
// Write, state notifications arrive on Read.
type Characteristics struct {
	Write string
	Read  string
}

// Session exposes state-level operations over one connected transport.
// Operations on a session are sequential; the transport is exclusively
// owned by the in-flight operation. The caller owns the transport's
// lifetime — a Session never connects or disconnects.
type Session struct {
	transport    Transport
	chars        Characteristics
	queryTimeout time.Duration
	logger       *logrus.Logger
}

// NewSession creates a session over an already-connected transport.
// A zero queryTimeout selects DefaultQueryTimeout.
func NewSession(t Transport, chars Characteristics, queryTimeout time.Duration, logger *logrus.Logger) *Session {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Session{
		transport:    t,
		chars:        chars,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// QueryState asks the strip for its current power state. A protocol timeout
// is not an error and yields StateUnknown; only transport failures are
// returned as errors.
func (s *Session) QueryState() (LedState, error) {
	state, err := AwaitState(s.transport, s.chars.Write, s.chars.Read, QueryTriggerFrame(), s.queryTimeout, s.logger)
	if err != nil {
		return StateUnknown, err
	}

	s.logger.WithField("state", state.String()).Debug("State query resolved")
	return state, nil
}

// SetState turns the strip on or off. The write requests link-layer
// acknowledgment; the strip's application state is assumed, not re-verified.
func (s *Session) SetState(on bool) error {
	frame := OffFrame()
	if on {
		frame = OnFrame()
	}

	if err := s.transport.Write(s.chars.Write, frame, true); err != nil {
		return fmt.Errorf("failed to send power command: %w", err)
	}

	s.logger.WithField("on", on).Debug("Power command acknowledged")
	return nil
}

// ToggleResult reports the outcome of a Toggle.
type ToggleResult struct {
	Previous  LedState
	Target    LedState
	Performed bool
}

// Toggle queries the current state and writes the opposite. When the query
// resolves to StateUnknown the toggle is not performed: no write is issued
// and the result reports Performed=false rather than guessing.
func (s *Session) Toggle() (ToggleResult, error) {
	current, err := s.QueryState()
	if err != nil {
		return ToggleResult{Previous: StateUnknown}, err
	}

	result := ToggleResult{Previous: current}
	if current == StateUnknown {
		s.logger.Info("State indeterminate, toggle not performed")
		return result, nil
	}

	turnOn := current == StateOff
	if err := s.SetState(turnOn); err != nil {
		return result, err
	}

	result.Performed = true
	if turnOn {
		result.Target = StateOn
	} else {
		result.Target = StateOff
	}
	return result, nil
}
