package scanner

// ringChannel is a bounded channel-like buffer with overwrite-oldest
// semantics. Producers never block: if the buffer is full, the oldest
// element is discarded to make room. Readers consume via C() like a
// normal Go channel.
type ringChannel[T any] struct {
	ch chan T
}

func newRingChannel[T any](capacity int) *ringChannel[T] {
	if capacity <= 0 {
		panic("ringchan: capacity must be > 0")
	}
	return &ringChannel[T]{ch: make(chan T, capacity)}
}

// C returns the underlying receive-only channel.
func (rc *ringChannel[T]) C() <-chan T {
	return rc.ch
}

// ForceSend always succeeds immediately, discarding the oldest element if
// needed. Returns true when an element was dropped.
func (rc *ringChannel[T]) ForceSend(v T) bool {
	dropped := false
	for {
		select {
		case rc.ch <- v:
			return dropped
		default:
			select {
			case <-rc.ch:
				dropped = true
			default:
			}
		}
	}
}
