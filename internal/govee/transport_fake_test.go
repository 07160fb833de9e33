package govee

import (
	"sync"
)

// writeOp records one Write call observed by the fake transport.
type writeOp struct {
	char         string
	data         []byte
	withResponse bool
}

// fakeTransport is an in-memory Transport. Notification handlers are held
// per characteristic; Notify delivers to the armed handler the way a real
// transport invokes callbacks on its delivery goroutine. The onWrite hook
// runs synchronously inside Write, which lets tests model a peripheral that
// responds before the write call returns.
type fakeTransport struct {
	mu       sync.Mutex
	handlers map[string]func([]byte)
	writes   []writeOp

	onWrite        func(op writeOp)
	writeErr       error
	subscribeErr   error
	unsubscribeErr error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{handlers: make(map[string]func([]byte))}
}

func (f *fakeTransport) Write(charUUID string, data []byte, withResponse bool) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	op := writeOp{char: charUUID, data: append([]byte(nil), data...), withResponse: withResponse}
	f.mu.Lock()
	f.writes = append(f.writes, op)
	hook := f.onWrite
	f.mu.Unlock()

	if hook != nil {
		hook(op)
	}
	return nil
}

func (f *fakeTransport) Subscribe(charUUID string, handler func(data []byte)) error {
	if f.subscribeErr != nil {
		return f.subscribeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[charUUID] = handler
	return nil
}

func (f *fakeTransport) Unsubscribe(charUUID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.handlers, charUUID)
	return f.unsubscribeErr
}

// Notify delivers a notification to the handler armed on charUUID, if any.
func (f *fakeTransport) Notify(charUUID string, data []byte) {
	f.mu.Lock()
	handler := f.handlers[charUUID]
	f.mu.Unlock()
	if handler != nil {
		handler(data)
	}
}

// activeSubscriptions returns the number of armed handlers.
func (f *fakeTransport) activeSubscriptions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

// recordedWrites returns a snapshot of observed writes.
func (f *fakeTransport) recordedWrites() []writeOp {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]writeOp(nil), f.writes...)
}
