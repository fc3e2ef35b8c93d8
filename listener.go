package txrx

import (
	"sync"

	"github.com/google/uuid"
)

// Handler is the callback signature invoked for each delivered message.
// Returning a non-nil error stops the in-progress delivery and propagates
// to the sender.
type Handler func(data any) error

// Listener wraps a subscriber callback with a stable identity. The registry
// compares listeners by pointer, never by callback value, so the same
// *Listener can be registered under any number of topics and removed again
// with Off.
type Listener struct {
	// ID is a unique identifier for this listener, used in logs.
	ID string

	fn Handler
}

// NewListener wraps fn for subscription via Rx. Returns nil if fn is nil.
func NewListener(fn Handler) *Listener {
	if fn == nil {
		return nil
	}
	return &Listener{
		ID: uuid.NewString(),
		fn: fn,
	}
}

func (l *Listener) invoke(data any) error {
	return l.fn(data)
}

// WeakHandle is a non-owning reference to a Listener, created by Rx.OnWeak.
// The subscription holds only this handle; the caller keeps the sole strong
// reference to the listener and drops it with Release. Once released, the
// next delivery attempt for the subscription evicts it from the registry
// instead of calling anything. Resolution is explicit and does not depend
// on garbage collection timing.
type WeakHandle struct {
	mu sync.Mutex
	l  *Listener
}

func newWeakHandle(l *Listener) *WeakHandle {
	return &WeakHandle{l: l}
}

// get resolves the handle. ok is false once Release has been called.
func (h *WeakHandle) get() (l *Listener, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.l, h.l != nil
}

// Alive reports whether the referent has not yet been released.
func (h *WeakHandle) Alive() bool {
	_, ok := h.get()
	return ok
}

// Release drops the referent. Safe to call more than once.
func (h *WeakHandle) Release() {
	h.mu.Lock()
	h.l = nil
	h.mu.Unlock()
}
