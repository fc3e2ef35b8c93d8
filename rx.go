package txrx

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Rx is the receive half of a Channel: it manages subscriptions in the
// shared registry and offers three lifetime policies per registration:
// persistent (On), one-shot (Once), and weak (OnWeak).
type Rx struct {
	reg *registry
}

// On subscribes l to topic until explicitly removed, and returns l so the
// caller can pass it to Off later. Subscribing the same *Listener to the
// same topic twice is a no-op; the registry is a set keyed by listener
// identity. A nil listener is ignored and returned as nil.
func (rx *Rx) On(topic string, l *Listener) *Listener {
	if l == nil {
		return nil
	}
	rx.reg.add(topic, l)
	return l
}

// Once subscribes l to fire for at most one delivery: the registry holds an
// internal trampoline that removes itself by its own identity before
// forwarding the call to l. Once returns the caller's l, and Off(topic, l)
// deliberately does not remove the trampoline; a pending one-shot goes away
// by firing, OffAll, Clear, or Close.
func (rx *Rx) Once(topic string, l *Listener) *Listener {
	if l == nil {
		return nil
	}
	var tramp *Listener
	tramp = &Listener{
		ID: uuid.NewString(),
		fn: func(data any) error {
			// Only the invocation that wins the removal forwards the
			// call, so concurrent sends over overlapping snapshots
			// still fire l at most once.
			if !rx.reg.remove(topic, tramp) {
				return nil
			}
			logger.Debug("one-shot fired",
				zap.String("topic", topic),
				zap.String("listener", l.ID))
			return l.invoke(data)
		},
	}
	rx.reg.add(topic, tramp)
	return l
}

// OnWeak subscribes l without the registry keeping it alive: the
// subscription holds only the returned WeakHandle, and the caller retains
// the sole strong reference. Every delivery resolves the handle: alive
// forwards the call; released removes the subscription as a side effect and
// calls nothing. Eviction is lazy, happening at the next send rather than
// at Release time.
func (rx *Rx) OnWeak(topic string, l *Listener) *WeakHandle {
	if l == nil {
		return nil
	}
	h := newWeakHandle(l)
	var tramp *Listener
	tramp = &Listener{
		ID: uuid.NewString(),
		fn: func(data any) error {
			ref, ok := h.get()
			if !ok {
				rx.reg.remove(topic, tramp)
				logger.Debug("weak listener dead, evicted",
					zap.String("topic", topic),
					zap.String("trampoline", tramp.ID))
				return nil
			}
			return ref.invoke(data)
		},
	}
	rx.reg.add(topic, tramp)
	return h
}

// Off removes l's persistent subscription to topic by identity. It returns
// true only when the topic existed and l was present; asking again, or
// asking for a listener registered through Once or OnWeak, returns false.
func (rx *Rx) Off(topic string, l *Listener) bool {
	if l == nil {
		return false
	}
	return rx.reg.remove(topic, l)
}

// OffAll drops every subscription to topic, whatever its lifetime policy,
// and reports whether the topic had any.
func (rx *Rx) OffAll(topic string) bool {
	return rx.reg.removeTopic(topic)
}
