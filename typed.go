package txrx

import (
	"fmt"
	"reflect"
)

// The typed API binds each topic to one payload type and checks every
// subscribe and send against that binding at runtime, so a topic carries a
// closed payload schema instead of arbitrary values. The untyped Tx/Rx
// methods remain usable on unbound topics; using them on a bound topic is
// allowed but unchecked.

// RegisterTopic binds topic to the payload type T on ch. Registering the
// same topic with the same type again is a no-op; a different type returns
// ErrTopicTypeMismatch. Bindings are wiped by Clear and Close.
func RegisterTopic[T any](ch *Channel, topic string) error {
	return ch.reg.bindType(topic, typeFor[T]())
}

// On subscribes a typed handler to a topic bound with RegisterTopic. The
// handler receives the payload already asserted to T, and the returned
// listener works with the untyped rx.Off.
func On[T any](rx *Rx, topic string, fn func(T) error) (*Listener, error) {
	l, err := typedListener(rx.reg, topic, fn)
	if err != nil {
		return nil, err
	}
	return rx.On(topic, l), nil
}

// Once is the typed counterpart of Rx.Once: the subscription fires at most
// once, and the returned listener is the caller's own (see Rx.Once for the
// trampoline asymmetry with Off).
func Once[T any](rx *Rx, topic string, fn func(T) error) (*Listener, error) {
	l, err := typedListener(rx.reg, topic, fn)
	if err != nil {
		return nil, err
	}
	return rx.Once(topic, l), nil
}

// OnWeak is the typed counterpart of Rx.OnWeak; the caller owns the
// returned handle's referent and drops it with Release.
func OnWeak[T any](rx *Rx, topic string, fn func(T) error) (*WeakHandle, error) {
	l, err := typedListener(rx.reg, topic, fn)
	if err != nil {
		return nil, err
	}
	return rx.OnWeak(topic, l), nil
}

// Send is the typed counterpart of Tx.Send, checked against the topic's
// binding before dispatch.
func Send[T any](tx *Tx, topic string, data T) (bool, error) {
	if err := checkBinding[T](tx.reg, topic); err != nil {
		return false, err
	}
	return tx.Send(topic, data)
}

// SendAsync is the typed counterpart of Tx.SendAsync. The binding check
// happens synchronously; only a well-typed send is ever queued.
func SendAsync[T any](tx *Tx, topic string, data T) (*Future, error) {
	if err := checkBinding[T](tx.reg, topic); err != nil {
		return nil, err
	}
	return tx.SendAsync(topic, data), nil
}

// typedListener wraps fn as an untyped Listener after validating the
// topic's binding against T. Returns nil for a nil fn, which the Rx
// methods ignore.
func typedListener[T any](r *registry, topic string, fn func(T) error) (*Listener, error) {
	if fn == nil {
		return nil, nil
	}
	if err := checkBinding[T](r, topic); err != nil {
		return nil, err
	}
	return NewListener(func(data any) error {
		v, ok := data.(T)
		if !ok {
			return fmt.Errorf("%w: topic %q delivered %T", ErrTopicTypeMismatch, topic, data)
		}
		return fn(v)
	}), nil
}

func checkBinding[T any](r *registry, topic string) error {
	bound, ok := r.boundType(topic)
	if !ok {
		return fmt.Errorf("%w: %q", ErrTopicNotRegistered, topic)
	}
	want := typeFor[T]()
	if bound != want {
		return typeMismatchErr(topic, bound, want)
	}
	return nil
}

func typeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func typeMismatchErr(topic string, bound, got reflect.Type) error {
	return fmt.Errorf("%w: topic %q carries %s, not %s", ErrTopicTypeMismatch, topic, bound, got)
}
