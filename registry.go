package txrx

import (
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// registry is the single source of truth shared by a Channel and its Tx/Rx
// pair: topic -> subscribed listeners, in first-registration order. All
// mutation and lookup is serialized by mu; listener callbacks always run
// with mu released, so callbacks may re-enter any registry operation.
type registry struct {
	mu     sync.Mutex
	topics map[string][]*Listener
	types  map[string]reflect.Type
	disp   *dispatcher
	closed bool
}

func newRegistry() *registry {
	return &registry{
		topics: make(map[string][]*Listener),
		types:  make(map[string]reflect.Type),
	}
}

// add appends l to topic's set unless it is already present. Reports
// whether the set changed.
func (r *registry) add(topic string, l *Listener) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		logDebugClosed("subscribe", topic)
		return false
	}
	for _, existing := range r.topics[topic] {
		if existing == l {
			logger.Debug("listener already subscribed",
				zap.String("topic", topic),
				zap.String("listener", l.ID))
			return false
		}
	}
	r.topics[topic] = append(r.topics[topic], l)
	logger.Debug("subscribed",
		zap.String("topic", topic),
		zap.String("listener", l.ID),
		zap.Int("listeners", len(r.topics[topic])))
	return true
}

// remove deletes l from topic's set by identity. The topic key is deleted
// with its last listener, so Messages never reports an empty topic.
func (r *registry) remove(topic string, l *Listener) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.topics[topic]
	if !ok {
		return false
	}
	for i, existing := range subs {
		if existing != l {
			continue
		}
		subs = append(subs[:i], subs[i+1:]...)
		if len(subs) == 0 {
			delete(r.topics, topic)
		} else {
			r.topics[topic] = subs
		}
		logger.Debug("unsubscribed",
			zap.String("topic", topic),
			zap.String("listener", l.ID),
			zap.Int("listeners", len(subs)))
		return true
	}
	return false
}

// removeTopic drops the whole entry for topic.
func (r *registry) removeTopic(topic string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.topics[topic]; !ok {
		return false
	}
	delete(r.topics, topic)
	logger.Debug("topic removed", zap.String("topic", topic))
	return true
}

// snapshot returns a copy of topic's current listener set, preserving
// order. A delivery iterates the copy, so listeners removed or added while
// it runs affect the next send, not this one.
func (r *registry) snapshot(topic string) ([]*Listener, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	subs := r.topics[topic]
	if len(subs) == 0 {
		return nil, nil
	}
	out := make([]*Listener, len(subs))
	copy(out, subs)
	return out, nil
}

// deliver runs one send: snapshot under the lock, invoke outside it. The
// first listener error stops iteration and is returned; delivered reports
// whether topic had any listeners when the snapshot was taken.
func (r *registry) deliver(topic string, data any) (delivered bool, err error) {
	subs, err := r.snapshot(topic)
	if err != nil {
		return false, err
	}
	if len(subs) == 0 {
		logger.Debug("send with no subscribers", zap.String("topic", topic))
		return false, nil
	}
	logger.Debug("delivering",
		zap.String("topic", topic),
		zap.Int("listeners", len(subs)))
	for _, l := range subs {
		if err := l.invoke(data); err != nil {
			logger.Debug("listener error, stopping delivery",
				zap.String("topic", topic),
				zap.String("listener", l.ID),
				zap.Error(err))
			return true, err
		}
	}
	return true, nil
}

// clear wipes every topic and listener in one critical section.
func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.topics = make(map[string][]*Listener)
	r.types = make(map[string]reflect.Type)
	logger.Debug("registry cleared")
}

// topicNames lists topics with at least one listener, sorted.
func (r *registry) topicNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.topics))
	for topic := range r.topics {
		names = append(names, topic)
	}
	sort.Strings(names)
	return names
}

// bindType associates topic with payload type t. Rebinding with the same
// type is a no-op; a different type is rejected.
func (r *registry) bindType(topic string, t reflect.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if existing, ok := r.types[topic]; ok {
		if existing != t {
			return typeMismatchErr(topic, existing, t)
		}
		return nil
	}
	r.types[topic] = t
	logger.Debug("topic type bound",
		zap.String("topic", topic),
		zap.Stringer("type", t))
	return nil
}

func (r *registry) boundType(topic string) (reflect.Type, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.types[topic]
	return t, ok
}

// close marks the registry dead, wipes it, and stops the dispatcher so any
// still-queued deferred sends resolve with ErrClosed. Idempotent.
func (r *registry) close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.topics = make(map[string][]*Listener)
	r.types = make(map[string]reflect.Type)
	d := r.disp
	r.mu.Unlock()

	if d != nil {
		d.shutdown()
	}
	logger.Debug("channel closed")
}

func logDebugClosed(op, topic string) {
	logger.Debug("operation on closed channel ignored",
		zap.String("op", op),
		zap.String("topic", topic))
}
