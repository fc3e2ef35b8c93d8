package txrx

import "sync"

// ChannelMap associates host objects with lazily created Channels, for
// callers that want a channel per object without threading a Channel
// reference through their own types. Keys are compared by the host value's
// own equality, so pointer keys give per-instance channels. Associations
// are reclaimed only explicitly, via Remove; nothing is dropped behind the
// caller's back.
type ChannelMap struct {
	mu       sync.Mutex
	channels map[any]*Channel
}

// NewChannelMap creates an empty association table.
func NewChannelMap() *ChannelMap {
	return &ChannelMap{
		channels: make(map[any]*Channel),
	}
}

// Has reports whether host already has an associated channel.
func (m *ChannelMap) Has(host any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.channels[host]
	return ok
}

// Get returns the channel associated with host, if any.
func (m *ChannelMap) Get(host any) (*Channel, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.channels[host]
	return ch, ok
}

// Add associates a fresh Channel with host. Calling it again for the same
// host keeps the existing channel and its subscriptions.
func (m *ChannelMap) Add(host any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.channels[host]; ok {
		return
	}
	m.channels[host] = NewChannel()
}

// Remove closes and forgets host's channel, reporting whether one existed.
func (m *ChannelMap) Remove(host any) bool {
	m.mu.Lock()
	ch, ok := m.channels[host]
	if ok {
		delete(m.channels, host)
	}
	m.mu.Unlock()

	if ok {
		ch.Close()
	}
	return ok
}

// Len returns the number of current associations.
func (m *ChannelMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.channels)
}
