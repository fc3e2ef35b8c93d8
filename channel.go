package txrx

// Channel owns one subscriber registry and the pair of handles bound to it.
// The Tx and Rx share that registry and nothing else; either handle can be
// passed around, retained, or dropped independently of the Channel without
// the two sides ever observing different registry state.
type Channel struct {
	reg *registry
	tx  *Tx
	rx  *Rx
}

// NewChannel creates a Channel with a fresh, empty registry and one Tx/Rx
// pair bound to it.
func NewChannel() *Channel {
	reg := newRegistry()
	return &Channel{
		reg: reg,
		tx:  &Tx{reg: reg},
		rx:  &Rx{reg: reg},
	}
}

// Tx returns the channel's transmit handle.
func (ch *Channel) Tx() *Tx {
	return ch.tx
}

// Rx returns the channel's receive handle.
func (ch *Channel) Rx() *Rx {
	return ch.rx
}

// Messages lists the topics that currently have at least one subscription,
// sorted by name. A topic leaves the list when its last subscription is
// removed, fires (one-shot), or is evicted (released weak listener).
func (ch *Channel) Messages() []string {
	return ch.reg.topicNames()
}

// Clear removes every subscription on every topic, and any typed topic
// bindings, in one step. A delivery already in progress keeps iterating the
// snapshot it took, so Clear is safe to call from inside a listener.
func (ch *Channel) Clear() {
	ch.reg.clear()
}

// Close clears the registry and stops the deferred dispatcher; futures
// still queued resolve with ErrClosed. After Close, Send reports ErrClosed,
// SendAsync returns an already-rejected Future, and subscriptions are
// ignored. Close is idempotent.
func (ch *Channel) Close() error {
	ch.reg.close()
	return nil
}
