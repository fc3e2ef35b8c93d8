package txrx

// Tx is the transmit half of a Channel. It holds only the shared registry,
// never the Rx side, so handing a Tx to a producer grants emit capability
// and nothing else.
type Tx struct {
	reg *registry
}

// Send delivers data synchronously to every listener subscribed to topic
// and reports whether the topic had any subscribers; with none, it returns
// false and has no side effects. Listeners run in first-registration order
// over a snapshot taken at the start of the call: subscriptions added or
// removed by a listener mid-delivery (a one-shot removing itself, a nested
// Off, even Clear) apply to subsequent sends, never to the snapshot in
// progress. The first listener error stops delivery and is returned;
// listeners earlier in the order have already run and none is retried.
func (tx *Tx) Send(topic string, data any) (delivered bool, err error) {
	return tx.reg.deliver(topic, data)
}

// SendAsync schedules the equivalent of Send to run on the channel's
// deferred dispatcher and returns immediately. Deferred sends run off the
// caller's stack, one at a time, in the order scheduled (FIFO across all
// topics of this channel). The Future resolves to exactly what Send would
// have returned at the moment the deferred send ran; a listener error
// rejects the Future instead of surfacing anywhere else.
func (tx *Tx) SendAsync(topic string, data any) *Future {
	return tx.reg.enqueue(topic, data)
}
