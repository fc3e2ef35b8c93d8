/*
Package txrx implements a thread-safe, in-memory, multi-topic
publish-subscribe channel with independent transmit (Tx) and receive (Rx)
handles and per-subscription lifetime policies.

A Channel owns exactly one subscriber registry and exposes exactly one Tx
and one Rx bound to it. The two handles reference the registry and nothing
else, so either can be handed to other components independently while both
always observe the same subscription state.

# Key Features

  - Independent Handles: Tx can only emit, Rx can only manage
    subscriptions. Capability separation is structural; there are no
    runtime "wrong side" checks to trip.

  - Lifetime Policies: every subscription is persistent (`On`), one-shot
    (`Once`), or weak (`OnWeak`). One-shot subscriptions remove themselves
    before their single delivery; weak subscriptions hold only a
    WeakHandle and evict themselves at the next send after the handle is
    released.

  - Synchronous and Deferred Emission: `Send` invokes all current
    subscribers before returning. `SendAsync` queues the send on the
    channel's FIFO dispatcher and returns a Future immediately.

  - Type-Safe Topics: bind each topic to a payload type with
    `RegisterTopic`. The generic `On`, `Once`, `OnWeak`, `Send`, and
    `SendAsync` functions then check this type at runtime, returning an
    error on a mismatch.

  - Thread Safety: all operations are safe for concurrent use by multiple
    goroutines. Listener callbacks run with no internal lock held, so they
    may subscribe, unsubscribe, clear, or send reentrantly.

# Basic Usage

Create a Channel, subscribe through its Rx, and emit through its Tx.
Absence is never an error: sending to a topic nobody subscribed to simply
reports false.

	ch := txrx.NewChannel()
	defer ch.Close()
	tx, rx := ch.Tx(), ch.Rx()

	l := rx.On("user.login", txrx.NewListener(func(data any) error {
		fmt.Println("login:", data)
		return nil
	}))

	delivered, err := tx.Send("user.login", "alice") // true, nil
	rx.Off("user.login", l)
	delivered, err = tx.Send("user.login", "bob") // false, nil

# Lifetime Policies

`Once` fires at most one time. Note the asymmetry it preserves: the
registry holds an internal trampoline, so `Off` with the listener `Once`
returned does not cancel it; use `OffAll`, `Clear`, or let it fire.

	rx.Once("boot.done", txrx.NewListener(func(any) error {
		fmt.Println("first boot event only")
		return nil
	}))

`OnWeak` keeps the subscription alive only as long as the caller's side
does. Release the handle and the next send evicts the entry instead of
calling it; eviction is lazy and never depends on garbage collection.

	l := txrx.NewListener(func(any) error { return nil })
	h := rx.OnWeak("ticks", l)
	// ... later, when the owner goes away:
	h.Release()
	tx.Send("ticks", nil) // evicts the dead subscription as a side effect

# Deferred Emission

`SendAsync` schedules the send to run off the caller's stack, after
everything already queued (FIFO per channel). The Future resolves to what
a synchronous Send would have returned at that later point; a listener
error rejects the Future.

	fut := tx.SendAsync("job.finished", result)
	delivered, err := fut.Wait(ctx)

# Typed Topics

	type Login struct {
		User string
	}

	txrx.RegisterTopic[Login](ch, "user.login")

	l, err := txrx.On(rx, "user.login", func(ev Login) error {
		fmt.Println("login:", ev.User)
		return nil
	})

	delivered, err := txrx.Send(tx, "user.login", Login{User: "alice"})

	// Wrong payload type is caught at the call site:
	_, err = txrx.Send(tx, "user.login", 42) // ErrTopicTypeMismatch

# Associating Channels With Host Objects

When a host object needs a channel of its own without the caller managing
the reference, use a ChannelMap. `Add` is idempotent and `Remove` is the
explicit reclamation point; entries never vanish implicitly.

	cm := txrx.NewChannelMap()
	cm.Add(conn)
	if ch, ok := cm.Get(conn); ok {
		ch.Rx().On("closed", txrx.NewListener(onClosed))
	}
	// on teardown:
	cm.Remove(conn)

# Error Discipline

Listener callbacks return an error. A non-nil error stops the delivery in
progress (listeners earlier in the order have already run and are not
retried) and propagates to the Send caller, or rejects the SendAsync
Future. The package never swallows a listener error and never turns
absence (unknown topic, already-removed listener) into one.

# Debug Logging

The package is silent by default. Install a zap logger to see
subscribe/unsubscribe/delivery activity at debug level:

	logger, _ := zap.NewDevelopment()
	txrx.SetLogger(logger)
*/
package txrx
