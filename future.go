package txrx

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Future is the pending result of a SendAsync call. It resolves once the
// channel's dispatcher has run the deferred send, strictly off the
// scheduling caller's stack.
type Future struct {
	done      chan struct{}
	delivered bool
	err       error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(delivered bool, err error) {
	f.delivered = delivered
	f.err = err
	close(f.done)
}

// Done returns a channel that is closed when the deferred send has run.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the deferred send has run or ctx is canceled. It
// returns what a synchronous Send would have returned at the moment the
// deferred send actually ran.
func (f *Future) Wait(ctx context.Context) (delivered bool, err error) {
	select {
	case <-f.done:
		return f.delivered, f.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Result reports the outcome without blocking. ok is false while the
// deferred send is still pending.
func (f *Future) Result() (delivered bool, err error, ok bool) {
	select {
	case <-f.done:
		return f.delivered, f.err, true
	default:
		return false, nil, false
	}
}

// pendingSend is one queued deferred emission.
type pendingSend struct {
	topic string
	data  any
	fut   *Future
}

// dispatcher runs deferred sends for one registry, one at a time, strictly
// in the order they were scheduled. It is created lazily on the first
// SendAsync and stopped by Channel.Close.
type dispatcher struct {
	reg *registry

	mu      sync.Mutex
	queue   []*pendingSend
	stopped bool

	wake chan struct{}
	stop chan struct{}
}

func newDispatcher(r *registry) *dispatcher {
	return &dispatcher{
		reg:  r,
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
}

// enqueue schedules a deferred send on the registry's dispatcher, starting
// it if needed, and returns the pending Future. On a closed registry the
// Future comes back already resolved with ErrClosed.
func (r *registry) enqueue(topic string, data any) *Future {
	fut := newFuture()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		fut.resolve(false, ErrClosed)
		return fut
	}
	if r.disp == nil {
		r.disp = newDispatcher(r)
		go r.disp.run()
	}
	d := r.disp
	r.mu.Unlock()

	d.enqueue(&pendingSend{topic: topic, data: data, fut: fut})
	return fut
}

func (d *dispatcher) enqueue(p *pendingSend) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		p.fut.resolve(false, ErrClosed)
		return
	}
	d.queue = append(d.queue, p)
	depth := len(d.queue)
	d.mu.Unlock()

	logger.Debug("deferred send queued",
		zap.String("topic", p.topic),
		zap.Int("depth", depth))
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *dispatcher) run() {
	for {
		for {
			d.mu.Lock()
			if len(d.queue) == 0 {
				d.mu.Unlock()
				break
			}
			p := d.queue[0]
			d.queue = d.queue[1:]
			d.mu.Unlock()

			delivered, err := d.reg.deliver(p.topic, p.data)
			p.fut.resolve(delivered, err)
		}

		select {
		case <-d.wake:
		case <-d.stop:
			d.drain()
			return
		}
	}
}

// drain resolves everything still queued with ErrClosed and refuses
// further enqueues.
func (d *dispatcher) drain() {
	d.mu.Lock()
	d.stopped = true
	rest := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, p := range rest {
		p.fut.resolve(false, ErrClosed)
	}
	logger.Debug("dispatcher stopped", zap.Int("rejected", len(rest)))
}

func (d *dispatcher) shutdown() {
	close(d.stop)
}
