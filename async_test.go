package txrx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func Test_SendAsyncDelivers(t *testing.T) {
	ch := NewChannel()
	defer ch.Close()
	tx, rx := ch.Tx(), ch.Rx()

	got := make(chan any, 1)
	rx.On("evt", NewListener(func(data any) error {
		got <- data
		return nil
	}))

	fut := tx.SendAsync("evt", "payload")
	delivered, err := fut.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.True(t, delivered)
	assert.Equal(t, "payload", <-got)
}

func Test_SendAsyncNoSubscribers(t *testing.T) {
	ch := NewChannel()
	defer ch.Close()

	fut := ch.Tx().SendAsync("nobody.home", nil)
	delivered, err := fut.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.False(t, delivered)
}

func Test_SendAsyncSeesRegistryStateAtDispatchTime(t *testing.T) {
	ch := NewChannel()
	defer ch.Close()
	tx, rx := ch.Tx(), ch.Rx()

	// "evt" has no subscriber when its deferred send is scheduled; the
	// FIFO-earlier "setup" delivery registers one before it runs. The
	// deferred send must observe that subscription because it looks the
	// registry up at dispatch time, not at scheduling time.
	count := 0
	rx.On("setup", NewListener(func(any) error {
		rx.On("evt", NewListener(func(any) error {
			count++
			return nil
		}))
		return nil
	}))
	futSetup := tx.SendAsync("setup", nil)
	futEvt := tx.SendAsync("evt", nil)

	delivered, err := futSetup.Wait(waitCtx(t))
	require.NoError(t, err)
	require.True(t, delivered)
	delivered, err = futEvt.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.True(t, delivered)
	assert.Equal(t, 1, count)
}

func Test_SendAsyncFIFO(t *testing.T) {
	ch := NewChannel()
	defer ch.Close()
	tx, rx := ch.Tx(), ch.Rx()

	var order []int
	rx.On("evt", NewListener(func(data any) error {
		order = append(order, data.(int))
		return nil
	}))

	var last *Future
	for i := 0; i < 10; i++ {
		last = tx.SendAsync("evt", i)
	}
	_, err := last.Wait(waitCtx(t))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func Test_SendAsyncListenerErrorRejectsFuture(t *testing.T) {
	ch := NewChannel()
	defer ch.Close()
	tx, rx := ch.Tx(), ch.Rx()

	boom := errors.New("boom")
	rx.On("evt", NewListener(func(any) error {
		return boom
	}))

	fut := tx.SendAsync("evt", nil)
	delivered, err := fut.Wait(waitCtx(t))
	assert.True(t, delivered)
	assert.ErrorIs(t, err, boom)
}

func Test_FutureResultNonBlocking(t *testing.T) {
	ch := NewChannel()
	defer ch.Close()

	fut := ch.Tx().SendAsync("evt", nil)
	<-fut.Done()

	delivered, err, ok := fut.Result()
	require.True(t, ok)
	require.NoError(t, err)
	assert.False(t, delivered)
}

func Test_FutureWaitHonorsContext(t *testing.T) {
	ch := NewChannel()
	defer ch.Close()
	tx, rx := ch.Tx(), ch.Rx()

	release := make(chan struct{})
	rx.On("evt", NewListener(func(any) error {
		<-release
		return nil
	}))
	defer close(release)

	fut := tx.SendAsync("evt", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fut.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_CloseRejectsQueuedSends(t *testing.T) {
	ch := NewChannel()
	tx, rx := ch.Tx(), ch.Rx()

	started := make(chan struct{})
	release := make(chan struct{})
	rx.On("evt", NewListener(func(any) error {
		close(started)
		<-release
		return nil
	}))

	futRunning := tx.SendAsync("evt", 1)
	<-started
	futQueued := tx.SendAsync("evt", 2)

	require.NoError(t, ch.Close())
	close(release)

	delivered, err := futRunning.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.True(t, delivered)

	_, err = futQueued.Wait(waitCtx(t))
	assert.ErrorIs(t, err, ErrClosed)
}

func Test_SendAfterClose(t *testing.T) {
	ch := NewChannel()
	ch.Rx().On("evt", NewListener(func(any) error { return nil }))
	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close()) // idempotent

	delivered, err := ch.Tx().Send("evt", nil)
	assert.False(t, delivered)
	assert.ErrorIs(t, err, ErrClosed)

	fut := ch.Tx().SendAsync("evt", nil)
	delivered, err, ok := fut.Result()
	require.True(t, ok, "future must come back already resolved")
	assert.False(t, delivered)
	assert.ErrorIs(t, err, ErrClosed)

	// Subscriptions after Close are ignored.
	ch.Rx().On("evt", NewListener(func(any) error { return nil }))
	assert.Empty(t, ch.Messages())
}
