package txrx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type host struct {
	name string
}

func Test_ChannelMapAddIsIdempotent(t *testing.T) {
	cm := NewChannelMap()
	h := &host{name: "conn-1"}

	assert.False(t, cm.Has(h))
	cm.Add(h)
	require.True(t, cm.Has(h))

	first, ok := cm.Get(h)
	require.True(t, ok)

	// A second Add must keep the existing channel and its subscriptions.
	first.Rx().On("evt", NewListener(func(any) error { return nil }))
	cm.Add(h)
	again, ok := cm.Get(h)
	require.True(t, ok)
	assert.Same(t, first, again)
	assert.Equal(t, []string{"evt"}, again.Messages())
	assert.Equal(t, 1, cm.Len())
}

func Test_ChannelMapGetAbsent(t *testing.T) {
	cm := NewChannelMap()

	ch, ok := cm.Get(&host{name: "missing"})
	assert.False(t, ok)
	assert.Nil(t, ch)
}

func Test_ChannelMapPerHostIsolation(t *testing.T) {
	cm := NewChannelMap()
	h1 := &host{name: "a"}
	h2 := &host{name: "b"}
	cm.Add(h1)
	cm.Add(h2)

	ch1, _ := cm.Get(h1)
	ch2, _ := cm.Get(h2)
	require.NotSame(t, ch1, ch2)

	count := 0
	ch1.Rx().On("evt", NewListener(func(any) error {
		count++
		return nil
	}))

	delivered, err := ch2.Tx().Send("evt", nil)
	require.NoError(t, err)
	assert.False(t, delivered)
	assert.Zero(t, count)
}

func Test_ChannelMapRemoveClosesChannel(t *testing.T) {
	cm := NewChannelMap()
	h := &host{name: "conn-1"}
	cm.Add(h)

	ch, ok := cm.Get(h)
	require.True(t, ok)

	assert.True(t, cm.Remove(h))
	assert.False(t, cm.Remove(h))
	assert.False(t, cm.Has(h))
	assert.Zero(t, cm.Len())

	// The removed channel was closed on the way out.
	_, err := ch.Tx().Send("evt", nil)
	assert.ErrorIs(t, err, ErrClosed)
}
