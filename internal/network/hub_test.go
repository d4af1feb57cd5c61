package network

import (
	"testing"

	"cognitive-sim/internal/engine"
	"cognitive-sim/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ engine.Publisher = (*Broadcaster)(nil)

func TestBroadcaster_FanOut(t *testing.T) {
	b := NewBroadcaster()
	a := b.Register("a")
	c := b.Register("c")
	assert.Equal(t, 2, b.SubscriberCount())

	b.Broadcast(api.ServerResponse{Type: "UPDATE", Tick: 3})

	for _, ch := range []<-chan api.ServerResponse{a, c} {
		msg := <-ch
		assert.Equal(t, uint64(3), msg.Tick)
	}
}

func TestBroadcaster_UnicastAndUnregister(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("a")

	assert.True(t, b.SendTo("a", api.ServerResponse{Type: "UPDATE"}))
	assert.False(t, b.SendTo("missing", api.ServerResponse{}))
	<-ch

	b.Unregister("a")
	_, open := <-ch
	assert.False(t, open, "channel is closed on unregister")
	assert.False(t, b.HasSubscriber("a"))
	b.Unregister("a")
}

func TestBroadcaster_ReRegisterClosesOld(t *testing.T) {
	b := NewBroadcaster()
	old := b.Register("a")
	fresh := b.Register("a")

	_, open := <-old
	assert.False(t, open)
	require.Equal(t, 1, b.SubscriberCount())

	b.Broadcast(api.ServerResponse{Type: "UPDATE"})
	assert.Len(t, fresh, 1)
}

func TestBroadcaster_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("slow")

	for i := 0; i < subscriberBuffer+10; i++ {
		b.Broadcast(api.ServerResponse{Type: "UPDATE"})
	}
	assert.Len(t, ch, subscriberBuffer)
	assert.False(t, b.SendTo("slow", api.ServerResponse{}))
}
