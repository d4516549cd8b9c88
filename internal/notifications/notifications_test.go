package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestEventRoundTripThroughRedis(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := NewNotifier(testRedis(t))
	hub := NewHub()
	client := NewClient(hub, nil, 7)
	hub.Register(client)

	require.NoError(t, hub.StartWiring(ctx, notifier))
	// Give the pattern subscription a moment to become active.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, notifier.PublishEvent(ctx, "post.created", map[string]any{
		"post_id": 12,
	}))

	select {
	case raw := <-client.Send():
		var event Event
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, "post.created", event.Type)
		assert.Contains(t, string(event.Payload), `"post_id":12`)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestEventTypeFromChannel(t *testing.T) {
	assert.Equal(t, "comment.created", EventTypeFromChannel("events:comment.created"))
}

func TestNilRedisDegradesToNoop(t *testing.T) {
	notifier := NewNotifier(nil)
	ctx := context.Background()
	assert.NoError(t, notifier.PublishEvent(ctx, "post.created", nil))
	assert.NoError(t, notifier.StartEventSubscriber(ctx, nil))
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub()
	a := NewClient(hub, nil, 1)
	b := NewClient(hub, nil, 2)
	hub.Register(a)
	hub.Register(b)
	require.Equal(t, 2, hub.ClientCount())

	hub.Broadcast("comment.created", []byte("x"))
	assert.Len(t, a.Send(), 1)
	assert.Len(t, b.Send(), 1)

	hub.Unregister(a)
	assert.Equal(t, 1, hub.ClientCount())
}

func TestBroadcastDropsForSlowClient(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil, 1)
	hub.Register(client)

	for i := 0; i < sendBufferSize+10; i++ {
		hub.Broadcast("post.created", []byte("x"))
	}
	// The queue is full but the hub never blocked.
	assert.Len(t, client.Send(), sendBufferSize)
}

func TestShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil, 1)
	hub.Register(client)

	require.NoError(t, hub.Shutdown(context.Background()))
	_, open := <-client.Send()
	assert.False(t, open)
	assert.Equal(t, 0, hub.ClientCount())

	// Registrations after shutdown are refused.
	late := NewClient(hub, nil, 2)
	hub.Register(late)
	assert.Equal(t, 0, hub.ClientCount())
}
