package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
	})
	return hub
}

func receive(t *testing.T, c *mockClient) Envelope {
	t.Helper()

	select {
	case frame := <-c.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(frame, &env))
		return env
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", c.id)
		return Envelope{}
	}
}

func assertNothing(t *testing.T, c *mockClient) {
	t.Helper()

	select {
	case frame := <-c.send:
		t.Fatalf("client %s unexpectedly received %s", c.id, frame)
	case <-time.After(50 * time.Millisecond):
	}
}

// flush waits until every queued publish has been handled by the hub.
func flush(h *Hub) {
	for {
		var pending int
		h.Inspect(func(*Registry) { pending = len(h.publishCh) })
		if pending == 0 {
			h.Inspect(func(*Registry) {})
			return
		}
	}
}

func TestHub_RoomScopedDelivery(t *testing.T) {
	hub := startHub(t)

	anon := newMockClient("anon", 0, 4)
	creator := newMockClient("creator", 7, 4)
	other := newMockClient("other", 8, 4)

	require.True(t, hub.Register(anon, RoomAllUsers))
	require.True(t, hub.Register(creator, RoomAllUsers, UserRoom(7)))
	require.True(t, hub.Register(other, RoomAllUsers, UserRoom(8)))

	broadcast, err := NewEnvelope(EventComplaintNew, RoomAllUsers, map[string]int{"id": 1})
	require.NoError(t, err)
	hub.Publish(broadcast)

	for _, c := range []*mockClient{anon, creator, other} {
		env := receive(t, c)
		assert.Equal(t, EventComplaintNew, env.Event)
		assert.Equal(t, RoomAllUsers, env.Room)
		assert.JSONEq(t, `{"id":1}`, string(env.Data))
	}

	scoped, err := NewEnvelope(EventComplaintResolved, UserRoom(7), map[string]string{"status": "resolved"})
	require.NoError(t, err)
	hub.Publish(scoped)

	env := receive(t, creator)
	assert.Equal(t, EventComplaintResolved, env.Event)
	assert.Equal(t, "user:7", env.Room)
	assertNothing(t, anon)
	assertNothing(t, other)
}

func TestHub_UnregisterClosesOnce(t *testing.T) {
	hub := startHub(t)
	client := newMockClient("c1", 3, 1)

	require.True(t, hub.Register(client, RoomAllUsers, UserRoom(3)))
	hub.Unregister(client)
	hub.Unregister(client)

	hub.Inspect(func(r *Registry) {
		assert.Equal(t, 0, r.Len())
		assert.Equal(t, 0, r.RoomSize(RoomAllUsers))
	})
	assert.Equal(t, 1, client.closeCount())
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := startHub(t)
	slow := newMockClient("slow", 0, 1)
	fast := newMockClient("fast", 0, 8)

	require.True(t, hub.Register(slow, RoomAllUsers))
	require.True(t, hub.Register(fast, RoomAllUsers))

	for i := 0; i < 3; i++ {
		env, err := NewEnvelope(EventVolunteerNew, RoomAllUsers, map[string]int{"i": i})
		require.NoError(t, err)
		hub.Publish(env)
	}
	flush(hub)

	hub.Inspect(func(r *Registry) {
		assert.Equal(t, 1, r.Len())
		assert.Equal(t, 1, r.RoomSize(RoomAllUsers))
	})
	assert.Equal(t, 1, slow.closeCount())
	assert.Len(t, fast.send, 3)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	client := newMockClient("c1", 0, 1)
	require.True(t, hub.Register(client, RoomAllUsers))

	cancel()
	<-hub.Done()

	assert.Equal(t, 1, client.closeCount())
	assert.False(t, hub.Register(newMockClient("late", 0, 1), RoomAllUsers))
}
