package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestSendToUserReachesEveryConnection(t *testing.T) {
	hub := startHub(t)
	a := &Client{hub: hub, send: make(chan []byte, 4), userID: "u1", logger: zerolog.Nop()}
	b := &Client{hub: hub, send: make(chan []byte, 4), userID: "u1", logger: zerolog.Nop()}
	other := &Client{hub: hub, send: make(chan []byte, 4), userID: "u2", logger: zerolog.Nop()}
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))
	require.True(t, hub.Register(other))
	require.Eventually(t, func() bool { return hub.ConnectedCount("u1") == 2 }, time.Second, 10*time.Millisecond)

	hub.SendToUser("u1", "notification", map[string]string{"message": "hi"})

	for _, c := range []*Client{a, b} {
		select {
		case data := <-c.send:
			var msg struct {
				Type    string            `json:"type"`
				Payload map[string]string `json:"payload"`
			}
			require.NoError(t, json.Unmarshal(data, &msg))
			assert.Equal(t, "notification", msg.Type)
			assert.Equal(t, "hi", msg.Payload["message"])
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	}
	assert.Empty(t, other.send)
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := startHub(t)
	slow := &Client{hub: hub, send: make(chan []byte), userID: "u1", logger: zerolog.Nop()}
	require.True(t, hub.Register(slow))

	hub.SendToUser("u1", "notification", "x")

	require.Eventually(t, func() bool { return hub.ConnectedCount("u1") == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-slow.send
	assert.False(t, open)
}

func TestStoppedHubDoesNotBlockClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	live := &Client{hub: hub, send: make(chan []byte, 1), userID: "u1", logger: zerolog.Nop()}
	require.True(t, hub.Register(live))
	cancel()
	<-stopped

	_, open := <-live.send
	assert.False(t, open, "send channel is closed on shutdown")

	returned := make(chan bool, 1)
	go func() {
		hub.Unregister(live)
		returned <- hub.Register(&Client{hub: hub, send: make(chan []byte, 1), userID: "u2", logger: zerolog.Nop()})
	}()
	select {
	case registered := <-returned:
		assert.False(t, registered)
	case <-time.After(time.Second):
		t.Fatal("client calls blocked on a stopped hub")
	}
}
