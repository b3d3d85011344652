package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case data := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestHub_BroadcastReachesAllSessions(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Same admin on two tabs plus a second admin.
	first := &Client{Hub: hub, UserID: 1, Send: make(chan []byte, 4)}
	second := &Client{Hub: hub, UserID: 1, Send: make(chan []byte, 4)}
	third := &Client{Hub: hub, UserID: 2, Send: make(chan []byte, 4)}

	hub.Register(first)
	hub.Register(second)
	hub.Register(third)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 2
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast(Event{
		Type:    "claim_submitted",
		Payload: map[string]interface{}{"claim_id": float64(3)},
	})

	for _, client := range []*Client{first, second, third} {
		event := receiveEvent(t, client)
		assert.Equal(t, "claim_submitted", event.Type)
		assert.Equal(t, float64(3), event.Payload["claim_id"])
	}
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{Hub: hub, UserID: 1, Send: make(chan []byte)} // no buffer, never read
	fast := &Client{Hub: hub, UserID: 2, Send: make(chan []byte, 4)}

	hub.Register(slow)
	hub.Register(fast)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 2
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast(Event{Type: "business_moderated"})

	event := receiveEvent(t, fast)
	assert.Equal(t, "business_moderated", event.Type)
}
