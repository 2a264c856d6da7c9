package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopConn struct{}

func (nopConn) Close() error { return nil }

func newTestClient(hub *Hub, id uint, role string) *Client {
	return &Client{
		Hub:  hub,
		ID:   id,
		Role: role,
		Conn: nopConn{},
		Send: make(chan []byte, 8),
	}
}

func TestHubDeliversToTargetUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	worker := newTestClient(hub, 10, "worker")
	client := newTestClient(hub, 20, "client")
	hub.Register <- worker
	hub.Register <- client

	hub.NotifyUser(10, "booking_accepted", map[string]interface{}{"booking_id": 5})

	select {
	case payload := <-worker.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(payload, &msg))
		assert.Equal(t, "booking_accepted", msg.Type)
		assert.Equal(t, uint(10), msg.UserID)
	case <-time.After(time.Second):
		t.Fatal("expected notification for worker")
	}

	// The other user gets nothing.
	select {
	case <-client.Send:
		t.Fatal("notification leaked to the wrong user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubIgnoresDisconnectedUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Nobody registered; the push is dropped silently.
	hub.NotifyUser(999, "booking_completed", nil)

	c := newTestClient(hub, 999, "worker")
	hub.Register <- c
	hub.NotifyUser(999, "booking_completed", nil)

	select {
	case payload := <-c.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(payload, &msg))
		assert.Equal(t, "booking_completed", msg.Type)
	case <-time.After(time.Second):
		t.Fatal("expected notification after registering")
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := newTestClient(hub, 33, "client")
	hub.Register <- c
	hub.Unregister <- c

	select {
	case _, open := <-c.Send:
		assert.False(t, open, "send channel should be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestHubReplacesDuplicateRegistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := newTestClient(hub, 44, "worker")
	second := newTestClient(hub, 44, "worker")
	hub.Register <- first
	hub.Register <- second

	hub.NotifyUser(44, "booking_cancelled", nil)

	select {
	case <-second.Send:
	case <-time.After(time.Second):
		t.Fatal("expected notification on the replacing connection")
	}
}
