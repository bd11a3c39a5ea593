package handler

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func newTestConn(sessionID, role string) *WSConn {
	return &WSConn{
		conn:      nil, // no real connection for hub tests
		sessionID: sessionID,
		role:      role,
		send:      make(chan []byte, 256),
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	c := newTestConn("s1", RolePlayer)

	hub.Register(c)
	if hub.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection, got %d", hub.ConnectionCount())
	}
	if hub.SessionSubscriberCount("s1") != 1 {
		t.Errorf("expected 1 subscriber, got %d", hub.SessionSubscriberCount("s1"))
	}

	hub.Unregister(c)
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections, got %d", hub.ConnectionCount())
	}
	if hub.SessionSubscriberCount("s1") != 0 {
		t.Errorf("expected 0 subscribers, got %d", hub.SessionSubscriberCount("s1"))
	}
	if _, ok := <-c.send; ok {
		t.Error("expected send channel to be closed")
	}

	// A second unregister is a no-op rather than a double close.
	hub.Unregister(c)
}

func TestHubBroadcastToSession(t *testing.T) {
	hub := NewHub()
	player := newTestConn("s1", RolePlayer)
	watcher := newTestConn("s1", RoleSpectator)
	other := newTestConn("s2", RolePlayer)

	hub.Register(player)
	hub.Register(watcher)
	hub.Register(other)
	defer hub.Unregister(player)
	defer hub.Unregister(watcher)
	defer hub.Unregister(other)

	hub.BroadcastToSession("s1", WSEvent{
		Type:      EventState,
		SessionID: "s1",
		Data:      map[string]string{"moves": "4"},
	})

	for _, c := range []*WSConn{player, watcher} {
		select {
		case msg := <-c.send:
			var event WSEvent
			json.Unmarshal(msg, &event)
			if event.Type != EventState {
				t.Errorf("expected state, got %s", event.Type)
			}
			if event.SessionID != "s1" {
				t.Errorf("expected s1, got %s", event.SessionID)
			}
		case <-time.After(time.Second):
			t.Errorf("%s did not receive broadcast", c.role)
		}
	}

	select {
	case <-other.send:
		t.Error("s2 should not have received s1's broadcast")
	default:
	}
}

func TestHubSendOnlyTargetsOneConnection(t *testing.T) {
	hub := NewHub()
	player := newTestConn("s1", RolePlayer)
	watcher := newTestConn("s1", RoleSpectator)
	hub.Register(player)
	hub.Register(watcher)
	defer hub.Unregister(player)
	defer hub.Unregister(watcher)

	hub.Send(player, WSEvent{Type: EventError, SessionID: "s1", Data: map[string]string{"error": "invalid move"}})

	select {
	case <-player.send:
	case <-time.After(time.Second):
		t.Error("player did not receive error")
	}
	select {
	case <-watcher.send:
		t.Error("spectator should not receive the player's error")
	default:
	}
}

func TestHubSendAfterUnregister(t *testing.T) {
	hub := NewHub()
	c := newTestConn("s1", RolePlayer)
	hub.Register(c)
	hub.Unregister(c)

	// Must not panic on the closed channel.
	hub.Send(c, WSEvent{Type: EventState, SessionID: "s1"})
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newTestConn("s1", RoleSpectator)
			hub.Register(c)
			hub.BroadcastToSession("s1", WSEvent{Type: EventState, SessionID: "s1"})
			hub.Send(c, WSEvent{Type: EventState, SessionID: "s1"})
			hub.Unregister(c)
		}()
	}

	wg.Wait()
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections after concurrent test, got %d", hub.ConnectionCount())
	}
}

func TestClientMessageColumn(t *testing.T) {
	var msg ClientMessage
	if err := json.Unmarshal([]byte(`{"action":"move","column":0}`), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Action != "move" || msg.Column == nil || *msg.Column != 0 {
		t.Errorf("expected move to column 0, got %+v", msg)
	}

	msg = ClientMessage{}
	json.Unmarshal([]byte(`{"action":"new_game"}`), &msg)
	if msg.Column != nil {
		t.Errorf("expected no column, got %d", *msg.Column)
	}
}
