package handler

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event types sent over WebSocket.
const (
	EventState = "state"
	EventError = "error"
)

// Connection roles.
const (
	RolePlayer    = "player"
	RoleSpectator = "spectator"
)

// WSEvent is the envelope for all WebSocket messages.
type WSEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Data      any    `json:"data"`
}

// ClientMessage is the envelope for messages sent from the client.
type ClientMessage struct {
	Action string `json:"action"` // "move" or "new_game"
	Column *int   `json:"column,omitempty"`
}

// WSConn wraps a WebSocket connection with the session it belongs to.
type WSConn struct {
	conn      *websocket.Conn
	sessionID string
	role      string
	send      chan []byte
}

// Hub manages WebSocket connections and session subscriptions.
type Hub struct {
	mu          sync.RWMutex
	connections map[*WSConn]bool
	sessions    map[string]map[*WSConn]bool // sessionID -> set of connections
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*WSConn]bool),
		sessions:    make(map[string]map[*WSConn]bool),
	}
}

// Register adds a connection to the hub and subscribes it to its session.
func (h *Hub) Register(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
	if h.sessions[c.sessionID] == nil {
		h.sessions[c.sessionID] = make(map[*WSConn]bool)
	}
	h.sessions[c.sessionID][c] = true
}

// Unregister removes a connection from the hub and closes its send queue.
func (h *Hub) Unregister(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.connections[c] {
		return
	}
	delete(h.connections, c)
	if conns, ok := h.sessions[c.sessionID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.sessions, c.sessionID)
		}
	}
	close(c.send)
}

// Send queues an event for one connection.
func (h *Hub) Send(c *WSConn, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("sessionId", c.sessionID).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.connections[c] {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Warn().Str("sessionId", c.sessionID).Str("role", c.role).Msg("Dropping WebSocket message, buffer full")
	}
}

// BroadcastToSession sends an event to the player and every spectator of a session.
func (h *Hub) BroadcastToSession(sessionID string, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("sessionId", sessionID).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.sessions[sessionID] {
		select {
		case c.send <- data:
		default:
			log.Warn().Str("sessionId", sessionID).Str("role", c.role).Msg("Dropping WebSocket message, buffer full")
		}
	}
}

// ConnectionCount returns the total number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// SessionSubscriberCount returns the number of connections following a session.
func (h *Hub) SessionSubscriberCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}
