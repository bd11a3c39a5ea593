package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/logger"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 4096
	sendBufSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are checked by the CORS middleware
	},
}

// PlayHandler serves websocket play sessions and their spectators.
type PlayHandler struct {
	hub      *Hub
	registry *Registry

	mu       sync.RWMutex
	sessions map[string]*PlaySession
}

// NewPlayHandler creates a PlayHandler.
func NewPlayHandler(hub *Hub, registry *Registry) *PlayHandler {
	return &PlayHandler{hub: hub, registry: registry, sessions: make(map[string]*PlaySession)}
}

// ServePlay handles GET /api/v1/play?strategy=hard&first=human|bot and
// upgrades to a websocket bound to a new session.
func (h *PlayHandler) ServePlay(w http.ResponseWriter, r *http.Request) {
	name, ok := h.registry.Resolve(r.URL.Query().Get("strategy"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown strategy %q", name))
		return
	}
	humanFirst := true
	switch r.URL.Query().Get("first") {
	case "", "human":
	case "bot":
		humanFirst = false
	default:
		writeError(w, http.StatusBadRequest, `first must be "human" or "bot"`)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l := logger.ForRequest(r.Context())
		l.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	id := logger.NewRequestID()
	ctx := logger.WithSessionID(r.Context(), id)
	session := NewPlaySession(id, name, h.registry.Build(name), humanFirst)

	h.mu.Lock()
	h.sessions[id] = session
	h.mu.Unlock()

	client := &WSConn{conn: conn, sessionID: id, role: RolePlayer, send: make(chan []byte, sendBufSize)}
	h.hub.Register(client)
	h.hub.Send(client, WSEvent{Type: EventState, SessionID: id, Data: session.State()})

	go h.writePump(client)
	go h.readPump(ctx, client, session)

	l := logger.ForRequest(ctx)
	l.Info().
		Str("strategy", name).
		Bool("humanFirst", humanFirst).
		Int("total", h.hub.ConnectionCount()).
		Msg("Play session started")
}

// ServeWatch handles GET /api/v1/watch?session=<id>. Spectators receive
// every state event of the session.
func (h *PlayHandler) ServeWatch(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	session, ok := h.Session(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l := logger.ForRequest(r.Context())
		l.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	ctx := logger.WithSessionID(r.Context(), id)
	client := &WSConn{conn: conn, sessionID: id, role: RoleSpectator, send: make(chan []byte, sendBufSize)}
	h.hub.Register(client)
	h.hub.Send(client, WSEvent{Type: EventState, SessionID: id, Data: session.State()})

	go h.writePump(client)
	go h.readPump(ctx, client, nil)

	l := logger.ForRequest(ctx)
	l.Info().Int("watchers", h.hub.SessionSubscriberCount(id)-1).Msg("Spectator joined")
}

// Session returns a live session by id.
func (h *PlayHandler) Session(id string) (*PlaySession, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

// SessionCount returns the number of live play sessions.
func (h *PlayHandler) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// readPump reads messages from the WebSocket connection. session is nil
// for spectators, whose messages are ignored.
func (h *PlayHandler) readPump(ctx context.Context, c *WSConn, session *PlaySession) {
	l := logger.ForRequest(ctx)
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
		if session != nil {
			h.mu.Lock()
			delete(h.sessions, session.ID)
			h.mu.Unlock()
		}
		l.Info().Str("role", c.role).Msg("WebSocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				l.Warn().Err(err).Msg("WebSocket unexpected close")
			}
			break
		}
		if session == nil {
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.sendError(c, "malformed message")
			continue
		}
		h.handleAction(l, c, session, msg)
	}
}

func (h *PlayHandler) handleAction(l zerolog.Logger, c *WSConn, session *PlaySession, msg ClientMessage) {
	switch msg.Action {
	case "move":
		if msg.Column == nil {
			h.sendError(c, "missing column")
			return
		}
		state, err := session.Move(*msg.Column)
		if err != nil {
			l.Debug().Err(err).Int("column", *msg.Column).Msg("Rejected move")
			h.sendError(c, "invalid move: "+err.Error())
			return
		}
		h.hub.BroadcastToSession(session.ID, WSEvent{Type: EventState, SessionID: session.ID, Data: state})
		if state.Status != "in_progress" {
			l.Info().Str("status", state.Status).Str("winner", state.Winner).Str("moves", state.Moves).Msg("Play session game finished")
		}
	case "new_game":
		state := session.NewGame()
		h.hub.BroadcastToSession(session.ID, WSEvent{Type: EventState, SessionID: session.ID, Data: state})
	default:
		h.sendError(c, fmt.Sprintf("unknown action %q", msg.Action))
	}
}

func (h *PlayHandler) sendError(c *WSConn, text string) {
	h.hub.Send(c, WSEvent{Type: EventError, SessionID: c.sessionID, Data: map[string]string{"error": text}})
}

// writePump writes messages to the WebSocket connection.
func (h *PlayHandler) writePump(c *WSConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued messages into the same write
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
