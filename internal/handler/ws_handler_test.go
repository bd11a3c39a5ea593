package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// wsClient reads events from a test connection. The server may pack
// several events into one frame separated by newlines.
type wsClient struct {
	t       *testing.T
	conn    *websocket.Conn
	pending []string
}

func dial(t *testing.T, srv *httptest.Server, path string) *wsClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial %s: %v (status %d)", path, err, status)
	}
	t.Cleanup(func() { conn.Close() })
	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) next() WSEvent {
	c.t.Helper()
	for len(c.pending) == 0 {
		c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.t.Fatalf("read: %v", err)
		}
		c.pending = strings.Split(string(data), "\n")
	}
	raw := c.pending[0]
	c.pending = c.pending[1:]
	var event WSEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		c.t.Fatalf("decode event %q: %v", raw, err)
	}
	return event
}

func (c *wsClient) state() GameState {
	c.t.Helper()
	event := c.next()
	if event.Type != EventState {
		c.t.Fatalf("expected state event, got %s: %v", event.Type, event.Data)
	}
	raw, _ := json.Marshal(event.Data)
	var st GameState
	if err := json.Unmarshal(raw, &st); err != nil {
		c.t.Fatalf("decode state: %v", err)
	}
	return st
}

func (c *wsClient) send(msg string) {
	c.t.Helper()
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		c.t.Fatalf("write: %v", err)
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *PlayHandler) {
	t.Helper()
	root, play := NewRouter(testRegistry(), NewHub(), nil, "*")
	srv := httptest.NewServer(root)
	t.Cleanup(srv.Close)
	return srv, play
}

func TestPlaySessionOverWebSocket(t *testing.T) {
	srv, play := newTestServer(t)
	c := dial(t, srv, "/api/v1/play?strategy=lowest")

	st := c.state()
	if st.SessionID == "" || st.Moves != "" || st.Strategy != "lowest" {
		t.Fatalf("unexpected initial state %+v", st)
	}
	if play.SessionCount() != 1 {
		t.Errorf("expected 1 session, got %d", play.SessionCount())
	}

	c.send(`{"action":"move","column":3}`)
	st = c.state()
	if st.Moves != "41" {
		t.Errorf("expected moves 41, got %s", st.Moves)
	}

	c.send(`{"action":"move","column":9}`)
	event := c.next()
	if event.Type != EventError {
		t.Fatalf("expected error event, got %s", event.Type)
	}
	data, _ := event.Data.(map[string]any)
	if msg, _ := data["error"].(string); !strings.HasPrefix(msg, "invalid move") {
		t.Errorf("expected invalid move error, got %v", event.Data)
	}

	c.send(`{"action":"move"}`)
	if event := c.next(); event.Type != EventError {
		t.Errorf("expected error for missing column, got %s", event.Type)
	}

	c.send(`{"action":"resign"}`)
	if event := c.next(); event.Type != EventError {
		t.Errorf("expected error for unknown action, got %s", event.Type)
	}

	c.send(`{"action":"new_game"}`)
	if st := c.state(); st.Moves != "" {
		t.Errorf("expected fresh board, got %s", st.Moves)
	}
}

func TestPlayBotFirstOverWebSocket(t *testing.T) {
	srv, _ := newTestServer(t)
	c := dial(t, srv, "/api/v1/play?strategy=lowest&first=bot")
	st := c.state()
	if st.Moves != "1" || st.Human != "O" {
		t.Errorf("expected bot opening with human O, got %+v", st)
	}
}

func TestSpectatorReceivesState(t *testing.T) {
	srv, _ := newTestServer(t)
	player := dial(t, srv, "/api/v1/play")
	id := player.state().SessionID

	watcher := dial(t, srv, "/api/v1/watch?session="+id)
	if st := watcher.state(); st.SessionID != id {
		t.Fatalf("expected session %s, got %s", id, st.SessionID)
	}

	player.send(`{"action":"move","column":2}`)
	player.state()
	st := watcher.state()
	if st.Moves != "31" {
		t.Errorf("expected spectator to see moves 31, got %s", st.Moves)
	}

	// Spectators cannot play.
	watcher.send(`{"action":"move","column":4}`)
	player.send(`{"action":"move","column":2}`)
	if st := player.state(); st.Moves != "3131" {
		t.Errorf("expected moves 3131, got %s", st.Moves)
	}
}

func TestPlayRejectsBadParameters(t *testing.T) {
	srv, _ := newTestServer(t)
	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/play?strategy=grandmaster", http.StatusBadRequest},
		{"/api/v1/play?first=nobody", http.StatusBadRequest},
		{"/api/v1/watch?session=missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + tt.path
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			t.Errorf("%s: expected dial to fail", tt.path)
			continue
		}
		if resp == nil || resp.StatusCode != tt.want {
			got := 0
			if resp != nil {
				got = resp.StatusCode
			}
			t.Errorf("%s: expected %d, got %d", tt.path, tt.want, got)
		}
	}
}

func TestSessionRemovedOnDisconnect(t *testing.T) {
	srv, play := newTestServer(t)
	c := dial(t, srv, "/api/v1/play")
	c.state()
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for play.SessionCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if play.SessionCount() != 0 {
		t.Errorf("expected session to be removed, got %d", play.SessionCount())
	}
}

func TestPlainGetIsNotUpgraded(t *testing.T) {
	srv, play := newTestServer(t)
	c := dial(t, srv, "/api/v1/play")
	st := c.state()

	for _, path := range []string{"/api/v1/play?strategy=lowest", "/api/v1/watch?session=" + st.SessionID} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, resp.StatusCode)
		}
	}
	if play.SessionCount() != 1 {
		t.Errorf("expected only the dialed session, got %d", play.SessionCount())
	}
}
