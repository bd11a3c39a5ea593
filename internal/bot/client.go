package bot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSEvent mirrors handler.WSEvent for client-side deserialization.
type WSEvent struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id"`
	Data      json.RawMessage `json:"data"`
}

// RemoteState mirrors the state a play session broadcasts.
type RemoteState struct {
	SessionID string   `json:"session_id"`
	Strategy  string   `json:"strategy"`
	Human     string   `json:"human"`
	ToMove    string   `json:"to_move"`
	Status    string   `json:"status"`
	Winner    string   `json:"winner"`
	LastMove  int      `json:"last_move"`
	Moves     string   `json:"moves"`
	Grid      []string `json:"grid"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
}

// Client is an HTTP+WebSocket client for a Connect 4 server.
type Client struct {
	name     string
	baseURL  string
	wsConn   *websocket.Conn
	events   chan WSEvent
	httpC    *http.Client
	mu       sync.Mutex
	closedWS bool
}

// NewClient creates a new client targeting the given server URL.
func NewClient(name, baseURL string) *Client {
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		events:  make(chan WSEvent, 64),
		httpC:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the client name used in logs.
func (c *Client) Name() string { return c.name }

// Health checks GET /healthz.
func (c *Client) Health() error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.getJSON("/healthz", &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("server status %q", out.Status)
	}
	return nil
}

// Strategies lists the server's strategy names and its default.
func (c *Client) Strategies() ([]string, string, error) {
	var out struct {
		Strategies []struct {
			Name string `json:"name"`
		} `json:"strategies"`
		Default string `json:"default"`
	}
	if err := c.getJSON("/api/v1/strategies", &out); err != nil {
		return nil, "", err
	}
	names := make([]string, 0, len(out.Strategies))
	for _, s := range out.Strategies {
		names = append(names, s.Name)
	}
	return names, out.Default, nil
}

// ProposeMove asks the server which 0-based column strategy plays after
// moves. An empty strategy uses the server default.
func (c *Client) ProposeMove(moves, strategy string) (int, error) {
	var out struct {
		Column int `json:"column"`
	}
	payload := map[string]string{"moves": moves, "strategy": strategy}
	if err := c.postJSON("/api/v1/move", payload, &out); err != nil {
		return -1, err
	}
	return out.Column, nil
}

// ConnectPlay opens a play session against the server strategy and starts
// listening for events. serverFirst lets the server bot open the game.
func (c *Client) ConnectPlay(strategy string, serverFirst bool) error {
	q := url.Values{}
	if strategy != "" {
		q.Set("strategy", strategy)
	}
	if serverFirst {
		q.Set("first", "bot")
	}
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/api/v1/play"
	if len(q) > 0 {
		wsURL += "?" + q.Encode()
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("ws dial: %w", err)
	}
	c.wsConn = conn

	go c.readWSLoop()
	return nil
}

// SendMove plays the 0-based column col in the session.
func (c *Client) SendMove(col int) error {
	return c.writeJSON(map[string]any{"action": "move", "column": col})
}

// NewGame restarts the session with the same seats.
func (c *Client) NewGame() error {
	return c.writeJSON(map[string]string{"action": "new_game"})
}

func (c *Client) writeJSON(msg any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wsConn.WriteJSON(msg)
}

// Events returns the channel of incoming WebSocket events.
func (c *Client) Events() <-chan WSEvent { return c.events }

// CloseWS closes the WebSocket connection.
func (c *Client) CloseWS() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wsConn != nil && !c.closedWS {
		c.closedWS = true
		c.wsConn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.wsConn.Close()
	}
}

// readWSLoop decodes events. The server may batch several events into one
// frame separated by newlines.
func (c *Client) readWSLoop() {
	defer close(c.events)
	for {
		_, msg, err := c.wsConn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closedWS
			c.mu.Unlock()
			if !closed {
				log.Debug().Err(err).Str("client", c.name).Msg("WS read error")
			}
			return
		}
		for _, line := range bytes.Split(msg, []byte("\n")) {
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			var event WSEvent
			if err := json.Unmarshal(line, &event); err != nil {
				continue
			}
			c.events <- event
		}
	}
}

func (c *Client) getJSON(path string, out any) error {
	resp, err := c.httpC.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) postJSON(path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpC.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, bytes.TrimSpace(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
