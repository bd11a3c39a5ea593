package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

// RemoteResult tallies games a local strategy played against a server.
type RemoteResult struct {
	Strategy string   `json:"strategy"`
	Opponent string   `json:"opponent"`
	Games    int      `json:"games"`
	Wins     int      `json:"wins"`
	Losses   int      `json:"losses"`
	Draws    int      `json:"draws"`
	Moves    []string `json:"moves"`
}

// Orchestrator plays a local strategy against a server play session.
type Orchestrator struct {
	baseURL     string
	strategy    Strategy
	opponent    string
	serverFirst bool
	moveTimeout time.Duration
}

// NewOrchestrator creates a new Orchestrator. An empty opponent uses the
// server's default strategy.
func NewOrchestrator(baseURL string, strategy Strategy, opponent string, serverFirst bool) *Orchestrator {
	return &Orchestrator{
		baseURL:     baseURL,
		strategy:    strategy,
		opponent:    opponent,
		serverFirst: serverFirst,
		moveTimeout: 30 * time.Second,
	}
}

// Run plays games back to back in one session.
func (o *Orchestrator) Run(ctx context.Context, games int) (*RemoteResult, error) {
	if games < 1 {
		games = 1
	}
	c := NewClient(o.strategy.Name(), o.baseURL)
	if err := c.Health(); err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}
	if err := c.ConnectPlay(o.opponent, o.serverFirst); err != nil {
		return nil, err
	}
	defer c.CloseWS()

	res := &RemoteResult{Strategy: o.strategy.Name(), Opponent: o.opponent}
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		st, err := o.waitForState(ctx, c)
		if err != nil {
			return res, err
		}
		if res.Opponent == "" {
			res.Opponent = st.Strategy
		}

		if st.Status == connect4.InProgress.String() {
			if st.ToMove != st.Human {
				continue
			}
			col, err := o.chooseMove(st)
			if err != nil {
				return res, err
			}
			if err := c.SendMove(col); err != nil {
				return res, fmt.Errorf("send move: %w", err)
			}
			continue
		}

		res.Games++
		res.Moves = append(res.Moves, st.Moves)
		switch st.Winner {
		case "":
			res.Draws++
		case st.Human:
			res.Wins++
		default:
			res.Losses++
		}
		log.Info().
			Str("session", st.SessionID).
			Str("status", st.Status).
			Str("winner", st.Winner).
			Str("moves", st.Moves).
			Msg("Remote game finished")

		if res.Games >= games {
			return res, nil
		}
		if err := c.NewGame(); err != nil {
			return res, fmt.Errorf("new game: %w", err)
		}
	}
}

func (o *Orchestrator) chooseMove(st RemoteState) (int, error) {
	b, err := connect4.FromRows(st.Grid...)
	if err != nil {
		return -1, fmt.Errorf("decode grid: %w", err)
	}
	me, ok := connect4.ParseMark(st.Human)
	if !ok {
		return -1, fmt.Errorf("unknown mark %q", st.Human)
	}
	return o.strategy.ChooseMove(b, me, me.Opponent()), nil
}

// waitForState blocks until the next state event. An error event from the
// server ends the run.
func (o *Orchestrator) waitForState(ctx context.Context, c *Client) (RemoteState, error) {
	timeout := time.After(o.moveTimeout)
	for {
		select {
		case <-ctx.Done():
			return RemoteState{}, ctx.Err()
		case <-timeout:
			return RemoteState{}, fmt.Errorf("timeout waiting for state")
		case event, ok := <-c.Events():
			if !ok {
				return RemoteState{}, fmt.Errorf("ws connection closed")
			}
			switch event.Type {
			case "state":
				var st RemoteState
				if err := json.Unmarshal(event.Data, &st); err != nil {
					return RemoteState{}, fmt.Errorf("decode state: %w", err)
				}
				return st, nil
			case "error":
				var e struct {
					Error string `json:"error"`
				}
				json.Unmarshal(event.Data, &e)
				return RemoteState{}, fmt.Errorf("server error: %s", e.Error)
			default:
				log.Debug().Str("type", event.Type).Msg("Ignoring event")
			}
		}
	}
}
