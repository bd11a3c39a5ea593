package handler

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/bot"
	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

// ErrNotYourTurn is returned when the human moves while the bot is to play.
var ErrNotYourTurn = errors.New("not your turn")

// GameState is the payload of a state event.
type GameState struct {
	SessionID string   `json:"session_id"`
	Strategy  string   `json:"strategy"`
	Human     string   `json:"human"`
	ToMove    string   `json:"to_move"`
	Status    string   `json:"status"`
	Winner    string   `json:"winner,omitempty"`
	LastMove  int      `json:"last_move"` // 0-based, -1 before the first move
	Moves     string   `json:"moves"`
	Grid      []string `json:"grid"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
}

// PlaySession is one human-versus-bot game. It owns its game and strategy
// instance; all methods are safe for concurrent use.
type PlaySession struct {
	ID string

	mu       sync.Mutex
	game     *connect4.Game
	bot      bot.Strategy
	strategy string
	human    connect4.Mark
}

// NewPlaySession starts a standard game. When humanFirst is false the bot
// opens immediately.
func NewPlaySession(id, strategy string, s bot.Strategy, humanFirst bool) *PlaySession {
	human := connect4.X
	if !humanFirst {
		human = connect4.O
	}
	p := &PlaySession{
		ID:       id,
		game:     connect4.NewStandardGame(),
		bot:      s,
		strategy: strategy,
		human:    human,
	}
	p.botTurn()
	return p
}

// Move plays the human's column and, unless the game ended, the bot's reply.
func (p *PlaySession) Move(col int) (GameState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.game.Over() {
		return p.state(), connect4.ErrGameOver
	}
	if p.game.ToMove() != p.human {
		return p.state(), ErrNotYourTurn
	}
	if err := p.game.Play(col); err != nil {
		return p.state(), err
	}
	p.botTurn()
	return p.state(), nil
}

// NewGame clears the board keeping the same seats.
func (p *PlaySession) NewGame() GameState {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.game.Reset()
	p.botTurn()
	return p.state()
}

// State returns a snapshot of the game.
func (p *PlaySession) State() GameState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state()
}

// botTurn plays the bot's move if it is to play. A bot that answers an
// illegal column is replaced for that move by the lowest playable one.
func (p *PlaySession) botTurn() {
	if p.game.Over() || p.game.ToMove() == p.human {
		return
	}
	me := p.game.ToMove()
	col := p.bot.ChooseMove(p.game.Board(), me, me.Opponent())
	if err := p.game.Play(col); err != nil {
		log.Error().Err(err).
			Str("sessionId", p.ID).
			Str("strategy", p.strategy).
			Int("column", col).
			Msg("Bot returned an illegal move")
		if cols := p.game.Board().PlayableColumns(); len(cols) > 0 {
			p.game.Play(cols[0])
		}
	}
}

func (p *PlaySession) state() GameState {
	b := p.game.Board()
	st := GameState{
		SessionID: p.ID,
		Strategy:  p.strategy,
		Human:     p.human.String(),
		ToMove:    p.game.ToMove().String(),
		Status:    p.game.Status().String(),
		LastMove:  p.game.LastMove(),
		Moves:     connect4.FormatMoves(p.game.Moves()),
		Grid:      b.Grid(),
		Width:     b.Width(),
		Height:    b.Rows(),
	}
	if p.game.Status() == connect4.Won {
		st.Winner = p.game.Winner().String()
	}
	if p.game.Over() {
		st.ToMove = ""
	}
	return st
}
