package connect4

import "fmt"

// Status is the outcome state of a game.
type Status int

const (
	InProgress Status = iota
	Won
	Draw
)

func (s Status) String() string {
	switch s {
	case Won:
		return "won"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Game drives a board through alternating turns and records the moves.
type Game struct {
	board  *Board
	first  Mark
	toMove Mark
	status Status
	winner Mark
	moves  []int
}

// NewGame starts a game on an empty width x height board with first to move.
func NewGame(width, height int, first Mark) (*Game, error) {
	b, err := NewBoard(width, height)
	if err != nil {
		return nil, err
	}
	if first != X && first != O {
		first = X
	}
	return &Game{board: b, first: first, toMove: first}, nil
}

// NewStandardGame starts a 7x6 game with X to move.
func NewStandardGame() *Game {
	g, _ := NewGame(DefaultWidth, DefaultHeight, X)
	return g
}

// Board returns the live board. Callers must leave it as they found it.
func (g *Game) Board() *Board { return g.board }

// ToMove returns the mark whose turn it is.
func (g *Game) ToMove() Mark { return g.toMove }

// Status returns the game state.
func (g *Game) Status() Status { return g.status }

// Winner returns the winning mark, or Empty.
func (g *Game) Winner() Mark { return g.winner }

// Over reports whether the game has finished.
func (g *Game) Over() bool { return g.status != InProgress }

// Moves returns a copy of the played columns in order.
func (g *Game) Moves() []int { return append([]int(nil), g.moves...) }

// LastMove returns the last played column, or -1.
func (g *Game) LastMove() int {
	if len(g.moves) == 0 {
		return -1
	}
	return g.moves[len(g.moves)-1]
}

// Play drops the current player's token into col, then checks for a win
// before checking for a full board.
func (g *Game) Play(col int) error {
	if g.status != InProgress {
		return ErrGameOver
	}
	if err := g.board.CheckMove(col); err != nil {
		return fmt.Errorf("column %d: %w", col+1, err)
	}
	g.board.Apply(col, g.toMove)
	g.moves = append(g.moves, col)
	switch {
	case g.board.IsWinningMove(col):
		g.status = Won
		g.winner = g.toMove
	case g.board.IsDraw():
		g.status = Draw
	default:
		g.toMove = g.toMove.Opponent()
	}
	return nil
}

// Reset clears the board and move list, keeping size and first player.
func (g *Game) Reset() {
	g.board, _ = NewBoard(g.board.width, g.board.height)
	g.toMove = g.first
	g.status = InProgress
	g.winner = Empty
	g.moves = g.moves[:0]
}
