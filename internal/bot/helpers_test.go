package bot

import (
	"math/rand"
	"testing"

	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

func mustRows(t *testing.T, rows ...string) *connect4.Board {
	t.Helper()
	b, err := connect4.FromRows(rows...)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	return b
}

// winPosition has X on columns 0-2 of the bottom row, X to move.
func winPosition(t *testing.T) *connect4.Board {
	return mustRows(t,
		".......",
		".......",
		".......",
		".......",
		"......O",
		"XXX..OO",
	)
}

// blockPosition has O threatening column 5 on the bottom row, X to move.
func blockPosition(t *testing.T) *connect4.Board {
	return mustRows(t,
		".......",
		".......",
		".......",
		".......",
		"..XX...",
		".XOOO..",
	)
}

// randomPositions plays seeded random games and keeps unfinished positions.
func randomPositions(t *testing.T, seed int64, count int) []*connect4.Game {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	var out []*connect4.Game
	for len(out) < count {
		g := connect4.NewStandardGame()
		n := 4 + rng.Intn(14)
		for i := 0; i < n && !g.Over(); i++ {
			cols := g.Board().PlayableColumns()
			g.Play(cols[rng.Intn(len(cols))])
		}
		if !g.Over() {
			out = append(out, g)
		}
	}
	return out
}

// minimax is an unpruned reference search using the same scoring rules.
func minimax(b *connect4.Board, ev *Evaluator, depth int, me, opp connect4.Mark) int {
	if depth == 0 || b.IsDraw() {
		return ev.Evaluate(b, me)
	}
	best := -infinity
	for _, c := range b.PlayableColumns() {
		filled, _ := b.Apply(c, me)
		var v int
		if b.IsWinningMove(c) {
			v = WinScore + depth
		} else {
			v = -minimax(b, ev, depth-1, opp, me)
		}
		b.Undo(c, filled, me)
		best = max(best, v)
	}
	return best
}

func minimaxRoot(b *connect4.Board, ev *Evaluator, depth int, me, opp connect4.Mark) (int, int) {
	best, bestMove := -infinity, -1
	for _, c := range b.PlayableColumns() {
		filled, _ := b.Apply(c, me)
		var v int
		if b.IsWinningMove(c) {
			v = WinScore + depth
		} else {
			v = -minimax(b, ev, depth-1, opp, me)
		}
		b.Undo(c, filled, me)
		if v > best || (v == best && closerToCenter(c, bestMove, b.Center())) {
			best, bestMove = v, c
		}
	}
	return bestMove, best
}

// fixedStrategy always answers the same column.
type fixedStrategy struct {
	col   int
	calls int
}

func (*fixedStrategy) Name() string { return "fixed" }

func (f *fixedStrategy) ChooseMove(_ *connect4.Board, _, _ connect4.Mark) int {
	f.calls++
	return f.col
}
