package bot

import (
	"testing"
	"time"

	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

func TestMCTSNearZeroBudgetReturnsLegalColumn(t *testing.T) {
	for _, g := range randomPositions(t, 5, 10) {
		b := g.Board()
		m := NewMCTSStrategy(MCTSConfig{TimeBudget: time.Nanosecond, Seed: 9})
		col := m.ChooseMove(b, g.ToMove(), g.ToMove().Opponent())
		if !b.Playable(col) {
			t.Errorf("expected legal column on %s, got %d", connect4.FormatMoves(g.Moves()), col)
		}
	}
}

func TestMCTSSingleIteration(t *testing.T) {
	b := connect4.New()
	m := NewMCTSStrategy(MCTSConfig{Iterations: 1, Seed: 2})
	col := m.ChooseMove(b, connect4.X, connect4.O)
	if !b.Playable(col) {
		t.Errorf("expected legal column, got %d", col)
	}
	if m.Simulations() != 1 {
		t.Errorf("expected 1 simulation, got %d", m.Simulations())
	}
}

func TestMCTSOnlyOneColumnLeft(t *testing.T) {
	b := mustRows(t,
		"XOX.OXO",
		"OXO.XOX",
		"XOX.OXO",
		"XOX.OXO",
		"OXO.XOX",
		"XOXOOXO",
	)
	m := NewMCTSStrategy(MCTSConfig{Iterations: 50, Seed: 1})
	if got := m.ChooseMove(b, connect4.X, connect4.O); got != 3 {
		t.Errorf("expected column 3, got %d", got)
	}
}

func TestMCTSFindsImmediateWinBySearch(t *testing.T) {
	b := winPosition(t)
	m := NewMCTSStrategy(MCTSConfig{Iterations: 3000, Seed: 4})
	if got := m.ChooseMove(b, connect4.X, connect4.O); got != 3 {
		t.Errorf("expected column 3, got %d", got)
	}
}

func TestMCTSFastPathBlocks(t *testing.T) {
	b := blockPosition(t)
	m := NewMCTSStrategy(MCTSConfig{Iterations: 10, FastPaths: true, Seed: 4})
	if got := m.ChooseMove(b, connect4.X, connect4.O); got != 5 {
		t.Errorf("expected block at column 5, got %d", got)
	}
}

func TestMCTSLeavesBoardUnchanged(t *testing.T) {
	g, _ := connect4.ParseMoves("443322")
	b := g.Board()
	key, hash := b.Key(), b.Hash()
	m := NewMCTSStrategy(MCTSConfig{Iterations: 500, LightRollouts: true, Seed: 3})
	m.ChooseMove(b, g.ToMove(), g.ToMove().Opponent())
	if b.Key() != key || b.Hash() != hash {
		t.Errorf("expected board unchanged, got %s", b.Key())
	}
}

func TestMCTSArenaInvariants(t *testing.T) {
	b := connect4.New()
	m := NewMCTSStrategy(MCTSConfig{Iterations: 400, Seed: 8})
	m.ChooseMove(b, connect4.X, connect4.O)

	root := &m.nodes[0]
	if root.visits != 400 {
		t.Errorf("expected root visits 400, got %d", root.visits)
	}
	childVisits := 0
	for _, ci := range root.children {
		c := &m.nodes[ci]
		if c.parent != 0 {
			t.Errorf("child %d has parent %d", ci, c.parent)
		}
		if c.mover != connect4.X {
			t.Errorf("expected root children moved by X, got %s", c.mover)
		}
		childVisits += c.visits
	}
	// Every simulation expands or descends through a root child.
	if childVisits != root.visits {
		t.Errorf("expected child visits to sum to %d, got %d", root.visits, childVisits)
	}
}

func TestMCTSDefaults(t *testing.T) {
	m := NewMCTSStrategy(MCTSConfig{})
	if m.cfg.Exploration != DefaultExploration {
		t.Errorf("expected exploration %v, got %v", DefaultExploration, m.cfg.Exploration)
	}
	if m.cfg.Iterations != defaultIterations {
		t.Errorf("expected %d iterations, got %d", defaultIterations, m.cfg.Iterations)
	}
	if m.Name() != "mcts" {
		t.Errorf("expected name mcts, got %s", m.Name())
	}
}
