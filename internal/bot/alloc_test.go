package bot

import (
	"testing"

	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

func BenchmarkAlloc_ApplyUndo(b *testing.B) {
	board := benchBoard(b)
	b.ReportAllocs()
	for b.Loop() {
		for _, col := range []int{0, 3, 6} {
			filled, _ := board.Apply(col, connect4.X)
			board.IsWinningMove(col)
			board.Undo(col, filled, connect4.X)
		}
	}
}

func BenchmarkAlloc_Evaluate(b *testing.B) {
	board := benchBoard(b)
	ev := NewEvaluator(DefaultWeights)
	ev.Evaluate(board, connect4.X)
	b.ReportAllocs()
	for b.Loop() {
		ev.Evaluate(board, connect4.X)
	}
}

func BenchmarkAlloc_SearchDepth6(b *testing.B) {
	board := benchBoard(b)
	s := NewSearchStrategy(HardConfig())
	b.ReportAllocs()
	for b.Loop() {
		s.SearchDepth(board, connect4.X, connect4.O, 6)
	}
}

func BenchmarkAlloc_Clone(b *testing.B) {
	board := benchBoard(b)
	b.ReportAllocs()
	for b.Loop() {
		board.Clone()
	}
}

func TestApplyUndoDoesNotAllocate(t *testing.T) {
	g, err := connect4.ParseMoves(benchMoves)
	if err != nil {
		t.Fatalf("ParseMoves: %v", err)
	}
	board := g.Board()
	allocs := testing.AllocsPerRun(100, func() {
		filled, _ := board.Apply(6, connect4.X)
		board.IsWinningMove(6)
		board.Undo(6, filled, connect4.X)
	})
	if allocs != 0 {
		t.Errorf("expected 0 allocs, got %v", allocs)
	}
}
