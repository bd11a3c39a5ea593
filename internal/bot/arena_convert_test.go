package bot

import (
	"testing"
	"time"
)

func TestMatchRecords(t *testing.T) {
	res := &MatchResult{
		A: "hard", B: "easy", Games: 2, WinsA: 1, Draws: 1,
		Elapsed: 1500 * time.Millisecond,
		Results: []*ArenaResult{
			{GameName: "m-1", First: "hard", Second: "easy", Winner: "hard", Mark: "X", Moves: "4545454", Duration: 20 * time.Millisecond},
			{GameName: "m-2", First: "easy", Second: "hard", Moves: "1212", Duration: 5 * time.Millisecond},
		},
	}
	m, games := MatchRecords("", 0, 0, res)

	if m.Label != "hard-vs-easy" {
		t.Errorf("expected default label, got %s", m.Label)
	}
	if m.Width != 7 || m.Height != 6 {
		t.Errorf("expected 7x6, got %dx%d", m.Width, m.Height)
	}
	if m.ElapsedMs != 1500 {
		t.Errorf("expected 1500ms, got %d", m.ElapsedMs)
	}
	if m.WinsA != 1 || m.Draws != 1 || m.Games != 2 {
		t.Errorf("unexpected tallies %+v", m)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	if games[0].Seq != 1 || games[1].Seq != 2 {
		t.Errorf("expected seq 1,2, got %d,%d", games[0].Seq, games[1].Seq)
	}
	if games[0].Winner != "hard" || games[0].Mark != "X" || games[0].DurationMs != 20 {
		t.Errorf("unexpected first game %+v", games[0])
	}
	if games[1].Winner != "" || games[1].First != "easy" {
		t.Errorf("unexpected second game %+v", games[1])
	}
}

func TestMatchRecordsKeepsLabelAndSize(t *testing.T) {
	m, games := MatchRecords("nightly", 9, 7, &MatchResult{A: "mcts", B: "mcts"})
	if m.Label != "nightly" || m.Width != 9 || m.Height != 7 {
		t.Errorf("unexpected match %+v", m)
	}
	if len(games) != 0 {
		t.Errorf("expected no games, got %d", len(games))
	}
}
