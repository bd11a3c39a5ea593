package bot

import (
	"github.com/AngelFireLA/Puissance4-L1ST/internal/model"
	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

// MatchRecords converts a finished match into the rows a ResultStore
// persists. Games keep the order they were scheduled in.
func MatchRecords(label string, width, height int, res *MatchResult) (*model.Match, []model.MatchGame) {
	if width == 0 {
		width = connect4.DefaultWidth
	}
	if height == 0 {
		height = connect4.DefaultHeight
	}
	if label == "" {
		label = res.A + "-vs-" + res.B
	}
	m := &model.Match{
		Label:     label,
		A:         res.A,
		B:         res.B,
		Width:     width,
		Height:    height,
		Games:     res.Games,
		WinsA:     res.WinsA,
		WinsB:     res.WinsB,
		Draws:     res.Draws,
		Forfeits:  res.Forfeits,
		ElapsedMs: res.Elapsed.Milliseconds(),
	}
	games := make([]model.MatchGame, 0, len(res.Results))
	for i, r := range res.Results {
		games = append(games, model.MatchGame{
			Seq:        i + 1,
			Name:       r.GameName,
			First:      r.First,
			Second:     r.Second,
			Winner:     r.Winner,
			Mark:       r.Mark,
			Moves:      r.Moves,
			Forfeit:    r.Forfeit,
			Reason:     r.Reason,
			DurationMs: r.Duration.Milliseconds(),
		})
	}
	return m, games
}
