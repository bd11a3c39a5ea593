package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

// ArenaConfig configures a single bot-vs-bot game.
type ArenaConfig struct {
	GameName string
	First    string // difficulty playing X
	Second   string // difficulty playing O
	Width    int    // 0 = standard
	Height   int    // 0 = standard
	Seed     int64  // 0 = random

	// NewStrategy overrides preset construction, mostly for tests.
	NewStrategy func(name string, seed int64) Strategy
}

// ArenaResult describes the outcome of a completed arena game.
type ArenaResult struct {
	GameName string        `json:"game"`
	First    string        `json:"first"`
	Second   string        `json:"second"`
	Winner   string        `json:"winner"` // difficulty name, "" for a draw
	Mark     string        `json:"mark"`   // winning mark, "" for a draw
	Moves    string        `json:"moves"`
	Forfeit  bool          `json:"forfeit,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Duration time.Duration `json:"duration"`
}

// RunGame plays one game between two freshly built strategies. A player
// that returns an illegal column loses by forfeit. The only error is
// context cancellation.
func RunGame(ctx context.Context, cfg ArenaConfig) (*ArenaResult, error) {
	if cfg.Width == 0 {
		cfg.Width = connect4.DefaultWidth
	}
	if cfg.Height == 0 {
		cfg.Height = connect4.DefaultHeight
	}
	build := cfg.NewStrategy
	if build == nil {
		build = NewStrategy
	}

	game, err := connect4.NewGame(cfg.Width, cfg.Height, connect4.X)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	names := map[connect4.Mark]string{connect4.X: cfg.First, connect4.O: cfg.Second}
	players := map[connect4.Mark]Strategy{
		connect4.X: build(cfg.First, cfg.Seed),
		connect4.O: build(cfg.Second, seedFor(cfg.Seed, 1)),
	}

	start := time.Now()
	result := &ArenaResult{GameName: cfg.GameName, First: cfg.First, Second: cfg.Second}

	for !game.Over() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		me := game.ToMove()
		col := players[me].ChooseMove(game.Board(), me, me.Opponent())
		if err := game.Play(col); err != nil {
			winner := me.Opponent()
			result.Winner = names[winner]
			result.Mark = winner.String()
			result.Forfeit = true
			result.Reason = fmt.Sprintf("%s (%s) played an illegal move: %v", names[me], me, err)
			break
		}
	}

	if game.Status() == connect4.Won {
		result.Winner = names[game.Winner()]
		result.Mark = game.Winner().String()
	}
	result.Moves = connect4.FormatMoves(game.Moves())
	result.Duration = time.Since(start)

	log.Info().
		Str("game", cfg.GameName).
		Str("first", cfg.First).
		Str("second", cfg.Second).
		Str("winner", result.Winner).
		Str("moves", result.Moves).
		Bool("forfeit", result.Forfeit).
		Dur("duration", result.Duration).
		Msg("Arena game finished")
	return result, nil
}

func seedFor(base, offset int64) int64 {
	if base == 0 {
		return 0
	}
	return base + offset
}

// MatchConfig configures a series of games between two difficulties.
type MatchConfig struct {
	Label   string
	A, B    string
	Games   int
	Workers int
	Width   int
	Height  int
	Seed    int64

	NewStrategy func(name string, seed int64) Strategy
}

// MatchResult tallies a series from A's and B's point of view.
type MatchResult struct {
	A        string         `json:"a"`
	B        string         `json:"b"`
	Games    int            `json:"games"`
	WinsA    int            `json:"wins_a"`
	WinsB    int            `json:"wins_b"`
	Draws    int            `json:"draws"`
	Forfeits int            `json:"forfeits"`
	Results  []*ArenaResult `json:"results"`
	Elapsed  time.Duration  `json:"elapsed"`
}

// RunMatch plays cfg.Games games, alternating which side moves first, on
// up to cfg.Workers goroutines. Each game owns its board and strategies.
// On cancellation the games finished so far are still tallied.
func RunMatch(ctx context.Context, cfg MatchConfig) (*MatchResult, error) {
	if cfg.Games <= 0 {
		cfg.Games = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Label == "" {
		cfg.Label = cfg.A + "-vs-" + cfg.B
	}

	start := time.Now()
	results := make([]*ArenaResult, cfg.Games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i := 0; i < cfg.Games; i++ {
		first, second := cfg.A, cfg.B
		if i%2 == 1 {
			first, second = second, first
		}
		gameCfg := ArenaConfig{
			GameName:    fmt.Sprintf("%s-%d", cfg.Label, i+1),
			First:       first,
			Second:      second,
			Width:       cfg.Width,
			Height:      cfg.Height,
			Seed:        seedFor(cfg.Seed, int64(i)*2),
			NewStrategy: cfg.NewStrategy,
		}
		g.Go(func() error {
			r, err := RunGame(gctx, gameCfg)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	err := g.Wait()

	done := lo.Filter(results, func(r *ArenaResult, _ int) bool { return r != nil })
	mr := &MatchResult{
		A:       cfg.A,
		B:       cfg.B,
		Games:   len(done),
		Results: done,
		Elapsed: time.Since(start),
	}
	// Names can coincide (mirror matches), so attribute wins by seat.
	for i, r := range results {
		if r == nil {
			continue
		}
		aMark := "X"
		if i%2 == 1 {
			aMark = "O"
		}
		switch r.Mark {
		case "":
			mr.Draws++
		case aMark:
			mr.WinsA++
		default:
			mr.WinsB++
		}
	}
	mr.Forfeits = lo.CountBy(done, func(r *ArenaResult) bool { return r.Forfeit })
	return mr, err
}
