package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/bot"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/config"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/logger"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/repository/postgres"
)

func main() {
	_ = godotenv.Load()
	logger.InitWithWriter(os.Stderr)

	var (
		a, b     string
		matchup  string
		numGames int
		workers  int
		width    int
		height   int
		seed     int64
		budget   time.Duration
		jsonOut  bool
		dbURL    string
		label    string
	)

	flag.StringVar(&a, "a", "medium", "First strategy")
	flag.StringVar(&b, "b", "easy", "Second strategy")
	flag.StringVar(&matchup, "matchup", "", "Shorthand a-vs-b (e.g. hard-vs-mcts)")
	flag.IntVar(&numGames, "n", 10, "Number of games to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel games)")
	flag.IntVar(&width, "width", 0, "Board width (0 = 7)")
	flag.IntVar(&height, "height", 0, "Board height (0 = 6)")
	flag.Int64Var(&seed, "seed", 0, "Base seed (0 = random)")
	flag.DurationVar(&budget, "budget", 0, "Per-move budget for hard and mcts (0 = BOT_TIME_BUDGET)")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.StringVar(&dbURL, "db", "", "PostgreSQL URL to store results in (default DATABASE_URL)")
	flag.StringVar(&label, "label", "", "Match label (default a-vs-b)")

	flag.Parse()

	if matchup != "" {
		var err error
		a, b, err = parseMatchup(matchup)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid matchup")
		}
	}
	for _, name := range []string{a, b} {
		if !bot.KnownDifficulty(name) {
			log.Fatal().Str("strategy", name).Strs("known", bot.Difficulties).Msg("Unknown strategy")
		}
	}

	cfg := config.Load()
	applyBotConfig(cfg, budget)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	res, err := bot.RunMatch(ctx, bot.MatchConfig{
		Label:   label,
		A:       a,
		B:       b,
		Games:   numGames,
		Workers: workers,
		Width:   width,
		Height:  height,
		Seed:    seed,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Match failed")
	}

	if dbURL == "" {
		dbURL = cfg.DatabaseURL
	}
	if dbURL != "" && res.Games > 0 {
		if id, err := saveResults(context.Background(), dbURL, label, width, height, res); err != nil {
			log.Error().Err(err).Msg("Failed to store match results")
		} else {
			log.Info().Str("matchId", id).Msg("Match results stored")
		}
	}

	if jsonOut {
		printJSON(res, numGames)
	} else {
		printSummary(res, numGames)
	}
}

// applyBotConfig copies the environment tunables into the bot presets.
func applyBotConfig(cfg *config.Config, budget time.Duration) {
	if budget == 0 {
		budget = cfg.BotTimeBudget
	}
	bot.HardTimeBudget = budget
	bot.MCTSTimeBudget = budget
	bot.HardMaxDepth = cfg.BotMaxDepth
	bot.MCTSIterations = cfg.MCTSIterations
	bot.NeuralModelPath = cfg.NeuralModelPath
	bot.NeuralTemperature = cfg.NeuralTemperature
}

func saveResults(ctx context.Context, dbURL, label string, width, height int, res *bot.MatchResult) (string, error) {
	db, err := postgres.Connect(dbURL)
	if err != nil {
		return "", err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return "", err
	}
	m, games := bot.MatchRecords(label, width, height, res)
	return postgres.NewMatchRepo(db).SaveMatch(ctx, m, games)
}

// parseMatchup splits "hard-vs-easy". A single name is a mirror match.
func parseMatchup(s string) (string, string, error) {
	parts := strings.SplitN(s, "-vs-", 2)
	if len(parts) == 1 {
		return s, s, nil
	}
	if parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("matchup %q: want a-vs-b", s)
	}
	return parts[0], parts[1], nil
}

func printSummary(res *bot.MatchResult, requested int) {
	fmt.Printf("\nResults: %s vs %s (%d of %d games, %s)\n", res.A, res.B, res.Games, requested, res.Elapsed.Round(time.Millisecond))
	fmt.Printf("  %-10s %d wins (%.1f%%)\n", res.A, res.WinsA, pct(res.WinsA, res.Games))
	fmt.Printf("  %-10s %d wins (%.1f%%)\n", res.B, res.WinsB, pct(res.WinsB, res.Games))
	fmt.Printf("  %-10s %d (%.1f%%)\n", "draws", res.Draws, pct(res.Draws, res.Games))
	if res.Forfeits > 0 {
		fmt.Printf("  (%d games ended by forfeit)\n", res.Forfeits)
	}
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

func printJSON(res *bot.MatchResult, requested int) {
	out := struct {
		Requested int `json:"requested"`
		*bot.MatchResult
	}{
		Requested:   requested,
		MatchResult: res,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
