package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/bot"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/logger"
)

func main() {
	url := flag.String("url", "http://localhost:8009", "server base URL")
	strategyName := flag.String("strategy", "medium", "local strategy")
	opponent := flag.String("opponent", "", "server strategy (default: server default)")
	serverFirst := flag.Bool("server-first", false, "let the server bot open each game")
	games := flag.Int("games", 1, "number of games to play in the session")
	seed := flag.Int64("seed", 0, "seed for the local strategy (0 = random)")
	propose := flag.String("propose", "", "only ask the server for its move after these moves, e.g. 4453")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	_ = godotenv.Load() // a missing .env is fine
	logger.InitWithWriter(os.Stderr)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *propose != "" {
		col, err := bot.NewClient("propose", *url).ProposeMove(*propose, *opponent)
		if err != nil {
			log.Fatal().Err(err).Msg("Move request failed")
		}
		fmt.Println(col + 1)
		return
	}

	if !bot.KnownDifficulty(*strategyName) {
		log.Fatal().Str("strategy", *strategyName).Strs("known", bot.Difficulties).Msg("Unknown strategy")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Received shutdown signal")
		cancel()
	}()

	orch := bot.NewOrchestrator(*url, bot.NewStrategy(*strategyName, *seed), *opponent, *serverFirst)
	res, err := orch.Run(ctx, *games)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Remote session failed")
	}
	fmt.Printf("%s vs %s: %d wins, %d losses, %d draws in %d games\n",
		res.Strategy, res.Opponent, res.Wins, res.Losses, res.Draws, res.Games)
}
