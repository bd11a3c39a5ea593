package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/bot"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/config"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/logger"
	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine
	logger.InitWithWriter(os.Stderr)

	var (
		strategy string
		botFirst bool
		seed     int64
	)
	flag.StringVar(&strategy, "strategy", "medium", "Bot strategy")
	flag.BoolVar(&botFirst, "bot-first", false, "Let the bot open")
	flag.Int64Var(&seed, "seed", 0, "Bot seed (0 = random)")
	flag.Parse()

	if !bot.KnownDifficulty(strategy) {
		log.Fatal().Str("strategy", strategy).Strs("known", bot.Difficulties).Msg("Unknown strategy")
	}
	cfg := config.Load()
	bot.HardTimeBudget = cfg.BotTimeBudget
	bot.MCTSTimeBudget = cfg.BotTimeBudget
	bot.HardMaxDepth = cfg.BotMaxDepth
	bot.MCTSIterations = cfg.MCTSIterations
	bot.NeuralModelPath = cfg.NeuralModelPath
	bot.NeuralTemperature = cfg.NeuralTemperature

	human := bot.NewHumanStrategy(os.Stdin, os.Stdout)
	play(os.Stdout, human, bot.NewStrategy(strategy, seed), botFirst)
}

// play runs one game on the terminal. The human plays X unless botFirst.
func play(out io.Writer, human, opponent bot.Strategy, botFirst bool) {
	players := map[connect4.Mark]bot.Strategy{connect4.X: human, connect4.O: opponent}
	if botFirst {
		players[connect4.X], players[connect4.O] = opponent, human
	}

	g := connect4.NewStandardGame()
	for !g.Over() {
		fmt.Fprint(out, "\n", g.Board().String())
		me := g.ToMove()
		col := players[me].ChooseMove(g.Board(), me, me.Opponent())
		if col < 0 {
			fmt.Fprintln(out, "\nGame abandoned.")
			return
		}
		if err := g.Play(col); err != nil {
			fmt.Fprintf(out, "%s made an illegal move: %v\n", players[me].Name(), err)
			return
		}
		if players[me] == opponent {
			fmt.Fprintf(out, "%s (%s) plays %d\n", opponent.Name(), me, col+1)
		}
	}

	fmt.Fprint(out, "\n", g.Board().String())
	switch g.Status() {
	case connect4.Won:
		fmt.Fprintf(out, "%s (%s) wins! Moves: %s\n", players[g.Winner()].Name(), g.Winner(), connect4.FormatMoves(g.Moves()))
	default:
		fmt.Fprintf(out, "Draw. Moves: %s\n", connect4.FormatMoves(g.Moves()))
	}
}
