package bot

import (
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

// Strategy picks a column for me on b. Implementations must leave b as they
// found it and return a playable column, or -1 only when none exists or the
// player gives up (e.g. closed human input).
type Strategy interface {
	Name() string
	ChooseMove(b *connect4.Board, me, opp connect4.Mark) int
}

// Tunables for the built-in presets. Set these at startup (e.g. from the
// environment) before creating strategies.
var (
	HardTimeBudget = time.Second
	HardMaxDepth   = connect4.DefaultWidth * connect4.DefaultHeight
	MCTSTimeBudget = time.Second
	MCTSIterations = 0

	// NeuralModelPath is the ONNX policy model used by the "neural" preset.
	NeuralModelPath string
	// NeuralTemperature > 0 makes the "neural" preset sample its moves.
	NeuralTemperature float64
)

// hybridThreshold is the token count below which the hybrid preset uses MCTS.
const hybridThreshold = 10

// Difficulties lists the names StrategyForDifficulty understands.
var Difficulties = []string{"random", "target", "easy", "negamax", "medium", "hard", "mcts", "hybrid", "neural"}

// StrategyForDifficulty returns a fresh strategy for a preset name. Unknown
// names get the medium preset.
func StrategyForDifficulty(difficulty string) Strategy {
	return NewStrategy(difficulty, 0)
}

// NewStrategy is StrategyForDifficulty with an explicit random seed; 0
// derives one (see SeedBotRng).
func NewStrategy(difficulty string, seed int64) Strategy {
	switch difficulty {
	case "random":
		return NewRandomStrategy(seed)
	case "target":
		return NewTargetStrategy(seed)
	case "easy":
		return NewEasyStrategy(seed)
	case "negamax":
		return NewSearchStrategy(withSeed(NegamaxConfig(), seed))
	case "hard":
		return NewSearchStrategy(withSeed(HardConfig(), seed))
	case "mcts":
		cfg := DefaultMCTSConfig()
		cfg.Seed = seed
		return NewMCTSStrategy(cfg)
	case "hybrid":
		early := DefaultMCTSConfig()
		early.Seed = seed
		return &HybridStrategy{
			Early:     NewMCTSStrategy(early),
			Late:      NewSearchStrategy(withSeed(HardConfig(), seed)),
			Threshold: hybridThreshold,
		}
	case "neural":
		return newNeuralOrFallback(seed)
	default:
		return NewSearchStrategy(withSeed(MediumConfig(), seed))
	}
}

// KnownDifficulty reports whether name is one of Difficulties.
func KnownDifficulty(name string) bool {
	return slices.Contains(Difficulties, name)
}

func withSeed(cfg SearchConfig, seed int64) SearchConfig {
	cfg.Seed = seed
	return cfg
}

// NegamaxConfig is a plain fixed-depth search with center ordering only.
func NegamaxConfig() SearchConfig {
	return SearchConfig{
		Name:     "negamax",
		MaxDepth: 4,
		Ordering: CenterOrdering,
	}
}

// MediumConfig searches shallowly with the table and full ordering.
func MediumConfig() SearchConfig {
	return SearchConfig{
		Name:       "medium",
		MaxDepth:   6,
		TimeBudget: 250 * time.Millisecond,
		UseTT:      true,
		TTSize:     1 << 16,
		Ordering:   FullOrdering,
		FastPaths:  true,
	}
}

// HardConfig deepens until HardTimeBudget runs out.
func HardConfig() SearchConfig {
	return SearchConfig{
		Name:       "hard",
		MaxDepth:   HardMaxDepth,
		TimeBudget: HardTimeBudget,
		UseTT:      true,
		Ordering:   FullOrdering,
		FastPaths:  true,
		UseBook:    true,
	}
}

// DefaultMCTSConfig is the UCB1 preset with light playouts.
func DefaultMCTSConfig() MCTSConfig {
	return MCTSConfig{
		Name:          "mcts",
		Iterations:    MCTSIterations,
		TimeBudget:    MCTSTimeBudget,
		Exploration:   DefaultExploration,
		FastPaths:     true,
		LightRollouts: true,
	}
}

// newNeuralOrFallback loads the policy network. If that fails the game
// proceeds with the hard search instead.
func newNeuralOrFallback(seed int64) Strategy {
	net, err := loadSharedNetwork(NeuralModelPath)
	if err != nil {
		log.Warn().Err(err).Str("path", NeuralModelPath).Msg("Neural model unavailable, falling back to hard")
		return NewSearchStrategy(withSeed(HardConfig(), seed))
	}
	s := NewNeuralStrategy(net, NewSearchStrategy(withSeed(HardConfig(), seed)))
	s.Temperature = NeuralTemperature
	s.rng = newRng(seed)
	return s
}

// HybridStrategy uses Early while the board holds fewer than Threshold
// tokens and Late afterwards.
type HybridStrategy struct {
	Early     Strategy
	Late      Strategy
	Threshold int
}

func (h *HybridStrategy) Name() string { return "hybrid" }

func (h *HybridStrategy) ChooseMove(b *connect4.Board, me, opp connect4.Mark) int {
	if b.MoveCount() < h.Threshold {
		return h.Early.ChooseMove(b, me, opp)
	}
	return h.Late.ChooseMove(b, me, opp)
}
