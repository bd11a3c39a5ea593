package handler

import (
	"time"

	"github.com/samber/lo"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/bot"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/repository"
)

// Registry is the set of strategies the HTTP surface offers.
type Registry struct {
	Names   []string
	Default string
	Build   func(name string) bot.Strategy
}

// StrategyInfo describes one strategy in GET /api/v1/strategies.
type StrategyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var strategyDescriptions = map[string]string{
	"random":  "uniformly random legal column",
	"target":  "keeps filling one random column",
	"easy":    "wins or blocks when it can, otherwise random toward the center",
	"negamax": "fixed depth-4 alpha-beta search",
	"medium":  "depth-6 alpha-beta with a transposition table",
	"hard":    "iterative deepening alpha-beta with opening book",
	"mcts":    "Monte Carlo tree search",
	"hybrid":  "MCTS in the opening, alpha-beta afterwards",
	"neural":  "policy network, alpha-beta when no model is loaded",
}

// cacheable lists the presets whose answer depends only on the position.
// Random, stateful and sampling players are never cached.
var cacheable = []string{"negamax", "medium", "hard"}

// DefaultRegistry offers every built-in preset. When cache is non-nil the
// deterministic search presets are wrapped so their answers are shared
// through the cache.
func DefaultRegistry(cache repository.MoveCache, ttl time.Duration) *Registry {
	return &Registry{
		Names:   bot.Difficulties,
		Default: "medium",
		Build: func(name string) bot.Strategy {
			s := bot.StrategyForDifficulty(name)
			if cache == nil || !lo.Contains(cacheable, name) {
				return s
			}
			return &bot.CachedStrategy{Inner: s, Cache: cache, TTL: ttl}
		},
	}
}

// Resolve maps an optional strategy name to a known one.
func (r *Registry) Resolve(name string) (string, bool) {
	if name == "" {
		return r.Default, true
	}
	return name, lo.Contains(r.Names, name)
}

// Infos lists the strategies with their descriptions.
func (r *Registry) Infos() []StrategyInfo {
	return lo.Map(r.Names, func(name string, _ int) StrategyInfo {
		return StrategyInfo{Name: name, Description: strategyDescriptions[name]}
	})
}
