package bot

import (
	"math/rand"

	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

// RandomStrategy plays a uniformly random legal column.
type RandomStrategy struct {
	rng *rand.Rand
}

// NewRandomStrategy returns a random player. seed 0 picks one.
func NewRandomStrategy(seed int64) *RandomStrategy {
	return &RandomStrategy{rng: newRng(seed)}
}

func (RandomStrategy) Name() string { return "random" }

func (s *RandomStrategy) ChooseMove(b *connect4.Board, _, _ connect4.Mark) int {
	return randomColumn(b, s.rng)
}

// TargetStrategy keeps dropping into one randomly chosen column until it
// fills up, then picks another.
type TargetStrategy struct {
	rng    *rand.Rand
	target int
}

// NewTargetStrategy returns a sticky-column player. seed 0 picks one.
func NewTargetStrategy(seed int64) *TargetStrategy {
	return &TargetStrategy{rng: newRng(seed), target: -1}
}

func (TargetStrategy) Name() string { return "target" }

func (s *TargetStrategy) ChooseMove(b *connect4.Board, _, _ connect4.Mark) int {
	if !b.Playable(s.target) {
		s.target = randomColumn(b, s.rng)
	}
	return s.target
}

// EasyStrategy wins when it can, blocks an immediate loss, and otherwise
// plays a center-weighted random column.
type EasyStrategy struct {
	rng *rand.Rand
}

// NewEasyStrategy returns an easy player. seed 0 picks one.
func NewEasyStrategy(seed int64) *EasyStrategy {
	return &EasyStrategy{rng: newRng(seed)}
}

func (EasyStrategy) Name() string { return "easy" }

func (s *EasyStrategy) ChooseMove(b *connect4.Board, me, opp connect4.Mark) int {
	if col := immediateWin(b, me); col >= 0 {
		return col
	}
	if col := immediateWin(b, opp); col >= 0 {
		return col
	}
	return centerWeightedColumn(b, s.rng)
}
