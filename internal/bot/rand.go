package bot

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

// baseSeed, when non-zero, makes strategies created without an explicit
// seed reproducible. Each strategy still gets its own source.
var baseSeed atomic.Int64

var seedCounter atomic.Int64

// SeedBotRng makes subsequently created strategies deterministic. Seed 0
// reverts to clock-based seeding.
func SeedBotRng(seed int64) {
	baseSeed.Store(seed)
	seedCounter.Store(0)
}

// newRng returns a private random source. seed 0 derives one from the
// package seed (or the clock) and a per-call counter.
func newRng(seed int64) *rand.Rand {
	if seed == 0 {
		base := baseSeed.Load()
		if base == 0 {
			base = time.Now().UnixNano()
		}
		seed = base + seedCounter.Add(1)*0x9e3779b9
	}
	return rand.New(rand.NewSource(seed))
}

// centerWeightedColumn picks a playable column at random, weighting each by
// maxDist - dist + 1 where dist is its distance from the center. It reads
// the current playable set so the result is always legal, or -1 on a full
// board.
func centerWeightedColumn(b *connect4.Board, rng *rand.Rand) int {
	center := b.Center()
	maxDist := max(center, b.Width()-1-center)
	total := 0
	for c := 0; c < b.Width(); c++ {
		if b.Playable(c) {
			total += maxDist - abs(c-center) + 1
		}
	}
	if total == 0 {
		return -1
	}
	pick := rng.Intn(total)
	for c := 0; c < b.Width(); c++ {
		if !b.Playable(c) {
			continue
		}
		pick -= maxDist - abs(c-center) + 1
		if pick < 0 {
			return c
		}
	}
	return -1
}

func randomColumn(b *connect4.Board, rng *rand.Rand) int {
	n := b.PlayableCount()
	if n == 0 {
		return -1
	}
	k := rng.Intn(n)
	for c := 0; c < b.Width(); c++ {
		if b.Playable(c) {
			if k == 0 {
				return c
			}
			k--
		}
	}
	return -1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
