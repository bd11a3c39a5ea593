package neural

import (
	"math"

	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

// BestLegalColumn returns the playable column with the highest score, or -1
// when no playable column has a score. Ties keep the lower column.
func BestLegalColumn(scores []float32, b *connect4.Board) int {
	best := -1
	var bestScore float32
	for c := 0; c < b.Width() && c < len(scores); c++ {
		if !b.Playable(c) {
			continue
		}
		s := scores[c]
		if math.IsNaN(float64(s)) {
			continue
		}
		if best < 0 || s > bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

// MaskedSoftmax turns column scores into probabilities over playable
// columns only. Full columns and NaN scores get probability 0.
func MaskedSoftmax(scores []float32, b *connect4.Board) []float32 {
	probs := make([]float32, b.Width())
	maxv := float32(math.Inf(-1))
	for c := 0; c < b.Width() && c < len(scores); c++ {
		if b.Playable(c) && !math.IsNaN(float64(scores[c])) && scores[c] > maxv {
			maxv = scores[c]
		}
	}
	if math.IsInf(float64(maxv), -1) {
		return probs
	}
	var sum float32
	for c := 0; c < b.Width() && c < len(scores); c++ {
		if !b.Playable(c) || math.IsNaN(float64(scores[c])) {
			continue
		}
		p := float32(math.Exp(float64(scores[c] - maxv)))
		probs[c] = p
		sum += p
	}
	for c := range probs {
		probs[c] /= sum
	}
	return probs
}
