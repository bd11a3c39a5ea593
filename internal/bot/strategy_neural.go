package bot

import (
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/bot/neural"
	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

// PolicyNetwork maps an encoded board to one score per column.
type PolicyNetwork interface {
	Scores(input []float32) ([]float32, error)
}

// NeuralStrategy plays the highest-scoring playable column of a policy
// network, or samples one when Temperature is positive. When inference
// fails or yields no legal column it defers to Fallback.
type NeuralStrategy struct {
	Net      PolicyNetwork
	Fallback Strategy
	// WithPlayable appends the per-column playable flags to the input.
	WithPlayable bool
	// Temperature > 0 samples from the softmax of scores/Temperature over
	// playable columns instead of taking the argmax.
	Temperature float64
	rng         *rand.Rand
	buf         []float32
	scaled      []float32
}

// NewNeuralStrategy wraps net with the standard encoding (playable flags on).
func NewNeuralStrategy(net PolicyNetwork, fallback Strategy) *NeuralStrategy {
	return &NeuralStrategy{Net: net, Fallback: fallback, WithPlayable: true}
}

func (s *NeuralStrategy) Name() string { return "neural" }

func (s *NeuralStrategy) ChooseMove(b *connect4.Board, me, opp connect4.Mark) int {
	n := neural.InputSize(b.Width(), b.Rows(), s.WithPlayable)
	if cap(s.buf) < n {
		s.buf = make([]float32, n)
	}
	s.buf = s.buf[:n]
	neural.EncodeInto(s.buf, b, me, s.WithPlayable)

	scores, err := s.Net.Scores(s.buf)
	if err != nil {
		log.Warn().Err(err).Msg("Neural inference failed, using fallback")
		return s.fallback(b, me, opp)
	}
	var col int
	if s.Temperature > 0 {
		col = s.sample(scores, b)
	} else {
		col = neural.BestLegalColumn(scores, b)
	}
	if col >= 0 {
		return col
	}
	log.Warn().Int("outputs", len(scores)).Msg("Neural output has no legal column, using fallback")
	return s.fallback(b, me, opp)
}

func (s *NeuralStrategy) fallback(b *connect4.Board, me, opp connect4.Mark) int {
	if s.Fallback != nil {
		return s.Fallback.ChooseMove(b, me, opp)
	}
	return randomColumn(b, newRng(0))
}

// sample draws a playable column in proportion to its tempered softmax
// probability. It returns -1 if every playable column scored NaN.
func (s *NeuralStrategy) sample(scores []float32, b *connect4.Board) int {
	if neural.BestLegalColumn(scores, b) < 0 {
		return -1
	}
	s.scaled = s.scaled[:0]
	for _, v := range scores {
		s.scaled = append(s.scaled, v/float32(s.Temperature))
	}
	probs := neural.MaskedSoftmax(s.scaled, b)
	if s.rng == nil {
		s.rng = newRng(0)
	}
	r := s.rng.Float32()
	last := -1
	for c, p := range probs {
		if p <= 0 || !b.Playable(c) {
			continue
		}
		last = c
		if r < p {
			return c
		}
		r -= p
	}
	return last
}
