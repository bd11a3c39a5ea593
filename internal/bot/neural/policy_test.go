package neural

import (
	"math"
	"testing"

	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

func TestBestLegalColumnSkipsFull(t *testing.T) {
	b := connect4.New()
	for i := 0; i < 6; i++ {
		b.Apply(4, connect4.O)
	}
	scores := []float32{0.1, 0.2, 0.3, 0.4, 0.9, 0.2, 0.1}
	if got := BestLegalColumn(scores, b); got != 3 {
		t.Errorf("expected column 3, got %d", got)
	}
}

func TestBestLegalColumnShortOutput(t *testing.T) {
	b := connect4.New()
	if got := BestLegalColumn(nil, b); got != -1 {
		t.Errorf("expected -1 for empty scores, got %d", got)
	}
	if got := BestLegalColumn([]float32{float32(math.NaN()), -2}, b); got != 1 {
		t.Errorf("expected column 1, got %d", got)
	}
}

func TestMaskedSoftmax(t *testing.T) {
	b := connect4.New()
	for i := 0; i < 6; i++ {
		b.Apply(0, connect4.X)
	}
	probs := MaskedSoftmax([]float32{5, 1, 1, 1, 1, 1, 1}, b)
	if probs[0] != 0 {
		t.Errorf("expected full column probability 0, got %v", probs[0])
	}
	var sum float32
	for _, p := range probs {
		sum += p
	}
	if math.Abs(float64(sum-1)) > 1e-5 {
		t.Errorf("expected probabilities to sum to 1, got %v", sum)
	}
}

func TestMaskedSoftmaxIgnoresNaN(t *testing.T) {
	b := connect4.New()
	nan := float32(math.NaN())
	probs := MaskedSoftmax([]float32{nan, 0, 0, nan, 0, 0, 0}, b)
	if probs[0] != 0 || probs[3] != 0 {
		t.Errorf("expected NaN columns at 0, got %v", probs)
	}
	if math.Abs(float64(probs[1]-0.2)) > 1e-5 {
		t.Errorf("expected 0.2, got %v", probs[1])
	}
}
