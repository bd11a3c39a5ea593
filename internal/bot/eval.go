package bot

import "github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"

// WinScore is the base score of a won position. Search adds the remaining
// depth so faster wins score higher. It dominates any heuristic total.
const WinScore = 1_000_000

// EvalWeights are the window and positional weights of the static evaluator.
type EvalWeights struct {
	Four     int // own four in a window
	Three    int // own three plus one empty
	Two      int // own two plus two empty
	OppFour  int
	OppThree int // weighted above Three so blocking wins ties
	OppTwo   int
	Center   int // per own token, scaled by closeness to the center column
}

// DefaultWeights is the block-biased weighting used by the search presets.
var DefaultWeights = EvalWeights{
	Four:     1000,
	Three:    50,
	Two:      10,
	OppFour:  1000,
	OppThree: 80,
	OppTwo:   10,
	Center:   3,
}

type cell struct{ col, row int8 }

// Evaluator scores positions by summing every 4-cell window on the four
// axes plus a center term. Windows are computed once per board size.
type Evaluator struct {
	Weights EvalWeights

	width, height int
	windows       [][connect4.ConnectN]cell
}

// NewEvaluator returns an evaluator with the given weights.
func NewEvaluator(w EvalWeights) *Evaluator {
	return &Evaluator{Weights: w}
}

func (e *Evaluator) prepare(width, height int) {
	if e.width == width && e.height == height && e.windows != nil {
		return
	}
	e.width, e.height = width, height
	e.windows = e.windows[:0]
	dirs := [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	for c := 0; c < width; c++ {
		for r := 0; r < height; r++ {
			for _, d := range dirs {
				ec, er := c+d[0]*(connect4.ConnectN-1), r+d[1]*(connect4.ConnectN-1)
				if ec < 0 || ec >= width || er < 0 || er >= height {
					continue
				}
				var w [connect4.ConnectN]cell
				for k := 0; k < connect4.ConnectN; k++ {
					w[k] = cell{int8(c + d[0]*k), int8(r + d[1]*k)}
				}
				e.windows = append(e.windows, w)
			}
		}
	}
}

// WindowCount returns the number of windows for a board size.
func (e *Evaluator) WindowCount(width, height int) int {
	e.prepare(width, height)
	return len(e.windows)
}

// Evaluate scores b from me's point of view. It does not modify b.
func (e *Evaluator) Evaluate(b *connect4.Board, me connect4.Mark) int {
	e.prepare(b.Width(), b.Rows())
	opp := me.Opponent()
	w := &e.Weights
	score := 0
	for i := range e.windows {
		own, theirs, empty := 0, 0, 0
		for _, c := range e.windows[i] {
			switch b.At(int(c.col), int(c.row)) {
			case me:
				own++
			case opp:
				theirs++
			default:
				empty++
			}
		}
		switch {
		case own == 4:
			score += w.Four
		case own == 3 && empty == 1:
			score += w.Three
		case own == 2 && empty == 2:
			score += w.Two
		case theirs == 4:
			score -= w.OppFour
		case theirs == 3 && empty == 1:
			score -= w.OppThree
		case theirs == 2 && empty == 2:
			score -= w.OppTwo
		}
	}

	if w.Center != 0 {
		center := b.Center()
		for c := 0; c < b.Width(); c++ {
			bonus := (center - abs(c-center)) * w.Center
			for r := 0; r < b.Height(c); r++ {
				if b.At(c, r) == me {
					score += bonus
				}
			}
		}
	}
	return score
}
