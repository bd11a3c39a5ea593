package neural

import "github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"

// EncodeBoard flattens b column-major, bottom row first, into +1 for self,
// -1 for the opponent and 0 for empty. With playable set, one flag per
// column (1 = playable) is appended, giving Width*Rows+Width values.
func EncodeBoard(b *connect4.Board, self connect4.Mark, playable bool) []float32 {
	w, h := b.Width(), b.Rows()
	n := w * h
	if playable {
		n += w
	}
	out := make([]float32, n)
	EncodeInto(out, b, self, playable)
	return out
}

// EncodeInto writes the encoding into dst, which must be long enough.
func EncodeInto(dst []float32, b *connect4.Board, self connect4.Mark, playable bool) {
	w, h := b.Width(), b.Rows()
	for c := 0; c < w; c++ {
		base := c * h
		for r := 0; r < h; r++ {
			switch b.At(c, r) {
			case connect4.Empty:
				dst[base+r] = CellEmpty
			case self:
				dst[base+r] = CellSelf
			default:
				dst[base+r] = CellOpponent
			}
		}
	}
	if !playable {
		return
	}
	for c := 0; c < w; c++ {
		if b.Playable(c) {
			dst[w*h+c] = 1
		} else {
			dst[w*h+c] = 0
		}
	}
}

// InputSize returns the encoding length for a board of the given size.
func InputSize(width, height int, playable bool) int {
	if playable {
		return width*height + width
	}
	return width * height
}
