package connect4

import (
	"fmt"
	"strings"
)

// ParseMoves replays a sequence of 1-based column digits on a standard
// board, X first, e.g. "4453". It returns the resulting game.
func ParseMoves(moves string) (*Game, error) {
	g := NewStandardGame()
	if err := g.PlayMoves(moves); err != nil {
		return nil, err
	}
	return g, nil
}

// PlayMoves plays each 1-based column digit in turn. Columns past 9 use
// the letters A-G. Whitespace is ignored.
func (g *Game) PlayMoves(moves string) error {
	for i, ch := range moves {
		if ch == ' ' || ch == '\t' || ch == '\n' {
			continue
		}
		col := strings.IndexRune("123456789ABCDEFG", toUpper(ch))
		if col < 0 {
			return fmt.Errorf("%w: %q at %d", ErrNotation, ch, i)
		}
		if err := g.Play(col); err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
	}
	return nil
}

// FormatMoves renders columns as 1-based digits, the inverse of PlayMoves.
func FormatMoves(cols []int) string {
	var sb strings.Builder
	for _, c := range cols {
		sb.WriteString(columnLabel(c))
	}
	return sb.String()
}

// FromRows builds a board from rows written top row first using 'X', 'O'
// and '.'. Every row must have the same length and no token may float
// above an empty cell.
func FromRows(rows ...string) (*Board, error) {
	if len(rows) == 0 {
		return nil, ErrBoardSize
	}
	width := len(rows[0])
	b, err := NewBoard(width, len(rows))
	if err != nil {
		return nil, err
	}
	for c := 0; c < width; c++ {
		gap := false
		for i := len(rows) - 1; i >= 0; i-- {
			if len(rows[i]) != width {
				return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBoardSize, i, len(rows[i]), width)
			}
			var m Mark
			switch rows[i][c] {
			case 'X', 'x':
				m = X
			case 'O', 'o':
				m = O
			case '.', ' ', '-':
				gap = true
				continue
			default:
				return nil, fmt.Errorf("%w: %q", ErrNotation, rows[i][c])
			}
			if gap {
				return nil, fmt.Errorf("%w: column %d", ErrFloatingToken, c+1)
			}
			b.Apply(c, m)
		}
	}
	return b, nil
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}
