// Package connect4 implements the vertical-drop four-in-a-row board: legal
// moves, reversible apply/undo, win and draw detection, Zobrist hashing and
// a small game driver.
package connect4

import (
	"strings"
)

// Standard board dimensions.
const (
	DefaultWidth  = 7
	DefaultHeight = 6

	// MaxWidth and MaxHeight bound the Zobrist key table.
	MaxWidth  = 16
	MaxHeight = 16

	// ConnectN is the run length that wins.
	ConnectN = 4
)

// Mark is the content of a cell.
type Mark int8

const (
	Empty Mark = iota
	X
	O
)

// Opponent returns the other player's mark. Empty maps to Empty.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return "."
	}
}

// ParseMark converts "X"/"O" (any case) to a Mark.
func ParseMark(s string) (Mark, bool) {
	switch strings.ToUpper(s) {
	case "X":
		return X, true
	case "O":
		return O, true
	}
	return Empty, false
}

// axes are the four line directions checked for a run; each is walked both ways.
var axes = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// Board is a width x height grid filled bottom-up per column.
//
// Cells are stored column-major: cells[col*height+row], row 0 at the bottom.
// The playable set, column heights and hash are kept in step with the cells
// by Apply and Undo; nothing else mutates a board.
type Board struct {
	width    int
	height   int
	cells    []Mark
	heights  []int
	playable uint32
	hash     uint64
	count    int
}

// New returns an empty standard 7x6 board.
func New() *Board {
	b, _ := NewBoard(DefaultWidth, DefaultHeight)
	return b
}

// NewBoard returns an empty board of the given size.
func NewBoard(width, height int) (*Board, error) {
	if width < 1 || width > MaxWidth || height < 1 || height > MaxHeight {
		return nil, ErrBoardSize
	}
	return &Board{
		width:    width,
		height:   height,
		cells:    make([]Mark, width*height),
		heights:  make([]int, width),
		playable: uint32(1)<<width - 1,
	}, nil
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.height }

// Center returns the index of the middle column (left-middle for even widths).
func (b *Board) Center() int { return (b.width - 1) / 2 }

// At returns the mark at (col, row). Out-of-range cells read as Empty.
func (b *Board) At(col, row int) Mark {
	if col < 0 || col >= b.width || row < 0 || row >= b.height {
		return Empty
	}
	return b.cells[col*b.height+row]
}

// Height returns the number of tokens in col.
func (b *Board) Height(col int) int { return b.heights[col] }

// Playable reports whether a token can be dropped into col.
func (b *Board) Playable(col int) bool {
	return col >= 0 && col < b.width && b.playable&(1<<col) != 0
}

// PlayableColumns returns the playable columns in ascending order.
func (b *Board) PlayableColumns() []int {
	return b.AppendPlayable(make([]int, 0, b.width))
}

// AppendPlayable appends the playable columns to dst in ascending order.
func (b *Board) AppendPlayable(dst []int) []int {
	for c := 0; c < b.width; c++ {
		if b.playable&(1<<c) != 0 {
			dst = append(dst, c)
		}
	}
	return dst
}

// PlayableCount returns the number of non-full columns.
func (b *Board) PlayableCount() int {
	n := 0
	for p := b.playable; p != 0; p &= p - 1 {
		n++
	}
	return n
}

// Hash returns the Zobrist key of the position.
func (b *Board) Hash() uint64 { return b.hash }

// MoveCount returns the number of tokens on the board.
func (b *Board) MoveCount() int { return b.count }

// EmptyCells returns the number of free cells.
func (b *Board) EmptyCells() int { return b.width*b.height - b.count }

// IsDraw reports whether no column is playable.
func (b *Board) IsDraw() bool { return b.playable == 0 }

// CheckMove returns why dropping into col is illegal, or nil.
func (b *Board) CheckMove(col int) error {
	if col < 0 || col >= b.width {
		return ErrColumnOutOfRange
	}
	if b.playable&(1<<col) == 0 {
		return ErrColumnFull
	}
	return nil
}

// Apply drops mark into col. filled reports that the column became full and
// must be handed back to Undo. ok is false, with the board untouched, when
// the column is out of range or already full, or mark is not a player.
func (b *Board) Apply(col int, mark Mark) (filled, ok bool) {
	if col < 0 || col >= b.width || b.playable&(1<<col) == 0 || (mark != X && mark != O) {
		return false, false
	}
	row := b.heights[col]
	b.cells[col*b.height+row] = mark
	b.heights[col] = row + 1
	b.hash ^= zobristKey(col, row, mark)
	b.count++
	if row+1 == b.height {
		b.playable &^= 1 << col
		filled = true
	}
	return filled, true
}

// Undo reverses the most recent Apply on col. Calls must be strictly LIFO
// relative to Apply; this is not checked.
func (b *Board) Undo(col int, filled bool, mark Mark) {
	row := b.heights[col] - 1
	b.cells[col*b.height+row] = Empty
	b.heights[col] = row
	b.hash ^= zobristKey(col, row, mark)
	b.count--
	if filled {
		b.playable |= 1 << col
	}
}

// IsWinningMove reports whether the top token of col completes a run of
// ConnectN. It only walks outward from that token.
func (b *Board) IsWinningMove(col int) bool {
	if col < 0 || col >= b.width {
		return false
	}
	row := b.heights[col] - 1
	if row < 0 {
		return false
	}
	mark := b.cells[col*b.height+row]
	for _, ax := range axes {
		n := 1 + b.run(col, row, ax[0], ax[1], mark) + b.run(col, row, -ax[0], -ax[1], mark)
		if n >= ConnectN {
			return true
		}
	}
	return false
}

// run counts consecutive cells equal to mark from (col,row) exclusive.
func (b *Board) run(col, row, dc, dr int, mark Mark) int {
	n := 0
	c, r := col+dc, row+dr
	for c >= 0 && c < b.width && r >= 0 && r < b.height && b.cells[c*b.height+r] == mark {
		n++
		c += dc
		r += dr
	}
	return n
}

// WouldWin reports whether dropping mark into col wins. The board is left unchanged.
func (b *Board) WouldWin(col int, mark Mark) bool {
	filled, ok := b.Apply(col, mark)
	if !ok {
		return false
	}
	win := b.IsWinningMove(col)
	b.Undo(col, filled, mark)
	return win
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	nb := *b
	nb.cells = append([]Mark(nil), b.cells...)
	nb.heights = append([]int(nil), b.heights...)
	return &nb
}

// CopyFrom overwrites b with src. Both boards must have the same size.
func (b *Board) CopyFrom(src *Board) {
	copy(b.cells, src.cells)
	copy(b.heights, src.heights)
	b.playable = src.playable
	b.hash = src.hash
	b.count = src.count
}

// Equal reports whether both boards have the same size and cells.
func (b *Board) Equal(o *Board) bool {
	if b.width != o.width || b.height != o.height {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Mirror returns the board reflected left to right.
func (b *Board) Mirror() *Board {
	m, _ := NewBoard(b.width, b.height)
	for c := 0; c < b.width; c++ {
		for r := 0; r < b.heights[c]; r++ {
			m.Apply(b.width-1-c, b.cells[c*b.height+r])
		}
	}
	return m
}

// Key returns a canonical text form of the position: one bottom-up stack
// per column separated by "/", e.g. "//XO/X///" on 7 columns.
func (b *Board) Key() string {
	var sb strings.Builder
	sb.Grow(b.count + b.width)
	for c := 0; c < b.width; c++ {
		if c > 0 {
			sb.WriteByte('/')
		}
		for r := 0; r < b.heights[c]; r++ {
			sb.WriteString(b.cells[c*b.height+r].String())
		}
	}
	return sb.String()
}

// ToMove infers whose turn it is assuming X moved first.
func (b *Board) ToMove() Mark {
	if b.count%2 == 0 {
		return X
	}
	return O
}

// String renders the grid top row first with 1-based column labels.
func (b *Board) String() string {
	var sb strings.Builder
	for r := b.height - 1; r >= 0; r-- {
		sb.WriteByte('|')
		for c := 0; c < b.width; c++ {
			sb.WriteString(b.cells[c*b.height+r].String())
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte(' ')
	for c := 0; c < b.width; c++ {
		sb.WriteString(columnLabel(c))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	return sb.String()
}

func columnLabel(c int) string {
	const labels = "123456789ABCDEFG"
	return labels[c : c+1]
}

// Grid returns the grid as strings, top row first, using "X", "O" and ".".
func (b *Board) Grid() []string {
	rows := make([]string, 0, b.height)
	for r := b.height - 1; r >= 0; r-- {
		var sb strings.Builder
		for c := 0; c < b.width; c++ {
			sb.WriteString(b.cells[c*b.height+r].String())
		}
		rows = append(rows, sb.String())
	}
	return rows
}
