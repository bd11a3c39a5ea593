package bot

// Bound classifies a stored score relative to the window it was searched with.
type Bound uint8

const (
	BoundExact Bound = iota + 1
	BoundLower
	BoundUpper
)

func (b Bound) String() string {
	switch b {
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lower"
	case BoundUpper:
		return "upper"
	default:
		return "none"
	}
}

// TTEntry is one transposition table slot.
type TTEntry struct {
	Key   uint64
	Score int32
	Depth int16
	Bound Bound
	Move  int8
}

// DefaultTTSize is the slot count used when a config leaves it at zero.
const DefaultTTSize = 1 << 18

// TranspositionTable is a fixed-size, power-of-two table indexed by the low
// bits of the Zobrist key. The full key is compared on probe.
type TranspositionTable struct {
	entries []TTEntry
	mask    uint64
	stored  int
}

// NewTranspositionTable allocates a table with at least size slots.
func NewTranspositionTable(size int) *TranspositionTable {
	if size <= 0 {
		size = DefaultTTSize
	}
	n := 1
	for n < size {
		n <<= 1
	}
	return &TranspositionTable{entries: make([]TTEntry, n), mask: uint64(n - 1)}
}

// Lookup returns the entry for key if it was searched at least depth deep.
func (t *TranspositionTable) Lookup(key uint64, depth int) (TTEntry, bool) {
	e := &t.entries[key&t.mask]
	if e.Bound == 0 || e.Key != key || int(e.Depth) < depth {
		return TTEntry{}, false
	}
	return *e, true
}

// Store records a result. A slot keeps the deeper of the old and new entry.
func (t *TranspositionTable) Store(key uint64, depth, score int, bound Bound, move int) {
	e := &t.entries[key&t.mask]
	if e.Bound != 0 && int(e.Depth) > depth {
		return
	}
	if e.Bound == 0 {
		t.stored++
	}
	*e = TTEntry{Key: key, Score: int32(score), Depth: int16(depth), Bound: bound, Move: int8(move)}
}

// Clear empties the table.
func (t *TranspositionTable) Clear() {
	clear(t.entries)
	t.stored = 0
}

// Len returns the number of occupied slots.
func (t *TranspositionTable) Len() int { return t.stored }

// classifyBound returns the bound kind for score given the window searched.
func classifyBound(score, alpha, beta int) Bound {
	switch {
	case score <= alpha:
		return BoundUpper
	case score >= beta:
		return BoundLower
	default:
		return BoundExact
	}
}
