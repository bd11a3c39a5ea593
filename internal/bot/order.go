package bot

import "github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"

// OrderPolicy selects which heuristics rank moves. Columns are always
// compared tier by tier: immediate win, block, killer, history, center.
type OrderPolicy struct {
	Wins    bool
	Blocks  bool
	Killers bool
	History bool
	Center  bool
}

var (
	// FullOrdering enables every heuristic.
	FullOrdering = OrderPolicy{Wins: true, Blocks: true, Killers: true, History: true, Center: true}
	// CenterOrdering sorts by distance to the center only.
	CenterOrdering = OrderPolicy{Center: true}
	// CenterHistoryOrdering adds cutoff history to center sorting.
	CenterHistoryOrdering = OrderPolicy{History: true, Center: true}
)

// maxPly bounds killer slots; deeper plies just skip killers.
const maxPly = connect4.MaxWidth * connect4.MaxHeight

const (
	tierWin = 4 - iota
	tierBlock
	tierKiller1
	tierKiller2
	tierNone = 0
)

// moveOrderer owns the killer and history tables of one search instance.
type moveOrderer struct {
	policy  OrderPolicy
	killers [maxPly][2]int
	history [2][connect4.MaxWidth]int
	bufs    [maxPly + 1][connect4.MaxWidth]int
	tiers   [connect4.MaxWidth]int
}

func newMoveOrderer(p OrderPolicy) *moveOrderer {
	o := &moveOrderer{policy: p}
	o.reset()
	return o
}

// reset clears killers and history at the start of a decision.
func (o *moveOrderer) reset() {
	for i := range o.killers {
		o.killers[i] = [2]int{-1, -1}
	}
	o.history = [2][connect4.MaxWidth]int{}
}

// order returns the playable columns best first. The returned slice is
// owned by the orderer and valid until the next call at the same ply.
func (o *moveOrderer) order(b *connect4.Board, me, opp connect4.Mark, ply int) []int {
	buf := o.bufs[min(ply, maxPly)][:0]
	buf = b.AppendPlayable(buf)
	center := b.Center()
	hist := &o.history[me-1]

	for _, c := range buf {
		tier := tierNone
		switch {
		case o.policy.Wins && b.WouldWin(c, me):
			tier = tierWin
		case o.policy.Blocks && b.WouldWin(c, opp):
			tier = tierBlock
		case o.policy.Killers && ply < maxPly && o.killers[ply][0] == c:
			tier = tierKiller1
		case o.policy.Killers && ply < maxPly && o.killers[ply][1] == c:
			tier = tierKiller2
		}
		o.tiers[c] = tier
	}

	// Insertion sort: at most MaxWidth entries.
	for i := 1; i < len(buf); i++ {
		for j := i; j > 0 && o.before(buf[j], buf[j-1], hist, center); j-- {
			buf[j], buf[j-1] = buf[j-1], buf[j]
		}
	}
	return buf
}

// before reports whether column a should be searched ahead of b.
func (o *moveOrderer) before(a, b int, hist *[connect4.MaxWidth]int, center int) bool {
	if o.tiers[a] != o.tiers[b] {
		return o.tiers[a] > o.tiers[b]
	}
	if o.policy.History && hist[a] != hist[b] {
		return hist[a] > hist[b]
	}
	if o.policy.Center {
		da, db := abs(a-center), abs(b-center)
		if da != db {
			return da < db
		}
	}
	return a < b
}

// recordCutoff stores col as a killer at ply and credits its history.
func (o *moveOrderer) recordCutoff(me connect4.Mark, col, depth, ply int) {
	if o.policy.Killers && ply < maxPly && o.killers[ply][0] != col {
		o.killers[ply][1] = o.killers[ply][0]
		o.killers[ply][0] = col
	}
	if o.policy.History {
		o.history[me-1][col] += depth * depth
	}
}

// closerToCenter is the canonical tie-break between equally scored moves.
func closerToCenter(a, b, center int) bool {
	da, db := abs(a-center), abs(b-center)
	if da != db {
		return da < db
	}
	return a < b
}
