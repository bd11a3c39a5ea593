package bot

import (
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

// DefaultExploration is the UCB1 exploration constant.
const DefaultExploration = 1.41

// defaultIterations applies when a config sets neither budget.
const defaultIterations = 1000

// MCTSConfig parameterizes the Monte Carlo tree search core.
type MCTSConfig struct {
	Name string

	// Iterations caps simulations per decision. 0 means no cap.
	Iterations int
	// TimeBudget bounds one decision. 0 means no deadline.
	TimeBudget  time.Duration
	Exploration float64

	// FastPaths takes an immediate win, else blocks one, before searching.
	FastPaths bool
	// LightRollouts makes playouts take an immediate win when one exists.
	LightRollouts bool

	Seed int64
}

// mctsNode is one arena slot. parent and children are arena indices.
type mctsNode struct {
	board    *connect4.Board
	parent   int32
	move     int8
	mover    connect4.Mark // player whose move led here
	children []int32
	untried  []int
	visits   int
	score    float64
	terminal bool
	winner   connect4.Mark
}

// MCTSStrategy chooses moves with UCB1 tree search and random playouts.
// The node arena is rebuilt on every decision.
type MCTSStrategy struct {
	cfg     MCTSConfig
	rng     *rand.Rand
	nodes   []mctsNode
	scratch *connect4.Board
	sims    int
}

// NewMCTSStrategy builds a strategy from cfg.
func NewMCTSStrategy(cfg MCTSConfig) *MCTSStrategy {
	if cfg.Name == "" {
		cfg.Name = "mcts"
	}
	if cfg.Exploration == 0 {
		cfg.Exploration = DefaultExploration
	}
	if cfg.Iterations == 0 && cfg.TimeBudget == 0 {
		cfg.Iterations = defaultIterations
	}
	return &MCTSStrategy{cfg: cfg, rng: newRng(cfg.Seed)}
}

func (m *MCTSStrategy) Name() string { return m.cfg.Name }

// Simulations returns the number of playouts run by the last decision.
func (m *MCTSStrategy) Simulations() int { return m.sims }

// ChooseMove returns the column to play for me. b is not modified.
func (m *MCTSStrategy) ChooseMove(b *connect4.Board, me, opp connect4.Mark) int {
	if b.IsDraw() {
		return -1
	}
	if m.cfg.FastPaths {
		if col := immediateWin(b, me); col >= 0 {
			return col
		}
		if col := immediateWin(b, opp); col >= 0 {
			return col
		}
	}

	start := time.Now()
	var deadline time.Time
	if m.cfg.TimeBudget > 0 {
		deadline = start.Add(m.cfg.TimeBudget)
	}

	m.nodes = m.nodes[:0]
	m.sims = 0
	m.newNode(b.Clone(), -1, -1, opp)
	if m.scratch == nil || m.scratch.Width() != b.Width() || m.scratch.Rows() != b.Rows() {
		m.scratch = b.Clone()
	}

	for {
		if m.cfg.Iterations > 0 && m.sims >= m.cfg.Iterations {
			break
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			break
		}
		leaf := m.selectLeaf(0)
		if !m.nodes[leaf].terminal && len(m.nodes[leaf].untried) > 0 {
			leaf = m.expand(leaf)
		}
		m.backpropagate(leaf, m.rollout(leaf))
		m.sims++
	}

	col := m.bestChild(b)
	log.Debug().
		Str("strategy", m.cfg.Name).
		Int("move", col).
		Int("simulations", m.sims).
		Int("nodes", len(m.nodes)).
		Dur("elapsed", time.Since(start)).
		Msg("MCTS complete")
	return col
}

func (m *MCTSStrategy) newNode(b *connect4.Board, parent int32, move int, mover connect4.Mark) int32 {
	n := mctsNode{board: b, parent: parent, move: int8(move), mover: mover}
	switch {
	case move >= 0 && b.IsWinningMove(move):
		n.terminal, n.winner = true, mover
	case b.IsDraw():
		n.terminal = true
	default:
		n.untried = b.PlayableColumns()
	}
	m.nodes = append(m.nodes, n)
	return int32(len(m.nodes) - 1)
}

// selectLeaf descends by UCB1 until a node has untried moves or is terminal.
func (m *MCTSStrategy) selectLeaf(idx int32) int32 {
	for {
		n := &m.nodes[idx]
		if n.terminal || len(n.untried) > 0 || len(n.children) == 0 {
			return idx
		}
		logN := math.Log(float64(n.visits))
		best, bestVal := n.children[0], math.Inf(-1)
		for _, ci := range n.children {
			c := &m.nodes[ci]
			v := c.score/float64(c.visits) + m.cfg.Exploration*math.Sqrt(logN/float64(c.visits))
			if v > bestVal {
				best, bestVal = ci, v
			}
		}
		idx = best
	}
}

// expand materializes one random untried move of idx as a new child.
func (m *MCTSStrategy) expand(idx int32) int32 {
	n := &m.nodes[idx]
	k := m.rng.Intn(len(n.untried))
	col := n.untried[k]
	n.untried[k] = n.untried[len(n.untried)-1]
	n.untried = n.untried[:len(n.untried)-1]

	mover := n.mover.Opponent()
	child := n.board.Clone()
	child.Apply(col, mover)
	ci := m.newNode(child, idx, col, mover)
	// newNode may have grown the arena; re-take the parent.
	m.nodes[idx].children = append(m.nodes[idx].children, ci)
	return ci
}

// rollout plays random moves from idx to the end and returns the winner,
// Empty for a draw.
func (m *MCTSStrategy) rollout(idx int32) connect4.Mark {
	n := &m.nodes[idx]
	if n.terminal {
		return n.winner
	}
	b := m.scratch
	b.CopyFrom(n.board)
	turn := n.mover.Opponent()
	for !b.IsDraw() {
		col := -1
		if m.cfg.LightRollouts {
			col = immediateWin(b, turn)
		}
		if col < 0 {
			col = randomColumn(b, m.rng)
		}
		b.Apply(col, turn)
		if b.IsWinningMove(col) {
			return turn
		}
		turn = turn.Opponent()
	}
	return connect4.Empty
}

// backpropagate credits winner along the path from idx to the root. Each
// node scores from the point of view of the player who moved into it.
func (m *MCTSStrategy) backpropagate(idx int32, winner connect4.Mark) {
	for idx >= 0 {
		n := &m.nodes[idx]
		n.visits++
		switch winner {
		case connect4.Empty:
		case n.mover:
			n.score++
		default:
			n.score--
		}
		idx = n.parent
	}
}

// bestChild returns the most visited root move, falling back to a
// center-weighted random column of b when nothing was simulated.
func (m *MCTSStrategy) bestChild(b *connect4.Board) int {
	root := &m.nodes[0]
	if m.sims > 0 && len(root.children) > 0 {
		ci := lo.MaxBy(root.children, func(a, best int32) bool {
			return m.nodes[a].visits > m.nodes[best].visits
		})
		if col := int(m.nodes[ci].move); b.Playable(col) {
			return col
		}
	}
	return centerWeightedColumn(b, m.rng)
}
