package bot

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

const infinity = 1 << 30

// SearchConfig parameterizes the negamax core. Every alpha-beta preset is
// one of these rather than a separate type.
type SearchConfig struct {
	Name string

	// MaxDepth caps iterative deepening. 0 skips the search entirely.
	MaxDepth int
	// TimeBudget bounds one decision. 0 means no deadline.
	TimeBudget time.Duration

	UseTT    bool
	TTSize   int
	Ordering OrderPolicy
	Weights  EvalWeights

	// FastPaths takes an immediate win, else blocks one, before searching.
	FastPaths bool
	// UseBook consults the embedded opening book after the fast paths.
	UseBook bool

	Seed int64
}

// SearchResult describes one decision.
type SearchResult struct {
	Move    int
	Score   int
	Depth   int // deepest completed iteration
	Nodes   int
	Elapsed time.Duration
	Source  string // "win", "block", "book", "search" or "fallback"
}

// SearchStrategy runs iterative-deepening negamax with alpha-beta pruning.
// An instance owns its board buffer, tables and random source and must
// not be shared between concurrent games.
type SearchStrategy struct {
	cfg     SearchConfig
	eval    *Evaluator
	orderer *moveOrderer
	tt      *TranspositionTable
	rng     *rand.Rand

	board    *connect4.Board
	deadline time.Time
	aborted  bool
	nodes    int
}

// NewSearchStrategy builds a strategy from cfg.
func NewSearchStrategy(cfg SearchConfig) *SearchStrategy {
	if cfg.Name == "" {
		cfg.Name = "negamax"
	}
	if cfg.Weights == (EvalWeights{}) {
		cfg.Weights = DefaultWeights
	}
	s := &SearchStrategy{
		cfg:     cfg,
		eval:    NewEvaluator(cfg.Weights),
		orderer: newMoveOrderer(cfg.Ordering),
		rng:     newRng(cfg.Seed),
	}
	if cfg.UseTT {
		s.tt = NewTranspositionTable(cfg.TTSize)
	}
	return s
}

func (s *SearchStrategy) Name() string { return s.cfg.Name }

// Config returns the configuration the strategy was built with.
func (s *SearchStrategy) Config() SearchConfig { return s.cfg }

// ChooseMove returns the column to play for me. b is not modified.
func (s *SearchStrategy) ChooseMove(b *connect4.Board, me, opp connect4.Mark) int {
	return s.Search(b, me, opp).Move
}

// Search runs one full decision and reports how it was reached.
func (s *SearchStrategy) Search(b *connect4.Board, me, opp connect4.Mark) SearchResult {
	start := time.Now()
	res := SearchResult{Move: -1}
	if b.IsDraw() {
		return res
	}

	if s.cfg.FastPaths {
		if col := immediateWin(b, me); col >= 0 {
			return SearchResult{Move: col, Score: WinScore, Source: "win", Elapsed: time.Since(start)}
		}
		if col := immediateWin(b, opp); col >= 0 {
			return SearchResult{Move: col, Source: "block", Elapsed: time.Since(start)}
		}
	}
	if s.cfg.UseBook {
		if col, ok := LookupBook(b); ok && b.Playable(col) {
			return SearchResult{Move: col, Source: "book", Elapsed: time.Since(start)}
		}
	}

	s.begin(b, start)
	limit := min(s.cfg.MaxDepth, b.EmptyCells())
	for depth := 1; depth <= limit; depth++ {
		move, score, ok := s.searchRoot(depth, me, opp)
		if !ok {
			break
		}
		res.Move, res.Score, res.Depth = move, score, depth
		if score >= WinScore || score <= -WinScore {
			break
		}
	}
	res.Nodes = s.nodes
	res.Source = "search"

	if res.Move < 0 || !b.Playable(res.Move) {
		res.Move = centerWeightedColumn(b, s.rng)
		res.Source = "fallback"
	}
	res.Elapsed = time.Since(start)

	log.Debug().
		Str("strategy", s.cfg.Name).
		Int("move", res.Move).
		Int("score", res.Score).
		Int("depth", res.Depth).
		Int("nodes", res.Nodes).
		Str("source", res.Source).
		Dur("elapsed", res.Elapsed).
		Msg("Search complete")
	return res
}

// SearchDepth runs a single fixed-depth root search without fast paths,
// book or deadline. It returns -1 when the position has no legal move.
func (s *SearchStrategy) SearchDepth(b *connect4.Board, me, opp connect4.Mark, depth int) (move, score int) {
	if b.IsDraw() || depth < 1 {
		return -1, 0
	}
	s.begin(b, time.Time{})
	move, score, _ = s.searchRoot(depth, me, opp)
	return move, score
}

// Nodes returns the node count of the last decision.
func (s *SearchStrategy) Nodes() int { return s.nodes }

// begin resets per-decision state and copies b into the private buffer.
func (s *SearchStrategy) begin(b *connect4.Board, start time.Time) {
	if s.board == nil || s.board.Width() != b.Width() || s.board.Rows() != b.Rows() {
		s.board = b.Clone()
	} else {
		s.board.CopyFrom(b)
	}
	s.orderer.reset()
	if s.tt != nil {
		s.tt.Clear()
	}
	s.nodes = 0
	s.aborted = false
	s.deadline = time.Time{}
	if s.cfg.TimeBudget > 0 && !start.IsZero() {
		s.deadline = start.Add(s.cfg.TimeBudget)
	}
}

func (s *SearchStrategy) expired() bool {
	if s.aborted {
		return true
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		s.aborted = true
	}
	return s.aborted
}

// searchRoot searches every root move at depth. Moves whose value equals
// the best are resolved toward the center so the choice does not depend
// on move order. ok is false when the deadline interrupted the iteration.
func (s *SearchStrategy) searchRoot(depth int, me, opp connect4.Mark) (move, score int, ok bool) {
	b := s.board
	best, bestMove := -infinity, -1
	center := b.Center()
	for _, col := range s.orderer.order(b, me, opp, 0) {
		if s.expired() {
			return 0, 0, false
		}
		filled, _ := b.Apply(col, me)
		var v int
		if b.IsWinningMove(col) {
			v = WinScore + depth
		} else {
			// alpha one below best keeps equal scores exact for the tie-break.
			alpha := -infinity
			if best > -infinity {
				alpha = best - 1
			}
			v = -s.negamax(depth-1, -infinity, -alpha, opp, me, 1)
		}
		b.Undo(col, filled, me)
		if s.aborted {
			return 0, 0, false
		}
		if v > best || (v == best && closerToCenter(col, bestMove, center)) {
			best, bestMove = v, col
		}
	}
	return bestMove, best, bestMove >= 0
}

// negamax returns the score of s.board for me, fail-soft within
// [alpha, beta]. On timeout it returns 0 and sets s.aborted.
func (s *SearchStrategy) negamax(depth, alpha, beta int, me, opp connect4.Mark, ply int) int {
	s.nodes++
	if s.expired() {
		return 0
	}
	b := s.board
	key := b.Hash()

	if s.tt != nil {
		if e, ok := s.tt.Lookup(key, depth); ok {
			score := int(e.Score)
			switch e.Bound {
			case BoundExact:
				return score
			case BoundLower:
				alpha = max(alpha, score)
			case BoundUpper:
				beta = min(beta, score)
			}
			if alpha >= beta {
				return score
			}
		}
	}

	if depth == 0 || b.IsDraw() {
		return s.eval.Evaluate(b, me)
	}

	alphaOrig := alpha
	best, bestMove := -infinity, -1
	for _, col := range s.orderer.order(b, me, opp, ply) {
		filled, _ := b.Apply(col, me)
		var v int
		if b.IsWinningMove(col) {
			v = WinScore + depth
		} else {
			v = -s.negamax(depth-1, -beta, -alpha, opp, me, ply+1)
		}
		b.Undo(col, filled, me)
		if s.aborted {
			return 0
		}
		if v > best {
			best, bestMove = v, col
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			s.orderer.recordCutoff(me, col, depth, ply)
			break
		}
	}

	if s.tt != nil {
		s.tt.Store(key, depth, best, classifyBound(best, alphaOrig, beta), bestMove)
	}
	return best
}

// immediateWin returns the lowest column where mark wins at once, or -1.
func immediateWin(b *connect4.Board, mark connect4.Mark) int {
	for c := 0; c < b.Width(); c++ {
		if b.Playable(c) && b.WouldWin(c, mark) {
			return c
		}
	}
	return -1
}
