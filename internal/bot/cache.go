package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/repository"
	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

// cacheTimeout bounds each cache round trip so a slow cache never costs
// more than a fraction of a move.
const cacheTimeout = 50 * time.Millisecond

// CachedStrategy consults a MoveCache before asking Inner, and stores what
// Inner returns. Cached columns are checked against the current board.
type CachedStrategy struct {
	Inner Strategy
	Cache repository.MoveCache
	TTL   time.Duration
}

func (s *CachedStrategy) Name() string { return s.Inner.Name() }

// PositionKey identifies a position for caching: the mark to move plus the
// board key.
func PositionKey(b *connect4.Board, me connect4.Mark) string {
	return me.String() + ":" + b.Key()
}

func (s *CachedStrategy) ChooseMove(b *connect4.Board, me, opp connect4.Mark) int {
	key := PositionKey(b, me)

	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	col, found, err := s.Cache.GetMove(ctx, s.Inner.Name(), key)
	cancel()
	if err != nil {
		log.Warn().Err(err).Str("strategy", s.Inner.Name()).Msg("Move cache lookup failed")
	}
	if found && b.Playable(col) {
		return col
	}

	col = s.Inner.ChooseMove(b, me, opp)
	if !b.Playable(col) {
		return col
	}
	ctx, cancel = context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	if err := s.Cache.SetMove(ctx, s.Inner.Name(), key, col, s.TTL); err != nil {
		log.Warn().Err(err).Str("strategy", s.Inner.Name()).Msg("Move cache store failed")
	}
	return col
}
