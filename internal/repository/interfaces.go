package repository

import (
	"context"
	"time"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/model"
)

// MoveCache stores computed replies keyed by strategy and position so
// repeated positions skip the search.
type MoveCache interface {
	// GetMove returns the cached column. found is false on a miss.
	GetMove(ctx context.Context, strategy, position string) (col int, found bool, err error)
	SetMove(ctx context.Context, strategy, position string, col int, ttl time.Duration) error
}

// ResultStore persists bot match results.
type ResultStore interface {
	// SaveMatch stores m and its games and returns the new match id.
	SaveMatch(ctx context.Context, m *model.Match, games []model.MatchGame) (string, error)
	RecentMatches(ctx context.Context, limit int) ([]model.Match, error)
	// MatchGames returns the games of a match in order, or nil when the
	// match does not exist.
	MatchGames(ctx context.Context, matchID string) ([]model.MatchGame, error)
}
