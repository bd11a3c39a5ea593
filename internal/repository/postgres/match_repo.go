package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/model"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/repository"
)

var _ repository.ResultStore = (*MatchRepo)(nil)

// MatchRepo handles match and match_games database operations.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// SaveMatch inserts a match and its games in one transaction.
func (r *MatchRepo) SaveMatch(ctx context.Context, m *model.Match, games []model.MatchGame) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO matches (label, strategy_a, strategy_b, width, height, games, wins_a, wins_b, draws, forfeits, elapsed_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`,
		m.Label, m.A, m.B, m.Width, m.Height, m.Games, m.WinsA, m.WinsB, m.Draws, m.Forfeits, m.ElapsedMs,
	).Scan(&id, &m.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert match: %w", err)
	}
	m.ID = strconv.FormatInt(id, 10)

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO match_games (match_id, seq, name, first_player, second_player, winner, mark, moves, forfeit, reason, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`)
	if err != nil {
		return "", fmt.Errorf("prepare game insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range games {
		if _, err := stmt.ExecContext(ctx, id, g.Seq, g.Name, g.First, g.Second, g.Winner, g.Mark, g.Moves, g.Forfeit, g.Reason, g.DurationMs); err != nil {
			return "", fmt.Errorf("insert game %d: %w", g.Seq, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return m.ID, nil
}

// RecentMatches returns the newest matches first.
func (r *MatchRepo) RecentMatches(ctx context.Context, limit int) ([]model.Match, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, label, strategy_a, strategy_b, width, height, games, wins_a, wins_b, draws, forfeits, elapsed_ms, created_at
		 FROM matches ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		var id int64
		if err := rows.Scan(&id, &m.Label, &m.A, &m.B, &m.Width, &m.Height, &m.Games, &m.WinsA, &m.WinsB, &m.Draws, &m.Forfeits, &m.ElapsedMs, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.ID = strconv.FormatInt(id, 10)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// MatchGames returns the games of a match ordered by seq. A match that does
// not exist yields nil, nil.
func (r *MatchRepo) MatchGames(ctx context.Context, matchID string) ([]model.MatchGame, error) {
	id, err := strconv.ParseInt(matchID, 10, 64)
	if err != nil {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, name, first_player, second_player, winner, mark, moves, forfeit, reason, duration_ms
		 FROM match_games WHERE match_id = $1 ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("list match games: %w", err)
	}
	defer rows.Close()

	var games []model.MatchGame
	for rows.Next() {
		g := model.MatchGame{MatchID: matchID}
		if err := rows.Scan(&g.Seq, &g.Name, &g.First, &g.Second, &g.Winner, &g.Mark, &g.Moves, &g.Forfeit, &g.Reason, &g.DurationMs); err != nil {
			return nil, fmt.Errorf("scan match game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
