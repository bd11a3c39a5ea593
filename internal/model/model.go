// Package model holds the records persisted for bot matches.
package model

import "time"

// Match is one series between two strategies.
type Match struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	A         string    `json:"a"`
	B         string    `json:"b"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Games     int       `json:"games"`
	WinsA     int       `json:"wins_a"`
	WinsB     int       `json:"wins_b"`
	Draws     int       `json:"draws"`
	Forfeits  int       `json:"forfeits"`
	ElapsedMs int64     `json:"elapsed_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// MatchGame is one finished game of a match.
type MatchGame struct {
	MatchID    string `json:"match_id"`
	Seq        int    `json:"seq"` // 1-based order within the match
	Name       string `json:"name"`
	First      string `json:"first"`
	Second     string `json:"second"`
	Winner     string `json:"winner,omitempty"` // strategy name, empty for a draw
	Mark       string `json:"mark,omitempty"`
	Moves      string `json:"moves"`
	Forfeit    bool   `json:"forfeit"`
	Reason     string `json:"reason,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}
