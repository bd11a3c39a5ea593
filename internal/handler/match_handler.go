package handler

import (
	"net/http"
	"strconv"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/logger"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/model"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/repository"
)

const maxMatchLimit = 200

// MatchHandler serves stored bot match results.
type MatchHandler struct {
	results repository.ResultStore
}

// NewMatchHandler creates a MatchHandler.
func NewMatchHandler(results repository.ResultStore) *MatchHandler {
	return &MatchHandler{results: results}
}

// List handles GET /api/v1/matches?limit=.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxMatchLimit)
	}
	matches, err := h.results.RecentMatches(r.Context(), limit)
	if err != nil {
		l := logger.ForRequest(r.Context())
		l.Error().Err(err).Msg("Failed to list matches")
		writeError(w, http.StatusInternalServerError, "failed to list matches")
		return
	}
	if matches == nil {
		matches = []model.Match{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}

// Games handles GET /api/v1/matches/{id}/games.
func (h *MatchHandler) Games(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	games, err := h.results.MatchGames(r.Context(), id)
	if err != nil {
		l := logger.ForRequest(r.Context())
		l.Error().Err(err).Str("matchId", id).Msg("Failed to list match games")
		writeError(w, http.StatusInternalServerError, "failed to list match games")
		return
	}
	if games == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"match_id": id, "games": games})
}
