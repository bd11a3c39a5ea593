package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/logger"
	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

// MoveRequest is the body of POST /api/v1/move. Moves are 1-based column
// digits played alternately from X, e.g. "4453".
type MoveRequest struct {
	Moves    string `json:"moves"`
	Strategy string `json:"strategy"`
}

// MoveResponse carries the 0-based column the strategy proposes.
type MoveResponse struct {
	Column    int    `json:"column"`
	Strategy  string `json:"strategy"`
	ToMove    string `json:"to_move"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// MoveHandler answers stateless move and strategy queries.
type MoveHandler struct {
	registry *Registry
}

// NewMoveHandler creates a MoveHandler.
func NewMoveHandler(registry *Registry) *MoveHandler {
	return &MoveHandler{registry: registry}
}

// Health handles GET /healthz.
func (h *MoveHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Strategies handles GET /api/v1/strategies.
func (h *MoveHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"strategies": h.registry.Infos(),
		"default":    h.registry.Default,
	})
}

// Move handles POST /api/v1/move.
func (h *MoveHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name, ok := h.registry.Resolve(req.Strategy)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown strategy %q", name))
		return
	}
	game, err := connect4.ParseMoves(req.Moves)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid position: "+err.Error())
		return
	}
	if game.Over() {
		writeError(w, http.StatusBadRequest, "invalid position: "+connect4.ErrGameOver.Error())
		return
	}

	start := time.Now()
	me := game.ToMove()
	s := h.registry.Build(name)
	col := s.ChooseMove(game.Board(), me, me.Opponent())
	elapsed := time.Since(start)

	l := logger.ForRequest(r.Context())
	if !game.Board().Playable(col) {
		l.Error().Str("strategy", name).Int("column", col).Str("moves", req.Moves).Msg("Strategy returned an illegal move")
		writeError(w, http.StatusInternalServerError, "strategy failed to move")
		return
	}
	l.Info().
		Str("strategy", name).
		Str("moves", req.Moves).
		Int("column", col).
		Dur("elapsed", elapsed).
		Msg("Move proposed")

	writeJSON(w, http.StatusOK, MoveResponse{
		Column:    col,
		Strategy:  name,
		ToMove:    me.String(),
		ElapsedMs: elapsed.Milliseconds(),
	})
}
