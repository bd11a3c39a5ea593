package handler

import (
	"net/http"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/middleware"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/repository"
)

// NewRouter wires every route behind the shared middleware. The match
// routes are only mounted when results is non-nil.
func NewRouter(registry *Registry, hub *Hub, results repository.ResultStore, corsOrigins string) (http.Handler, *PlayHandler) {
	moves := NewMoveHandler(registry)
	play := NewPlayHandler(hub, registry)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", moves.Health)
	mux.HandleFunc("GET /api/v1/strategies", moves.Strategies)
	mux.HandleFunc("POST /api/v1/move", moves.Move)
	mux.HandleFunc("GET /api/v1/play", play.ServePlay)
	mux.HandleFunc("GET /api/v1/watch", play.ServeWatch)

	if results != nil {
		matches := NewMatchHandler(results)
		mux.HandleFunc("GET /api/v1/matches", matches.List)
		mux.HandleFunc("GET /api/v1/matches/{id}/games", matches.Games)
	}

	root := middleware.Chain(mux, middleware.Logger, middleware.Recover, middleware.CORS(corsOrigins), middleware.JSON)
	return root, play
}
