package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/bot"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/config"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/handler"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/logger"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/repository"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/repository/postgres"
	redisrepo "github.com/AngelFireLA/Puissance4-L1ST/internal/repository/redis"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine
	logger.Init()
	cfg := config.Load()

	bot.HardTimeBudget = cfg.BotTimeBudget
	bot.MCTSTimeBudget = cfg.BotTimeBudget
	bot.HardMaxDepth = cfg.BotMaxDepth
	bot.MCTSIterations = cfg.MCTSIterations
	bot.NeuralModelPath = cfg.NeuralModelPath
	bot.NeuralTemperature = cfg.NeuralTemperature
	log.Info().
		Dur("botTimeBudget", cfg.BotTimeBudget).
		Int("botMaxDepth", cfg.BotMaxDepth).
		Int("mctsIterations", cfg.MCTSIterations).
		Float64("neuralTemperature", cfg.NeuralTemperature).
		Bool("moveCache", cfg.RedisURL != "").
		Bool("matchStore", cfg.DatabaseURL != "").
		Msg("Config loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis move cache (optional)
	var cache repository.MoveCache
	if cfg.RedisURL != "" {
		redisClient, err := redisrepo.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, move cache disabled")
		} else {
			defer redisClient.Close()
			cache = redisClient
		}
	}

	// PostgreSQL match results (optional)
	var results repository.ResultStore
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("Database unavailable, match routes disabled")
		} else {
			defer db.Close()
			if err := postgres.Migrate(ctx, db); err != nil {
				log.Fatal().Err(err).Msg("Failed to migrate database")
			}
			results = postgres.NewMatchRepo(db)
		}
	}

	// WebSocket hub
	wsHub := handler.NewHub()

	// Router
	registry := handler.DefaultRegistry(cache, cfg.MoveCacheTTL)
	root, _ := handler.NewRouter(registry, wsHub, results, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     root,
		ReadTimeout: 15 * time.Second,
		// Bot moves can take the whole time budget.
		WriteTimeout: 15*time.Second + cfg.BotTimeBudget,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
