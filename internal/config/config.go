// Package config loads server and bot settings from the environment.
package config

import (
	"math"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        string
	DatabaseURL string // empty disables match persistence
	RedisURL    string // empty disables the move cache
	CORSOrigins string

	NeuralModelPath   string
	NeuralTemperature float64
	BotTimeBudget     time.Duration
	BotMaxDepth       int
	MCTSIterations    int
	MoveCacheTTL      time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:              envOrDefault("PORT", "8009"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		CORSOrigins:       envOrDefault("CORS_ORIGINS", "*"),
		NeuralModelPath:   envOrDefault("NEURAL_MODEL_PATH", "models/connect4_policy.onnx"),
		NeuralTemperature: envFloatOrDefault("NEURAL_TEMPERATURE", 0),
		BotTimeBudget:     envPositiveDurationOrDefault("BOT_TIME_BUDGET", time.Second),
		BotMaxDepth:       envIntOrDefault("BOT_MAX_DEPTH", 42),
		MCTSIterations:    envIntOrDefault("MCTS_ITERATIONS", 0),
		MoveCacheTTL:      envDurationOrDefault("MOVE_CACHE_TTL", 24*time.Hour),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Warn().Str("key", key).Str("value", v).Int("default", fallback).Msg("Invalid integer setting, using default")
		return fallback
	}
	return n
}

func envFloatOrDefault(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		log.Warn().Str("key", key).Str("value", v).Float64("default", fallback).Msg("Invalid number setting, using default")
		return fallback
	}
	return f
}

func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Warn().Str("key", key).Str("value", v).Dur("default", fallback).Msg("Invalid duration setting, using default")
		return fallback
	}
	return d
}

// envPositiveDurationOrDefault is envDurationOrDefault for settings where
// zero would remove a bound.
func envPositiveDurationOrDefault(key string, fallback time.Duration) time.Duration {
	d := envDurationOrDefault(key, fallback)
	if d == 0 {
		log.Warn().Str("key", key).Dur("default", fallback).Msg("Duration must be positive, using default")
		return fallback
	}
	return d
}
