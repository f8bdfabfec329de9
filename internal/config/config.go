// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing or malformed, the process
// exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the matching service.
type Config struct {
	DatabaseURL string
	RedisURL    string

	WorkerCount        int    // goroutines draining the work queue
	RecomputeBatchSize int    // candidates per full-recompute batch
	CacheTTLHours      int    // lifetime of every cached ranking
	RecomputeCron      string // daily full-population recompute
	VettingCron        string // daily vetting sweep, offset from the above

	DefaultHighlightCount int     // highlights per job when custom screening is on
	SpeedFullScoreHours   float64 // grace window for the application-speed score
	SpeedDecayPerHour     float64 // linear penalty beyond the grace window

	LogJSON  bool
	LogDebug bool
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	cfg := &Config{
		DatabaseURL:           dbURL,
		RedisURL:              redisURL,
		WorkerCount:           4,
		RecomputeBatchSize:    50,
		CacheTTLHours:         24,
		RecomputeCron:         "0 2 * * *",
		VettingCron:           "0 4 * * *",
		DefaultHighlightCount: 3,
		SpeedFullScoreHours:   2,
		SpeedDecayPerHour:     2,
		LogJSON:               os.Getenv("LOG_JSON") == "true",
		LogDebug:              os.Getenv("LOG_DEBUG") == "true",
	}

	var err error
	if cfg.WorkerCount, err = intEnv("WORKER_COUNT", cfg.WorkerCount); err != nil {
		return nil, err
	}
	if cfg.RecomputeBatchSize, err = intEnv("RECOMPUTE_BATCH_SIZE", cfg.RecomputeBatchSize); err != nil {
		return nil, err
	}
	if cfg.CacheTTLHours, err = intEnv("CACHE_TTL_HOURS", cfg.CacheTTLHours); err != nil {
		return nil, err
	}
	if cfg.DefaultHighlightCount, err = intEnv("DEFAULT_HIGHLIGHT_COUNT", cfg.DefaultHighlightCount); err != nil {
		return nil, err
	}
	if cfg.SpeedFullScoreHours, err = floatEnv("SPEED_FULL_SCORE_HOURS", cfg.SpeedFullScoreHours); err != nil {
		return nil, err
	}
	if cfg.SpeedDecayPerHour, err = floatEnv("SPEED_DECAY_PER_HOUR", cfg.SpeedDecayPerHour); err != nil {
		return nil, err
	}

	if s := os.Getenv("RECOMPUTE_CRON"); s != "" {
		cfg.RecomputeCron = s
	}
	if s := os.Getenv("VETTING_CRON"); s != "" {
		cfg.VettingCron = s
	}

	return cfg, nil
}

func intEnv(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, s)
	}
	return v, nil
}

func floatEnv(name string, def float64) (float64, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number, got %q", name, s)
	}
	return v, nil
}
