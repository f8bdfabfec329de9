package config_test

import (
	"testing"

	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/match")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	if _, err := config.Load(); err == nil {
		t.Fatal("Load succeeded without DATABASE_URL")
	}
}

func TestLoad_RequiresRedisURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/match")
	t.Setenv("REDIS_URL", "")
	if _, err := config.Load(); err == nil {
		t.Fatal("Load succeeded without REDIS_URL")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("WorkerCount = %d, want 4", cfg.WorkerCount)
	}
	if cfg.RecomputeBatchSize != 50 {
		t.Errorf("RecomputeBatchSize = %d, want 50", cfg.RecomputeBatchSize)
	}
	if cfg.CacheTTLHours != 24 {
		t.Errorf("CacheTTLHours = %d, want 24", cfg.CacheTTLHours)
	}
	if cfg.RecomputeCron != "0 2 * * *" || cfg.VettingCron != "0 4 * * *" {
		t.Errorf("cron defaults = %q / %q", cfg.RecomputeCron, cfg.VettingCron)
	}
	if cfg.SpeedFullScoreHours != 2 || cfg.SpeedDecayPerHour != 2 {
		t.Errorf("speed defaults = %v / %v", cfg.SpeedFullScoreHours, cfg.SpeedDecayPerHour)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("SPEED_DECAY_PER_HOUR", "1.5")
	t.Setenv("VETTING_CRON", "30 4 * * *")
	t.Setenv("LOG_JSON", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WorkerCount != 8 {
		t.Errorf("WorkerCount = %d, want 8", cfg.WorkerCount)
	}
	if cfg.SpeedDecayPerHour != 1.5 {
		t.Errorf("SpeedDecayPerHour = %v, want 1.5", cfg.SpeedDecayPerHour)
	}
	if cfg.VettingCron != "30 4 * * *" {
		t.Errorf("VettingCron = %q", cfg.VettingCron)
	}
	if !cfg.LogJSON {
		t.Error("LogJSON not set")
	}
}

func TestLoad_RejectsMalformedNumbers(t *testing.T) {
	cases := []struct{ name, value string }{
		{"WORKER_COUNT", "zero"},
		{"WORKER_COUNT", "0"},
		{"RECOMPUTE_BATCH_SIZE", "-5"},
		{"SPEED_DECAY_PER_HOUR", "-1"},
	}
	for _, c := range cases {
		t.Run(c.name+"="+c.value, func(t *testing.T) {
			setRequired(t)
			t.Setenv(c.name, c.value)
			if _, err := config.Load(); err == nil {
				t.Errorf("Load accepted %s=%q", c.name, c.value)
			}
		})
	}
}
