// jobstack matching service
//
// Matching and vetting scoring subsystem of the Jobstack backend:
//   - ranks open job postings against candidate profiles (recommendations)
//   - ranks and highlights applicants for employer review (vetting)
//   - keeps both rankings precomputed in Redis via a cron-fed work queue
//
// The rest of the application consumes this process through the cached
// rankings it maintains and the queue triggers it handles.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/cache"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/config"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/db"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/logger"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/match"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/notify"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/orchestrator"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/queue"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/recommend"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/scheduler"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/store"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/vetting"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zlog, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("postgres connect failed", zap.Error(err))
	}
	defer pool.Close()
	zlog.Info("postgres connected")

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		zlog.Fatal("redis connect failed", zap.Error(err))
	}
	defer rdb.Close()
	zlog.Info("redis connected")

	st := store.New(pool)
	tables := match.Default()
	notifier := notify.New(rdb)

	recommender := recommend.NewEngine(st, st, st, tables, zlog)
	vetter := vetting.NewEngine(st, st, st, notifier, tables, vetting.Config{
		DefaultHighlightCount: cfg.DefaultHighlightCount,
		Speed: vetting.SpeedConfig{
			MaxHoursForFullScore: cfg.SpeedFullScoreHours,
			DecayPerHour:         cfg.SpeedDecayPerHour,
		},
	}, zlog)

	tasks := queue.New(rdb, zlog)
	orch := orchestrator.New(recommender, vetter, st, cache.NewRedis(rdb), tasks, orchestrator.Config{
		CacheTTL:         time.Duration(cfg.CacheTTLHours) * time.Hour,
		DefaultBatchSize: cfg.RecomputeBatchSize,
	}, zlog).WithNotifier(notifier)

	workers := queue.NewWorkers(tasks, cfg.WorkerCount, zlog)
	orch.RegisterHandlers(workers)
	workers.Start(ctx)

	sched := scheduler.New(orch, scheduler.Config{
		RecomputeSpec: cfg.RecomputeCron,
		VettingSpec:   cfg.VettingCron,
	}, zlog)
	if err := sched.Start(ctx); err != nil {
		zlog.Fatal("scheduler start failed", zap.Error(err))
	}

	zlog.Info("matching service up",
		zap.Int("workers", cfg.WorkerCount),
		zap.Int("cache_ttl_hours", cfg.CacheTTLHours),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	sched.Stop()
	cancel()
	workers.Wait()
	zlog.Info("stopped")
}
