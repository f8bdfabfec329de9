// Package scheduler wires up the recurring triggers that keep precomputed
// rankings fresh: a daily full-population recommendation recompute and a
// daily vetting sweep, offset from each other. Each tick only enqueues work;
// computation happens on the worker pool.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Triggers is the slice of the orchestrator the scheduler needs.
type Triggers interface {
	TriggerFullRecompute(ctx context.Context, batchSize int) error
	TriggerVettingSweep(ctx context.Context) error
}

// Config holds the cron specs for the recurring jobs.
type Config struct {
	// RecomputeSpec fires the full-population recommendation recompute.
	RecomputeSpec string
	// VettingSpec fires the vetting sweep, offset from RecomputeSpec so the
	// two population scans do not overlap.
	VettingSpec string
}

// Scheduler wraps robfig/cron and manages the recurring enqueue jobs.
type Scheduler struct {
	cron    *cron.Cron
	trig    Triggers
	cfg     Config
	logger  *zap.Logger
	entries map[string]cron.EntryID
}

// New creates a Scheduler over the given triggers.
func New(trig Triggers, cfg Config, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		trig:    trig,
		cfg:     cfg,
		logger:  logger.Named("scheduler"),
		entries: make(map[string]cron.EntryID),
	}
}

// Start registers the recurring jobs and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.register("full_recompute", s.cfg.RecomputeSpec, func() {
		if err := s.trig.TriggerFullRecompute(ctx, 0); err != nil {
			s.logger.Error("enqueue full recompute failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	if err := s.register("vetting_sweep", s.cfg.VettingSpec, func() {
		if err := s.trig.TriggerVettingSweep(ctx); err != nil {
			s.logger.Error("enqueue vetting sweep failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron started",
		zap.String("recompute_spec", s.cfg.RecomputeSpec),
		zap.String("vetting_spec", s.cfg.VettingSpec),
	)
	return nil
}

// register removes any previous entry under name before adding the new one,
// so repeated registration never yields duplicate schedules.
func (s *Scheduler) register(name, spec string, fn func()) error {
	if id, ok := s.entries[name]; ok {
		s.cron.Remove(id)
		delete(s.entries, name)
	}
	id, err := s.cron.AddFunc(spec, fn)
	if err != nil {
		return err
	}
	s.entries[name] = id
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("cron stopped")
}
