// Package orchestrator fronts the two scoring engines with a precomputation
// layer: synchronous calls go through a read-through cache, while scheduled
// and on-demand recompute work is pushed onto the background queue so
// expensive rankings stay fresh without blocking request paths.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/cache"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/model"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/queue"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/recommend"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/store"
)

// Recommender is the recommendation engine as the orchestrator sees it.
type Recommender interface {
	Recommend(ctx context.Context, candidateID string, page, limit int) (model.RecommendationPage, error)
}

// Vetter is the vetting engine as the orchestrator sees it.
type Vetter interface {
	Vet(ctx context.Context, jobID, actor string) (model.VettingReport, error)
}

// PopulationLister enumerates the subjects of full-population background
// runs.
type PopulationLister interface {
	ListCandidateIDs(ctx context.Context) ([]string, error)
	JobsNeedingVetting(ctx context.Context) ([]string, error)
}

// Notifier delivers best-effort events; failures are logged and swallowed.
type Notifier interface {
	Notify(ctx context.Context, event string, payload any) error
}

// EventRecomputeCompleted is published after every full-population
// recommendation recompute.
const EventRecomputeCompleted = "recommendations.recomputed"

// Config tunes the orchestrator.
type Config struct {
	// CacheTTL is the fixed lifetime of every cached ranking.
	CacheTTL time.Duration
	// DefaultBatchSize bounds memory and database load during full-population
	// recomputes when the trigger does not specify a size.
	DefaultBatchSize int
	// WarmLimit is the page size precomputed for background single-candidate
	// recomputes.
	WarmLimit int
}

// Defaults applied to zero Config fields.
const (
	defaultCacheTTL  = 24 * time.Hour
	defaultBatchSize = 50
	defaultWarmLimit = 20
)

// actorSystem marks mutations performed by background vetting rather than a
// human reviewer.
const actorSystem = "system"

// Orchestrator ties the engines, the cache and the work queue together.
type Orchestrator struct {
	recommender Recommender
	vetter      Vetter
	population  PopulationLister
	cache       cache.Store
	tasks       queue.Enqueuer
	notifier    Notifier
	cfg         Config
	logger      *zap.Logger
}

// New wires an Orchestrator. Zero Config fields fall back to production
// defaults.
func New(recommender Recommender, vetter Vetter, population PopulationLister, cacheStore cache.Store, tasks queue.Enqueuer, cfg Config, logger *zap.Logger) *Orchestrator {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.DefaultBatchSize <= 0 {
		cfg.DefaultBatchSize = defaultBatchSize
	}
	if cfg.WarmLimit <= 0 {
		cfg.WarmLimit = defaultWarmLimit
	}
	return &Orchestrator{
		recommender: recommender,
		vetter:      vetter,
		population:  population,
		cache:       cacheStore,
		tasks:       tasks,
		cfg:         cfg,
		logger:      logger.Named("orchestrator"),
	}
}

// WithNotifier attaches a best-effort event publisher. Without one,
// completion events are simply not published.
func (o *Orchestrator) WithNotifier(n Notifier) *Orchestrator {
	o.notifier = n
	return o
}

// GetRecommendations returns one page of ranked jobs for the candidate.
// Cache hits are served as-is; a miss (or an explicit bypass) computes
// synchronously and refreshes the cache. Cache infrastructure failures
// degrade to a synchronous computation, never to a request error.
func (o *Orchestrator) GetRecommendations(ctx context.Context, candidateID string, page, limit int, bypassCache bool) (model.RecommendationPage, error) {
	page, limit = recommend.ClampPage(page, limit)
	key := cache.RecommendationKey(candidateID, page, limit)

	if !bypassCache {
		var cached model.RecommendationPage
		if o.cacheGet(ctx, key, &cached) {
			return cached, nil
		}
	}

	result, err := o.recommender.Recommend(ctx, candidateID, page, limit)
	if err != nil {
		return model.RecommendationPage{}, err
	}
	o.cacheSet(ctx, key, result)
	return result, nil
}

// VetJobApplications runs vetting for the job synchronously and caches the
// resulting report.
func (o *Orchestrator) VetJobApplications(ctx context.Context, jobID string) (model.VettingReport, error) {
	report, err := o.vetter.Vet(ctx, jobID, actorSystem)
	if err != nil {
		return model.VettingReport{}, err
	}
	o.cacheSet(ctx, cache.VettingKey(jobID), report)
	return report, nil
}

// TriggerFullRecompute enqueues a full-population recommendation recompute,
// processed in batches by the worker pool. batchSize <= 0 uses the default.
func (o *Orchestrator) TriggerFullRecompute(ctx context.Context, batchSize int) error {
	if batchSize <= 0 {
		batchSize = o.cfg.DefaultBatchSize
	}
	return o.tasks.Enqueue(ctx, TaskFullRecompute, fullRecomputePayload{BatchSize: batchSize}, queue.Options{
		DedupeKey: TaskFullRecompute,
	})
}

// TriggerSingleRecompute enqueues a recompute of the candidate's first
// recommendation page. Concurrent triggers for the same candidate collapse
// via the dedupe key.
func (o *Orchestrator) TriggerSingleRecompute(ctx context.Context, candidateID string) error {
	payload := recomputePayload{CandidateID: candidateID, Page: 1, Limit: o.cfg.WarmLimit}
	return o.tasks.Enqueue(ctx, TaskRecomputeCandidate, payload, queue.Options{
		DedupeKey: fmt.Sprintf("%s:%s:%d:%d", TaskRecomputeCandidate, candidateID, payload.Page, payload.Limit),
		Priority:  queue.PriorityHigh,
	})
}

// TriggerJobVetting enqueues a vetting run for the job, e.g. when the
// posting is published or on an explicit employer request.
func (o *Orchestrator) TriggerJobVetting(ctx context.Context, jobID, reason string) error {
	return o.tasks.Enqueue(ctx, TaskVetJob, vetPayload{JobID: jobID, Reason: reason}, queue.Options{
		DedupeKey: TaskVetJob + ":" + jobID,
		Priority:  queue.PriorityHigh,
	})
}

// OnApplicationSubmitted reacts to a new application: the submitted job has
// to drop out of the candidate's recommendations, so the warm page is
// invalidated right away rather than waiting for the recompute to land, and
// the job is queued for (re)vetting.
func (o *Orchestrator) OnApplicationSubmitted(ctx context.Context, candidateID, jobID string) error {
	key := cache.RecommendationKey(candidateID, 1, o.cfg.WarmLimit)
	if err := o.cache.Delete(ctx, key); err != nil {
		o.logger.Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
	if err := o.TriggerSingleRecompute(ctx, candidateID); err != nil {
		return err
	}
	return o.TriggerJobVetting(ctx, jobID, "new application")
}

// TriggerVettingSweep enqueues the daily sweep that vets every job with
// applications newer than its last vetting run.
func (o *Orchestrator) TriggerVettingSweep(ctx context.Context) error {
	return o.tasks.Enqueue(ctx, TaskVettingSweep, struct{}{}, queue.Options{
		DedupeKey: TaskVettingSweep,
	})
}

// cacheGet returns true when key held a decodable value. Infrastructure
// errors are logged and treated as misses.
func (o *Orchestrator) cacheGet(ctx context.Context, key string, out any) bool {
	raw, hit, err := o.cache.Get(ctx, key)
	if err != nil {
		o.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !hit {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		o.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// cacheSet stores the value wholesale under the fixed TTL; failures are
// logged and swallowed.
func (o *Orchestrator) cacheSet(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		o.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := o.cache.Set(ctx, key, raw, o.cfg.CacheTTL); err != nil {
		o.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// classify maps an engine failure to the queue's retry taxonomy: a missing
// subject is permanent, anything else (assumed to be a data-store hiccup) is
// transient and retried with backoff.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return err
	}
	return queue.Transient(err)
}
