package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/queue"
)

// Background task types handled by this subsystem's worker pool.
const (
	TaskRecomputeCandidate = "recompute_candidate"
	TaskVetJob             = "vet_job"
	TaskFullRecompute      = "full_recompute"
	TaskVettingSweep       = "vetting_sweep"
)

type recomputePayload struct {
	CandidateID string `json:"candidateId"`
	Page        int    `json:"page"`
	Limit       int    `json:"limit"`
}

type vetPayload struct {
	JobID  string `json:"jobId"`
	Reason string `json:"reason,omitempty"`
}

type fullRecomputePayload struct {
	BatchSize int `json:"batchSize"`
}

// RegisterHandlers binds the orchestrator's task handlers onto the worker
// pool. Called once at startup.
func (o *Orchestrator) RegisterHandlers(workers *queue.Workers) {
	workers.Register(TaskRecomputeCandidate, o.handleRecomputeCandidate)
	workers.Register(TaskVetJob, o.handleVetJob)
	workers.Register(TaskFullRecompute, o.handleFullRecompute)
	workers.Register(TaskVettingSweep, o.handleVettingSweep)
}

// handleRecomputeCandidate refreshes one candidate's cached recommendation
// page, bypassing the cache read so the result is always recomputed.
func (o *Orchestrator) handleRecomputeCandidate(ctx context.Context, raw json.RawMessage) error {
	var p recomputePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("decode recompute payload: %w", err)
	}
	_, err := o.GetRecommendations(ctx, p.CandidateID, p.Page, p.Limit, true)
	return classify(err)
}

// handleVetJob runs vetting for one job.
func (o *Orchestrator) handleVetJob(ctx context.Context, raw json.RawMessage) error {
	var p vetPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("decode vet payload: %w", err)
	}
	o.logger.Info("vetting job", zap.String("job_id", p.JobID), zap.String("reason", p.Reason))
	_, err := o.VetJobApplications(ctx, p.JobID)
	return classify(err)
}

// handleFullRecompute refreshes the cached first recommendation page for the
// entire candidate population, in batches. Per-candidate failures are
// counted and logged but never abort the run; the batch reports success with
// its failure count.
func (o *Orchestrator) handleFullRecompute(ctx context.Context, raw json.RawMessage) error {
	var p fullRecomputePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("decode full recompute payload: %w", err)
	}
	batchSize := p.BatchSize
	if batchSize <= 0 {
		batchSize = o.cfg.DefaultBatchSize
	}

	ids, err := o.population.ListCandidateIDs(ctx)
	if err != nil {
		return queue.Transient(fmt.Errorf("list candidates: %w", err))
	}
	total := len(ids)
	if total == 0 {
		o.logger.Info("full recompute: no candidates")
		return nil
	}

	var succeeded, failed int
	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}
		for _, id := range ids[start:end] {
			if _, err := o.GetRecommendations(ctx, id, 1, o.cfg.WarmLimit, true); err != nil {
				failed++
				o.logger.Error("full recompute: candidate failed",
					zap.String("candidate_id", id),
					zap.Error(err),
				)
				continue
			}
			succeeded++
		}
		o.logger.Info("full recompute progress",
			zap.Int("processed", end),
			zap.Int("total", total),
			zap.Int("percent", end*100/total),
		)
	}

	o.logger.Info("full recompute complete",
		zap.Int("total", total),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
	)

	if o.notifier != nil {
		err := o.notifier.Notify(ctx, EventRecomputeCompleted, map[string]any{
			"total":     total,
			"succeeded": succeeded,
			"failed":    failed,
		})
		if err != nil {
			o.logger.Warn("recompute notification failed", zap.Error(err))
		}
	}
	return nil
}

// handleVettingSweep fans the daily sweep out into one vet_job task per job
// with pending or new applications, so runs spread across the worker pool.
func (o *Orchestrator) handleVettingSweep(ctx context.Context, _ json.RawMessage) error {
	jobIDs, err := o.population.JobsNeedingVetting(ctx)
	if err != nil {
		return queue.Transient(fmt.Errorf("list jobs needing vetting: %w", err))
	}

	var enqueued, failed int
	for _, jobID := range jobIDs {
		if err := o.TriggerJobVetting(ctx, jobID, "scheduled sweep"); err != nil {
			failed++
			o.logger.Error("vetting sweep: enqueue failed",
				zap.String("job_id", jobID),
				zap.Error(err),
			)
			continue
		}
		enqueued++
	}

	o.logger.Info("vetting sweep complete",
		zap.Int("jobs", len(jobIDs)),
		zap.Int("enqueued", enqueued),
		zap.Int("failed", failed),
	)
	return nil
}
