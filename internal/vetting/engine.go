// Package vetting scores and ranks applicants for a job posting so the
// employer sees the strongest candidates first. It is pure business logic in
// the same shape as the recommendation engine: data access and side effects
// go through narrow injected interfaces.
package vetting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/match"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/model"
)

// JobStore loads a job posting and records vetting completion on it.
type JobStore interface {
	GetJob(ctx context.Context, id string) (model.Job, error)
	RecordVettingCompletion(ctx context.Context, jobID, actor string, at time.Time) error
}

// ApplicationStore loads a job's applications and applies the batch status
// update produced by a vetting run.
type ApplicationStore interface {
	GetApplicationsForJob(ctx context.Context, jobID string) ([]model.Application, error)
	BulkSetStatus(ctx context.Context, ids []string, status model.ApplicationStatus, highlightedIDs []string) error
}

// EmploymentLookup reports whether a candidate holds an active employment
// record; employed candidates are excluded from vetting.
type EmploymentLookup interface {
	IsCurrentlyEmployed(ctx context.Context, candidateID string) (bool, error)
}

// Notifier delivers best-effort events. Implementations must not block for
// long; failures are the engine's to log and swallow.
type Notifier interface {
	Notify(ctx context.Context, event string, payload any) error
}

// EventVettingCompleted is published after every successful vetting run.
const EventVettingCompleted = "vetting.completed"

// Config tunes a vetting engine.
type Config struct {
	// DefaultHighlightCount applies when a job opted into custom screening
	// but carries no per-job override.
	DefaultHighlightCount int
	Speed                 SpeedConfig
}

// Engine runs the applicant vetting flow for one job at a time.
type Engine struct {
	jobs       JobStore
	apps       ApplicationStore
	employment EmploymentLookup
	notifier   Notifier
	tables     *match.Tables
	cfg        Config
	logger     *zap.Logger
	now        func() time.Time
}

// NewEngine constructs an Engine. tables may be nil to use the embedded
// defaults; a zero Speed config falls back to the production defaults.
func NewEngine(jobs JobStore, apps ApplicationStore, employment EmploymentLookup, notifier Notifier, tables *match.Tables, cfg Config, logger *zap.Logger) *Engine {
	if tables == nil {
		tables = match.Default()
	}
	if cfg.Speed == (SpeedConfig{}) {
		cfg.Speed = DefaultSpeedConfig()
	}
	if cfg.DefaultHighlightCount < 1 {
		cfg.DefaultHighlightCount = 1
	}
	return &Engine{
		jobs:       jobs,
		apps:       apps,
		employment: employment,
		notifier:   notifier,
		tables:     tables,
		cfg:        cfg,
		logger:     logger.Named("vetting"),
		now:        time.Now,
	}
}

// Vet loads all non-withdrawn applications for the job, drops candidates who
// are already employed elsewhere, scores and ranks the rest, highlights the
// top N, and persists the batch status change. The vetting-complete
// notification is best-effort: its failure never rolls back vetting.
func (e *Engine) Vet(ctx context.Context, jobID, actor string) (model.VettingReport, error) {
	job, err := e.jobs.GetJob(ctx, jobID)
	if err != nil {
		return model.VettingReport{}, fmt.Errorf("load job %s: %w", jobID, err)
	}

	apps, err := e.apps.GetApplicationsForJob(ctx, jobID)
	if err != nil {
		return model.VettingReport{}, fmt.Errorf("load applications for job %s: %w", jobID, err)
	}

	report := model.VettingReport{JobID: jobID, RankedApplicants: []model.VettedApplicant{}}
	if len(apps) == 0 {
		e.logger.Info("no applications to vet", zap.String("job_id", jobID))
		return report, nil
	}

	apps = e.excludeEmployed(ctx, apps)
	skillType := e.tables.SkillTypeFor(job.Category)

	ranked := make([]model.VettedApplicant, 0, len(apps))
	for _, app := range apps {
		score, breakdown := ScoreApplicant(app, job, skillType, e.cfg.Speed)
		ranked = append(ranked, model.VettedApplicant{
			ApplicationID: app.ID,
			CandidateID:   app.CandidateID,
			Score:         score,
			Breakdown:     breakdown,
		})
	}

	// Descending score; equal scores keep their load order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	highlightCount := e.highlightCount(job)
	if highlightCount > len(ranked) {
		highlightCount = len(ranked)
	}

	allIDs := make([]string, len(ranked))
	highlightedIDs := make([]string, 0, highlightCount)
	for i := range ranked {
		allIDs[i] = ranked[i].ApplicationID
		if i < highlightCount {
			ranked[i].Highlighted = true
			highlightedIDs = append(highlightedIDs, ranked[i].ApplicationID)
		}
	}

	if len(allIDs) > 0 {
		if err := e.apps.BulkSetStatus(ctx, allIDs, model.ApplicationVetted, highlightedIDs); err != nil {
			return model.VettingReport{}, fmt.Errorf("persist vetting statuses for job %s: %w", jobID, err)
		}
	}
	if err := e.jobs.RecordVettingCompletion(ctx, jobID, actor, e.now()); err != nil {
		return model.VettingReport{}, fmt.Errorf("record vetting completion for job %s: %w", jobID, err)
	}

	report.TotalApplicants = len(ranked)
	report.HighlightedCount = len(highlightedIDs)
	report.RankedApplicants = ranked

	e.notify(ctx, report)

	e.logger.Info("vetting complete",
		zap.String("job_id", jobID),
		zap.String("skill_type", string(skillType)),
		zap.Int("total_applicants", report.TotalApplicants),
		zap.Int("highlighted", report.HighlightedCount),
	)
	return report, nil
}

// highlightCount applies the highlight policy: a job whose owner opted out
// of custom screening highlights exactly 1 candidate regardless of any
// configured count; otherwise the per-job override wins over the default.
func (e *Engine) highlightCount(job model.Job) int {
	if !job.PerformCustomScreening {
		return 1
	}
	if job.HighlightCount != nil && *job.HighlightCount > 0 {
		return *job.HighlightCount
	}
	return e.cfg.DefaultHighlightCount
}

// excludeEmployed drops applications from candidates with an active
// employment record. A failed lookup keeps the candidate in the pool rather
// than silently dropping them.
func (e *Engine) excludeEmployed(ctx context.Context, apps []model.Application) []model.Application {
	kept := apps[:0]
	for _, app := range apps {
		employed, err := e.employment.IsCurrentlyEmployed(ctx, app.CandidateID)
		if err != nil {
			e.logger.Warn("employment lookup failed, keeping candidate",
				zap.String("candidate_id", app.CandidateID),
				zap.Error(err),
			)
			kept = append(kept, app)
			continue
		}
		if !employed {
			kept = append(kept, app)
		}
	}
	return kept
}

func (e *Engine) notify(ctx context.Context, report model.VettingReport) {
	if e.notifier == nil {
		return
	}
	payload := map[string]any{
		"jobId":            report.JobID,
		"totalApplicants":  report.TotalApplicants,
		"highlightedCount": report.HighlightedCount,
	}
	if err := e.notifier.Notify(ctx, EventVettingCompleted, payload); err != nil {
		e.logger.Warn("vetting notification failed",
			zap.String("job_id", report.JobID),
			zap.Error(err),
		)
	}
}
