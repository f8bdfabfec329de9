// Package recommend ranks open job postings against a candidate profile to
// produce personalized recommendations. It is transport-agnostic pure
// business logic: data access goes through the small reader interfaces below,
// so any store (or test fake) can back it.
package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/match"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/model"
)

// tieEpsilon is the score distance under which two jobs are considered tied
// and ordered by recency instead. The literal constant is load-bearing:
// changing it changes ranking output.
const tieEpsilon = 0.01

// Pagination bounds. Out-of-range input is clamped, not rejected.
const (
	minLimit = 1
	maxLimit = 100
)

// CandidateReader loads a fully-populated candidate profile.
type CandidateReader interface {
	GetCandidateWithSkills(ctx context.Context, id string) (model.Candidate, error)
}

// JobReader loads published job postings with their required skills.
type JobReader interface {
	GetPublishedJobs(ctx context.Context) ([]model.Job, error)
}

// ApplicationReader exposes which jobs a candidate has already applied to.
type ApplicationReader interface {
	AppliedJobIDs(ctx context.Context, candidateID string) (map[string]struct{}, error)
}

// Engine scores and ranks jobs for candidates.
type Engine struct {
	candidates CandidateReader
	jobs       JobReader
	apps       ApplicationReader
	tables     *match.Tables
	logger     *zap.Logger
	now        func() time.Time
}

// NewEngine constructs an Engine. tables may be nil to use the embedded
// defaults.
func NewEngine(candidates CandidateReader, jobs JobReader, apps ApplicationReader, tables *match.Tables, logger *zap.Logger) *Engine {
	if tables == nil {
		tables = match.Default()
	}
	return &Engine{
		candidates: candidates,
		jobs:       jobs,
		apps:       apps,
		tables:     tables,
		logger:     logger.Named("recommend"),
		now:        time.Now,
	}
}

// ClampPage corrects malformed pagination input: page >= 1 and
// 1 <= limit <= 100.
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < minLimit {
		limit = minLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// Recommend produces one page of the ranked, eligible job list for the given
// candidate. Eligible means published, not past its deadline, and not
// already applied to. Pagination is applied after the full eligible set has
// been ranked in memory.
func (e *Engine) Recommend(ctx context.Context, candidateID string, page, limit int) (model.RecommendationPage, error) {
	page, limit = ClampPage(page, limit)

	candidate, err := e.candidates.GetCandidateWithSkills(ctx, candidateID)
	if err != nil {
		return model.RecommendationPage{}, fmt.Errorf("load candidate %s: %w", candidateID, err)
	}

	jobs, err := e.jobs.GetPublishedJobs(ctx)
	if err != nil {
		return model.RecommendationPage{}, fmt.Errorf("load published jobs: %w", err)
	}

	applied, err := e.apps.AppliedJobIDs(ctx, candidateID)
	if err != nil {
		return model.RecommendationPage{}, fmt.Errorf("load applied jobs for %s: %w", candidateID, err)
	}

	now := e.now()
	ranked := make([]model.RankedJob, 0, len(jobs))
	for _, job := range jobs {
		if !eligible(job, applied, now) {
			continue
		}
		score, breakdown := Score(candidate, job, e.tables)
		ranked = append(ranked, model.RankedJob{Job: job, Score: score, Breakdown: breakdown})
	}

	sortRanked(ranked)

	total := len(ranked)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	e.logger.Debug("ranked jobs for candidate",
		zap.String("candidate_id", candidateID),
		zap.Int("eligible", total),
		zap.Int("page", page),
		zap.Int("limit", limit),
	)

	return model.RecommendationPage{
		Items: ranked[start:end],
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func eligible(job model.Job, applied map[string]struct{}, now time.Time) bool {
	if job.Status != model.JobPublished {
		return false
	}
	if job.Deadline != nil && job.Deadline.Before(now) {
		return false
	}
	_, alreadyApplied := applied[job.ID]
	return !alreadyApplied
}

// sortRanked orders by descending score; scores closer than tieEpsilon are
// tied and broken by descending creation time (more recent first).
func sortRanked(ranked []model.RankedJob) {
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if math.Abs(a.Score-b.Score) < tieEpsilon {
			return a.Job.CreatedAt.After(b.Job.CreatedAt)
		}
		return a.Score > b.Score
	})
}
