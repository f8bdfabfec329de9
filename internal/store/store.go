// Package store implements the subsystem's data access over PostgreSQL.
// From this subsystem's point of view the relational store is read-mostly:
// the only writes are the vetting batch status update and the job's
// vetting-completion timestamp, both idempotent if repeated.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/model"
)

// ErrNotFound is returned when a requested candidate or job does not exist.
var ErrNotFound = errors.New("not found")

// Store runs raw SQL against the shared connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store over the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// GetCandidateWithSkills loads a fully-populated candidate profile snapshot.
func (s *Store) GetCandidateWithSkills(ctx context.Context, id string) (model.Candidate, error) {
	var c model.Candidate
	err := s.pool.QueryRow(ctx,
		`SELECT id, COALESCE(job_title, ''), years_of_experience,
		        COALESCE(state, ''), COALESCE(city, ''), COALESCE(address, ''),
		        COALESCE(preferred_location, ''),
		        salary_min, salary_max,
		        COALESCE(employment_type, ''), COALESCE(work_mode, ''), COALESCE(arrangement, ''),
		        cv_url IS NOT NULL, picture_url IS NOT NULL
		 FROM candidates
		 WHERE id = $1`,
		id,
	).Scan(
		&c.ID, &c.JobTitle, &c.YearsOfExperience,
		&c.State, &c.City, &c.Address, &c.PreferredLocation,
		&c.SalaryMin, &c.SalaryMax,
		&c.EmploymentType, &c.WorkMode, &c.Arrangement,
		&c.HasCV, &c.HasPicture,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Candidate{}, ErrNotFound
	}
	if err != nil {
		return model.Candidate{}, fmt.Errorf("getCandidateWithSkills query: %w", err)
	}

	skills, err := s.candidateSkills(ctx, []string{id})
	if err != nil {
		return model.Candidate{}, err
	}
	c.Skills = skills[id]
	return c, nil
}

// candidateSkills loads the (skill, proficiency) pairs for a set of
// candidates in one query.
func (s *Store) candidateSkills(ctx context.Context, candidateIDs []string) (map[string][]model.CandidateSkill, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT cs.candidate_id, sk.id, sk.name, COALESCE(sk.synonyms, '{}'), COALESCE(sk.category, ''),
		        COALESCE(cs.proficiency, '')
		 FROM candidate_skills cs
		 JOIN skills sk ON sk.id = cs.skill_id
		 WHERE cs.candidate_id = ANY($1)`,
		candidateIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("candidateSkills query: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.CandidateSkill)
	for rows.Next() {
		var candidateID, proficiency string
		var sk model.Skill
		if err := rows.Scan(&candidateID, &sk.ID, &sk.Name, &sk.Synonyms, &sk.Category, &proficiency); err != nil {
			return nil, fmt.Errorf("candidateSkills scan: %w", err)
		}
		out[candidateID] = append(out[candidateID], model.CandidateSkill{Skill: sk, Proficiency: proficiency})
	}
	return out, rows.Err()
}

// GetPublishedJobs loads every published, non-expired job with its required
// skills.
func (s *Store) GetPublishedJobs(ctx context.Context) ([]model.Job, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, COALESCE(category, ''),
		        COALESCE(employment_type, ''), COALESCE(work_mode, ''), COALESCE(arrangement, ''),
		        salary_min, salary_max,
		        COALESCE(state, ''), COALESCE(city, ''),
		        current_status, created_at, application_deadline,
		        perform_custom_screening, highlight_count
		 FROM jobs
		 WHERE current_status = 'PUBLISHED'
		   AND (application_deadline IS NULL OR application_deadline > NOW())
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("getPublishedJobs query: %w", err)
	}
	defer rows.Close()

	jobs, err := scanJobs(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachJobSkills(ctx, jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJob loads a single job with its required skills.
func (s *Store) GetJob(ctx context.Context, id string) (model.Job, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, COALESCE(category, ''),
		        COALESCE(employment_type, ''), COALESCE(work_mode, ''), COALESCE(arrangement, ''),
		        salary_min, salary_max,
		        COALESCE(state, ''), COALESCE(city, ''),
		        current_status, created_at, application_deadline,
		        perform_custom_screening, highlight_count
		 FROM jobs
		 WHERE id = $1`,
		id,
	)
	if err != nil {
		return model.Job{}, fmt.Errorf("getJob query: %w", err)
	}
	defer rows.Close()

	jobs, err := scanJobs(rows)
	if err != nil {
		return model.Job{}, err
	}
	if len(jobs) == 0 {
		return model.Job{}, ErrNotFound
	}
	if err := s.attachJobSkills(ctx, jobs); err != nil {
		return model.Job{}, err
	}
	return jobs[0], nil
}

func scanJobs(rows pgx.Rows) ([]model.Job, error) {
	var jobs []model.Job
	for rows.Next() {
		var j model.Job
		var status string
		if err := rows.Scan(
			&j.ID, &j.Title, &j.Category,
			&j.EmploymentType, &j.WorkMode, &j.Arrangement,
			&j.SalaryMin, &j.SalaryMax,
			&j.State, &j.City,
			&status, &j.CreatedAt, &j.Deadline,
			&j.PerformCustomScreening, &j.HighlightCount,
		); err != nil {
			return nil, fmt.Errorf("job scan: %w", err)
		}
		j.Status = model.JobStatus(status)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// attachJobSkills fills RequiredSkills for all jobs in one query.
func (s *Store) attachJobSkills(ctx context.Context, jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	ids := make([]string, len(jobs))
	index := make(map[string]int, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
		index[j.ID] = i
	}

	rows, err := s.pool.Query(ctx,
		`SELECT js.job_id, sk.id, sk.name, COALESCE(sk.synonyms, '{}'), COALESCE(sk.category, '')
		 FROM job_skills js
		 JOIN skills sk ON sk.id = js.skill_id
		 WHERE js.job_id = ANY($1)`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("attachJobSkills query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var jobID string
		var sk model.Skill
		if err := rows.Scan(&jobID, &sk.ID, &sk.Name, &sk.Synonyms, &sk.Category); err != nil {
			return fmt.Errorf("attachJobSkills scan: %w", err)
		}
		if i, ok := index[jobID]; ok {
			jobs[i].RequiredSkills = append(jobs[i].RequiredSkills, sk)
		}
	}
	return rows.Err()
}

// GetApplicationsForJob loads all non-withdrawn applications for a job, each
// with its candidate profile snapshot and skills.
func (s *Store) GetApplicationsForJob(ctx context.Context, jobID string) ([]model.Application, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT a.id, a.job_id, a.candidate_id, a.current_status, a.is_highlighted, a.created_at,
		        c.id, COALESCE(c.job_title, ''), c.years_of_experience,
		        COALESCE(c.state, ''), COALESCE(c.city, ''), COALESCE(c.address, ''),
		        COALESCE(c.preferred_location, ''),
		        c.salary_min, c.salary_max,
		        COALESCE(c.employment_type, ''), COALESCE(c.work_mode, ''), COALESCE(c.arrangement, ''),
		        c.cv_url IS NOT NULL, c.picture_url IS NOT NULL
		 FROM applications a
		 JOIN candidates c ON c.id = a.candidate_id
		 WHERE a.job_id = $1
		   AND a.current_status != 'WITHDRAWN'
		 ORDER BY a.created_at ASC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("getApplicationsForJob query: %w", err)
	}
	defer rows.Close()

	var apps []model.Application
	for rows.Next() {
		var a model.Application
		var status string
		if err := rows.Scan(
			&a.ID, &a.JobID, &a.CandidateID, &status, &a.IsHighlighted, &a.SubmittedAt,
			&a.Candidate.ID, &a.Candidate.JobTitle, &a.Candidate.YearsOfExperience,
			&a.Candidate.State, &a.Candidate.City, &a.Candidate.Address,
			&a.Candidate.PreferredLocation,
			&a.Candidate.SalaryMin, &a.Candidate.SalaryMax,
			&a.Candidate.EmploymentType, &a.Candidate.WorkMode, &a.Candidate.Arrangement,
			&a.Candidate.HasCV, &a.Candidate.HasPicture,
		); err != nil {
			return nil, fmt.Errorf("getApplicationsForJob scan: %w", err)
		}
		a.Status = model.ApplicationStatus(status)
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return apps, nil
	}

	candidateIDs := make([]string, len(apps))
	for i, a := range apps {
		candidateIDs[i] = a.CandidateID
	}
	skills, err := s.candidateSkills(ctx, candidateIDs)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		apps[i].Candidate.Skills = skills[apps[i].CandidateID]
	}
	return apps, nil
}

// AppliedJobIDs returns the set of job IDs the candidate has applied to.
func (s *Store) AppliedJobIDs(ctx context.Context, candidateID string) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT job_id FROM applications WHERE candidate_id = $1`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("appliedJobIDs query: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("appliedJobIDs scan: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// HasApplied reports whether the candidate has an application for the job.
func (s *Store) HasApplied(ctx context.Context, candidateID, jobID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE candidate_id = $1 AND job_id = $2)`,
		candidateID, jobID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("hasApplied query: %w", err)
	}
	return exists, nil
}

// BulkSetStatus transitions all given applications to the status in one
// batch update and sets the highlight flag on exactly the highlighted set.
func (s *Store) BulkSetStatus(ctx context.Context, ids []string, status model.ApplicationStatus, highlightedIDs []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`UPDATE applications
		 SET current_status = $1::application_status,
		     is_highlighted = (id = ANY($3)),
		     updated_at     = NOW()
		 WHERE id = ANY($2)`,
		string(status), ids, highlightedIDs,
	)
	if err != nil {
		return fmt.Errorf("bulkSetStatus update: %w", err)
	}
	return nil
}

// RecordVettingCompletion stamps the job with when vetting ran and who
// triggered it.
func (s *Store) RecordVettingCompletion(ctx context.Context, jobID, actor string, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE jobs SET last_vetted_at = $2, last_vetted_by = $3, updated_at = NOW() WHERE id = $1`,
		jobID, at, actor,
	)
	if err != nil {
		return fmt.Errorf("recordVettingCompletion update: %w", err)
	}
	return nil
}

// IsCurrentlyEmployed reports whether the candidate has an active employment
// record.
func (s *Store) IsCurrentlyEmployed(ctx context.Context, candidateID string) (bool, error) {
	var employed bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM employments
		   WHERE candidate_id = $1 AND end_date IS NULL
		 )`,
		candidateID,
	).Scan(&employed)
	if err != nil {
		return false, fmt.Errorf("isCurrentlyEmployed query: %w", err)
	}
	return employed, nil
}

// ListCandidateIDs returns every candidate ID, ordered for stable batching.
func (s *Store) ListCandidateIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM candidates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listCandidateIDs query: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("listCandidateIDs scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// JobsNeedingVetting returns published jobs with applications newer than the
// last vetting run (or never vetted at all).
func (s *Store) JobsNeedingVetting(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT j.id
		 FROM jobs j
		 JOIN applications a ON a.job_id = j.id
		 WHERE j.current_status = 'PUBLISHED'
		   AND a.current_status != 'WITHDRAWN'
		   AND (j.last_vetted_at IS NULL OR a.created_at > j.last_vetted_at)`,
	)
	if err != nil {
		return nil, fmt.Errorf("jobsNeedingVetting query: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("jobsNeedingVetting scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
