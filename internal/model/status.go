package model

import "fmt"

// ApplicationStatus values mirror the application_status enum in PostgreSQL.
type ApplicationStatus string

const (
	ApplicationApplied   ApplicationStatus = "APPLIED"
	ApplicationVetted    ApplicationStatus = "VETTED"
	ApplicationShortlist ApplicationStatus = "SHORTLISTED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationWithdrawn ApplicationStatus = "WITHDRAWN"
)

// ParseApplicationStatus converts a raw string to an ApplicationStatus,
// returning an error for unknown values.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	switch st {
	case ApplicationApplied, ApplicationVetted, ApplicationShortlist,
		ApplicationRejected, ApplicationWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// JobStatus values mirror the job_status enum in PostgreSQL.
type JobStatus string

const (
	JobDraft     JobStatus = "DRAFT"
	JobPublished JobStatus = "PUBLISHED"
	JobClosed    JobStatus = "CLOSED"
)

// ParseJobStatus converts a raw string to a JobStatus, returning an error for
// unknown values.
func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(s)
	switch st {
	case JobDraft, JobPublished, JobClosed:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}
