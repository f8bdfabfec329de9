// Package model defines the flat value structs shared by the matching and
// vetting subsystem. Every struct is a fully-populated snapshot loaded in one
// query, with no live object graphs or lazy relations.
package model

import "time"

// Skill is a named skill with optional synonyms and a category tag.
// Synonyms and the category drive fuzzy matching; an exact skill-ID match is
// not required for partial credit.
type Skill struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms,omitempty"`
	Category string   `json:"category,omitempty"`
}

// CandidateSkill pairs a skill with the candidate's self-assessed proficiency.
type CandidateSkill struct {
	Skill       Skill  `json:"skill"`
	Proficiency string `json:"proficiency,omitempty"`
}

// Candidate is a job seeker's profile snapshot, including skills.
// Read-only to this subsystem; owned by the profile store.
type Candidate struct {
	ID                string           `json:"id"`
	JobTitle          string           `json:"jobTitle"`
	YearsOfExperience *int             `json:"yearsOfExperience,omitempty"`
	State             string           `json:"state,omitempty"`
	City              string           `json:"city,omitempty"`
	Address           string           `json:"address,omitempty"`
	PreferredLocation string           `json:"preferredLocation,omitempty"`
	SalaryMin         *float64         `json:"salaryMin,omitempty"`
	SalaryMax         *float64         `json:"salaryMax,omitempty"`
	EmploymentType    string           `json:"employmentType,omitempty"`
	WorkMode          string           `json:"workMode,omitempty"`
	Arrangement       string           `json:"arrangement,omitempty"`
	Skills            []CandidateSkill `json:"skills"`
	HasCV             bool             `json:"hasCv"`
	HasPicture        bool             `json:"hasPicture"`
}

// Job is a published job posting snapshot, including required skills.
type Job struct {
	ID                     string     `json:"id"`
	Title                  string     `json:"title"`
	Category               string     `json:"category"`
	EmploymentType         string     `json:"employmentType,omitempty"`
	WorkMode               string     `json:"workMode,omitempty"`
	Arrangement            string     `json:"arrangement,omitempty"`
	SalaryMin              *float64   `json:"salaryMin,omitempty"`
	SalaryMax              *float64   `json:"salaryMax,omitempty"`
	State                  string     `json:"state,omitempty"`
	City                   string     `json:"city,omitempty"`
	RequiredSkills         []Skill    `json:"requiredSkills"`
	Status                 JobStatus  `json:"status"`
	CreatedAt              time.Time  `json:"createdAt"`
	Deadline               *time.Time `json:"deadline,omitempty"`
	PerformCustomScreening bool       `json:"performCustomScreening"`
	HighlightCount         *int       `json:"highlightCount,omitempty"`
}

// Application links a candidate to a job. Vetting mutates Status and the
// IsHighlighted flag; it never creates or deletes applications.
type Application struct {
	ID            string            `json:"id"`
	JobID         string            `json:"jobId"`
	CandidateID   string            `json:"candidateId"`
	Status        ApplicationStatus `json:"status"`
	IsHighlighted bool              `json:"isHighlighted"`
	SubmittedAt   time.Time         `json:"submittedAt"`
	Candidate     Candidate         `json:"candidate"`
}

// RankedJob is a job posting with its recommendation score and the per-factor
// breakdown that produced it.
type RankedJob struct {
	Job       Job                `json:"job"`
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// RecommendationPage is one page of a ranked recommendation list.
type RecommendationPage struct {
	Items []RankedJob `json:"items"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// VettedApplicant is one scored applicant in a vetting report.
type VettedApplicant struct {
	ApplicationID string             `json:"applicationId"`
	CandidateID   string             `json:"candidateId"`
	Score         float64            `json:"score"`
	Breakdown     map[string]float64 `json:"breakdown"`
	Highlighted   bool               `json:"highlighted"`
}

// VettingReport summarises one vetting run over a job's applications.
type VettingReport struct {
	JobID            string            `json:"jobId"`
	TotalApplicants  int               `json:"totalApplicants"`
	HighlightedCount int               `json:"highlightedCount"`
	RankedApplicants []VettedApplicant `json:"rankedApplicants"`
}
