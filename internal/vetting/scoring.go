package vetting

import (
	"math"
	"strings"
	"time"

	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/match"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/model"
)

// Weights is one vetting weight profile. Every profile sums to 100; a factor
// with weight 0 is simply not considered for that profile.
type Weights struct {
	Experience   float64
	Skills       float64
	Completeness float64
	Proximity    float64
	Speed        float64
}

// highSkillWeights rewards qualifications: experience and skill fit dominate.
var highSkillWeights = Weights{
	Experience:   30,
	Skills:       25,
	Completeness: 20,
	Proximity:    15,
	Speed:        10,
}

// lowSkillWeights rewards responsiveness: application speed dominates and
// skill fit is not considered.
var lowSkillWeights = Weights{
	Speed:        40,
	Completeness: 30,
	Experience:   20,
	Proximity:    10,
}

// WeightsFor returns the weight profile for a skill type.
func WeightsFor(skillType match.SkillType) Weights {
	if skillType == match.HighSkill {
		return highSkillWeights
	}
	return lowSkillWeights
}

// SpeedConfig controls the application-speed sub-score.
type SpeedConfig struct {
	// MaxHoursForFullScore is the grace window after posting creation within
	// which an application earns the full 100.
	MaxHoursForFullScore float64
	// DecayPerHour is the linear penalty per hour beyond the grace window.
	DecayPerHour float64
}

// DefaultSpeedConfig mirrors the production defaults: 2h grace, −2/hour.
func DefaultSpeedConfig() SpeedConfig {
	return SpeedConfig{MaxHoursForFullScore: 2, DecayPerHour: 2}
}

// ScoreApplicant computes the weighted vetting score for one application,
// rounded to 2 decimals. The skill type picks the weight profile and the
// experience ladder. The breakdown holds the raw 0–100 sub-scores.
func ScoreApplicant(app model.Application, job model.Job, skillType match.SkillType, speed SpeedConfig) (float64, map[string]float64) {
	w := WeightsFor(skillType)
	breakdown := map[string]float64{
		"experience":   experienceScore(app.Candidate.YearsOfExperience, skillType == match.HighSkill),
		"skills":       skillScore(app.Candidate, job),
		"completeness": CompletenessScore(app.Candidate),
		"proximity":    ProximityScore(app.Candidate, job),
		"speed":        SpeedScore(job.CreatedAt, app.SubmittedAt, speed),
	}

	total := w.Experience*breakdown["experience"] +
		w.Skills*breakdown["skills"] +
		w.Completeness*breakdown["completeness"] +
		w.Proximity*breakdown["proximity"] +
		w.Speed*breakdown["speed"]
	return round2(total / 100), breakdown
}

// Profile-completeness checklist weights. Basic info always counts; the rest
// depends on what the candidate filled in. The checklist sums to 100.
const (
	completenessBasic    = 20
	completenessLocation = 15
	completenessCV       = 20
	completenessPicture  = 10
	completenessSkills   = 15
	completenessYears    = 10
	completenessTitle    = 10
)

// CompletenessScore rates how fully a candidate filled in their profile.
func CompletenessScore(c model.Candidate) float64 {
	score := float64(completenessBasic)
	if c.State != "" || c.City != "" {
		score += completenessLocation
	}
	if c.HasCV {
		score += completenessCV
	}
	if c.HasPicture {
		score += completenessPicture
	}
	if len(c.Skills) > 0 {
		score += completenessSkills
	}
	if c.YearsOfExperience != nil {
		score += completenessYears
	}
	if c.JobTitle != "" {
		score += completenessTitle
	}
	return score
}

// Proximity credit steps.
const (
	proximityStateBase    = 50
	proximityCityBonus    = 25
	proximityPreferred    = 35
	proximityAddressExtra = 15
	proximityNeutral      = 50
)

// ProximityScore rates how close a candidate is to the job's location.
// An exact city match short-circuits at 100 regardless of state fields.
// A job with neither city nor state is location-agnostic and scores a
// neutral 50 for everyone.
func ProximityScore(c model.Candidate, j model.Job) float64 {
	if j.City == "" && j.State == "" {
		return proximityNeutral
	}
	if equalFoldNonEmpty(c.City, j.City) {
		return 100
	}
	if equalFoldNonEmpty(c.State, j.State) {
		score := float64(proximityStateBase)
		if substringRelated(c.City, j.City) {
			score += proximityCityBonus
		}
		return score
	}

	var score float64
	if textMentionsLocation(c.PreferredLocation, j) {
		score += proximityPreferred
	}
	if textMentionsLocation(c.Address, j) {
		score += proximityAddressExtra
	}
	return score
}

// experienceScore ladders years of experience. High-skill jobs reward more
// years more steeply; low-skill jobs are nearly flat.
func experienceScore(years *int, highSkill bool) float64 {
	if highSkill {
		switch {
		case years == nil:
			return 20
		case *years >= 10:
			return 100
		case *years >= 5:
			return 80
		case *years >= 3:
			return 60
		case *years >= 1:
			return 40
		default:
			return 20
		}
	}
	switch {
	case years == nil:
		return 40
	case *years >= 3:
		return 100
	case *years >= 1:
		return 80
	default:
		return 60
	}
}

// skillScore is the exact-ID intersection ratio against the job's required
// skills, scaled to 0–100. A job requiring no skills is neutral (50); a
// candidate listing no skills scores 0.
func skillScore(c model.Candidate, j model.Job) float64 {
	if len(j.RequiredSkills) == 0 {
		return 50
	}
	if len(c.Skills) == 0 {
		return 0
	}
	owned := make(map[string]struct{}, len(c.Skills))
	for _, cs := range c.Skills {
		owned[cs.Skill.ID] = struct{}{}
	}
	matched := 0
	for _, req := range j.RequiredSkills {
		if _, ok := owned[req.ID]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(j.RequiredSkills)) * 100
}

// SpeedScore rewards applying quickly after the posting was created: full
// score within the grace window, then a linear per-hour decay floored at 0.
// A submission timestamp before the posting's creation scores 0.
func SpeedScore(jobCreatedAt, submittedAt time.Time, cfg SpeedConfig) float64 {
	elapsed := submittedAt.Sub(jobCreatedAt).Hours()
	if elapsed < 0 {
		return 0
	}
	if elapsed <= cfg.MaxHoursForFullScore {
		return 100
	}
	score := 100 - (elapsed-cfg.MaxHoursForFullScore)*cfg.DecayPerHour
	if score < 0 {
		return 0
	}
	return score
}

func equalFoldNonEmpty(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	return a != "" && b != "" && strings.EqualFold(a, b)
}

func substringRelated(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func textMentionsLocation(text string, j model.Job) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return false
	}
	if city := strings.ToLower(strings.TrimSpace(j.City)); city != "" && strings.Contains(text, city) {
		return true
	}
	state := strings.ToLower(strings.TrimSpace(j.State))
	return state != "" && strings.Contains(text, state)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
