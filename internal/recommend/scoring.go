package recommend

import (
	"math"
	"strings"

	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/match"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/model"
)

// Component weights. They sum to 100, so the weighted total is in [0, 100].
const (
	weightSkills     = 35.0
	weightCategory   = 25.0
	weightEmployment = 12.0
	weightLocation   = 12.0
	weightSalary     = 10.0
	weightTitle      = 6.0
)

// softSkillCredit is the partial credit for a synonym/name skill match where
// the exact skill is missing.
const softSkillCredit = 0.7

// Location credit fractions. City match short-circuits at full credit; a
// state match earns partial credit plus a bonus when the city names are
// substring-related; free-text preferred-location containment is the last,
// smallest fallback.
const (
	locStateCredit     = 0.5
	locCityBonus       = 0.25
	locPreferredCredit = 0.3
)

// Score computes the weighted match score of a job for a candidate, rounded
// to 2 decimals, along with the per-component point breakdown.
func Score(c model.Candidate, j model.Job, tables *match.Tables) (float64, map[string]float64) {
	breakdown := map[string]float64{
		"skills":     round2(weightSkills * skillRatio(c, j)),
		"category":   round2(weightCategory * categoryFraction(c, j, tables)),
		"employment": round2(weightEmployment * employmentFraction(c, j)),
		"location":   round2(weightLocation * locationFraction(c, j)),
		"salary":     round2(weightSalary * SalaryOverlap(c.SalaryMin, c.SalaryMax, j.SalaryMin, j.SalaryMax)),
		"title":      round2(weightTitle * match.TitleSimilarity(c.JobTitle, j.Title)),
	}

	var total float64
	for _, pts := range breakdown {
		total += pts
	}
	return round2(total), breakdown
}

// skillRatio counts each required job skill as 1.0 for an exact match (same
// skill ID or identical name) and softSkillCredit for a synonym/name match,
// then divides by the required-skill count. A job with no required skills
// scores a neutral 0.5.
func skillRatio(c model.Candidate, j model.Job) float64 {
	if len(j.RequiredSkills) == 0 {
		return 0.5
	}
	if len(c.Skills) == 0 {
		return 0
	}

	ownedIDs := make(map[string]struct{}, len(c.Skills))
	ownedNames := make(map[string]struct{})
	for _, cs := range c.Skills {
		ownedIDs[cs.Skill.ID] = struct{}{}
		for _, n := range skillNameSet(cs.Skill) {
			ownedNames[n] = struct{}{}
		}
	}

	var sum float64
	for _, req := range j.RequiredSkills {
		if _, ok := ownedIDs[req.ID]; ok {
			sum++
			continue
		}
		if _, ok := ownedNames[strings.ToLower(strings.TrimSpace(req.Name))]; ok {
			sum++
			continue
		}
		if softMatch(req, ownedNames) {
			sum += softSkillCredit
		}
	}
	return sum / float64(len(j.RequiredSkills))
}

// softMatch reports whether any of the required skill's names or synonyms
// appears among the candidate's skill names and synonyms.
func softMatch(req model.Skill, ownedNames map[string]struct{}) bool {
	for _, n := range skillNameSet(req) {
		if _, ok := ownedNames[n]; ok {
			return true
		}
	}
	return false
}

func skillNameSet(s model.Skill) []string {
	names := make([]string, 0, 1+len(s.Synonyms))
	if n := strings.ToLower(strings.TrimSpace(s.Name)); n != "" {
		names = append(names, n)
	}
	for _, syn := range s.Synonyms {
		if n := strings.ToLower(strings.TrimSpace(syn)); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// categoryFraction grants full credit when any of the candidate's skill
// categories relates to the job's category.
func categoryFraction(c model.Candidate, j model.Job, tables *match.Tables) float64 {
	if j.Category == "" {
		return 0
	}
	for _, cs := range c.Skills {
		if tables.CategoriesRelated(cs.Skill.Category, j.Category) {
			return 1
		}
	}
	return 0
}

// employmentFraction checks employment type, work mode and arrangement;
// each agreement is worth a third of the component.
func employmentFraction(c model.Candidate, j model.Job) float64 {
	matches := 0
	if equalFoldNonEmpty(c.EmploymentType, j.EmploymentType) {
		matches++
	}
	if equalFoldNonEmpty(c.WorkMode, j.WorkMode) {
		matches++
	}
	if equalFoldNonEmpty(c.Arrangement, j.Arrangement) {
		matches++
	}
	return float64(matches) / 3
}

func locationFraction(c model.Candidate, j model.Job) float64 {
	if equalFoldNonEmpty(c.City, j.City) {
		return 1
	}
	if equalFoldNonEmpty(c.State, j.State) {
		credit := locStateCredit
		if citySubstringRelated(c.City, j.City) {
			credit += locCityBonus
		}
		return credit
	}
	pref := strings.ToLower(c.PreferredLocation)
	if pref != "" {
		if containsNonEmpty(pref, j.City) || containsNonEmpty(pref, j.State) {
			return locPreferredCredit
		}
	}
	return 0
}

func citySubstringRelated(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// SalaryOverlap returns the overlap between the candidate's expected range
// and the job's offered range as a fraction of the smaller of the two
// ranges. It is symmetric, 0 for disjoint ranges or when either side states
// no salary, and treats a degenerate point range as contained-or-not.
func SalaryOverlap(aMin, aMax, bMin, bMax *float64) float64 {
	aLo, aHi, ok := normalizeRange(aMin, aMax)
	if !ok {
		return 0
	}
	bLo, bHi, ok := normalizeRange(bMin, bMax)
	if !ok {
		return 0
	}

	lo := math.Max(aLo, bLo)
	hi := math.Min(aHi, bHi)
	if hi < lo {
		return 0
	}

	smaller := math.Min(aHi-aLo, bHi-bLo)
	if smaller == 0 {
		// Point range: contained in the other range or not.
		return 1
	}
	return (hi - lo) / smaller
}

// normalizeRange treats a single stated bound as a point range. Inverted
// bounds count as no salary stated.
func normalizeRange(min, max *float64) (lo, hi float64, ok bool) {
	switch {
	case min == nil && max == nil:
		return 0, 0, false
	case min == nil:
		return *max, *max, true
	case max == nil:
		return *min, *min, true
	case *max < *min:
		return 0, 0, false
	default:
		return *min, *max, true
	}
}

func equalFoldNonEmpty(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	return a != "" && b != "" && strings.EqualFold(a, b)
}

func containsNonEmpty(haystack, needle string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	return needle != "" && strings.Contains(haystack, needle)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
