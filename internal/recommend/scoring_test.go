package recommend_test

import (
	"math"
	"testing"

	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/match"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/model"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/recommend"
)

func floatPtr(v float64) *float64 { return &v }

func skill(id, name string, synonyms ...string) model.Skill {
	return model.Skill{ID: id, Name: name, Synonyms: synonyms}
}

func candidateSkill(id, name string, synonyms ...string) model.CandidateSkill {
	return model.CandidateSkill{Skill: skill(id, name, synonyms...)}
}

func TestSalaryOverlap(t *testing.T) {
	cases := []struct {
		name                   string
		aMin, aMax, bMin, bMax *float64
		want                   float64
	}{
		{"identical ranges", floatPtr(100), floatPtr(200), floatPtr(100), floatPtr(200), 1},
		{"disjoint", floatPtr(100), floatPtr(200), floatPtr(300), floatPtr(400), 0},
		{"half overlap of smaller", floatPtr(100), floatPtr(200), floatPtr(150), floatPtr(250), 0.5},
		{"contained smaller range", floatPtr(100), floatPtr(400), floatPtr(150), floatPtr(200), 1},
		{"no salary on one side", nil, nil, floatPtr(100), floatPtr(200), 0},
		{"no salary on either side", nil, nil, nil, nil, 0},
		{"point inside range", floatPtr(150), floatPtr(150), floatPtr(100), floatPtr(200), 1},
		{"point outside range", floatPtr(500), floatPtr(500), floatPtr(100), floatPtr(200), 0},
		{"single bound treated as point", floatPtr(150), nil, floatPtr(100), floatPtr(200), 1},
		{"inverted bounds mean no salary", floatPtr(200), floatPtr(100), floatPtr(100), floatPtr(200), 0},
	}
	for _, c := range cases {
		got := recommend.SalaryOverlap(c.aMin, c.aMax, c.bMin, c.bMax)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%s: SalaryOverlap = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestSalaryOverlap_Symmetric(t *testing.T) {
	cases := [][4]*float64{
		{floatPtr(100), floatPtr(200), floatPtr(150), floatPtr(250)},
		{floatPtr(100), floatPtr(200), floatPtr(300), floatPtr(400)},
		{floatPtr(150), floatPtr(150), floatPtr(100), floatPtr(200)},
		{nil, nil, floatPtr(100), floatPtr(200)},
	}
	for _, c := range cases {
		ab := recommend.SalaryOverlap(c[0], c[1], c[2], c[3])
		ba := recommend.SalaryOverlap(c[2], c[3], c[0], c[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("SalaryOverlap not symmetric: %v vs %v", ab, ba)
		}
	}
}

// A candidate holding JavaScript against a job requiring JavaScript and
// React matches half the required skills: 0.5 × 35 = 17.5 points.
func TestScore_SkillComponentHalfMatch(t *testing.T) {
	candidate := model.Candidate{
		ID:     "cand-1",
		Skills: []model.CandidateSkill{candidateSkill("s-js", "JavaScript")},
	}
	job := model.Job{
		ID:             "job-1",
		RequiredSkills: []model.Skill{skill("s-js", "JavaScript"), skill("s-react", "React")},
	}

	_, breakdown := recommend.Score(candidate, job, match.Default())
	if got := breakdown["skills"]; math.Abs(got-17.5) > 1e-9 {
		t.Errorf("skills component = %v, want 17.5", got)
	}
}

func TestScore_SoftSkillMatchViaSynonym(t *testing.T) {
	candidate := model.Candidate{
		Skills: []model.CandidateSkill{candidateSkill("s-1", "JS", "JavaScript")},
	}
	job := model.Job{
		RequiredSkills: []model.Skill{skill("s-2", "JavaScript")},
	}

	_, breakdown := recommend.Score(candidate, job, match.Default())
	// Candidate's synonym list contains the exact required name, so this
	// counts as a full name match, not a soft one.
	if got := breakdown["skills"]; math.Abs(got-35) > 1e-9 {
		t.Errorf("skills component = %v, want 35 for a name match via synonyms", got)
	}
}

func TestScore_SoftSkillPartialCredit(t *testing.T) {
	candidate := model.Candidate{
		Skills: []model.CandidateSkill{candidateSkill("s-1", "ECMAScript")},
	}
	job := model.Job{
		RequiredSkills: []model.Skill{skill("s-2", "JavaScript", "ECMAScript")},
	}

	_, breakdown := recommend.Score(candidate, job, match.Default())
	// The job skill's synonym overlaps the candidate's skill name: soft
	// match at 0.7 weight → 0.7 × 35 = 24.5.
	if got := breakdown["skills"]; math.Abs(got-24.5) > 1e-9 {
		t.Errorf("skills component = %v, want 24.5 for a soft match", got)
	}
}

func TestScore_EmploymentPreferences(t *testing.T) {
	candidate := model.Candidate{
		EmploymentType: "FULL_TIME",
		WorkMode:       "REMOTE",
		Arrangement:    "PERMANENT",
	}
	cases := []struct {
		name string
		job  model.Job
		want float64
	}{
		{"all three match", model.Job{EmploymentType: "FULL_TIME", WorkMode: "REMOTE", Arrangement: "PERMANENT"}, 12},
		{"two match", model.Job{EmploymentType: "FULL_TIME", WorkMode: "REMOTE", Arrangement: "CONTRACT"}, 8},
		{"one matches", model.Job{EmploymentType: "FULL_TIME", WorkMode: "ONSITE", Arrangement: "CONTRACT"}, 4},
		{"none match", model.Job{EmploymentType: "PART_TIME", WorkMode: "ONSITE", Arrangement: "CONTRACT"}, 0},
		{"empty job fields never match", model.Job{}, 0},
	}
	for _, c := range cases {
		_, breakdown := recommend.Score(candidate, c.job, match.Default())
		if got := breakdown["employment"]; math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%s: employment component = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestScore_LocationFallbacks(t *testing.T) {
	job := model.Job{State: "Lagos", City: "Ikeja"}
	cases := []struct {
		name      string
		candidate model.Candidate
		want      float64
	}{
		{"city exact", model.Candidate{City: "Ikeja", State: "Oyo"}, 12},
		{"state only", model.Candidate{State: "Lagos", City: "Badagry"}, 6},
		{"state with related city", model.Candidate{State: "Lagos", City: "Ikeja GRA"}, 9},
		{"preferred location text", model.Candidate{State: "Oyo", PreferredLocation: "anywhere in Ikeja or Abuja"}, 3.6},
		{"no relation", model.Candidate{State: "Kano", City: "Wudil"}, 0},
	}
	for _, c := range cases {
		_, breakdown := recommend.Score(c.candidate, job, match.Default())
		if got := breakdown["location"]; math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%s: location component = %v, want %v", c.name, got, c.want)
		}
	}
}

// City exact match must win even when states disagree.
func TestScore_LocationCityBeatsStateMismatch(t *testing.T) {
	candidate := model.Candidate{City: "Ikeja", State: "Oyo"}
	job := model.Job{City: "Ikeja", State: "Lagos"}
	_, breakdown := recommend.Score(candidate, job, match.Default())
	if got := breakdown["location"]; math.Abs(got-12) > 1e-9 {
		t.Errorf("location component = %v, want full 12 on city match", got)
	}
}

func TestScore_TotalBounded(t *testing.T) {
	perfect := model.Candidate{
		JobTitle:       "Software Engineer",
		City:           "Ikeja",
		State:          "Lagos",
		SalaryMin:      floatPtr(100),
		SalaryMax:      floatPtr(200),
		EmploymentType: "FULL_TIME",
		WorkMode:       "REMOTE",
		Arrangement:    "PERMANENT",
		Skills: []model.CandidateSkill{
			{Skill: model.Skill{ID: "s-1", Name: "Go", Category: "programming"}},
		},
	}
	job := model.Job{
		Title:          "Software Engineer",
		Category:       "technology",
		City:           "Ikeja",
		State:          "Lagos",
		SalaryMin:      floatPtr(100),
		SalaryMax:      floatPtr(200),
		EmploymentType: "FULL_TIME",
		WorkMode:       "REMOTE",
		Arrangement:    "PERMANENT",
		RequiredSkills: []model.Skill{{ID: "s-1", Name: "Go"}},
	}

	score, _ := recommend.Score(perfect, job, match.Default())
	if math.Abs(score-100) > 1e-9 {
		t.Errorf("perfect match score = %v, want 100", score)
	}

	score, _ = recommend.Score(model.Candidate{}, model.Job{Title: "x"}, match.Default())
	if score < 0 || score > 100 {
		t.Errorf("empty-profile score = %v, outside [0, 100]", score)
	}
}
