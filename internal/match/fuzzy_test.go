package match_test

import (
	"math"
	"testing"

	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/match"
)

func TestEditDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"developer", "developer", 0},
		{"driver", "diver", 1},
	}
	for _, c := range cases {
		if got := match.EditDistance(c.a, c.b); got != c.want {
			t.Errorf("EditDistance(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestEditDistance_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"nurse", "nursing"},
		{"", "teacher"},
	}
	for _, p := range pairs {
		ab := match.EditDistance(p[0], p[1])
		ba := match.EditDistance(p[1], p[0])
		if ab != ba {
			t.Errorf("EditDistance(%q, %q) = %d but reversed = %d", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"abc", "abc", 1},
		{"abc", "xyz", 0},
		{"abcd", "abce", 0.75},
	}
	for _, c := range cases {
		if got := match.Similarity(c.a, c.b); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestSimilarity_Bounded(t *testing.T) {
	pairs := [][2]string{
		{"software engineer", "hardware technician"},
		{"a", "completely different"},
		{"x", ""},
	}
	for _, p := range pairs {
		got := match.Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %v, outside [0, 1]", p[0], p[1], got)
		}
	}
}

func TestWordOverlap(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"senior software engineer", "software engineer", 1},
		{"software engineer", "engineer", 1},
		{"frontend developer", "backend developer", 0.5},
		{"cook", "driver", 0},
		{"", "anything", 0},
	}
	for _, c := range cases {
		if got := match.WordOverlap(c.a, c.b); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("WordOverlap(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestTitleSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"exact", "Software Engineer", "software engineer", 1},
		{"containment", "Senior Software Engineer", "Software Engineer", 0.8},
		{"empty side", "", "Software Engineer", 0},
		{"both empty", "", "", 0},
	}
	for _, c := range cases {
		if got := match.TitleSimilarity(c.a, c.b); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%s: TitleSimilarity(%q, %q) = %v, want %v", c.name, c.a, c.b, got, c.want)
		}
	}
}

// The blended branch is 0.6×word-overlap + 0.4×edit-similarity.
func TestTitleSimilarity_Blend(t *testing.T) {
	a, b := "frontend developer", "backend developer"
	want := 0.6*match.WordOverlap(a, b) + 0.4*match.Similarity(a, b)
	if got := match.TitleSimilarity(a, b); math.Abs(got-want) > 1e-9 {
		t.Errorf("TitleSimilarity(%q, %q) = %v, want blend %v", a, b, got, want)
	}
	if got := match.TitleSimilarity(a, b); got < 0 || got > 1 {
		t.Errorf("TitleSimilarity(%q, %q) = %v, outside [0, 1]", a, b, got)
	}
}
