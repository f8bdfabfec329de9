package match

import "strings"

const (
	// categoryEditSimThreshold is the minimum normalized edit-distance
	// similarity for two short category names to count as related.
	categoryEditSimThreshold = 0.7

	// shortCategoryMaxLen bounds the edit-distance fallback to short names:
	// beyond this length, near-miss spellings are more likely distinct terms.
	shortCategoryMaxLen = 20
)

// CategoriesRelated reports whether a candidate skill category matches a job
// category. The checks cascade from cheapest to fuzziest:
//
//  1. direct relation in the static category table (includes equality),
//  2. case-insensitive substring containment,
//  3. shared keyword group (e.g. {tech, technical, technology}),
//  4. normalized edit-distance similarity >= 0.7, short names only.
func (t *Tables) CategoriesRelated(skillCategory, jobCategory string) bool {
	a := normCategory(skillCategory)
	b := normCategory(jobCategory)
	if a == "" || b == "" {
		return false
	}

	if t.Linked(a, b) {
		return true
	}
	if containsEither(a, b) {
		return true
	}
	if t.SameKeywordGroup(a, b) {
		return true
	}
	if len([]rune(a)) <= shortCategoryMaxLen && len([]rune(b)) <= shortCategoryMaxLen {
		return Similarity(a, b) >= categoryEditSimThreshold
	}
	return false
}

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
