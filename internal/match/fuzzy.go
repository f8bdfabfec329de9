// Package match implements the shared fuzzy-matching helpers used by the
// recommendation and vetting engines: Levenshtein edit distance, word-overlap
// ratios, title similarity, and table-driven category matching.
//
// All helpers are stateless and operate on lowercased, trimmed input.
package match

import "strings"

// EditDistance returns the classic dynamic-programming Levenshtein distance
// between a and b, counted in runes.
func EditDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity returns a normalized edit-distance similarity in [0, 1]:
// (maxLen − distance) / maxLen. Two empty strings are identical (1).
func Similarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	return float64(maxLen-EditDistance(a, b)) / float64(maxLen)
}

// WordOverlap returns the fraction of words from the shorter word set that
// also appear in the other. Comparison is case-insensitive.
func WordOverlap(a, b string) float64 {
	wa := fieldsLower(a)
	wb := fieldsLower(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	if len(wb) < len(wa) {
		wa, wb = wb, wa
	}
	set := make(map[string]struct{}, len(wb))
	for _, w := range wb {
		set[w] = struct{}{}
	}
	shared := 0
	for _, w := range wa {
		if _, ok := set[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(wa))
}

// TitleSimilarity scores how closely two free-text job titles match:
// exact match = 1.0, substring containment = 0.8, otherwise a blend of
// word-overlap ratio (60%) and normalized edit-distance similarity (40%).
func TitleSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}
	return 0.6*WordOverlap(a, b) + 0.4*Similarity(a, b)
}

func fieldsLower(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
