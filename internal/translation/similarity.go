package translation

import (
	"math"
	"strings"
)

var comparisonPunct = strings.NewReplacer(
	".", "", ",", "", "!", "", "?", "", ";", "", ":", "",
	"'", "", `"`, "", "(", "", ")", "", "-", "",
)

func normalizeForComparison(s string) []string {
	return strings.Fields(comparisonPunct.Replace(strings.ToLower(s)))
}

// Similarity is the percentage of distinct shared words between a and b
// relative to their combined vocabulary.
func Similarity(a, b string) int {
	wa, wb := normalizeForComparison(a), normalizeForComparison(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	setB := make(map[string]bool, len(wb))
	for _, w := range wb {
		setB[w] = true
	}
	union := make(map[string]bool, len(wa)+len(wb))
	matches := 0
	seen := make(map[string]bool, len(wa))
	for _, w := range wa {
		union[w] = true
		if !seen[w] && setB[w] {
			matches++
		}
		seen[w] = true
	}
	for w := range setB {
		union[w] = true
	}
	return int(math.Round(float64(matches) / float64(len(union)) * 100))
}

// correctIfSimilar lifts under-scored results whose wording closely matches
// the reference translation.
func correctIfSimilar(userTranslation string, r Result) Result {
	if r.ReferenceTranslation == "" {
		return r
	}
	sim := Similarity(userTranslation, r.ReferenceTranslation)

	switch {
	case sim >= 90 && r.Score < 90:
		r.Score = max(r.Score, 95)
		r.IsCorrect = true
		r.Feedback = "Excellent! Your translation matches the reference very closely."
		r.Suggestions = []string{}
	case sim >= 80 && r.Score < 80:
		r.Score = max(r.Score, 85)
		r.IsCorrect = true
		if r.Feedback == "" {
			r.Feedback = "Good translation with minor differences."
		}
		if len(r.Suggestions) > 2 {
			r.Suggestions = r.Suggestions[:1]
		}
	}
	return r
}
