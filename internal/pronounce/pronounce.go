// Package pronounce scores speech transcripts against the text a learner
// was asked to read aloud.
package pronounce

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
)

// DefaultPassScore is the overall score fraction needed to pass.
const DefaultPassScore = 0.8

// wordMatchThreshold is how similar a spoken word must be to count as a
// match for an expected word.
const wordMatchThreshold = 0.75

// Evaluation describes how well a transcript matched the expected text.
// Scores are percentages.
type Evaluation struct {
	IsExactMatch      bool     `json:"isExactMatch"`
	WordMatchScore    int      `json:"wordMatchScore"`
	EditDistanceScore int      `json:"editDistanceScore"`
	OverallScore      int      `json:"overallScore"`
	IsPassing         bool     `json:"isPassing"`
	RecognizedWords   []string `json:"recognizedWords"`
	ExpectedWords     []string `json:"expectedWords"`
	MatchedWords      int      `json:"matchedWords"`
}

// Evaluator scores a transcript.
type Evaluator interface {
	Evaluate(ctx context.Context, transcript, expected string) (Evaluation, error)
}

// TranscriptEvaluator compares transcripts using normalized edit distance.
type TranscriptEvaluator struct {
	passScore float64
}

// NewTranscriptEvaluator returns an evaluator passing at passScore (0..1).
// A non-positive value selects DefaultPassScore.
func NewTranscriptEvaluator(passScore float64) *TranscriptEvaluator {
	if passScore <= 0 || passScore > 1 {
		passScore = DefaultPassScore
	}
	return &TranscriptEvaluator{passScore: passScore}
}

// Evaluate never fails; an empty transcript is a failing evaluation.
func (e *TranscriptEvaluator) Evaluate(_ context.Context, transcript, expected string) (Evaluation, error) {
	want := words(expected)
	got := words(transcript)

	ev := Evaluation{
		RecognizedWords: got,
		ExpectedWords:   want,
	}
	if len(got) == 0 || len(want) == 0 {
		return ev, nil
	}

	joinedGot, joinedWant := strings.Join(got, " "), strings.Join(want, " ")
	if joinedGot == joinedWant {
		ev.IsExactMatch = true
		ev.MatchedWords = len(want)
		ev.WordMatchScore = 100
		ev.EditDistanceScore = 100
		ev.OverallScore = 100
		ev.IsPassing = true
		return ev, nil
	}

	ev.MatchedWords = matchWords(got, want)
	ev.WordMatchScore = percent(float64(ev.MatchedWords) / float64(len(want)))
	ev.EditDistanceScore = percent(levenshtein.Similarity(joinedGot, joinedWant, nil))
	ev.OverallScore = int(math.Round(0.6*float64(ev.WordMatchScore) + 0.4*float64(ev.EditDistanceScore)))
	ev.IsPassing = float64(ev.OverallScore) >= e.passScore*100
	return ev, nil
}

// matchWords counts expected words that have a close spoken counterpart.
// Each spoken word is used at most once.
func matchWords(got, want []string) int {
	used := make([]bool, len(got))
	matched := 0
	for _, w := range want {
		best, bestSim := -1, 0.0
		for i, g := range got {
			if used[i] {
				continue
			}
			if sim := levenshtein.Similarity(g, w, nil); sim > bestSim {
				best, bestSim = i, sim
			}
		}
		if best >= 0 && bestSim >= wordMatchThreshold {
			used[best] = true
			matched++
		}
	}
	return matched
}

func words(s string) []string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		if r == '-' {
			return ' '
		}
		return -1
	}, s)
	out := strings.Fields(s)
	if out == nil {
		return []string{}
	}
	return out
}

func percent(f float64) int {
	return int(math.Round(f * 100))
}
