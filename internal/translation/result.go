// Package translation judges a learner's English rendering of a Vietnamese
// example sentence.
package translation

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// DefaultPassScore is the minimum quality score that counts as correct.
const DefaultPassScore = 80

// ScoreUnavailable marks a result produced without a quality check.
const ScoreUnavailable = -1

// Request is one translation to evaluate.
type Request struct {
	Vietnamese      string `json:"vietnamese" validate:"required"`
	UserTranslation string `json:"userTranslation" validate:"required"`
	VocabularyWord  string `json:"vocabularyWord" validate:"required"`
}

// GrammarError is a single grammar problem in the learner's sentence.
type GrammarError struct {
	Message    string `json:"message"`
	Context    string `json:"context"`
	Suggestion string `json:"suggestion"`
}

// Result is the outcome of a translation check.
type Result struct {
	GrammarCorrect       bool           `json:"grammarCorrect"`
	GrammarErrors        []GrammarError `json:"grammarErrors"`
	IsCorrect            bool           `json:"isCorrect"`
	Score                int            `json:"score"`
	Feedback             string         `json:"feedback"`
	Suggestions          []string       `json:"suggestions"`
	ReferenceTranslation string         `json:"referenceTranslation"`
}

// Checker evaluates translations.
type Checker interface {
	Check(ctx context.Context, req Request) (Result, error)
}

// Unavailable is the result used when no checker could score the
// translation. It passes on grammar and score.
func Unavailable(feedback string) Result {
	if feedback == "" {
		feedback = "Translation check unavailable"
	}
	return Result{
		GrammarCorrect: true,
		GrammarErrors:  []GrammarError{},
		IsCorrect:      true,
		Score:          ScoreUnavailable,
		Feedback:       feedback,
		Suggestions:    []string{},
	}
}

// CheckOrUnavailable runs c and degrades to Unavailable on any failure.
// A nil checker is treated as not configured.
func CheckOrUnavailable(ctx context.Context, c Checker, req Request, logger *zap.Logger) Result {
	if c == nil {
		return Unavailable("Translation check unavailable (not configured)")
	}
	res, err := c.Check(ctx, req)
	if err != nil {
		if logger != nil {
			logger.Warn("translation check failed", zap.Error(err))
		}
		return Unavailable("")
	}
	return res
}

// Verdict decides whether a translation counts as correct: it must use the
// vocabulary word, be grammatical, and either be unscored or reach
// passScore.
func Verdict(r Result, containsWord bool, passScore int) bool {
	semanticOK := r.Score == ScoreUnavailable || r.Score >= passScore
	return containsWord && r.GrammarCorrect && semanticOK
}

// ContainsWord reports whether text uses word or one of its family forms
// as a whole word, ignoring case.
func ContainsWord(text, word string, family []string) bool {
	for _, form := range append([]string{word}, family...) {
		form = strings.TrimSpace(form)
		if form == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(form) + `\b`)
		if err != nil {
			continue
		}
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
