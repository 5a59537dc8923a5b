package phase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/wordbloom/internal/catalog"
	"github.com/abhisek/wordbloom/internal/pronounce"
	"github.com/abhisek/wordbloom/internal/translation"
)

// Judge scores the pronunciation and translation phases of a Machine.
type Judge struct {
	evaluator pronounce.Evaluator
	checker   translation.Checker
	passScore int
	logger    *zap.Logger
}

// NewJudge returns a Judge. A nil checker makes every translation check
// unavailable; passScore <= 0 selects translation.DefaultPassScore.
func NewJudge(ev pronounce.Evaluator, checker translation.Checker, passScore int, logger *zap.Logger) *Judge {
	if passScore <= 0 {
		passScore = translation.DefaultPassScore
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Judge{evaluator: ev, checker: checker, passScore: passScore, logger: logger}
}

// PronunciationSentence is the example sentence read aloud after the word.
func PronunciationSentence(item catalog.Item) string {
	if len(item.Examples) == 0 {
		return ""
	}
	return item.Examples[0].English
}

// Pronunciation evaluates the spoken word and sentence and advances m.
// Items without an example sentence are judged on the word alone.
func (j *Judge) Pronunciation(ctx context.Context, m *Machine, wordTry, sentenceTry pronounce.Attempt) (pronounce.PairResult, error) {
	if m.State() != StatePronunciation {
		return pronounce.PairResult{}, ErrWrongPhase
	}

	item := m.Item()
	sentence := PronunciationSentence(item)
	if sentence == "" {
		sentenceTry = pronounce.Attempt{Skipped: true}
	}

	res, err := pronounce.EvaluatePair(ctx, j.evaluator, item.Word, sentence, wordTry, sentenceTry)
	if err != nil {
		return res, fmt.Errorf("pronunciation of %q: %w", item.Word, err)
	}
	if sentence == "" {
		res.Passed = res.Word.IsPassing
	}

	if err := m.CompletePronunciation(res.Passed); err != nil {
		return res, err
	}
	return res, nil
}

// TranslationOutcome is the checker result together with the verdict.
type TranslationOutcome struct {
	Prompt       catalog.Example    `json:"prompt"`
	Result       translation.Result `json:"result"`
	ContainsWord bool               `json:"containsWord"`
	Passed       bool               `json:"passed"`
}

// Translation checks userTranslation against the item's translation prompt
// and advances m. Checker failures degrade to the unavailable result.
// Items without example sentences pass this phase.
func (j *Judge) Translation(ctx context.Context, m *Machine, userTranslation string) (TranslationOutcome, error) {
	if m.State() != StateTranslation {
		return TranslationOutcome{}, ErrWrongPhase
	}

	item := m.Item()
	prompt, ok := catalog.TranslationPrompt(item)
	if !ok {
		out := TranslationOutcome{Result: translation.Unavailable("No sentence to translate"), ContainsWord: true, Passed: true}
		return out, m.CompleteTranslation(true)
	}

	contains := translation.ContainsWord(userTranslation, item.Word, item.WordFamily)
	res := translation.CheckOrUnavailable(ctx, j.checker, translation.Request{
		Vietnamese:      prompt.Vietnamese,
		UserTranslation: userTranslation,
		VocabularyWord:  item.Word,
	}, j.logger)

	out := TranslationOutcome{
		Prompt:       prompt,
		Result:       res,
		ContainsWord: contains,
		Passed:       translation.Verdict(res, contains, j.passScore),
	}
	return out, m.CompleteTranslation(out.Passed)
}
