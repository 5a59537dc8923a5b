package pronounce

import (
	"context"
	"fmt"
)

// Attempt is a single spoken try. Skipped attempts have no transcript.
type Attempt struct {
	Transcript string
	Skipped    bool
}

// PairResult holds the word and sentence evaluations of one item.
type PairResult struct {
	Word     Evaluation `json:"word"`
	Sentence Evaluation `json:"sentence"`
	Passed   bool       `json:"passed"`
}

// EvaluatePair checks the word first, then the example sentence. Both must
// pass. A skipped or silent attempt counts as a failure.
func EvaluatePair(ctx context.Context, e Evaluator, word, sentence string, wordTry, sentenceTry Attempt) (PairResult, error) {
	var res PairResult

	wordEval, err := evaluateAttempt(ctx, e, word, wordTry)
	if err != nil {
		return res, fmt.Errorf("evaluate word: %w", err)
	}
	res.Word = wordEval

	sentenceEval, err := evaluateAttempt(ctx, e, sentence, sentenceTry)
	if err != nil {
		return res, fmt.Errorf("evaluate sentence: %w", err)
	}
	res.Sentence = sentenceEval

	res.Passed = wordEval.IsPassing && sentenceEval.IsPassing
	return res, nil
}

func evaluateAttempt(ctx context.Context, e Evaluator, expected string, a Attempt) (Evaluation, error) {
	if a.Skipped || a.Transcript == "" {
		return Evaluation{
			RecognizedWords: []string{},
			ExpectedWords:   words(expected),
		}, nil
	}
	return e.Evaluate(ctx, a.Transcript, expected)
}
