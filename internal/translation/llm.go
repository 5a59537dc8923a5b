package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"

	"github.com/abhisek/wordbloom/internal/llm"
)

const (
	maxGrammarErrors = 5
	maxSuggestions   = 3
	defaultScore     = 50
)

var errNoJSONObject = errors.New("no JSON object in response")

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// checkSchema describes the evaluation object requested from the model.
// Every field is optional so partial answers still parse with defaults.
var checkSchema = &llm.Schema{
	Name:        "translation-check",
	Description: "Evaluation of a learner's English translation of a Vietnamese sentence",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"referenceTranslation": map[string]any{"type": "string"},
			"grammarCorrect":       map[string]any{"type": "boolean"},
			"grammarErrors": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"message":    map[string]any{"type": "string"},
						"context":    map[string]any{"type": "string"},
						"suggestion": map[string]any{"type": "string"},
					},
				},
			},
			"isCorrect": map[string]any{"type": "boolean"},
			"score":     map[string]any{"type": "number"},
			"feedback":  map[string]any{"type": "string"},
			"suggestions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	},
}

const systemPrompt = `You are an expert Vietnamese-English translation evaluator for language learners.
Translate Vietnamese accurately before judging, paying close attention to compound nouns.
For example "Cá voi lưng gù" is "Humpback whale" (not dolphin), "Cá heo" is "Dolphin", "Voi" is "Elephant".
Be encouraging but honest. Accept natural variations in wording when the meaning is preserved.
Always respond with a single valid JSON object.`

const promptTemplate = `Evaluate this English translation of a Vietnamese sentence.

Vietnamese: %q
Learner's translation: %q
Vocabulary word that should be used: %q

Respond with JSON containing:
- referenceTranslation: your accurate English translation
- grammarCorrect: whether the learner's sentence is grammatical
- grammarErrors: list of {message, context, suggestion}
- isCorrect: whether the meaning is preserved
- score: 0-100
- feedback: one or two sentences for the learner
- suggestions: up to 3 short improvement tips

Scoring guide:
- 95-100: meaning fully preserved, natural English
- 85-94: meaning preserved with minor wording differences
- 70-84: mostly correct with noticeable errors
- below 70: meaning lost or seriously wrong`

// LLMChecker evaluates translations with a language model.
type LLMChecker struct {
	provider  llm.Provider
	maxTokens int
}

// NewLLMChecker returns a checker backed by p.
func NewLLMChecker(p llm.Provider) *LLMChecker {
	return &LLMChecker{provider: p, maxTokens: 1024}
}

// Check asks the model for an evaluation and normalizes the answer.
func (c *LLMChecker) Check(ctx context.Context, req Request) (Result, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeTranslationCheck)

	resp, err := c.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf(promptTemplate, req.Vietnamese, req.UserTranslation, req.VocabularyWord),
		}},
		Schema:      checkSchema,
		MaxTokens:   c.maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return Result{}, fmt.Errorf("generate evaluation: %w", err)
	}

	res, err := parseEvaluation(resp.Content, req.Vietnamese)
	if err != nil {
		return Result{}, fmt.Errorf("parse evaluation: %w", err)
	}
	return correctIfSimilar(req.UserTranslation, res), nil
}

// OfflineAnswer is the canned evaluation of the "mock" provider: every
// translation is accepted, so quizzes run end to end without a model.
func OfflineAnswer() llm.MockResponse {
	return llm.MockJSON(map[string]any{
		"grammarCorrect": true,
		"isCorrect":      true,
		"score":          100,
		"feedback":       "Accepted without checking (offline mode).",
	})
}

type rawEvaluation struct {
	ReferenceTranslation *string           `json:"referenceTranslation"`
	GrammarCorrect       *bool             `json:"grammarCorrect"`
	GrammarErrors        []json.RawMessage `json:"grammarErrors"`
	IsCorrect            *bool             `json:"isCorrect"`
	Score                *float64          `json:"score"`
	Feedback             *string           `json:"feedback"`
	Suggestions          []json.RawMessage `json:"suggestions"`
}

// parseEvaluation accepts either a JSON object or a JSON string wrapping
// free text that contains one.
func parseEvaluation(content json.RawMessage, vietnamese string) (Result, error) {
	body := []byte(content)
	var text string
	if err := json.Unmarshal(content, &text); err == nil {
		body = []byte(text)
	}
	obj := jsonObject.Find(body)
	if obj == nil {
		return Result{}, errNoJSONObject
	}

	var raw rawEvaluation
	if err := json.Unmarshal(obj, &raw); err != nil {
		return Result{}, err
	}

	res := Result{
		GrammarCorrect:       deref(raw.GrammarCorrect, true),
		IsCorrect:            deref(raw.IsCorrect, true),
		Score:                defaultScore,
		Feedback:             deref(raw.Feedback, "Translation evaluated."),
		ReferenceTranslation: deref(raw.ReferenceTranslation, "(Translation of: "+vietnamese+")"),
		GrammarErrors:        []GrammarError{},
		Suggestions:          []string{},
	}
	if raw.Score != nil {
		res.Score = int(math.Round(min(max(*raw.Score, 0), 100)))
	}

	for _, m := range raw.GrammarErrors {
		if len(res.GrammarErrors) == maxGrammarErrors {
			break
		}
		var ge struct {
			Message    *string `json:"message"`
			Context    string  `json:"context"`
			Suggestion string  `json:"suggestion"`
		}
		if err := json.Unmarshal(m, &ge); err != nil {
			continue
		}
		res.GrammarErrors = append(res.GrammarErrors, GrammarError{
			Message:    deref(ge.Message, "Grammar issue"),
			Context:    ge.Context,
			Suggestion: ge.Suggestion,
		})
	}

	for _, m := range raw.Suggestions {
		if len(res.Suggestions) == maxSuggestions {
			break
		}
		var s string
		if err := json.Unmarshal(m, &s); err == nil {
			res.Suggestions = append(res.Suggestions, s)
		}
	}
	return res, nil
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
