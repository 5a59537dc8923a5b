package translation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/wordbloom/internal/llm"
)

func TestContainsWord(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		word   string
		family []string
		want   bool
	}{
		{"exact", "The whale swims", "whale", nil, true},
		{"case insensitive", "WHALE ahead", "whale", nil, true},
		{"substring is not a word", "whalebone is old", "whale", nil, false},
		{"family form", "They migrated south", "migrate", []string{"migration", "migrated"}, true},
		{"missing", "A dolphin jumps", "whale", []string{"whales"}, false},
		{"regexp metacharacters", "Use C++ daily", "c++", nil, false},
		{"phrase", "We set off early", "set off", nil, true},
		{"blank family entries", "nothing here", "whale", []string{"", "  "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsWord(tt.text, tt.word, tt.family))
		})
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		contains bool
		want     bool
	}{
		{"all good", Result{GrammarCorrect: true, Score: 90}, true, true},
		{"boundary score", Result{GrammarCorrect: true, Score: 80}, true, true},
		{"low score", Result{GrammarCorrect: true, Score: 79}, true, false},
		{"unavailable score passes", Unavailable(""), true, true},
		{"unavailable still needs the word", Unavailable(""), false, false},
		{"grammar wrong", Result{GrammarCorrect: false, Score: 100}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verdict(tt.result, tt.contains, DefaultPassScore))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 100, Similarity("The whale swims.", "the WHALE swims"))
	assert.Equal(t, 0, Similarity("", "anything"))
	// {the, whale, swims} vs {the, whale, dives}: 2 shared of 4.
	assert.Equal(t, 50, Similarity("the whale swims", "the whale dives"))
	assert.Equal(t, 100, Similarity("it's well-known", "its wellknown"))
}

func mockJSON(t *testing.T, v any) llm.MockResponse {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return llm.MockResponse{Content: b}
}

func humpbackRequest() Request {
	return Request{
		Vietnamese:      "Cá voi lưng gù hát dưới nước.",
		UserTranslation: "The humpback whale sings under water.",
		VocabularyWord:  "whale",
	}
}

func TestLLMChecker_Check(t *testing.T) {
	mock := llm.NewMockProvider(mockJSON(t, map[string]any{
		"referenceTranslation": "Humpback whales sing underwater.",
		"grammarCorrect":       true,
		"isCorrect":            true,
		"score":                92,
		"feedback":             "Nice work.",
		"suggestions":          []any{"Try 'underwater' as one word."},
	}))

	res, err := NewLLMChecker(mock).Check(context.Background(), humpbackRequest())
	require.NoError(t, err)

	assert.Equal(t, 92, res.Score)
	assert.True(t, res.GrammarCorrect)
	assert.Equal(t, "Nice work.", res.Feedback)
	assert.Equal(t, []string{"Try 'underwater' as one word."}, res.Suggestions)
	assert.Empty(t, res.GrammarErrors)

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	require.NotNil(t, call.Schema)
	assert.Equal(t, "translation-check", call.Schema.Name)
	assert.InDelta(t, 0.3, call.Temperature, 1e-9)
	require.Len(t, call.Messages, 1)
	assert.Contains(t, call.Messages[0].Content, "Cá voi lưng gù")
	assert.Contains(t, call.Messages[0].Content, `"whale"`)
}

func TestOfflineAnswer_AcceptsEveryCheck(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.SetFallback(OfflineAnswer())
	checker := NewLLMChecker(mock)

	for range 3 {
		res, err := checker.Check(context.Background(), humpbackRequest())
		require.NoError(t, err)
		assert.Equal(t, 100, res.Score)
		assert.True(t, Verdict(res, true, 80))
	}
	assert.Equal(t, 3, mock.CallCount())
}

func TestLLMChecker_Normalizes(t *testing.T) {
	errs := make([]any, 0, 7)
	errs = append(errs, "not an object", map[string]any{"context": "x"})
	for range 6 {
		errs = append(errs, map[string]any{"message": "tense"})
	}

	mock := llm.NewMockProvider(mockJSON(t, map[string]any{
		"referenceTranslation": "A completely different sentence here.",
		"score":                140.4,
		"grammarErrors":        errs,
		"suggestions":          []any{"a", 3, "b", "c", "d"},
	}))

	res, err := NewLLMChecker(mock).Check(context.Background(), humpbackRequest())
	require.NoError(t, err)

	assert.Equal(t, 100, res.Score)
	assert.True(t, res.GrammarCorrect)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, "Translation evaluated.", res.Feedback)
	require.Len(t, res.GrammarErrors, maxGrammarErrors)
	assert.Equal(t, "Grammar issue", res.GrammarErrors[0].Message)
	assert.Equal(t, "tense", res.GrammarErrors[1].Message)
	assert.Equal(t, []string{"a", "b", "c"}, res.Suggestions)
}

func TestLLMChecker_Defaults(t *testing.T) {
	mock := llm.NewMockProvider(mockJSON(t, map[string]any{}))

	res, err := NewLLMChecker(mock).Check(context.Background(), humpbackRequest())
	require.NoError(t, err)

	assert.Equal(t, defaultScore, res.Score)
	assert.Equal(t, "(Translation of: Cá voi lưng gù hát dưới nước.)", res.ReferenceTranslation)
}

func TestLLMChecker_TextWrappedJSON(t *testing.T) {
	text := "Here you go:\n```json\n{\"referenceTranslation\":\"Hi.\",\"score\":-20}\n```"
	mock := llm.NewMockProvider(mockJSON(t, text))

	res, err := NewLLMChecker(mock).Check(context.Background(), humpbackRequest())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, "Hi.", res.ReferenceTranslation)
}

func TestLLMChecker_SimilarityCorrection(t *testing.T) {
	tests := []struct {
		name          string
		reference     string
		score         int
		suggestions   []any
		wantScore     int
		wantFeedback  string
		wantSuggCount int
	}{
		{
			name:          "near identical lifts to excellent",
			reference:     "The humpback whale sings under water.",
			score:         60,
			suggestions:   []any{"x", "y"},
			wantScore:     95,
			wantFeedback:  "Excellent! Your translation matches the reference very closely.",
			wantSuggCount: 0,
		},
		{
			// 6 shared words of 7 distinct: 86%.
			name:          "close match lifts to good",
			reference:     "The humpback whale sings under water loudly.",
			score:         40,
			suggestions:   []any{"x", "y", "z"},
			wantScore:     85,
			wantFeedback:  "Too literal.",
			wantSuggCount: 1,
		},
		{
			name:          "already high score untouched",
			reference:     "The humpback whale sings under water.",
			score:         97,
			suggestions:   []any{"x"},
			wantScore:     97,
			wantFeedback:  "Too literal.",
			wantSuggCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(mockJSON(t, map[string]any{
				"referenceTranslation": tt.reference,
				"grammarCorrect":       true,
				"isCorrect":            false,
				"score":                tt.score,
				"feedback":             "Too literal.",
				"suggestions":          tt.suggestions,
			}))

			res, err := NewLLMChecker(mock).Check(context.Background(), humpbackRequest())
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, res.Score)
			assert.Equal(t, tt.wantFeedback, res.Feedback)
			assert.Len(t, res.Suggestions, tt.wantSuggCount)
		})
	}
}

func TestCheckOrUnavailable(t *testing.T) {
	t.Run("provider error degrades", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("boom")})
		res := CheckOrUnavailable(context.Background(), NewLLMChecker(mock), humpbackRequest(), zap.NewNop())
		assert.Equal(t, ScoreUnavailable, res.Score)
		assert.True(t, res.GrammarCorrect)
		assert.Equal(t, "Translation check unavailable", res.Feedback)
		assert.Empty(t, res.ReferenceTranslation)
	})

	t.Run("unparseable content degrades", func(t *testing.T) {
		mock := llm.NewMockProvider(mockJSON(t, "no json at all"))
		res := CheckOrUnavailable(context.Background(), NewLLMChecker(mock), humpbackRequest(), nil)
		assert.Equal(t, ScoreUnavailable, res.Score)
	})

	t.Run("nil checker", func(t *testing.T) {
		res := CheckOrUnavailable(context.Background(), nil, humpbackRequest(), nil)
		assert.Equal(t, ScoreUnavailable, res.Score)
		assert.True(t, Verdict(res, true, DefaultPassScore))
	})
}
