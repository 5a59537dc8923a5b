package phase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/wordbloom/internal/catalog"
	"github.com/abhisek/wordbloom/internal/llm"
	"github.com/abhisek/wordbloom/internal/pronounce"
	"github.com/abhisek/wordbloom/internal/translation"
)

func toTranslation(t *testing.T, m *Machine) {
	t.Helper()
	_, err := m.SubmitSpelling(m.Item().Word)
	require.NoError(t, err)
	require.NoError(t, m.CompletePronunciation(true))
}

func evaluation(t *testing.T, score int, grammar bool) llm.MockResponse {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"referenceTranslation": "We saw one whale together yesterday.",
		"grammarCorrect":       grammar,
		"isCorrect":            true,
		"score":                score,
		"feedback":             "ok",
	})
	require.NoError(t, err)
	return llm.MockResponse{Content: b}
}

func TestJudge_Pronunciation(t *testing.T) {
	ctx := context.Background()
	j := NewJudge(pronounce.NewTranscriptEvaluator(0), nil, 0, zap.NewNop())

	t.Run("word and sentence", func(t *testing.T) {
		m := New(whale())
		_, err := m.SubmitSpelling("whale")
		require.NoError(t, err)

		res, err := j.Pronunciation(ctx, m,
			pronounce.Attempt{Transcript: "whale"},
			pronounce.Attempt{Transcript: "a whale is huge"})
		require.NoError(t, err)
		assert.True(t, res.Passed)
		assert.Equal(t, StateTranslation, m.State())
	})

	t.Run("skipping fails", func(t *testing.T) {
		m := New(whale())
		_, err := m.SubmitSpelling("whale")
		require.NoError(t, err)

		res, err := j.Pronunciation(ctx, m, pronounce.Attempt{Skipped: true}, pronounce.Attempt{Skipped: true})
		require.NoError(t, err)
		assert.False(t, res.Passed)
		assert.Equal(t, StateTranslation, m.State())
	})

	t.Run("no example sentence", func(t *testing.T) {
		m := New(catalog.Item{Word: "whale"})
		_, err := m.SubmitSpelling("whale")
		require.NoError(t, err)

		res, err := j.Pronunciation(ctx, m, pronounce.Attempt{Transcript: "whale"}, pronounce.Attempt{})
		require.NoError(t, err)
		assert.True(t, res.Passed)
	})

	t.Run("wrong phase", func(t *testing.T) {
		_, err := j.Pronunciation(ctx, New(whale()), pronounce.Attempt{}, pronounce.Attempt{})
		assert.ErrorIs(t, err, ErrWrongPhase)
	})
}

func TestJudge_Translation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		resp     llm.MockResponse
		answer   string
		want     bool
		wantWord bool
	}{
		{"good", evaluation(t, 88, true), "We watched a whale.", true, true},
		{"family form counts", evaluation(t, 88, true), "We went whaling.", true, true},
		{"missing vocabulary word", evaluation(t, 95, true), "We watched a dolphin.", false, false},
		{"grammar error", evaluation(t, 95, false), "We watch a whale yesterday.", false, true},
		{"low score", evaluation(t, 60, true), "A whale watched us.", false, true},
		{"checker down", llm.MockResponse{Err: errors.New("timeout")}, "We watched a whale.", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(tt.resp)
			j := NewJudge(nil, translation.NewLLMChecker(mock), 80, zap.NewNop())

			m := New(whale())
			toTranslation(t, m)

			out, err := j.Translation(ctx, m, tt.answer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Passed)
			assert.Equal(t, tt.wantWord, out.ContainsWord)
			assert.Equal(t, "Chúng tôi đã xem một con cá voi.", out.Prompt.Vietnamese)

			v, ok := m.Verdict()
			require.True(t, ok)
			assert.Equal(t, tt.want, v.Correct)
		})
	}
}

func TestJudge_TranslationWithoutExamples(t *testing.T) {
	j := NewJudge(nil, nil, 0, nil)
	m := New(catalog.Item{Word: "whale"})
	toTranslation(t, m)

	out, err := j.Translation(context.Background(), m, "")
	require.NoError(t, err)
	assert.True(t, out.Passed)
	assert.True(t, m.Done())
}
