package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordbloom/internal/catalog"
)

func whale() catalog.Item {
	return catalog.Item{
		ID:         "whale",
		Word:       "Whale",
		WordFamily: []string{"whales", "whaling"},
		Examples: []catalog.Example{
			{English: "A whale is huge.", Vietnamese: "Cá voi rất lớn."},
			{English: "Whales sing.", Vietnamese: "Cá voi hát."},
			{English: "We watched a whale.", Vietnamese: "Chúng tôi đã xem một con cá voi."},
		},
	}
}

func TestCheckSpelling(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"whale", true},
		{"  WHALE ", true},
		{"whales", false},
		{"", false},
		{"wha le", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CheckSpelling(tt.answer, "Whale"), "answer %q", tt.answer)
	}
}

func TestMachine_HappyPath(t *testing.T) {
	m := New(whale())
	assert.Equal(t, StateSpelling, m.State())

	_, ok := m.Verdict()
	assert.False(t, ok)

	correct, err := m.SubmitSpelling(" whale ")
	require.NoError(t, err)
	assert.True(t, correct)
	assert.Equal(t, StatePronunciation, m.State())

	require.NoError(t, m.CompletePronunciation(true))
	assert.Equal(t, StateTranslation, m.State())

	require.NoError(t, m.CompleteTranslation(true))
	assert.True(t, m.Done())

	v, ok := m.Verdict()
	require.True(t, ok)
	assert.Equal(t, Verdict{
		Correct:       true,
		UserAnswer:    " whale ",
		Spelling:      true,
		Pronunciation: true,
		Translation:   true,
	}, v)
}

func TestMachine_AnyFailedPhaseFailsItem(t *testing.T) {
	tests := []struct {
		name          string
		spelling      string
		pronunciation bool
		translation   bool
	}{
		{"spelling", "wale", true, true},
		{"pronunciation", "whale", false, true},
		{"translation", "whale", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(whale())
			_, err := m.SubmitSpelling(tt.spelling)
			require.NoError(t, err)
			require.NoError(t, m.CompletePronunciation(tt.pronunciation))
			require.NoError(t, m.CompleteTranslation(tt.translation))

			v, ok := m.Verdict()
			require.True(t, ok)
			assert.False(t, v.Correct)
			assert.Equal(t, tt.spelling, v.UserAnswer)
		})
	}
}

func TestMachine_OutOfOrderEvents(t *testing.T) {
	m := New(whale())
	assert.ErrorIs(t, m.CompletePronunciation(true), ErrWrongPhase)
	assert.ErrorIs(t, m.CompleteTranslation(true), ErrWrongPhase)

	_, err := m.SubmitSpelling("whale")
	require.NoError(t, err)

	_, err = m.SubmitSpelling("again")
	assert.ErrorIs(t, err, ErrWrongPhase)
	_, _, err = m.Hint("w")
	assert.ErrorIs(t, err, ErrWrongPhase)
	assert.ErrorIs(t, m.CompleteTranslation(true), ErrWrongPhase)

	require.NoError(t, m.CompletePronunciation(true))
	require.NoError(t, m.CompleteTranslation(false))
	assert.ErrorIs(t, m.CompleteTranslation(true), ErrWrongPhase)

	v, _ := m.Verdict()
	assert.False(t, v.Translation)
}

func TestMachine_Hints(t *testing.T) {
	m := New(catalog.Item{Word: "Elephant"})
	assert.Equal(t, 2, m.HintsLeft())

	got, ok, err := m.Hint("xyzphant")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "eyzphant", got)

	got, ok, err = m.Hint(got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "elzphant", got)

	got, ok, err = m.Hint(got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "elzphant", got)
	assert.Zero(t, m.HintsLeft())
}

func TestMaxHints(t *testing.T) {
	tests := map[string]int{
		"ox":           1,
		"cat":          1,
		"whale":        1,
		"dolphin":      2,
		"elephant":     2,
		"hippopotamus": 3,
		"cá voi":       2,
	}
	for word, want := range tests {
		assert.Equal(t, want, MaxHints(word), word)
	}
}

func TestReveal(t *testing.T) {
	assert.Equal(t, "w", Reveal("Whale", "", 1))
	assert.Equal(t, "wh", Reveal("Whale", "x", 2))
	assert.Equal(t, "whxyz", Reveal("WHALE", "abxyz", 2))
	assert.Equal(t, "whale", Reveal("Whale", "", 9))
	assert.Equal(t, "abc", Reveal("Whale", "abc", 0))
	assert.Equal(t, "cá", Reveal("Cá voi", "xy", 2))
}
