// Package phase runs the spelling, pronunciation and translation steps a
// learner goes through for each vocabulary item.
package phase

import (
	"errors"
	"strings"

	"github.com/abhisek/wordbloom/internal/catalog"
)

// ErrWrongPhase is returned when an event arrives for a phase that is not
// the current one.
var ErrWrongPhase = errors.New("event does not match current phase")

// State is the current phase of an item.
type State int

const (
	StateSpelling      State = iota // Typing the word
	StatePronunciation              // Saying the word, then an example sentence
	StateTranslation                // Translating an example sentence
	StateDone                       // All phases completed
)

func (s State) String() string {
	switch s {
	case StateSpelling:
		return "spelling"
	case StatePronunciation:
		return "pronunciation"
	case StateTranslation:
		return "translation"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Verdict is the combined outcome of all phases.
type Verdict struct {
	Correct       bool   `json:"correct"`
	UserAnswer    string `json:"userAnswer"`
	Spelling      bool   `json:"spelling"`
	Pronunciation bool   `json:"pronunciation"`
	Translation   bool   `json:"translation"`
}

// Machine tracks one item through the phases. It only moves forward.
type Machine struct {
	item  catalog.Item
	state State

	userAnswer    string
	spelling      bool
	pronunciation bool
	translation   bool
	hintsUsed     int
}

// New starts item at the spelling phase.
func New(item catalog.Item) *Machine {
	return &Machine{item: item, state: StateSpelling}
}

func (m *Machine) Item() catalog.Item { return m.item }
func (m *Machine) State() State       { return m.state }
func (m *Machine) Done() bool         { return m.state == StateDone }

// CheckSpelling reports whether answer spells word, ignoring case and
// surrounding whitespace.
func CheckSpelling(answer, word string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), word)
}

// SubmitSpelling records the typed answer and moves to pronunciation.
func (m *Machine) SubmitSpelling(answer string) (bool, error) {
	if m.state != StateSpelling {
		return false, ErrWrongPhase
	}
	m.userAnswer = answer
	m.spelling = CheckSpelling(answer, m.item.Word)
	m.state = StatePronunciation
	return m.spelling, nil
}

// Hint reveals one more letter of the word over input. It returns false
// once the hint allowance is used up.
func (m *Machine) Hint(input string) (string, bool, error) {
	if m.state != StateSpelling {
		return "", false, ErrWrongPhase
	}
	if m.hintsUsed >= MaxHints(m.item.Word) {
		return input, false, nil
	}
	m.hintsUsed++
	return Reveal(m.item.Word, input, m.hintsUsed), true, nil
}

// HintsLeft is the number of hints still available.
func (m *Machine) HintsLeft() int {
	return MaxHints(m.item.Word) - m.hintsUsed
}

// CompletePronunciation records the pronunciation outcome.
func (m *Machine) CompletePronunciation(passed bool) error {
	if m.state != StatePronunciation {
		return ErrWrongPhase
	}
	m.pronunciation = passed
	m.state = StateTranslation
	return nil
}

// CompleteTranslation records the translation outcome and finishes the item.
func (m *Machine) CompleteTranslation(passed bool) error {
	if m.state != StateTranslation {
		return ErrWrongPhase
	}
	m.translation = passed
	m.state = StateDone
	return nil
}

// Verdict returns the combined outcome. ok is false until every phase has
// completed.
func (m *Machine) Verdict() (v Verdict, ok bool) {
	if m.state != StateDone {
		return Verdict{}, false
	}
	return Verdict{
		Correct:       m.spelling && m.pronunciation && m.translation,
		UserAnswer:    m.userAnswer,
		Spelling:      m.spelling,
		Pronunciation: m.pronunciation,
		Translation:   m.translation,
	}, true
}
