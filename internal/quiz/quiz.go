// Package quiz drives a single pass over a shuffled list of vocabulary items.
package quiz

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/abhisek/wordbloom/internal/catalog"
)

// ErrStalePosition is returned by Restore when a saved position no longer
// matches the live catalog.
var ErrStalePosition = errors.New("saved position does not match items")

// Score is the running tally of a session. Total is the session length,
// not the number answered so far.
type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percent returns the rounded percentage of correct answers, or 0 for an
// empty session.
func (s Score) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Correct) / float64(s.Total) * 100))
}

// Result is the outcome of one answered item.
type Result struct {
	Item       catalog.Item
	UserAnswer string
	IsCorrect  bool
}

// SavedResult is a Result reduced to the item id for persistence.
type SavedResult struct {
	ItemID     string `json:"itemId"`
	UserAnswer string `json:"userAnswer"`
	IsCorrect  bool   `json:"isCorrect"`
}

// Position is a resumable snapshot of a session.
type Position struct {
	ItemIDs []string      `json:"shuffledItemIds"`
	Index   int           `json:"currentIndex"`
	Results []SavedResult `json:"results"`
}

// PositionObserver receives the session position after each answered item
// of a review session.
type PositionObserver func(Position)

// Option configures a Session.
type Option func(*Session)

// WithRand makes shuffles deterministic.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.intN = r.IntN }
}

// WithMode sets the session mode. The default is Practice.
func WithMode(m Mode) Option {
	return func(s *Session) { s.mode = m }
}

// WithObserver registers a position observer. It is only called for
// review sessions.
func WithObserver(fn PositionObserver) Option {
	return func(s *Session) { s.observer = fn }
}

// Session is one quiz pass. It is not safe for concurrent use.
type Session struct {
	source   []catalog.Item
	items    []catalog.Item
	index    int
	results  []Result
	answered bool
	resumed  bool

	mode     Mode
	observer PositionObserver
	intN     func(n int) int
}

func newSession(items []catalog.Item, opts []Option) *Session {
	s := &Session{
		source: slices.Clone(items),
		mode:   Practice(),
		intN:   rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New starts a session over a fresh uniform shuffle of items.
func New(items []catalog.Item, opts ...Option) *Session {
	s := newSession(items, opts)
	s.items = s.shuffle()
	return s
}

// Restore rebuilds a session exactly as it was saved. The position must be
// consistent: unique ids that all resolve against items, and one result per
// asked item in the same order (the current item may already be answered).
// Anything else is ErrStalePosition.
func Restore(items []catalog.Item, pos Position, opts ...Option) (*Session, error) {
	if err := checkPosition(pos); err != nil {
		return nil, err
	}

	byID := make(map[string]catalog.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	ordered := make([]catalog.Item, 0, len(pos.ItemIDs))
	for _, id := range pos.ItemIDs {
		it, ok := byID[id]
		if !ok {
			return nil, ErrStalePosition
		}
		ordered = append(ordered, it)
	}

	results := make([]Result, len(pos.Results))
	for i, r := range pos.Results {
		results[i] = Result{Item: ordered[i], UserAnswer: r.UserAnswer, IsCorrect: r.IsCorrect}
	}

	s := newSession(items, opts)
	s.items = ordered
	s.index = pos.Index
	s.results = results
	s.answered = len(results) > pos.Index
	s.resumed = true
	return s, nil
}

func checkPosition(pos Position) error {
	n := len(pos.ItemIDs)
	if n == 0 || pos.Index < 0 || pos.Index > n {
		return ErrStalePosition
	}
	answered := len(pos.Results)
	if answered != pos.Index && (answered != pos.Index+1 || pos.Index == n) {
		return ErrStalePosition
	}

	seen := make(map[string]bool, n)
	for _, id := range pos.ItemIDs {
		if seen[id] {
			return ErrStalePosition
		}
		seen[id] = true
	}
	for i, r := range pos.Results {
		if r.ItemID != pos.ItemIDs[i] {
			return ErrStalePosition
		}
	}
	return nil
}

// Resume restores a saved session, falling back to a fresh shuffle when the
// position cannot be restored. Resumed reports which path was taken.
func Resume(items []catalog.Item, pos Position, opts ...Option) *Session {
	s, err := Restore(items, pos, opts...)
	if err != nil {
		return New(items, opts...)
	}
	return s
}

// Resumed reports whether the session was rebuilt from a saved position.
func (s *Session) Resumed() bool { return s.resumed }

// Mode returns the session mode.
func (s *Session) Mode() Mode { return s.mode }

// CurrentItem returns the item being asked, or false once complete.
func (s *Session) CurrentItem() (catalog.Item, bool) {
	if s.IsComplete() {
		return catalog.Item{}, false
	}
	return s.items[s.index], true
}

// RecordAnswer stores the verdict for the current item without advancing.
// It returns false when the session is complete or the current item has
// already been answered.
func (s *Session) RecordAnswer(userAnswer string, isCorrect bool) bool {
	item, ok := s.CurrentItem()
	if !ok || s.answered {
		return false
	}
	s.results = append(s.results, Result{Item: item, UserAnswer: userAnswer, IsCorrect: isCorrect})
	s.answered = true
	return true
}

// NextQuestion advances to the next item. Review sessions report their new
// position to the observer unless the session just completed.
func (s *Session) NextQuestion() {
	if s.IsComplete() {
		return
	}
	s.index++
	s.answered = false

	if s.mode.IsReview() && s.observer != nil && !s.IsComplete() {
		s.observer(s.Position())
	}
}

// IsComplete reports whether every item has been passed.
func (s *Session) IsComplete() bool {
	return s.index >= len(s.items)
}

// Index returns the zero-based position of the current item.
func (s *Session) Index() int { return s.index }

// Len returns the number of items in the session.
func (s *Session) Len() int { return len(s.items) }

// Score recomputes the tally from recorded results.
func (s *Session) Score() Score {
	correct := 0
	for _, r := range s.results {
		if r.IsCorrect {
			correct++
		}
	}
	return Score{Correct: correct, Total: len(s.items)}
}

// Results returns the recorded results in answer order.
func (s *Session) Results() []Result {
	return slices.Clone(s.results)
}

// Items returns the items in their shuffled order.
func (s *Session) Items() []catalog.Item {
	return slices.Clone(s.items)
}

// Position snapshots the session for later Restore.
func (s *Session) Position() Position {
	ids := make([]string, len(s.items))
	for i, it := range s.items {
		ids[i] = it.ID
	}
	saved := make([]SavedResult, len(s.results))
	for i, r := range s.results {
		saved[i] = SavedResult{ItemID: r.Item.ID, UserAnswer: r.UserAnswer, IsCorrect: r.IsCorrect}
	}
	return Position{ItemIDs: ids, Index: s.index, Results: saved}
}

// Reset reshuffles the items and clears all answers.
func (s *Session) Reset() {
	s.items = s.shuffle()
	s.index = 0
	s.results = nil
	s.answered = false
	s.resumed = false
}

// shuffle returns a Fisher-Yates permutation of the source items.
func (s *Session) shuffle() []catalog.Item {
	out := slices.Clone(s.source)
	for i := len(out) - 1; i > 0; i-- {
		j := s.intN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Misses returns the ids of items answered incorrectly.
func Misses(results []Result) []string {
	var ids []string
	for _, r := range results {
		if !r.IsCorrect {
			ids = append(ids, r.Item.ID)
		}
	}
	return ids
}
