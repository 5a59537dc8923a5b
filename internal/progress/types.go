// Package progress owns the learner's persisted progress document and every
// mutation applied to it.
package progress

import (
	"maps"
	"slices"
	"time"

	"github.com/abhisek/wordbloom/internal/quiz"
	"github.com/abhisek/wordbloom/internal/spacedrep"
)

const (
	// StorageKey names the single persisted progress record.
	StorageKey = "bloom-english-progress"

	// CurrentVersion is the document schema version. Documents with any
	// other version are discarded on load.
	CurrentVersion = 1
)

// Attempt is one completed quiz pass over a topic.
type Attempt struct {
	Date    time.Time
	Score   int
	Correct int
	Total   int
}

// Mistake counts how often an item has been missed.
type Mistake struct {
	ItemID        string
	LastWrongDate time.Time
	TimesWrong    int
}

// SavedPosition is a resumable session for a topic. Kind is zero for an
// ordinary quiz.
type SavedPosition struct {
	Kind spacedrep.ReviewKind
	quiz.Position
}

// Topic is the progress recorded for one topic.
type Topic struct {
	TopicID      string
	Attempts     []Attempt
	BestScore    *int
	CompletedAt  *time.Time
	Schedule     *spacedrep.Schedule
	Mistakes     []Mistake
	ActiveReview *SavedPosition
	ActiveQuiz   *SavedPosition
}

// Status derives the topic's learning status.
func (t *Topic) Status(now time.Time) spacedrep.TopicStatus {
	if t == nil {
		return spacedrep.StatusNotStarted
	}
	return spacedrep.Status(len(t.Attempts), t.Schedule, now)
}

// StatusOf is Status for a possibly nil topic.
func StatusOf(t *Topic, now time.Time) spacedrep.TopicStatus {
	return t.Status(now)
}

func (t *Topic) clone() *Topic {
	c := *t
	c.Attempts = slices.Clone(t.Attempts)
	c.Mistakes = slices.Clone(t.Mistakes)
	if t.BestScore != nil {
		v := *t.BestScore
		c.BestScore = &v
	}
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		c.CompletedAt = &v
	}
	if t.Schedule != nil {
		v := *t.Schedule
		c.Schedule = &v
	}
	c.ActiveReview = t.ActiveReview.clone()
	c.ActiveQuiz = t.ActiveQuiz.clone()
	return &c
}

func (p *SavedPosition) clone() *SavedPosition {
	if p == nil {
		return nil
	}
	c := *p
	c.ItemIDs = slices.Clone(p.ItemIDs)
	c.Results = slices.Clone(p.Results)
	return &c
}

// Document is the root progress record. A Document handed out by the
// Tracker is never modified afterwards; mutations produce a new Document.
type Document struct {
	Version                     int
	Topics                      map[string]*Topic
	DismissedReviewAlerts       []string
	DismissedMistakesAlertCount *int
	LastUpdated                 time.Time
}

// NewDocument returns an empty document at the current version.
func NewDocument(now time.Time) *Document {
	return &Document{
		Version:     CurrentVersion,
		Topics:      make(map[string]*Topic),
		LastUpdated: now,
	}
}

// Topic returns a copy of the stored progress for id, or nil.
func (d *Document) Topic(id string) *Topic {
	t, ok := d.Topics[id]
	if !ok {
		return nil
	}
	return t.clone()
}

// TopicIDs returns the ids of every tracked topic in sorted order.
func (d *Document) TopicIDs() []string {
	return slices.Sorted(maps.Keys(d.Topics))
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := d.shallow()
	for id, t := range c.Topics {
		c.Topics[id] = t.clone()
	}
	return c
}

// shallow copies the root and the topic map. Topic values are shared and
// must be replaced, not modified, by the caller.
func (d *Document) shallow() *Document {
	c := *d
	c.Topics = maps.Clone(d.Topics)
	if c.Topics == nil {
		c.Topics = make(map[string]*Topic)
	}
	c.DismissedReviewAlerts = slices.Clone(d.DismissedReviewAlerts)
	if d.DismissedMistakesAlertCount != nil {
		v := *d.DismissedMistakesAlertCount
		c.DismissedMistakesAlertCount = &v
	}
	return &c
}

// withTopic returns a shallow copy of d with a clone of the named topic
// (created if absent) passed to fn for modification.
func (d *Document) withTopic(id string, fn func(t *Topic)) *Document {
	next := d.shallow()
	var t *Topic
	if cur, ok := d.Topics[id]; ok {
		t = cur.clone()
	} else {
		t = &Topic{TopicID: id}
	}
	fn(t)
	next.Topics[id] = t
	return next
}
