package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/wordbloom/internal/quiz"
	"github.com/abhisek/wordbloom/internal/spacedrep"
)

// ErrVersionMismatch is returned by Unmarshal for documents written by an
// incompatible schema version.
var ErrVersionMismatch = errors.New("progress document version mismatch")

// The wire format stores every timestamp as Unix milliseconds.

type documentJSON struct {
	Version                     int                  `json:"version"`
	Topics                      map[string]topicJSON `json:"topics"`
	DismissedReviewAlerts       []string             `json:"dismissedReviewAlerts,omitempty"`
	DismissedMistakesAlertCount *int                 `json:"dismissedMistakesAlertCount,omitempty"`
	LastUpdated                 int64                `json:"lastUpdated"`
}

type topicJSON struct {
	TopicID        string        `json:"topicId"`
	QuizAttempts   []attemptJSON `json:"quizAttempts"`
	BestScore      *int          `json:"bestScore"`
	CompletedAt    *int64        `json:"completedAt"`
	ReviewSchedule *scheduleJSON `json:"reviewSchedule"`
	Mistakes       []mistakeJSON `json:"mistakes,omitempty"`
	ActiveReview   *positionJSON `json:"activeReview,omitempty"`
	ActiveQuiz     *positionJSON `json:"activeQuiz,omitempty"`
}

type attemptJSON struct {
	Date    int64 `json:"date"`
	Score   int   `json:"score"`
	Correct int   `json:"correct"`
	Total   int   `json:"total"`
}

type checkpointJSON struct {
	Date      int64 `json:"date"`
	Completed bool  `json:"completed"`
}

type scheduleJSON struct {
	OneDay  checkpointJSON `json:"oneDay"`
	OneWeek checkpointJSON `json:"oneWeek"`
}

type mistakeJSON struct {
	ItemID        string `json:"itemId"`
	LastWrongDate int64  `json:"lastWrongDate"`
	TimesWrong    int    `json:"timesWrong"`
}

type positionJSON struct {
	ReviewType      *spacedrep.ReviewKind `json:"reviewType,omitempty"`
	ShuffledItemIDs []string              `json:"shuffledItemIds"`
	CurrentIndex    int                   `json:"currentIndex"`
	Results         []quiz.SavedResult    `json:"results"`
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

// Marshal encodes a document in its persisted JSON form.
func Marshal(d *Document) ([]byte, error) {
	out := documentJSON{
		Version:                     d.Version,
		Topics:                      make(map[string]topicJSON, len(d.Topics)),
		DismissedReviewAlerts:       d.DismissedReviewAlerts,
		DismissedMistakesAlertCount: d.DismissedMistakesAlertCount,
		LastUpdated:                 toMillis(d.LastUpdated),
	}
	for id, t := range d.Topics {
		out.Topics[id] = encodeTopic(t)
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal progress: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a persisted document. Documents whose version is not
// CurrentVersion are rejected with ErrVersionMismatch.
func Unmarshal(b []byte) (*Document, error) {
	var in documentJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return nil, fmt.Errorf("unmarshal progress: %w", err)
	}
	if in.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, in.Version, CurrentVersion)
	}

	d := &Document{
		Version:                     in.Version,
		Topics:                      make(map[string]*Topic, len(in.Topics)),
		DismissedReviewAlerts:       in.DismissedReviewAlerts,
		DismissedMistakesAlertCount: in.DismissedMistakesAlertCount,
		LastUpdated:                 fromMillis(in.LastUpdated),
	}
	for id, t := range in.Topics {
		topic := decodeTopic(t)
		if topic.TopicID == "" {
			topic.TopicID = id
		}
		d.Topics[id] = topic
	}
	return d, nil
}

func encodeTopic(t *Topic) topicJSON {
	out := topicJSON{
		TopicID:      t.TopicID,
		QuizAttempts: make([]attemptJSON, len(t.Attempts)),
		BestScore:    t.BestScore,
		ActiveReview: encodePosition(t.ActiveReview),
		ActiveQuiz:   encodePosition(t.ActiveQuiz),
	}
	for i, a := range t.Attempts {
		out.QuizAttempts[i] = attemptJSON{Date: toMillis(a.Date), Score: a.Score, Correct: a.Correct, Total: a.Total}
	}
	if t.CompletedAt != nil {
		ms := toMillis(*t.CompletedAt)
		out.CompletedAt = &ms
	}
	if s := t.Schedule; s != nil {
		out.ReviewSchedule = &scheduleJSON{
			OneDay:  checkpointJSON{Date: toMillis(s.OneDay.Date), Completed: s.OneDay.Completed},
			OneWeek: checkpointJSON{Date: toMillis(s.OneWeek.Date), Completed: s.OneWeek.Completed},
		}
	}
	for _, m := range t.Mistakes {
		out.Mistakes = append(out.Mistakes, mistakeJSON{
			ItemID:        m.ItemID,
			LastWrongDate: toMillis(m.LastWrongDate),
			TimesWrong:    m.TimesWrong,
		})
	}
	return out
}

func decodeTopic(in topicJSON) *Topic {
	t := &Topic{
		TopicID:   in.TopicID,
		BestScore: in.BestScore,
	}
	for _, a := range in.QuizAttempts {
		t.Attempts = append(t.Attempts, Attempt{Date: fromMillis(a.Date), Score: a.Score, Correct: a.Correct, Total: a.Total})
	}
	if in.CompletedAt != nil {
		at := fromMillis(*in.CompletedAt)
		t.CompletedAt = &at
	}
	if s := in.ReviewSchedule; s != nil {
		t.Schedule = &spacedrep.Schedule{
			OneDay:  spacedrep.Checkpoint{Date: fromMillis(s.OneDay.Date), Completed: s.OneDay.Completed},
			OneWeek: spacedrep.Checkpoint{Date: fromMillis(s.OneWeek.Date), Completed: s.OneWeek.Completed},
		}
	}
	for _, m := range in.Mistakes {
		t.Mistakes = append(t.Mistakes, Mistake{
			ItemID:        m.ItemID,
			LastWrongDate: fromMillis(m.LastWrongDate),
			TimesWrong:    m.TimesWrong,
		})
	}
	t.ActiveReview = decodePosition(in.ActiveReview)
	t.ActiveQuiz = decodePosition(in.ActiveQuiz)
	return t
}

func encodePosition(p *SavedPosition) *positionJSON {
	if p == nil {
		return nil
	}
	out := &positionJSON{
		ShuffledItemIDs: p.ItemIDs,
		CurrentIndex:    p.Index,
		Results:         p.Results,
	}
	if p.Kind.Valid() {
		kind := p.Kind
		out.ReviewType = &kind
	}
	if out.Results == nil {
		out.Results = []quiz.SavedResult{}
	}
	return out
}

func decodePosition(in *positionJSON) *SavedPosition {
	if in == nil {
		return nil
	}
	p := &SavedPosition{
		Position: quiz.Position{
			ItemIDs: in.ShuffledItemIDs,
			Index:   in.CurrentIndex,
			Results: in.Results,
		},
	}
	if in.ReviewType != nil {
		p.Kind = *in.ReviewType
	}
	return p
}
