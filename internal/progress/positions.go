package progress

import (
	"context"
	"time"

	"github.com/abhisek/wordbloom/internal/quiz"
	"github.com/abhisek/wordbloom/internal/spacedrep"
)

// SaveReviewPosition stores the in-progress review session for topicID,
// replacing any earlier one.
func (t *Tracker) SaveReviewPosition(ctx context.Context, topicID string, kind spacedrep.ReviewKind, pos quiz.Position) {
	saved := (&SavedPosition{Kind: kind, Position: pos}).clone()
	t.update(ctx, func(d *Document, _ time.Time) *Document {
		return d.withTopic(topicID, func(tp *Topic) { tp.ActiveReview = saved })
	})
}

// ReviewPosition returns the saved review session for topicID, but only if
// it was saved for the same review kind.
func (t *Tracker) ReviewPosition(topicID string, kind spacedrep.ReviewKind) (quiz.Position, bool) {
	tp := t.TopicProgress(topicID)
	if tp == nil || tp.ActiveReview == nil || tp.ActiveReview.Kind != kind {
		return quiz.Position{}, false
	}
	return tp.ActiveReview.Position, true
}

// ClearReviewPosition drops the saved review session for topicID.
func (t *Tracker) ClearReviewPosition(ctx context.Context, topicID string) {
	t.update(ctx, func(d *Document, _ time.Time) *Document {
		return clearPosition(d, topicID, true)
	})
}

// SaveQuizPosition stores an in-progress practice session for topicID.
func (t *Tracker) SaveQuizPosition(ctx context.Context, topicID string, pos quiz.Position) {
	saved := (&SavedPosition{Position: pos}).clone()
	t.update(ctx, func(d *Document, _ time.Time) *Document {
		return d.withTopic(topicID, func(tp *Topic) { tp.ActiveQuiz = saved })
	})
}

// QuizPosition returns the saved practice session for topicID.
func (t *Tracker) QuizPosition(topicID string) (quiz.Position, bool) {
	tp := t.TopicProgress(topicID)
	if tp == nil || tp.ActiveQuiz == nil {
		return quiz.Position{}, false
	}
	return tp.ActiveQuiz.Position, true
}

// ClearQuizPosition drops the saved practice session for topicID.
func (t *Tracker) ClearQuizPosition(ctx context.Context, topicID string) {
	t.update(ctx, func(d *Document, _ time.Time) *Document {
		return clearPosition(d, topicID, false)
	})
}

func clearPosition(d *Document, topicID string, review bool) *Document {
	cur, ok := d.Topics[topicID]
	if !ok {
		return d
	}
	if review && cur.ActiveReview == nil || !review && cur.ActiveQuiz == nil {
		return d
	}
	return d.withTopic(topicID, func(tp *Topic) {
		if review {
			tp.ActiveReview = nil
		} else {
			tp.ActiveQuiz = nil
		}
	})
}
