package progress

import (
	"context"
	"time"

	"github.com/abhisek/wordbloom/internal/quiz"
	"github.com/abhisek/wordbloom/internal/spacedrep"
)

// TopicProgress returns a copy of the stored progress for topicID, or nil
// when the topic has never been touched or progress is not loaded.
func (t *Tracker) TopicProgress(topicID string) *Topic {
	doc := t.Snapshot()
	if doc == nil {
		return nil
	}
	return doc.Topic(topicID)
}

// TopicStatus derives the status of topicID at now.
func (t *Tracker) TopicStatus(topicID string, now time.Time) spacedrep.TopicStatus {
	return StatusOf(t.TopicProgress(topicID), now)
}

// RecordQuizAttempt appends an attempt and, on the first attempt, creates
// the review schedule.
func (t *Tracker) RecordQuizAttempt(ctx context.Context, topicID string, score quiz.Score) {
	t.update(ctx, func(d *Document, now time.Time) *Document {
		return recordAttempt(d, topicID, score, now)
	})
}

// MarkReviewCompleted closes the given checkpoint. Topics without a
// schedule are left untouched.
func (t *Tracker) MarkReviewCompleted(ctx context.Context, topicID string, kind spacedrep.ReviewKind) {
	t.update(ctx, func(d *Document, _ time.Time) *Document {
		return markReview(d, topicID, kind)
	})
}

// Completion summarizes what CompleteSession changed.
type Completion struct {
	Attempt         Attempt
	BestScore       int
	FirstCompletion bool
	ReviewMarked    spacedrep.ReviewKind // zero when no review was closed
}

// CompleteSession records a finished topic session in one update: the
// attempt, any due review it satisfies, the mistake changes, and removal
// of the saved position for the session's mode.
func (t *Tracker) CompleteSession(ctx context.Context, topicID string, mode quiz.Mode, score quiz.Score, results []quiz.Result) Completion {
	var c Completion
	t.update(ctx, func(d *Document, now time.Time) *Document {
		var prior *spacedrep.Schedule
		if cur, ok := d.Topics[topicID]; ok {
			prior = cur.Schedule
		}
		kind, due := spacedrep.NextKind(prior, now)

		next := recordAttempt(d, topicID, score, now)
		if due {
			next = markReview(next, topicID, kind)
			c.ReviewMarked = kind
		}
		next = applyMistakeResults(next, topicID, results, now)
		next = clearPosition(next, topicID, mode.IsReview())

		tp := next.Topics[topicID]
		c.Attempt = tp.Attempts[len(tp.Attempts)-1]
		c.BestScore = *tp.BestScore
		c.FirstCompletion = prior == nil
		return next
	})
	return c
}

func recordAttempt(d *Document, topicID string, score quiz.Score, now time.Time) *Document {
	next := d.withTopic(topicID, func(tp *Topic) {
		attempt := Attempt{
			Date:    now,
			Score:   score.Percent(),
			Correct: score.Correct,
			Total:   score.Total,
		}
		tp.Attempts = append(tp.Attempts, attempt)
		if tp.BestScore == nil || attempt.Score > *tp.BestScore {
			best := attempt.Score
			tp.BestScore = &best
		}
		if tp.CompletedAt == nil {
			at := now
			tp.CompletedAt = &at
		}
	})

	if tp := next.Topics[topicID]; tp.Schedule == nil {
		tp.Schedule = spacedrep.NewSchedule(*tp.CompletedAt)
		next.DismissedReviewAlerts = dropTopicAlerts(next.DismissedReviewAlerts, topicID)
	}
	return next
}

func markReview(d *Document, topicID string, kind spacedrep.ReviewKind) *Document {
	cur, ok := d.Topics[topicID]
	if !ok || !kind.Valid() || cur.Schedule == nil || cur.Schedule.Checkpoint(kind).Completed {
		return d
	}
	return d.withTopic(topicID, func(tp *Topic) {
		tp.Schedule = tp.Schedule.WithCompleted(kind)
	})
}
