package progress

import (
	"context"
	"slices"
	"time"

	"github.com/abhisek/wordbloom/internal/spacedrep"
)

// DueReview is a review checkpoint that should be offered to the learner.
type DueReview struct {
	TopicID string               `json:"topicId"`
	Kind    spacedrep.ReviewKind `json:"reviewType"`
	Date    time.Time            `json:"date"`
}

// ReviewAlertKey is the dismissal key of a topic checkpoint.
func ReviewAlertKey(topicID string, kind spacedrep.ReviewKind) string {
	return topicID + "-" + kind.String()
}

// DismissReviewAlert hides the reminder for a checkpoint until the topic
// gets a new schedule. Dismissing twice changes nothing.
func (t *Tracker) DismissReviewAlert(ctx context.Context, topicID string, kind spacedrep.ReviewKind) {
	key := ReviewAlertKey(topicID, kind)
	t.update(ctx, func(d *Document, _ time.Time) *Document {
		if slices.Contains(d.DismissedReviewAlerts, key) {
			return d
		}
		next := d.shallow()
		next.DismissedReviewAlerts = append(next.DismissedReviewAlerts, key)
		return next
	})
}

// IsReviewAlertDismissed reports whether the checkpoint reminder is hidden.
func (t *Tracker) IsReviewAlertDismissed(topicID string, kind spacedrep.ReviewKind) bool {
	doc := t.Snapshot()
	if doc == nil {
		return false
	}
	return slices.Contains(doc.DismissedReviewAlerts, ReviewAlertKey(topicID, kind))
}

// DismissMistakesAlert hides the mistakes banner while the mistake count
// stays at count.
func (t *Tracker) DismissMistakesAlert(ctx context.Context, count int) {
	t.update(ctx, func(d *Document, _ time.Time) *Document {
		if d.DismissedMistakesAlertCount != nil && *d.DismissedMistakesAlertCount == count {
			return d
		}
		next := d.shallow()
		next.DismissedMistakesAlertCount = &count
		return next
	})
}

// IsMistakesAlertDismissed reports whether the banner was dismissed at
// exactly count mistakes.
func (t *Tracker) IsMistakesAlertDismissed(count int) bool {
	doc := t.Snapshot()
	if doc == nil || doc.DismissedMistakesAlertCount == nil {
		return false
	}
	return *doc.DismissedMistakesAlertCount == count
}

// DueReviews lists, per topic, the checkpoint that should be taken next.
// A one-week review is only listed once the one-day review is done.
func (t *Tracker) DueReviews(now time.Time) []DueReview {
	doc := t.Snapshot()
	if doc == nil {
		return nil
	}
	return dueReviews(doc, now)
}

func dueReviews(doc *Document, now time.Time) []DueReview {
	var due []DueReview
	for _, id := range doc.TopicIDs() {
		s := doc.Topics[id].Schedule
		kind, ok := spacedrep.NextKind(s, now)
		if !ok {
			continue
		}
		due = append(due, DueReview{TopicID: id, Kind: kind, Date: s.Checkpoint(kind).Date})
	}
	return due
}

// VisibleDueReviews is DueReviews minus dismissed checkpoints.
func (t *Tracker) VisibleDueReviews(now time.Time) []DueReview {
	doc := t.Snapshot()
	if doc == nil {
		return nil
	}
	return slices.DeleteFunc(dueReviews(doc, now), func(r DueReview) bool {
		return slices.Contains(doc.DismissedReviewAlerts, ReviewAlertKey(r.TopicID, r.Kind))
	})
}

// dropTopicAlerts removes every dismissal belonging to topicID.
func dropTopicAlerts(keys []string, topicID string) []string {
	var own []string
	for _, k := range spacedrep.ReviewKinds {
		own = append(own, ReviewAlertKey(topicID, k))
	}
	return slices.DeleteFunc(slices.Clone(keys), func(k string) bool {
		return slices.Contains(own, k)
	})
}
