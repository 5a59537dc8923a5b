package progress

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/abhisek/wordbloom/internal/quiz"
)

// TopicMistake is a Mistake tagged with its owning topic.
type TopicMistake struct {
	TopicID string
	Mistake
}

// RecordMistakes increments the miss counter of each item, creating records
// as needed. An empty list is a no-op.
func (t *Tracker) RecordMistakes(ctx context.Context, topicID string, itemIDs []string) {
	if len(itemIDs) == 0 {
		return
	}
	t.update(ctx, func(d *Document, now time.Time) *Document {
		return recordMistakes(d, topicID, itemIDs, now)
	})
}

// ClearMistake removes the record for itemID entirely.
func (t *Tracker) ClearMistake(ctx context.Context, topicID, itemID string) {
	t.update(ctx, func(d *Document, _ time.Time) *Document {
		return clearMistakes(d, topicID, []string{itemID})
	})
}

// ApplyMistakeResults records every miss and clears every hit of a scored
// session over one topic.
func (t *Tracker) ApplyMistakeResults(ctx context.Context, topicID string, results []quiz.Result) {
	t.update(ctx, func(d *Document, now time.Time) *Document {
		return applyMistakeResults(d, topicID, results, now)
	})
}

// ApplyDrillResults applies a cross-topic mistakes drill. topicOf resolves
// the owning topic of each item; unresolvable items are ignored.
func (t *Tracker) ApplyDrillResults(ctx context.Context, topicOf func(itemID string) (string, bool), results []quiz.Result) {
	byTopic := make(map[string][]quiz.Result)
	var order []string
	for _, r := range results {
		topicID, ok := topicOf(r.Item.ID)
		if !ok {
			continue
		}
		if _, seen := byTopic[topicID]; !seen {
			order = append(order, topicID)
		}
		byTopic[topicID] = append(byTopic[topicID], r)
	}
	if len(order) == 0 {
		return
	}

	t.update(ctx, func(d *Document, now time.Time) *Document {
		next := d
		for _, topicID := range order {
			next = applyMistakeResults(next, topicID, byTopic[topicID], now)
		}
		return next
	})
}

// MistakesForTopic returns the mistake records of topicID.
func (t *Tracker) MistakesForTopic(topicID string) []Mistake {
	tp := t.TopicProgress(topicID)
	if tp == nil {
		return nil
	}
	return tp.Mistakes
}

// AllMistakes flattens mistakes across topics, most recent first.
func (t *Tracker) AllMistakes() []TopicMistake {
	doc := t.Snapshot()
	if doc == nil {
		return nil
	}
	var all []TopicMistake
	for _, id := range doc.TopicIDs() {
		for _, m := range doc.Topics[id].Mistakes {
			all = append(all, TopicMistake{TopicID: id, Mistake: m})
		}
	}
	slices.SortStableFunc(all, func(a, b TopicMistake) int {
		return b.LastWrongDate.Compare(a.LastWrongDate)
	})
	return all
}

// MistakeCount is the total number of mistake records.
func (t *Tracker) MistakeCount() int {
	doc := t.Snapshot()
	if doc == nil {
		return 0
	}
	n := 0
	for _, tp := range doc.Topics {
		n += len(tp.Mistakes)
	}
	return n
}

// MistakesByTopic groups mistake counts per topic, sorted by topic id.
func (t *Tracker) MistakesByTopic() []TopicMistakeCount {
	doc := t.Snapshot()
	if doc == nil {
		return nil
	}
	var out []TopicMistakeCount
	for id, tp := range doc.Topics {
		if len(tp.Mistakes) > 0 {
			out = append(out, TopicMistakeCount{TopicID: id, Count: len(tp.Mistakes)})
		}
	}
	slices.SortFunc(out, func(a, b TopicMistakeCount) int { return cmp.Compare(a.TopicID, b.TopicID) })
	return out
}

// TopicMistakeCount is the number of missed items in a topic.
type TopicMistakeCount struct {
	TopicID string `json:"topicId"`
	Count   int    `json:"count"`
}

func recordMistakes(d *Document, topicID string, itemIDs []string, now time.Time) *Document {
	if len(itemIDs) == 0 {
		return d
	}
	return d.withTopic(topicID, func(tp *Topic) {
		for _, id := range itemIDs {
			i := slices.IndexFunc(tp.Mistakes, func(m Mistake) bool { return m.ItemID == id })
			if i >= 0 {
				tp.Mistakes[i].TimesWrong++
				tp.Mistakes[i].LastWrongDate = now
				continue
			}
			tp.Mistakes = append(tp.Mistakes, Mistake{ItemID: id, LastWrongDate: now, TimesWrong: 1})
		}
	})
}

func clearMistakes(d *Document, topicID string, itemIDs []string) *Document {
	cur, ok := d.Topics[topicID]
	if !ok {
		return d
	}
	drop := func(m Mistake) bool { return slices.Contains(itemIDs, m.ItemID) }
	if !slices.ContainsFunc(cur.Mistakes, drop) {
		return d
	}
	return d.withTopic(topicID, func(tp *Topic) {
		tp.Mistakes = slices.DeleteFunc(tp.Mistakes, drop)
	})
}

func applyMistakeResults(d *Document, topicID string, results []quiz.Result, now time.Time) *Document {
	var missed, hit []string
	for _, r := range results {
		if r.IsCorrect {
			hit = append(hit, r.Item.ID)
		} else {
			missed = append(missed, r.Item.ID)
		}
	}
	next := recordMistakes(d, topicID, missed, now)
	return clearMistakes(next, topicID, hit)
}
