package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordbloom/internal/quiz"
	"github.com/abhisek/wordbloom/internal/spacedrep"
)

func TestDismissReviewAlert_Idempotent(t *testing.T) {
	p := newMemPersister()
	tr, c := newTestTracker(t, p)
	ctx := context.Background()

	tr.DismissReviewAlert(ctx, "animals", spacedrep.OneDay)
	before := tr.Snapshot()
	puts := p.puts

	c.advance(time.Hour)
	tr.DismissReviewAlert(ctx, "animals", spacedrep.OneDay)

	assert.Same(t, before, tr.Snapshot(), "second dismissal leaves the document untouched")
	assert.Equal(t, puts, p.puts)
	assert.Equal(t, []string{"animals-oneDay"}, tr.Snapshot().DismissedReviewAlerts)
	assert.True(t, tr.IsReviewAlertDismissed("animals", spacedrep.OneDay))
	assert.False(t, tr.IsReviewAlertDismissed("animals", spacedrep.OneWeek))
}

func TestMistakesAlert_RearmsOnCountChange(t *testing.T) {
	tr, _ := newTestTracker(t, newMemPersister())
	ctx := context.Background()

	assert.False(t, tr.IsMistakesAlertDismissed(0), "never dismissed")

	tr.DismissMistakesAlert(ctx, 5)
	assert.True(t, tr.IsMistakesAlertDismissed(5))
	assert.False(t, tr.IsMistakesAlertDismissed(6))
	assert.False(t, tr.IsMistakesAlertDismissed(4))
}

func TestDueReviews(t *testing.T) {
	tr, _ := newTestTracker(t, newMemPersister())
	ctx := context.Background()

	tr.RecordQuizAttempt(ctx, "animals", quiz.Score{Correct: 1, Total: 1})
	tr.RecordQuizAttempt(ctx, "weather", quiz.Score{Correct: 1, Total: 1})
	tr.MarkReviewCompleted(ctx, "weather", spacedrep.OneDay)
	tr.RecordMistakes(ctx, "untouched", []string{"x"})

	assert.Empty(t, tr.DueReviews(t0.Add(time.Hour)))

	late := t0.Add(8 * 24 * time.Hour)
	due := tr.DueReviews(late)
	require.Len(t, due, 2)
	assert.Equal(t, DueReview{TopicID: "animals", Kind: spacedrep.OneDay, Date: t0.Add(24 * time.Hour)}, due[0])
	assert.Equal(t, DueReview{TopicID: "weather", Kind: spacedrep.OneWeek, Date: t0.Add(7 * 24 * time.Hour)}, due[1])

	tr.DismissReviewAlert(ctx, "animals", spacedrep.OneDay)
	visible := tr.VisibleDueReviews(late)
	require.Len(t, visible, 1)
	assert.Equal(t, "weather", visible[0].TopicID)
	assert.Len(t, tr.DueReviews(late), 2, "dismissal only hides the alert")
}
