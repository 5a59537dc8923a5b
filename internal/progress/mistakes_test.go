package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMistakeLifecycle(t *testing.T) {
	tr, c := newTestTracker(t, newMemPersister())
	ctx := context.Background()

	tr.RecordMistakes(ctx, "animals", []string{"whale"})
	c.advance(time.Hour)
	tr.RecordMistakes(ctx, "animals", []string{"whale"})

	ms := tr.MistakesForTopic("animals")
	require.Len(t, ms, 1)
	assert.Equal(t, 2, ms[0].TimesWrong)
	assert.Equal(t, t0.Add(time.Hour), ms[0].LastWrongDate)

	tr.ClearMistake(ctx, "animals", "whale")
	assert.Empty(t, tr.MistakesForTopic("animals"))
	assert.Zero(t, tr.MistakeCount())
}

func TestRecordMistakes_EmptyIsNoOp(t *testing.T) {
	p := newMemPersister()
	tr, _ := newTestTracker(t, p)
	tr.RecordMistakes(context.Background(), "animals", nil)
	assert.Zero(t, p.puts)
	assert.Nil(t, tr.TopicProgress("animals"))
}

func TestApplyMistakeResults(t *testing.T) {
	tr, _ := newTestTracker(t, newMemPersister())
	ctx := context.Background()

	tr.RecordMistakes(ctx, "animals", []string{"whale", "otter"})
	tr.ApplyMistakeResults(ctx, "animals", results("whale", true, "otter", false, "seal", false))

	ms := tr.MistakesForTopic("animals")
	require.Len(t, ms, 2)
	assert.Equal(t, "otter", ms[0].ItemID)
	assert.Equal(t, 2, ms[0].TimesWrong)
	assert.Equal(t, "seal", ms[1].ItemID)
	assert.Equal(t, 1, ms[1].TimesWrong)
}

func TestApplyDrillResults(t *testing.T) {
	tr, _ := newTestTracker(t, newMemPersister())
	ctx := context.Background()

	tr.RecordMistakes(ctx, "animals", []string{"whale"})
	tr.RecordMistakes(ctx, "weather", []string{"fog"})

	owner := map[string]string{"whale": "animals", "fog": "weather"}
	topicOf := func(id string) (string, bool) {
		topic, ok := owner[id]
		return topic, ok
	}

	tr.ApplyDrillResults(ctx, topicOf, results("whale", true, "fog", false, "unknown", false))

	assert.Empty(t, tr.MistakesForTopic("animals"))
	fog := tr.MistakesForTopic("weather")
	require.Len(t, fog, 1)
	assert.Equal(t, 2, fog[0].TimesWrong)
	assert.Equal(t, 1, tr.MistakeCount())
}

func TestAllMistakes_MostRecentFirst(t *testing.T) {
	tr, c := newTestTracker(t, newMemPersister())
	ctx := context.Background()

	tr.RecordMistakes(ctx, "weather", []string{"fog"})
	c.advance(time.Minute)
	tr.RecordMistakes(ctx, "animals", []string{"whale"})
	c.advance(time.Minute)
	tr.RecordMistakes(ctx, "weather", []string{"hail"})

	all := tr.AllMistakes()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"hail", "whale", "fog"}, []string{all[0].ItemID, all[1].ItemID, all[2].ItemID})
	assert.Equal(t, "weather", all[0].TopicID)

	assert.Equal(t, []TopicMistakeCount{{TopicID: "animals", Count: 1}, {TopicID: "weather", Count: 2}}, tr.MistakesByTopic())
}
