package progress

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordbloom/internal/spacedrep"
)

const storedDoc = `{
	"version": 1,
	"topics": {
		"animals": {
			"topicId": "animals",
			"quizAttempts": [{"date": 1746093600000, "score": 70, "correct": 7, "total": 10}],
			"bestScore": 70,
			"completedAt": 1746093600000,
			"reviewSchedule": {
				"oneDay": {"date": 1746180000000, "completed": true},
				"oneWeek": {"date": 1746698400000, "completed": false}
			},
			"mistakes": [{"itemId": "whale", "lastWrongDate": 1746093600000, "timesWrong": 2}],
			"activeReview": {
				"reviewType": "oneWeek",
				"shuffledItemIds": ["whale", "otter", "seal"],
				"currentIndex": 1,
				"results": [{"itemId": "whale", "userAnswer": "whale", "isCorrect": true}]
			}
		},
		"weather": {
			"topicId": "weather",
			"quizAttempts": [],
			"bestScore": null,
			"completedAt": null,
			"reviewSchedule": null
		}
	},
	"dismissedReviewAlerts": ["animals-oneDay"],
	"dismissedMistakesAlertCount": 3,
	"lastUpdated": 1746093600000
}`

func TestUnmarshal_StoredDocument(t *testing.T) {
	doc, err := Unmarshal([]byte(storedDoc))
	require.NoError(t, err)

	anchor := time.UnixMilli(1746093600000).UTC()
	animals := doc.Topics["animals"]
	require.NotNil(t, animals)
	assert.Equal(t, 70, *animals.BestScore)
	assert.Equal(t, anchor, *animals.CompletedAt)
	assert.True(t, animals.Schedule.OneDay.Completed)
	assert.Equal(t, anchor.Add(spacedrep.OneWeekInterval), animals.Schedule.OneWeek.Date)
	assert.Equal(t, 2, animals.Mistakes[0].TimesWrong)
	require.NotNil(t, animals.ActiveReview)
	assert.Equal(t, spacedrep.OneWeek, animals.ActiveReview.Kind)
	assert.Equal(t, 1, animals.ActiveReview.Index)

	weather := doc.Topics["weather"]
	assert.Nil(t, weather.BestScore)
	assert.Nil(t, weather.Schedule)
	assert.Equal(t, spacedrep.StatusNotStarted, weather.Status(anchor))

	assert.Equal(t, 3, *doc.DismissedMistakesAlertCount)
	assert.Equal(t, anchor, doc.LastUpdated)
}

func TestMarshal_WireShape(t *testing.T) {
	doc, err := Unmarshal([]byte(storedDoc))
	require.NoError(t, err)

	b, err := Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, storedDoc, string(b))
}

func TestMarshal_PracticePositionOmitsReviewType(t *testing.T) {
	doc := NewDocument(time.UnixMilli(0))
	doc.Topics["animals"] = &Topic{
		TopicID:    "animals",
		ActiveQuiz: &SavedPosition{},
	}
	b, err := Marshal(doc)
	require.NoError(t, err)

	var raw struct {
		Topics map[string]map[string]json.RawMessage `json:"topics"`
	}
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.JSONEq(t, `{"shuffledItemIds":null,"currentIndex":0,"results":[]}`, string(raw.Topics["animals"]["activeQuiz"]))
}

func TestUnmarshal_Rejects(t *testing.T) {
	_, err := Unmarshal([]byte(`{"version":0,"topics":{}}`))
	assert.ErrorIs(t, err, ErrVersionMismatch)

	_, err = Unmarshal([]byte(`{"version":1,"topics":{"a":{"activeReview":{"reviewType":"oneYear"}}}}`))
	assert.Error(t, err)
}
