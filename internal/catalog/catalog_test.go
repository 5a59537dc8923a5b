package catalog

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"topics.json": {Data: []byte(`[
			{"id":"animals","name":"Animals","nameVietnamese":"Động vật","icon":"🐾","wordCount":2},
			{"id":"weather","name":"Weather","wordCount":1}
		]`)},
		"animals.json": {Data: []byte(`{"topicId":"animals","items":[
			{"id":"a1","word":"whale","wordFamily":["whales"],"examples":[
				{"english":"A whale sings.","vietnamese":"Cá voi hát."},
				{"english":"The whale dives.","vietnamese":"Cá voi lặn."},
				{"english":"Humpback whales migrate.","vietnamese":"Cá voi lưng gù di cư."}
			]},
			{"id":"a2","word":"otter","examples":[{"english":"Otters float.","vietnamese":"Rái cá nổi."}]}
		]}`)},
	}
}

func TestFileCatalog_Topics(t *testing.T) {
	c := NewFSCatalog(testFS())
	topics, err := c.Topics(context.Background())
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "animals", topics[0].ID)
	assert.Equal(t, "Động vật", topics[0].NameVietnamese)
}

func TestFileCatalog_Items(t *testing.T) {
	c := NewFSCatalog(testFS())
	items, err := c.Items(context.Background(), "animals")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "whale", items[0].Word)

	items[0].Word = "changed"
	again, err := c.Items(context.Background(), "animals")
	require.NoError(t, err)
	assert.Equal(t, "whale", again[0].Word, "cached items must not be shared")
}

func TestFileCatalog_UnknownTopic(t *testing.T) {
	c := NewFSCatalog(testFS())
	_, err := c.Items(context.Background(), "weather")
	assert.ErrorIs(t, err, ErrTopicNotFound)

	_, err = c.Items(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrTopicNotFound)

	_, err = c.Topic(context.Background(), "space")
	assert.ErrorIs(t, err, ErrTopicNotFound)
}

func TestTranslationPrompt(t *testing.T) {
	items, err := NewFSCatalog(testFS()).Items(context.Background(), "animals")
	require.NoError(t, err)

	ex, ok := TranslationPrompt(items[0])
	require.True(t, ok)
	assert.Equal(t, "Cá voi lưng gù di cư.", ex.Vietnamese)

	ex, ok = TranslationPrompt(items[1])
	require.True(t, ok)
	assert.Equal(t, "Otters float.", ex.English)

	_, ok = TranslationPrompt(Item{})
	assert.False(t, ok)
}

func TestBuildIndex(t *testing.T) {
	idx, err := BuildIndex(context.Background(), NewFSCatalog(testFS()))
	require.NoError(t, err)

	topic, ok := idx.TopicOf("a2")
	assert.True(t, ok)
	assert.Equal(t, "animals", topic)

	_, ok = idx.TopicOf("missing")
	assert.False(t, ok)
}
