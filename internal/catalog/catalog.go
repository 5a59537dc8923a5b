// Package catalog provides read-only access to topic-organized vocabulary.
package catalog

import (
	"context"
	"errors"
)

// ErrTopicNotFound is returned when a topic id has no vocabulary.
var ErrTopicNotFound = errors.New("topic not found")

// Topic describes a named collection of vocabulary items.
type Topic struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	NameVietnamese string `json:"nameVietnamese"`
	Icon           string `json:"icon"`
	Description    string `json:"description"`
	WordCount      int    `json:"wordCount"`
}

// Example is a sentence pair that uses the word.
type Example struct {
	English    string `json:"english"`
	Vietnamese string `json:"vietnamese"`
}

// Item is a single vocabulary entry. ID is stable across catalog updates.
type Item struct {
	ID                   string    `json:"id"`
	Word                 string    `json:"word"`
	Phonetic             string    `json:"phonetic"`
	PartOfSpeech         string    `json:"partOfSpeech"`
	DefinitionEnglish    string    `json:"definitionEnglish"`
	DefinitionVietnamese string    `json:"definitionVietnamese"`
	Examples             []Example `json:"examples"`
	Synonyms             []string  `json:"synonyms"`
	Antonyms             []string  `json:"antonyms"`
	WordFamily           []string  `json:"wordFamily"`
}

// Catalog is the vocabulary source consumed by quizzes. Implementations
// never hand out shared slices; callers may reorder what they receive.
type Catalog interface {
	Topics(ctx context.Context) ([]Topic, error)
	Topic(ctx context.Context, id string) (Topic, error)
	Items(ctx context.Context, topicID string) ([]Item, error)
}

// TranslationPrompt returns the example reserved for the translation phase.
// The third example is kept off the flashcard for that purpose; shorter
// lists fall back to their last example.
func TranslationPrompt(item Item) (Example, bool) {
	switch n := len(item.Examples); {
	case n == 0:
		return Example{}, false
	case n > 2:
		return item.Examples[2], true
	default:
		return item.Examples[n-1], true
	}
}

// Index maps every item id to the topic that owns it.
type Index map[string]string

// BuildIndex loads every topic and indexes its items. Topics whose items
// fail to load are skipped.
func BuildIndex(ctx context.Context, c Catalog) (Index, error) {
	topics, err := c.Topics(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(Index)
	for _, t := range topics {
		items, err := c.Items(ctx, t.ID)
		if err != nil {
			if errors.Is(err, ErrTopicNotFound) {
				continue
			}
			return nil, err
		}
		for _, it := range items {
			idx[it.ID] = t.ID
		}
	}
	return idx, nil
}

// TopicOf returns the owning topic of itemID.
func (idx Index) TopicOf(itemID string) (string, bool) {
	t, ok := idx[itemID]
	return t, ok
}
