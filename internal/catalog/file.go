package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

const topicsFile = "topics.json"

type topicData struct {
	TopicID string `json:"topicId"`
	Items   []Item `json:"items"`
}

// FileCatalog reads vocabulary from a directory holding topics.json and one
// <topicId>.json file per topic. Parsed files are cached for the lifetime
// of the catalog.
type FileCatalog struct {
	fsys fs.FS

	mu     sync.Mutex
	topics []Topic
	items  map[string][]Item
}

// NewFileCatalog returns a catalog rooted at dir.
func NewFileCatalog(dir string) *FileCatalog {
	return NewFSCatalog(os.DirFS(dir))
}

// NewFSCatalog returns a catalog backed by fsys.
func NewFSCatalog(fsys fs.FS) *FileCatalog {
	return &FileCatalog{fsys: fsys, items: make(map[string][]Item)}
}

func (c *FileCatalog) Topics(ctx context.Context) ([]Topic, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.topics == nil {
		b, err := fs.ReadFile(c.fsys, topicsFile)
		if err != nil {
			return nil, fmt.Errorf("read topics: %w", err)
		}
		var topics []Topic
		if err := json.Unmarshal(b, &topics); err != nil {
			return nil, fmt.Errorf("parse topics: %w", err)
		}
		c.topics = topics
	}
	return slices.Clone(c.topics), nil
}

func (c *FileCatalog) Topic(ctx context.Context, id string) (Topic, error) {
	topics, err := c.Topics(ctx)
	if err != nil {
		return Topic{}, err
	}
	for _, t := range topics {
		if t.ID == id {
			return t, nil
		}
	}
	return Topic{}, fmt.Errorf("topic %q: %w", id, ErrTopicNotFound)
}

func (c *FileCatalog) Items(ctx context.Context, topicID string) ([]Item, error) {
	if !fs.ValidPath(topicID) || filepath.Base(topicID) != topicID {
		return nil, fmt.Errorf("topic %q: %w", topicID, ErrTopicNotFound)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if items, ok := c.items[topicID]; ok {
		return slices.Clone(items), nil
	}

	b, err := fs.ReadFile(c.fsys, topicID+".json")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("topic %q: %w", topicID, ErrTopicNotFound)
		}
		return nil, fmt.Errorf("read topic %q: %w", topicID, err)
	}
	var data topicData
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("parse topic %q: %w", topicID, err)
	}
	c.items[topicID] = data.Items
	return slices.Clone(data.Items), nil
}
