package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/wordbloom/internal/store"
)

// Persister reads and writes opaque documents by key. Get returns an error
// wrapping store.ErrNotFound when the key has never been written.
type Persister interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Tracker is the single owner of the progress document. Reads return the
// current immutable snapshot; every mutation builds a new document, swaps
// it in, and persists it.
type Tracker struct {
	persister Persister
	logger    *zap.Logger
	now       func() time.Time

	mu  sync.RWMutex
	doc *Document
	gen uint64 // bumped on every swap

	// persistMu orders writes; written is the newest generation attempted,
	// so an older document never overwrites a newer one.
	persistMu sync.Mutex
	written   uint64

	loadOnce sync.Once
	loaded   chan struct{}
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithClock overrides the wall clock used to timestamp mutations.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

// NewTracker creates a tracker. Nothing is read until Load is called.
func NewTracker(p Persister, logger *zap.Logger, opts ...TrackerOption) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		persister: p,
		logger:    logger,
		now:       time.Now,
		loaded:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load reads the persisted document once. Missing, unreadable, or
// incompatible data yields a fresh document; Load never fails.
func (t *Tracker) Load(ctx context.Context) *Document {
	t.loadOnce.Do(func() {
		doc := t.read(ctx)
		t.mu.Lock()
		t.doc = doc
		t.mu.Unlock()
		close(t.loaded)
	})
	return t.Snapshot()
}

func (t *Tracker) read(ctx context.Context) *Document {
	b, err := t.persister.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			t.logger.Warn("read progress", zap.Error(err))
		}
		return NewDocument(t.now())
	}
	doc, err := Unmarshal(b)
	if err != nil {
		t.logger.Warn("discarding stored progress", zap.Error(err))
		return NewDocument(t.now())
	}
	return doc
}

// WaitLoaded blocks until Load has completed or ctx is done.
func (t *Tracker) WaitLoaded(ctx context.Context) error {
	select {
	case <-t.loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Loaded reports whether Load has completed.
func (t *Tracker) Loaded() bool {
	select {
	case <-t.loaded:
		return true
	default:
		return false
	}
}

// Snapshot returns the current document, or nil before Load.
// The returned document must not be modified.
func (t *Tracker) Snapshot() *Document {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.doc
}

// Replace swaps in an externally supplied document.
func (t *Tracker) Replace(ctx context.Context, doc *Document) error {
	if doc == nil {
		return errors.New("replace progress: nil document")
	}
	if doc.Version != CurrentVersion {
		return fmt.Errorf("replace progress: %w", ErrVersionMismatch)
	}
	incoming := doc.Clone()
	t.update(ctx, func(*Document, time.Time) *Document { return incoming })
	return nil
}

// update applies fn to the current document. Returning the input document
// (or nil) signals no change. The swap happens under mu; the write to the
// persister happens after mu is released so readers never wait on storage.
// It reports whether a new document was stored.
func (t *Tracker) update(ctx context.Context, fn func(d *Document, now time.Time) *Document) bool {
	t.mu.Lock()
	if t.doc == nil {
		t.mu.Unlock()
		return false
	}
	now := t.now()
	next := fn(t.doc, now)
	if next == nil || next == t.doc {
		t.mu.Unlock()
		return false
	}

	next.LastUpdated = now
	if t.doc.LastUpdated.After(now) {
		next.LastUpdated = t.doc.LastUpdated
	}
	t.doc = next
	t.gen++
	gen := t.gen
	t.mu.Unlock()

	t.persist(ctx, gen, next)
	return true
}

// persist writes doc unless a newer generation is already stored. Failures
// are logged; in-memory state stays authoritative.
func (t *Tracker) persist(ctx context.Context, gen uint64, doc *Document) {
	t.persistMu.Lock()
	defer t.persistMu.Unlock()
	if gen <= t.written {
		return
	}
	t.written = gen

	b, err := Marshal(doc)
	if err != nil {
		t.logger.Warn("encode progress", zap.Error(err))
		return
	}
	if err := t.persister.Put(ctx, StorageKey, b); err != nil {
		t.logger.Warn("persist progress", zap.Error(err))
	}
}
