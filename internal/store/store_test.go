package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrate_CreatesTablesIdempotently(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := migrate(ctx, s.DB()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	for _, table := range []string{documentsTable, sessionTable, answerTable, llmRequestTable, sequenceTable} {
		var n int
		err := s.DB().QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n)
		if err != nil {
			t.Fatalf("lookup %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("table %s missing", table)
		}
	}

	var rows int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM " + sequenceTable).Scan(&rows); err != nil {
		t.Fatalf("count sequence rows: %v", err)
	}
	if rows != 1 {
		t.Errorf("sequence rows = %d, want 1 after repeated migrate", rows)
	}
}

func TestSQLiteDocuments_RoundTrip(t *testing.T) {
	docs := openTestStore(t).Documents()
	ctx := context.Background()

	_, err := docs.Get(ctx, "progress")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}

	if err := docs.Put(ctx, "progress", []byte(`{"version":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := docs.Put(ctx, "progress", []byte(`{"version":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := docs.Get(ctx, "progress")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"version":2}` {
		t.Errorf("Get() = %s, want overwritten value", got)
	}

	if err := docs.Delete(ctx, "progress"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := docs.Get(ctx, "progress"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v, want ErrNotFound", err)
	}
}

func TestFileDocuments_RoundTrip(t *testing.T) {
	docs, err := NewFileDocuments(t.TempDir())
	if err != nil {
		t.Fatalf("new file documents: %v", err)
	}
	ctx := context.Background()

	if _, err := docs.Get(ctx, "progress"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}
	if err := docs.Put(ctx, "progress", []byte("hello")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := docs.Get(ctx, "progress")
	if err != nil || string(got) != "hello" {
		t.Fatalf("Get() = %q, %v", got, err)
	}

	if err := docs.Put(ctx, "../escape", nil); err == nil {
		t.Error("expected error for key with path separator")
	}
}

func TestSequenceCounter_Monotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := range 5 {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if i > 0 && seq != prev+1 {
			t.Errorf("sequence %d after %d", seq, prev)
		}
		prev = seq
	}
}

func TestSessionSummaries(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	repo := s.EventRepo()
	ctx := context.Background()

	events := []SessionEventData{
		{SessionID: "s1", Action: "start", TopicID: "animals", Mode: "practice"},
		{SessionID: "s1", Action: "end", TopicID: "animals", Mode: "practice", Correct: 7, Total: 10, DurationSecs: 300},
		{SessionID: "s2", Action: "start", TopicID: "weather", Mode: "review:oneDay"},
		{SessionID: "s2", Action: "end", TopicID: "weather", Mode: "review:oneDay", Correct: 5, Total: 5, DurationSecs: 120},
	}
	for _, e := range events {
		if err := repo.AppendSessionEvent(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.SessionSummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d summaries, want 2", len(all))
	}
	if all[0].SessionID != "s2" || all[1].SessionID != "s1" {
		t.Errorf("order = %s,%s; want newest first", all[0].SessionID, all[1].SessionID)
	}
	if all[1].Correct != 7 || all[1].Total != 10 {
		t.Errorf("s1 score = %d/%d", all[1].Correct, all[1].Total)
	}

	animals, err := repo.SessionSummaries(ctx, QueryOpts{TopicID: "animals", Limit: 5})
	if err != nil {
		t.Fatalf("summaries by topic: %v", err)
	}
	if len(animals) != 1 || animals[0].Mode != "practice" {
		t.Errorf("topic filter returned %+v", animals)
	}
}

func TestItemAccuracy(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	acc, err := repo.ItemAccuracy(ctx, "whale")
	if err != nil || acc != 0 {
		t.Fatalf("ItemAccuracy(unseen) = %v, %v", acc, err)
	}

	for _, correct := range []bool{true, false, true, true} {
		err := repo.AppendAnswerEvent(ctx, AnswerEventData{
			SessionID: "s1", TopicID: "animals", ItemID: "whale",
			Spelling: correct, Pronunciation: true, Translation: true,
			TranslationScore: 90, Correct: correct,
		})
		if err != nil {
			t.Fatalf("append answer: %v", err)
		}
	}

	acc, err = repo.ItemAccuracy(ctx, "whale")
	if err != nil {
		t.Fatalf("accuracy: %v", err)
	}
	if acc != 0.75 {
		t.Errorf("ItemAccuracy = %v, want 0.75", acc)
	}
}

func TestAppendLLMRequest(t *testing.T) {
	s := openTestStore(t)
	err := s.EventRepo().AppendLLMRequest(context.Background(), LLMRequestEventData{
		Provider: "mock", Model: "m", Purpose: "translation-check", Success: true,
	})
	if err != nil {
		t.Fatalf("append llm request: %v", err)
	}

	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM llm_request_events").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestLLMUsageByModel(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "translation-check", InputTokens: 100, OutputTokens: 20, LatencyMs: 300, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "translation-check", InputTokens: 50, OutputTokens: 0, LatencyMs: 100, Success: false, ErrorMessage: "timeout"},
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "translation-check", InputTokens: 10, OutputTokens: 5, LatencyMs: 50, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	usage, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("len = %d, want 2", len(usage))
	}

	want := LLMUsage{Model: "gpt-4o-mini", Calls: 2, Failures: 1, InputTokens: 150, OutputTokens: 20, AvgLatencyMs: 200}
	if usage[1] != want {
		t.Errorf("usage[1] = %+v, want %+v", usage[1], want)
	}
	if usage[0].Model != "claude-haiku-4-5" || usage[0].Failures != 0 {
		t.Errorf("usage[0] = %+v", usage[0])
	}
}
