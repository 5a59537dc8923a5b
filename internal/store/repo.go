package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	TopicID string    // restrict to one topic
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// SessionEventData captures a session start or end.
type SessionEventData struct {
	SessionID    string
	Action       string // "start" or "end"
	TopicID      string
	Mode         string
	Correct      int
	Total        int
	DurationSecs int
}

// AnswerEventData captures one answered quiz item with its phase outcomes.
type AnswerEventData struct {
	SessionID        string
	TopicID          string
	ItemID           string
	UserAnswer       string
	Spelling         bool
	Pronunciation    bool
	Translation      bool
	TranslationScore int
	Correct          bool
}

// SessionSummary is a completed session as recorded by its end event.
type SessionSummary struct {
	Sequence     int64
	Timestamp    time.Time
	SessionID    string
	TopicID      string
	Mode         string
	Correct      int
	Total        int
	DurationSecs int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// LLMUsageByModel aggregates LLM requests per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records one answered item.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// SessionSummaries returns ended sessions, newest first.
	SessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummary, error)

	// ItemAccuracy returns the fraction of correct answers recorded for an
	// item, or 0 when it has never been answered.
	ItemAccuracy(ctx context.Context, itemID string) (float64, error)
}
