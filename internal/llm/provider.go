package llm

import (
	"context"
	"encoding/json"
)

// Purpose labels why a request was made. It is recorded with every LLM
// event so usage can be broken down later.
type Purpose string

const (
	PurposeTranslationCheck Purpose = "translation-check"
	PurposeUnknown          Purpose = "unknown"
)

type purposeKey struct{}

// WithPurpose attaches a purpose label to ctx.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Provider sends one prompt to a model. Implementations map their SDK
// errors onto the typed errors in this package.
type Provider interface {
	// Generate returns the model's answer. With req.Schema set, Content is
	// JSON that has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is a provider-neutral prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, switches the provider to its structured output
	// mode. Nil means free text.
	Schema *Schema

	MaxTokens   int
	Temperature float64 // 0 leaves the provider default
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Schema is a named JSON Schema document for structured answers.
type Schema struct {
	Name        string // kebab-case, e.g. "translation-check"
	Description string
	Definition  map[string]any

	// Strict requests exact adherence where supported. Every property of a
	// strict definition must be required.
	Strict bool
}

// Response is a provider answer.
type Response struct {
	// Content is validated JSON with Schema, raw model text otherwise.
	Content    json.RawMessage
	Usage      Usage
	Model      string // model that actually served the request
	StopReason string // StopEnd or StopMaxTokens
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
