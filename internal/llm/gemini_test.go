package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-flash-lite", "gemini-2.5-flash-lite"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"referenceTranslation": map[string]any{"type": "string"},
			"score":                map[string]any{"type": "integer"},
			"grammarCorrect":       map[string]any{"type": "boolean"},
			"level":                map[string]any{"type": "string", "enum": []any{"low", "mid", "high"}},
			"suggestions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"extra": map[string]any{"type": "null"},
		},
		"required": []string{"score", "grammarCorrect"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 6 {
		t.Fatalf("expected 6 properties, got %d", len(schema.Properties))
	}
	checks := map[string]genai.Type{
		"referenceTranslation": genai.TypeString,
		"score":                genai.TypeInteger,
		"grammarCorrect":       genai.TypeBoolean,
		"suggestions":          genai.TypeArray,
		"extra":                genai.TypeString, // unknown types fall back to string
	}
	for name, want := range checks {
		if got := schema.Properties[name].Type; got != want {
			t.Errorf("%s type = %s, want %s", name, got, want)
		}
	}
	if len(schema.Properties["level"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["level"].Enum))
	}
	if schema.Properties["suggestions"].Items.Type != genai.TypeString {
		t.Fatalf("expected STRING items, got %s", schema.Properties["suggestions"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestGeminiContents(t *testing.T) {
	got := geminiContents([]Message{
		{Role: RoleUser, Content: "Evaluate."},
		{Role: RoleAssistant, Content: "{}"},
	})
	if len(got) != 2 || got[0].Role != "user" || got[1].Role != "model" {
		t.Fatalf("unexpected contents: %+v", got)
	}
	if got[1].Parts[0].Text != "{}" {
		t.Fatalf("part text = %q", got[1].Parts[0].Text)
	}
}

func TestGeminiConfig(t *testing.T) {
	cfg := geminiConfig(Request{System: "sys", MaxTokens: 100, Temperature: 0.3, Schema: evaluationSchema()})
	if cfg.MaxOutputTokens != 100 {
		t.Errorf("MaxOutputTokens = %d", cfg.MaxOutputTokens)
	}
	if cfg.Temperature == nil || *cfg.Temperature != float32(0.3) {
		t.Errorf("Temperature = %v", cfg.Temperature)
	}
	if cfg.ResponseMIMEType != "application/json" || cfg.ResponseSchema == nil {
		t.Error("expected JSON response schema")
	}

	if cfg := geminiConfig(Request{}); cfg.Temperature != nil || cfg.SystemInstruction != nil {
		t.Error("zero request should leave temperature and system unset")
	}
}
