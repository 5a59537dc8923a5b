package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderMock       = "mock"
	ProviderNone       = "none"
)

// Config is the expanded provider configuration. Only the section named by
// Provider is read.
type Config struct {
	Provider string // one of the Provider* names; "none" turns checks off

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Ollama     OllamaConfig
	Retry      RetryConfig

	Timeout time.Duration // per Generate call, retries included
}

type AnthropicConfig struct {
	APIKey, Model string
	BaseURL       string // gateway override
}

// OpenAIConfig also serves any OpenAI-compatible server via BaseURL.
type OpenAIConfig struct {
	APIKey, Model, BaseURL string
}

type GeminiConfig struct {
	APIKey, Model string
}

type OpenRouterConfig struct {
	APIKey, Model, BaseURL string
}

// OllamaConfig needs no key; the local server speaks the OpenAI protocol.
type OllamaConfig struct {
	Model, BaseURL string
}

// RetryConfig is an exponential backoff: InitialWait * Multiplier^n,
// capped at MaxWait.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig has checks disabled and a cheap model per provider.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderNone,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Ollama:     OllamaConfig{Model: "llama3.1"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// Selection is the flat provider choice carried by application config.
// Model, APIKey and BaseURL apply to the selected provider only.
type Selection struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// Config expands the selection over DefaultConfig. An empty provider
// falls back to DiscoverConfig, then to "none".
func (s Selection) Config() Config {
	cfg := DefaultConfig()
	if s.Provider == "" {
		if found, ok := DiscoverConfig(); ok {
			cfg = found
		}
	} else {
		cfg.Provider = s.Provider
	}
	if s.Timeout > 0 {
		cfg.Timeout = s.Timeout
	}

	switch cfg.Provider {
	case ProviderAnthropic:
		setIf(&cfg.Anthropic.APIKey, s.APIKey)
		setIf(&cfg.Anthropic.Model, s.Model)
		setIf(&cfg.Anthropic.BaseURL, s.BaseURL)
	case ProviderOpenAI:
		setIf(&cfg.OpenAI.APIKey, s.APIKey)
		setIf(&cfg.OpenAI.Model, s.Model)
		setIf(&cfg.OpenAI.BaseURL, s.BaseURL)
	case ProviderGemini:
		setIf(&cfg.Gemini.APIKey, s.APIKey)
		setIf(&cfg.Gemini.Model, s.Model)
	case ProviderOpenRouter:
		setIf(&cfg.OpenRouter.APIKey, s.APIKey)
		setIf(&cfg.OpenRouter.Model, s.Model)
		setIf(&cfg.OpenRouter.BaseURL, s.BaseURL)
	case ProviderOllama:
		setIf(&cfg.Ollama.Model, s.Model)
		setIf(&cfg.Ollama.BaseURL, s.BaseURL)
	}
	return cfg
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// discoveryOrder lists the key variables DiscoverConfig checks, first
// match wins.
var discoveryOrder = []struct {
	env      string
	provider string
	key      func(*Config) *string
}{
	{"GEMINI_API_KEY", ProviderGemini, func(c *Config) *string { return &c.Gemini.APIKey }},
	{"OPENAI_API_KEY", ProviderOpenAI, func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"ANTHROPIC_API_KEY", ProviderAnthropic, func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"OPENROUTER_API_KEY", ProviderOpenRouter, func(c *Config) *string { return &c.OpenRouter.APIKey }},
}

// DiscoverConfig selects the first provider with a vendor API key in the
// environment.
func DiscoverConfig() (Config, bool) {
	for _, d := range discoveryOrder {
		if k := os.Getenv(d.env); k != "" {
			cfg := DefaultConfig()
			cfg.Provider = d.provider
			*d.key(&cfg) = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	case ProviderOllama, ProviderMock, ProviderNone:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("WORDBLOOM_LLM_API_KEY is required for the %s provider", c.Provider)
	}
	return nil
}
