// Package config loads wordbloom settings from an optional YAML file, a
// .env file and WORDBLOOM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/wordbloom/internal/llm"
	"github.com/abhisek/wordbloom/internal/store"
	"github.com/abhisek/wordbloom/internal/validation"
)

// EnvPrefix prefixes every environment override, e.g. WORDBLOOM_LLM_PROVIDER.
const EnvPrefix = "WORDBLOOM"

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Config is the full application configuration.
type Config struct {
	Env           string        `mapstructure:"env" validate:"oneof=development production test"`
	Storage       Storage       `mapstructure:"storage"`
	Catalog       Catalog       `mapstructure:"catalog"`
	LLM           LLM           `mapstructure:"llm"`
	Translation   Translation   `mapstructure:"translation"`
	Pronunciation Pronunciation `mapstructure:"pronunciation"`
	Reminder      Reminder      `mapstructure:"reminder"`
	Server        Server        `mapstructure:"server"`
}

// Storage selects where the progress document lives.
type Storage struct {
	Driver         string `mapstructure:"driver" validate:"oneof=sqlite file postgres"`
	Path           string `mapstructure:"path"`
	PostgresURL    string `mapstructure:"postgres_url" validate:"required_if=Driver postgres"`
	MaxConnections int32  `mapstructure:"max_connections" validate:"min=1,max=100"`
}

// Catalog points at the vocabulary content directory.
type Catalog struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// LLM is the flat provider selection. "mock" accepts every translation
// without a model; "none" disables checks so results are "unavailable".
type LLM struct {
	Provider string        `mapstructure:"provider" validate:"omitempty,oneof=anthropic openai gemini openrouter ollama mock none"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"min=0"`
}

// Translation tunes the translation verdict.
type Translation struct {
	PassScore int `mapstructure:"pass_score" validate:"min=1,max=100"`
}

// Pronunciation tunes the transcript evaluator.
type Pronunciation struct {
	PassScore float64 `mapstructure:"pass_score" validate:"gt=0,lte=1"`
}

// Reminder configures the due-review reminder loop.
type Reminder struct {
	Interval time.Duration `mapstructure:"interval" validate:"min=1m"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// Selection converts the LLM section for the provider factory.
func (l LLM) Selection() llm.Selection {
	return llm.Selection{
		Provider: l.Provider,
		Model:    l.Model,
		APIKey:   l.APIKey,
		BaseURL:  l.BaseURL,
		Timeout:  l.Timeout,
	}
}

// StoragePath returns the configured path or the driver's default
// location under the data directory.
func (s Storage) StoragePath() (string, error) {
	if s.Path != "" {
		if s.Driver == DriverFile {
			return s.Path, os.MkdirAll(s.Path, 0o755)
		}
		return s.Path, store.EnsureDir(s.Path)
	}

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return "", err
	}
	if s.Driver == DriverFile {
		dir := filepath.Join(filepath.Dir(dbPath), "data")
		return dir, os.MkdirAll(dir, 0o755)
	}
	return dbPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.postgres_url", "")
	v.SetDefault("storage.max_connections", 10)
	v.SetDefault("catalog.dir", "data/vocabulary")
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("translation.pass_score", 80)
	v.SetDefault("pronunciation.pass_score", 0.8)
	v.SetDefault("reminder.interval", "1h")
	v.SetDefault("server.addr", ":8080")
}

// Load reads configuration. path names an explicit YAML file; when empty,
// wordbloom.yaml is looked up in the working directory and the user
// config directory, and a missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("wordbloom")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "wordbloom"))
		}
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validation.Struct(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
