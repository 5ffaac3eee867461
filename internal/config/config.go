package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"jobscout/internal/model"
)

// Config is the root configuration for a jobscout run.
type Config struct {
	Preferences  model.Preferences
	Sources      []SourceConfig
	LLM          LLMConfig
	Notification NotificationConfig
	Ledger       LedgerConfig
	Run          RunConfig
}

// SourceConfig enables a listing source and optionally overrides the search
// query derived from the preference keywords.
type SourceConfig struct {
	Name    string `yaml:"name" validate:"required,oneof=internshala unstop remoteok"`
	Enabled bool   `yaml:"enabled"`
	Query   string `yaml:"query"` // optional override
}

// LLMConfig controls the extraction-and-filter engine.
type LLMConfig struct {
	Provider        string // "openai" or "anthropic"
	Model           string
	APIKey          string // expanded from env by Load
	BaseURL         string // openai only; defaults to the public API
	Timeout         time.Duration
	BatchCharBudget int // max combined raw text per request
	MaxRetries      int
	RetryBaseDelay  time.Duration
}

// NotificationConfig selects the outbound channel.
type NotificationConfig struct {
	Type       string // "telegram", "slack", or "log"
	BotToken   string
	ChatID     string
	WebhookURL string
	MinDelay   time.Duration // pacing between sends
}

// LedgerConfig selects where dispatched-job fingerprints persist.
type LedgerConfig struct {
	Backend string // "file" or "sqlite"
	Path    string
}

// RunConfig bounds a single pipeline run.
type RunConfig struct {
	Timeout          time.Duration // whole run
	CollectorTimeout time.Duration // per collector
}

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// rawConfig mirrors the YAML layout (snake_case, durations as strings).
type rawConfig struct {
	Preferences  rawPreferences  `yaml:"preferences" validate:"required"`
	Sources      []SourceConfig  `yaml:"sources" validate:"min=1,dive"`
	LLM          rawLLM          `yaml:"llm"`
	Notification rawNotification `yaml:"notification"`
	Ledger       rawLedger       `yaml:"ledger"`
	Run          rawRun          `yaml:"run"`
}

type rawPreferences struct {
	Role            string   `yaml:"role" validate:"required"`
	Keywords        []string `yaml:"keywords" validate:"min=1,dive,required"`
	GraduationYear  int      `yaml:"graduation_year" validate:"omitempty,min=1990,max=2100"`
	ExperienceLevel string   `yaml:"experience_level" validate:"required,oneof=internship entry-level mid senior"`
}

type rawLLM struct {
	Provider        string `yaml:"provider" validate:"omitempty,oneof=openai anthropic"`
	Model           string `yaml:"model" validate:"required"`
	APIKey          string `yaml:"api_key" validate:"required"`
	BaseURL         string `yaml:"base_url"`
	Timeout         string `yaml:"timeout"`
	BatchCharBudget int    `yaml:"batch_char_budget" validate:"omitempty,min=1000"`
	MaxRetries      int    `yaml:"max_retries" validate:"omitempty,max=10"`
	RetryBaseDelay  string `yaml:"retry_base_delay"`
}

type rawNotification struct {
	Type       string `yaml:"type" validate:"omitempty,oneof=telegram slack log"`
	BotToken   string `yaml:"bot_token"`
	ChatID     string `yaml:"chat_id"`
	WebhookURL string `yaml:"webhook_url"`
	MinDelay   string `yaml:"min_delay"`
}

type rawLedger struct {
	Backend string `yaml:"backend" validate:"omitempty,oneof=file sqlite"`
	Path    string `yaml:"path"`
}

type rawRun struct {
	Timeout          string `yaml:"timeout"`
	CollectorTimeout string `yaml:"collector_timeout"`
}

// Load reads the YAML config at path, expands environment variables,
// validates it, and returns the cooked Config. Any failure here is a
// ConfigError: the run must not start with a broken preference context.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.ConfigError{Err: fmt.Errorf("read config: %w", err)}
	}

	// Expand env vars so API keys and tokens stay out of the file.
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, &model.ConfigError{Err: fmt.Errorf("parse config: %w", err)}
	}

	if err := validator.New().Struct(&raw); err != nil {
		return nil, &model.ConfigError{Err: fmt.Errorf("validate config: %w", err)}
	}

	cfg := &Config{
		Preferences: model.Preferences{
			Role:            raw.Preferences.Role,
			Keywords:        raw.Preferences.Keywords,
			GraduationYear:  raw.Preferences.GraduationYear,
			ExperienceLevel: raw.Preferences.ExperienceLevel,
		},
		Sources: raw.Sources,
		LLM: LLMConfig{
			Provider:        defaultString(raw.LLM.Provider, "openai"),
			Model:           raw.LLM.Model,
			APIKey:          raw.LLM.APIKey,
			BaseURL:         raw.LLM.BaseURL,
			BatchCharBudget: defaultInt(raw.LLM.BatchCharBudget, 20000),
			MaxRetries:      defaultInt(raw.LLM.MaxRetries, 2),
		},
		Notification: NotificationConfig{
			Type:       defaultString(raw.Notification.Type, "log"),
			BotToken:   raw.Notification.BotToken,
			ChatID:     raw.Notification.ChatID,
			WebhookURL: raw.Notification.WebhookURL,
		},
		Ledger: LedgerConfig{
			Backend: defaultString(raw.Ledger.Backend, "file"),
			Path:    raw.Ledger.Path,
		},
	}

	if cfg.LLM.Provider == "openai" && cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = defaultOpenAIBaseURL
	}
	if cfg.Ledger.Path == "" {
		if cfg.Ledger.Backend == "sqlite" {
			cfg.Ledger.Path = "jobscout.db"
		} else {
			cfg.Ledger.Path = "ledger.json"
		}
	}

	durations := []struct {
		name string
		raw  string
		def  time.Duration
		dst  *time.Duration
	}{
		{"llm.timeout", raw.LLM.Timeout, 90 * time.Second, &cfg.LLM.Timeout},
		{"llm.retry_base_delay", raw.LLM.RetryBaseDelay, 5 * time.Second, &cfg.LLM.RetryBaseDelay},
		{"notification.min_delay", raw.Notification.MinDelay, 500 * time.Millisecond, &cfg.Notification.MinDelay},
		{"run.timeout", raw.Run.Timeout, 10 * time.Minute, &cfg.Run.Timeout},
		{"run.collector_timeout", raw.Run.CollectorTimeout, 90 * time.Second, &cfg.Run.CollectorTimeout},
	}
	for _, d := range durations {
		*d.dst = d.def
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, &model.ConfigError{Err: fmt.Errorf("parse %s %q: %w", d.name, d.raw, err)}
		}
		*d.dst = parsed
	}

	if err := validate(cfg); err != nil {
		return nil, &model.ConfigError{Err: err}
	}

	return cfg, nil
}

// validate covers the cross-field rules struct tags cannot express.
func validate(cfg *Config) error {
	enabled := 0
	for _, s := range cfg.Sources {
		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	switch cfg.Notification.Type {
	case "telegram":
		if cfg.Notification.BotToken == "" || cfg.Notification.ChatID == "" {
			return fmt.Errorf("notification.bot_token and notification.chat_id are required when type is \"telegram\"")
		}
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
	}

	if cfg.Run.Timeout <= 0 {
		return fmt.Errorf("run.timeout must be positive, got %v", cfg.Run.Timeout)
	}
	if cfg.Run.CollectorTimeout <= 0 {
		return fmt.Errorf("run.collector_timeout must be positive, got %v", cfg.Run.CollectorTimeout)
	}

	return nil
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
