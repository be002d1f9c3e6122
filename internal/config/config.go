// Package config loads the jobscout YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for jobscout.
type Config struct {
	DBPath      string
	Feeds       []string
	MetroCities []string
	Dedup       DedupConfig
	Retry       RetryConfig
	AI          AIConfig
	Search      SearchConfig
}

// AIConfig controls the optional OpenAI classification layer.
type AIConfig struct {
	Enabled bool
	BaseURL string        // defaults to https://api.openai.com/v1
	Model   string        // OpenAI model identifier, e.g. "gpt-4o-mini"
	APIKey  string        // expanded from env var by Load
	Timeout time.Duration // per-request timeout
}

// SearchConfig controls the optional LLM web-search source.
type SearchConfig struct {
	Enabled bool
	Roles   []string // role titles the search query asks for
	Domains []string // job-board domains the search is restricted to
}

// DedupConfig controls the duplicate sweep.
type DedupConfig struct {
	WindowDays int // postings of one title within this many days form one cluster
}

// RetryConfig controls backoff on transient fetch failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as
// strings).
type rawConfig struct {
	DBPath      string          `yaml:"db_path"`
	Feeds       []string        `yaml:"feeds"`
	MetroCities []string        `yaml:"metro_cities"`
	Dedup       rawDedupConfig  `yaml:"dedup"`
	Retry       rawRetryConfig  `yaml:"retry"`
	AI          rawAIConfig     `yaml:"ai"`
	Search      rawSearchConfig `yaml:"search"`
}

type rawAIConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

type rawSearchConfig struct {
	Enabled bool     `yaml:"enabled"`
	Roles   []string `yaml:"roles"`
	Domains []string `yaml:"domains"`
}

type rawDedupConfig struct {
	WindowDays int `yaml:"window_days"`
}

type rawRetryConfig struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

// Load reads and parses the YAML config file at path, validates it, and
// returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	dbPath := raw.DBPath
	if dbPath == "" {
		dbPath = "jobscout.db"
	}

	windowDays := 30 // default: one month
	if raw.Dedup.WindowDays != 0 {
		windowDays = raw.Dedup.WindowDays
	}

	maxRetries := 2 // default
	if raw.Retry.MaxRetries != nil {
		maxRetries = *raw.Retry.MaxRetries
	}

	baseDelay := 5 * time.Second // default
	if raw.Retry.BaseDelay != "" {
		baseDelay, err = time.ParseDuration(raw.Retry.BaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse retry.base_delay %q: %w", raw.Retry.BaseDelay, err)
		}
	}

	aiTimeout := 60 * time.Second // default
	if raw.AI.Timeout != "" {
		aiTimeout, err = time.ParseDuration(raw.AI.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse ai.timeout %q: %w", raw.AI.Timeout, err)
		}
	}

	aiBaseURL := raw.AI.BaseURL
	if aiBaseURL == "" {
		aiBaseURL = defaultOpenAIBaseURL
	}

	cfg := &Config{
		DBPath:      dbPath,
		Feeds:       raw.Feeds,
		MetroCities: raw.MetroCities,
		Dedup: DedupConfig{
			WindowDays: windowDays,
		},
		Retry: RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  baseDelay,
		},
		AI: AIConfig{
			Enabled: raw.AI.Enabled,
			BaseURL: aiBaseURL,
			Model:   raw.AI.Model,
			APIKey:  raw.AI.APIKey,
			Timeout: aiTimeout,
		},
		Search: SearchConfig{
			Enabled: raw.Search.Enabled,
			Roles:   raw.Search.Roles,
			Domains: raw.Search.Domains,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Dedup.WindowDays < 0 {
		return fmt.Errorf("dedup.window_days must not be negative, got %d", cfg.Dedup.WindowDays)
	}
	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}

	if cfg.AI.Enabled {
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("ai.api_key is required when ai.enabled is true")
		}
		if cfg.AI.Model == "" {
			return fmt.Errorf("ai.model is required when ai.enabled is true")
		}
	}

	if cfg.Search.Enabled {
		if !cfg.AI.Enabled {
			return fmt.Errorf("search.enabled requires ai.enabled (search reuses the ai credentials)")
		}
		if len(cfg.Search.Roles) == 0 {
			return fmt.Errorf("search.roles must not be empty when search.enabled is true")
		}
		if len(cfg.Search.Domains) == 0 {
			return fmt.Errorf("search.domains must not be empty when search.enabled is true")
		}
	}

	return nil
}
