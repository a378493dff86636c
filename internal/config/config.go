package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for configuration values.
const (
	DefaultAPIBaseURL  = "https://v3.football.api-sports.io"
	DefaultTimezone    = "Europe/Belgrade"
	DefaultOutDir      = "public"
	DefaultBackend     = "file"
	DefaultDBPath      = "./data/snapshots.db"
	DefaultOpenAIModel = "gpt-4.1-mini"
	DefaultOpenAIURL   = "https://api.openai.com/v1"

	DefaultRequestGap     = 800 * time.Millisecond
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRetries     = 3

	// Canonical selection thresholds. Earlier script generations of this
	// system disagreed on a few of these; the chosen set is documented in
	// DESIGN.md.
	DefaultDCMinOdd    = 1.10
	DefaultBTTSMinOdd  = 1.30
	DefaultBTTSMaxOdd  = 2.10
	DefaultMWMinOdd    = 1.70
	DefaultMWMaxOdd    = 2.50
	DefaultMaxAnalyses = 5
)

// Config holds all application configuration.
type Config struct {
	APIKey     string
	APIBaseURL string
	Timezone   string

	OutDir  string
	Backend string // "file" or "sqlite"
	DBPath  string

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	TelegramToken  string
	TelegramChatID string

	RequestGap     time.Duration
	RequestTimeout time.Duration
	MaxRetries     int

	DCMinOdd    float64
	BTTSMinOdd  float64
	BTTSMaxOdd  float64
	MWMinOdd    float64
	MWMaxOdd    float64
	MaxAnalyses int
}

// Load reads configuration from environment variables (and .env file if present).
func Load() Config {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	apiKey := os.Getenv("API_FOOTBALL_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("API_KEY")
	}

	cfg := Config{
		APIKey:     apiKey,
		APIBaseURL: DefaultAPIBaseURL,
		Timezone:   DefaultTimezone,

		OutDir:  DefaultOutDir,
		Backend: DefaultBackend,
		DBPath:  DefaultDBPath,

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   DefaultOpenAIModel,
		OpenAIBaseURL: DefaultOpenAIURL,

		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),

		RequestGap:     DefaultRequestGap,
		RequestTimeout: DefaultRequestTimeout,
		MaxRetries:     DefaultMaxRetries,

		DCMinOdd:    DefaultDCMinOdd,
		BTTSMinOdd:  DefaultBTTSMinOdd,
		BTTSMaxOdd:  DefaultBTTSMaxOdd,
		MWMinOdd:    DefaultMWMinOdd,
		MWMaxOdd:    DefaultMWMaxOdd,
		MaxAnalyses: DefaultMaxAnalyses,
	}

	if v := os.Getenv("API_FOOTBALL_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("OUT_DIR"); v != "" {
		cfg.OutDir = v
	}
	if v := os.Getenv("SNAPSHOT_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAIModel = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAIBaseURL = v
	}

	if v := os.Getenv("REQUEST_GAP_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.RequestGap = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.RequestTimeout = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRetries = n
		}
	}

	if v := os.Getenv("DC_MIN_ODD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DCMinOdd = f
		}
	}
	if v := os.Getenv("BTTS_MIN_ODD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.BTTSMinOdd = f
		}
	}
	if v := os.Getenv("BTTS_MAX_ODD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.BTTSMaxOdd = f
		}
	}
	if v := os.Getenv("MW_MIN_ODD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MWMinOdd = f
		}
	}
	if v := os.Getenv("MW_MAX_ODD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MWMaxOdd = f
		}
	}
	if v := os.Getenv("MAX_ANALYSES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxAnalyses = n
		}
	}

	return cfg
}

// Validate checks that configuration values are within acceptable ranges.
func Validate(cfg Config) error {
	if cfg.Backend != "file" && cfg.Backend != "sqlite" {
		return fmt.Errorf("SNAPSHOT_BACKEND must be file or sqlite, got %q", cfg.Backend)
	}
	if cfg.Backend == "sqlite" && cfg.DBPath == "" {
		return fmt.Errorf("DB_PATH is required for the sqlite backend")
	}
	if cfg.RequestGap < 0 {
		return fmt.Errorf("REQUEST_GAP_MS must be non-negative, got %v", cfg.RequestGap)
	}
	if cfg.RequestTimeout < time.Second {
		return fmt.Errorf("REQUEST_TIMEOUT_MS must be at least 1000ms, got %v", cfg.RequestTimeout)
	}
	if cfg.MaxRetries < 1 {
		return fmt.Errorf("MAX_RETRIES must be at least 1, got %d", cfg.MaxRetries)
	}
	if cfg.DCMinOdd < 1.0 {
		return fmt.Errorf("DC_MIN_ODD must be at least 1.0, got %f", cfg.DCMinOdd)
	}
	if cfg.BTTSMinOdd < 1.0 || cfg.BTTSMaxOdd < cfg.BTTSMinOdd {
		return fmt.Errorf("BTTS band invalid: %.2f-%.2f", cfg.BTTSMinOdd, cfg.BTTSMaxOdd)
	}
	if cfg.MWMinOdd < 1.0 || cfg.MWMaxOdd < cfg.MWMinOdd {
		return fmt.Errorf("MW band invalid: %.2f-%.2f", cfg.MWMinOdd, cfg.MWMaxOdd)
	}
	if cfg.MaxAnalyses < 0 {
		return fmt.Errorf("MAX_ANALYSES must be non-negative, got %d", cfg.MaxAnalyses)
	}
	return nil
}
