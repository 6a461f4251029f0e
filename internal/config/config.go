// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Provider names accepted for SCORING_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Scoring modes accepted for SCORING_MODE.
const (
	ModeImmediate = "immediate"
	ModeBatch     = "batch"
)

// Config holds everything the serve command needs to wire the service.
type Config struct {
	HTTPAddr    string   `env:"HTTP_ADDR" envDefault:":8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	ScoringProvider string        `env:"SCORING_PROVIDER" envDefault:"openai"`
	ScoringMode     string        `env:"SCORING_MODE" envDefault:"immediate"`
	GatewayTimeout  time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"60s"`

	OpenAIAPIKey          string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL         string `env:"OPENAI_BASE_URL"`
	OpenAIModel           string `env:"OPENAI_MODEL"`
	OpenAITranscribeModel string `env:"OPENAI_TRANSCRIBE_MODEL"`
	OpenAISpeechModel     string `env:"OPENAI_SPEECH_MODEL"`
	OpenAISpeechVoice     string `env:"OPENAI_SPEECH_VOICE"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL"`

	QuestionsFile string `env:"QUESTIONS_FILE"`
	DataDir       string `env:"DATA_DIR"`

	RequireCandidateName bool `env:"REQUIRE_CANDIDATE_NAME" envDefault:"false"`
	AllowFallbackReport  bool `env:"ALLOW_FALLBACK_REPORT" envDefault:"false"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; a missing file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.ScoringProvider) {
	case ProviderOpenAI, ProviderGemini:
		c.ScoringProvider = strings.ToLower(c.ScoringProvider)
	default:
		return fmt.Errorf("unknown SCORING_PROVIDER %q (want %q or %q)", c.ScoringProvider, ProviderOpenAI, ProviderGemini)
	}

	switch strings.ToLower(c.ScoringMode) {
	case ModeImmediate, ModeBatch:
		c.ScoringMode = strings.ToLower(c.ScoringMode)
	default:
		return fmt.Errorf("unknown SCORING_MODE %q (want %q or %q)", c.ScoringMode, ModeImmediate, ModeBatch)
	}

	if c.GatewayTimeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must be positive, got %s", c.GatewayTimeout)
	}
	return nil
}

// GatewayParams builds the provider options map consumed by the gateway
// factory.
func (c *Config) GatewayParams() map[string]any {
	return map[string]any{
		"openai": map[string]any{
			"api_key":          c.OpenAIAPIKey,
			"base_url":         c.OpenAIBaseURL,
			"model":            c.OpenAIModel,
			"transcribe_model": c.OpenAITranscribeModel,
			"speech_model":     c.OpenAISpeechModel,
			"speech_voice":     c.OpenAISpeechVoice,
		},
		"gemini": map[string]any{
			"api_key": c.GeminiAPIKey,
			"model":   c.GeminiModel,
		},
	}
}
