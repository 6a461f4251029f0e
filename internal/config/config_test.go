package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, ProviderOpenAI, cfg.ScoringProvider)
	require.Equal(t, ModeImmediate, cfg.ScoringMode)
	require.Equal(t, 60*time.Second, cfg.GatewayTimeout)
	require.False(t, cfg.RequireCandidateName)
	require.False(t, cfg.AllowFallbackReport)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SCORING_PROVIDER", "gemini")
	t.Setenv("SCORING_MODE", "batch")
	t.Setenv("GATEWAY_TIMEOUT", "30s")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("ALLOW_FALLBACK_REPORT", "true")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, ProviderGemini, cfg.ScoringProvider)
	require.Equal(t, ModeBatch, cfg.ScoringMode)
	require.Equal(t, 30*time.Second, cfg.GatewayTimeout)
	require.Equal(t, "test-key", cfg.GeminiAPIKey)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	require.True(t, cfg.AllowFallbackReport)
}

func TestLoadValidation(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("SCORING_PROVIDER", "watson")

		_, err := Load()
		require.ErrorContains(t, err, "SCORING_PROVIDER")
	})

	t.Run("unknown mode", func(t *testing.T) {
		t.Setenv("SCORING_MODE", "eventually")

		_, err := Load()
		require.ErrorContains(t, err, "SCORING_MODE")
	})

	t.Run("provider case insensitive", func(t *testing.T) {
		t.Setenv("SCORING_PROVIDER", "OpenAI")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, ProviderOpenAI, cfg.ScoringProvider)
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		t.Setenv("GATEWAY_TIMEOUT", "0s")

		_, err := Load()
		require.ErrorContains(t, err, "GATEWAY_TIMEOUT")
	})
}

func TestGatewayParams(t *testing.T) {
	cfg := &Config{
		OpenAIAPIKey:          "ok-key",
		OpenAIModel:           "gpt-4o",
		OpenAITranscribeModel: "whisper-1",
		GeminiAPIKey:          "g-key",
	}

	params := cfg.GatewayParams()

	openai, ok := params["openai"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "ok-key", openai["api_key"])
	require.Equal(t, "gpt-4o", openai["model"])
	require.Equal(t, "whisper-1", openai["transcribe_model"])

	gemini, ok := params["gemini"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "g-key", gemini["api_key"])
}
