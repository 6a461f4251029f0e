package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Set bundles the three collaborator interfaces a configured provider
// combination exposes.
type Set struct {
	Scorer      Scorer
	Transcriber Transcriber
	Synthesizer Synthesizer
}

// New builds the gateway set for the named scoring provider from a generic
// params map. Audio capabilities always come from OpenAI when its options are
// present; a Gemini scorer therefore still gets Whisper transcription if an
// OpenAI key is configured, otherwise audio calls fail with ErrUnsupported.
func New(ctx context.Context, provider string, params map[string]any, timeout time.Duration, logger *slog.Logger) (*Set, error) {
	var openAI *OpenAIGateway

	if hasOpenAIKey(params) {
		var opts OpenAIOptions
		if err := mapstructure.Decode(params["openai"], &opts); err != nil {
			return nil, fmt.Errorf("decoding openai options: %w", err)
		}
		g, err := NewOpenAIGateway(opts, timeout, logger)
		if err != nil {
			return nil, err
		}
		openAI = g
	}

	set := &Set{
		Transcriber: unsupported{},
		Synthesizer: unsupported{},
	}
	if openAI != nil {
		set.Transcriber = openAI
		set.Synthesizer = openAI
	}

	switch provider {
	case openAIProvider:
		if openAI == nil {
			return nil, fmt.Errorf("scoring provider %q selected but no openai options configured", provider)
		}
		set.Scorer = openAI
	case geminiProvider:
		var opts GeminiOptions
		if err := mapstructure.Decode(params["gemini"], &opts); err != nil {
			return nil, fmt.Errorf("decoding gemini options: %w", err)
		}
		g, err := NewGeminiGateway(ctx, opts, timeout, logger)
		if err != nil {
			return nil, err
		}
		set.Scorer = g
	default:
		return nil, fmt.Errorf("unknown scoring provider: %q", provider)
	}

	return set, nil
}

func hasOpenAIKey(params map[string]any) bool {
	raw, ok := params["openai"]
	if !ok {
		return false
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return false
	}
	key, _ := m["api_key"].(string)
	return key != ""
}

// unsupported is the audio stand-in when no audio-capable provider is
// configured. Text interviews work fine without it.
type unsupported struct{}

func (unsupported) Transcribe(context.Context, []byte, string) (string, error) {
	return "", ErrUnsupported
}

func (unsupported) Synthesize(context.Context, string) ([]byte, error) {
	return nil, ErrUnsupported
}
