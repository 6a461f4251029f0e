package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

const geminiProvider = "gemini"

// GeminiOptions configures the Gemini-backed scorer.
type GeminiOptions struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// GeminiGateway implements Scorer on the Google GenAI API. It has no audio
// capabilities; transcription and synthesis stay on whatever other provider
// is configured.
type GeminiGateway struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewGeminiGateway creates a Gemini scoring gateway.
func NewGeminiGateway(ctx context.Context, opts GeminiOptions, timeout time.Duration, logger *slog.Logger) (*GeminiGateway, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(opts.APIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &GeminiGateway{client: client, model: model, timeout: timeout, logger: logger}, nil
}

// ScoreAnswer implements [Scorer].
func (g *GeminiGateway) ScoreAnswer(ctx context.Context, req AnswerScoringRequest) (*Evaluation, error) {
	raw, err := g.generate(ctx, buildAnswerPrompt(req))
	if err != nil {
		return nil, err
	}
	return decodeAnswerEvaluation(raw)
}

// ScoreInterview implements [Scorer].
func (g *GeminiGateway) ScoreInterview(ctx context.Context, req InterviewScoringRequest) (*InterviewEvaluation, error) {
	raw, err := g.generate(ctx, buildInterviewPrompt(req))
	if err != nil {
		return nil, err
	}
	return decodeInterviewEvaluation(raw)
}

func (g *GeminiGateway) generate(ctx context.Context, prompt string) (string, error) {
	var output string
	err := withSingleRetry(ctx, func() error {
		callCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}

		resp, err := g.client.Models.GenerateContent(callCtx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		})
		if err != nil {
			return err
		}

		var builder strings.Builder
		for _, candidate := range resp.Candidates {
			if candidate == nil || candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part == nil {
					continue
				}
				text := strings.TrimSpace(part.Text)
				if text == "" {
					continue
				}
				if builder.Len() > 0 {
					builder.WriteString("\n")
				}
				builder.WriteString(text)
			}
		}

		output = strings.TrimSpace(builder.String())
		if output == "" {
			return errors.New("gemini api returned empty response")
		}
		g.logger.Debug("scoring generation finished", "model", g.model, "response_length", len(output))
		return nil
	})
	if err != nil {
		return "", &UpstreamError{Provider: geminiProvider, Op: "score", Err: err}
	}
	return output, nil
}
