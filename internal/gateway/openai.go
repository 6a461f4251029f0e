package gateway

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const openAIProvider = "openai"

// OpenAIOptions configures the OpenAI-backed gateway.
type OpenAIOptions struct {
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	Model           string `mapstructure:"model"`
	TranscribeModel string `mapstructure:"transcribe_model"`
	SpeechModel     string `mapstructure:"speech_model"`
	SpeechVoice     string `mapstructure:"speech_voice"`
}

// OpenAIGateway implements Scorer, Transcriber, and Synthesizer on the OpenAI
// API: chat completions for scoring, Whisper for transcription, and the
// speech endpoint for synthesis.
type OpenAIGateway struct {
	client          *openai.Client
	model           string
	transcribeModel string
	speechModel     openai.SpeechModel
	speechVoice     openai.SpeechVoice
	timeout         time.Duration
	logger          *slog.Logger
}

// NewOpenAIGateway creates an OpenAI gateway. Missing model options fall back
// to the defaults the service was built against.
func NewOpenAIGateway(opts OpenAIOptions, timeout time.Duration, logger *slog.Logger) (*OpenAIGateway, error) {
	if opts.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	g := &OpenAIGateway{
		client:          openai.NewClientWithConfig(cfg),
		model:           opts.Model,
		transcribeModel: opts.TranscribeModel,
		speechModel:     openai.SpeechModel(opts.SpeechModel),
		speechVoice:     openai.SpeechVoice(opts.SpeechVoice),
		timeout:         timeout,
		logger:          logger,
	}
	if g.model == "" {
		g.model = "gpt-4o-mini"
	}
	if g.transcribeModel == "" {
		g.transcribeModel = openai.Whisper1
	}
	if g.speechModel == "" {
		g.speechModel = openai.TTSModel1
	}
	if g.speechVoice == "" {
		g.speechVoice = openai.VoiceAlloy
	}
	return g, nil
}

// ScoreAnswer implements [Scorer].
func (g *OpenAIGateway) ScoreAnswer(ctx context.Context, req AnswerScoringRequest) (*Evaluation, error) {
	raw, err := g.complete(ctx, buildAnswerPrompt(req))
	if err != nil {
		return nil, err
	}
	return decodeAnswerEvaluation(raw)
}

// ScoreInterview implements [Scorer].
func (g *OpenAIGateway) ScoreInterview(ctx context.Context, req InterviewScoringRequest) (*InterviewEvaluation, error) {
	raw, err := g.complete(ctx, buildInterviewPrompt(req))
	if err != nil {
		return nil, err
	}
	return decodeInterviewEvaluation(raw)
}

// complete sends one prompt through the chat-completions endpoint, retrying a
// transport failure once. Scoring is read-only from the provider's point of
// view, so the retry is safe.
func (g *OpenAIGateway) complete(ctx context.Context, prompt string) (string, error) {
	var content string
	err := withSingleRetry(ctx, func() error {
		callCtx, cancel := g.callContext(ctx)
		defer cancel()

		resp, err := g.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:       g.model,
			Temperature: 0.3,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("empty choices in completion response")
		}
		content = resp.Choices[0].Message.Content
		g.logger.Debug("scoring completion finished",
			"model", g.model,
			"prompt_tokens", resp.Usage.PromptTokens,
			"completion_tokens", resp.Usage.CompletionTokens)
		return nil
	})
	if err != nil {
		return "", &UpstreamError{Provider: openAIProvider, Op: "score", Err: err}
	}
	return content, nil
}

// Transcribe implements [Transcriber] via Whisper.
func (g *OpenAIGateway) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", &UpstreamError{Provider: openAIProvider, Op: "transcribe", Err: errors.New("no audio provided")}
	}
	if filename == "" {
		filename = "answer.wav"
	}

	var text string
	err := withSingleRetry(ctx, func() error {
		callCtx, cancel := g.callContext(ctx)
		defer cancel()

		resp, err := g.client.CreateTranscription(callCtx, openai.AudioRequest{
			Model:    g.transcribeModel,
			Reader:   bytes.NewReader(audio),
			FilePath: filename,
		})
		if err != nil {
			return err
		}
		text = resp.Text
		return nil
	})
	if err != nil {
		return "", &UpstreamError{Provider: openAIProvider, Op: "transcribe", Err: err}
	}
	return text, nil
}

// Synthesize implements [Synthesizer]. No retry: synthesis is advisory and
// the caller can simply re-request.
func (g *OpenAIGateway) Synthesize(ctx context.Context, text string) ([]byte, error) {
	callCtx, cancel := g.callContext(ctx)
	defer cancel()

	resp, err := g.client.CreateSpeech(callCtx, openai.CreateSpeechRequest{
		Model: g.speechModel,
		Input: text,
		Voice: g.speechVoice,
	})
	if err != nil {
		return nil, &UpstreamError{Provider: openAIProvider, Op: "synthesize", Err: err}
	}
	defer resp.Close() //nolint:errcheck

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, &UpstreamError{Provider: openAIProvider, Op: "synthesize", Err: err}
	}
	return audio, nil
}

func (g *OpenAIGateway) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

// withSingleRetry runs fn and retries exactly once unless the caller's
// context is already done.
func withSingleRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}
	return fn()
}
