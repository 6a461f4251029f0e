package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// chatStub serves a canned chat-completions response so the adapter can be
// exercised without the real API.
func chatStub(t *testing.T, handler http.HandlerFunc) *OpenAIGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewOpenAIGateway(OpenAIOptions{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
	}, 5*time.Second, nil)
	require.NoError(t, err)
	return g
}

func completionBody(content string) []byte {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]int{"prompt_tokens": 100, "completion_tokens": 50, "total_tokens": 150},
	})
	return body
}

func TestOpenAIScoreAnswer(t *testing.T) {
	g := chatStub(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionBody(validAnswerPayload)) //nolint:errcheck
	})

	eval, err := g.ScoreAnswer(context.Background(), AnswerScoringRequest{
		QuestionID: 1,
		Question:   "How would you use a VLOOKUP in Excel?",
		Answer:     "VLOOKUP searches the first column of a range.",
	})
	require.NoError(t, err)
	require.Equal(t, 4.0, eval.OverallScore)
	require.NotEmpty(t, eval.Feedback)
}

func TestOpenAIScoreAnswerMalformed(t *testing.T) {
	g := chatStub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionBody("Sorry, I can only answer in prose.")) //nolint:errcheck
	})

	_, err := g.ScoreAnswer(context.Background(), AnswerScoringRequest{QuestionID: 1, Question: "q", Answer: "a"})
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestOpenAIScoreRetriesOnce(t *testing.T) {
	attempts := 0
	g := chatStub(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionBody(validAnswerPayload)) //nolint:errcheck
	})

	_, err := g.ScoreAnswer(context.Background(), AnswerScoringRequest{QuestionID: 1, Question: "q", Answer: "a"})
	require.NoError(t, err)
	require.Equal(t, 2, attempts)
}

func TestOpenAIScoreUpstreamError(t *testing.T) {
	g := chatStub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := g.ScoreAnswer(context.Background(), AnswerScoringRequest{QuestionID: 1, Question: "q", Answer: "a"})
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, "openai", upstream.Provider)
	require.Equal(t, "score", upstream.Op)
}

func TestOpenAITranscribeEmptyAudio(t *testing.T) {
	g := chatStub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := g.Transcribe(context.Background(), nil, "answer.wav")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, "transcribe", upstream.Op)
}

func TestNewOpenAIGatewayRequiresKey(t *testing.T) {
	_, err := NewOpenAIGateway(OpenAIOptions{}, 0, nil)
	require.Error(t, err)
}
