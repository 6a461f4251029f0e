// Package gateway defines the external collaborator boundaries: speech
// transcription, speech synthesis, and answer scoring. Each provider is a
// black box behind a small interface; the orchestrator decides what to do
// with failures.
package gateway

import (
	"context"
	"errors"
	"fmt"
)

// ErrMalformedResponse indicates the provider answered, but the payload did
// not validate against the expected evaluation schema.
var ErrMalformedResponse = errors.New("gateway returned a malformed response")

// ErrUnsupported indicates the configured provider has no implementation for
// the requested capability (for example Gemini has no speech synthesis here).
var ErrUnsupported = errors.New("capability not supported by configured provider")

// UpstreamError wraps a transport or provider failure from an external
// gateway call, including timeouts.
type UpstreamError struct {
	Provider string
	Op       string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Transcriber converts a recorded utterance into text.
type Transcriber interface {
	// Transcribe resolves audio bytes to text. The filename hint carries the
	// container format (e.g. "answer.wav") for providers that need it.
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Synthesizer converts text into playable audio. Purely advisory to the UI;
// never part of scoring correctness.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Scorer evaluates answers against the interview rubric.
type Scorer interface {
	// ScoreAnswer evaluates a single answer and returns the structured rubric
	// result.
	ScoreAnswer(ctx context.Context, req AnswerScoringRequest) (*Evaluation, error)

	// ScoreInterview evaluates the full set of answered questions in one call
	// and returns the aggregate assessment.
	ScoreInterview(ctx context.Context, req InterviewScoringRequest) (*InterviewEvaluation, error)
}

// AnswerScoringRequest carries one question/answer pair for per-answer
// scoring.
type AnswerScoringRequest struct {
	QuestionID int
	Question   string
	Answer     string
}

// Evaluation is the structured rubric result for a single answer. Sub-scores
// are integers in [0,5]; the overall score is a float in [0,5].
type Evaluation struct {
	TechnicalAccuracy    int      `json:"technical_accuracy"`
	PracticalApplication int      `json:"practical_application"`
	Clarity              int      `json:"clarity"`
	Completeness         int      `json:"completeness"`
	OverallScore         float64  `json:"overall_score"`
	Feedback             string   `json:"feedback"`
	Strengths            []string `json:"strengths,omitempty"`
	Improvements         []string `json:"improvements,omitempty"`
}

// ScoredAnswer is one answered question, with its per-answer score when
// already known, fed into the aggregate call.
type ScoredAnswer struct {
	QuestionID int
	Question   string
	Answer     string
	Score      float64
	Feedback   string
}

// InterviewScoringRequest carries the whole transcript for the aggregate
// assessment call.
type InterviewScoringRequest struct {
	CandidateName string
	AverageScore  float64
	Answers       []ScoredAnswer
}

// QuestionFeedback is the per-question entry of the aggregate assessment.
type QuestionFeedback struct {
	QuestionID int     `json:"question_id"`
	Question   string  `json:"question"`
	Score      float64 `json:"score"`
	Feedback   string  `json:"feedback"`
}

// InterviewEvaluation is the structured aggregate assessment. OverallScore is
// nil when the provider did not supply one; the orchestrator then computes the
// mean of the per-question scores.
type InterviewEvaluation struct {
	Summary        string             `json:"summary"`
	Strengths      []string           `json:"strengths"`
	Weaknesses     []string           `json:"weaknesses"`
	Recommendation string             `json:"recommendation"`
	Detailed       []QuestionFeedback `json:"detailed_feedback"`
	OverallScore   *float64           `json:"overall_score,omitempty"`
}
