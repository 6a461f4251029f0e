package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sheetwise/interviewd/internal/bank"
	"github.com/sheetwise/interviewd/internal/gateway"
)

// Mode selects when answers are scored.
type Mode string

const (
	// ModeImmediate scores each answer synchronously as it is submitted.
	ModeImmediate Mode = "immediate"
	// ModeBatch records raw answers and scores everything once, in Finish.
	ModeBatch Mode = "batch"
)

// Config holds the orchestrator's collaborators and policy switches.
type Config struct {
	Bank        *bank.Bank
	Store       Store
	Scorer      gateway.Scorer
	Transcriber gateway.Transcriber
	Synthesizer gateway.Synthesizer
	Mode        Mode

	// RequireCandidateName makes Start reject empty names instead of
	// defaulting to a placeholder.
	RequireCandidateName bool

	// AllowFallbackReport enables the degraded, locally built report when the
	// scoring gateway fails during Finish. Off by default: a gateway outage
	// then surfaces as ErrEvaluationFailed instead of a fabricated result.
	AllowFallbackReport bool

	Logger *slog.Logger
}

// Orchestrator sequences one interview per session. It exclusively owns the
// transition logic; the store owns durability. Gateway calls happen outside
// any store exclusion, and every state change is committed through
// Store.Update with its preconditions re-checked.
type Orchestrator struct {
	bank        *bank.Bank
	store       Store
	scorer      gateway.Scorer
	transcriber gateway.Transcriber
	synthesizer gateway.Synthesizer
	mode        Mode
	requireName bool
	fallback    bool
	logger      *slog.Logger
}

// New creates an Orchestrator from cfg.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Bank == nil || cfg.Bank.Len() == 0 {
		return nil, errors.New("question bank is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.Scorer == nil {
		return nil, errors.New("scorer is required")
	}

	mode := cfg.Mode
	if mode == "" {
		mode = ModeImmediate
	}
	switch mode {
	case ModeImmediate, ModeBatch:
	default:
		return nil, fmt.Errorf("unknown scoring mode: %q", mode)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	transcriber := cfg.Transcriber
	if transcriber == nil {
		transcriber = noAudio{}
	}
	synthesizer := cfg.Synthesizer
	if synthesizer == nil {
		synthesizer = noAudio{}
	}

	return &Orchestrator{
		bank:        cfg.Bank,
		store:       cfg.Store,
		scorer:      cfg.Scorer,
		transcriber: transcriber,
		synthesizer: synthesizer,
		mode:        mode,
		requireName: cfg.RequireCandidateName,
		fallback:    cfg.AllowFallbackReport,
		logger:      logger,
	}, nil
}

// Mode returns the configured scoring mode.
func (o *Orchestrator) Mode() Mode { return o.mode }

// Bank returns the orchestrator's question bank.
func (o *Orchestrator) Bank() *bank.Bank { return o.bank }

// StartResult is returned from Start.
type StartResult struct {
	SessionID      string
	CandidateName  string
	WelcomeMessage string
	FirstQuestion  bank.Question
	TotalQuestions int
}

// Start creates a new session and returns its handle plus the first question.
func (o *Orchestrator) Start(ctx context.Context, candidateName string) (*StartResult, error) {
	candidateName = strings.TrimSpace(candidateName)
	if candidateName == "" {
		if o.requireName {
			return nil, ErrCandidateNameRequired
		}
		candidateName = "Anonymous"
	}

	s := &Session{
		ID:            uuid.NewString(),
		CandidateName: candidateName,
		Status:        StatusInProgress,
		CurrentIndex:  0,
		Answers:       []Answer{},
		StartedAt:     time.Now().UTC(),
	}

	if err := o.store.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("storing new session: %w", err)
	}

	o.logger.Info("interview started", "session_id", s.ID, "candidate", candidateName, "questions", o.bank.Len())

	return &StartResult{
		SessionID:      s.ID,
		CandidateName:  candidateName,
		WelcomeMessage: o.welcomeMessage(candidateName),
		FirstQuestion:  o.bank.At(0),
		TotalQuestions: o.bank.Len(),
	}, nil
}

// AnswerInput is one submitted answer. Audio, when present, is transcribed
// before anything else; otherwise Text is the answer.
type AnswerInput struct {
	QuestionID    int
	Text          string
	Audio         []byte
	AudioFilename string
}

// AdvanceResult is returned from SubmitAnswer.
type AdvanceResult struct {
	QuestionID   int
	QuestionText string
	AnswerText   string
	Evaluation   *gateway.Evaluation
	NextQuestion *bank.Question
	Finished     bool
	Progress     string
}

// SubmitAnswer records the answer for the question at the session's cursor
// and advances it. Answers must arrive in bank order; anything else is
// rejected with ErrSequenceMismatch and the session is left unchanged.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, sessionID string, in AnswerInput) (*AdvanceResult, error) {
	snap, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if snap.Status != StatusInProgress {
		return nil, fmt.Errorf("%w: session is %s", ErrInvalidState, snap.Status)
	}
	if snap.CurrentIndex >= o.bank.Len() {
		return nil, fmt.Errorf("%w: all questions answered", ErrInvalidState)
	}

	current := o.bank.At(snap.CurrentIndex)
	if in.QuestionID != current.ID {
		return nil, fmt.Errorf("%w: expected question %d, got %d", ErrSequenceMismatch, current.ID, in.QuestionID)
	}

	answerText := in.Text
	if len(in.Audio) > 0 {
		answerText, err = o.transcriber.Transcribe(ctx, in.Audio, in.AudioFilename)
		if err != nil {
			return nil, err
		}
	}

	// The gateway call is slow and must not run under the store's per-key
	// exclusion. Score first, then commit; the commit re-checks the cursor so
	// a racing submission surfaces as a sequence mismatch instead of a lost
	// update.
	var eval *gateway.Evaluation
	if o.mode == ModeImmediate {
		eval, err = o.scorer.ScoreAnswer(ctx, gateway.AnswerScoringRequest{
			QuestionID: current.ID,
			Question:   current.Text,
			Answer:     answerText,
		})
		if err != nil {
			return nil, err
		}
	}

	answer := Answer{
		QuestionID:   current.ID,
		QuestionText: current.Text,
		Category:     current.Category,
		Difficulty:   current.Difficulty,
		AnswerText:   answerText,
		Evaluation:   eval,
		AnsweredAt:   time.Now().UTC(),
	}

	updated, err := o.store.Update(ctx, sessionID, func(s *Session) error {
		if s.Status != StatusInProgress {
			return fmt.Errorf("%w: session is %s", ErrInvalidState, s.Status)
		}
		if s.CurrentIndex != snap.CurrentIndex {
			return fmt.Errorf("%w: question %d already answered", ErrSequenceMismatch, in.QuestionID)
		}
		s.Answers = append(s.Answers, answer)
		s.CurrentIndex++
		if o.mode == ModeBatch && s.CurrentIndex == o.bank.Len() {
			s.Status = StatusAwaitingEvaluation
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	finished := updated.CurrentIndex >= o.bank.Len()
	result := &AdvanceResult{
		QuestionID:   current.ID,
		QuestionText: current.Text,
		AnswerText:   answerText,
		Evaluation:   eval,
		Finished:     finished,
		Progress:     fmt.Sprintf("Question %d of %d", snap.CurrentIndex+1, o.bank.Len()),
	}
	if !finished {
		next := o.bank.At(updated.CurrentIndex)
		result.NextQuestion = &next
	}

	o.logger.Info("answer recorded",
		"session_id", sessionID,
		"question_id", current.ID,
		"finished", finished)

	return result, nil
}

// Finish produces the aggregate report and completes the session. It is
// idempotent in effect: a completed session returns its stored report
// unchanged.
func (o *Orchestrator) Finish(ctx context.Context, sessionID string) (*FinalReport, error) {
	snap, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if snap.Status == StatusCompleted {
		return snap.FinalReport, nil
	}
	if len(snap.Answers) == 0 {
		return nil, ErrEmptyInterview
	}

	switch o.mode {
	case ModeImmediate:
		if snap.CurrentIndex < o.bank.Len() {
			return nil, fmt.Errorf("%w: %d of %d questions answered", ErrInvalidState, snap.CurrentIndex, o.bank.Len())
		}
	case ModeBatch:
		if snap.Status != StatusAwaitingEvaluation {
			return nil, fmt.Errorf("%w: session is %s", ErrInvalidState, snap.Status)
		}
	}

	answers := snap.Answers
	if o.mode == ModeBatch {
		answers, err = o.scoreDeferred(ctx, answers)
		if err != nil {
			return o.evaluationFailure(ctx, sessionID, snap, err)
		}
	}

	mean := meanScore(answers)

	eval, err := o.scorer.ScoreInterview(ctx, gateway.InterviewScoringRequest{
		CandidateName: snap.CandidateName,
		AverageScore:  mean,
		Answers:       toScoredAnswers(answers),
	})
	if err != nil {
		return o.evaluationFailure(ctx, sessionID, snap, err)
	}

	report := buildReport(eval, mean)
	return o.commitReport(ctx, sessionID, answers, report)
}

// scoreDeferred scores every recorded answer of a batch-mode session.
func (o *Orchestrator) scoreDeferred(ctx context.Context, answers []Answer) ([]Answer, error) {
	scored := make([]Answer, len(answers))
	copy(scored, answers)
	for i := range scored {
		if scored[i].Evaluation != nil {
			continue
		}
		eval, err := o.scorer.ScoreAnswer(ctx, gateway.AnswerScoringRequest{
			QuestionID: scored[i].QuestionID,
			Question:   scored[i].QuestionText,
			Answer:     scored[i].AnswerText,
		})
		if err != nil {
			return nil, fmt.Errorf("scoring answer to question %d: %w", scored[i].QuestionID, err)
		}
		scored[i].Evaluation = eval
	}
	return scored, nil
}

// evaluationFailure applies the failure policy: surface ErrEvaluationFailed,
// or build the explicitly configured degraded report. The session is never
// silently marked completed on a gateway failure.
func (o *Orchestrator) evaluationFailure(ctx context.Context, sessionID string, snap *Session, cause error) (*FinalReport, error) {
	if !o.fallback {
		o.logger.Error("final evaluation failed", "session_id", sessionID, "error", cause)
		return nil, fmt.Errorf("%w: %w", ErrEvaluationFailed, cause)
	}

	o.logger.Warn("final evaluation failed, building degraded report", "session_id", sessionID, "error", cause)
	report := fallbackReport(snap.CandidateName, snap.Answers)
	return o.commitReport(ctx, sessionID, snap.Answers, report)
}

// commitReport finalizes the session. If a racing Finish already completed
// it, the stored report wins.
func (o *Orchestrator) commitReport(ctx context.Context, sessionID string, answers []Answer, report *FinalReport) (*FinalReport, error) {
	updated, err := o.store.Update(ctx, sessionID, func(s *Session) error {
		if s.Status == StatusCompleted {
			return nil
		}
		s.Answers = answers
		s.FinalReport = report
		s.Status = StatusCompleted
		now := time.Now().UTC()
		s.FinishedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.logger.Info("interview completed",
		"session_id", sessionID,
		"overall_score", updated.FinalReport.OverallScore,
		"degraded", updated.FinalReport.Degraded)

	return updated.FinalReport, nil
}

// Snapshot is the read-only session view returned by Status.
type Snapshot struct {
	SessionID        string     `json:"session_id"`
	CandidateName    string     `json:"candidate_name"`
	Status           Status     `json:"status"`
	CurrentIndex     int        `json:"current_question"`
	TotalQuestions   int        `json:"total_questions"`
	AnswersSubmitted int        `json:"answers_submitted"`
	Finished         bool       `json:"finished"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
}

// Status returns a snapshot of the session. Never mutates.
func (o *Orchestrator) Status(ctx context.Context, sessionID string) (*Snapshot, error) {
	s, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		SessionID:        s.ID,
		CandidateName:    s.CandidateName,
		Status:           s.Status,
		CurrentIndex:     s.CurrentIndex,
		TotalQuestions:   o.bank.Len(),
		AnswersSubmitted: len(s.Answers),
		Finished:         s.CurrentIndex >= o.bank.Len(),
		StartedAt:        s.StartedAt,
		FinishedAt:       s.FinishedAt,
	}, nil
}

// Transcript returns the full Q/A history with any evaluations and the final
// report when present.
func (o *Orchestrator) Transcript(ctx context.Context, sessionID string) (*Session, error) {
	return o.store.Get(ctx, sessionID)
}

// SpeakQuestion synthesizes audio for the session's current question.
// Advisory to the UI only; not part of scoring correctness.
func (o *Orchestrator) SpeakQuestion(ctx context.Context, sessionID string) ([]byte, error) {
	s, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Status != StatusInProgress || s.CurrentIndex >= o.bank.Len() {
		return nil, fmt.Errorf("%w: no current question", ErrInvalidState)
	}
	return o.synthesizer.Synthesize(ctx, o.bank.At(s.CurrentIndex).Text)
}

func (o *Orchestrator) welcomeMessage(candidateName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome to the Excel Skills Assessment, %s!\n\n", candidateName)
	fmt.Fprintf(&b, "This interview consists of %d questions covering various Excel topics including:\n", o.bank.Len())
	for _, c := range o.bank.Categories() {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\nPlease answer each question to the best of your ability.")
	if o.mode == ModeImmediate {
		b.WriteString(" You'll receive immediate feedback after each response.")
	}
	b.WriteString("\n\nGood luck!")
	return b.String()
}

// noAudio reports the absence of a configured audio provider.
type noAudio struct{}

func (noAudio) Transcribe(context.Context, []byte, string) (string, error) {
	return "", gateway.ErrUnsupported
}

func (noAudio) Synthesize(context.Context, string) ([]byte, error) {
	return nil, gateway.ErrUnsupported
}
