// Package interview owns the session state machine: question sequencing,
// gateway invocation, per-question result accumulation, and final
// aggregation.
package interview

import (
	"context"
	"time"

	"github.com/sheetwise/interviewd/internal/bank"
	"github.com/sheetwise/interviewd/internal/gateway"
)

// Status is the lifecycle state of a session. Transitions only move forward:
// in_progress -> awaiting_evaluation -> completed.
type Status string

const (
	StatusInProgress         Status = "in_progress"
	StatusAwaitingEvaluation Status = "awaiting_evaluation"
	StatusCompleted          Status = "completed"
)

// Answer is one recorded question/answer pair. The record list is
// append-only; len(Answers) == CurrentIndex holds after every advance.
type Answer struct {
	QuestionID   int                 `json:"question_id"`
	QuestionText string              `json:"question"`
	Category     string              `json:"category"`
	Difficulty   bank.Difficulty     `json:"difficulty"`
	AnswerText   string              `json:"answer"`
	Evaluation   *gateway.Evaluation `json:"evaluation,omitempty"`
	AnsweredAt   time.Time           `json:"answered_at"`
}

// FinalReport is the aggregate assessment, set exactly once when the session
// completes. Degraded marks a locally built report that is not
// gateway-derived.
type FinalReport struct {
	Summary          string                     `json:"summary"`
	OverallScore     float64                    `json:"overall_score"`
	Strengths        []string                   `json:"strengths"`
	Weaknesses       []string                   `json:"weaknesses"`
	Recommendation   string                     `json:"recommendation"`
	DetailedFeedback []gateway.QuestionFeedback `json:"detailed_feedback"`
	Degraded         bool                       `json:"degraded,omitempty"`
}

// Session is one candidate's interview attempt.
type Session struct {
	ID            string       `json:"session_id"`
	CandidateName string       `json:"candidate_name"`
	Status        Status       `json:"status"`
	CurrentIndex  int          `json:"current_index"`
	Answers       []Answer     `json:"answers"`
	FinalReport   *FinalReport `json:"final_report,omitempty"`
	StartedAt     time.Time    `json:"started_at"`
	FinishedAt    *time.Time   `json:"finished_at,omitempty"`
}

// Clone returns a deep copy. Stores hand out clones so callers never share
// the stored record.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s

	out.Answers = make([]Answer, len(s.Answers))
	copy(out.Answers, s.Answers)
	for i, a := range s.Answers {
		if a.Evaluation != nil {
			ev := *a.Evaluation
			out.Answers[i].Evaluation = &ev
		}
	}

	if s.FinalReport != nil {
		fr := *s.FinalReport
		fr.Strengths = append([]string(nil), s.FinalReport.Strengths...)
		fr.Weaknesses = append([]string(nil), s.FinalReport.Weaknesses...)
		fr.DetailedFeedback = append([]gateway.QuestionFeedback(nil), s.FinalReport.DetailedFeedback...)
		out.FinalReport = &fr
	}

	if s.FinishedAt != nil {
		ts := *s.FinishedAt
		out.FinishedAt = &ts
	}

	return &out
}

// Store is the session persistence contract the orchestrator depends on.
// Update must be atomic per session id: the mutate callback runs on the
// current record under the store's per-key exclusion, and an error from the
// callback leaves the stored record unchanged.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Update(ctx context.Context, id string, mutate func(*Session) error) (*Session, error)
}
