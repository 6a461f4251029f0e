package webapi

import (
	"github.com/sheetwise/interviewd/internal/bank"
	"github.com/sheetwise/interviewd/internal/gateway"
)

// StartRequest begins a new interview session.
type StartRequest struct {
	CandidateName string `json:"candidate_name"`
}

// StartResponse is the handle for a freshly created session.
type StartResponse struct {
	SessionID      string        `json:"session_id"`
	WelcomeMessage string        `json:"welcome_message"`
	FirstQuestion  bank.Question `json:"first_question"`
	TotalQuestions int           `json:"total_questions"`
}

// AnswerRequest submits the answer for the question at the session's cursor.
// Either Answer (text) or Audio (base64-encoded bytes) must be set; Audio
// wins when both are present.
type AnswerRequest struct {
	SessionID   string `json:"session_id"`
	QuestionID  int    `json:"question_id"`
	Answer      string `json:"answer,omitempty"`
	Audio       string `json:"audio,omitempty"`
	AudioFormat string `json:"audio_format,omitempty"`
}

// AnswerResponse reports the advance result.
type AnswerResponse struct {
	QuestionID   int                 `json:"question_id"`
	Question     string              `json:"question"`
	Answer       string              `json:"answer"`
	Evaluation   *gateway.Evaluation `json:"evaluation,omitempty"`
	NextQuestion *bank.Question      `json:"next_question,omitempty"`
	Finished     bool                `json:"finished"`
	Progress     string              `json:"progress"`
}

// FinishRequest asks for the final report of a session.
type FinishRequest struct {
	SessionID string `json:"session_id"`
}

// QuestionsResponse lists the full question bank.
type QuestionsResponse struct {
	Questions []bank.Question `json:"questions"`
	Total     int             `json:"total"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
