// Package webapi exposes the interview orchestrator over HTTP.
package webapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sheetwise/interviewd/internal/bank"
	"github.com/sheetwise/interviewd/internal/gateway"
	"github.com/sheetwise/interviewd/internal/interview"
)

// Version is set at build time or defaults to dev.
var Version = "dev"

// Interviewer is the orchestrator surface the handlers depend on.
type Interviewer interface {
	Start(ctx context.Context, candidateName string) (*interview.StartResult, error)
	SubmitAnswer(ctx context.Context, sessionID string, in interview.AnswerInput) (*interview.AdvanceResult, error)
	Finish(ctx context.Context, sessionID string) (*interview.FinalReport, error)
	Status(ctx context.Context, sessionID string) (*interview.Snapshot, error)
	Transcript(ctx context.Context, sessionID string) (*interview.Session, error)
	SpeakQuestion(ctx context.Context, sessionID string) ([]byte, error)
}

// SessionCounter reports how many sessions a store holds, for the health
// endpoint. Nil is fine; the count is then omitted as zero.
type SessionCounter interface {
	Len() int
}

// Handlers holds the HTTP handler methods for the interview API.
type Handlers struct {
	ivw      Interviewer
	bank     *bank.Bank
	sessions SessionCounter
}

// NewHandlers creates a new Handlers.
func NewHandlers(ivw Interviewer, b *bank.Bank, sessions SessionCounter) *Handlers {
	return &Handlers{ivw: ivw, bank: b, sessions: sessions}
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{Status: "healthy", Version: Version}
	if h.sessions != nil {
		resp.Sessions = h.sessions.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleQuestions returns the static question bank.
func (h *Handlers) HandleQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, QuestionsResponse{
		Questions: h.bank.Questions(),
		Total:     h.bank.Len(),
	})
}

// HandleStart creates a new interview session.
func (h *Handlers) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.ivw.Start(r.Context(), req.CandidateName)
	if err != nil {
		writeInterviewError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StartResponse{
		SessionID:      res.SessionID,
		WelcomeMessage: res.WelcomeMessage,
		FirstQuestion:  res.FirstQuestion,
		TotalQuestions: res.TotalQuestions,
	})
}

// HandleAnswer submits an answer (text or base64 audio) and advances the
// session.
func (h *Handlers) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	in := interview.AnswerInput{
		QuestionID: req.QuestionID,
		Text:       req.Answer,
	}
	if req.Audio != "" {
		audio, err := base64.StdEncoding.DecodeString(req.Audio)
		if err != nil {
			writeError(w, http.StatusBadRequest, "audio is not valid base64")
			return
		}
		in.Audio = audio
		if req.AudioFormat != "" {
			in.AudioFilename = "answer." + req.AudioFormat
		}
	}

	res, err := h.ivw.SubmitAnswer(r.Context(), req.SessionID, in)
	if err != nil {
		writeInterviewError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AnswerResponse{
		QuestionID:   res.QuestionID,
		Question:     res.QuestionText,
		Answer:       res.AnswerText,
		Evaluation:   res.Evaluation,
		NextQuestion: res.NextQuestion,
		Finished:     res.Finished,
		Progress:     res.Progress,
	})
}

// HandleFinish produces the final report for a session.
func (h *Handlers) HandleFinish(w http.ResponseWriter, r *http.Request) {
	var req FinishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	report, err := h.ivw.Finish(r.Context(), req.SessionID)
	if err != nil {
		writeInterviewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleStatus returns the read-only session snapshot.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("session_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	snap, err := h.ivw.Status(r.Context(), id)
	if err != nil {
		writeInterviewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleTranscript returns the full Q/A history with evaluations.
func (h *Handlers) HandleTranscript(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("session_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	s, err := h.ivw.Transcript(r.Context(), id)
	if err != nil {
		writeInterviewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// HandleQuestionAudio synthesizes and returns audio for the session's
// current question.
func (h *Handlers) HandleQuestionAudio(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("session_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	audio, err := h.ivw.SpeakQuestion(r.Context(), id)
	if err != nil {
		writeInterviewError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(audio) //nolint:errcheck
}

// RegisterRoutes registers all interview API routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, ivw Interviewer, b *bank.Bank, sessions SessionCounter) {
	h := NewHandlers(ivw, b, sessions)
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /questions", h.HandleQuestions)
	mux.HandleFunc("POST /interview/start", h.HandleStart)
	mux.HandleFunc("POST /interview/answer", h.HandleAnswer)
	mux.HandleFunc("POST /interview/finish", h.HandleFinish)
	mux.HandleFunc("GET /interview/{session_id}/status", h.HandleStatus)
	mux.HandleFunc("GET /interview/{session_id}/transcript", h.HandleTranscript)
	mux.HandleFunc("GET /interview/{session_id}/question/audio", h.HandleQuestionAudio)
}

// CORSMiddleware wraps a handler with CORS headers.
// If allowedOrigins is empty, no CORS header is set (same-origin only).
func CORSMiddleware(next http.Handler, allowedOrigins ...string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if len(allowedOrigins) > 0 && origin != "" && (allowed["*"] || allowed[origin]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeInterviewError maps domain errors to status codes: unknown session is
// 404, state/sequence/validation problems are 400, gateway failures are 500,
// and a missing audio capability is 501.
func writeInterviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, interview.ErrInvalidState),
		errors.Is(err, interview.ErrSequenceMismatch),
		errors.Is(err, interview.ErrEmptyInterview),
		errors.Is(err, interview.ErrCandidateNameRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, gateway.ErrUnsupported):
		writeError(w, http.StatusNotImplemented, "audio is not supported by the configured provider")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
