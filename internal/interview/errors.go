package interview

import "errors"

var (
	// ErrSessionNotFound is returned when a session id does not match any
	// stored session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidState is returned when the requested action is not valid for
	// the session's current status.
	ErrInvalidState = errors.New("action not valid for current session state")

	// ErrSequenceMismatch is returned when an answer is submitted for a
	// question other than the one at the current cursor. Out-of-order and
	// duplicate submissions are rejected, never silently reordered.
	ErrSequenceMismatch = errors.New("answer submitted out of question order")

	// ErrEmptyInterview is returned when finishing a session that has no
	// recorded answers.
	ErrEmptyInterview = errors.New("no answers submitted")

	// ErrCandidateNameRequired is returned by Start when configuration
	// requires a candidate name and none was given.
	ErrCandidateNameRequired = errors.New("candidate name is required")

	// ErrEvaluationFailed is returned when the scoring gateway could not
	// produce a usable final assessment and no fallback report is configured.
	// The session is left un-completed so the call can be retried.
	ErrEvaluationFailed = errors.New("final evaluation failed")
)
