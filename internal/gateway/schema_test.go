package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const validAnswerPayload = `{
	"technical_accuracy": 4,
	"practical_application": 5,
	"clarity": 4,
	"completeness": 3,
	"overall_score": 4.0,
	"feedback": "Solid grasp of VLOOKUP with a worked example.",
	"strengths": ["Correct syntax"],
	"improvements": ["Mention approximate match pitfalls"]
}`

func TestDecodeAnswerEvaluation(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		eval, err := decodeAnswerEvaluation(validAnswerPayload)
		require.NoError(t, err)
		require.Equal(t, 4, eval.TechnicalAccuracy)
		require.Equal(t, 4.0, eval.OverallScore)
		require.Equal(t, []string{"Correct syntax"}, eval.Strengths)
	})

	t.Run("fenced payload", func(t *testing.T) {
		eval, err := decodeAnswerEvaluation("```json\n" + validAnswerPayload + "\n```")
		require.NoError(t, err)
		require.Equal(t, 5, eval.PracticalApplication)
	})

	t.Run("prose around payload", func(t *testing.T) {
		eval, err := decodeAnswerEvaluation("Here is the evaluation:\n"+validAnswerPayload+"\nHope that helps!")
		require.NoError(t, err)
		require.Equal(t, 3, eval.Completeness)
	})

	t.Run("missing required key", func(t *testing.T) {
		_, err := decodeAnswerEvaluation(`{"technical_accuracy": 4, "overall_score": 4.0}`)
		require.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("score out of range", func(t *testing.T) {
		_, err := decodeAnswerEvaluation(`{
			"technical_accuracy": 9,
			"practical_application": 4,
			"clarity": 4,
			"completeness": 4,
			"overall_score": 4.0,
			"feedback": "x"
		}`)
		require.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("not json at all", func(t *testing.T) {
		_, err := decodeAnswerEvaluation("I cannot evaluate this answer.")
		require.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestDecodeInterviewEvaluation(t *testing.T) {
	valid := `{
		"summary": "Competent intermediate Excel user.",
		"strengths": ["Lookup functions", "Formulas"],
		"weaknesses": ["Charting"],
		"recommendation": "Hire",
		"detailed_feedback": [
			{"question_id": 1, "question": "VLOOKUP", "score": 4.0, "feedback": "Good"},
			{"question_id": 2, "question": "References", "score": 3.5, "feedback": "Okay"}
		]
	}`

	t.Run("valid payload without overall score", func(t *testing.T) {
		eval, err := decodeInterviewEvaluation(valid)
		require.NoError(t, err)
		require.Equal(t, "Hire", eval.Recommendation)
		require.Len(t, eval.Detailed, 2)
		require.Nil(t, eval.OverallScore)
	})

	t.Run("provider supplied overall score", func(t *testing.T) {
		withScore := `{
			"summary": "s", "strengths": [], "weaknesses": [],
			"recommendation": "Not Ready", "overall_score": 2.5,
			"detailed_feedback": []
		}`
		eval, err := decodeInterviewEvaluation(withScore)
		require.NoError(t, err)
		require.NotNil(t, eval.OverallScore)
		require.Equal(t, 2.5, *eval.OverallScore)
	})

	t.Run("missing recommendation", func(t *testing.T) {
		_, err := decodeInterviewEvaluation(`{
			"summary": "s", "strengths": [], "weaknesses": [],
			"detailed_feedback": []
		}`)
		require.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestExtractJSON(t *testing.T) {
	require.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, extractJSON("noise {\"a\":1} trailing"))
	require.Equal(t, "no braces here", extractJSON("no braces here"))
}

func TestWithSingleRetry(t *testing.T) {
	t.Run("second attempt succeeds", func(t *testing.T) {
		calls := 0
		err := withSingleRetry(context.Background(), func() error {
			calls++
			if calls == 1 {
				return context.DeadlineExceeded
			}
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 2, calls)
	})

	t.Run("no retry after caller cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := withSingleRetry(ctx, func() error {
			calls++
			return context.Canceled
		})
		require.Error(t, err)
		require.Equal(t, 1, calls)
	})
}
