package interview

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sheetwise/interviewd/internal/gateway"
)

func TestClampScore(t *testing.T) {
	require.Equal(t, 0.0, clampScore(-1))
	require.Equal(t, 5.0, clampScore(7.2))
	require.Equal(t, 3.6, clampScore(3.6))
}

func TestMeanScore(t *testing.T) {
	require.Equal(t, 0.0, meanScore(nil))

	answers := []Answer{
		{Evaluation: &gateway.Evaluation{OverallScore: 4}},
		{Evaluation: &gateway.Evaluation{OverallScore: 2}},
		{Evaluation: nil}, // unscored answers count as zero
	}
	require.InDelta(t, 2.0, meanScore(answers), 1e-9)
}

func TestBuildReportDefaultsNilSlices(t *testing.T) {
	report := buildReport(&gateway.InterviewEvaluation{
		Summary:        "summary",
		Recommendation: "Hire",
	}, 3.5)

	require.NotNil(t, report.Strengths)
	require.NotNil(t, report.Weaknesses)
	require.NotNil(t, report.DetailedFeedback)
	require.Equal(t, 3.5, report.OverallScore)
}

func TestFallbackReport(t *testing.T) {
	answers := []Answer{
		{QuestionID: 1, QuestionText: "q1", Evaluation: &gateway.Evaluation{OverallScore: 2, Feedback: "fb"}},
		{QuestionID: 2, QuestionText: "q2", Evaluation: &gateway.Evaluation{OverallScore: 2}},
	}

	report := fallbackReport("Jane", answers)
	require.True(t, report.Degraded)
	require.Equal(t, "Needs Improvement", report.Recommendation)
	require.Len(t, report.DetailedFeedback, 2)
	require.Contains(t, report.Summary, "Jane")

	answers[0].Evaluation.OverallScore = 5
	answers[1].Evaluation.OverallScore = 5
	require.Equal(t, "Hire", fallbackReport("Jane", answers).Recommendation)
}

func TestFallbackReportWithoutEvaluationsUsesNeutralScore(t *testing.T) {
	// Batch mode can fail before a single answer was scored; the degraded
	// report then must not claim a 0/5 performance.
	answers := []Answer{
		{QuestionID: 1, QuestionText: "q1", AnswerText: "a1"},
		{QuestionID: 2, QuestionText: "q2", AnswerText: "a2"},
	}

	report := fallbackReport("Jane", answers)
	require.True(t, report.Degraded)
	require.Equal(t, neutralScore, report.OverallScore)
	require.Equal(t, "Hire", report.Recommendation)
}
