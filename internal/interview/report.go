package interview

import (
	"fmt"

	"github.com/sheetwise/interviewd/internal/gateway"
)

// buildReport maps the gateway's aggregate evaluation onto a FinalReport.
// The overall score is the gateway-supplied value when present, otherwise the
// arithmetic mean of the per-question scores; either way it is clamped to the
// same 0-5 scale used per question.
func buildReport(eval *gateway.InterviewEvaluation, mean float64) *FinalReport {
	score := mean
	if eval.OverallScore != nil {
		score = *eval.OverallScore
	}

	report := &FinalReport{
		Summary:          eval.Summary,
		OverallScore:     clampScore(score),
		Strengths:        eval.Strengths,
		Weaknesses:       eval.Weaknesses,
		Recommendation:   eval.Recommendation,
		DetailedFeedback: eval.Detailed,
	}
	if report.Strengths == nil {
		report.Strengths = []string{}
	}
	if report.Weaknesses == nil {
		report.Weaknesses = []string{}
	}
	if report.DetailedFeedback == nil {
		report.DetailedFeedback = []gateway.QuestionFeedback{}
	}
	return report
}

// neutralScore stands in for the average when a degraded report is built
// before any per-answer evaluation exists, as when batch scoring fails up
// front. 0/5 would assert a judgment no one made.
const neutralScore = 3.0

// fallbackReport builds the deterministic degraded report used only when
// AllowFallbackReport is configured. It is assembled from already-recorded
// data and marked as not gateway-derived.
func fallbackReport(candidateName string, answers []Answer) *FinalReport {
	mean := meanScore(answers)
	if !anyScored(answers) {
		mean = neutralScore
	}

	recommendation := "Hire"
	if mean < 3 {
		recommendation = "Needs Improvement"
	}

	detailed := make([]gateway.QuestionFeedback, 0, len(answers))
	for _, a := range answers {
		fb := gateway.QuestionFeedback{
			QuestionID: a.QuestionID,
			Question:   a.QuestionText,
		}
		if a.Evaluation != nil {
			fb.Score = a.Evaluation.OverallScore
			fb.Feedback = a.Evaluation.Feedback
		}
		detailed = append(detailed, fb)
	}

	return &FinalReport{
		Summary:          fmt.Sprintf("Interview completed for %s. Average score: %.1f/5. This report was generated locally because the scoring service was unavailable.", candidateName, mean),
		OverallScore:     clampScore(mean),
		Strengths:        []string{},
		Weaknesses:       []string{},
		Recommendation:   recommendation,
		DetailedFeedback: detailed,
		Degraded:         true,
	}
}

// anyScored reports whether at least one answer carries an evaluation.
func anyScored(answers []Answer) bool {
	for _, a := range answers {
		if a.Evaluation != nil {
			return true
		}
	}
	return false
}

// meanScore returns the arithmetic mean of the recorded per-question overall
// scores. Answers without an evaluation count as zero, matching how the
// aggregate prompt reports them.
func meanScore(answers []Answer) float64 {
	if len(answers) == 0 {
		return 0
	}
	var total float64
	for _, a := range answers {
		if a.Evaluation != nil {
			total += a.Evaluation.OverallScore
		}
	}
	return total / float64(len(answers))
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 5 {
		return 5
	}
	return score
}

func toScoredAnswers(answers []Answer) []gateway.ScoredAnswer {
	out := make([]gateway.ScoredAnswer, 0, len(answers))
	for _, a := range answers {
		sa := gateway.ScoredAnswer{
			QuestionID: a.QuestionID,
			Question:   a.QuestionText,
			Answer:     a.AnswerText,
		}
		if a.Evaluation != nil {
			sa.Score = a.Evaluation.OverallScore
			sa.Feedback = a.Evaluation.Feedback
		}
		out = append(out, sa)
	}
	return out
}
