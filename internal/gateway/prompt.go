package gateway

import (
	"fmt"
	"strings"
)

// buildAnswerPrompt renders the per-answer rubric prompt. Both providers share
// the same prompt; only transport differs.
func buildAnswerPrompt(req AnswerScoringRequest) string {
	var b strings.Builder
	b.WriteString("You are an expert Excel interviewer evaluating a candidate's response.\n\n")
	fmt.Fprintf(&b, "Question ID: %d\n", req.QuestionID)
	fmt.Fprintf(&b, "Question: %s\n", req.Question)
	fmt.Fprintf(&b, "Candidate Answer: %s\n\n", req.Answer)
	b.WriteString("Evaluate the candidate's answer based on:\n")
	b.WriteString("1. Technical accuracy (0-5)\n")
	b.WriteString("2. Practical application (0-5)\n")
	b.WriteString("3. Clarity of explanation (0-5)\n")
	b.WriteString("4. Completeness (0-5)\n\n")
	b.WriteString("Provide constructive feedback and suggest improvements.\n\n")
	b.WriteString("Respond in this EXACT JSON format:\n")
	b.WriteString(`{
	"technical_accuracy": <int>,
	"practical_application": <int>,
	"clarity": <int>,
	"completeness": <int>,
	"overall_score": <float>,
	"feedback": "<detailed feedback string>",
	"strengths": ["<strength1>", "<strength2>"],
	"improvements": ["<improvement1>", "<improvement2>"]
}`)
	return b.String()
}

// buildInterviewPrompt renders the aggregate assessment prompt spanning all
// answered questions.
func buildInterviewPrompt(req InterviewScoringRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an Excel expert providing a final interview assessment for %s.\n\n", req.CandidateName)
	b.WriteString("Interview Results:\n")
	for i, a := range req.Answers {
		fmt.Fprintf(&b, "Question %d: %s\n", i+1, a.Question)
		fmt.Fprintf(&b, "Answer: %s\n", a.Answer)
		fmt.Fprintf(&b, "Score: %.1f/5\n", a.Score)
		if a.Feedback != "" {
			fmt.Fprintf(&b, "Feedback: %s\n", a.Feedback)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Average Score: %.2f/5\n\n", req.AverageScore)
	b.WriteString("Provide a comprehensive assessment in this EXACT JSON format:\n")
	b.WriteString(`{
	"summary": "<overall performance summary>",
	"strengths": ["<strength1>", "<strength2>", "<strength3>"],
	"weaknesses": ["<weakness1>", "<weakness2>"],
	"recommendation": "<Hire/Needs Improvement/Not Ready>",
	"detailed_feedback": [
		{
			"question_id": <int>,
			"question": "<question>",
			"score": <float>,
			"feedback": "<specific feedback>"
		}
	]
}`)
	return b.String()
}
