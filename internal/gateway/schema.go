package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schemas the scoring providers must satisfy. Anything that fails validation
// is rejected as ErrMalformedResponse rather than trusted as an unstructured
// dictionary.
const answerEvaluationSchema = `{
	"type": "object",
	"required": ["technical_accuracy", "practical_application", "clarity", "completeness", "overall_score", "feedback"],
	"properties": {
		"technical_accuracy":    {"type": "integer", "minimum": 0, "maximum": 5},
		"practical_application": {"type": "integer", "minimum": 0, "maximum": 5},
		"clarity":               {"type": "integer", "minimum": 0, "maximum": 5},
		"completeness":          {"type": "integer", "minimum": 0, "maximum": 5},
		"overall_score":         {"type": "number", "minimum": 0, "maximum": 5},
		"feedback":              {"type": "string", "minLength": 1},
		"strengths":             {"type": "array", "items": {"type": "string"}},
		"improvements":          {"type": "array", "items": {"type": "string"}}
	}
}`

const interviewEvaluationSchema = `{
	"type": "object",
	"required": ["summary", "strengths", "weaknesses", "recommendation", "detailed_feedback"],
	"properties": {
		"summary":        {"type": "string", "minLength": 1},
		"strengths":      {"type": "array", "items": {"type": "string"}},
		"weaknesses":     {"type": "array", "items": {"type": "string"}},
		"recommendation": {"type": "string", "minLength": 1},
		"overall_score":  {"type": "number", "minimum": 0, "maximum": 5},
		"detailed_feedback": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["question_id", "score", "feedback"],
				"properties": {
					"question_id": {"type": "integer", "minimum": 1},
					"question":    {"type": "string"},
					"score":       {"type": "number", "minimum": 0, "maximum": 5},
					"feedback":    {"type": "string"}
				}
			}
		}
	}
}`

var (
	compileOnce      sync.Once
	answerSchema     *jsonschema.Schema
	interviewSchema  *jsonschema.Schema
	schemaCompileErr error
)

func compileSchemas() {
	answerSchema, schemaCompileErr = compileSchema("answer_evaluation.json", answerEvaluationSchema)
	if schemaCompileErr != nil {
		return
	}
	interviewSchema, schemaCompileErr = compileSchema("interview_evaluation.json", interviewEvaluationSchema)
}

func compileSchema(name, raw string) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing schema %s: %w", name, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource %s: %w", name, err)
	}

	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, err)
	}
	return schema, nil
}

// decodeAnswerEvaluation validates and decodes a provider response into an
// Evaluation.
func decodeAnswerEvaluation(raw string) (*Evaluation, error) {
	cleaned, err := validated(raw, func() *jsonschema.Schema { return answerSchema })
	if err != nil {
		return nil, err
	}

	var eval Evaluation
	if err := json.Unmarshal([]byte(cleaned), &eval); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &eval, nil
}

// decodeInterviewEvaluation validates and decodes a provider response into an
// InterviewEvaluation.
func decodeInterviewEvaluation(raw string) (*InterviewEvaluation, error) {
	cleaned, err := validated(raw, func() *jsonschema.Schema { return interviewSchema })
	if err != nil {
		return nil, err
	}

	var eval InterviewEvaluation
	if err := json.Unmarshal([]byte(cleaned), &eval); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &eval, nil
}

func validated(raw string, schema func() *jsonschema.Schema) (string, error) {
	compileOnce.Do(compileSchemas)
	if schemaCompileErr != nil {
		return "", schemaCompileErr
	}

	cleaned := extractJSON(raw)

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(cleaned))
	if err != nil {
		return "", fmt.Errorf("%w: not valid JSON: %v", ErrMalformedResponse, err)
	}

	if err := schema().Validate(doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return cleaned, nil
}

// extractJSON strips markdown code fences that chat models wrap around JSON
// payloads and trims to the outermost object.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
