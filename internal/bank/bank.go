// Package bank holds the ordered, immutable list of interview questions.
// The bank's order defines interview progression; it is never mutated at
// runtime.
package bank

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Difficulty classifies how demanding a question is.
type Difficulty string

const (
	DifficultyBasic        Difficulty = "Basic"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Question is a single interview question with its metadata.
type Question struct {
	ID         int        `yaml:"id" json:"id"`
	Text       string     `yaml:"text" json:"text"`
	Category   string     `yaml:"category" json:"category"`
	Difficulty Difficulty `yaml:"difficulty" json:"difficulty"`
}

// Bank is a fixed ordered sequence of questions.
type Bank struct {
	questions []Question
}

//go:embed questions.yaml
var defaultBankYAML []byte

type bankFile struct {
	Questions []Question `yaml:"questions"`
}

// Default returns the built-in Excel skills question bank.
func Default() *Bank {
	b, err := parse(defaultBankYAML)
	if err != nil {
		// The embedded bank is validated by tests; a parse failure here is a
		// build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded question bank is invalid: %v", err))
	}
	return b
}

// Load reads a question bank from a YAML file.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question bank %q: %w", path, err)
	}

	b, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing question bank %q: %w", path, err)
	}
	return b, nil
}

func parse(data []byte) (*Bank, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	if len(f.Questions) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}

	for i, q := range f.Questions {
		if q.ID != i+1 {
			return nil, fmt.Errorf("question %d: expected id %d, got %d (ids must be sequential from 1)", i, i+1, q.ID)
		}
		if q.Text == "" {
			return nil, fmt.Errorf("question %d: text is required", q.ID)
		}
		switch q.Difficulty {
		case DifficultyBasic, DifficultyIntermediate, DifficultyAdvanced:
		default:
			return nil, fmt.Errorf("question %d: unknown difficulty %q", q.ID, q.Difficulty)
		}
	}

	return &Bank{questions: f.Questions}, nil
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int {
	return len(b.questions)
}

// At returns the question at position i (zero-based, bank order).
func (b *Bank) At(i int) Question {
	return b.questions[i]
}

// Questions returns a copy of all questions in bank order.
func (b *Bank) Questions() []Question {
	out := make([]Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// Categories returns the distinct categories in bank order, used in the
// welcome message.
func (b *Bank) Categories() []string {
	seen := make(map[string]bool, len(b.questions))
	var out []string
	for _, q := range b.questions {
		if !seen[q.Category] {
			seen[q.Category] = true
			out = append(out, q.Category)
		}
	}
	return out
}
