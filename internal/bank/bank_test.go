package bank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultBank(t *testing.T) {
	b := Default()
	require.Equal(t, 7, b.Len())

	first := b.At(0)
	require.Equal(t, 1, first.ID)
	require.Equal(t, "Lookup Functions", first.Category)
	require.Equal(t, DifficultyIntermediate, first.Difficulty)

	// IDs follow bank order.
	for i, q := range b.Questions() {
		require.Equal(t, i+1, q.ID)
		require.NotEmpty(t, q.Text)
	}
}

func TestQuestionsReturnsCopy(t *testing.T) {
	b := Default()
	qs := b.Questions()
	qs[0].Text = "mutated"
	require.NotEqual(t, "mutated", b.At(0).Text)
}

func TestCategories(t *testing.T) {
	b := Default()
	cats := b.Categories()
	require.Contains(t, cats, "Formulas")
	require.Contains(t, cats, "Data Analysis")

	seen := map[string]bool{}
	for _, c := range cats {
		require.False(t, seen[c], "duplicate category %q", c)
		seen[c] = true
	}
}

func TestLoad(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeBank(t, `
questions:
  - id: 1
    text: "What is a cell?"
    category: "Basics"
    difficulty: Basic
  - id: 2
    text: "What is a workbook?"
    category: "Basics"
    difficulty: Basic
`)
		b, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, 2, b.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("empty bank", func(t *testing.T) {
		_, err := Load(writeBank(t, `questions: []`))
		require.ErrorContains(t, err, "empty")
	})

	t.Run("non-sequential ids", func(t *testing.T) {
		_, err := Load(writeBank(t, `
questions:
  - id: 5
    text: "Question"
    category: "Basics"
    difficulty: Basic
`))
		require.ErrorContains(t, err, "sequential")
	})

	t.Run("unknown difficulty", func(t *testing.T) {
		_, err := Load(writeBank(t, `
questions:
  - id: 1
    text: "Question"
    category: "Basics"
    difficulty: Impossible
`))
		require.ErrorContains(t, err, "unknown difficulty")
	})
}

func writeBank(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
