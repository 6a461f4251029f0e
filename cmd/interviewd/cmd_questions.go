package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sheetwise/interviewd/internal/bank"
	"github.com/spf13/cobra"
)

func newQuestionsCommand() *cobra.Command {
	var file string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Print the interview question bank",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := bank.Default()
			if file != "" {
				var err error
				b, err = bank.Load(file)
				if err != nil {
					return fmt.Errorf("loading question bank: %w", err)
				}
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(b.Questions())
			}

			fmt.Printf("%-4s %-22s %-13s %s\n", "ID", "Category", "Difficulty", "Question")
			for _, q := range b.Questions() {
				fmt.Printf("%-4d %-22s %-13s %s\n", q.ID, q.Category, q.Difficulty, q.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Load questions from a YAML file instead of the built-in bank")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
