package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interviewd",
		Short: "Interviewd - AI-scored Excel skills interview service",
		Long: `Interviewd runs mock Excel skills interviews.

It serves a fixed question bank over HTTP, collects candidate answers as text
or audio, scores them through an LLM provider, and produces an aggregate
hiring report per session.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newQuestionsCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
