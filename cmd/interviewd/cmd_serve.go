package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sheetwise/interviewd/internal/bank"
	"github.com/sheetwise/interviewd/internal/config"
	"github.com/sheetwise/interviewd/internal/gateway"
	"github.com/sheetwise/interviewd/internal/interview"
	"github.com/sheetwise/interviewd/internal/store"
	"github.com/sheetwise/interviewd/internal/webapi"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the interview HTTP server",
		Long: `Start the interview HTTP server.

Configuration comes from the environment (a .env file in the working
directory is honored). The server exposes the interview session API plus a
health endpoint, and shuts down gracefully on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			webapi.Version = version

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			logger := slog.Default()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			b := bank.Default()
			if cfg.QuestionsFile != "" {
				b, err = bank.Load(cfg.QuestionsFile)
				if err != nil {
					return fmt.Errorf("loading question bank: %w", err)
				}
			}

			memory := store.NewMemoryStore()
			var sessions interview.Store = memory
			if cfg.DataDir != "" {
				durable, err := store.NewFileStore(cfg.DataDir)
				if err != nil {
					return fmt.Errorf("opening session store: %w", err)
				}
				sessions = store.NewTieredStore(durable, memory, logger)
			}

			gw, err := gateway.New(ctx, cfg.ScoringProvider, cfg.GatewayParams(), cfg.GatewayTimeout, logger)
			if err != nil {
				return fmt.Errorf("building scoring gateway: %w", err)
			}

			ivw, err := interview.New(interview.Config{
				Bank:                 b,
				Store:                sessions,
				Scorer:               gw.Scorer,
				Transcriber:          gw.Transcriber,
				Synthesizer:          gw.Synthesizer,
				Mode:                 interview.Mode(cfg.ScoringMode),
				RequireCandidateName: cfg.RequireCandidateName,
				AllowFallbackReport:  cfg.AllowFallbackReport,
				Logger:               logger,
			})
			if err != nil {
				return fmt.Errorf("building orchestrator: %w", err)
			}

			srv := webapi.NewServer(webapi.ServerConfig{
				Addr:        cfg.HTTPAddr,
				CORSOrigins: cfg.CORSOrigins,
				Logger:      logger,
			}, ivw, b, memory)

			logger.Info("interview service configured",
				"provider", cfg.ScoringProvider,
				"mode", cfg.ScoringMode,
				"questions", b.Len(),
				"durable", cfg.DataDir != "")

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides HTTP_ADDR)")

	return cmd
}
