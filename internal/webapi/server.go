package webapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sheetwise/interviewd/internal/bank"
)

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
	Logger      *slog.Logger
}

// Server wraps the HTTP server with configuration.
type Server struct {
	cfg    ServerConfig
	srv    *http.Server
	logger *slog.Logger
}

// NewServer creates the interview HTTP server.
func NewServer(cfg ServerConfig, ivw Interviewer, b *bank.Bank, sessions SessionCounter) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	mux := http.NewServeMux()
	RegisterRoutes(mux, ivw, b, sessions)

	var handler http.Handler = mux
	if len(cfg.CORSOrigins) > 0 {
		handler = CORSMiddleware(mux, cfg.CORSOrigins...)
	}

	return &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// ListenAndServe starts the HTTP server and shuts it down gracefully when
// ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("HTTP server starting", "address", s.srv.Addr)

	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", "error", err)
		}
	}()

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Handler returns the underlying http.Handler (useful for testing).
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
