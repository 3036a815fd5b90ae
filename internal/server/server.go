package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pageza/recipefinder/backend/config"
	"github.com/pageza/recipefinder/backend/internal/logging"
)

// Server represents the HTTP server
type Server struct {
	http            *http.Server
	shutdownTimeout time.Duration
}

// New creates a server for handler with the configured timeouts.
func New(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Start blocks serving requests until the server is shut down.
func (s *Server) Start() error {
	logging.Info().Str("addr", s.http.Addr).Msg("starting HTTP server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
