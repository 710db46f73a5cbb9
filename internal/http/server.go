package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sparkmeet/sparkmeet-backend/internal/logging"
)

// Server wraps the HTTP server with graceful shutdown. In-flight sign-in and
// refresh requests get to finish before the listener closes, so a deploy
// never drops a half-rotated token pair on the client.
type Server struct {
	httpServer *http.Server
	logger     *logging.Logger
}

// NewServer creates the API server.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration, logger *logging.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		logger: logger,
	}
}

// Start begins listening and serving HTTP requests
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.httpServer.Addr)

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
