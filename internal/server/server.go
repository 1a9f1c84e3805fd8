// Package server is the companion HTTP backend: resume parsing and the job catalog.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jobswipe/internal/catalog"
	"github.com/jonathan/jobswipe/internal/logging"
	"github.com/jonathan/jobswipe/internal/parsing"
	"github.com/jonathan/jobswipe/internal/server/ratelimit"
)

// DefaultPort is used when PORT is not set
const DefaultPort = 5000

// DefaultMaxUploadBytes caps the multipart body of POST /parse
const DefaultMaxUploadBytes = 10 << 20

// shutdownTimeout bounds graceful shutdown
const shutdownTimeout = 30 * time.Second

// Config holds server settings
type Config struct {
	Port           int
	MaxUploadBytes int64
	RateLimit      *ratelimit.Config
}

// Deps are the collaborators the handlers call
type Deps struct {
	Extractor parsing.TextExtractor
	Parser    parsing.ResumeParser
	Catalog   catalog.Loader
	Logger    *zap.Logger
}

// Server serves the HTTP API
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	limiter    *ratelimit.Limiter
	extractor  parsing.TextExtractor
	parser     parsing.ResumeParser
	catalog    catalog.Loader
	maxUpload  int64
}

// New creates a server. Extractor and Parser are required; a nil Catalog serves the bundled jobs.
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Extractor == nil || deps.Parser == nil {
		return nil, errors.New("server requires a text extractor and a resume parser")
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}

	s := &Server{
		logger:    logging.Component(deps.Logger, "server"),
		limiter:   ratelimit.NewLimiter(cfg.RateLimit),
		extractor: deps.Extractor,
		parser:    deps.Parser,
		catalog:   deps.Catalog,
		maxUpload: cfg.MaxUploadBytes,
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second, // model calls are slow
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /parse", s.handleParse)
	mux.HandleFunc("GET /jobs", s.handleJobs)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withRecover(s.withLogging(s.withCORS(s.withRateLimit(mux))))
}

// Addr is the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.limiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
