// Package server wires the reference document server: routes, middleware
// chain and background maintenance.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/keepsake/internal/config"
	"github.com/iudanet/keepsake/internal/server/handlers"
	"github.com/iudanet/keepsake/internal/server/middleware"
	"github.com/iudanet/keepsake/internal/server/storage"
)

const (
	shutdownTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long a recorded key answers replays
	IdempotencyKeyTTL = 7 * 24 * time.Hour
	pruneInterval     = time.Hour

	healthPath = "/api/v1/health"
)

// Store is everything the server needs from persistence
type Store interface {
	storage.DocumentStorage
	storage.BlobStorage
	storage.IdempotencyStorage
	handlers.Pinger
}

// Server is the HTTP document server
type Server struct {
	store   Store
	logger  *slog.Logger
	handler http.Handler
	cfg     config.Server
}

// New builds the server and its middleware chain
func New(cfg config.Server, jwtConfig handlers.JWTConfig, store Store, logger *slog.Logger, version string) *Server {
	docs := handlers.NewDocumentsHandler(logger, store, store, cfg.MaxBlobBytes)
	health := handlers.NewHealthHandler(logger, store, version)
	auth := middleware.AuthMiddleware(logger, jwtConfig)

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+healthPath, health.Health)
	mux.Handle("POST /api/v1/query", auth(http.HandlerFunc(docs.Query)))
	mux.Handle("POST /api/v1/write", auth(http.HandlerFunc(docs.Write)))
	mux.Handle("PUT /api/v1/blobs/{key...}", auth(http.HandlerFunc(docs.PutBlob)))
	mux.Handle("GET /api/v1/blobs/{key...}", auth(http.HandlerFunc(docs.GetBlob)))

	var handler http.Handler = mux
	if cfg.RateLimit.Requests > 0 && cfg.RateLimit.Window > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, 0)
		handler = middleware.RateLimitMiddleware(limiter, logger)(handler)
	}
	handler = middleware.RecoveryMiddleware(logger)(handler)
	// Проверки связи приходят от каждого клиента по таймеру
	handler = middleware.LoggingWithSkip(logger, []string{healthPath})(handler)

	return &Server{
		store:   store,
		logger:  logger,
		handler: handler,
		cfg:     cfg,
	}
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on cfg.Addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	pruneCtx, stopPrune := context.WithCancel(ctx)
	defer stopPrune()
	go s.pruneLoop(pruneCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		s.pruneIdempotencyKeys(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) pruneIdempotencyKeys(ctx context.Context) {
	n, err := s.store.PruneIdempotencyKeys(ctx, time.Now().Add(-IdempotencyKeyTTL))
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("Failed to prune idempotency keys", "error", err)
		}
		return
	}
	if n > 0 {
		s.logger.Info("Pruned idempotency keys", "count", n)
	}
}
