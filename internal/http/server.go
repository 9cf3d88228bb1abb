package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/davidbz/tokenmeter/internal/config"
	"github.com/davidbz/tokenmeter/internal/http/middleware"
	"github.com/davidbz/tokenmeter/internal/metrics"
	"github.com/davidbz/tokenmeter/internal/observability"
)

// Server represents the HTTP server.
type Server struct {
	config      config.ServerConfig
	handler     *Handler
	metrics     *metrics.Collector
	middlewares middleware.Middleware

	mu     sync.Mutex
	srv    *http.Server
	closed bool
}

// NewServer creates a new HTTP server.
func NewServer(
	cfg *config.ServerConfig,
	handler *Handler,
	collector *metrics.Collector,
	middlewares middleware.Middleware,
) *Server {
	return &Server{
		config:      *cfg,
		handler:     handler,
		metrics:     collector,
		middlewares: middlewares,
	}
}

// Routes builds the route table wrapped in the middleware chain.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Register routes.
	mux.HandleFunc("/health", s.handler.HandleHealth)
	mux.HandleFunc("/api/health", s.handler.HandleBackendHealth)
	mux.HandleFunc("/api/models", s.handler.HandleModels)
	mux.HandleFunc("/api/models/refresh", s.handler.HandleRefreshModels)
	mux.HandleFunc("/api/pricing", s.handler.HandlePricing)
	mux.HandleFunc("/api/cost", s.handler.HandleCost)
	mux.HandleFunc("/api/chat", s.handler.HandleChat)

	if s.metrics.Enabled() {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	if s.middlewares == nil {
		return mux
	}

	// Apply middleware chain.
	return s.middlewares(mux)
}

// Start starts the HTTP server. It returns nil at once if Shutdown was
// already called.
func (s *Server) Start() error {
	// Create server with timeouts.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Routes(),
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.srv = srv
	s.mu.Unlock()

	ctx := context.Background()
	observability.FromContext(ctx).Info("starting HTTP server", observability.Int("port", s.config.Port))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	observability.FromContext(ctx).Info("shutting down HTTP server")

	s.mu.Lock()
	s.closed = true
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// ShutdownTimeout returns how long Shutdown may wait for in-flight requests.
func (s *Server) ShutdownTimeout() time.Duration {
	return time.Duration(s.config.ShutdownTimeout) * time.Second
}
