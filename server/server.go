// Package server exposes the recipe, ingredient and author services over
// HTTP/JSON.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/arllen133/recipes/domain"
	"github.com/arllen133/recipes/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Pinger reports database reachability for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the entity services the API exposes.
type Services struct {
	Authors     service.AuthorService
	Recipes     service.RecipeService
	Ingredients service.IngredientService
}

// Server represents the HTTP server
type Server struct {
	config      *Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	pinger      Pinger
	mu          sync.RWMutex
	ready       bool
}

// New creates a server exposing services. pinger may be nil.
func New(config *Config, services Services, pinger Pinger) *Server {
	if config == nil {
		config = NewConfig(nil, "dev")
	}

	s := &Server{
		config:      config,
		rateLimiter: rate.NewLimiter(config.RateLimit, config.RateLimitBurst),
		pinger:      pinger,
	}

	routes := []route{
		NewResource("author", "/api/authors", service.CRUD[domain.Author](services.Authors),
			Paginated[domain.Author](domain.AuthorSortable)),
		NewResource("recipe", "/api/recipes", service.CRUD[domain.Recipe](services.Recipes),
			Paginated[domain.Recipe](domain.RecipeSortable)),
		NewResource("ingredient", "/api/ingredients", service.CRUD[domain.Ingredient](services.Ingredients)),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Address, config.Port),
		Handler:      s.setupRoutes(routes...),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return s
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes(routes ...route) http.Handler {
	mux := http.NewServeMux()

	// System endpoints (no rate limiting)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	for _, rt := range routes {
		rt.register(mux, s)
	}
	return mux
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// SetReady marks the server as ready to serve traffic
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.SetReady(true)

	slog.Info("starting server", "address", s.httpServer.Addr)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down server", "timeout", s.config.ShutdownTimeout)
	return s.httpServer.Shutdown(shutdownCtx)
}

// Run starts the server and blocks until SIGINT or SIGTERM.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("server config",
		slog.String("name", s.config.Name),
		slog.String("version", s.config.Version),
		slog.String("address", s.httpServer.Addr),
		slog.Any("rateLimit", s.config.RateLimit),
		slog.Int("rateLimitBurst", s.config.RateLimitBurst),
		slog.Duration("readTimeout", s.config.ReadTimeout),
		slog.Duration("writeTimeout", s.config.WriteTimeout),
		slog.Duration("idleTimeout", s.config.IdleTimeout),
		slog.Duration("shutdownTimeout", s.config.ShutdownTimeout),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Start(gctx)
	})

	start := time.Now()
	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped gracefully", "uptime", time.Since(start).String())
	return nil
}
