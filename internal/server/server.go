package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jackzampolin/bookmark/internal/api"
	"github.com/jackzampolin/bookmark/internal/config"
	"github.com/jackzampolin/bookmark/internal/fetch"
	"github.com/jackzampolin/bookmark/internal/server/endpoints"
	"github.com/jackzampolin/bookmark/internal/sources"
	"github.com/jackzampolin/bookmark/internal/svcctx"
)

// Server is the bookmark HTTP server.
// It owns the source registry and rebuilds it whenever the config file changes.
type Server struct {
	httpServer *http.Server
	registry   *sources.Registry
	configMgr  *config.Manager
	fetcher    fetch.Fetcher
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Fetcher overrides the HTTP fetcher built from config (tests).
	Fetcher fetch.Fetcher
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}

	s := &Server{
		registry:  sources.NewRegistry(),
		configMgr: cfg.ConfigManager,
		fetcher:   cfg.Fetcher,
		logger:    cfg.Logger,
	}
	s.registry.SetLogger(cfg.Logger)
	s.reload(cfg.ConfigManager.Get())

	// Watch for config changes
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		s.reload(c)
		cfg.Logger.Info("source registry reloaded from config", "sources", s.registry.List())
	})

	s.services = &svcctx.Services{
		Sources: s.registry,
		Config:  cfg.ConfigManager,
		Logger:  cfg.Logger,
	}

	addr := net.JoinHostPort(cfg.Host, cfg.Port)

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{SwaggerHost: addr}) {
		s.endpointRegistry.Register(ep)
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// reload rebuilds the sources from c. The fetcher is rebuilt too so
// timeout and user agent changes take effect.
func (s *Server) reload(c *config.Config) {
	f := s.fetcher
	if f == nil {
		f = fetch.NewHTTPFetcher(c.FetchConfig(s.logger))
	}
	s.registry.Reload(c.ToRegistryConfig(), f)
}

// Start runs the HTTP server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr, "sources", s.registry.List())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Registry returns the source registry.
func (s *Server) Registry() *sources.Registry {
	return s.registry
}
