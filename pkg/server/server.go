// Package server provides the main HTTP server for the Love Paws API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"lovepaws/gateway/pkg/completion"
	"lovepaws/gateway/pkg/config"
	"lovepaws/gateway/pkg/limits/ratelimit"
	"lovepaws/gateway/pkg/proxy/handlers"
	"lovepaws/gateway/pkg/proxy/middleware"
	"lovepaws/gateway/pkg/telemetry/metrics"
	"lovepaws/gateway/pkg/telemetry/tracing"
)

// Route paths.
const (
	RootPath    = "/"
	PingPath    = "/ping"
	MessagePath = "/inbox/send_message"
)

// Dependencies are the components the server routes requests to.
type Dependencies struct {
	// Completion answers messages. Required.
	Completion completion.Client

	// Limiter gates requests. Nil disables rate limiting.
	Limiter ratelimit.Limiter

	// Metrics is optional. When set and metrics are enabled the registry is
	// served on the configured path.
	Metrics *metrics.Collector

	// Tracer is optional.
	Tracer *tracing.Tracer

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the HTTP server.
type Server struct {
	config     *config.Config
	deps       Dependencies
	httpServer *http.Server
	addr       net.Addr
	mu         sync.RWMutex
	isRunning  bool
	shutdown   sync.Once
}

// NewServer creates a new server.
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Tracer == nil {
		deps.Tracer = tracing.Noop()
	}
	return &Server{
		config: cfg,
		deps:   deps,
	}
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		_ = ln.Close()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.addr = ln.Addr()
	srvCfg := s.config.Server
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       srvCfg.ReadTimeout,
		ReadHeaderTimeout: srvCfg.ReadTimeout,
		WriteTimeout:      srvCfg.WriteTimeout,
		IdleTimeout:       srvCfg.IdleTimeout,
		MaxHeaderBytes:    srvCfg.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(s.deps.Logger.Handler(), slog.LevelWarn),
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("starting server", "address", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.deps.Logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		if ok {
			return err
		}
		return nil
	}
}

// Shutdown gracefully stops the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdown.Do(func() {
		s.mu.RLock()
		httpServer := s.httpServer
		running := s.isRunning
		s.mu.RUnlock()
		if !running || httpServer == nil {
			return
		}

		s.deps.Logger.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx := ctx
		if t := s.config.Server.ShutdownTimeout; t > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(ctx, t)
			defer cancel()
		}

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.deps.Logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.deps.Logger.Info("server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the listening address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.routes()

	if rl := s.config.Limits.RateLimit; rl.Enabled && s.deps.Limiter != nil {
		handler = middleware.RateLimitMiddleware(middleware.RateLimitConfig{
			Limiter:     s.deps.Limiter,
			TrustedHops: s.config.Server.TrustedProxyHops,
			Message:     rl.Message,
			Applies:     s.rateLimitScope(),
			Metrics:     s.deps.Metrics,
			Logger:      s.deps.Logger,
		})(handler)
	}

	handler = middleware.CORSMiddleware(s.corsConfig())(handler)
	handler = middleware.MetricsMiddleware(s.deps.Metrics, s.routeName)(handler)
	handler = s.deps.Tracer.Middleware(s.routeName)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.LoggingMiddleware(s.deps.Logger)(handler)
	handler = middleware.RecoveryMiddleware(s.deps.Logger)(handler)

	return handler
}

func (s *Server) routes() *http.ServeMux {
	up := s.config.Upstream
	mux := http.NewServeMux()

	mux.Handle(MessagePath, handlers.NewMessageHandler(s.deps.Completion, handlers.MessageConfig{
		MaxBodyBytes:      s.config.Server.MaxBodyBytes,
		MaxRecipientRunes: up.MaxRecipientRunes,
		MaxMessageRunes:   up.MaxMessageRunes,
		EmptyReplyIsError: up.EmptyReplyIsError,
	}, s.deps.Logger))
	mux.Handle(PingPath, handlers.NewPingHandler())
	mux.Handle(RootPath, handlers.NewWelcomeHandler())

	if path := s.metricsPath(); path != "" {
		mux.Handle(path, s.deps.Metrics.Handler())
	}

	return mux
}

// metricsPath returns "" when metrics are not served.
func (s *Server) metricsPath() string {
	m := s.config.Telemetry.Metrics
	if !m.Enabled || s.deps.Metrics == nil {
		return ""
	}
	return m.Path
}

func (s *Server) rateLimitScope() func(*http.Request) bool {
	if s.config.Limits.RateLimit.Scope == config.ScopeAll {
		if path := s.metricsPath(); path != "" {
			return middleware.PathIsNot(path)
		}
		return nil
	}
	return middleware.PathIs(MessagePath)
}

// routeName maps a request to a fixed label so metrics and span names stay
// bounded whatever paths clients send.
func (s *Server) routeName(r *http.Request) string {
	switch p := r.URL.Path; p {
	case RootPath, PingPath, MessagePath:
		return p
	default:
		if p != "" && p == s.metricsPath() {
			return p
		}
		return "other"
	}
}

func (s *Server) corsConfig() *middleware.CORSConfig {
	c := s.config.Server.CORS
	return &middleware.CORSConfig{
		Enabled:        c.Enabled,
		AllowedOrigins: c.AllowedOrigins,
		AllowedMethods: c.AllowedMethods,
		AllowedHeaders: c.AllowedHeaders,
		ExposedHeaders: c.ExposedHeaders,
		MaxAge:         c.MaxAge,
	}
}
