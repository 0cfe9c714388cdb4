// Package httpserver wires the context endpoints, health checks and metrics
// into one HTTP server.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/humanagencyprotocol/hapsite/internal/contextdump"
	derrors "github.com/humanagencyprotocol/hapsite/internal/foundation/errors"
	"github.com/humanagencyprotocol/hapsite/internal/logfields"
	"github.com/humanagencyprotocol/hapsite/internal/metrics"
	handlers "github.com/humanagencyprotocol/hapsite/internal/server/handlers"
	smw "github.com/humanagencyprotocol/hapsite/internal/server/middleware"
)

// DefaultAddr matches the site's development server port.
const DefaultAddr = ":4321"

// Options configures the server.
type Options struct {
	Addr string
	// Version is the content version every request renders.
	Version      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       *slog.Logger
	Recorder     metrics.Recorder
	// PrometheusHandler is mounted at /metrics when set.
	PrometheusHandler http.Handler
}

// Server serves assembled context documents.
type Server struct {
	opts       Options
	aggregator *contextdump.Aggregator
	httpServer *http.Server
	handler    http.Handler

	mu   sync.Mutex
	addr string
	done chan error
}

// New constructs the server and its routes. Nothing is bound until Start.
func New(aggregator *contextdump.Aggregator, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 5 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	s := &Server{opts: opts, aggregator: aggregator}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	chain := smw.Chain(s.opts.Logger, derrors.NewHTTPErrorAdapter(s.opts.Logger), s.opts.Recorder)
	contextHandlers := handlers.NewContextHandlers(s.aggregator, s.opts.Version, s.opts.Logger)
	reg := s.aggregator.Registry()
	monitoring := handlers.NewMonitoringHandlers(s.opts.Version, reg.Names(), s.opts.Logger)

	mux := http.NewServeMux()
	for _, p := range reg.Profiles() {
		mux.Handle(p.Route, chain(p.Route, contextHandlers.Handler(p.Name)))
	}
	mux.Handle("/healthz", chain("/healthz", http.HandlerFunc(monitoring.HandleHealthCheck)))
	if s.opts.PrometheusHandler != nil {
		mux.Handle("/metrics", s.opts.PrometheusHandler)
	}
	mux.Handle("/", chain("other", http.HandlerFunc(contextHandlers.HandleNotFound)))
	return mux
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Start binds the listener, failing fast when the address is taken, and
// serves in the background.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "http startup failed").
			WithContext("addr", s.opts.Addr).
			Build()
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: s.opts.ReadTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	done := make(chan error, 1)

	s.mu.Lock()
	s.httpServer = srv
	s.addr = ln.Addr().String()
	s.done = done
	s.mu.Unlock()

	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			s.opts.Logger.Error("HTTP server stopped", logfields.Error(err))
		}
		done <- err
	}()

	s.opts.Logger.Info("HTTP server started",
		slog.String("addr", s.addr),
		logfields.Version(s.opts.Version),
		slog.Int("profiles", len(s.aggregator.Registry().Names())))
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv, done := s.httpServer, s.done
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return <-done
}
