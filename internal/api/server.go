package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-alexa/internal/device"
	"github.com/nerrad567/gray-logic-alexa/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-alexa/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  config.ServiceConfig
	Logger  *logging.Logger
	Version string
}

// Server is the runtime service for a compiled device catalogue.
//
// It is created with New() and receives the frozen registry through
// Start(), which makes it a catalogue.Service.
type Server struct {
	cfg     config.ServiceConfig
	logger  *logging.Logger
	version string

	mu       sync.RWMutex
	registry *device.Registry
	proxies  map[string]*proxyTarget
	server   *http.Server
	addr     net.Addr
	done     chan struct{}
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Server{
		cfg:     deps.Config,
		logger:  deps.Logger,
		version: deps.Version,
	}, nil
}

// Start binds camera proxy tokens from the registry and begins listening
// for HTTP connections.
//
// The listener is opened synchronously so address errors are returned;
// requests are served in a background goroutine. Cancelling ctx shuts the
// server down gracefully, as does Close().
//
// Parameters:
//   - ctx: Lifetime of the server
//   - registry: Frozen device registry to serve
//
// Returns:
//   - error: If the registry is missing, the server already started, or
//     the listener cannot be opened
func (s *Server) Start(ctx context.Context, registry *device.Registry) error {
	if registry == nil {
		return ErrNoRegistry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return ErrAlreadyStarted
	}

	errLog := slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn)
	proxies, errs := bindProxies(registry, s.proxyTimeout(), errLog)
	for _, err := range errs {
		s.logger.Warn("camera proxy not bound", "error", err)
	}

	s.registry = registry
	s.proxies = proxies

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", srv.Addr, err)
	}

	s.server = srv
	s.addr = ln.Addr()
	done := make(chan struct{})
	s.done = done

	go s.serve(srv, ln)
	go func() {
		select {
		case <-ctx.Done():
			if err := s.Close(); err != nil {
				s.logger.Warn("API server shutdown failed", "error", err)
			}
		case <-done:
		}
	}()

	s.logger.Info("API server started",
		"address", s.addr.String(),
		"tls", s.cfg.TLS.Enabled,
		"devices", registry.Count(),
		"proxies", len(proxies),
	)

	return nil
}

// serve runs the HTTP listener until shutdown.
func (s *Server) serve(srv *http.Server, ln net.Listener) {
	var err error
	if s.cfg.TLS.Enabled {
		err = srv.ServeTLS(ln, s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
	} else {
		err = srv.Serve(ln)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("API server error", "error", err)
	}
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections. Calling Close more than
// once is safe.
func (s *Server) Close() error {
	s.mu.Lock()
	srv, done := s.server, s.done
	if srv == nil || done == nil {
		s.mu.Unlock()
		return nil
	}
	select {
	case <-done:
		s.mu.Unlock()
		return nil
	default:
		close(done)
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// Done returns a channel closed once shutdown has begun, or nil before
// Start.
func (s *Server) Done() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.server == nil {
		return ErrNotStarted
	}

	return nil
}

// proxyTimeout bounds a proxied camera request. Zero means no bound.
func (s *Server) proxyTimeout() time.Duration {
	return time.Duration(s.cfg.Timeouts.Write) * time.Second
}

// snapshot returns the registry and proxy table under the read lock.
func (s *Server) snapshot() (*device.Registry, map[string]*proxyTarget) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry, s.proxies
}
