package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/neiam/theme-sender/internal/geolocation"
	"github.com/neiam/theme-sender/internal/history"
	"github.com/neiam/theme-sender/internal/infrastructure/config"
	"github.com/neiam/theme-sender/internal/infrastructure/logging"
	"github.com/neiam/theme-sender/internal/publisher"
	"github.com/neiam/theme-sender/internal/resolver"
)

// gracefulShutdownTimeout bounds how long Close waits for in-flight requests.
const gracefulShutdownTimeout = 10 * time.Second

// StateSource exposes the resolver state. *resolver.Resolver implements it.
type StateSource interface {
	Snapshot() resolver.Snapshot
}

// HealthChecker reports whether a dependency is usable. The MQTT client,
// the history database and the InfluxDB client implement it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// namedCheck is a HealthChecker reported under name.
type namedCheck struct {
	name  string
	check HealthChecker
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Security config.SecurityConfig
	Logger   *logging.Logger
	State    StateSource
	Location geolocation.Location

	// Optional.
	History  history.Repository
	MQTT     HealthChecker
	Database HealthChecker
	InfluxDB HealthChecker
	Version  string
}

// Server is the read-only status API. It serves resolver state over HTTP
// and streams publish cycles to WebSocket clients.
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	secCfg   config.SecurityConfig
	logger   *logging.Logger
	state    StateSource
	location geolocation.Location
	history  history.Repository
	checks   []namedCheck
	version  string
	started  time.Time

	hub    *Hub
	server *http.Server

	mu       sync.Mutex
	listener net.Listener
	done     chan struct{}
}

// New creates a server. Call Start or Run to begin serving.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.State == nil {
		return nil, fmt.Errorf("state source is required")
	}

	return &Server{
		cfg:      deps.Config,
		wsCfg:    deps.WS,
		secCfg:   deps.Security,
		logger:   deps.Logger,
		state:    deps.State,
		location: deps.Location,
		history:  deps.History,
		checks:   healthChecks(deps),
		version:  deps.Version,
		started:  time.Now(),
		hub:      NewHub(deps.WS, deps.Logger),
	}, nil
}

func healthChecks(deps Deps) []namedCheck {
	var checks []namedCheck
	for _, c := range []namedCheck{
		{"mqtt", deps.MQTT},
		{"database", deps.Database},
		{"influxdb", deps.InfluxDB},
	} {
		if c.check != nil {
			checks = append(checks, c)
		}
	}
	return checks
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ThemePublished implements publisher.Observer by broadcasting the cycle
// to WebSocket clients.
func (s *Server) ThemePublished(_ context.Context, p publisher.Publication) {
	s.hub.Broadcast(EventThemePublished, newPublishedEvent(p))
}

// Start binds the listener and serves in the background until Close.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.server = &http.Server{
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.Timeouts.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.Timeouts.ReadTimeout(),
		WriteTimeout:      s.cfg.Timeouts.WriteTimeout(),
		IdleTimeout:       s.cfg.Timeouts.IdleTimeout(),
	}

	s.mu.Lock()
	s.listener = ln
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("API server listening", "address", ln.Addr().String())

	go func() {
		defer close(s.done)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()
	return nil
}

// Run starts the server and blocks until ctx is cancelled, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Close()
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close disconnects WebSocket clients and shuts the listener down,
// waiting up to gracefulShutdownTimeout for in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	s.hub.closeAll()

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	<-s.done
	return nil
}
