package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/todolist/internal/discovery"
	"github.com/muurk/todolist/internal/feed"
	"github.com/muurk/todolist/internal/logging"
	"github.com/muurk/todolist/internal/version"
)

const (
	// DefaultPort is the port the server listens on
	DefaultPort = 8080

	// DefaultCollection is the collection advertised and fed by default
	DefaultCollection = "todos"

	shutdownTimeout = 10 * time.Second
)

// Config holds the server configuration
type Config struct {
	Host       string
	Port       int
	Collection string // Collection advertised on mDNS and published on the feed
	IDs        IDMode
	Advertise  bool   // Announce the collection on mDNS
	Instance   string // mDNS instance name (defaults to the hostname)
	Seed       []string
}

// Server is an in-memory collection server with a change feed
type Server struct {
	config      Config
	collections *Collections
	hub         *feed.Hub
	metrics     *Metrics
	validator   *requestValidator
	handler     http.Handler

	mu       sync.Mutex
	listener net.Listener
	http     *http.Server
	mdns     *zeroconf.Server
	stopHub  context.CancelFunc
}

// New creates a server. Seed titles are added to the default collection.
func New(config Config) (*Server, error) {
	if config.Collection == "" {
		config.Collection = DefaultCollection
	}
	if reserved[config.Collection] {
		return nil, fmt.Errorf("collection name %q is reserved", config.Collection)
	}
	if config.IDs == "" {
		config.IDs = IDSequential
	}
	if config.Port < 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", config.Port)
	}

	s := &Server{
		config:      config,
		collections: NewCollections(config.IDs),
		hub:         feed.NewHub(),
		validator:   newRequestValidator(),
	}
	s.metrics = NewMetrics(s.hub, s.collections)
	s.handler = s.routes()

	store := s.collections.Get(config.Collection, true)
	for _, title := range config.Seed {
		store.Create(title)
	}

	return s, nil
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Hub returns the change feed hub
func (s *Server) Hub() *feed.Hub {
	return s.hub
}

// Collections returns the server's collections
func (s *Server) Collections() *Collections {
	return s.collections
}

// Addr returns the listening address, or "" before Listen
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start listens and serves until ctx is done or SIGINT/SIGTERM arrives
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Listen binds the server's address
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	logging.Info("Server listening for connections",
		zap.String("addr", listener.Addr().String()),
		zap.String("collection", s.config.Collection),
		zap.String("ids", string(s.config.IDs)),
	)
	return nil
}

// Serve runs the feed hub and the HTTP server on the bound listener until
// ctx is done, then shuts down.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return errors.New("server is not listening")
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.http = srv
	s.stopHub = stopHub
	s.mu.Unlock()

	go s.hub.Run(hubCtx)

	if s.config.Advertise {
		s.advertise(listener.Addr())
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown signal received, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		_ = s.Shutdown(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// advertise announces the default collection. Failure is not fatal: the
// server is still reachable by URL.
func (s *Server) advertise(addr net.Addr) {
	port := s.config.Port
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = tcp.Port
	}

	instance := s.config.Instance
	if instance == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "todolist"
		}
		instance = host
	}

	mdns, err := discovery.Advertise(discovery.Advertisement{
		Instance: instance,
		Port:     port,
		Path:     "/" + s.config.Collection,
		FeedPath: "/ws",
		Version:  version.Version,
	})
	if err != nil {
		logging.Warn("mDNS advertisement failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.mdns = mdns
	s.mu.Unlock()

	logging.Info("Advertising on mDNS",
		zap.String("instance", instance),
		zap.String("service", discovery.ServiceType),
		zap.Int("port", port),
	)
}

// Shutdown withdraws the mDNS record, closes feed subscribers, then stops
// the HTTP server. It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	mdns, srv, stopHub := s.mdns, s.http, s.stopHub
	s.mdns, s.http, s.stopHub = nil, nil, nil
	s.mu.Unlock()

	if mdns != nil {
		mdns.Shutdown()
	}
	// Hijacked feed connections are not closed by http.Server.Shutdown
	if stopHub != nil {
		stopHub()
	}

	var err error
	if srv != nil {
		logging.Info("Shutting down server...")
		if err = srv.Shutdown(ctx); err != nil {
			logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
			_ = srv.Close()
		}
	}

	logging.Sync()
	return err
}
