package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/keylightctl/internal/discovery"
	"go.uber.org/zap"
)

const (
	// DefaultListenAddr keeps the bridge on the loopback interface. The
	// lights themselves listen on 9123; the bridge sits one port up.
	DefaultListenAddr = "127.0.0.1:9124"

	// DefaultClientBuffer is the per-subscriber event queue length.
	DefaultClientBuffer = 16

	// shutdownTimeout bounds how long Run waits for in-flight requests
	shutdownTimeout = 5 * time.Second
)

// upgrader performs the WebSocket handshake for /api/events. The bridge
// binds to loopback, so same-host browser clients are accepted whatever
// origin they report.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Config holds the bridge server configuration.
type Config struct {
	// ListenAddr is the TCP address to serve on.
	// Default: DefaultListenAddr
	ListenAddr string

	// ClientBuffer is the per-subscriber event queue length. A
	// subscriber whose queue stays full gets disconnected.
	// Default: DefaultClientBuffer
	ClientBuffer int
}

// Server bridges a discovery Registry to local HTTP clients: snapshot
// reads against the registry, live changes fanned out over WebSockets.
type Server struct {
	config   Config
	registry *discovery.Registry
	events   <-chan discovery.Event
	logger   *zap.Logger
	hub      *hub

	mu   sync.Mutex
	addr net.Addr
}

// New creates a bridge server over the given registry. Events from the
// channel (typically Daemon.Events) are fanned out to WebSocket
// subscribers; a nil channel serves snapshots only. A nil logger
// disables logging.
func New(config Config, registry *discovery.Registry, events <-chan discovery.Event, logger *zap.Logger) *Server {
	if config.ListenAddr == "" {
		config.ListenAddr = DefaultListenAddr
	}
	if config.ClientBuffer <= 0 {
		config.ClientBuffer = DefaultClientBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		config:   config,
		registry: registry,
		events:   events,
		logger:   logger,
		hub:      newHub(logger),
	}
}

// Run serves until the context is cancelled or the listener fails. On
// cancellation it disconnects every event subscriber, then shuts the
// HTTP server down gracefully, waiting up to shutdownTimeout for
// in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddr, err)
	}

	s.mu.Lock()
	s.addr = listener.Addr()
	s.mu.Unlock()

	httpServer := &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.hub.run(ctx, s.events)

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Serve(listener)
	}()

	s.logger.Info("bridge server listening",
		zap.String("addr", listener.Addr().String()),
	)

	select {
	case <-ctx.Done():
		s.logger.Info("bridge server shutting down",
			zap.String("reason", ctx.Err().Error()),
		)

		// Upgraded connections are hijacked and invisible to Shutdown;
		// closing the hub is what actually terminates them.
		s.hub.close()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			_ = httpServer.Close()
			return fmt.Errorf("bridge shutdown incomplete: %w", err)
		}
		return nil

	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("bridge server failed: %w", err)
	}
}

// Addr returns the bound listener address. It is nil until Run has
// started serving, which matters when listening on port 0.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// routes builds the HTTP mux for the bridge API.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/devices", s.handleDevices)
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

// handleDevices serves the current registry snapshot as a JSON array.
func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	devices := s.registry.Devices()
	if devices == nil {
		devices = []discovery.Device{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(devices); err != nil {
		s.logger.Warn("failed to write device snapshot",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
	}
}

// handleEvents upgrades the request to a WebSocket and streams registry
// change events until the client disconnects, falls behind, or the
// server shuts down.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response
		s.logger.Debug("websocket upgrade rejected",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	client := newClient(conn, s.config.ClientBuffer)
	if !s.hub.add(client) {
		_ = conn.Close()
		return
	}

	s.logger.Info("event subscriber connected",
		zap.String("remote_addr", client.addr),
	)

	go client.writePump(s.logger)
	client.readPump(s.hub)

	s.logger.Info("event subscriber disconnected",
		zap.String("remote_addr", client.addr),
	)
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}
