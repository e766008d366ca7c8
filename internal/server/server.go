package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/lox/holdemtracker/internal/tracker"
)

const shutdownTimeout = 5 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithEquitySamples sets the default sample count for equity requests.
func WithEquitySamples(n int) Option {
	return func(s *Server) {
		s.equitySamples = n
	}
}

// Server serves game snapshots over HTTP and pushes updates over WebSocket
type Server struct {
	addr          string
	tracker       *tracker.Tracker
	equitySamples int

	router      chi.Router
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
}

// NewServer creates a new snapshot server for the tracker
func NewServer(addr string, t *tracker.Tracker, logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		addr:          addr,
		tracker:       t,
		equitySamples: 5000,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)
	r.Route("/api", func(r chi.Router) {
		r.Get("/game", s.handleGame)
		r.Get("/game/detailed", s.handleGameDetailed)
		r.Get("/rounds/{n}", s.handleRound)
		r.Get("/rounds/{n}/phh", s.handleRoundPHH)
		r.Get("/equity", s.handleEquity)
		r.Get("/stats", s.handleStats)
		r.Post("/events", s.handleEvent)
	})
	return r
}

// Handler returns the HTTP handler. Start must be running for WebSocket
// clients to receive updates.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the connection hub until ctx is done.
func (s *Server) Start(ctx context.Context) {
	updates, unsubscribe := s.tracker.Subscribe(64)
	go func() {
		defer unsubscribe()
		s.run(ctx, updates)
	}()
}

// ListenAndServe starts the hub and serves HTTP until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.Start(ctx)

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting snapshot server", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down snapshot server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// run handles connection lifecycle and fans tracker updates out to clients
func (s *Server) run(ctx context.Context, updates <-chan tracker.Update) {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "total", total)

		case update, ok := <-updates:
			if !ok {
				return
			}
			msg, err := NewMessage(MessageTypeUpdate, update)
			if err != nil {
				s.logger.Error("Failed to create update message", "error", err)
				continue
			}
			s.broadcast(msg)

		case <-ctx.Done():
			s.mu.Lock()
			for conn := range s.connections {
				_ = conn.Close()
			}
			s.connections = make(map[*Connection]bool)
			s.mu.Unlock()
			return
		}
	}
}

// broadcast sends a message to every connected client
func (s *Server) broadcast(msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Error("Failed to send message to client", "error", err)
			continue
		}
		count++
	}
	s.logger.Debug("Broadcasted message", "type", msg.Type, "recipients", count)
}

// handleWebSocket upgrades the request and sends the current snapshot
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s)
	select {
	case s.register <- client:
	case <-r.Context().Done():
		_ = client.Close()
		return
	}
	client.Start()
	client.sendSnapshot()

	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-time.After(time.Second):
			// hub already stopped
		}
	}()
}

// logRequests logs each request the way the rest of the server logs
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
