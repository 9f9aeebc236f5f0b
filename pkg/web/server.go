// Package web provides a read-only status dashboard for screenguard
package web

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/teslashibe/screenguard/internal/log"
	"github.com/teslashibe/screenguard/pkg/hub"
	"github.com/teslashibe/screenguard/pkg/session"
)

// Server is the status dashboard server. It implements session.StatusSink.
type Server struct {
	app     *fiber.App
	started time.Time

	// State
	status   session.Status
	hasState bool
	stateMu  sync.RWMutex

	statusHub *hub.Hub
	hubCtx    context.Context
	cancelHub context.CancelFunc
}

// NewServer creates a dashboard server
func NewServer() *Server {
	s := &Server{
		started:   time.Now(),
		statusHub: hub.New("status"),
	}
	s.hubCtx, s.cancelHub = context.WithCancel(context.Background())

	app := fiber.New(fiber.Config{
		AppName:               "Screen Guard",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Get("/status", s.handleStatus)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Serve runs the hub and serves on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	go s.statusHub.Run(s.hubCtx)

	log.Info("status dashboard listening", "addr", ln.Addr().String())
	return s.app.Listener(ln)
}

// StartAsync listens on port and serves in a goroutine
func (s *Server) StartAsync(port string) error {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("dashboard listen: %w", err)
	}
	go func() {
		if err := s.Serve(ln); err != nil {
			log.Warn("dashboard stopped", "error", err)
		}
	}()
	return nil
}

// Shutdown stops the server and disconnects websocket clients
func (s *Server) Shutdown() error {
	s.cancelHub()
	return s.app.ShutdownWithTimeout(2 * time.Second)
}

// Publish records the latest session status and broadcasts it
func (s *Server) Publish(st session.Status) {
	s.stateMu.Lock()
	s.status = st
	s.hasState = true
	s.stateMu.Unlock()

	if err := s.statusHub.BroadcastJSON(st); err != nil {
		log.Warn("status encode failed", "error", err)
	}
}

// Status returns the latest published status and whether one exists
func (s *Server) Status() (session.Status, bool) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.status, s.hasState
}
