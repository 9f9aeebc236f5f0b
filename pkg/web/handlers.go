package web

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/teslashibe/screenguard/pkg/hub"
)

// handleHealth reports liveness and connected dashboard clients
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"clients": s.statusHub.ClientCount(),
	})
}

// handleStatus returns the latest session status
func (s *Server) handleStatus(c *fiber.Ctx) error {
	st, ok := s.Status()
	if !ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no status yet",
		})
	}
	return c.JSON(st)
}

// handleStatusWS streams status updates to a dashboard client
func (s *Server) handleStatusWS(c *websocket.Conn) {
	hub.NewClient(s.statusHub, c).Run()
}
