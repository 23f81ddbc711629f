package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler serves the shallow liveness endpoint. It always answers
// 200 regardless of auth headers; deep dependency checks live in
// cmd/healthcheck.
type HealthHandler struct {
	Environment string
	Version     string
	StartedAt   time.Time
}

// Status handles GET /v1/health
func (h *HealthHandler) Status(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":      "ok",
		"environment": h.Environment,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(h.StartedAt).Seconds(),
		"version":     h.Version,
	})
}
