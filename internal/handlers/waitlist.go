package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Waitlist answers for every functional route when the service runs in
// demo deployment mode. Health and liveness stay mounted ahead of it.
func Waitlist() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "Prepilot is coming soon. Join the waitlist at https://prepilot.app",
		})
	}
}
