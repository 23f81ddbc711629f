package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mustaphalimar/prepilot/internal/middleware"
	"github.com/mustaphalimar/prepilot/internal/services"
	"github.com/mustaphalimar/prepilot/internal/utils"
)

// UserHandler handles /v1/user routes.
type UserHandler struct {
	Users *services.UserService
}

// Initialize handles POST /v1/user/initialize. The bridge has already
// mirrored the account; this confirms it and returns the profile so the
// client can run it once right after sign-in.
func (h *UserHandler) Initialize(c *fiber.Ctx) error {
	user, _ := middleware.UserFromContext(c)

	profile, err := h.Users.GetByExternalID(c.Context(), user.ExternalID)
	if err != nil {
		return serviceError(err, "User not found")
	}

	return utils.DataResponse(c, fiber.StatusOK, profile)
}

// Profile handles GET /v1/user/profile
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	user, _ := middleware.UserFromContext(c)

	profile, err := h.Users.GetByExternalID(c.Context(), user.ExternalID)
	if err != nil {
		return serviceError(err, "User not found")
	}

	return utils.DataResponse(c, fiber.StatusOK, profile)
}
