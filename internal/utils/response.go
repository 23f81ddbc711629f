package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the error envelope shared with the web client.
type ErrorBody struct {
	Success     bool   `json:"success"`
	Error       string `json:"error"`
	IsFormError bool   `json:"isFormError,omitempty"`
}

// DataResponse sends a success envelope: {"data": ...}
func DataResponse(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"data": data})
}

// ErrorResponse sends the standard error envelope
func ErrorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorBody{
		Success: false,
		Error:   message,
	})
}

// FormErrorResponse sends a 400 error envelope flagged as a form/validation error
func FormErrorResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{
		Success:     false,
		Error:       message,
		IsFormError: true,
	})
}

// UnauthorizedResponse sends the 401 envelope the client's auth guard expects
func UnauthorizedResponse(c *fiber.Ctx) error {
	return ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized")
}

// NotFoundResponse sends a 404 error envelope
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, fiber.StatusNotFound, message)
}
