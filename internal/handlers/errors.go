package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/mustaphalimar/prepilot/internal/utils"
)

// ErrorHandler translates handler errors into the API's error envelope.
// Validation failures become 400 form errors; unexpected errors hide their
// detail outside development.
func ErrorHandler(env string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return utils.FormErrorResponse(c, validationMessage(validationErrs))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			if fiberErr.Code == fiber.StatusUnauthorized {
				return utils.UnauthorizedResponse(c)
			}
			return utils.ErrorResponse(c, fiberErr.Code, fiberErr.Message)
		}

		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		if env == "development" {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

// validationMessage flattens validator output into one readable message.
func validationMessage(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Invalid request"
	}
	first := errs[0]
	switch first.Tag() {
	case "required":
		return first.Field() + " is required"
	case "min":
		return first.Field() + " is too short"
	case "max":
		return first.Field() + " is too long"
	case "gtefield":
		return first.Field() + " must not be before " + first.Param()
	default:
		return first.Field() + " is invalid"
	}
}
