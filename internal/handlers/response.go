package handlers

import (
	"errors"
	"fmt"

	"bookswap/internal/repositories"
	"bookswap/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Every response uses the same envelope: {success, data?, message?, count?}.

func respondData(c *fiber.Ctx, status int, data interface{}, message string) error {
	body := fiber.Map{
		"success": true,
		"data":    data,
	}
	if message != "" {
		body["message"] = message
	}
	return c.Status(status).JSON(body)
}

// respondList includes the count alongside the list, as list endpoints do.
func respondList(c *fiber.Ctx, data interface{}, count int) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   count,
	})
}

func respondMessage(c *fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

func respondFailure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// respondError translates a domain failure into the envelope with the status
// the error taxonomy prescribes.
func respondError(c *fiber.Ctx, err error) error {
	return respondFailure(c, statusForError(err), err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrInvalidOperation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondValidationError reports which fields failed which validation tags.
func respondValidationError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return respondFailure(c, fiber.StatusBadRequest, "Validation failed")
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
