package handler

import (
	"errors"
	"strconv"

	"posting-engine/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// respondError maps engine error kinds onto HTTP statuses. Conflict answers
// carry retryable=true: the operation rolled back whole and the caller may
// resend the same request. Anything unclassified is a 500.
func respondError(c *fiber.Ctx, err error) error {
	kind, ok := apperr.KindOf(err)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	body := fiber.Map{"error": err.Error()}
	var e *apperr.Error
	if errors.As(err, &e) && len(e.IDs) > 0 {
		body["employee_ids"] = e.IDs
	}

	switch kind {
	case apperr.Validation:
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case apperr.NotFound:
		return c.Status(fiber.StatusNotFound).JSON(body)
	case apperr.Conflict:
		body["retryable"] = true
		return c.Status(fiber.StatusConflict).JSON(body)
	default: // Precondition
		return c.Status(fiber.StatusConflict).JSON(body)
	}
}

// actor returns the caseworker service id the auth middleware stored.
func actor(c *fiber.Ctx) string {
	if v, ok := c.Locals("service_id").(string); ok {
		return v
	}
	return ""
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.New(apperr.Validation, "invalid id %q", c.Params("id"))
	}
	return uint(id), nil
}
