package handler

import (
	"central-pos/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps the business error taxonomy onto HTTP status codes and
// the {success, message} envelope the API uses everywhere.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindInsufficientStock:
		status = fiber.StatusBadRequest
	case apperr.KindNotFound:
		status = fiber.StatusNotFound
	case apperr.KindConflict:
		status = fiber.StatusConflict
	}

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "Internal server error"
	}

	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// currentUserID returns the authenticated user's id string, set by the auth
// middleware. Falls back to "system" on unprotected paths.
func currentUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

// currentUserUUID returns the authenticated user's id as a UUID, or nil when
// unavailable.
func currentUserUUID(c *fiber.Ctx) *uuid.UUID {
	raw := c.Locals("user_id")
	if raw == nil {
		return nil
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return nil
	}
	return &id
}
