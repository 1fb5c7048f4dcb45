package handler

import (
	"errors"

	"central-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account. New accounts default to the karyawan role.
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid JSON"})
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"data":    user,
	})
}

// Login authenticates by username or email and returns a bearer token.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid JSON"})
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserInactive) {
			return c.Status(401).JSON(fiber.Map{"success": false, "message": err.Error()})
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data":    response,
	})
}

// Me returns the authenticated user.
// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	raw := c.Locals("user_id")
	if raw == nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "message": "Not authenticated"})
	}

	userID, err := uuid.Parse(raw.(string))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "message": "Not authenticated"})
	}

	user, err := h.authService.GetCurrentUser(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}
