package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/campus-wellness-api/internal/service"
)

// AuthHandler handles session bootstrap.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register sets up auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	auth := router.Group("/auth")
	auth.Post("/session", h.Session)
}

// Session creates the caller's profile on first sign-in.
func (h *AuthHandler) Session(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}

	message, err := h.authService.EnsureSession(c.Context(), p, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": message})
}
