package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/middleware"
	"github.com/arturoeanton/campus-wellness-api/internal/service"
)

// UserHandler exposes the user directory and role changes.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register sets up user routes.
func (h *UserHandler) Register(router fiber.Router) {
	users := router.Group("/users")
	users.Get("/", middleware.RequireRoles(domain.RoleAdmin, domain.RoleSuperAdmin), h.List)
	users.Get("/me", h.Me)
	users.Put("/me", h.UpdateMe)
	users.Put("/:id/role", middleware.RequireRoles(domain.RoleSuperAdmin), h.ChangeRole)
}

// List returns every user record.
func (h *UserHandler) List(c fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(users)
}

// Me returns the caller's own profile.
func (h *UserHandler) Me(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	u, err := h.users.Get(c.Context(), p.UID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(u)
}

// UpdateMe changes the caller's name or email. The role is not editable here.
func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	var req domain.ProfileUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	u, err := h.users.UpdateProfile(c.Context(), p.UID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(u)
}

// ChangeRole assigns a new role subject to the role caps.
func (h *UserHandler) ChangeRole(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	var req domain.RoleChangeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role specified"})
	}

	if err := h.users.ChangeRole(c.Context(), p, c.Params("id"), req.NewRole); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role updated successfully"})
}
