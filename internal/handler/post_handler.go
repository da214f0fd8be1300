package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/middleware"
	"github.com/arturoeanton/campus-wellness-api/internal/service"
)

var staffRoles = []domain.Role{domain.RoleModerator, domain.RoleAdmin, domain.RoleSuperAdmin}

// PostHandler handles the peer-support forum.
type PostHandler struct {
	forum *service.ModerationService
}

// NewPostHandler creates a new forum handler.
func NewPostHandler(forum *service.ModerationService) *PostHandler {
	return &PostHandler{forum: forum}
}

// Register sets up forum routes.
func (h *PostHandler) Register(router fiber.Router) {
	posts := router.Group("/posts")
	posts.Get("/", h.List)
	posts.Post("/", h.Create)
	posts.Delete("/:id", middleware.RequireRoles(staffRoles...), h.Delete)
	posts.Post("/:id/report", h.Report)
	posts.Get("/:id/reports", middleware.RequireRoles(staffRoles...), h.Reports)
}

// List returns every post, newest first.
func (h *PostHandler) List(c fiber.Ctx) error {
	posts, err := h.forum.ListPosts(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(posts)
}

// Create stores an anonymous post.
func (h *PostHandler) Create(c fiber.Ctx) error {
	var req domain.CreatePostRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	post, err := h.forum.CreatePost(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// Delete removes a post.
func (h *PostHandler) Delete(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.forum.DeletePost(c.Context(), p, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// Report flags a post once per caller.
func (h *PostHandler) Report(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.forum.ReportPost(c.Context(), p, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Report submitted"})
}

// Reports lists the reports filed against a post.
func (h *PostHandler) Reports(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	reports, err := h.forum.ListReports(c.Context(), p, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(reports)
}
