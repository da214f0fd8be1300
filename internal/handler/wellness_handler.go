package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
	"github.com/arturoeanton/campus-wellness-api/internal/service"
)

// WellnessHandler serves check-ins, questionnaires, pathways and streaks.
type WellnessHandler struct {
	checkins *service.CheckinService
	pathways *service.PathwayService
	streaks  *service.StreakService
}

// NewWellnessHandler creates a new wellness handler.
func NewWellnessHandler(checkins *service.CheckinService, pathways *service.PathwayService, streaks *service.StreakService) *WellnessHandler {
	return &WellnessHandler{checkins: checkins, pathways: pathways, streaks: streaks}
}

// Register sets up wellness routes.
func (h *WellnessHandler) Register(router fiber.Router) {
	checkins := router.Group("/wellness-checkins")
	checkins.Get("/", h.ListCheckins)
	checkins.Post("/", h.CreateCheckin)

	router.Get("/questionnaires/:type/interpret", h.Interpret)

	pathways := router.Group("/pathways")
	pathways.Get("/completed", h.CompletedPathways)
	pathways.Post("/complete", h.CompletePathway)

	streaks := router.Group("/streaks")
	streaks.Get("/", h.ListStreaks)
	streaks.Post("/:gameId", h.SecureStreak)
}

// CreateCheckin records a questionnaire result for the caller.
func (h *WellnessHandler) CreateCheckin(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	var req domain.CheckinRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	checkin, err := h.checkins.Create(c.Context(), p.UID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(checkin)
}

// ListCheckins returns the caller's check-ins, newest first.
func (h *WellnessHandler) ListCheckins(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	checkins, err := h.checkins.List(c.Context(), p.UID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(checkins)
}

// Interpret maps ?score= to a band of the named questionnaire.
func (h *WellnessHandler) Interpret(c fiber.Ctx) error {
	q, ok := domain.Questionnaires[c.Params("type")]
	if !ok {
		return writeError(c, port.ErrNotFound)
	}
	score, err := strconv.Atoi(c.Query("score"))
	if err != nil {
		return writeError(c, port.Invalid("score must be an integer"))
	}
	band, err := domain.Interpret(score, q.Bands)
	if err != nil {
		return writeError(c, port.Invalid(err.Error()))
	}
	return c.JSON(fiber.Map{
		"questionnaire":  q.ID,
		"score":          score,
		"level":          band.Level,
		"recommendation": band.Recommendation,
	})
}

// CompletedPathways returns the ids of pathways the caller has completed.
func (h *WellnessHandler) CompletedPathways(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	ids, err := h.pathways.ListCompleted(c.Context(), p.UID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ids)
}

// CompletePathway marks a pathway completed.
func (h *WellnessHandler) CompletePathway(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	var req domain.PathwayCompleteRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	if _, err := h.pathways.Complete(c.Context(), p.UID, req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Pathway marked as completed"})
}

// ListStreaks returns the caller's game streaks.
func (h *WellnessHandler) ListStreaks(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	streaks, err := h.streaks.List(c.Context(), p.UID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(streaks)
}

// SecureStreak records today's play of a game.
func (h *WellnessHandler) SecureStreak(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	update, err := h.streaks.Secure(c.Context(), p.UID, c.Params("gameId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(update)
}
