package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/middleware"
	"github.com/arturoeanton/campus-wellness-api/internal/service"
)

// BookingHandler handles counseling appointments and session history.
type BookingHandler struct {
	appointments *service.AppointmentService
	sessions     *service.SessionService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(appointments *service.AppointmentService, sessions *service.SessionService) *BookingHandler {
	return &BookingHandler{appointments: appointments, sessions: sessions}
}

// Register sets up booking routes.
func (h *BookingHandler) Register(router fiber.Router) {
	admin := middleware.RequireRoles(domain.RoleAdmin, domain.RoleSuperAdmin)

	appts := router.Group("/appointments")
	appts.Post("/", h.Book)
	appts.Get("/", h.ListMine)
	appts.Get("/all", admin, h.ListAll)
	appts.Put("/:id", admin, h.UpdateStatus)

	sessions := router.Group("/sessions")
	sessions.Get("/", h.ListSessions)
	sessions.Post("/", h.RecordSession)
}

// Book requests an appointment with a counselor.
func (h *BookingHandler) Book(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	var req domain.AppointmentRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	appt, err := h.appointments.Book(c.Context(), p.UID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Appointment booked successfully",
		"bookingId": appt.ID,
	})
}

// ListMine returns the caller's bookings.
func (h *BookingHandler) ListMine(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	appts, err := h.appointments.ListMine(c.Context(), p.UID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(appts)
}

// ListAll returns every booking.
func (h *BookingHandler) ListAll(c fiber.Ctx) error {
	appts, err := h.appointments.ListAll(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(appts)
}

// UpdateStatus confirms, cancels or completes a booking.
func (h *BookingHandler) UpdateStatus(c fiber.Ctx) error {
	var req domain.AppointmentStatusRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := h.appointments.UpdateStatus(c.Context(), c.Params("id"), req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Appointment updated successfully"})
}

// ListSessions returns the caller's counseling sessions.
func (h *BookingHandler) ListSessions(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	sessions, err := h.sessions.List(c.Context(), p.UID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sessions)
}

// RecordSession adds a session to the caller's history.
func (h *BookingHandler) RecordSession(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	var req domain.SessionRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	cs, err := h.sessions.Record(c.Context(), p.UID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"id": cs.ID, "message": "Session created"})
}
