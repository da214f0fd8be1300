package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/middleware"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
	"github.com/arturoeanton/campus-wellness-api/internal/service"
)

const (
	streamMaxDuration = 30 * time.Minute
	streamHeartbeat   = 25 * time.Second
)

// AlertHandler serves counselor alerts raised by the risk assessment.
type AlertHandler struct {
	alerts port.AlertStore
	bus    *service.AlertBus
}

// NewAlertHandler creates a new counselor alert handler.
func NewAlertHandler(alerts port.AlertStore, bus *service.AlertBus) *AlertHandler {
	return &AlertHandler{alerts: alerts, bus: bus}
}

// Register sets up counselor alert routes.
func (h *AlertHandler) Register(router fiber.Router) {
	alerts := router.Group("/counselor-alerts", middleware.RequireRoles(domain.RoleAdmin, domain.RoleSuperAdmin))
	alerts.Get("/", h.List)
	alerts.Get("/stream", h.Stream)
}

// List returns recent alerts, newest first.
func (h *AlertHandler) List(c fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}
	alerts, err := h.alerts.ListAlerts(c.Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(alerts)
}

// Stream pushes new alerts via Server-Sent Events.
func (h *AlertHandler) Stream(c fiber.Ctx) error {
	ch := h.bus.Subscribe()

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer h.bus.Unsubscribe(ch)

		fmt.Fprint(w, "event: ready\ndata: {}\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		heartbeat := time.NewTicker(streamHeartbeat)
		defer heartbeat.Stop()
		timeout := time.After(streamMaxDuration)

		for {
			select {
			case alert, ok := <-ch:
				if !ok {
					return
				}
				data, _ := json.Marshal(alert)
				fmt.Fprintf(w, "event: alert\ndata: %s\n\n", data)
			case <-heartbeat.C:
				fmt.Fprint(w, ": keep-alive\n\n")
			case <-timeout:
				fmt.Fprint(w, "event: timeout\ndata: {}\n\n")
				_ = w.Flush()
				return
			}
			// A failed flush means the client went away.
			if err := w.Flush(); err != nil {
				slog.Debug("alert stream closed", "error", err)
				return
			}
		}
	})
}
