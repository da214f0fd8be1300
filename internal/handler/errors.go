package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/middleware"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

const genericError = "Something went wrong!"

// validatable is implemented by every request body in internal/domain.
type validatable interface {
	Validate() error
}

// bindJSON decodes and validates a request body. The returned error is
// already classified for writeError.
func bindJSON(c fiber.Ctx, v validatable) error {
	if err := c.Bind().JSON(v); err != nil {
		return port.Invalid("Invalid request body")
	}
	return v.Validate()
}

// writeError maps a service error to its status. Unclassified errors are
// logged and answered with a generic message.
func writeError(c fiber.Ctx, err error) error {
	var reqErr *domain.RequestError
	switch {
	case errors.As(err, &reqErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": reqErr.Error()})
	case errors.Is(err, port.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	case errors.Is(err, port.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden: Insufficient permissions"})
	case errors.Is(err, port.ErrAlreadyReported):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Already reported"})
	case errors.Is(err, port.ErrInvalidArgument), errors.Is(err, port.ErrPolicyViolation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, port.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	}

	slog.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericError})
}

// ErrorHandler is the Fiber fallback for errors returned by handlers and
// middleware (including recovered panics).
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return writeError(c, err)
}

func principal(c fiber.Ctx) (*domain.Principal, error) {
	p := middleware.GetPrincipal(c)
	if p == nil {
		return nil, port.ErrUnauthenticated
	}
	return p, nil
}
