package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

const principalKey = "principal"

// Authenticate verifies the bearer credential and injects a *domain.Principal
// into Fiber locals. A missing or malformed header is rejected before the
// identity provider is called. EventSource clients cannot set headers, so a
// request accepting text/event-stream may pass the token as ?token=.
func Authenticate(idp port.IdentityProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok && strings.Contains(c.Get(fiber.HeaderAccept), "text/event-stream") {
			token = c.Query("token")
			ok = token != ""
		}
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized: No token provided",
			})
		}

		id, err := idp.Verify(c.Context(), token)
		if err != nil {
			if !errors.Is(err, port.ErrTokenExpired) && !errors.Is(err, port.ErrTokenInvalid) {
				slog.Warn("credential verification failed", "error", err)
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized: Invalid token",
			})
		}

		c.Locals(principalKey, &domain.Principal{
			UID:   id.UID,
			Role:  id.Role,
			Name:  id.Name,
			Email: id.Email,
		})
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetPrincipal extracts the authenticated caller from Fiber locals.
func GetPrincipal(c fiber.Ctx) *domain.Principal {
	p, ok := c.Locals(principalKey).(*domain.Principal)
	if !ok {
		return nil
	}
	return p
}

// RequireRoles admits only principals holding one of roles.
func RequireRoles(roles ...domain.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		if !p.Role.In(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Insufficient permissions",
			})
		}
		return c.Next()
	}
}
