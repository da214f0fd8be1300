package middleware

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

type fakeIdentity struct {
	mu     sync.Mutex
	tokens map[string]domain.Identity
	calls  int
}

func (f *fakeIdentity) Verify(_ context.Context, token string) (domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	id, ok := f.tokens[token]
	if !ok {
		return domain.Identity{}, port.ErrTokenInvalid
	}
	return id, nil
}

func (f *fakeIdentity) SetRoleClaim(context.Context, string, domain.Role) error { return nil }

func newTestApp(idp port.IdentityProvider) *fiber.App {
	app := fiber.New()
	api := app.Group("/api", Authenticate(idp))
	api.Get("/me", func(c fiber.Ctx) error {
		return c.JSON(GetPrincipal(c))
	})
	api.Get("/staff", RequireRoles(domain.RoleModerator, domain.RoleAdmin), func(c fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAuthenticate(t *testing.T) {
	idp := &fakeIdentity{tokens: map[string]domain.Identity{
		"good": {UID: "u1", Role: domain.RoleStudent},
		"mod":  {UID: "m1", Role: domain.RoleModerator},
	}}
	app := newTestApp(idp)

	tests := []struct {
		name     string
		header   string
		accept   string
		path     string
		status   int
		verified bool
	}{
		{"no header", "", "", "/api/me", fiber.StatusUnauthorized, false},
		{"basic scheme", "Basic Z29vZA==", "", "/api/me", fiber.StatusUnauthorized, false},
		{"empty bearer", "Bearer ", "", "/api/me", fiber.StatusUnauthorized, false},
		{"bad token", "Bearer nope", "", "/api/me", fiber.StatusUnauthorized, true},
		{"valid", "Bearer good", "", "/api/me", fiber.StatusOK, true},
		{"lowercase scheme", "bearer good", "", "/api/me", fiber.StatusOK, true},
		{"student at staff route", "Bearer good", "", "/api/staff", fiber.StatusForbidden, true},
		{"moderator at staff route", "Bearer mod", "", "/api/staff", fiber.StatusOK, true},
		{"query token without event stream", "", "", "/api/me?token=good", fiber.StatusUnauthorized, false},
		{"query token on event stream", "", "text/event-stream", "/api/me?token=good", fiber.StatusOK, true},
		{"header wins over query", "Bearer mod", "text/event-stream", "/api/staff?token=good", fiber.StatusOK, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idp.calls = 0
			req := httptest.NewRequest(fiber.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			if tt.accept != "" {
				req.Header.Set(fiber.HeaderAccept, tt.accept)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.verified, idp.calls > 0)
		})
	}
}
