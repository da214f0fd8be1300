package port

import (
	"context"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
)

// IdentityProvider abstracts credential verification and the role claim store.
type IdentityProvider interface {
	// Verify validates a bearer credential and returns the identity it proves.
	Verify(ctx context.Context, token string) (domain.Identity, error)

	// SetRoleClaim records the role so later verifications reflect it.
	SetRoleClaim(ctx context.Context, uid string, role domain.Role) error
}
