package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

// Session messages returned by POST /api/auth/session.
const (
	SessionCreated  = "User profile created successfully"
	SessionVerified = "Session verified"
)

// AuthService bootstraps the directory profile of an authenticated caller.
type AuthService struct {
	users   port.UserDirectory
	userSvc *UserService
	audit   port.AuditStore
}

// NewAuthService creates a new session service.
func NewAuthService(users port.UserDirectory, userSvc *UserService, audit port.AuditStore) *AuthService {
	return &AuthService{users: users, userSvc: userSvc, audit: audit}
}

// EnsureSession creates a Student profile on the caller's first session and
// sets the matching role claim. Later calls only verify.
func (s *AuthService) EnsureSession(ctx context.Context, p *domain.Principal, ip, userAgent string) (string, error) {
	name := p.Name
	if name == "" {
		name = domain.AnonymousAuthor
	}

	created, err := s.users.Create(ctx, &domain.User{
		ID:               p.UID,
		Name:             name,
		Email:            p.Email,
		Role:             domain.RoleStudent,
		ClaimSyncPending: true,
	})
	if err != nil {
		return "", fmt.Errorf("create profile: %w", err)
	}

	message := SessionVerified
	if created {
		message = SessionCreated
		slog.Info("user profile created", "uid", p.UID)
		if err := s.userSvc.propagateClaim(ctx, p.UID, domain.RoleStudent); err != nil {
			slog.Warn("initial role claim left pending", "uid", p.UID, "error", err)
		}
	}

	if err := s.audit.WriteAudit(p.UID, domain.AuditActionSession, "user", p.UID, fmt.Sprintf(`{"created":%t}`, created), ip, userAgent); err != nil {
		slog.Warn("failed to write session audit", "error", err)
	}
	return message, nil
}
