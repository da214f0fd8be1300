package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/metrics"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

// UserService is the single entry point that mutates roles.
type UserService struct {
	users      port.UserDirectory
	identity   port.IdentityProvider
	audit      port.AuditStore
	policy     *RolePolicy
	claimTries uint
	newBackOff func() backoff.BackOff
}

// NewUserService creates the user service. claimTries bounds each claim propagation attempt.
func NewUserService(users port.UserDirectory, identity port.IdentityProvider, audit port.AuditStore, policy *RolePolicy, claimTries uint) *UserService {
	if claimTries == 0 {
		claimTries = 1
	}
	return &UserService{
		users:      users,
		identity:   identity,
		audit:      audit,
		policy:     policy,
		claimTries: claimTries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
}

// List returns every user record.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Get returns one user record.
func (s *UserService) Get(ctx context.Context, uid string) (*domain.User, error) {
	return s.users.Get(ctx, uid)
}

// UpdateProfile changes the caller's own name or email.
func (s *UserService) UpdateProfile(ctx context.Context, uid string, req domain.ProfileUpdateRequest) (*domain.User, error) {
	if err := s.users.Update(ctx, uid, domain.UserUpdate{Name: req.Name, Email: req.Email}); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, uid)
}

// ChangeRole assigns newRole to targetUID on behalf of actor.
//
// The directory write and the cap check commit together; the claim store is
// updated afterwards. A failed claim update leaves the record marked pending
// for the reconciler and does not fail the call.
func (s *UserService) ChangeRole(ctx context.Context, actor *domain.Principal, targetUID, newRole string) error {
	if actor == nil || actor.Role != domain.RoleSuperAdmin {
		return port.ErrForbidden
	}
	role, ok := domain.ParseRole(newRole)
	if !ok {
		return port.Invalid("Invalid role specified")
	}

	err := s.users.ChangeRole(ctx, targetUID, role, func(holders []domain.User) error {
		return s.policy.Check(targetUID, role, holders)
	})
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, port.ErrPolicyViolation) {
			result = metrics.ResultRejected
		}
		metrics.RoleChanges.WithLabelValues(string(role), result).Inc()
		return err
	}
	metrics.RoleChanges.WithLabelValues(string(role), metrics.ResultOK).Inc()
	slog.Info("role changed", "actor", actor.UID, "target", targetUID, "role", role)

	if err := s.propagateClaim(ctx, targetUID, role); err != nil {
		slog.Warn("role claim left pending", "uid", targetUID, "role", role, "error", err)
	}

	details, _ := json.Marshal(map[string]string{"newRole": string(role)})
	if err := s.audit.WriteAudit(actor.UID, domain.AuditActionRoleChange, "user", targetUID, string(details), "", ""); err != nil {
		slog.Warn("failed to write role change audit", "error", err)
	}
	return nil
}

// BootstrapSuperAdmin creates uid if needed and gives it the Super Admin
// role without an acting principal. It is meant for first-run setup and is
// still bound by the single Super Admin cap.
func (s *UserService) BootstrapSuperAdmin(ctx context.Context, uid, name, email string) error {
	if uid == "" {
		return port.Invalid("uid is required")
	}
	if _, err := s.users.Create(ctx, &domain.User{ID: uid, Name: name, Email: email, Role: domain.RoleStudent}); err != nil {
		return err
	}

	role := domain.RoleSuperAdmin
	err := s.users.ChangeRole(ctx, uid, role, func(holders []domain.User) error {
		return s.policy.Check(uid, role, holders)
	})
	if err != nil {
		return err
	}
	slog.Info("super admin bootstrapped", "uid", uid)

	if err := s.propagateClaim(ctx, uid, role); err != nil {
		slog.Warn("role claim left pending", "uid", uid, "role", role, "error", err)
	}
	details, _ := json.Marshal(map[string]string{"newRole": string(role), "source": "bootstrap"})
	if err := s.audit.WriteAudit(uid, domain.AuditActionRoleChange, "user", uid, string(details), "", ""); err != nil {
		slog.Warn("failed to write role change audit", "error", err)
	}
	return nil
}

// SyncPendingClaims re-propagates every claim still marked pending and
// returns how many were confirmed.
func (s *UserService) SyncPendingClaims(ctx context.Context) (int, error) {
	pending, err := s.users.ListClaimSyncPending(ctx)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, u := range pending {
		if err := s.propagateClaim(ctx, u.ID, u.Role); err != nil {
			slog.Warn("claim sync retry failed", "uid", u.ID, "role", u.Role, "error", err)
			continue
		}
		synced++
	}
	return synced, nil
}

func (s *UserService) propagateClaim(ctx context.Context, uid string, role domain.Role) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, s.identity.SetRoleClaim(ctx, uid, role)
	}, backoff.WithBackOff(s.newBackOff()), backoff.WithMaxTries(s.claimTries))
	if err != nil {
		metrics.ClaimSyncFailures.Inc()
		return err
	}
	return s.users.MarkClaimSynced(ctx, uid, role)
}
