package port

import (
	"context"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
)

// RoleCheck inspects the current holders of a role before a role change commits.
// Returning an error aborts the change with no mutation.
type RoleCheck func(holders []domain.User) error

// UserDirectory reads and writes user records.
type UserDirectory interface {
	Get(ctx context.Context, uid string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, u *domain.User) (created bool, err error)
	Update(ctx context.Context, uid string, fields domain.UserUpdate) error

	// ChangeRole atomically re-reads the holders of role, runs check, and
	// writes the new role with the claim marked pending.
	ChangeRole(ctx context.Context, uid string, role domain.Role, check RoleCheck) error

	ListClaimSyncPending(ctx context.Context) ([]domain.User, error)
	MarkClaimSynced(ctx context.Context, uid string, role domain.Role) error
}

// PostStore persists forum posts and their reports.
type PostStore interface {
	CreatePost(ctx context.Context, p *domain.Post) error
	ListPosts(ctx context.Context) ([]domain.Post, error)
	DeletePost(ctx context.Context, id string) error
	AddReport(ctx context.Context, r *domain.Report) error
	ListReports(ctx context.Context, postID string) ([]domain.Report, error)
}

// CheckinStore persists wellness check-ins.
type CheckinStore interface {
	CreateCheckin(ctx context.Context, c *domain.WellnessCheckin) error
	ListCheckins(ctx context.Context, ownerUID string) ([]domain.WellnessCheckin, error)
}

// AppointmentStore persists counseling bookings.
type AppointmentStore interface {
	CreateAppointment(ctx context.Context, a *domain.Appointment) error
	ListAppointments(ctx context.Context, userID string) ([]domain.Appointment, error)
	ListAllAppointments(ctx context.Context) ([]domain.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id, status string) error
}

// SessionStore persists counseling session history.
type SessionStore interface {
	CreateSession(ctx context.Context, s *domain.CounselingSession) error
	ListSessions(ctx context.Context, userID string) ([]domain.CounselingSession, error)
}

// PathwayStore persists pathway completion.
type PathwayStore interface {
	CompletePathway(ctx context.Context, p *domain.PathwayProgress) error
	ListCompletedPathways(ctx context.Context, userID string) ([]domain.PathwayProgress, error)
}

// StreakStore persists per-game streaks.
type StreakStore interface {
	GetStreak(ctx context.Context, userID, gameID string) (*domain.StreakRecord, error)
	ListStreaks(ctx context.Context, userID string) ([]domain.StreakRecord, error)
	SaveStreak(ctx context.Context, s *domain.StreakRecord) error
}

// AlertStore persists counselor alerts.
type AlertStore interface {
	CreateAlert(ctx context.Context, a *domain.CounselorAlert) error
	ListAlerts(ctx context.Context, limit int) ([]domain.CounselorAlert, error)
}

// AuditStore persists and lists audit entries.
type AuditStore interface {
	WriteAudit(userID, action, resource, resourceID, details, ip, userAgent string) error
	ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error)
}
