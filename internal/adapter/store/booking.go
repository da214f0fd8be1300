package store

import (
	"context"
	"fmt"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
)

const appointmentColumns = `id, user_id, counselor_id, date, time, reason, status, created_at`

// CreateAppointment inserts a booking request.
func (s *PostgresStore) CreateAppointment(ctx context.Context, a *domain.Appointment) error {
	query := `INSERT INTO appointments (id, user_id, counselor_id, date, time, reason, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at`
	err := s.db.QueryRowContext(ctx, query,
		a.ID, a.UserID, a.CounselorID, a.Date, a.Time, a.Reason, a.Status,
	).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// ListAppointments returns the bookings of one student.
func (s *PostgresStore) ListAppointments(ctx context.Context, userID string) ([]domain.Appointment, error) {
	return s.queryAppointments(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// ListAllAppointments returns every booking.
func (s *PostgresStore) ListAllAppointments(ctx context.Context) ([]domain.Appointment, error) {
	return s.queryAppointments(ctx, `SELECT `+appointmentColumns+` FROM appointments ORDER BY created_at DESC`)
}

// UpdateAppointmentStatus sets the status of one booking.
func (s *PostgresStore) UpdateAppointmentStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE appointments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return requireOneRow(res, "update appointment")
}

func (s *PostgresStore) queryAppointments(ctx context.Context, query string, args ...any) ([]domain.Appointment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	appts := []domain.Appointment{}
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.CounselorID, &a.Date, &a.Time, &a.Reason, &a.Status, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

// CreateSession records a counseling session.
func (s *PostgresStore) CreateSession(ctx context.Context, cs *domain.CounselingSession) error {
	query := `INSERT INTO counseling_sessions (id, user_id, counselor_name, date, status)
	          VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.db.ExecContext(ctx, query, cs.ID, cs.UserID, cs.CounselorName, cs.Date, cs.Status); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// ListSessions returns a student's session history, newest first.
func (s *PostgresStore) ListSessions(ctx context.Context, userID string) ([]domain.CounselingSession, error) {
	query := `SELECT id, user_id, counselor_name, date, status
	          FROM counseling_sessions WHERE user_id = $1 ORDER BY date DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.CounselingSession{}
	for rows.Next() {
		var cs domain.CounselingSession
		if err := rows.Scan(&cs.ID, &cs.UserID, &cs.CounselorName, &cs.Date, &cs.Status); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, cs)
	}
	return sessions, rows.Err()
}
