package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

// AppointmentService handles counseling bookings.
type AppointmentService struct {
	appts port.AppointmentStore
}

// NewAppointmentService creates a new booking service.
func NewAppointmentService(appts port.AppointmentStore) *AppointmentService {
	return &AppointmentService{appts: appts}
}

// Book creates a pending appointment for uid.
func (s *AppointmentService) Book(ctx context.Context, uid string, req domain.AppointmentRequest) (*domain.Appointment, error) {
	a := &domain.Appointment{
		ID:          uuid.NewString(),
		UserID:      uid,
		CounselorID: req.CounselorID,
		Date:        req.Date,
		Time:        req.Time,
		Reason:      req.Reason,
		Status:      domain.AppointmentPending,
	}
	if err := s.appts.CreateAppointment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListMine returns the caller's bookings.
func (s *AppointmentService) ListMine(ctx context.Context, uid string) ([]domain.Appointment, error) {
	return s.appts.ListAppointments(ctx, uid)
}

// ListAll returns every booking.
func (s *AppointmentService) ListAll(ctx context.Context) ([]domain.Appointment, error) {
	return s.appts.ListAllAppointments(ctx)
}

// UpdateStatus moves a booking to a new status.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, req domain.AppointmentStatusRequest) error {
	return s.appts.UpdateAppointmentStatus(ctx, id, req.Status)
}

// SessionService keeps counseling session history.
type SessionService struct {
	sessions port.SessionStore
}

// NewSessionService creates a new session history service.
func NewSessionService(sessions port.SessionStore) *SessionService {
	return &SessionService{sessions: sessions}
}

// Record stores a session for uid. Status defaults to scheduled.
func (s *SessionService) Record(ctx context.Context, uid string, req domain.SessionRequest) (*domain.CounselingSession, error) {
	status := req.Status
	if status == "" {
		status = "scheduled"
	}
	cs := &domain.CounselingSession{
		ID:            uuid.NewString(),
		UserID:        uid,
		CounselorName: req.CounselorName,
		Date:          req.Date.UTC(),
		Status:        status,
	}
	if err := s.sessions.CreateSession(ctx, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// List returns the caller's sessions, newest first.
func (s *SessionService) List(ctx context.Context, uid string) ([]domain.CounselingSession, error) {
	return s.sessions.ListSessions(ctx, uid)
}

func isNotFound(err error) bool {
	return errors.Is(err, port.ErrNotFound)
}
