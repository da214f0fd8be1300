package handler

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemUsers(users ...domain.User) *memUsers {
	m := &memUsers{users: map[string]domain.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) Get(_ context.Context, uid string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, port.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) List(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) byRole(role domain.Role) []domain.User {
	out := []domain.User{}
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}

func (m *memUsers) Create(_ context.Context, u *domain.User) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; ok {
		return false, nil
	}
	m.users[u.ID] = *u
	return true, nil
}

func (m *memUsers) Update(_ context.Context, uid string, f domain.UserUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return port.ErrNotFound
	}
	if f.Name != nil {
		u.Name = *f.Name
	}
	if f.Email != nil {
		u.Email = *f.Email
	}
	m.users[uid] = u
	return nil
}

func (m *memUsers) ChangeRole(_ context.Context, uid string, role domain.Role, check port.RoleCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return port.ErrNotFound
	}
	if err := check(m.byRole(role)); err != nil {
		return err
	}
	u.Role = role
	u.ClaimSyncPending = true
	m.users[uid] = u
	return nil
}

func (m *memUsers) ListClaimSyncPending(context.Context) ([]domain.User, error) { return nil, nil }

func (m *memUsers) MarkClaimSynced(_ context.Context, uid string, role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[uid]; ok && u.Role == role {
		u.ClaimSyncPending = false
		m.users[uid] = u
	}
	return nil
}

// tokenIdentity treats the bearer token as "<uid>" and looks the role up
// in the claims map, like the Redis-backed verifier.
type tokenIdentity struct {
	mu     sync.Mutex
	claims map[string]domain.Role
}

func (t *tokenIdentity) Verify(_ context.Context, token string) (domain.Identity, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	role, ok := t.claims[token]
	if !ok {
		return domain.Identity{}, port.ErrTokenInvalid
	}
	return domain.Identity{UID: token, Role: role}, nil
}

func (t *tokenIdentity) SetRoleClaim(_ context.Context, uid string, role domain.Role) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.claims[uid] = role
	return nil
}

type nopAudit struct{}

func (nopAudit) WriteAudit(_, _, _, _, _, _, _ string) error { return nil }

func (nopAudit) ListAuditLogs(context.Context, int, string) ([]domain.AuditLog, error) {
	return []domain.AuditLog{}, nil
}

type memPosts struct {
	mu      sync.Mutex
	posts   []domain.Post
	reports map[[2]string]bool
}

func (m *memPosts) CreatePost(_ context.Context, p *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt = time.Now()
	m.posts = append([]domain.Post{*p}, m.posts...)
	return nil
}

func (m *memPosts) ListPosts(context.Context) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Post{}, m.posts...), nil
}

func (m *memPosts) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.posts {
		if p.ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return port.ErrNotFound
}

func (m *memPosts) AddReport(_ context.Context, r *domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{r.PostID, r.ReporterUID}
	if m.reports[key] {
		return port.ErrAlreadyReported
	}
	m.reports[key] = true
	return nil
}

func (m *memPosts) ListReports(_ context.Context, postID string) ([]domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Report{}
	for k := range m.reports {
		if k[0] == postID {
			out = append(out, domain.Report{PostID: k[0], ReporterUID: k[1]})
		}
	}
	return out, nil
}

type memCheckins struct {
	mu       sync.Mutex
	checkins []domain.WellnessCheckin
}

func (m *memCheckins) CreateCheckin(_ context.Context, c *domain.WellnessCheckin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.Date = time.Now().UTC()
	m.checkins = append(m.checkins, *c)
	return nil
}

func (m *memCheckins) ListCheckins(_ context.Context, uid string) ([]domain.WellnessCheckin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.WellnessCheckin{}
	for _, c := range m.checkins {
		if c.OwnerUID == uid {
			out = append(out, c)
		}
	}
	return out, nil
}

type memAlerts struct {
	mu     sync.Mutex
	alerts []domain.CounselorAlert
}

func (m *memAlerts) CreateAlert(_ context.Context, a *domain.CounselorAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, *a)
	return nil
}

func (m *memAlerts) ListAlerts(context.Context, int) ([]domain.CounselorAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CounselorAlert{}, m.alerts...), nil
}

// scriptedAI returns fixed completions.
type scriptedAI struct {
	text    string
	verdict string
	err     error
}

func (s *scriptedAI) ModelName() string { return "scripted" }

func (s *scriptedAI) Complete(context.Context, string, string) (string, error) {
	return s.text, s.err
}

func (s *scriptedAI) CompleteJSON(_ context.Context, _, _ string, _ json.RawMessage, out any) error {
	if s.verdict == "" {
		return port.ErrAIService
	}
	return json.Unmarshal([]byte(s.verdict), out)
}

// memBookings backs both appointments and session history.
type memBookings struct {
	mu       sync.Mutex
	appts    []domain.Appointment
	sessions []domain.CounselingSession
}

func (m *memBookings) CreateAppointment(_ context.Context, a *domain.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.CreatedAt = time.Now()
	m.appts = append(m.appts, *a)
	return nil
}

func (m *memBookings) ListAppointments(_ context.Context, userID string) ([]domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Appointment{}
	for _, a := range m.appts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memBookings) ListAllAppointments(context.Context) ([]domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Appointment{}, m.appts...), nil
}

func (m *memBookings) UpdateAppointmentStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.appts {
		if m.appts[i].ID == id {
			m.appts[i].Status = status
			return nil
		}
	}
	return port.ErrNotFound
}

func (m *memBookings) CreateSession(_ context.Context, s *domain.CounselingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, *s)
	return nil
}

func (m *memBookings) ListSessions(_ context.Context, userID string) ([]domain.CounselingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.CounselingSession{}
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type memPathways struct {
	mu       sync.Mutex
	progress []domain.PathwayProgress
}

func (m *memPathways) CompletePathway(_ context.Context, p *domain.PathwayProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Completed = true
	p.CompletedAt = time.Now()
	m.progress = append(m.progress, *p)
	return nil
}

func (m *memPathways) ListCompletedPathways(_ context.Context, userID string) ([]domain.PathwayProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.PathwayProgress{}
	for _, p := range m.progress {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memStreaks struct {
	mu      sync.Mutex
	streaks map[[2]string]domain.StreakRecord
}

func (m *memStreaks) GetStreak(_ context.Context, userID, gameID string) (*domain.StreakRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.streaks[[2]string{userID, gameID}]
	if !ok {
		return nil, port.ErrNotFound
	}
	return &rec, nil
}

func (m *memStreaks) ListStreaks(_ context.Context, userID string) ([]domain.StreakRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.StreakRecord{}
	for k, rec := range m.streaks {
		if k[0] == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memStreaks) SaveStreak(_ context.Context, s *domain.StreakRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UpdatedAt = time.Now()
	m.streaks[[2]string{s.UserID, s.GameID}] = *s
	return nil
}
