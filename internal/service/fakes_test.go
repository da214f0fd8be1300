package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

// memDirectory is an in-memory UserDirectory. ChangeRole holds the lock for
// the whole check-and-write, like the Postgres transaction does.
type memDirectory struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemDirectory(users ...domain.User) *memDirectory {
	d := &memDirectory{users: map[string]domain.User{}}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *memDirectory) Get(_ context.Context, uid string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[uid]
	if !ok {
		return nil, port.ErrNotFound
	}
	return &u, nil
}

func (d *memDirectory) List(_ context.Context) ([]domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *memDirectory) byRole(role domain.Role) []domain.User {
	out := []domain.User{}
	for _, u := range d.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}

func (d *memDirectory) Create(_ context.Context, u *domain.User) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[u.ID]; ok {
		return false, nil
	}
	d.users[u.ID] = *u
	return true, nil
}

func (d *memDirectory) Update(_ context.Context, uid string, fields domain.UserUpdate) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[uid]
	if !ok {
		return port.ErrNotFound
	}
	if fields.Name != nil {
		u.Name = *fields.Name
	}
	if fields.Email != nil {
		u.Email = *fields.Email
	}
	d.users[uid] = u
	return nil
}

func (d *memDirectory) ChangeRole(_ context.Context, uid string, role domain.Role, check port.RoleCheck) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[uid]
	if !ok {
		return port.ErrNotFound
	}
	if check != nil {
		if err := check(d.byRole(role)); err != nil {
			return err
		}
	}
	u.Role = role
	u.ClaimSyncPending = true
	d.users[uid] = u
	return nil
}

func (d *memDirectory) ListClaimSyncPending(_ context.Context) ([]domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []domain.User{}
	for _, u := range d.users {
		if u.ClaimSyncPending {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *memDirectory) MarkClaimSynced(_ context.Context, uid string, role domain.Role) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if u, ok := d.users[uid]; ok && u.Role == role {
		u.ClaimSyncPending = false
		d.users[uid] = u
	}
	return nil
}

// memIdentity records role claims and can be told to fail.
type memIdentity struct {
	mu       sync.Mutex
	claims   map[string]domain.Role
	failures int // remaining SetRoleClaim calls that fail
	calls    int
}

func newMemIdentity() *memIdentity {
	return &memIdentity{claims: map[string]domain.Role{}}
}

func (m *memIdentity) Verify(context.Context, string) (domain.Identity, error) {
	return domain.Identity{}, port.ErrTokenInvalid
}

func (m *memIdentity) SetRoleClaim(_ context.Context, uid string, role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return errors.New("claim store unavailable")
	}
	m.claims[uid] = role
	return nil
}

func (m *memIdentity) claim(uid string) (domain.Role, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.claims[uid]
	return r, ok
}

// memAudit collects audit actions.
type memAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *memAudit) WriteAudit(_, action, _, _, _, _, _ string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	return nil
}

func (a *memAudit) ListAuditLogs(context.Context, int, string) ([]domain.AuditLog, error) {
	return nil, nil
}

func (a *memAudit) has(action string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, got := range a.actions {
		if got == action {
			return true
		}
	}
	return false
}

// stubProvider answers completions through function fields.
type stubProvider struct {
	complete     func(ctx context.Context, system, prompt string) (string, error)
	completeJSON func(ctx context.Context, system, prompt string, schema json.RawMessage, out any) error
}

func (p *stubProvider) ModelName() string { return "stub" }

func (p *stubProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	return p.complete(ctx, system, prompt)
}

func (p *stubProvider) CompleteJSON(ctx context.Context, system, prompt string, schema json.RawMessage, out any) error {
	return p.completeJSON(ctx, system, prompt, schema, out)
}

// verdictJSON returns a CompleteJSON stub that decodes body into out.
func verdictJSON(body string) func(context.Context, string, string, json.RawMessage, any) error {
	return func(_ context.Context, _, _ string, _ json.RawMessage, out any) error {
		return json.Unmarshal([]byte(body), out)
	}
}

// memAlerts stores counselor alerts.
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

func (m *memAlerts) ListAlerts(_ context.Context, _ int) ([]domain.CounselorAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CounselorAlert(nil), m.alerts...), nil
}

func (m *memAlerts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.alerts)
}

// memPosts is an in-memory PostStore keyed like the post_reports primary key.
type memPosts struct {
	mu      sync.Mutex
	posts   map[string]domain.Post
	reports map[[2]string]domain.Report
}

func newMemPosts(posts ...domain.Post) *memPosts {
	m := &memPosts{posts: map[string]domain.Post{}, reports: map[[2]string]domain.Report{}}
	for _, p := range posts {
		m.posts[p.ID] = p
	}
	return m
}

func (m *memPosts) CreatePost(_ context.Context, p *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt = time.Now()
	m.posts[p.ID] = *p
	return nil
}

func (m *memPosts) ListPosts(_ context.Context) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memPosts) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return port.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *memPosts) AddReport(_ context.Context, r *domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[r.PostID]; !ok {
		return port.ErrNotFound
	}
	key := [2]string{r.PostID, r.ReporterUID}
	if _, ok := m.reports[key]; ok {
		return port.ErrAlreadyReported
	}
	r.ReportedAt = time.Now()
	m.reports[key] = *r
	return nil
}

func (m *memPosts) ListReports(_ context.Context, postID string) ([]domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Report{}
	for k, r := range m.reports {
		if k[0] == postID {
			out = append(out, r)
		}
	}
	return out, nil
}

// memStreaks is an in-memory StreakStore.
type memStreaks struct {
	records map[[2]string]domain.StreakRecord
}

func newMemStreaks() *memStreaks {
	return &memStreaks{records: map[[2]string]domain.StreakRecord{}}
}

func (m *memStreaks) GetStreak(_ context.Context, userID, gameID string) (*domain.StreakRecord, error) {
	r, ok := m.records[[2]string{userID, gameID}]
	if !ok {
		return nil, port.ErrNotFound
	}
	return &r, nil
}

func (m *memStreaks) ListStreaks(_ context.Context, userID string) ([]domain.StreakRecord, error) {
	out := []domain.StreakRecord{}
	for k, r := range m.records {
		if k[0] == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out, nil
}

func (m *memStreaks) SaveStreak(_ context.Context, r *domain.StreakRecord) error {
	r.UpdatedAt = time.Now()
	m.records[[2]string{r.UserID, r.GameID}] = *r
	return nil
}

// memCheckins is an in-memory CheckinStore.
type memCheckins struct {
	checkins []domain.WellnessCheckin
}

func (m *memCheckins) CreateCheckin(_ context.Context, c *domain.WellnessCheckin) error {
	c.Date = time.Now().UTC()
	m.checkins = append(m.checkins, *c)
	return nil
}

func (m *memCheckins) ListCheckins(_ context.Context, ownerUID string) ([]domain.WellnessCheckin, error) {
	out := []domain.WellnessCheckin{}
	for _, c := range m.checkins {
		if c.OwnerUID == ownerUID {
			out = append(out, c)
		}
	}
	return out, nil
}
