package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

const userColumns = `id, name, email, role, claim_sync_pending, created_at, updated_at`

// roleChangeLock serializes every role mutation across connections.
const roleChangeLock = `SELECT pg_advisory_xact_lock(hashtext('users.role'))`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.ClaimSyncPending, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func queryUsers(ctx context.Context, q queryer, query string, args ...any) ([]domain.User, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Get retrieves a user by ID.
func (s *PostgresStore) Get(ctx context.Context, uid string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// List returns every user, oldest first.
func (s *PostgresStore) List(ctx context.Context) ([]domain.User, error) {
	return queryUsers(ctx, s.db, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
}

// roleHolders returns the current holders of role as seen by q.
func roleHolders(ctx context.Context, q queryer, role domain.Role) ([]domain.User, error) {
	return queryUsers(ctx, q, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at`, string(role))
}

// Create inserts u unless a record with the same ID exists.
func (s *PostgresStore) Create(ctx context.Context, u *domain.User) (bool, error) {
	query := `INSERT INTO users (id, name, email, role, claim_sync_pending)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (id) DO NOTHING`

	res, err := s.db.ExecContext(ctx, query, u.ID, u.Name, u.Email, string(u.Role), u.ClaimSyncPending)
	if err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	return n == 1, nil
}

// Update changes profile fields. The role is never touched here.
func (s *PostgresStore) Update(ctx context.Context, uid string, fields domain.UserUpdate) error {
	sets := []string{}
	args := []any{}
	argIdx := 1

	if fields.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *fields.Name)
		argIdx++
	}
	if fields.Email != nil {
		sets = append(sets, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *fields.Email)
		argIdx++
	}
	if len(sets) == 0 {
		_, err := s.Get(ctx, uid)
		return err
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), argIdx)
	args = append(args, uid)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireOneRow(res, "update user")
}

// ChangeRole runs the role check and the write in one transaction under a
// global advisory lock, so two concurrent promotions cannot both pass a cap.
func (s *PostgresStore) ChangeRole(ctx context.Context, uid string, role domain.Role, check port.RoleCheck) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin role change: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, roleChangeLock); err != nil {
		return fmt.Errorf("lock roles: %w", err)
	}

	var current string
	err = tx.QueryRowContext(ctx, `SELECT role FROM users WHERE id = $1 FOR UPDATE`, uid).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return port.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	holders, err := roleHolders(ctx, tx, role)
	if err != nil {
		return err
	}
	if check != nil {
		if err := check(holders); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET role = $1, claim_sync_pending = TRUE, updated_at = NOW() WHERE id = $2`,
		string(role), uid,
	); err != nil {
		return fmt.Errorf("write role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit role change: %w", err)
	}
	return nil
}

// ListClaimSyncPending returns users whose role claim has not been confirmed.
func (s *PostgresStore) ListClaimSyncPending(ctx context.Context) ([]domain.User, error) {
	return queryUsers(ctx, s.db, `SELECT `+userColumns+` FROM users WHERE claim_sync_pending ORDER BY updated_at`)
}

// MarkClaimSynced clears the pending flag only if the role is still the one
// that was propagated.
func (s *PostgresStore) MarkClaimSynced(ctx context.Context, uid string, role domain.Role) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET claim_sync_pending = FALSE WHERE id = $1 AND role = $2`,
		uid, string(role),
	)
	if err != nil {
		return fmt.Errorf("mark claim synced: %w", err)
	}
	return nil
}

func requireOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return port.ErrNotFound
	}
	return nil
}
