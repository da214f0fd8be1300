package store

import (
	"context"
	"fmt"
	"time"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
)

// --- Counselor alerts ---

// CreateAlert stores a counselor alert and fills CreatedAt.
func (s *PostgresStore) CreateAlert(ctx context.Context, a *domain.CounselorAlert) error {
	query := `INSERT INTO counselor_alerts (id, user_id, reason) VALUES ($1, $2, $3) RETURNING created_at`
	if err := s.db.QueryRowContext(ctx, query, a.ID, a.UserID, a.Reason).Scan(&a.CreatedAt); err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

// ListAlerts returns the most recent alerts.
func (s *PostgresStore) ListAlerts(ctx context.Context, limit int) ([]domain.CounselorAlert, error) {
	query := `SELECT id, user_id, reason, created_at FROM counselor_alerts ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	alerts := []domain.CounselorAlert{}
	for rows.Next() {
		var a domain.CounselorAlert
		if err := rows.Scan(&a.ID, &a.UserID, &a.Reason, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// --- Audit Logs ---

// WriteAudit implements middleware.AuditWriter.
func (s *PostgresStore) WriteAudit(userID, action, resource, resourceID, details, ip, userAgent string) error {
	if details == "" {
		details = "{}"
	}
	query := `INSERT INTO audit_logs (user_id, action, resource, resource_id, details, ip, user_agent)
	          VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)`
	_, err := s.db.ExecContext(context.Background(), query,
		userID, action, resource, resourceID, details, ip, userAgent,
	)
	return err
}

// ListAuditLogs returns recent audit logs with an optional action filter.
func (s *PostgresStore) ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error) {
	query := `SELECT id, user_id, action, resource, resource_id, details, ip, user_agent, created_at
	          FROM audit_logs`
	args := []any{}
	argIdx := 1

	if action != "" {
		query += fmt.Sprintf(" WHERE action = $%d", argIdx)
		args = append(args, action)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.AuditLog{}
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.Action, &l.Resource, &l.ResourceID,
			&l.Details, &l.IP, &l.UserAgent, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// PruneBefore deletes audit logs and counselor alerts older than cutoff and
// returns how many rows of each were removed.
func (s *PostgresStore) PruneBefore(ctx context.Context, cutoff time.Time) (auditLogs, alerts int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin prune: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, 0, fmt.Errorf("prune audit logs: %w", err)
	}
	auditLogs, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx, `DELETE FROM counselor_alerts WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, 0, fmt.Errorf("prune alerts: %w", err)
	}
	alerts, _ = res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit prune: %w", err)
	}
	return auditLogs, alerts, nil
}
