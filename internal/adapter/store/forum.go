package store

import (
	"context"
	"fmt"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

// CreatePost inserts a post and fills CreatedAt.
func (s *PostgresStore) CreatePost(ctx context.Context, p *domain.Post) error {
	query := `INSERT INTO posts (id, author, content) VALUES ($1, $2, $3) RETURNING created_at`
	if err := s.db.QueryRowContext(ctx, query, p.ID, p.Author, p.Content).Scan(&p.CreatedAt); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// ListPosts returns every post, newest first.
func (s *PostgresStore) ListPosts(ctx context.Context) ([]domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, author, content, created_at FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Author, &p.Content, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// DeletePost removes a post. Its reports cascade.
func (s *PostgresStore) DeletePost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return requireOneRow(res, "delete post")
}

// AddReport records a report. A repeat by the same reporter is rejected.
func (s *PostgresStore) AddReport(ctx context.Context, r *domain.Report) error {
	query := `INSERT INTO post_reports (post_id, reporter_uid)
	          VALUES ($1, $2)
	          ON CONFLICT (post_id, reporter_uid) DO NOTHING`

	res, err := s.db.ExecContext(ctx, query, r.PostID, r.ReporterUID)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return port.ErrNotFound
		}
		return fmt.Errorf("add report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add report: %w", err)
	}
	if n == 0 {
		return port.ErrAlreadyReported
	}
	return nil
}

// ListReports returns the reports filed against a post.
func (s *PostgresStore) ListReports(ctx context.Context, postID string) ([]domain.Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT post_id, reporter_uid, reported_at FROM post_reports WHERE post_id = $1 ORDER BY reported_at`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		var r domain.Report
		if err := rows.Scan(&r.PostID, &r.ReporterUID, &r.ReportedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
