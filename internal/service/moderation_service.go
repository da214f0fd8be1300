package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/metrics"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

// ModerationService owns the peer-support forum and its moderation gate.
type ModerationService struct {
	posts port.PostStore
	audit port.AuditStore
}

// NewModerationService creates a new forum service.
func NewModerationService(posts port.PostStore, audit port.AuditStore) *ModerationService {
	return &ModerationService{posts: posts, audit: audit}
}

// CreatePost stores an anonymous post. The author is never taken from the caller.
func (s *ModerationService) CreatePost(ctx context.Context, req domain.CreatePostRequest) (*domain.Post, error) {
	p := &domain.Post{
		ID:      uuid.NewString(),
		Author:  domain.AnonymousAuthor,
		Content: req.Content,
	}
	if err := s.posts.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPosts returns every post, newest first.
func (s *ModerationService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return s.posts.ListPosts(ctx)
}

// DeletePost removes a post. Only staff may delete.
func (s *ModerationService) DeletePost(ctx context.Context, actor *domain.Principal, postID string) error {
	if actor == nil || !actor.IsStaff() {
		return port.ErrForbidden
	}
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return err
	}

	slog.Info("post deleted", "post_id", postID, "actor", actor.UID)
	if err := s.audit.WriteAudit(actor.UID, domain.AuditActionPostDelete, "post", postID, "", "", ""); err != nil {
		slog.Warn("failed to write post delete audit", "error", err)
	}
	return nil
}

// ReportPost flags a post once per reporter.
func (s *ModerationService) ReportPost(ctx context.Context, actor *domain.Principal, postID string) error {
	if actor == nil {
		return port.ErrUnauthenticated
	}
	err := s.posts.AddReport(ctx, &domain.Report{PostID: postID, ReporterUID: actor.UID})
	switch {
	case err == nil:
		metrics.PostReports.WithLabelValues(metrics.ResultOK).Inc()
	case errors.Is(err, port.ErrAlreadyReported):
		metrics.PostReports.WithLabelValues(metrics.ResultRejected).Inc()
		return err
	default:
		metrics.PostReports.WithLabelValues(metrics.ResultError).Inc()
		return err
	}

	if err := s.audit.WriteAudit(actor.UID, domain.AuditActionPostReport, "post", postID, "", "", ""); err != nil {
		slog.Warn("failed to write post report audit", "error", err)
	}
	return nil
}

// ListReports returns the reports filed against a post. Staff only.
func (s *ModerationService) ListReports(ctx context.Context, actor *domain.Principal, postID string) ([]domain.Report, error) {
	if actor == nil || !actor.IsStaff() {
		return nil, port.ErrForbidden
	}
	return s.posts.ListReports(ctx, postID)
}
