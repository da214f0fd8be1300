package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

// --- Check-ins ---

// CreateCheckin appends a check-in and fills its date.
func (s *PostgresStore) CreateCheckin(ctx context.Context, c *domain.WellnessCheckin) error {
	query := `INSERT INTO wellness_checkins (id, owner_uid, phq9_score, gad7_score)
	          VALUES ($1, $2, $3, $4)
	          RETURNING date`
	if err := s.db.QueryRowContext(ctx, query, c.ID, c.OwnerUID, c.PHQ9Score, c.GAD7Score).Scan(&c.Date); err != nil {
		return fmt.Errorf("create checkin: %w", err)
	}
	return nil
}

// ListCheckins returns the owner's check-ins, newest first.
func (s *PostgresStore) ListCheckins(ctx context.Context, ownerUID string) ([]domain.WellnessCheckin, error) {
	query := `SELECT id, owner_uid, phq9_score, gad7_score, date
	          FROM wellness_checkins WHERE owner_uid = $1 ORDER BY date DESC`

	rows, err := s.db.QueryContext(ctx, query, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("list checkins: %w", err)
	}
	defer rows.Close()

	checkins := []domain.WellnessCheckin{}
	for rows.Next() {
		var c domain.WellnessCheckin
		if err := rows.Scan(&c.ID, &c.OwnerUID, &c.PHQ9Score, &c.GAD7Score, &c.Date); err != nil {
			return nil, fmt.Errorf("scan checkin: %w", err)
		}
		checkins = append(checkins, c)
	}
	return checkins, rows.Err()
}

// --- Pathways ---

// CompletePathway marks a pathway completed. Repeating it refreshes the timestamp.
func (s *PostgresStore) CompletePathway(ctx context.Context, p *domain.PathwayProgress) error {
	query := `INSERT INTO pathway_progress (id, user_id, pathway_id, completed)
	          VALUES ($1, $2, $3, TRUE)
	          ON CONFLICT (user_id, pathway_id) DO UPDATE SET
	              completed = TRUE,
	              completed_at = NOW()
	          RETURNING id, completed, completed_at`
	err := s.db.QueryRowContext(ctx, query, p.ID, p.UserID, p.PathwayID).Scan(&p.ID, &p.Completed, &p.CompletedAt)
	if err != nil {
		return fmt.Errorf("complete pathway: %w", err)
	}
	return nil
}

// ListCompletedPathways returns the user's completed pathways.
func (s *PostgresStore) ListCompletedPathways(ctx context.Context, userID string) ([]domain.PathwayProgress, error) {
	query := `SELECT id, user_id, pathway_id, completed, completed_at
	          FROM pathway_progress WHERE user_id = $1 AND completed ORDER BY completed_at`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list pathways: %w", err)
	}
	defer rows.Close()

	progress := []domain.PathwayProgress{}
	for rows.Next() {
		var p domain.PathwayProgress
		if err := rows.Scan(&p.ID, &p.UserID, &p.PathwayID, &p.Completed, &p.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan pathway: %w", err)
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}

// --- Streaks ---

// GetStreak returns one game streak or port.ErrNotFound.
func (s *PostgresStore) GetStreak(ctx context.Context, userID, gameID string) (*domain.StreakRecord, error) {
	query := `SELECT user_id, game_id, current_streak, last_played_date, updated_at
	          FROM game_streaks WHERE user_id = $1 AND game_id = $2`

	var r domain.StreakRecord
	err := s.db.QueryRowContext(ctx, query, userID, gameID).Scan(
		&r.UserID, &r.GameID, &r.CurrentStreak, &r.LastPlayedDate, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get streak: %w", err)
	}
	return &r, nil
}

// ListStreaks returns every streak the user has started.
func (s *PostgresStore) ListStreaks(ctx context.Context, userID string) ([]domain.StreakRecord, error) {
	query := `SELECT user_id, game_id, current_streak, last_played_date, updated_at
	          FROM game_streaks WHERE user_id = $1 ORDER BY game_id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list streaks: %w", err)
	}
	defer rows.Close()

	streaks := []domain.StreakRecord{}
	for rows.Next() {
		var r domain.StreakRecord
		if err := rows.Scan(&r.UserID, &r.GameID, &r.CurrentStreak, &r.LastPlayedDate, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan streak: %w", err)
		}
		streaks = append(streaks, r)
	}
	return streaks, rows.Err()
}

// SaveStreak upserts a streak record.
func (s *PostgresStore) SaveStreak(ctx context.Context, r *domain.StreakRecord) error {
	query := `INSERT INTO game_streaks (user_id, game_id, current_streak, last_played_date)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id, game_id) DO UPDATE SET
	              current_streak = EXCLUDED.current_streak,
	              last_played_date = EXCLUDED.last_played_date,
	              updated_at = NOW()
	          RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query, r.UserID, r.GameID, r.CurrentStreak, r.LastPlayedDate).Scan(&r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}
