package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

// CheckinService records questionnaire results.
type CheckinService struct {
	checkins port.CheckinStore
}

// NewCheckinService creates a new check-in service.
func NewCheckinService(checkins port.CheckinStore) *CheckinService {
	return &CheckinService{checkins: checkins}
}

// Create appends a check-in owned by uid. The date is set by the store.
func (s *CheckinService) Create(ctx context.Context, uid string, req domain.CheckinRequest) (*domain.WellnessCheckin, error) {
	c := &domain.WellnessCheckin{
		ID:        uuid.NewString(),
		OwnerUID:  uid,
		PHQ9Score: *req.PHQ9Score,
		GAD7Score: *req.GAD7Score,
	}
	if err := withLevels(c); err != nil {
		return nil, port.Invalid(err.Error())
	}
	if err := s.checkins.CreateCheckin(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns the caller's own check-ins, newest first.
func (s *CheckinService) List(ctx context.Context, uid string) ([]domain.WellnessCheckin, error) {
	checkins, err := s.checkins.ListCheckins(ctx, uid)
	if err != nil {
		return nil, err
	}
	for i := range checkins {
		_ = withLevels(&checkins[i])
	}
	return checkins, nil
}

func withLevels(c *domain.WellnessCheckin) error {
	phq, err := domain.Interpret(c.PHQ9Score, domain.PHQ9.Bands)
	if err != nil {
		return fmt.Errorf("phq9Score: %w", err)
	}
	gad, err := domain.Interpret(c.GAD7Score, domain.GAD7.Bands)
	if err != nil {
		return fmt.Errorf("gad7Score: %w", err)
	}
	c.PHQ9Level = phq.Level
	c.GAD7Level = gad.Level
	return nil
}

// PathwayService tracks completed wellness pathways.
type PathwayService struct {
	pathways port.PathwayStore
}

// NewPathwayService creates a new pathway service.
func NewPathwayService(pathways port.PathwayStore) *PathwayService {
	return &PathwayService{pathways: pathways}
}

// Complete marks a pathway completed for uid.
func (s *PathwayService) Complete(ctx context.Context, uid string, req domain.PathwayCompleteRequest) (*domain.PathwayProgress, error) {
	p := &domain.PathwayProgress{
		ID:        uuid.NewString(),
		UserID:    uid,
		PathwayID: req.PathwayID,
	}
	if err := s.pathways.CompletePathway(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListCompleted returns the ids of every pathway uid has completed.
func (s *PathwayService) ListCompleted(ctx context.Context, uid string) ([]string, error) {
	progress, err := s.pathways.ListCompletedPathways(ctx, uid)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(progress))
	for _, p := range progress {
		ids = append(ids, p.PathwayID)
	}
	return ids, nil
}

const dateLayout = "2006-01-02"

// StreakUpdate is the outcome of securing a day in a game.
type StreakUpdate struct {
	Streak        domain.StreakRecord  `json:"streak"`
	Reward        *domain.StreakReward `json:"reward,omitempty"`
	AlreadyPlayed bool                 `json:"alreadyPlayed"`
}

// StreakService owns daily game streaks. Days are UTC calendar days.
type StreakService struct {
	streaks port.StreakStore
	now     func() time.Time
}

// NewStreakService creates a new streak service.
func NewStreakService(streaks port.StreakStore) *StreakService {
	return &StreakService{streaks: streaks, now: time.Now}
}

// Secure records play for today. Playing yesterday extends the streak,
// playing today again is a no-op, any older gap restarts it at one.
func (s *StreakService) Secure(ctx context.Context, uid, gameID string) (*StreakUpdate, error) {
	if !slices.Contains(domain.Games, gameID) {
		return nil, port.Invalid("unknown game")
	}
	today, yesterday := s.days()

	rec, err := s.streaks.GetStreak(ctx, uid, gameID)
	switch {
	case err == nil:
	case isNotFound(err):
		rec = &domain.StreakRecord{UserID: uid, GameID: gameID}
	default:
		return nil, err
	}

	switch rec.LastPlayedDate {
	case today:
		return &StreakUpdate{Streak: *rec, AlreadyPlayed: true}, nil
	case yesterday:
		rec.CurrentStreak++
	default:
		rec.CurrentStreak = 1
	}
	rec.LastPlayedDate = today

	if err := s.streaks.SaveStreak(ctx, rec); err != nil {
		return nil, err
	}
	return &StreakUpdate{Streak: *rec, Reward: rewardFor(rec.CurrentStreak)}, nil
}

// List returns the caller's streaks. A streak whose last day is older than
// yesterday is reported as broken (zero).
func (s *StreakService) List(ctx context.Context, uid string) ([]domain.StreakRecord, error) {
	records, err := s.streaks.ListStreaks(ctx, uid)
	if err != nil {
		return nil, err
	}
	today, yesterday := s.days()
	for i := range records {
		if d := records[i].LastPlayedDate; d != today && d != yesterday {
			records[i].CurrentStreak = 0
		}
	}
	return records, nil
}

func (s *StreakService) days() (today, yesterday string) {
	now := s.now().UTC()
	return now.Format(dateLayout), now.AddDate(0, 0, -1).Format(dateLayout)
}

func rewardFor(days int) *domain.StreakReward {
	for _, r := range domain.StreakRewards {
		if r.Days == days {
			return &r
		}
	}
	return nil
}
