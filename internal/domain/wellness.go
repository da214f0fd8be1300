package domain

import "time"

// WellnessCheckin is an append-only questionnaire result owned by one user.
type WellnessCheckin struct {
	ID        string    `json:"id"        db:"id"`
	OwnerUID  string    `json:"-"         db:"owner_uid"`
	PHQ9Score int       `json:"phq9Score" db:"phq9_score"`
	GAD7Score int       `json:"gad7Score" db:"gad7_score"`
	PHQ9Level string    `json:"phq9Level,omitempty"`
	GAD7Level string    `json:"gad7Level,omitempty"`
	Date      time.Time `json:"date"      db:"date"`
}

// PathwayProgress marks a wellness pathway as completed by a user.
type PathwayProgress struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"userId"      db:"user_id"`
	PathwayID   string    `json:"pathwayId"   db:"pathway_id"`
	Completed   bool      `json:"completed"   db:"completed"`
	CompletedAt time.Time `json:"completedAt" db:"completed_at"`
}

// StreakRecord is a server-owned daily streak for one mindful game.
type StreakRecord struct {
	UserID         string    `json:"-"              db:"user_id"`
	GameID         string    `json:"gameId"         db:"game_id"`
	CurrentStreak  int       `json:"currentStreak"  db:"current_streak"`
	LastPlayedDate string    `json:"lastPlayedDate" db:"last_played_date"` // YYYY-MM-DD, UTC
	UpdatedAt      time.Time `json:"updatedAt"      db:"updated_at"`
}

// StreakReward is earned on the exact day a streak reaches Days.
type StreakReward struct {
	Days  int    `json:"days"`
	Title string `json:"title"`
}

// StreakRewards are checked after every secured day.
var StreakRewards = []StreakReward{
	{Days: 366, Title: "Celestial"},
	{Days: 201, Title: "Mindful Master"},
	{Days: 101, Title: "Grove Keeper"},
	{Days: 61, Title: "Zenith"},
	{Days: 31, Title: "Sun Chaser"},
	{Days: 16, Title: "Flourisher"},
	{Days: 8, Title: "Seedling"},
	{Days: 2, Title: "Sprout"},
}

// Games lists the mindful games that track streaks.
var Games = []string{"breathe-and-bloom", "gratitude-stone", "zen-flow"}
