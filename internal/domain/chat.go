package domain

import "time"

// ChatTurn is one message of a support chat. Never persisted server-side.
type ChatTurn struct {
	Role    string `json:"role"    validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"maxbytes"`
}

// SupportChatResult is the parsed support-chat completion.
type SupportChatResult struct {
	Response           string `json:"response"`
	ReferralSuggestion string `json:"referralSuggestion,omitempty"`
}

// ScoreSummary is the AI interpretation of a check-in.
type ScoreSummary struct {
	Summary string `json:"summary"`
}

// InteractionPatterns is anonymous behavioral metadata. It must never carry
// message content, post content or personal data.
type InteractionPatterns struct {
	RecentLoginTimes   []time.Time `json:"recentLoginTimes"   validate:"max=200"`
	ResourceAccessLog  []string    `json:"resourceAccessLog"  validate:"max=200,dive,max=64"`
	ForumActivityLevel string      `json:"forumActivityLevel" validate:"required,oneof=high normal low inactive"`
}

// InsightResult is the proactive pathway recommendation.
type InsightResult struct {
	RecommendedPathwayID string `json:"recommendedPathwayId,omitempty"`
	InsightRationale     string `json:"insightRationale"`
}

// RiskAssessment is the structured warm hand-off verdict.
type RiskAssessment struct {
	IsHighRisk           bool   `json:"isHighRisk"`
	CounselorAlertReason string `json:"counselorAlertReason"`
}

// ChatTurnResult joins the chat reply with the risk verdict. Risk is nil when
// the assessment failed; the reply is still delivered.
type ChatTurnResult struct {
	SupportChatResult
	Risk *RiskAssessment `json:"-"`
}

// CounselorAlert is raised when a chat turn is assessed as high risk.
// It stores the reason only, never the student's message.
type CounselorAlert struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Reason    string    `json:"reason"    db:"reason"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
