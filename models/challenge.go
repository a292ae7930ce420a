package models

import "time"

// Challenge criteria kinds (evaluated against the active week only).
const (
	ChallengeWeeklyCount     = "weekly_count"
	ChallengeWeeklyPositions = "weekly_positions"
	ChallengeKeepStreak      = "keep_streak"
)

// Challenge is a catalog entry for a weekly goal. Points are awarded once on
// completion.
type Challenge struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Code        string `gorm:"uniqueIndex;not null" json:"code"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	CriteriaType  string `gorm:"size:32;not null" json:"criteria_type"`
	CriteriaValue int64  `gorm:"not null" json:"criteria_value"`
	Points        int64  `gorm:"not null;default:25" json:"points"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// UserChallenge tracks one user's progress against a challenge for one week.
// WeekStart is the Monday (UTC, date precision) of the week the challenge is
// active; the unique index keeps one row per user/challenge/week.
type UserChallenge struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string    `gorm:"not null;uniqueIndex:idx_user_challenge_week" json:"user_id"`
	ChallengeID string    `gorm:"not null;uniqueIndex:idx_user_challenge_week" json:"challenge_id"`
	WeekStart   time.Time `gorm:"not null;uniqueIndex:idx_user_challenge_week" json:"week_start"`

	Progress    int64      `gorm:"default:0" json:"progress"`
	Completed   bool       `gorm:"default:false;index" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Timestamps
}

// ChallengeCatalog seeds the challenges table at startup.
var ChallengeCatalog = []Challenge{
	{Code: "weekly_3", Name: "Three's Company", Description: "Log 3 encounters this week", CriteriaType: ChallengeWeeklyCount, CriteriaValue: 3, Points: 25},
	{Code: "weekly_5", Name: "High Five", Description: "Log 5 encounters this week", CriteriaType: ChallengeWeeklyCount, CriteriaValue: 5, Points: 50},
	{Code: "variety_week", Name: "Mix It Up", Description: "Use 3 different positions this week", CriteriaType: ChallengeWeeklyPositions, CriteriaValue: 3, Points: 50},
	{Code: "keep_it_going", Name: "Keep It Going", Description: "Hold a 7-day streak through the week", CriteriaType: ChallengeKeepStreak, CriteriaValue: 7, Points: 75},
}
