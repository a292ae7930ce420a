package models

import "time"

// UserStats is the per-user gamification singleton (one row per user, lazily
// created). Mutated only by the gamification service.
type UserStats struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	TotalPoints int64 `json:"total_points" gorm:"default:0"`
	Level       int   `json:"level" gorm:"default:1"` // floor(points/100)+1

	CurrentStreak     int        `json:"current_streak" gorm:"default:0"`
	LongestStreak     int        `json:"longest_streak" gorm:"default:0"`
	LastEncounterDate *time.Time `json:"last_encounter_date,omitempty"` // date precision
	TotalEncounters   int64      `json:"total_encounters" gorm:"default:0"`

	Timestamps
}

// Achievement tiers and their point values.
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// TierPoints maps a tier to the points awarded on unlock.
var TierPoints = map[string]int64{
	TierBronze:   10,
	TierSilver:   25,
	TierGold:     50,
	TierPlatinum: 100,
}

// Achievement criteria kinds evaluated by the gamification service.
const (
	CriteriaTotalEncounters  = "total_encounters"
	CriteriaStreak           = "streak"
	CriteriaDistinctPosition = "distinct_positions"
	CriteriaSinglePosition   = "single_position_count"
	CriteriaFiveStarsGiven   = "five_star_ratings_given"
	CriteriaComments         = "comments_authored"
	CriteriaNightWindow      = "encounters_00_06"
	CriteriaMorningWindow    = "encounters_06_12"
	CriteriaWeekend          = "weekend_encounters"
	CriteriaWeekday          = "weekday_encounters"
	CriteriaPartnerLinked    = "partner_connected"
	CriteriaPartnerRatings   = "partner_ratings_received"
	CriteriaCustomPosition   = "custom_position_used"
)

// Achievement: static catalog entry (seeded from AchievementCatalog at startup).
type Achievement struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Code        string `gorm:"uniqueIndex;not null" json:"code"` // e.g., "milestone_10"
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Tier        string `gorm:"size:16;default:'bronze'" json:"tier"`
	IconURL     string `gorm:"type:text" json:"icon_url,omitempty"`

	CriteriaType  string `gorm:"size:32;not null" json:"criteria_type"`
	CriteriaValue int64  `gorm:"not null" json:"criteria_value"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// UserAchievement: unlock record, write-once. The composite unique index keeps
// concurrent evaluations from double-unlocking the same achievement.
type UserAchievement struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string    `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID string    `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at" gorm:"autoCreateTime"`
}

// AchievementCatalog is the fixed rule table the evaluator walks after every
// qualifying event.
var AchievementCatalog = []Achievement{
	{Code: "first_time", Name: "First Time", Description: "Logged your first encounter", Tier: TierBronze, CriteriaType: CriteriaTotalEncounters, CriteriaValue: 1},
	{Code: "milestone_10", Name: "Double Digits", Description: "Logged 10 encounters", Tier: TierBronze, CriteriaType: CriteriaTotalEncounters, CriteriaValue: 10},
	{Code: "milestone_25", Name: "Quarter Century", Description: "Logged 25 encounters", Tier: TierSilver, CriteriaType: CriteriaTotalEncounters, CriteriaValue: 25},
	{Code: "milestone_50", Name: "Half Hundred", Description: "Logged 50 encounters", Tier: TierSilver, CriteriaType: CriteriaTotalEncounters, CriteriaValue: 50},
	{Code: "milestone_100", Name: "Centurion", Description: "Logged 100 encounters", Tier: TierGold, CriteriaType: CriteriaTotalEncounters, CriteriaValue: 100},
	{Code: "milestone_365", Name: "A Full Year", Description: "Logged 365 encounters", Tier: TierPlatinum, CriteriaType: CriteriaTotalEncounters, CriteriaValue: 365},

	{Code: "streak_3", Name: "Warming Up", Description: "3-day streak", Tier: TierBronze, CriteriaType: CriteriaStreak, CriteriaValue: 3},
	{Code: "streak_7", Name: "Full Week", Description: "7-day streak", Tier: TierSilver, CriteriaType: CriteriaStreak, CriteriaValue: 7},
	{Code: "streak_30", Name: "Monthly Devotion", Description: "30-day streak", Tier: TierGold, CriteriaType: CriteriaStreak, CriteriaValue: 30},
	{Code: "streak_100", Name: "Unstoppable", Description: "100-day streak", Tier: TierPlatinum, CriteriaType: CriteriaStreak, CriteriaValue: 100},

	{Code: "explorer_5", Name: "Explorer", Description: "Tried 5 different positions", Tier: TierSilver, CriteriaType: CriteriaDistinctPosition, CriteriaValue: 5},
	{Code: "explorer_9", Name: "Completionist", Description: "Tried 9 different positions", Tier: TierGold, CriteriaType: CriteriaDistinctPosition, CriteriaValue: 9},
	{Code: "favorite_position", Name: "Creature of Habit", Description: "Used the same position 10 times", Tier: TierBronze, CriteriaType: CriteriaSinglePosition, CriteriaValue: 10},
	{Code: "freestyle", Name: "Freestyle", Description: "Logged a custom position", Tier: TierBronze, CriteriaType: CriteriaCustomPosition, CriteriaValue: 1},

	{Code: "generous_rater", Name: "Generous Rater", Description: "Gave 10 five-star ratings", Tier: TierSilver, CriteriaType: CriteriaFiveStarsGiven, CriteriaValue: 10},
	{Code: "conversationalist", Name: "Conversationalist", Description: "Wrote 20 comments", Tier: TierSilver, CriteriaType: CriteriaComments, CriteriaValue: 20},

	{Code: "night_owl", Name: "Night Owl", Description: "10 encounters between midnight and 6am", Tier: TierSilver, CriteriaType: CriteriaNightWindow, CriteriaValue: 10},
	{Code: "early_bird", Name: "Early Bird", Description: "10 encounters between 6am and noon", Tier: TierSilver, CriteriaType: CriteriaMorningWindow, CriteriaValue: 10},
	{Code: "weekend_warrior", Name: "Weekend Warrior", Description: "20 weekend encounters", Tier: TierSilver, CriteriaType: CriteriaWeekend, CriteriaValue: 20},
	{Code: "weekday_regular", Name: "Weekday Regular", Description: "20 weekday encounters", Tier: TierSilver, CriteriaType: CriteriaWeekday, CriteriaValue: 20},

	{Code: "better_together", Name: "Better Together", Description: "Connected with your partner", Tier: TierBronze, CriteriaType: CriteriaPartnerLinked, CriteriaValue: 1},
	{Code: "well_rated", Name: "Well Rated", Description: "Received 10 ratings from your partner", Tier: TierGold, CriteriaType: CriteriaPartnerRatings, CriteriaValue: 10},
}
