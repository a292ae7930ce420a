package models

import "time"

// Notification types produced by the services.
const (
	NotificationNewEncounter    = "new_encounter"
	NotificationNewComment      = "new_comment"
	NotificationNewMessage      = "new_message"
	NotificationNewRating       = "new_rating"
	NotificationProposal        = "proposal"
	NotificationProposalReply   = "proposal_reply"
	NotificationPartnerLinked   = "partner_connected"
	NotificationPartnerUnlinked = "partner_disconnected"
	NotificationLevelUp         = "level_up"
	NotificationAchievement     = "achievement"
	NotificationChallenge       = "challenge_complete"
	NotificationStreakReminder  = "streak_reminder"
)

// Notification is the durable in-app record. External delivery (Signal/SMS) is
// best-effort on top of it; rows are immutable except for the Read flag.
type Notification struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string  `gorm:"index;not null" json:"user_id"`
	Type        string  `gorm:"size:32;index;not null" json:"type"`
	Message     string  `gorm:"type:text;not null" json:"message"`
	Read        bool    `gorm:"default:false;index" json:"read"`
	EncounterID *string `json:"encounter_id,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
