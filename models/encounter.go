package models

import "time"

// Encounter is one logged event, owned by exactly one user.
type Encounter struct {
	ID     string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string    `gorm:"index;not null" json:"user_id"`
	Date   time.Time `gorm:"not null;index" json:"date"` // date precision, time kept in TimeOfDay

	TimeOfDay       *string `json:"time_of_day,omitempty"` // "HH:MM", optional
	Position        string  `gorm:"not null;default:'other'" json:"position"`
	CustomPosition  string  `json:"custom_position,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Notes           string  `gorm:"type:text" json:"notes,omitempty"`
	Rating          *int    `json:"rating,omitempty"` // logger's own 1-5 rating

	Timestamps
}

// EncounterRating is a per-rater rating row, decoupled from Encounter so both
// partners can rate the same encounter independently. The composite unique
// index is the storage-level guarantee of at most one row per (encounter, rater).
type EncounterRating struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	EncounterID string `gorm:"not null;uniqueIndex:idx_encounter_rater" json:"encounter_id"`
	UserID      string `gorm:"not null;uniqueIndex:idx_encounter_rater" json:"user_id"`
	Rating      int    `gorm:"not null" json:"rating"` // 1-5
	Comment     string `gorm:"type:text" json:"comment,omitempty"`
	Timestamps
}

// Proposal lifecycle states.
const (
	ProposalPending  = "pending"
	ProposalAccepted = "accepted"
	ProposalDeclined = "declined"
)

// ProposedEncounter is an invitation from one partner to the other.
// Accepting it materializes a real Encounter.
type ProposedEncounter struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	ProposerID  string    `gorm:"index;not null" json:"proposer_id"`
	RecipientID string    `gorm:"index;not null" json:"recipient_id"`
	Date        time.Time `gorm:"not null" json:"date"`
	Position    string    `gorm:"not null;default:'other'" json:"position"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`

	Status      string     `gorm:"not null;default:'pending';index" json:"status"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`

	Timestamps
}
