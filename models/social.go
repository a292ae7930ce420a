package models

// Comment is a partner's (or the owner's) remark on an encounter.
type Comment struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	EncounterID string `gorm:"index;not null" json:"encounter_id"`
	UserID      string `gorm:"index;not null" json:"user_id"`
	Body        string `gorm:"type:text;not null" json:"body"`
	Timestamps
}

// Message is a private message between paired users.
type Message struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	SenderID    string `gorm:"index;not null" json:"sender_id"`
	RecipientID string `gorm:"index;not null" json:"recipient_id"`
	Body        string `gorm:"type:text;not null" json:"body"`
	Read        bool   `gorm:"default:false;index" json:"read"`
	Timestamps
}
