package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account holder. PartnerID is symmetric: if A.PartnerID points at B,
// B.PartnerID must point back at A (both sides are written in one transaction).
type User struct {
	ID           string  `gorm:"primaryKey;type:uuid" json:"id"`
	Username     string  `gorm:"uniqueIndex;not null" json:"username"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"not null" json:"-"`
	PartnerID    *string `gorm:"index" json:"partner_id,omitempty"`
	PartnerCode  string  `gorm:"uniqueIndex;not null" json:"partner_code"` // invite code shared with the partner

	PhoneNumber      string `json:"phone_number,omitempty"`
	SMSNotifications bool   `json:"sms_notifications" gorm:"default:false"`
	IsAdmin          bool   `json:"is_admin" gorm:"default:false"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
