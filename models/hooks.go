package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BeforeCreate hooks assign IDs client-side so inserts behave the same on
// backends without a uuid column default.

func (u *User) BeforeCreate(*gorm.DB) error              { u.ID = ensureID(u.ID); return nil }
func (e *Encounter) BeforeCreate(*gorm.DB) error         { e.ID = ensureID(e.ID); return nil }
func (r *EncounterRating) BeforeCreate(*gorm.DB) error   { r.ID = ensureID(r.ID); return nil }
func (p *ProposedEncounter) BeforeCreate(*gorm.DB) error { p.ID = ensureID(p.ID); return nil }
func (c *Comment) BeforeCreate(*gorm.DB) error           { c.ID = ensureID(c.ID); return nil }
func (m *Message) BeforeCreate(*gorm.DB) error           { m.ID = ensureID(m.ID); return nil }
func (n *Notification) BeforeCreate(*gorm.DB) error      { n.ID = ensureID(n.ID); return nil }
func (s *UserStats) BeforeCreate(*gorm.DB) error         { s.ID = ensureID(s.ID); return nil }
func (a *Achievement) BeforeCreate(*gorm.DB) error       { a.ID = ensureID(a.ID); return nil }
func (ua *UserAchievement) BeforeCreate(*gorm.DB) error  { ua.ID = ensureID(ua.ID); return nil }
func (c *Challenge) BeforeCreate(*gorm.DB) error         { c.ID = ensureID(c.ID); return nil }
func (uc *UserChallenge) BeforeCreate(*gorm.DB) error    { uc.ID = ensureID(uc.ID); return nil }
func (pi *PositionIcon) BeforeCreate(*gorm.DB) error     { pi.ID = ensureID(pi.ID); return nil }

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
