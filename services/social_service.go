package services

import (
	"errors"
	"fmt"
	"log"

	"couple-diary-system/models"

	"gorm.io/gorm"
)

var ErrEmptyBody = errors.New("body must not be empty")

// SocialService covers comments on encounters and private partner messages.
type SocialService struct {
	DB            *gorm.DB
	Gamification  *GamificationService
	Notifications *NotificationService
}

func NewSocialService(db *gorm.DB, gamification *GamificationService, notifications *NotificationService) *SocialService {
	return &SocialService{DB: db, Gamification: gamification, Notifications: notifications}
}

// canAccessEncounter allows the owner and the owner's partner.
func (s *SocialService) canAccessEncounter(userID string, encounter *models.Encounter) bool {
	if encounter.UserID == userID {
		return true
	}
	var owner models.User
	if err := s.DB.First(&owner, "id = ?", encounter.UserID).Error; err != nil {
		return false
	}
	return owner.PartnerID != nil && *owner.PartnerID == userID
}

// AddComment posts a comment on an encounter the caller may read, awards
// comment points, and notifies the caller's partner.
func (s *SocialService) AddComment(userID, encounterID, body string) (*models.Comment, error) {
	if body == "" {
		return nil, ErrEmptyBody
	}

	var encounter models.Encounter
	if err := s.DB.First(&encounter, "id = ?", encounterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEncounterNotFound
		}
		return nil, err
	}
	if !s.canAccessEncounter(userID, &encounter) {
		return nil, ErrNoAccess
	}

	comment := models.Comment{
		EncounterID: encounterID,
		UserID:      userID,
		Body:        body,
	}
	if err := s.DB.Create(&comment).Error; err != nil {
		return nil, err
	}

	if _, err := s.Gamification.AwardPoints(userID, PointsCommentPosted, "comment_posted"); err != nil {
		log.Printf("[COMMENT] point award failed for %s: %v", userID, err)
	}
	if _, err := s.Gamification.CheckAchievements(userID); err != nil {
		log.Printf("[COMMENT] achievement check failed for %s: %v", userID, err)
	}

	s.Notifications.NotifyPartner(userID, models.NotificationNewComment,
		"Your partner commented on an encounter 💬", &encounterID)

	return &comment, nil
}

// Comments lists an encounter's comments, oldest first.
func (s *SocialService) Comments(userID, encounterID string) ([]models.Comment, error) {
	var encounter models.Encounter
	if err := s.DB.First(&encounter, "id = ?", encounterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEncounterNotFound
		}
		return nil, err
	}
	if !s.canAccessEncounter(userID, &encounter) {
		return nil, ErrNoAccess
	}

	var comments []models.Comment
	err := s.DB.Where("encounter_id = ?", encounterID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// SendMessage delivers a private message to the caller's partner.
func (s *SocialService) SendMessage(senderID, body string) (*models.Message, error) {
	if body == "" {
		return nil, ErrEmptyBody
	}

	var sender models.User
	if err := s.DB.First(&sender, "id = ?", senderID).Error; err != nil {
		return nil, err
	}
	if sender.PartnerID == nil {
		return nil, ErrNotPaired
	}

	message := models.Message{
		SenderID:    senderID,
		RecipientID: *sender.PartnerID,
		Body:        body,
	}
	if err := s.DB.Create(&message).Error; err != nil {
		return nil, err
	}

	s.Notifications.NotifyPartner(senderID, models.NotificationNewMessage,
		fmt.Sprintf("New message from %s 💌", sender.Username), nil)

	return &message, nil
}

// Thread returns the conversation between the caller and their partner,
// newest first.
func (s *SocialService) Thread(userID string, limit int) ([]models.Message, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var messages []models.Message
	err := s.DB.Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// MarkMessageRead flips the read flag on a message addressed to userID.
func (s *SocialService) MarkMessageRead(userID, messageID string) error {
	res := s.DB.Model(&models.Message{}).
		Where("id = ? AND recipient_id = ?", messageID, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UnreadMessages counts unread messages addressed to userID.
func (s *SocialService) UnreadMessages(userID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Message{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
