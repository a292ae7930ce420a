package services

import (
	"errors"
	"log"

	"couple-diary-system/models"

	"gorm.io/gorm"
)

type NotificationService struct {
	DB         *gorm.DB
	Dispatcher *Dispatcher
}

func NewNotificationService(db *gorm.DB, dispatcher *Dispatcher) *NotificationService {
	return &NotificationService{DB: db, Dispatcher: dispatcher}
}

// Create writes the durable in-app notification row.
func (s *NotificationService) Create(userID, notifType, message string, encounterID *string) (*models.Notification, error) {
	n := models.Notification{
		UserID:      userID,
		Type:        notifType,
		Message:     message,
		EncounterID: encounterID,
	}
	if err := s.DB.Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// NotifyPartner records an in-app notification for userID's partner and then
// attempts external delivery if the partner opted in. The in-app write always
// happens first; a failed external send is logged and swallowed, so the
// enclosing request never fails because of it.
func (s *NotificationService) NotifyPartner(userID, notifType, message string, encounterID *string) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil || user.PartnerID == nil {
		return
	}

	var partner models.User
	if err := s.DB.First(&partner, "id = ?", *user.PartnerID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[NOTIFY] failed to load partner of %s: %v", userID, err)
		}
		return
	}

	if _, err := s.Create(partner.ID, notifType, message, encounterID); err != nil {
		log.Printf("[NOTIFY] failed to create in-app notification for %s: %v", partner.ID, err)
		return
	}

	if !partner.SMSNotifications || partner.PhoneNumber == "" {
		log.Printf("[NOTIFY] external notifications disabled for %s", partner.Username)
		return
	}

	outcome := s.Dispatcher.Deliver(partner.PhoneNumber, message)
	if outcome.Delivered {
		log.Printf("✅ [NOTIFY] partner %s notified via %s", partner.Username, outcome.Channel)
	} else {
		log.Printf("⚠️ [NOTIFY] failed to notify partner %s: %s", partner.Username, outcome.Err)
	}
}

// List returns the recipient's notifications, newest first.
func (s *NotificationService) List(userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	q := s.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var notifications []models.Notification
	err := q.Find(&notifications).Error
	return notifications, err
}

// MarkRead flips the read flag on one notification owned by userID.
func (s *NotificationService) MarkRead(userID, notificationID string) error {
	res := s.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead flips every unread notification for userID.
func (s *NotificationService) MarkAllRead(userID string) (int64, error) {
	res := s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

// UnreadCount returns the number of unread notifications for userID.
func (s *NotificationService) UnreadCount(userID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
