package services

import (
	"errors"
	"fmt"
	"log"

	"couple-diary-system/models"

	"gorm.io/gorm"
)

var (
	ErrAlreadyPaired = errors.New("user already has a partner")
	ErrPartnerPaired = errors.New("that user already has a partner")
	ErrSelfPairing   = errors.New("cannot pair with yourself")
	ErrUnknownCode   = errors.New("unknown partner code")
	ErrNotPaired     = errors.New("user has no partner")
	ErrPairingBroken = errors.New("partner link is inconsistent")
)

type PartnerService struct {
	DB            *gorm.DB
	Notifications *NotificationService
	Gamification  *GamificationService
}

func NewPartnerService(db *gorm.DB, notifications *NotificationService, gamification *GamificationService) *PartnerService {
	return &PartnerService{DB: db, Notifications: notifications, Gamification: gamification}
}

// Connect pairs userID with the owner of code. Both PartnerID columns are
// written in one transaction so the link is symmetric or absent, never half-set.
func (s *PartnerService) Connect(userID, code string) (*models.User, error) {
	var partner models.User

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		if user.PartnerID != nil {
			return ErrAlreadyPaired
		}

		if err := tx.Where("partner_code = ?", code).First(&partner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownCode
			}
			return err
		}
		if partner.ID == user.ID {
			return ErrSelfPairing
		}
		if partner.PartnerID != nil {
			return ErrPartnerPaired
		}

		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("partner_id", partner.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", partner.ID).
			Update("partner_id", user.ID).Error
	})
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("%s connected with you 💞", user.Username)
	if _, err := s.Notifications.Create(userID, models.NotificationPartnerLinked,
		fmt.Sprintf("You are now connected with %s 💞", partner.Username), nil); err != nil {
		log.Printf("[PARTNER] failed to notify %s: %v", userID, err)
	}
	s.Notifications.NotifyPartner(userID, models.NotificationPartnerLinked, msg, nil)

	for _, id := range []string{user.ID, partner.ID} {
		if _, err := s.Gamification.CheckAchievements(id); err != nil {
			log.Printf("[PARTNER] achievement check failed for %s: %v", id, err)
		}
	}

	return &partner, nil
}

// Disconnect clears both sides of the pairing in one transaction.
func (s *PartnerService) Disconnect(userID string) error {
	var partnerID string

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		if user.PartnerID == nil {
			return ErrNotPaired
		}
		partnerID = *user.PartnerID

		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("partner_id", nil).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", partnerID).
			Update("partner_id", nil).Error
	})
	if err != nil {
		return err
	}

	if _, err := s.Notifications.Create(partnerID, models.NotificationPartnerUnlinked,
		"Your partner disconnected the pairing", nil); err != nil {
		log.Printf("[PARTNER] failed to notify %s: %v", partnerID, err)
	}
	return nil
}

// Partner resolves userID's partner and verifies the link is symmetric.
func (s *PartnerService) Partner(userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	if user.PartnerID == nil {
		return nil, ErrNotPaired
	}

	var partner models.User
	if err := s.DB.First(&partner, "id = ?", *user.PartnerID).Error; err != nil {
		return nil, err
	}
	if partner.PartnerID == nil || *partner.PartnerID != user.ID {
		return nil, ErrPairingBroken
	}
	return &partner, nil
}
