package services

import (
	"fmt"
	"log"
	"time"

	"couple-diary-system/models"

	"gorm.io/gorm"
)

type ChallengeService struct {
	DB            *gorm.DB
	Gamification  *GamificationService
	Notifications *NotificationService
}

func NewChallengeService(db *gorm.DB, gamification *GamificationService, notifications *NotificationService) *ChallengeService {
	return &ChallengeService{DB: db, Gamification: gamification, Notifications: notifications}
}

// WeekStart returns the Monday (UTC, date precision) of t's week.
func WeekStart(t time.Time) time.Time {
	day := DateOnly(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// ensureWeek lazily creates this week's UserChallenge rows for the user.
func (s *ChallengeService) ensureWeek(userID string, weekStart time.Time) ([]models.UserChallenge, error) {
	var catalog []models.Challenge
	if err := s.DB.Find(&catalog).Error; err != nil {
		return nil, err
	}

	for _, c := range catalog {
		entry := models.UserChallenge{
			UserID:      userID,
			ChallengeID: c.ID,
			WeekStart:   weekStart,
		}
		if err := s.DB.Where("user_id = ? AND challenge_id = ? AND week_start = ?",
			userID, c.ID, weekStart).FirstOrCreate(&entry).Error; err != nil {
			return nil, err
		}
	}

	var active []models.UserChallenge
	err := s.DB.Where("user_id = ? AND week_start = ?", userID, weekStart).Find(&active).Error
	return active, err
}

// RecordEncounter recomputes this week's challenge progress after a new
// encounter. Completion awards the challenge's points exactly once.
func (s *ChallengeService) RecordEncounter(userID string, encounter *models.Encounter) error {
	weekStart := WeekStart(encounter.Date)
	weekEnd := weekStart.AddDate(0, 0, 7)

	active, err := s.ensureWeek(userID, weekStart)
	if err != nil {
		return err
	}

	var weekCount int64
	if err := s.DB.Model(&models.Encounter{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, weekStart, weekEnd).
		Count(&weekCount).Error; err != nil {
		return err
	}

	var weekPositions int64
	if err := s.DB.Model(&models.Encounter{}).
		Distinct("position").
		Where("user_id = ? AND date >= ? AND date < ?", userID, weekStart, weekEnd).
		Count(&weekPositions).Error; err != nil {
		return err
	}

	stats, err := s.Gamification.EnsureStats(userID)
	if err != nil {
		return err
	}

	for i := range active {
		uc := &active[i]
		if uc.Completed {
			continue
		}

		var challenge models.Challenge
		if err := s.DB.First(&challenge, "id = ?", uc.ChallengeID).Error; err != nil {
			return err
		}

		switch challenge.CriteriaType {
		case models.ChallengeWeeklyCount:
			uc.Progress = weekCount
		case models.ChallengeWeeklyPositions:
			uc.Progress = weekPositions
		case models.ChallengeKeepStreak:
			uc.Progress = int64(stats.CurrentStreak)
		}

		if uc.Progress >= challenge.CriteriaValue {
			now := time.Now()
			uc.Completed = true
			uc.CompletedAt = &now
		}
		if err := s.DB.Save(uc).Error; err != nil {
			return err
		}

		if uc.Completed {
			if _, err := s.Gamification.AwardPoints(userID, challenge.Points, "challenge_"+challenge.Code); err != nil {
				log.Printf("[CHALLENGE] point award failed for %s: %v", userID, err)
			}
			n := models.Notification{
				UserID:  userID,
				Type:    models.NotificationChallenge,
				Message: fmt.Sprintf("Challenge complete: %s (+%d points)", challenge.Name, challenge.Points),
			}
			if err := s.DB.Create(&n).Error; err != nil {
				log.Printf("[CHALLENGE] notification failed for %s: %v", userID, err)
			}
			log.Printf("🏆 Challenge complete: %s → %s", challenge.Code, userID)
		}
	}

	return nil
}

// ChallengeProgress is the API view of one active challenge.
type ChallengeProgress struct {
	models.Challenge
	Progress    int64      `json:"progress"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ActiveWeek returns the caller's challenge list for the current week.
func (s *ChallengeService) ActiveWeek(userID string) ([]ChallengeProgress, error) {
	weekStart := WeekStart(time.Now())
	active, err := s.ensureWeek(userID, weekStart)
	if err != nil {
		return nil, err
	}

	out := make([]ChallengeProgress, 0, len(active))
	for _, uc := range active {
		var challenge models.Challenge
		if err := s.DB.First(&challenge, "id = ?", uc.ChallengeID).Error; err != nil {
			return nil, err
		}
		out = append(out, ChallengeProgress{
			Challenge:   challenge,
			Progress:    uc.Progress,
			Completed:   uc.Completed,
			CompletedAt: uc.CompletedAt,
		})
	}
	return out, nil
}
