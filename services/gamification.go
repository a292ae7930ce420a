package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"couple-diary-system/models"

	"gorm.io/gorm"
)

// PointsPerLevel: level = floor(points / PointsPerLevel) + 1
const PointsPerLevel = 100

// Base point awards for qualifying events.
const (
	PointsEncounterLogged = 10
	PointsRatingGiven     = 5
	PointsCommentPosted   = 2
)

func levelForPoints(points int64) int {
	return int(points/PointsPerLevel) + 1
}

// DateOnly truncates t to date precision in UTC. Streak arithmetic always
// works on these values.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type GamificationService struct {
	DB *gorm.DB
}

func NewGamificationService(db *gorm.DB) *GamificationService {
	return &GamificationService{DB: db}
}

// SeedCatalogs loads the static achievement and challenge tables into the DB
// (idempotent, matched by code).
func (s *GamificationService) SeedCatalogs() error {
	for _, a := range models.AchievementCatalog {
		entry := a
		if err := s.DB.Where("code = ?", entry.Code).FirstOrCreate(&entry).Error; err != nil {
			return fmt.Errorf("failed to seed achievement %s: %w", entry.Code, err)
		}
	}
	for _, c := range models.ChallengeCatalog {
		entry := c
		if err := s.DB.Where("code = ?", entry.Code).FirstOrCreate(&entry).Error; err != nil {
			return fmt.Errorf("failed to seed challenge %s: %w", entry.Code, err)
		}
	}
	return nil
}

// EnsureStats ensures a UserStats row exists (idempotent)
func (s *GamificationService) EnsureStats(userID string) (*models.UserStats, error) {
	return ensureStats(s.DB, userID)
}

func ensureStats(db *gorm.DB, userID string) (*models.UserStats, error) {
	var stats models.UserStats
	err := db.Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = models.UserStats{UserID: userID, Level: 1}
		if err := db.Create(&stats).Error; err != nil {
			return nil, err
		}
		return &stats, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// AwardPoints adds amount to the user's total and recomputes the level. It is
// an accumulator, not idempotent: callers invoke it once per qualifying event.
// A level increase emits a level-up notification inside the same transaction.
func (s *GamificationService) AwardPoints(userID string, amount int64, reason string) (*models.UserStats, error) {
	var updated *models.UserStats
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		stats, err := ensureStats(tx, userID)
		if err != nil {
			return err
		}

		oldLevel := stats.Level
		stats.TotalPoints += amount
		stats.Level = levelForPoints(stats.TotalPoints)

		if err := tx.Save(stats).Error; err != nil {
			return err
		}

		if stats.Level > oldLevel {
			n := models.Notification{
				UserID:  userID,
				Type:    models.NotificationLevelUp,
				Message: fmt.Sprintf("Level up! You reached level %d 🎉", stats.Level),
			}
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
		}

		updated = stats
		log.Printf("🎮 Points awarded: %s → +%d (total=%d, level=%d, reason: %s)",
			userID, amount, stats.TotalPoints, stats.Level, reason)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateStreak folds one encounter date into the user's streak counters.
// Same-day entries leave the streak alone, a next-day entry extends it, and
// any other gap resets it to 1, including backdated entries. TotalEncounters
// and LastEncounterDate are always updated.
func (s *GamificationService) UpdateStreak(userID string, encounterDate time.Time) (*models.UserStats, error) {
	day := DateOnly(encounterDate)

	var updated *models.UserStats
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		stats, err := ensureStats(tx, userID)
		if err != nil {
			return err
		}

		switch {
		case stats.LastEncounterDate == nil:
			stats.CurrentStreak = 1
			stats.LongestStreak = 1
		case DateOnly(*stats.LastEncounterDate).Equal(day):
			// second entry for the same day, streak unchanged
		case DateOnly(*stats.LastEncounterDate).AddDate(0, 0, 1).Equal(day):
			stats.CurrentStreak++
			if stats.CurrentStreak > stats.LongestStreak {
				stats.LongestStreak = stats.CurrentStreak
			}
		default:
			stats.CurrentStreak = 1
		}

		stats.LastEncounterDate = &day
		stats.TotalEncounters++

		if err := tx.Save(stats).Error; err != nil {
			return err
		}
		updated = stats
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// historySnapshot carries the aggregates CheckAchievements evaluates rules
// against. Rebuilt from scratch on every call; fine at this scale.
type historySnapshot struct {
	totalEncounters   int64
	longestStreak     int64
	distinctPositions int64
	maxSinglePosition int64
	fiveStarsGiven    int64
	commentsAuthored  int64
	nightEncounters   int64
	morningEncounters int64
	weekendEncounters int64
	weekdayEncounters int64
	partnerConnected  bool
	partnerRatings    int64
	customPosition    bool
}

func (h *historySnapshot) satisfies(a *models.Achievement) bool {
	switch a.CriteriaType {
	case models.CriteriaTotalEncounters:
		return h.totalEncounters >= a.CriteriaValue
	case models.CriteriaStreak:
		return h.longestStreak >= a.CriteriaValue
	case models.CriteriaDistinctPosition:
		return h.distinctPositions >= a.CriteriaValue
	case models.CriteriaSinglePosition:
		return h.maxSinglePosition >= a.CriteriaValue
	case models.CriteriaFiveStarsGiven:
		return h.fiveStarsGiven >= a.CriteriaValue
	case models.CriteriaComments:
		return h.commentsAuthored >= a.CriteriaValue
	case models.CriteriaNightWindow:
		return h.nightEncounters >= a.CriteriaValue
	case models.CriteriaMorningWindow:
		return h.morningEncounters >= a.CriteriaValue
	case models.CriteriaWeekend:
		return h.weekendEncounters >= a.CriteriaValue
	case models.CriteriaWeekday:
		return h.weekdayEncounters >= a.CriteriaValue
	case models.CriteriaPartnerLinked:
		return h.partnerConnected
	case models.CriteriaPartnerRatings:
		return h.partnerRatings >= a.CriteriaValue
	case models.CriteriaCustomPosition:
		return h.customPosition
	}
	return false
}

func (s *GamificationService) buildSnapshot(userID string) (*historySnapshot, error) {
	snap := &historySnapshot{}

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	snap.partnerConnected = user.PartnerID != nil

	var encounters []models.Encounter
	if err := s.DB.Where("user_id = ?", userID).Find(&encounters).Error; err != nil {
		return nil, err
	}

	positionCounts := make(map[string]int64)
	for _, e := range encounters {
		snap.totalEncounters++

		positionCounts[e.Position]++
		if !models.IsKnownPosition(e.Position) && e.CustomPosition != "" {
			snap.customPosition = true
		}

		if wd := e.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			snap.weekendEncounters++
		} else {
			snap.weekdayEncounters++
		}

		if e.TimeOfDay != nil {
			if hour, ok := parseHour(*e.TimeOfDay); ok {
				switch {
				case hour < 6:
					snap.nightEncounters++
				case hour < 12:
					snap.morningEncounters++
				}
			}
		}
	}
	for pos, count := range positionCounts {
		snap.distinctPositions++
		if models.IsKnownPosition(pos) && count > snap.maxSinglePosition {
			snap.maxSinglePosition = count
		}
	}

	stats, err := s.EnsureStats(userID)
	if err != nil {
		return nil, err
	}
	snap.longestStreak = int64(stats.LongestStreak)

	if err := s.DB.Model(&models.EncounterRating{}).
		Where("user_id = ? AND rating = 5", userID).
		Count(&snap.fiveStarsGiven).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Comment{}).
		Where("user_id = ?", userID).
		Count(&snap.commentsAuthored).Error; err != nil {
		return nil, err
	}

	// ratings on this user's encounters left by someone else
	if err := s.DB.Model(&models.EncounterRating{}).
		Joins("JOIN encounters ON encounters.id = encounter_ratings.encounter_id").
		Where("encounters.user_id = ? AND encounter_ratings.user_id <> ?", userID, userID).
		Count(&snap.partnerRatings).Error; err != nil {
		return nil, err
	}

	return snap, nil
}

// CheckAchievements rescans the user's history against the catalog and unlocks
// every newly satisfied achievement: one write-once UserAchievement row,
// tier-scaled points, and an in-app notification each. Already-unlocked
// entries are skipped; the unique index on (user, achievement) makes a
// concurrent double evaluation collapse to a single unlock.
func (s *GamificationService) CheckAchievements(userID string) ([]models.Achievement, error) {
	snap, err := s.buildSnapshot(userID)
	if err != nil {
		return nil, err
	}

	var catalog []models.Achievement
	if err := s.DB.Order("criteria_value ASC").Find(&catalog).Error; err != nil {
		return nil, err
	}

	unlockedIDs := make(map[string]bool)
	var existing []models.UserAchievement
	if err := s.DB.Where("user_id = ?", userID).Find(&existing).Error; err != nil {
		return nil, err
	}
	for _, ua := range existing {
		unlockedIDs[ua.AchievementID] = true
	}

	var unlocked []models.Achievement
	for i := range catalog {
		a := &catalog[i]
		if unlockedIDs[a.ID] || !snap.satisfies(a) {
			continue
		}

		ua := models.UserAchievement{UserID: userID, AchievementID: a.ID}
		if err := s.DB.Create(&ua).Error; err != nil {
			// lost a race with a concurrent evaluation; the unique index
			// already holds the unlock
			if isDuplicateKey(err) {
				continue
			}
			return unlocked, err
		}

		if _, err := s.AwardPoints(userID, models.TierPoints[a.Tier], "achievement_"+a.Code); err != nil {
			return unlocked, err
		}

		n := models.Notification{
			UserID:  userID,
			Type:    models.NotificationAchievement,
			Message: fmt.Sprintf("Achievement unlocked: %s (%s)", a.Name, a.Description),
		}
		if err := s.DB.Create(&n).Error; err != nil {
			return unlocked, err
		}

		log.Printf("🎖️ Achievement unlocked: %s → %s", a.Code, userID)
		unlocked = append(unlocked, *a)
	}

	return unlocked, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

func parseHour(timeOfDay string) (int, bool) {
	parts := strings.SplitN(timeOfDay, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}
