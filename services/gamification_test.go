package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"couple-diary-system/models"
	"couple-diary-system/services"
)

// testEnv wires every service against a fresh in-memory sqlite DB.
type testEnv struct {
	DB            *gorm.DB
	Auth          *services.AuthService
	Notifications *services.NotificationService
	Gamification  *services.GamificationService
	Challenges    *services.ChallengeService
	Partners      *services.PartnerService
	Encounters    *services.EncounterService
	Social        *services.SocialService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Encounter{},
		&models.EncounterRating{},
		&models.ProposedEncounter{},
		&models.Comment{},
		&models.Message{},
		&models.Notification{},
		&models.UserStats{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Challenge{},
		&models.UserChallenge{},
		&models.PositionIcon{},
	))

	// dispatcher with no channels: everything degrades to in-app only
	dispatcher := &services.Dispatcher{}

	env := &testEnv{DB: db}
	env.Auth = services.NewAuthService(db, "test-secret")
	env.Notifications = services.NewNotificationService(db, dispatcher)
	env.Gamification = services.NewGamificationService(db)
	env.Challenges = services.NewChallengeService(db, env.Gamification, env.Notifications)
	env.Partners = services.NewPartnerService(db, env.Notifications, env.Gamification)
	env.Encounters = services.NewEncounterService(db, env.Gamification, env.Notifications, env.Challenges)
	env.Social = services.NewSocialService(db, env.Gamification, env.Notifications)

	require.NoError(t, env.Gamification.SeedCatalogs())
	return env
}

func (env *testEnv) newUser(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := env.Auth.Register(username, username+"@test.com", "password123")
	require.NoError(t, err)
	return user
}

func (env *testEnv) pair(t *testing.T, a, b *models.User) {
	t.Helper()
	var partner models.User
	require.NoError(t, env.DB.First(&partner, "id = ?", b.ID).Error)
	_, err := env.Partners.Connect(a.ID, partner.PartnerCode)
	require.NoError(t, err)
}

func day(offset int) time.Time {
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestUpdateStreakSequence(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "alice")

	// same day, same day, next day, then a two-day gap
	dates := []time.Time{day(0), day(0), day(1), day(3)}
	wantCurrent := []int{1, 1, 2, 1}

	for i, d := range dates {
		stats, err := env.Gamification.UpdateStreak(user.ID, d)
		require.NoError(t, err)
		assert.Equal(t, wantCurrent[i], stats.CurrentStreak, "step %d", i)
	}

	stats, err := env.Gamification.EnsureStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.LongestStreak)
	assert.Equal(t, int64(4), stats.TotalEncounters)
	require.NotNil(t, stats.LastEncounterDate)
	assert.True(t, stats.LastEncounterDate.Equal(day(3)))
}

func TestUpdateStreakBackdatedEntryResets(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "alice")

	for _, d := range []time.Time{day(5), day(6)} {
		_, err := env.Gamification.UpdateStreak(user.ID, d)
		require.NoError(t, err)
	}

	// backfilled entry older than the last one breaks the streak
	stats, err := env.Gamification.UpdateStreak(user.ID, day(2))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 2, stats.LongestStreak)
}

func TestAwardPointsLevelUp(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "alice")

	_, err := env.Gamification.EnsureStats(user.ID)
	require.NoError(t, err)
	require.NoError(t, env.DB.Model(&models.UserStats{}).
		Where("user_id = ?", user.ID).
		Update("total_points", 95).Error)

	stats, err := env.Gamification.AwardPoints(user.ID, 10, "test")
	require.NoError(t, err)
	assert.Equal(t, int64(105), stats.TotalPoints)
	assert.Equal(t, 2, stats.Level)

	var levelUps int64
	require.NoError(t, env.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", user.ID, models.NotificationLevelUp).
		Count(&levelUps).Error)
	assert.Equal(t, int64(1), levelUps)
}

func TestAwardPointsAccumulates(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "alice")

	for i := 0; i < 2; i++ {
		_, err := env.Gamification.AwardPoints(user.ID, 10, "test")
		require.NoError(t, err)
	}

	stats, err := env.Gamification.EnsureStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), stats.TotalPoints)
}

func TestCheckAchievementsMilestoneUnlocksOnce(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "alice")

	for i := 0; i < 10; i++ {
		require.NoError(t, env.DB.Create(&models.Encounter{
			UserID:   user.ID,
			Date:     day(i),
			Position: "missionary",
		}).Error)
	}

	// two back-to-back evaluations: the second must be a no-op
	for i := 0; i < 2; i++ {
		_, err := env.Gamification.CheckAchievements(user.ID)
		require.NoError(t, err)
	}

	var milestone models.Achievement
	require.NoError(t, env.DB.Where("code = ?", "milestone_10").First(&milestone).Error)

	var unlocks int64
	require.NoError(t, env.DB.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", user.ID, milestone.ID).
		Count(&unlocks).Error)
	assert.Equal(t, int64(1), unlocks)
}

func TestCheckAchievementsAwardsTierPoints(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "alice")

	require.NoError(t, env.DB.Create(&models.Encounter{
		UserID:   user.ID,
		Date:     day(0),
		Position: "missionary",
	}).Error)

	unlocked, err := env.Gamification.CheckAchievements(user.ID)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "first_time", unlocked[0].Code)

	stats, err := env.Gamification.EnsureStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierPoints[models.TierBronze], stats.TotalPoints)

	var notifs int64
	require.NoError(t, env.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", user.ID, models.NotificationAchievement).
		Count(&notifs).Error)
	assert.Equal(t, int64(1), notifs)
}

func TestCheckAchievementsCustomPosition(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "alice")

	_, err := env.Encounters.Create(user.ID, services.EncounterInput{
		Date:     day(0),
		Position: "the pretzel", // not in the catalog
	})
	require.NoError(t, err)

	var freestyle models.Achievement
	require.NoError(t, env.DB.Where("code = ?", "freestyle").First(&freestyle).Error)

	var unlocks int64
	require.NoError(t, env.DB.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", user.ID, freestyle.ID).
		Count(&unlocks).Error)
	assert.Equal(t, int64(1), unlocks)
}
