package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"couple-diary-system/models"
	"couple-diary-system/services"
)

func TestWeekStart(t *testing.T) {
	// 2025-03-12 is a Wednesday; its week starts Monday 2025-03-10
	wednesday := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, services.WeekStart(wednesday).Equal(monday))
	assert.True(t, services.WeekStart(monday).Equal(monday))

	sunday := time.Date(2025, 3, 16, 1, 0, 0, 0, time.UTC)
	assert.True(t, services.WeekStart(sunday).Equal(monday))
}

func TestWeeklyCountChallengeCompletesOnce(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")

	positions := []string{"lotus", "spooning", "missionary", "standing"}
	for i := 0; i < 4; i++ {
		_, err := env.Encounters.Create(alice.ID, services.EncounterInput{
			Date:     day(i), // day(0) is a Monday, all four land in one week
			Position: positions[i],
		})
		require.NoError(t, err)
	}

	var weekly3 models.Challenge
	require.NoError(t, env.DB.Where("code = ?", "weekly_3").First(&weekly3).Error)

	var uc models.UserChallenge
	require.NoError(t, env.DB.Where("user_id = ? AND challenge_id = ?", alice.ID, weekly3.ID).
		First(&uc).Error)
	assert.True(t, uc.Completed)
	assert.GreaterOrEqual(t, uc.Progress, int64(3))

	// completion notification fires exactly once per challenge; four distinct
	// positions also complete the variety challenge
	var completions int64
	require.NoError(t, env.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ? AND message LIKE ?",
			alice.ID, models.NotificationChallenge, "%Three's Company%").
		Count(&completions).Error)
	assert.Equal(t, int64(1), completions)

	var variety models.UserChallenge
	var varietyChallenge models.Challenge
	require.NoError(t, env.DB.Where("code = ?", "variety_week").First(&varietyChallenge).Error)
	require.NoError(t, env.DB.Where("user_id = ? AND challenge_id = ?", alice.ID, varietyChallenge.ID).
		First(&variety).Error)
	assert.True(t, variety.Completed)
}

func TestActiveWeekListsCatalog(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")

	active, err := env.Challenges.ActiveWeek(alice.ID)
	require.NoError(t, err)
	assert.Len(t, active, len(models.ChallengeCatalog))
	for _, entry := range active {
		assert.False(t, entry.Completed)
		assert.Zero(t, entry.Progress)
	}
}
