package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"couple-diary-system/models"
)

func TestNotifyPartnerCreatesInAppRowEvenWithoutChannels(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")
	bob := env.newUser(t, "bob")
	env.pair(t, alice, bob)

	// bob opted into external delivery but no channel is configured; the
	// in-app row must still land, exactly once
	require.NoError(t, env.DB.Model(&models.User{}).Where("id = ?", bob.ID).
		Updates(map[string]interface{}{"sms_notifications": true, "phone_number": "+15551234"}).Error)

	env.Notifications.NotifyPartner(alice.ID, models.NotificationNewEncounter, "hi bob", nil)

	var count int64
	require.NoError(t, env.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", bob.ID, models.NotificationNewEncounter).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNotifyPartnerNoopWhenUnpaired(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")

	env.Notifications.NotifyPartner(alice.ID, models.NotificationNewEncounter, "hello?", nil)

	var count int64
	require.NoError(t, env.DB.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")

	n1, err := env.Notifications.Create(alice.ID, models.NotificationLevelUp, "level 2", nil)
	require.NoError(t, err)
	_, err = env.Notifications.Create(alice.ID, models.NotificationLevelUp, "level 3", nil)
	require.NoError(t, err)

	count, err := env.Notifications.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, env.Notifications.MarkRead(alice.ID, n1.ID))
	count, err = env.Notifications.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	flipped, err := env.Notifications.MarkAllRead(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), flipped)

	// someone else's notification is out of reach
	bob := env.newUser(t, "bob")
	err = env.Notifications.MarkRead(bob.ID, n1.ID)
	assert.Error(t, err)
}
