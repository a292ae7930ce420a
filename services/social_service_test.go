package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"couple-diary-system/models"
	"couple-diary-system/services"
)

func TestAddCommentAwardsPointsAndNotifies(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")
	bob := env.newUser(t, "bob")
	env.pair(t, alice, bob)

	encounter, err := env.Encounters.Create(alice.ID, services.EncounterInput{Date: day(0), Position: "lotus"})
	require.NoError(t, err)

	before, err := env.Gamification.EnsureStats(bob.ID)
	require.NoError(t, err)

	comment, err := env.Social.AddComment(bob.ID, encounter.ID, "well done")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, comment.UserID)

	after, err := env.Gamification.EnsureStats(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, before.TotalPoints+int64(services.PointsCommentPosted), after.TotalPoints)

	var notifs int64
	require.NoError(t, env.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", alice.ID, models.NotificationNewComment).
		Count(&notifs).Error)
	assert.Equal(t, int64(1), notifs)
}

func TestAddCommentRejectsOutsiders(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")
	carol := env.newUser(t, "carol")

	encounter, err := env.Encounters.Create(alice.ID, services.EncounterInput{Date: day(0), Position: "lotus"})
	require.NoError(t, err)

	_, err = env.Social.AddComment(carol.ID, encounter.ID, "who are you?")
	assert.ErrorIs(t, err, services.ErrNoAccess)

	_, err = env.Social.AddComment(alice.ID, encounter.ID, "")
	assert.ErrorIs(t, err, services.ErrEmptyBody)
}

func TestMessageThreadAndReadFlow(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")
	bob := env.newUser(t, "bob")
	env.pair(t, alice, bob)

	sent, err := env.Social.SendMessage(alice.ID, "dinner tonight?")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, sent.RecipientID)

	_, err = env.Social.SendMessage(bob.ID, "yes!")
	require.NoError(t, err)

	thread, err := env.Social.Thread(alice.ID, 50)
	require.NoError(t, err)
	assert.Len(t, thread, 2)

	unread, err := env.Social.UnreadMessages(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	// only the recipient can mark a message read
	assert.Error(t, env.Social.MarkMessageRead(alice.ID, sent.ID))
	require.NoError(t, env.Social.MarkMessageRead(bob.ID, sent.ID))

	unread, err = env.Social.UnreadMessages(bob.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestSendMessageRequiresPartner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")

	_, err := env.Social.SendMessage(alice.ID, "hello?")
	assert.ErrorIs(t, err, services.ErrNotPaired)
}
