package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"couple-diary-system/models"
	"couple-diary-system/services"
)

func TestCreateEncounterRunsFullPipeline(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")
	bob := env.newUser(t, "bob")
	env.pair(t, alice, bob)

	encounter, err := env.Encounters.Create(alice.ID, services.EncounterInput{
		Date:     day(0),
		Position: "spooning",
	})
	require.NoError(t, err)
	assert.Equal(t, "spooning", encounter.Position)

	stats, err := env.Gamification.EnsureStats(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalEncounters)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.GreaterOrEqual(t, stats.TotalPoints, int64(services.PointsEncounterLogged))

	var partnerNotifs int64
	require.NoError(t, env.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", bob.ID, models.NotificationNewEncounter).
		Count(&partnerNotifs).Error)
	assert.Equal(t, int64(1), partnerNotifs)
}

func TestCreateEncounterUnknownPositionFallsBack(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")

	encounter, err := env.Encounters.Create(alice.ID, services.EncounterInput{
		Date:     day(0),
		Position: "helicopter",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PositionOther, encounter.Position)
	assert.Equal(t, "helicopter", encounter.CustomPosition)
}

func TestListIncludesPartnerEncounters(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")
	bob := env.newUser(t, "bob")
	carol := env.newUser(t, "carol")
	env.pair(t, alice, bob)

	for _, id := range []string{alice.ID, bob.ID, carol.ID} {
		_, err := env.Encounters.Create(id, services.EncounterInput{Date: day(0), Position: "lotus"})
		require.NoError(t, err)
	}

	list, err := env.Encounters.List(alice.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2, "alice sees her own and bob's encounters, not carol's")
}

func TestUpdateAndDeleteOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")
	bob := env.newUser(t, "bob")
	env.pair(t, alice, bob)

	encounter, err := env.Encounters.Create(alice.ID, services.EncounterInput{Date: day(0), Position: "lotus"})
	require.NoError(t, err)

	_, err = env.Encounters.Update(bob.ID, encounter.ID, services.EncounterInput{Date: day(1), Position: "lotus"})
	assert.ErrorIs(t, err, services.ErrNotEncounterOwner)

	err = env.Encounters.Delete(bob.ID, encounter.ID)
	assert.ErrorIs(t, err, services.ErrEncounterNotFound)

	require.NoError(t, env.Encounters.Delete(alice.ID, encounter.ID))
}

func TestRateTwiceUpdatesSingleRow(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")
	bob := env.newUser(t, "bob")
	env.pair(t, alice, bob)

	encounter, err := env.Encounters.Create(alice.ID, services.EncounterInput{Date: day(0), Position: "lotus"})
	require.NoError(t, err)

	first, err := env.Encounters.Rate(bob.ID, encounter.ID, 4, "nice")
	require.NoError(t, err)

	second, err := env.Encounters.Rate(bob.ID, encounter.ID, 5, "even better")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var rows int64
	require.NoError(t, env.DB.Model(&models.EncounterRating{}).
		Where("encounter_id = ? AND user_id = ?", encounter.ID, bob.ID).
		Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	var stored models.EncounterRating
	require.NoError(t, env.DB.First(&stored, "id = ?", first.ID).Error)
	assert.Equal(t, 5, stored.Rating)
}

func TestRateInvalidValue(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")

	encounter, err := env.Encounters.Create(alice.ID, services.EncounterInput{Date: day(0), Position: "lotus"})
	require.NoError(t, err)

	_, err = env.Encounters.Rate(alice.ID, encounter.ID, 6, "")
	assert.ErrorIs(t, err, services.ErrInvalidRating)
}

func TestProposalAcceptMaterializesEncounter(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")
	bob := env.newUser(t, "bob")
	env.pair(t, alice, bob)

	proposal, err := env.Encounters.Propose(alice.ID, day(2), "lotus", "date night")
	require.NoError(t, err)
	assert.Equal(t, models.ProposalPending, proposal.Status)
	assert.Equal(t, bob.ID, proposal.RecipientID)

	// only the recipient may answer
	_, err = env.Encounters.Respond(alice.ID, proposal.ID, true)
	assert.ErrorIs(t, err, services.ErrNotRecipient)

	answered, err := env.Encounters.Respond(bob.ID, proposal.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalAccepted, answered.Status)

	var encounters int64
	require.NoError(t, env.DB.Model(&models.Encounter{}).
		Where("user_id = ?", alice.ID).Count(&encounters).Error)
	assert.Equal(t, int64(1), encounters)

	// the answer is terminal
	_, err = env.Encounters.Respond(bob.ID, proposal.ID, false)
	assert.ErrorIs(t, err, services.ErrProposalClosed)
}

func TestProposalAcceptDoesNotEchoEncounterNotification(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")
	bob := env.newUser(t, "bob")
	env.pair(t, alice, bob)

	proposal, err := env.Encounters.Propose(alice.ID, day(2), "lotus", "")
	require.NoError(t, err)

	_, err = env.Encounters.Respond(bob.ID, proposal.ID, true)
	require.NoError(t, err)

	// bob accepted, so the materialized encounter must not ping him again
	var echoes int64
	require.NoError(t, env.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", bob.ID, models.NotificationNewEncounter).
		Count(&echoes).Error)
	assert.Zero(t, echoes)

	// alice still learns her proposal was accepted
	var replies int64
	require.NoError(t, env.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", alice.ID, models.NotificationProposalReply).
		Count(&replies).Error)
	assert.Equal(t, int64(1), replies)
}

func TestProposeRequiresPartner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice")

	_, err := env.Encounters.Propose(alice.ID, day(2), "lotus", "")
	assert.ErrorIs(t, err, services.ErrNotPaired)
}
