package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"couple-diary-system/services"
)

func TestRegisterDuplicatesMapToSentinels(t *testing.T) {
	env := newTestEnv(t)

	first, err := env.Auth.Register("alice", "alice@test.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, first.PartnerCode)

	// the unique index rejects the insert and the error maps to the sentinel
	_, err = env.Auth.Register("alice", "other@test.com", "password123")
	assert.ErrorIs(t, err, services.ErrUsernameTaken)

	_, err = env.Auth.Register("alice2", "alice@test.com", "password123")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.Auth.Register("alice", "alice@test.com", "password123")
	require.NoError(t, err)

	token, loggedIn, err := env.Auth.Login("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	subject, err := env.Auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)

	_, _, err = env.Auth.Login("alice", "wrong-password")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}
