package services_test

import (
	"testing"

	"github.com/whdcks5588-jpg/event-kit/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(db, "test-secret")

	token, err := svc.Register("organizer", "s3cure-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Register("organizer", "another-pass")
	assert.EqualError(t, err, "username already taken")

	loginToken, err := svc.Login("organizer", "s3cure-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)

	_, err = svc.Login("organizer", "wrong")
	assert.EqualError(t, err, "invalid credentials")
	_, err = svc.Login("nobody", "s3cure-pass")
	assert.EqualError(t, err, "invalid credentials")
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(db, "test-secret")

	token, err := svc.GenerateToken(42)
	require.NoError(t, err)

	adminID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), adminID)

	_, err = svc.ValidateToken("garbage")
	assert.EqualError(t, err, "invalid token")

	other := services.NewAuthService(db, "different-secret")
	_, err = other.ValidateToken(token)
	assert.EqualError(t, err, "invalid token")
}
