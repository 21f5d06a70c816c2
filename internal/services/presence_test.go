package services_test

import (
	"testing"
	"time"

	"github.com/whdcks5588-jpg/event-kit/internal/models"
	"github.com/whdcks5588-jpg/event-kit/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceService_Join(t *testing.T) {
	db := newTestDB(t)
	_, room := seedRoom(t, db)
	svc := services.NewPresenceService(db)

	p, err := svc.Join(room.ID, "  maria  ")
	require.NoError(t, err)
	assert.Equal(t, "maria", p.Nickname)
	assert.NotEmpty(t, p.SessionToken)
	assert.True(t, p.IsActive)

	_, err = svc.Join(room.ID, " x ")
	assert.EqualError(t, err, "nickname must be at least 2 characters")

	_, err = svc.Join(room.ID+100, "nadia")
	assert.EqualError(t, err, "room not found")
}

func TestPresenceService_ResumeWithinWindow(t *testing.T) {
	db := newTestDB(t)
	_, room := seedRoom(t, db)
	svc := services.NewPresenceService(db)

	p, err := svc.Join(room.ID, "oscar")
	require.NoError(t, err)

	resumed, err := svc.Resume(room.ID, p.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, p.ID, resumed.ID)

	_, err = svc.Resume(room.ID, "not-a-token")
	assert.EqualError(t, err, "session not found")
}

func TestPresenceService_ResumeExpired(t *testing.T) {
	db := newTestDB(t)
	_, room := seedRoom(t, db)
	svc := services.NewPresenceService(db)

	p, err := svc.Join(room.ID, "paula")
	require.NoError(t, err)

	stale := time.Now().Add(-services.LivenessWindow - time.Hour)
	require.NoError(t, db.Model(&models.Participant{}).Where("id = ?", p.ID).Update("last_seen_at", stale).Error)

	_, err = svc.Resume(room.ID, p.SessionToken)
	assert.EqualError(t, err, "session expired")
}

func TestPresenceService_Heartbeat(t *testing.T) {
	db := newTestDB(t)
	_, room := seedRoom(t, db)
	svc := services.NewPresenceService(db)

	p, err := svc.Join(room.ID, "quinn")
	require.NoError(t, err)

	before := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.Participant{}).Where("id = ?", p.ID).Update("last_seen_at", before).Error)

	require.NoError(t, svc.Heartbeat(p.ID))

	var got models.Participant
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.True(t, got.LastSeenAt.After(before))

	err = svc.Heartbeat(p.ID + 100)
	assert.EqualError(t, err, "participant not found")
}

func TestPresenceService_Rename(t *testing.T) {
	db := newTestDB(t)
	_, room := seedRoom(t, db)
	svc := services.NewPresenceService(db)

	p, err := svc.Join(room.ID, "rita")
	require.NoError(t, err)

	_, err = svc.Rename(p.ID, "wrong-token", "renata")
	assert.EqualError(t, err, "unauthorized")

	renamed, err := svc.Rename(p.ID, p.SessionToken, "renata")
	require.NoError(t, err)
	assert.Equal(t, "renata", renamed.Nickname)
}

func TestPresenceService_BlockRemovesFromActiveViews(t *testing.T) {
	db := newTestDB(t)
	_, room := seedRoom(t, db)
	svc := services.NewPresenceService(db)

	keep, err := svc.Join(room.ID, "sara")
	require.NoError(t, err)
	gone, err := svc.Join(room.ID, "tom")
	require.NoError(t, err)

	blocked, err := svc.Block(gone.ID)
	require.NoError(t, err)
	assert.False(t, blocked.IsActive)

	active, err := svc.ListActive(room.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, keep.ID, active[0].ID)

	count, err := svc.ActiveCount(room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	all, err := svc.ListParticipants(room.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2, "blocked participants stay visible to the admin")
}

func TestPresenceService_ResumeReactivates(t *testing.T) {
	db := newTestDB(t)
	_, room := seedRoom(t, db)
	svc := services.NewPresenceService(db)

	p, err := svc.Join(room.ID, "uma")
	require.NoError(t, err)
	_, err = svc.Block(p.ID)
	require.NoError(t, err)

	resumed, err := svc.Resume(room.ID, p.SessionToken)
	require.NoError(t, err)
	assert.True(t, resumed.IsActive, "a valid token restores the participant to the active pool")

	var got models.Participant
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.True(t, got.IsActive)
}
