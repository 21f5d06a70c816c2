package services_test

import (
	"strconv"
	"testing"

	"github.com/whdcks5588-jpg/event-kit/internal/models"
	"github.com/whdcks5588-jpg/event-kit/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRaffleService(db *gorm.DB) *services.RaffleService {
	return services.NewRaffleService(db, services.NewPresenceService(db))
}

func TestRaffleService_NumberRangeDraw(t *testing.T) {
	db := newTestDB(t)
	admin, room := seedRoom(t, db)
	svc := newRaffleService(db)

	session, err := svc.CreateAndStart(room.ID, admin.ID, models.RaffleModeNumberRange, 5, 7)
	require.NoError(t, err)
	assert.Equal(t, models.RaffleStatusSpinning, session.Status)

	drawn, err := svc.Draw(session.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RaffleStatusEnded, drawn.Status)

	n, err := strconv.Atoi(drawn.Result)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 5)
	assert.LessOrEqual(t, n, 7)
}

func TestRaffleService_NicknameDrawExcludesBlocked(t *testing.T) {
	db := newTestDB(t)
	admin, room := seedRoom(t, db)
	svc := newRaffleService(db)

	winner := seedParticipant(t, db, room.ID, "kate")
	blocked := seedParticipant(t, db, room.ID, "liam")
	require.NoError(t, db.Model(&models.Participant{}).Where("id = ?", blocked.ID).Update("is_active", false).Error)

	session, err := svc.CreateAndStart(room.ID, admin.ID, models.RaffleModeNicknames, 0, 0)
	require.NoError(t, err)

	drawn, err := svc.Draw(session.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, winner.Nickname, drawn.Result)
}

func TestRaffleService_EmptyPoolSentinel(t *testing.T) {
	db := newTestDB(t)
	admin, room := seedRoom(t, db)
	svc := newRaffleService(db)

	session, err := svc.CreateAndStart(room.ID, admin.ID, models.RaffleModeNicknames, 0, 0)
	require.NoError(t, err)

	drawn, err := svc.Draw(session.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RaffleNoParticipants, drawn.Result)
	assert.Equal(t, models.RaffleStatusEnded, drawn.Status)
}

func TestRaffleService_DrawOnlyWhileSpinning(t *testing.T) {
	db := newTestDB(t)
	admin, room := seedRoom(t, db)
	svc := newRaffleService(db)

	session, err := svc.CreateAndStart(room.ID, admin.ID, models.RaffleModeNumberRange, 1, 10)
	require.NoError(t, err)

	_, err = svc.Draw(session.ID, admin.ID)
	require.NoError(t, err)

	_, err = svc.Draw(session.ID, admin.ID)
	assert.EqualError(t, err, "raffle is not spinning")
}

func TestRaffleService_CreateValidation(t *testing.T) {
	db := newTestDB(t)
	admin, room := seedRoom(t, db)
	svc := newRaffleService(db)

	_, err := svc.CreateAndStart(room.ID, admin.ID, models.RaffleModeNumberRange, 10, 1)
	assert.EqualError(t, err, "invalid number range")

	_, err = svc.CreateAndStart(room.ID, admin.ID, "dice", 0, 0)
	assert.EqualError(t, err, "unknown raffle mode")
}

func TestRaffleService_GetActiveReturnsLatest(t *testing.T) {
	db := newTestDB(t)
	admin, room := seedRoom(t, db)
	svc := newRaffleService(db)

	none, err := svc.GetActive(room.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = svc.CreateAndStart(room.ID, admin.ID, models.RaffleModeNumberRange, 1, 10)
	require.NoError(t, err)
	second, err := svc.CreateAndStart(room.ID, admin.ID, models.RaffleModeNicknames, 0, 0)
	require.NoError(t, err)

	active, err := svc.GetActive(room.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)
}
