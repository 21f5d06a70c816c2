package services_test

import (
	"testing"

	"github.com/whdcks5588-jpg/event-kit/internal/models"
	"github.com/whdcks5588-jpg/event-kit/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRoomService_CreateDefaults(t *testing.T) {
	db := newTestDB(t)
	admin, _ := seedRoom(t, db)
	svc := services.NewRoomService(db)

	room, err := svc.CreateRoom(admin.ID, "  town hall  ")
	require.NoError(t, err)
	assert.Equal(t, "town hall", room.Title)
	assert.Equal(t, models.RoomStatusWaiting, room.Status)
	assert.Equal(t, models.ProgramChat, room.CurrentProgram)
	assert.Equal(t, models.QuizPhaseWaiting, room.QuizPhase)

	_, err = svc.CreateRoom(admin.ID, "   ")
	assert.EqualError(t, err, "room title is required")
}

func TestRoomService_SetProgram(t *testing.T) {
	db := newTestDB(t)
	admin, room := seedRoom(t, db)
	svc := services.NewRoomService(db)

	updated, err := svc.SetProgram(room.ID, admin.ID, models.ProgramRaffle)
	require.NoError(t, err)
	assert.Equal(t, models.ProgramRaffle, updated.CurrentProgram)

	_, err = svc.SetProgram(room.ID, admin.ID, "karaoke")
	assert.EqualError(t, err, "unknown program")

	_, err = svc.SetProgram(room.ID, admin.ID+1, models.ProgramPoll)
	assert.EqualError(t, err, "room not found", "another admin's rooms are invisible")
}

func TestRoomService_SetStatus(t *testing.T) {
	db := newTestDB(t)
	admin, room := seedRoom(t, db)
	svc := services.NewRoomService(db)

	updated, err := svc.SetStatus(room.ID, admin.ID, models.RoomStatusWaiting)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusWaiting, updated.Status)

	_, err = svc.SetStatus(room.ID, admin.ID, "paused")
	assert.EqualError(t, err, "unknown status")
}

func TestRoomService_DisplayFlags(t *testing.T) {
	db := newTestDB(t)
	admin, room := seedRoom(t, db)
	svc := services.NewRoomService(db)

	updated, err := svc.SetDisplayFlag(room.ID, admin.ID, models.DisplayFlagQROnly, true)
	require.NoError(t, err)
	assert.True(t, updated.ShowQROnly)
	assert.False(t, updated.ShowLogoOnly)

	updated, err = svc.SetDisplayFlag(room.ID, admin.ID, models.DisplayFlagLogoOnly, true)
	require.NoError(t, err)
	assert.True(t, updated.ShowLogoOnly)

	updated, err = svc.SetDisplayFlag(room.ID, admin.ID, models.DisplayFlagQROnly, false)
	require.NoError(t, err)
	assert.False(t, updated.ShowQROnly)

	_, err = svc.SetDisplayFlag(room.ID, admin.ID, "mirror", true)
	assert.EqualError(t, err, "unknown display flag")
}

func TestRoomService_DeleteRoomCascades(t *testing.T) {
	db := newTestDB(t)
	admin, room := seedRoom(t, db)
	roomSvc := services.NewRoomService(db)
	quizSvc := services.NewQuizService(db)
	pollSvc := services.NewPollService(db)
	chatSvc := services.NewChatService(db)

	p := seedParticipant(t, db, room.ID, "zara")
	_, err := chatSvc.Send(room.ID, p.ID, "bye soon")
	require.NoError(t, err)

	project, err := quizSvc.CreateProject(room.ID, admin.ID, "cascade")
	require.NoError(t, err)
	q, err := quizSvc.AddQuestion(project.ID, admin.ID, services.QuestionInput{
		Question: "q", Options: []string{"a", "b"}, CorrectAnswer: 0,
	})
	require.NoError(t, err)
	_, err = quizSvc.StartProject(room.ID, project.ID, admin.ID)
	require.NoError(t, err)
	require.NoError(t, quizSvc.Submit(q.ID, p.ID, 0))

	poll, err := pollSvc.CreateAndStart(room.ID, admin.ID, "cascade", []string{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, pollSvc.Vote(poll.ID, p.ID, 0))

	require.NoError(t, roomSvc.DeleteRoom(room.ID, admin.ID))

	for name, count := range map[string]int64{
		"rooms":        tableCount(db, &models.Room{}),
		"participants": tableCount(db, &models.Participant{}),
		"messages":     tableCount(db, &models.Message{}),
		"projects":     tableCount(db, &models.QuizProject{}),
		"questions":    tableCount(db, &models.QuizSession{}),
		"answers":      tableCount(db, &models.QuizAnswer{}),
		"polls":        tableCount(db, &models.PollSession{}),
		"votes":        tableCount(db, &models.PollVote{}),
	} {
		assert.Zerof(t, count, "%s should be empty after room delete", name)
	}
}

func tableCount(db *gorm.DB, model interface{}) int64 {
	var count int64
	db.Model(model).Count(&count)
	return count
}
