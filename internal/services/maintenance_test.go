package services_test

import (
	"testing"

	"github.com/whdcks5588-jpg/event-kit/internal/models"
	"github.com/whdcks5588-jpg/event-kit/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenanceService_PurgeChatOnly(t *testing.T) {
	db := newTestDB(t)
	admin, room := seedRoom(t, db)
	chat := services.NewChatService(db)
	quiz := services.NewQuizService(db)
	svc := services.NewMaintenanceService(db)

	p := seedParticipant(t, db, room.ID, "amber")
	_, err := chat.Send(room.ID, p.ID, "delete me")
	require.NoError(t, err)

	project, err := quiz.CreateProject(room.ID, admin.ID, "survivor")
	require.NoError(t, err)

	require.NoError(t, svc.PurgeRoom(room.ID, true, false))

	var messages int64
	db.Model(&models.Message{}).Where("room_id = ?", room.ID).Count(&messages)
	assert.Zero(t, messages)

	var projects int64
	db.Model(&models.QuizProject{}).Where("id = ?", project.ID).Count(&projects)
	assert.EqualValues(t, 1, projects, "quiz history is untouched when only chat is selected")
}

func TestMaintenanceService_PurgeQuizResetsCursor(t *testing.T) {
	db := newTestDB(t)
	admin, room := seedRoom(t, db)
	chat := services.NewChatService(db)
	quiz := services.NewQuizService(db)
	svc := services.NewMaintenanceService(db)

	p := seedParticipant(t, db, room.ID, "bruno")
	_, err := chat.Send(room.ID, p.ID, "keep me")
	require.NoError(t, err)

	project, err := quiz.CreateProject(room.ID, admin.ID, "doomed")
	require.NoError(t, err)
	q, err := quiz.AddQuestion(project.ID, admin.ID, services.QuestionInput{
		Question: "q", Options: []string{"a", "b"}, CorrectAnswer: 0,
	})
	require.NoError(t, err)
	_, err = quiz.StartProject(room.ID, project.ID, admin.ID)
	require.NoError(t, err)
	require.NoError(t, quiz.Submit(q.ID, p.ID, 0))

	require.NoError(t, svc.PurgeRoom(room.ID, false, true))

	var answers, sessions, projects int64
	db.Model(&models.QuizAnswer{}).Count(&answers)
	db.Model(&models.QuizSession{}).Where("room_id = ?", room.ID).Count(&sessions)
	db.Model(&models.QuizProject{}).Where("room_id = ?", room.ID).Count(&projects)
	assert.Zero(t, answers)
	assert.Zero(t, sessions)
	assert.Zero(t, projects)

	var got models.Room
	require.NoError(t, db.First(&got, room.ID).Error)
	assert.Nil(t, got.QuizProjectID)
	assert.Equal(t, models.QuizPhaseWaiting, got.QuizPhase)
	assert.Zero(t, got.QuizCurrentIndex)

	var messages int64
	db.Model(&models.Message{}).Where("room_id = ?", room.ID).Count(&messages)
	assert.EqualValues(t, 1, messages, "chat stays when only quiz is selected")
}

func TestMaintenanceService_PurgeUnknownRoom(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewMaintenanceService(db)

	err := svc.PurgeRoom(12345, true, true)
	assert.EqualError(t, err, "room not found")
}
