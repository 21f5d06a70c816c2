package services_test

import (
	"testing"

	"github.com/whdcks5588-jpg/event-kit/internal/models"
	"github.com/whdcks5588-jpg/event-kit/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService_SendDenormalizesNickname(t *testing.T) {
	db := newTestDB(t)
	_, room := seedRoom(t, db)
	chat := services.NewChatService(db)
	presence := services.NewPresenceService(db)

	p, err := presence.Join(room.ID, "vera")
	require.NoError(t, err)

	msg, err := chat.Send(room.ID, p.ID, "  hello everyone  ")
	require.NoError(t, err)
	assert.Equal(t, "hello everyone", msg.Content)
	assert.Equal(t, "vera", msg.Nickname)

	_, err = presence.Rename(p.ID, p.SessionToken, "veronica")
	require.NoError(t, err)

	messages, err := chat.List(room.ID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "vera", messages[0].Nickname, "history keeps the nickname it was sent with")
}

func TestChatService_SendValidation(t *testing.T) {
	db := newTestDB(t)
	_, room := seedRoom(t, db)
	chat := services.NewChatService(db)

	p := seedParticipant(t, db, room.ID, "will")

	_, err := chat.Send(room.ID, p.ID, "   ")
	assert.EqualError(t, err, "message content is required")

	_, err = chat.Send(room.ID, p.ID+100, "hi")
	assert.EqualError(t, err, "participant not found")

	require.NoError(t, db.Model(&models.Participant{}).Where("id = ?", p.ID).Update("is_active", false).Error)
	_, err = chat.Send(room.ID, p.ID, "hi")
	assert.EqualError(t, err, "participant is blocked")
}

func TestChatService_BlockedMessagesHiddenFromList(t *testing.T) {
	db := newTestDB(t)
	_, room := seedRoom(t, db)
	chat := services.NewChatService(db)

	p := seedParticipant(t, db, room.ID, "xena")

	first, err := chat.Send(room.ID, p.ID, "keep me")
	require.NoError(t, err)
	second, err := chat.Send(room.ID, p.ID, "hide me")
	require.NoError(t, err)

	blocked, err := chat.BlockMessage(second.ID)
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked)

	messages, err := chat.List(room.ID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, first.ID, messages[0].ID)

	var stored models.Message
	require.NoError(t, db.First(&stored, second.ID).Error)
	assert.True(t, stored.IsBlocked, "the row stays for audit")
}

func TestChatService_CappedListShowsLatest(t *testing.T) {
	db := newTestDB(t)
	_, room := seedRoom(t, db)
	chat := services.NewChatService(db)

	p := seedParticipant(t, db, room.ID, "yuri")
	for _, content := range []string{"one", "two", "three", "four", "five"} {
		_, err := chat.Send(room.ID, p.ID, content)
		require.NoError(t, err)
	}

	messages, err := chat.List(room.ID, 3)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "three", messages[0].Content, "the newest messages win the cap")
	assert.Equal(t, "four", messages[1].Content)
	assert.Equal(t, "five", messages[2].Content, "order stays chronological for rendering")
}
