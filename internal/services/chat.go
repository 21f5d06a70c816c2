package services

import (
	"errors"
	"strings"
	"time"

	"github.com/whdcks5588-jpg/event-kit/internal/models"

	"gorm.io/gorm"
)

type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// Send writes a chat message. The nickname is denormalized at send time so a
// later rename does not rewrite history.
func (s *ChatService) Send(roomID, participantID uint, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("message content is required")
	}

	var participant models.Participant
	if err := s.db.Where("id = ? AND room_id = ?", participantID, roomID).
		First(&participant).Error; err != nil {
		return nil, errors.New("participant not found")
	}
	if !participant.IsActive {
		return nil, errors.New("participant is blocked")
	}

	message := models.Message{
		RoomID:        roomID,
		ParticipantID: participant.ID,
		Nickname:      participant.Nickname,
		Content:       content,
		CreatedAt:     time.Now(),
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// List returns the newest visible messages, oldest first, so a capped read
// always shows the latest traffic. Blocked messages are excluded from every
// read path but kept for audit.
func (s *ChatService) List(roomID uint, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	var messages []models.Message
	if err := s.db.Where("room_id = ? AND is_blocked = ?", roomID, false).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// BlockMessage soft-deletes a message. Never a hard delete.
func (s *ChatService) BlockMessage(messageID uint) (*models.Message, error) {
	var message models.Message
	if err := s.db.First(&message, messageID).Error; err != nil {
		return nil, errors.New("message not found")
	}

	message.IsBlocked = true
	if err := s.db.Save(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}
