package services

import (
	"errors"
	"strings"
	"time"

	"github.com/whdcks5588-jpg/event-kit/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LivenessWindow is the absolute session validity. Clients refresh
// last_seen_at via Heartbeat every 30 seconds while a tab is open; a token
// older than the window forces a fresh join.
const LivenessWindow = 24 * time.Hour

type PresenceService struct {
	db *gorm.DB
}

func NewPresenceService(db *gorm.DB) *PresenceService {
	return &PresenceService{db: db}
}

func (s *PresenceService) Join(roomID uint, nickname string) (*models.Participant, error) {
	nickname = strings.TrimSpace(nickname)
	if len([]rune(nickname)) < 2 {
		return nil, errors.New("nickname must be at least 2 characters")
	}

	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		return nil, errors.New("room not found")
	}

	participant := models.Participant{
		RoomID:       roomID,
		Nickname:     nickname,
		SessionToken: uuid.NewString(),
		IsActive:     true,
		LastSeenAt:   time.Now(),
	}
	if err := s.db.Create(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

// Resume restores identity from a stored session token. Past the liveness
// window the caller must discard the token and join again; the stale row is
// left behind.
func (s *PresenceService) Resume(roomID uint, token string) (*models.Participant, error) {
	var participant models.Participant
	if err := s.db.Where("room_id = ? AND session_token = ?", roomID, token).
		First(&participant).Error; err != nil {
		return nil, errors.New("session not found")
	}

	if time.Since(participant.LastSeenAt) > LivenessWindow {
		return nil, errors.New("session expired")
	}

	participant.LastSeenAt = time.Now()
	participant.IsActive = true
	if err := s.db.Save(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

func (s *PresenceService) Heartbeat(participantID uint) error {
	res := s.db.Model(&models.Participant{}).
		Where("id = ?", participantID).
		Update("last_seen_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("participant not found")
	}
	return nil
}

// Rename changes the display nickname. Messages and answers already written
// keep the nickname they were sent with.
func (s *PresenceService) Rename(participantID uint, token, nickname string) (*models.Participant, error) {
	nickname = strings.TrimSpace(nickname)
	if len([]rune(nickname)) < 2 {
		return nil, errors.New("nickname must be at least 2 characters")
	}

	var participant models.Participant
	if err := s.db.First(&participant, participantID).Error; err != nil {
		return nil, errors.New("participant not found")
	}
	if participant.SessionToken != token {
		return nil, errors.New("unauthorized")
	}

	participant.Nickname = nickname
	if err := s.db.Save(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

// Block soft-deactivates a participant. The row stays; history written under
// it stays visible.
func (s *PresenceService) Block(participantID uint) (*models.Participant, error) {
	var participant models.Participant
	if err := s.db.First(&participant, participantID).Error; err != nil {
		return nil, errors.New("participant not found")
	}

	participant.IsActive = false
	if err := s.db.Save(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

// ListActive returns the present participants: active and seen within the
// liveness window.
func (s *PresenceService) ListActive(roomID uint) ([]models.Participant, error) {
	var participants []models.Participant
	cutoff := time.Now().Add(-LivenessWindow)
	if err := s.db.Where("room_id = ? AND is_active = ? AND last_seen_at > ?", roomID, true, cutoff).
		Order("created_at ASC").
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (s *PresenceService) ActiveCount(roomID uint) (int, error) {
	var count int64
	cutoff := time.Now().Add(-LivenessWindow)
	err := s.db.Model(&models.Participant{}).
		Where("room_id = ? AND is_active = ? AND last_seen_at > ?", roomID, true, cutoff).
		Count(&count).Error
	return int(count), err
}

func (s *PresenceService) ListParticipants(roomID uint) ([]models.Participant, error) {
	var participants []models.Participant
	if err := s.db.Where("room_id = ?", roomID).
		Order("created_at ASC").
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}
