package services

import (
	"errors"
	"strings"
	"time"

	"github.com/whdcks5588-jpg/event-kit/internal/models"

	"gorm.io/gorm"
)

type PollService struct {
	db *gorm.DB
}

func NewPollService(db *gorm.DB) *PollService {
	return &PollService{db: db}
}

// CreateAndStart publishes a poll live: there is no separate waiting step in
// the admin flow.
func (s *PollService) CreateAndStart(roomID, adminID uint, title string, options []string) (*models.PollSession, error) {
	var room models.Room
	if err := s.db.Where("id = ? AND admin_id = ?", roomID, adminID).First(&room).Error; err != nil {
		return nil, errors.New("room not found")
	}
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("poll title is required")
	}
	options = filterBlank(options)
	if len(options) < 2 {
		return nil, errors.New("poll needs at least 2 options")
	}

	now := time.Now()
	session := models.PollSession{
		RoomID:    roomID,
		Title:     strings.TrimSpace(title),
		Options:   options,
		Status:    models.PollStatusActive,
		StartedAt: &now,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Vote records one choice per participant. A repeat vote is reported as
// success, never as an error.
func (s *PollService) Vote(pollID, participantID uint, optionIndex int) error {
	var session models.PollSession
	if err := s.db.First(&session, pollID).Error; err != nil {
		return errors.New("poll not found")
	}
	if session.Status != models.PollStatusActive {
		return errors.New("poll is not accepting votes")
	}
	if optionIndex < 0 || optionIndex >= len(session.Options) {
		return errors.New("option index out of range")
	}

	var participant models.Participant
	if err := s.db.Where("id = ? AND room_id = ?", participantID, session.RoomID).
		First(&participant).Error; err != nil {
		return errors.New("participant not found")
	}
	if !participant.IsActive {
		return errors.New("participant is blocked")
	}

	var existing models.PollVote
	if err := s.db.Where("poll_id = ? AND participant_id = ?", pollID, participantID).
		First(&existing).Error; err == nil {
		return nil
	}

	vote := models.PollVote{
		PollID:        pollID,
		ParticipantID: participantID,
		OptionIndex:   optionIndex,
	}
	if err := s.db.Create(&vote).Error; err != nil {
		// Concurrent duplicate hits the unique index; still "already voted".
		if recheck := s.db.Where("poll_id = ? AND participant_id = ?", pollID, participantID).
			First(&existing).Error; recheck == nil {
			return nil
		}
		return err
	}
	return nil
}

func (s *PollService) End(pollID, adminID uint) (*models.PollSession, error) {
	var session models.PollSession
	if err := s.db.First(&session, pollID).Error; err != nil {
		return nil, errors.New("poll not found")
	}
	if _, err := s.adminRoom(session.RoomID, adminID); err != nil {
		return nil, err
	}

	session.Status = models.PollStatusEnded
	if err := s.db.Save(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

type PollTally struct {
	PollID      uint      `json:"poll_id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	Options     []string  `json:"options"`
	Counts      []int     `json:"counts"`
	Percentages []float64 `json:"percentages"`
	Total       int       `json:"total"`
}

// Tally counts votes per option, zero-filled for options nobody picked. With
// no votes every percentage is 0, not a division fault. Tallies stay
// queryable after the poll ends.
func (s *PollService) Tally(pollID uint) (*PollTally, error) {
	var session models.PollSession
	if err := s.db.First(&session, pollID).Error; err != nil {
		return nil, errors.New("poll not found")
	}

	var votes []models.PollVote
	if err := s.db.Where("poll_id = ?", pollID).Find(&votes).Error; err != nil {
		return nil, err
	}

	counts := make([]int, len(session.Options))
	for _, v := range votes {
		if v.OptionIndex >= 0 && v.OptionIndex < len(counts) {
			counts[v.OptionIndex]++
		}
	}

	total := len(votes)
	percentages := make([]float64, len(counts))
	if total > 0 {
		for i, c := range counts {
			percentages[i] = float64(c) / float64(total) * 100
		}
	}

	return &PollTally{
		PollID:      session.ID,
		Title:       session.Title,
		Status:      session.Status,
		Options:     session.Options,
		Counts:      counts,
		Percentages: percentages,
		Total:       total,
	}, nil
}

func (s *PollService) GetByID(pollID uint) (*models.PollSession, error) {
	var session models.PollSession
	if err := s.db.First(&session, pollID).Error; err != nil {
		return nil, errors.New("poll not found")
	}
	return &session, nil
}

// GetActive returns the poll shown on the display: the most recently created
// one for the room, regardless of status.
func (s *PollService) GetActive(roomID uint) (*models.PollSession, error) {
	var session models.PollSession
	if err := s.db.Where("room_id = ?", roomID).
		Order("created_at DESC, id DESC").
		First(&session).Error; err != nil {
		return nil, nil
	}
	return &session, nil
}

func (s *PollService) adminRoom(roomID, adminID uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.Where("id = ? AND admin_id = ?", roomID, adminID).First(&room).Error; err != nil {
		return nil, errors.New("room not found")
	}
	return &room, nil
}
