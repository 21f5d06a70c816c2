package services

import (
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/whdcks5588-jpg/event-kit/internal/models"

	"gorm.io/gorm"
)

type RaffleService struct {
	db       *gorm.DB
	presence *PresenceService
}

func NewRaffleService(db *gorm.DB, presence *PresenceService) *RaffleService {
	return &RaffleService{db: db, presence: presence}
}

// CreateAndStart inserts a new session and immediately flips it to spinning;
// the slot animation is client-side cosmetics with no server state.
func (s *RaffleService) CreateAndStart(roomID, adminID uint, mode string, min, max int) (*models.RaffleSession, error) {
	var room models.Room
	if err := s.db.Where("id = ? AND admin_id = ?", roomID, adminID).First(&room).Error; err != nil {
		return nil, errors.New("room not found")
	}

	var cfg models.RaffleConfig
	switch mode {
	case models.RaffleModeNumberRange:
		if min > max {
			return nil, errors.New("invalid number range")
		}
		cfg = models.RaffleConfig{Min: min, Max: max}
	case models.RaffleModeNicknames:
	default:
		return nil, errors.New("unknown raffle mode")
	}

	session := models.RaffleSession{
		RoomID: roomID,
		Mode:   mode,
		Config: cfg,
		Status: models.RaffleStatusWaiting,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	session.Status = models.RaffleStatusSpinning
	session.StartedAt = &now
	if err := s.db.Save(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Draw samples the pool and ends the session. The nickname pool is snapshot
// at draw time, not spin-start time, so joiners and leavers during the spin
// affect the outcome. An empty pool yields the sentinel, never a failure.
func (s *RaffleService) Draw(sessionID, adminID uint) (*models.RaffleSession, error) {
	var session models.RaffleSession
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, errors.New("raffle not found")
	}
	if session.Status != models.RaffleStatusSpinning {
		return nil, errors.New("raffle is not spinning")
	}
	if _, err := s.adminRoom(session.RoomID, adminID); err != nil {
		return nil, err
	}

	var result string
	if session.Mode == models.RaffleModeNumberRange {
		span := session.Config.Max - session.Config.Min + 1
		result = strconv.Itoa(rand.Intn(span) + session.Config.Min)
	} else {
		nicknames, err := s.activeNicknames(session.RoomID)
		if err != nil {
			return nil, err
		}
		if len(nicknames) == 0 {
			result = models.RaffleNoParticipants
		} else {
			result = nicknames[rand.Intn(len(nicknames))]
		}
	}

	session.Status = models.RaffleStatusEnded
	session.Result = result
	if err := s.db.Save(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// GetActive returns the session shown on the display: the most recently
// created one for the room. Past draws stay behind as history rows.
func (s *RaffleService) GetActive(roomID uint) (*models.RaffleSession, error) {
	var session models.RaffleSession
	if err := s.db.Where("room_id = ?", roomID).
		Order("created_at DESC, id DESC").
		First(&session).Error; err != nil {
		return nil, nil
	}
	return &session, nil
}

func (s *RaffleService) activeNicknames(roomID uint) ([]string, error) {
	var nicknames []string
	err := s.db.Model(&models.Participant{}).
		Where("room_id = ? AND is_active = ?", roomID, true).
		Order("created_at ASC").
		Pluck("nickname", &nicknames).Error
	return nicknames, err
}

func (s *RaffleService) adminRoom(roomID, adminID uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.Where("id = ? AND admin_id = ?", roomID, adminID).First(&room).Error; err != nil {
		return nil, errors.New("room not found")
	}
	return &room, nil
}
