package services

import (
	"errors"
	"strings"

	"github.com/whdcks5588-jpg/event-kit/internal/models"

	"gorm.io/gorm"
)

type RoomService struct {
	db *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{db: db}
}

func (s *RoomService) CreateRoom(adminID uint, title string) (*models.Room, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("room title is required")
	}

	room := models.Room{
		AdminID:        adminID,
		Title:          strings.TrimSpace(title),
		Status:         models.RoomStatusWaiting,
		CurrentProgram: models.ProgramChat,
		QuizPhase:      models.QuizPhaseWaiting,
	}
	if err := s.db.Create(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RoomService) GetRoom(roomID uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		return nil, errors.New("room not found")
	}
	return &room, nil
}

func (s *RoomService) ListRooms(adminID uint) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.db.Where("admin_id = ?", adminID).
		Order("created_at DESC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// SetProgram switches the active program. There is no transition guard beyond
// room existence: the admin bounces between programs freely and reversibly.
func (s *RoomService) SetProgram(roomID, adminID uint, program string) (*models.Room, error) {
	if !models.ValidProgram(program) {
		return nil, errors.New("unknown program")
	}

	room, err := s.adminRoom(roomID, adminID)
	if err != nil {
		return nil, err
	}

	room.CurrentProgram = program
	if err := s.db.Save(room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) SetStatus(roomID, adminID uint, status string) (*models.Room, error) {
	if status != models.RoomStatusWaiting && status != models.RoomStatusActive {
		return nil, errors.New("unknown status")
	}

	room, err := s.adminRoom(roomID, adminID)
	if err != nil {
		return nil, err
	}

	room.Status = status
	if err := s.db.Save(room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

// SetDisplayFlag toggles the fullscreen display overrides. Flags take
// precedence over the current program on the display client.
func (s *RoomService) SetDisplayFlag(roomID, adminID uint, flag string, value bool) (*models.Room, error) {
	room, err := s.adminRoom(roomID, adminID)
	if err != nil {
		return nil, err
	}

	switch flag {
	case models.DisplayFlagQROnly:
		room.ShowQROnly = value
	case models.DisplayFlagLogoOnly:
		room.ShowLogoOnly = value
	default:
		return nil, errors.New("unknown display flag")
	}

	if err := s.db.Save(room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) SetLogo(roomID, adminID uint, logoURL string) (*models.Room, error) {
	room, err := s.adminRoom(roomID, adminID)
	if err != nil {
		return nil, err
	}

	room.LogoURL = logoURL
	if err := s.db.Save(room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

// DeleteRoom removes the room and every child aggregate. This is the only
// path that hard-deletes participants and messages.
func (s *RoomService) DeleteRoom(roomID, adminID uint) error {
	room, err := s.adminRoom(roomID, adminID)
	if err != nil {
		return err
	}

	var projectIDs []uint
	s.db.Model(&models.QuizProject{}).Where("room_id = ?", room.ID).Pluck("id", &projectIDs)

	var sessionIDs []uint
	s.db.Model(&models.QuizSession{}).Where("room_id = ?", room.ID).Pluck("id", &sessionIDs)
	if len(sessionIDs) > 0 {
		s.db.Where("session_id IN ?", sessionIDs).Delete(&models.QuizAnswer{})
	}
	s.db.Where("room_id = ?", room.ID).Delete(&models.QuizSession{})
	if len(projectIDs) > 0 {
		s.db.Where("id IN ?", projectIDs).Delete(&models.QuizProject{})
	}

	var pollIDs []uint
	s.db.Model(&models.PollSession{}).Where("room_id = ?", room.ID).Pluck("id", &pollIDs)
	if len(pollIDs) > 0 {
		s.db.Where("poll_id IN ?", pollIDs).Delete(&models.PollVote{})
	}
	s.db.Where("room_id = ?", room.ID).Delete(&models.PollSession{})
	s.db.Where("room_id = ?", room.ID).Delete(&models.RaffleSession{})
	s.db.Where("room_id = ?", room.ID).Delete(&models.Message{})
	s.db.Where("room_id = ?", room.ID).Delete(&models.Participant{})

	return s.db.Delete(&models.Room{}, room.ID).Error
}

// GetAdminRoom fetches a room scoped to its owning admin.
func (s *RoomService) GetAdminRoom(roomID, adminID uint) (*models.Room, error) {
	return s.adminRoom(roomID, adminID)
}

func (s *RoomService) adminRoom(roomID, adminID uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.Where("id = ? AND admin_id = ?", roomID, adminID).First(&room).Error; err != nil {
		return nil, errors.New("room not found")
	}
	return &room, nil
}
