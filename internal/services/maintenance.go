package services

import (
	"errors"

	"github.com/whdcks5588-jpg/event-kit/internal/models"

	"gorm.io/gorm"
)

// MaintenanceService owns the destructive bulk-delete path. Unlike
// moderation's soft flags this performs real deletes; it is admin-gated and
// not recoverable.
type MaintenanceService struct {
	db *gorm.DB
}

func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: db}
}

// PurgeRoom deletes the selected history for a room. purgeQuiz removes the
// full project → session → answer subtree and resets the room's quiz cursor
// to defaults.
func (s *MaintenanceService) PurgeRoom(roomID uint, purgeChat, purgeQuiz bool) error {
	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		return errors.New("room not found")
	}

	if purgeChat {
		if err := s.db.Where("room_id = ?", roomID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
	}

	if purgeQuiz {
		var sessionIDs []uint
		s.db.Model(&models.QuizSession{}).Where("room_id = ?", roomID).Pluck("id", &sessionIDs)
		if len(sessionIDs) > 0 {
			if err := s.db.Where("session_id IN ?", sessionIDs).Delete(&models.QuizAnswer{}).Error; err != nil {
				return err
			}
		}
		if err := s.db.Where("room_id = ?", roomID).Delete(&models.QuizSession{}).Error; err != nil {
			return err
		}
		if err := s.db.Where("room_id = ?", roomID).Delete(&models.QuizProject{}).Error; err != nil {
			return err
		}

		if err := s.db.Model(&models.Room{}).Where("id = ?", roomID).
			Updates(map[string]interface{}{
				"quiz_project_id":    nil,
				"quiz_phase":         models.QuizPhaseWaiting,
				"quiz_current_index": 0,
				"quiz_prev_phase":    "",
			}).Error; err != nil {
			return err
		}
	}

	return nil
}
