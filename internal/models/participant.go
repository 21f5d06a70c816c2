package models

import "time"

// Participant is one joined device/session. The session token is the sole
// re-authentication credential; a participant is present while is_active and
// last_seen_at falls within the liveness window.
type Participant struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RoomID       uint      `gorm:"not null;index" json:"room_id"`
	Nickname     string    `gorm:"size:100;not null" json:"nickname"`
	SessionToken string    `gorm:"size:64;uniqueIndex;not null" json:"session_token,omitempty"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	LastSeenAt   time.Time `gorm:"not null" json:"last_seen_at"`
	CreatedAt    time.Time `json:"created_at"`
}

type Message struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RoomID        uint      `gorm:"not null;index" json:"room_id"`
	ParticipantID uint      `gorm:"not null" json:"participant_id"`
	Nickname      string    `gorm:"size:100;not null" json:"nickname"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	IsBlocked     bool      `gorm:"not null;default:false" json:"is_blocked"`
	CreatedAt     time.Time `json:"created_at"`
}
