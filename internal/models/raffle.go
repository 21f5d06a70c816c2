package models

import "time"

type RaffleConfig struct {
	Min int `json:"min,omitempty"`
	Max int `json:"max,omitempty"`
}

// RaffleSession is one draw. Re-running a draw means a new session; the one
// shown on the display is always the most recently created per room.
type RaffleSession struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	RoomID    uint         `gorm:"not null;index" json:"room_id"`
	Mode      string       `gorm:"size:20;not null" json:"mode"`
	Config    RaffleConfig `gorm:"serializer:json" json:"config"`
	Status    string       `gorm:"size:20;not null;default:'waiting'" json:"status"`
	Result    string       `gorm:"size:255" json:"result,omitempty"`
	StartedAt *time.Time   `json:"started_at,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

const (
	RaffleModeNumberRange = "number_range"
	RaffleModeNicknames   = "nicknames"

	RaffleStatusWaiting  = "waiting"
	RaffleStatusSpinning = "spinning"
	RaffleStatusEnded    = "ended"

	// RaffleNoParticipants is stored as the result when the nickname pool is
	// empty at draw time.
	RaffleNoParticipants = "(no participants)"
)
