package models

import "time"

type PollSession struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	RoomID    uint       `gorm:"not null;index" json:"room_id"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Options   []string   `gorm:"serializer:json" json:"options"`
	Status    string     `gorm:"size:20;not null;default:'active'" json:"status"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type PollVote struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PollID        uint      `gorm:"not null;uniqueIndex:idx_poll_vote_unique" json:"poll_id"`
	ParticipantID uint      `gorm:"not null;uniqueIndex:idx_poll_vote_unique" json:"participant_id"`
	OptionIndex   int       `gorm:"not null" json:"option_index"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	PollStatusWaiting = "waiting"
	PollStatusActive  = "active"
	PollStatusEnded   = "ended"
)
