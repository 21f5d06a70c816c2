package models

import "time"

// Room is a single event's namespace. It carries the active program pointer,
// the display-only flags and the quiz cursor; the last writer wins on
// conflicting field updates since exactly one admin drives a room at a time.
type Room struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	AdminID          uint      `gorm:"not null;index" json:"admin_id"`
	Admin            Admin     `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Status           string    `gorm:"size:20;not null;default:'waiting'" json:"status"`
	CurrentProgram   string    `gorm:"size:20;not null;default:'chat'" json:"current_program"`
	ShowQROnly       bool      `gorm:"not null;default:false" json:"show_qr_only"`
	ShowLogoOnly     bool      `gorm:"not null;default:false" json:"show_logo_only"`
	LogoURL          string    `gorm:"size:500" json:"logo_url,omitempty"`
	QuizProjectID    *uint     `json:"quiz_project_id,omitempty"`
	QuizPhase        string    `gorm:"size:20;not null;default:'waiting'" json:"quiz_phase"`
	QuizCurrentIndex int       `gorm:"not null;default:0" json:"quiz_current_index"`
	QuizPrevPhase    string    `gorm:"size:20" json:"quiz_prev_phase,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

const (
	RoomStatusWaiting = "waiting"
	RoomStatusActive  = "active"

	ProgramChat   = "chat"
	ProgramQuiz   = "quiz"
	ProgramRaffle = "raffle"
	ProgramPoll   = "poll"

	DisplayFlagQROnly   = "qr_only"
	DisplayFlagLogoOnly = "logo_only"
)

func ValidProgram(p string) bool {
	switch p {
	case ProgramChat, ProgramQuiz, ProgramRaffle, ProgramPoll:
		return true
	}
	return false
}
