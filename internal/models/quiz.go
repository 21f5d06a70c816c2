package models

import "time"

// QuizProject is an ordered run of questions scoped to a room.
type QuizProject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    uint      `gorm:"not null;index" json:"room_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// QuizSession is a single question. OrderIndex values within one project are
// unique and dense (0..N-1). ProjectID is nullable for legacy standalone
// sessions; the current flow always sets it.
type QuizSession struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	RoomID           uint       `gorm:"not null;index" json:"room_id"`
	ProjectID        *uint      `gorm:"index" json:"project_id,omitempty"`
	Title            string     `gorm:"size:255" json:"title"`
	Question         string     `gorm:"type:text;not null" json:"question"`
	Options          []string   `gorm:"serializer:json" json:"options"`
	CorrectAnswer    *int       `json:"correct_answer,omitempty"`
	Points           int        `gorm:"not null;default:10" json:"points"`
	TimeLimitSeconds int        `gorm:"not null;default:30" json:"time_limit_seconds"`
	Status           string     `gorm:"size:20;not null;default:'waiting'" json:"status"`
	ImageURL         string     `gorm:"size:500" json:"image_url,omitempty"`
	OrderIndex       int        `gorm:"not null;default:0" json:"order_index"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// QuizAnswer holds one submission. IsCorrect stays nil until grading. The
// unique index makes the second insert for a pair fail at the store, which
// callers interpret as "already answered".
type QuizAnswer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SessionID     uint      `gorm:"not null;uniqueIndex:idx_quiz_answer_unique" json:"session_id"`
	ParticipantID uint      `gorm:"not null;uniqueIndex:idx_quiz_answer_unique" json:"participant_id"`
	Nickname      string    `gorm:"size:100;not null" json:"nickname"`
	Answer        int       `gorm:"not null" json:"answer"`
	IsCorrect     *bool     `json:"is_correct,omitempty"`
	SubmittedAt   time.Time `gorm:"index" json:"submitted_at"`
}

const (
	QuizPhaseWaiting  = "waiting"
	QuizPhaseQuestion = "question"
	QuizPhaseGrading  = "grading"
	QuizPhaseReveal   = "reveal"
	QuizPhaseRanking  = "ranking"
	QuizPhaseEnded    = "ended"

	QuizStatusWaiting = "waiting"
	QuizStatusActive  = "active"
	QuizStatusEnded   = "ended"
)
