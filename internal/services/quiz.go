package services

import (
	"errors"
	"strings"
	"time"

	"github.com/whdcks5588-jpg/event-kit/internal/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

type QuestionInput struct {
	Title            string   `json:"title"`
	Question         string   `json:"question" binding:"required"`
	Options          []string `json:"options" binding:"required"`
	CorrectAnswer    int      `json:"correct_answer"`
	Points           int      `json:"points"`
	TimeLimitSeconds int      `json:"time_limit_seconds"`
	ImageURL         string   `json:"image_url"`
}

func (s *QuizService) CreateProject(roomID, adminID uint, title string) (*models.QuizProject, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("project title is required")
	}
	if _, err := s.adminRoom(roomID, adminID); err != nil {
		return nil, err
	}

	project := models.QuizProject{
		RoomID: roomID,
		Title:  strings.TrimSpace(title),
	}
	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *QuizService) ListProjects(roomID uint) ([]models.QuizProject, error) {
	var projects []models.QuizProject
	if err := s.db.Where("room_id = ?", roomID).
		Order("created_at ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *QuizService) DeleteProject(projectID, adminID uint) error {
	project, err := s.adminProject(projectID, adminID)
	if err != nil {
		return err
	}

	var sessionIDs []uint
	s.db.Model(&models.QuizSession{}).Where("project_id = ?", project.ID).Pluck("id", &sessionIDs)
	if len(sessionIDs) > 0 {
		s.db.Where("session_id IN ?", sessionIDs).Delete(&models.QuizAnswer{})
	}
	s.db.Where("project_id = ?", project.ID).Delete(&models.QuizSession{})

	// If the room's cursor points at this project, clear it.
	s.db.Model(&models.Room{}).
		Where("id = ? AND quiz_project_id = ?", project.RoomID, project.ID).
		Updates(map[string]interface{}{
			"quiz_project_id":    nil,
			"quiz_phase":         models.QuizPhaseWaiting,
			"quiz_current_index": 0,
			"quiz_prev_phase":    "",
		})

	return s.db.Delete(&models.QuizProject{}, project.ID).Error
}

func (s *QuizService) AddQuestion(projectID, adminID uint, input QuestionInput) (*models.QuizSession, error) {
	project, err := s.adminProject(projectID, adminID)
	if err != nil {
		return nil, err
	}

	options := filterBlank(input.Options)
	if len(options) < 2 {
		return nil, errors.New("question needs at least 2 options")
	}
	if input.CorrectAnswer < 0 || input.CorrectAnswer >= len(options) {
		return nil, errors.New("correct answer index out of range")
	}
	if input.Points <= 0 {
		input.Points = 10
	}
	if input.TimeLimitSeconds <= 0 {
		input.TimeLimitSeconds = 30
	}

	var count int64
	s.db.Model(&models.QuizSession{}).Where("project_id = ?", project.ID).Count(&count)

	correct := input.CorrectAnswer
	session := models.QuizSession{
		RoomID:           project.RoomID,
		ProjectID:        &project.ID,
		Title:            strings.TrimSpace(input.Title),
		Question:         strings.TrimSpace(input.Question),
		Options:          options,
		CorrectAnswer:    &correct,
		Points:           input.Points,
		TimeLimitSeconds: input.TimeLimitSeconds,
		Status:           models.QuizStatusWaiting,
		ImageURL:         input.ImageURL,
		OrderIndex:       int(count),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *QuizService) UpdateQuestion(questionID, adminID uint, input QuestionInput) (*models.QuizSession, error) {
	session, err := s.adminQuestion(questionID, adminID)
	if err != nil {
		return nil, err
	}

	options := filterBlank(input.Options)
	if len(options) < 2 {
		return nil, errors.New("question needs at least 2 options")
	}
	if input.CorrectAnswer < 0 || input.CorrectAnswer >= len(options) {
		return nil, errors.New("correct answer index out of range")
	}

	session.Title = strings.TrimSpace(input.Title)
	session.Question = strings.TrimSpace(input.Question)
	session.Options = options
	correct := input.CorrectAnswer
	session.CorrectAnswer = &correct
	if input.Points > 0 {
		session.Points = input.Points
	}
	if input.TimeLimitSeconds > 0 {
		session.TimeLimitSeconds = input.TimeLimitSeconds
	}
	session.ImageURL = input.ImageURL

	if err := s.db.Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteQuestion removes a question and re-densifies order_index so the
// remaining ones stay 0..N-1.
func (s *QuizService) DeleteQuestion(questionID, adminID uint) error {
	session, err := s.adminQuestion(questionID, adminID)
	if err != nil {
		return err
	}
	if session.ProjectID == nil {
		return errors.New("question does not belong to a project")
	}

	s.db.Where("session_id = ?", session.ID).Delete(&models.QuizAnswer{})
	if err := s.db.Delete(&models.QuizSession{}, session.ID).Error; err != nil {
		return err
	}

	return s.db.Model(&models.QuizSession{}).
		Where("project_id = ? AND order_index > ?", *session.ProjectID, session.OrderIndex).
		Update("order_index", gorm.Expr("order_index - 1")).Error
}

// MoveQuestion swaps a question with its neighbor in the given direction
// ("up" or "down").
func (s *QuizService) MoveQuestion(questionID, adminID uint, direction string) error {
	session, err := s.adminQuestion(questionID, adminID)
	if err != nil {
		return err
	}
	if session.ProjectID == nil {
		return errors.New("question does not belong to a project")
	}

	neighborIndex := session.OrderIndex + 1
	if direction == "up" {
		neighborIndex = session.OrderIndex - 1
	} else if direction != "down" {
		return errors.New("direction must be up or down")
	}

	var neighbor models.QuizSession
	if err := s.db.Where("project_id = ? AND order_index = ?", *session.ProjectID, neighborIndex).
		First(&neighbor).Error; err != nil {
		return errors.New("question is already at the edge")
	}

	s.db.Model(&models.QuizSession{}).Where("id = ?", neighbor.ID).
		Update("order_index", session.OrderIndex)
	return s.db.Model(&models.QuizSession{}).Where("id = ?", session.ID).
		Update("order_index", neighborIndex).Error
}

func (s *QuizService) ListQuestions(projectID uint) ([]models.QuizSession, error) {
	var sessions []models.QuizSession
	if err := s.db.Where("project_id = ?", projectID).
		Order("order_index ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// StartProject begins a clean run: every question resets to waiting, all
// previous answers are deleted, question 0 activates and the room cursor
// points at it. Destructive on purpose; re-running needs explicit intent.
func (s *QuizService) StartProject(roomID, projectID, adminID uint) (*QuizState, error) {
	room, err := s.adminRoom(roomID, adminID)
	if err != nil {
		return nil, err
	}

	var project models.QuizProject
	if err := s.db.Where("id = ? AND room_id = ?", projectID, roomID).
		First(&project).Error; err != nil {
		return nil, errors.New("project not found")
	}

	questions, err := s.ListQuestions(project.ID)
	if err != nil || len(questions) == 0 {
		return nil, errors.New("project has no questions")
	}

	var sessionIDs []uint
	for _, q := range questions {
		sessionIDs = append(sessionIDs, q.ID)
	}
	s.db.Where("session_id IN ?", sessionIDs).Delete(&models.QuizAnswer{})

	s.db.Model(&models.QuizSession{}).Where("project_id = ?", project.ID).
		Updates(map[string]interface{}{
			"status":     models.QuizStatusWaiting,
			"started_at": nil,
			"ended_at":   nil,
		})

	now := time.Now()
	s.db.Model(&models.QuizSession{}).Where("id = ?", questions[0].ID).
		Updates(map[string]interface{}{
			"status":     models.QuizStatusActive,
			"started_at": now,
		})

	room.QuizProjectID = &project.ID
	room.QuizPhase = models.QuizPhaseQuestion
	room.QuizCurrentIndex = 0
	room.QuizPrevPhase = ""
	room.CurrentProgram = models.ProgramQuiz
	if err := s.db.Save(room).Error; err != nil {
		return nil, err
	}

	return s.State(roomID)
}

// Advance drives the per-question phase machine:
// question → grading → reveal → next question | ended.
func (s *QuizService) Advance(roomID, adminID uint) (*QuizState, error) {
	room, err := s.adminRoom(roomID, adminID)
	if err != nil {
		return nil, err
	}
	if room.QuizProjectID == nil {
		return nil, errors.New("no quiz project is running")
	}

	questions, err := s.ListQuestions(*room.QuizProjectID)
	if err != nil || len(questions) == 0 {
		return nil, errors.New("project has no questions")
	}
	if room.QuizCurrentIndex < 0 || room.QuizCurrentIndex >= len(questions) {
		// The project was edited or reset underneath us; refuse to write.
		return nil, errors.New("stale quiz state, restart the project")
	}
	current := questions[room.QuizCurrentIndex]

	switch room.QuizPhase {
	case models.QuizPhaseQuestion:
		// Close the submission window first; scoring happens on the next step
		// so readers never see half-graded answers behind an open window.
		room.QuizPhase = models.QuizPhaseGrading

	case models.QuizPhaseGrading:
		if err := s.grade(&current); err != nil {
			return nil, err
		}
		room.QuizPhase = models.QuizPhaseReveal

	case models.QuizPhaseReveal, models.QuizPhaseRanking:
		if room.QuizCurrentIndex < len(questions)-1 {
			room.QuizCurrentIndex++
			next := questions[room.QuizCurrentIndex]
			now := time.Now()
			s.db.Model(&models.QuizSession{}).Where("id = ?", next.ID).
				Updates(map[string]interface{}{
					"status":     models.QuizStatusActive,
					"started_at": now,
				})
			room.QuizPhase = models.QuizPhaseQuestion
		} else {
			room.QuizPhase = models.QuizPhaseEnded
		}
		room.QuizPrevPhase = ""

	default:
		return nil, errors.New("no question in progress")
	}

	if err := s.db.Save(room).Error; err != nil {
		return nil, err
	}
	return s.State(roomID)
}

// grade recomputes is_correct for every answer of the question from the
// stored correct_answer, then ends the question. Fully recomputable, so a
// retry after a crash mid-grading is safe.
func (s *QuizService) grade(session *models.QuizSession) error {
	if session.CorrectAnswer == nil {
		return errors.New("question has no correct answer set")
	}

	var answers []models.QuizAnswer
	s.db.Where("session_id = ?", session.ID).Find(&answers)
	for _, a := range answers {
		correct := a.Answer == *session.CorrectAnswer
		if err := s.db.Model(&models.QuizAnswer{}).Where("id = ?", a.ID).
			Update("is_correct", correct).Error; err != nil {
			return err
		}
	}

	now := time.Now()
	return s.db.Model(&models.QuizSession{}).Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"status":   models.QuizStatusEnded,
			"ended_at": now,
		}).Error
}

// ToggleRanking overlays the ranking view over reveal or ended and restores
// the previous phase on the second call. Not reentrant: the stored previous
// phase is never ranking itself.
func (s *QuizService) ToggleRanking(roomID, adminID uint) (*QuizState, error) {
	room, err := s.adminRoom(roomID, adminID)
	if err != nil {
		return nil, err
	}

	switch room.QuizPhase {
	case models.QuizPhaseRanking:
		prev := room.QuizPrevPhase
		if prev == "" || prev == models.QuizPhaseRanking {
			prev = models.QuizPhaseReveal
		}
		room.QuizPhase = prev
		room.QuizPrevPhase = ""
	case models.QuizPhaseReveal, models.QuizPhaseEnded:
		room.QuizPrevPhase = room.QuizPhase
		room.QuizPhase = models.QuizPhaseRanking
	default:
		return nil, errors.New("ranking is only available after a reveal")
	}

	if err := s.db.Save(room).Error; err != nil {
		return nil, err
	}
	return s.State(roomID)
}

// Submit records a participant's answer. The room's quiz phase is the
// authoritative gate; session status merely mirrors it. A duplicate for the
// same (session, participant) pair is reported as success.
func (s *QuizService) Submit(sessionID, participantID uint, answer int) error {
	var session models.QuizSession
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return errors.New("question not found")
	}

	var room models.Room
	if err := s.db.First(&room, session.RoomID).Error; err != nil {
		return errors.New("room not found")
	}
	if room.QuizPhase != models.QuizPhaseQuestion {
		return errors.New("question is not accepting answers")
	}
	if room.QuizProjectID == nil || session.ProjectID == nil || *room.QuizProjectID != *session.ProjectID {
		return errors.New("question is not part of the running project")
	}
	if session.OrderIndex != room.QuizCurrentIndex {
		return errors.New("question is not the current one")
	}

	var participant models.Participant
	if err := s.db.First(&participant, participantID).Error; err != nil {
		return errors.New("participant not found")
	}
	if !participant.IsActive {
		return errors.New("participant is blocked")
	}
	if answer < 0 || answer >= len(session.Options) {
		return errors.New("answer index out of range")
	}

	var existing models.QuizAnswer
	if err := s.db.Where("session_id = ? AND participant_id = ?", sessionID, participantID).
		First(&existing).Error; err == nil {
		return nil
	}

	a := models.QuizAnswer{
		SessionID:     sessionID,
		ParticipantID: participantID,
		Nickname:      participant.Nickname,
		Answer:        answer,
		SubmittedAt:   time.Now(),
	}
	if err := s.db.Create(&a).Error; err != nil {
		// The unique index fires on a concurrent duplicate; that still counts
		// as answered.
		if recheck := s.db.Where("session_id = ? AND participant_id = ?", sessionID, participantID).
			First(&existing).Error; recheck == nil {
			return nil
		}
		return err
	}
	return nil
}

func (s *QuizService) GetSession(sessionID uint) (*models.QuizSession, error) {
	var session models.QuizSession
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, errors.New("question not found")
	}
	return &session, nil
}

func (s *QuizService) Ranking(projectID uint) ([]RankingEntry, error) {
	var sessions []models.QuizSession
	if err := s.db.Where("project_id = ?", projectID).Find(&sessions).Error; err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	var sessionIDs []uint
	for _, sess := range sessions {
		sessionIDs = append(sessionIDs, sess.ID)
	}

	var answers []models.QuizAnswer
	if err := s.db.Where("session_id IN ?", sessionIDs).
		Order("submitted_at ASC, id ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}

	return ComputeRanking(sessions, answers), nil
}

type QuizState struct {
	RoomID         uint           `json:"room_id"`
	ProjectID      *uint          `json:"project_id,omitempty"`
	Phase          string         `json:"phase"`
	CurrentIndex   int            `json:"current_index"`
	TotalQuestions int            `json:"total_questions"`
	Question       *QuestionView  `json:"question,omitempty"`
	AnswerCount    int            `json:"answer_count"`
	Ranking        []RankingEntry `json:"ranking,omitempty"`
}

type QuestionView struct {
	ID               uint     `json:"id"`
	Title            string   `json:"title,omitempty"`
	Question         string   `json:"question"`
	Options          []string `json:"options"`
	Points           int      `json:"points"`
	TimeLimitSeconds int      `json:"time_limit_seconds"`
	ImageURL         string   `json:"image_url,omitempty"`
	CorrectAnswer    *int     `json:"correct_answer,omitempty"`
}

// State builds the snapshot every client renders from. The correct answer is
// withheld until the phase has passed reveal.
func (s *QuizService) State(roomID uint) (*QuizState, error) {
	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		return nil, errors.New("room not found")
	}

	state := &QuizState{
		RoomID:       room.ID,
		ProjectID:    room.QuizProjectID,
		Phase:        room.QuizPhase,
		CurrentIndex: room.QuizCurrentIndex,
	}
	if room.QuizProjectID == nil {
		return state, nil
	}

	questions, err := s.ListQuestions(*room.QuizProjectID)
	if err != nil {
		return nil, err
	}
	state.TotalQuestions = len(questions)

	if room.QuizCurrentIndex >= 0 && room.QuizCurrentIndex < len(questions) {
		q := questions[room.QuizCurrentIndex]
		view := QuestionView{
			ID:               q.ID,
			Title:            q.Title,
			Question:         q.Question,
			Options:          q.Options,
			Points:           q.Points,
			TimeLimitSeconds: q.TimeLimitSeconds,
			ImageURL:         q.ImageURL,
		}
		switch room.QuizPhase {
		case models.QuizPhaseReveal, models.QuizPhaseRanking, models.QuizPhaseEnded:
			view.CorrectAnswer = q.CorrectAnswer
		}
		state.Question = &view

		var answerCount int64
		s.db.Model(&models.QuizAnswer{}).Where("session_id = ?", q.ID).Count(&answerCount)
		state.AnswerCount = int(answerCount)
	}

	if room.QuizPhase == models.QuizPhaseRanking || room.QuizPhase == models.QuizPhaseEnded {
		ranking, err := s.Ranking(*room.QuizProjectID)
		if err == nil {
			state.Ranking = ranking
		}
	}

	return state, nil
}

func (s *QuizService) adminRoom(roomID, adminID uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.Where("id = ? AND admin_id = ?", roomID, adminID).First(&room).Error; err != nil {
		return nil, errors.New("room not found")
	}
	return &room, nil
}

func (s *QuizService) adminProject(projectID, adminID uint) (*models.QuizProject, error) {
	var project models.QuizProject
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, errors.New("project not found")
	}
	if _, err := s.adminRoom(project.RoomID, adminID); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *QuizService) adminQuestion(questionID, adminID uint) (*models.QuizSession, error) {
	var session models.QuizSession
	if err := s.db.First(&session, questionID).Error; err != nil {
		return nil, errors.New("question not found")
	}
	if _, err := s.adminRoom(session.RoomID, adminID); err != nil {
		return nil, err
	}
	return &session, nil
}

func filterBlank(options []string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		if strings.TrimSpace(o) != "" {
			out = append(out, strings.TrimSpace(o))
		}
	}
	return out
}
