package handlers

import (
	"net/http"

	"github.com/whdcks5588-jpg/event-kit/internal/services"
	"github.com/whdcks5588-jpg/event-kit/internal/ws"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *services.QuizService
	hub         *ws.Hub
}

func NewQuizHandler(quizService *services.QuizService, hub *ws.Hub) *QuizHandler {
	return &QuizHandler{quizService: quizService, hub: hub}
}

type CreateProjectRequest struct {
	Title string `json:"title" binding:"required"`
}

type StartProjectRequest struct {
	ProjectID uint `json:"project_id" binding:"required"`
}

type MoveQuestionRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// CreateProject godoc
// @Summary      Create a quiz project in a room
// @Tags         quiz
// @Accept       json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Param        request body CreateProjectRequest true "Project"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/rooms/{id}/quiz/projects [post]
func (h *QuizHandler) CreateProject(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	project, err := h.quizService.CreateProject(roomID, adminID, req.Title)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, project)
}

// ListProjects godoc
// @Summary      List quiz projects of a room
// @Tags         quiz
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {array} map[string]interface{}
// @Router       /api/v1/rooms/{id}/quiz/projects [get]
func (h *QuizHandler) ListProjects(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	projects, err := h.quizService.ListProjects(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, projects)
}

// DeleteProject godoc
// @Summary      Delete a quiz project and its questions
// @Tags         quiz
// @Security     BearerAuth
// @Param        id path int true "Project ID"
// @Router       /api/v1/quiz/projects/{id} [delete]
func (h *QuizHandler) DeleteProject(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.DeleteProject(projectID, adminID); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "project deleted"})
}

// AddQuestion godoc
// @Summary      Append a question to a project
// @Tags         quiz
// @Accept       json
// @Security     BearerAuth
// @Param        id path int true "Project ID"
// @Param        request body services.QuestionInput true "Question"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/quiz/projects/{id}/questions [post]
func (h *QuizHandler) AddQuestion(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.quizService.AddQuestion(projectID, adminID, input)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListQuestions godoc
// @Summary      List a project's questions in order
// @Tags         quiz
// @Security     BearerAuth
// @Param        id path int true "Project ID"
// @Router       /api/v1/quiz/projects/{id}/questions [get]
func (h *QuizHandler) ListQuestions(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	questions, err := h.quizService.ListQuestions(projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, questions)
}

// UpdateQuestion godoc
// @Summary      Update a question
// @Tags         quiz
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Router       /api/v1/quiz/questions/{id} [put]
func (h *QuizHandler) UpdateQuestion(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.quizService.UpdateQuestion(questionID, adminID, input)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}

// DeleteQuestion godoc
// @Summary      Delete a question
// @Tags         quiz
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Router       /api/v1/quiz/questions/{id} [delete]
func (h *QuizHandler) DeleteQuestion(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.DeleteQuestion(questionID, adminID); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "question deleted"})
}

// MoveQuestion godoc
// @Summary      Swap a question with its neighbor
// @Tags         quiz
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Router       /api/v1/quiz/questions/{id}/move [post]
func (h *QuizHandler) MoveQuestion(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req MoveQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.quizService.MoveQuestion(questionID, adminID, req.Direction); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "question moved"})
}

// StartProject godoc
// @Summary      Start a clean run of a quiz project
// @Description  Resets every question, deletes all previous answers and activates question 0.
// @Tags         quiz
// @Accept       json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Param        request body StartProjectRequest true "Project"
// @Success      200 {object} services.QuizState
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/rooms/{id}/quiz/start [post]
func (h *QuizHandler) StartProject(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req StartProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	state, err := h.quizService.StartProject(roomID, req.ProjectID, adminID)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(roomID, ws.WSMessage{Type: ws.EventQuizState, Data: state})
	c.JSON(http.StatusOK, state)
}

// Advance godoc
// @Summary      Advance the quiz phase machine
// @Description  question → grading → reveal → next question or ended.
// @Tags         quiz
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} services.QuizState
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/rooms/{id}/quiz/advance [post]
func (h *QuizHandler) Advance(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	state, err := h.quizService.Advance(roomID, adminID)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(roomID, ws.WSMessage{Type: ws.EventQuizState, Data: state})
	c.JSON(http.StatusOK, state)
}

// ToggleRanking godoc
// @Summary      Toggle the ranking overlay
// @Tags         quiz
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} services.QuizState
// @Router       /api/v1/rooms/{id}/quiz/ranking [post]
func (h *QuizHandler) ToggleRanking(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	state, err := h.quizService.ToggleRanking(roomID, adminID)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(roomID, ws.WSMessage{Type: ws.EventQuizState, Data: state})
	c.JSON(http.StatusOK, state)
}

// GetState godoc
// @Summary      Current quiz snapshot for a room
// @Tags         quiz
// @Param        id path int true "Room ID"
// @Success      200 {object} services.QuizState
// @Router       /api/v1/rooms/{id}/quiz/state [get]
func (h *QuizHandler) GetState(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	state, err := h.quizService.State(roomID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}

// GetRanking godoc
// @Summary      Top-10 ranking of a project
// @Tags         quiz
// @Param        id path int true "Project ID"
// @Success      200 {array} services.RankingEntry
// @Router       /api/v1/quiz/projects/{id}/ranking [get]
func (h *QuizHandler) GetRanking(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	ranking, err := h.quizService.Ranking(projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ranking)
}
