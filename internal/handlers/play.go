package handlers

import (
	"net/http"

	"github.com/whdcks5588-jpg/event-kit/internal/services"
	"github.com/whdcks5588-jpg/event-kit/internal/ws"

	"github.com/gin-gonic/gin"
)

// PlayHandler serves the participant-facing surface: join/resume/heartbeat,
// chat, answers and votes.
type PlayHandler struct {
	roomService     *services.RoomService
	presenceService *services.PresenceService
	chatService     *services.ChatService
	quizService     *services.QuizService
	pollService     *services.PollService
	raffleService   *services.RaffleService
	hub             *ws.Hub
}

func NewPlayHandler(
	roomService *services.RoomService,
	presenceService *services.PresenceService,
	chatService *services.ChatService,
	quizService *services.QuizService,
	pollService *services.PollService,
	raffleService *services.RaffleService,
	hub *ws.Hub,
) *PlayHandler {
	return &PlayHandler{
		roomService:     roomService,
		presenceService: presenceService,
		chatService:     chatService,
		quizService:     quizService,
		pollService:     pollService,
		raffleService:   raffleService,
		hub:             hub,
	}
}

type JoinRequest struct {
	RoomID   uint   `json:"room_id" binding:"required"`
	Nickname string `json:"nickname" binding:"required,min=2,max=100"`
}

type ResumeRequest struct {
	RoomID uint   `json:"room_id" binding:"required"`
	Token  string `json:"token" binding:"required"`
}

type RenameRequest struct {
	Token    string `json:"token" binding:"required"`
	Nickname string `json:"nickname" binding:"required,min=2,max=100"`
}

type SendMessageRequest struct {
	RoomID        uint   `json:"room_id" binding:"required"`
	ParticipantID uint   `json:"participant_id" binding:"required"`
	Content       string `json:"content" binding:"required"`
}

type SubmitAnswerRequest struct {
	SessionID     uint `json:"session_id" binding:"required"`
	ParticipantID uint `json:"participant_id" binding:"required"`
	Answer        *int `json:"answer" binding:"required"`
}

type VoteRequest struct {
	PollID        uint `json:"poll_id" binding:"required"`
	ParticipantID uint `json:"participant_id" binding:"required"`
	OptionIndex   *int `json:"option_index" binding:"required"`
}

// Join godoc
// @Summary      Join a room as a participant
// @Tags         play
// @Accept       json
// @Param        request body JoinRequest true "Join"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/play/join [post]
func (h *PlayHandler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	participant, err := h.presenceService.Join(req.RoomID, req.Nickname)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(req.RoomID, ws.WSMessage{Type: ws.EventParticipantJoined, Data: participant})
	c.JSON(http.StatusOK, participant)
}

// Resume godoc
// @Summary      Resume a participant session by token
// @Description  Valid within 24h of last_seen_at; on failure the client must discard the token and join again.
// @Tags         play
// @Accept       json
// @Param        request body ResumeRequest true "Resume"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/play/resume [post]
func (h *PlayHandler) Resume(c *gin.Context) {
	var req ResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	participant, err := h.presenceService.Resume(req.RoomID, req.Token)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, participant)
}

// Heartbeat godoc
// @Summary      Refresh participant liveness
// @Tags         play
// @Param        id path int true "Participant ID"
// @Success      200 {object} MessageResponse
// @Router       /api/v1/play/heartbeat/{id} [post]
func (h *PlayHandler) Heartbeat(c *gin.Context) {
	participantID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.presenceService.Heartbeat(participantID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "ok"})
}

// Rename godoc
// @Summary      Change nickname
// @Description  Old messages keep the nickname they were sent with.
// @Tags         play
// @Param        id path int true "Participant ID"
// @Router       /api/v1/play/participants/{id}/nickname [put]
func (h *PlayHandler) Rename(c *gin.Context) {
	participantID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	participant, err := h.presenceService.Rename(participantID, req.Token, req.Nickname)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(participant.RoomID, ws.WSMessage{Type: ws.EventParticipantUpdated, Data: participant})
	c.JSON(http.StatusOK, participant)
}

// SendMessage godoc
// @Summary      Send a chat message
// @Tags         play
// @Accept       json
// @Param        request body SendMessageRequest true "Message"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/play/messages [post]
func (h *PlayHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	message, err := h.chatService.Send(req.RoomID, req.ParticipantID, req.Content)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(req.RoomID, ws.WSMessage{Type: ws.EventMessageNew, Data: message})
	c.JSON(http.StatusCreated, message)
}

// ListMessages godoc
// @Summary      Visible chat messages of a room
// @Tags         play
// @Param        id path int true "Room ID"
// @Success      200 {array} map[string]interface{}
// @Router       /api/v1/rooms/{id}/messages [get]
func (h *PlayHandler) ListMessages(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	messages, err := h.chatService.List(roomID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SubmitAnswer godoc
// @Summary      Submit a quiz answer
// @Description  Accepted only while the room's quiz phase is "question". A repeat submit reads as success.
// @Tags         play
// @Accept       json
// @Param        request body SubmitAnswerRequest true "Answer"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/play/answer [post]
func (h *PlayHandler) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.quizService.Submit(req.SessionID, req.ParticipantID, *req.Answer); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	if session, err := h.quizService.GetSession(req.SessionID); err == nil {
		if state, err := h.quizService.State(session.RoomID); err == nil {
			h.hub.Broadcast(session.RoomID, ws.WSMessage{Type: ws.EventQuizState, Data: state})
		}
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "answer accepted"})
}

// Vote godoc
// @Summary      Vote in the active poll
// @Description  One vote per participant; a repeat vote reads as success.
// @Tags         play
// @Accept       json
// @Param        request body VoteRequest true "Vote"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/play/vote [post]
func (h *PlayHandler) Vote(c *gin.Context) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.pollService.Vote(req.PollID, req.ParticipantID, *req.OptionIndex); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.broadcastPoll(req.PollID)

	c.JSON(http.StatusOK, MessageResponse{Message: "vote accepted"})
}

// GetState godoc
// @Summary      Full room snapshot for a client
// @Tags         play
// @Param        id path int true "Room ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{id}/state [get]
func (h *PlayHandler) GetState(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(roomID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	activeCount, _ := h.presenceService.ActiveCount(roomID)
	messages, _ := h.chatService.List(roomID, 0)
	quizState, _ := h.quizService.State(roomID)
	poll, _ := h.pollService.GetActive(roomID)
	raffle, _ := h.raffleService.GetActive(roomID)

	state := gin.H{
		"room":         room,
		"active_count": activeCount,
		"messages":     messages,
		"quiz":         quizState,
		"poll":         poll,
		"raffle":       raffle,
	}
	if poll != nil {
		if tally, err := h.pollService.Tally(poll.ID); err == nil {
			state["poll_tally"] = tally
		}
	}

	c.JSON(http.StatusOK, state)
}

func (h *PlayHandler) broadcastPoll(pollID uint) {
	tally, err := h.pollService.Tally(pollID)
	if err != nil {
		return
	}
	session, err := h.pollService.GetByID(pollID)
	if err != nil || session == nil {
		return
	}
	h.hub.Broadcast(session.RoomID, ws.WSMessage{Type: ws.EventPollVotes, Data: tally})
}
