package handlers

import (
	"net/http"

	"github.com/whdcks5588-jpg/event-kit/internal/services"
	"github.com/whdcks5588-jpg/event-kit/internal/ws"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	pollService *services.PollService
	hub         *ws.Hub
}

func NewPollHandler(pollService *services.PollService, hub *ws.Hub) *PollHandler {
	return &PollHandler{pollService: pollService, hub: hub}
}

type CreatePollRequest struct {
	Title   string   `json:"title" binding:"required"`
	Options []string `json:"options" binding:"required"`
}

// CreateAndStart godoc
// @Summary      Publish a poll live
// @Tags         poll
// @Accept       json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Param        request body CreatePollRequest true "Poll"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/rooms/{id}/polls [post]
func (h *PollHandler) CreateAndStart(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.pollService.CreateAndStart(roomID, adminID, req.Title, req.Options)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(roomID, ws.WSMessage{Type: ws.EventPollUpdated, Data: session})
	c.JSON(http.StatusCreated, session)
}

// End godoc
// @Summary      End a poll; its tally stays queryable
// @Tags         poll
// @Security     BearerAuth
// @Param        id path int true "Poll ID"
// @Success      200 {object} map[string]interface{}
// @Router       /api/v1/polls/{id}/end [post]
func (h *PollHandler) End(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	pollID, ok := parseID(c, "id")
	if !ok {
		return
	}

	session, err := h.pollService.End(pollID, adminID)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(session.RoomID, ws.WSMessage{Type: ws.EventPollUpdated, Data: session})
	c.JSON(http.StatusOK, session)
}

// GetTally godoc
// @Summary      Vote counts and percentages for a poll
// @Tags         poll
// @Param        id path int true "Poll ID"
// @Success      200 {object} services.PollTally
// @Router       /api/v1/polls/{id}/tally [get]
func (h *PollHandler) GetTally(c *gin.Context) {
	pollID, ok := parseID(c, "id")
	if !ok {
		return
	}

	tally, err := h.pollService.Tally(pollID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, tally)
}

// GetActive godoc
// @Summary      Latest poll of a room
// @Tags         poll
// @Param        id path int true "Room ID"
// @Success      200 {object} map[string]interface{}
// @Router       /api/v1/rooms/{id}/polls/active [get]
func (h *PollHandler) GetActive(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	session, err := h.pollService.GetActive(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}
