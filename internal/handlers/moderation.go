package handlers

import (
	"net/http"

	"github.com/whdcks5588-jpg/event-kit/internal/services"
	"github.com/whdcks5588-jpg/event-kit/internal/ws"

	"github.com/gin-gonic/gin"
)

// ModerationHandler exposes the soft-delete admin actions. Nothing here
// removes rows; it flips visibility flags.
type ModerationHandler struct {
	chatService     *services.ChatService
	presenceService *services.PresenceService
	hub             *ws.Hub
}

func NewModerationHandler(chatService *services.ChatService, presenceService *services.PresenceService, hub *ws.Hub) *ModerationHandler {
	return &ModerationHandler{chatService: chatService, presenceService: presenceService, hub: hub}
}

// BlockMessage godoc
// @Summary      Hide a chat message
// @Tags         moderation
// @Security     BearerAuth
// @Param        id path int true "Message ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/messages/{id}/block [post]
func (h *ModerationHandler) BlockMessage(c *gin.Context) {
	messageID, ok := parseID(c, "id")
	if !ok {
		return
	}

	message, err := h.chatService.BlockMessage(messageID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(message.RoomID, ws.WSMessage{Type: ws.EventMessageBlocked, Data: gin.H{"id": message.ID}})
	c.JSON(http.StatusOK, MessageResponse{Message: "message blocked"})
}

// BlockParticipant godoc
// @Summary      Deactivate a participant
// @Description  Removes them from the raffle pool and the live counter; their history stays.
// @Tags         moderation
// @Security     BearerAuth
// @Param        id path int true "Participant ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/participants/{id}/block [post]
func (h *ModerationHandler) BlockParticipant(c *gin.Context) {
	participantID, ok := parseID(c, "id")
	if !ok {
		return
	}

	participant, err := h.presenceService.Block(participantID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(participant.RoomID, ws.WSMessage{Type: ws.EventParticipantBlocked, Data: participant})
	c.JSON(http.StatusOK, MessageResponse{Message: "participant blocked"})
}

// ListParticipants godoc
// @Summary      All participants of a room, including inactive
// @Tags         moderation
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {array} map[string]interface{}
// @Router       /api/v1/rooms/{id}/participants [get]
func (h *ModerationHandler) ListParticipants(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	participants, err := h.presenceService.ListParticipants(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, participants)
}
