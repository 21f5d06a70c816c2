package handlers

import (
	"net/http"

	"github.com/whdcks5588-jpg/event-kit/internal/services"
	"github.com/whdcks5588-jpg/event-kit/internal/ws"

	"github.com/gin-gonic/gin"
)

type RaffleHandler struct {
	raffleService *services.RaffleService
	hub           *ws.Hub
}

func NewRaffleHandler(raffleService *services.RaffleService, hub *ws.Hub) *RaffleHandler {
	return &RaffleHandler{raffleService: raffleService, hub: hub}
}

type CreateRaffleRequest struct {
	Mode string `json:"mode" binding:"required"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
}

// CreateAndStart godoc
// @Summary      Create a raffle and start spinning
// @Tags         raffle
// @Accept       json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Param        request body CreateRaffleRequest true "Raffle"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/rooms/{id}/raffles [post]
func (h *RaffleHandler) CreateAndStart(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CreateRaffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.raffleService.CreateAndStart(roomID, adminID, req.Mode, req.Min, req.Max)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(roomID, ws.WSMessage{Type: ws.EventRaffleUpdated, Data: session})
	c.JSON(http.StatusCreated, session)
}

// Draw godoc
// @Summary      Decide the raffle result
// @Tags         raffle
// @Security     BearerAuth
// @Param        id path int true "Raffle session ID"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/raffles/{id}/draw [post]
func (h *RaffleHandler) Draw(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	sessionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	session, err := h.raffleService.Draw(sessionID, adminID)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(session.RoomID, ws.WSMessage{Type: ws.EventRaffleUpdated, Data: session})
	c.JSON(http.StatusOK, session)
}

// GetActive godoc
// @Summary      Latest raffle session of a room
// @Tags         raffle
// @Param        id path int true "Room ID"
// @Success      200 {object} map[string]interface{}
// @Router       /api/v1/rooms/{id}/raffles/active [get]
func (h *RaffleHandler) GetActive(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	session, err := h.raffleService.GetActive(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}
