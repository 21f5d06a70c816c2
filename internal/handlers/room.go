package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/whdcks5588-jpg/event-kit/internal/services"
	"github.com/whdcks5588-jpg/event-kit/internal/tasks"
	"github.com/whdcks5588-jpg/event-kit/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

type RoomHandler struct {
	roomService *services.RoomService
	hub         *ws.Hub
	asynqClient *asynq.Client
}

func NewRoomHandler(roomService *services.RoomService, hub *ws.Hub, asynqClient *asynq.Client) *RoomHandler {
	return &RoomHandler{roomService: roomService, hub: hub, asynqClient: asynqClient}
}

type CreateRoomRequest struct {
	Title string `json:"title" binding:"required"`
}

type SetProgramRequest struct {
	Program string `json:"program" binding:"required"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type DisplayFlagRequest struct {
	Flag  string `json:"flag" binding:"required"`
	Value bool   `json:"value"`
}

type SetLogoRequest struct {
	LogoURL string `json:"logo_url"`
}

type PurgeRequest struct {
	Chat bool `json:"chat"`
	Quiz bool `json:"quiz"`
}

// CreateRoom godoc
// @Summary      Create an event room
// @Tags         rooms
// @Accept       json
// @Security     BearerAuth
// @Param        request body CreateRoomRequest true "Room"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	adminID := c.GetUint("admin_id")

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.roomService.CreateRoom(adminID, req.Title)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ListRooms godoc
// @Summary      List the admin's rooms
// @Tags         rooms
// @Security     BearerAuth
// @Success      200 {array} map[string]interface{}
// @Router       /api/v1/rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	adminID := c.GetUint("admin_id")

	rooms, err := h.roomService.ListRooms(adminID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// GetRoom godoc
// @Summary      Get one room
// @Tags         rooms
// @Param        id path int true "Room ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{id} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(roomID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, room)
}

// SetProgram godoc
// @Summary      Switch the active program
// @Tags         rooms
// @Accept       json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Param        request body SetProgramRequest true "Program"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{id}/program [put]
func (h *RoomHandler) SetProgram(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SetProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.roomService.SetProgram(roomID, adminID, req.Program)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(room.ID, ws.WSMessage{Type: ws.EventRoomUpdated, Data: room})
	c.JSON(http.StatusOK, room)
}

// SetStatus godoc
// @Summary      Set room status
// @Tags         rooms
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Router       /api/v1/rooms/{id}/status [put]
func (h *RoomHandler) SetStatus(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.roomService.SetStatus(roomID, adminID, req.Status)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(room.ID, ws.WSMessage{Type: ws.EventRoomUpdated, Data: room})
	c.JSON(http.StatusOK, room)
}

// SetDisplayFlag godoc
// @Summary      Toggle a fullscreen display flag
// @Tags         rooms
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Router       /api/v1/rooms/{id}/display [put]
func (h *RoomHandler) SetDisplayFlag(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req DisplayFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.roomService.SetDisplayFlag(roomID, adminID, req.Flag, req.Value)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(room.ID, ws.WSMessage{Type: ws.EventRoomUpdated, Data: room})
	c.JSON(http.StatusOK, room)
}

// SetLogo godoc
// @Summary      Set the room logo URL
// @Tags         rooms
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Router       /api/v1/rooms/{id}/logo [put]
func (h *RoomHandler) SetLogo(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SetLogoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.roomService.SetLogo(roomID, adminID, req.LogoURL)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(room.ID, ws.WSMessage{Type: ws.EventRoomUpdated, Data: room})
	c.JSON(http.StatusOK, room)
}

// DeleteRoom godoc
// @Summary      Delete a room and all its history
// @Tags         rooms
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Router       /api/v1/rooms/{id} [delete]
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.roomService.DeleteRoom(roomID, adminID); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "room deleted"})
}

// PurgeRoom godoc
// @Summary      Bulk-delete chat and/or quiz history for a room
// @Description  Enqueues a background purge. Not recoverable.
// @Tags         rooms
// @Accept       json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Param        request body PurgeRequest true "Selector"
// @Success      202 {object} MessageResponse
// @Router       /api/v1/rooms/{id}/purge [post]
func (h *RoomHandler) PurgeRoom(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	// Ownership check before enqueueing the destructive job.
	if _, err := h.roomService.GetAdminRoom(roomID, adminID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	var req PurgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if !req.Chat && !req.Quiz {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "nothing selected to purge"})
		return
	}

	task, err := tasks.NewRoomPurgeTask(roomID, req.Chat, req.Quiz)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to build purge task"})
		return
	}
	if _, err := h.asynqClient.Enqueue(task); err != nil {
		logrus.WithError(err).Error("failed to enqueue room purge")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to enqueue purge"})
		return
	}

	c.JSON(http.StatusAccepted, MessageResponse{Message: "purge scheduled"})
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// statusFor maps service errors onto HTTP codes. Services phrase every
// absent-reference failure as "<thing> not found"; anything else is a
// validation problem.
func statusFor(err error) int {
	if err != nil && strings.HasSuffix(err.Error(), "not found") {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
