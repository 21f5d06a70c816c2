package handlers

import (
	"net/http"
	"strconv"

	"github.com/whdcks5588-jpg/event-kit/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      WebSocket connection for room updates
// @Description  Connect via WebSocket to receive real-time room events
// @Tags         websocket
// @Param        id path int true "Room ID"
// @Router       /ws/room/{id} [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.Errorf("websocket upgrade error: %v", err)
		return
	}

	rid := uint(roomID)
	h.hub.AddConnection(rid, conn)
	defer h.hub.RemoveConnection(rid, conn)

	// Clients only listen; drain until they disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
