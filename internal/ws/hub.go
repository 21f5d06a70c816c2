package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event types broadcast on a room topic. Every subscriber of a room (admin,
// display, participants) receives the same stream.
const (
	EventRoomUpdated        = "room_updated"
	EventParticipantJoined  = "participant_joined"
	EventParticipantUpdated = "participant_updated"
	EventParticipantBlocked = "participant_blocked"
	EventMessageNew         = "message_new"
	EventMessageBlocked     = "message_blocked"
	EventQuizState          = "quiz_state"
	EventRaffleUpdated      = "raffle_updated"
	EventPollUpdated        = "poll_updated"
	EventPollVotes          = "poll_votes"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans row changes out to every connection subscribed to a room.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[uint]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(roomID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[roomID][conn] = true
	logrus.WithFields(logrus.Fields{"room_id": roomID, "total": len(h.rooms[roomID])}).
		Info("ws: client connected")
}

func (h *Hub) RemoveConnection(roomID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.rooms[roomID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
		logrus.WithField("room_id", roomID).Info("ws: client disconnected")
	}
}

// Broadcast delivers a message to every connection on the room topic. A
// failed write drops that connection; the client converges on reconnect.
func (h *Hub) Broadcast(roomID uint, message WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.rooms[roomID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		logrus.Errorf("ws: marshal error: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logrus.Errorf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
}
