package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeRoomPurge = "room:purge"

type RoomPurgePayload struct {
	RoomID uint `json:"room_id"`
	Chat   bool `json:"chat"`
	Quiz   bool `json:"quiz"`
}

func NewRoomPurgeTask(roomID uint, chat, quiz bool) (*asynq.Task, error) {
	payload, err := json.Marshal(RoomPurgePayload{RoomID: roomID, Chat: chat, Quiz: quiz})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRoomPurge, payload), nil
}
