package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/whdcks5588-jpg/event-kit/internal/services"
	"github.com/whdcks5588-jpg/event-kit/internal/tasks"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// RoomPurgeHandler executes the destructive room history cleanup off the
// request path.
type RoomPurgeHandler struct {
	maintenance *services.MaintenanceService
}

func NewRoomPurgeHandler(maintenance *services.MaintenanceService) *RoomPurgeHandler {
	return &RoomPurgeHandler{maintenance: maintenance}
}

func (h *RoomPurgeHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.RoomPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logrus.WithError(err).Error("purge: bad task payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"room_id": payload.RoomID,
		"chat":    payload.Chat,
		"quiz":    payload.Quiz,
	})
	logCtx.Info("purge: processing room purge task")

	if err := h.maintenance.PurgeRoom(payload.RoomID, payload.Chat, payload.Quiz); err != nil {
		logCtx.WithError(err).Error("purge: failed")
		return err
	}

	logCtx.Info("purge: done")
	return nil
}
