package services_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/whdcks5588-jpg/event-kit/internal/database"
	"github.com/whdcks5588-jpg/event-kit/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a named in-memory database so each test gets its own
// isolated schema while all connections within the test share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.AutoMigrate(db)
	return db
}

func seedRoom(t *testing.T, db *gorm.DB) (*models.Admin, *models.Room) {
	t.Helper()

	admin := models.Admin{Username: "host_" + strings.ReplaceAll(t.Name(), "/", "_"), PasswordHash: "unused"}
	require.NoError(t, db.Create(&admin).Error)

	room := models.Room{
		AdminID:        admin.ID,
		Title:          "launch night",
		Status:         models.RoomStatusActive,
		CurrentProgram: models.ProgramChat,
		QuizPhase:      models.QuizPhaseWaiting,
	}
	require.NoError(t, db.Create(&room).Error)
	return &admin, &room
}

func seedParticipant(t *testing.T, db *gorm.DB, roomID uint, nickname string) *models.Participant {
	t.Helper()

	p := models.Participant{
		RoomID:       roomID,
		Nickname:     nickname,
		SessionToken: uuid.NewString(),
		IsActive:     true,
		LastSeenAt:   time.Now(),
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}
