package database

import (
	"fmt"

	"github.com/whdcks5588-jpg/event-kit/internal/config"
	"github.com/whdcks5588-jpg/event-kit/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	logrus.Info("database connected")
	return db
}

func AutoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Admin{},
		&models.Room{},
		&models.Participant{},
		&models.Message{},
		&models.QuizProject{},
		&models.QuizSession{},
		&models.QuizAnswer{},
		&models.RaffleSession{},
		&models.PollSession{},
		&models.PollVote{},
	)
	if err != nil {
		logrus.Fatalf("failed to auto-migrate: %v", err)
	}
	logrus.Info("database migrated")
}
