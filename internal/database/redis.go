package database

import (
	"context"

	"github.com/whdcks5588-jpg/event-kit/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

func ConnectRedis(cfg *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to connect to redis: %v", err)
	}
	logrus.Info("redis connected")
	return rdb
}
