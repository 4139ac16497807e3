// cmd/historian/main.go pops match records from the Redis queue and persists them to PostgreSQL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/throneroom/internal/cache"
	"github.com/jason-s-yu/throneroom/internal/config"
	"github.com/jason-s-yu/throneroom/internal/database"
	"github.com/jason-s-yu/throneroom/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Connect(ctx, cfg.Postgres); err != nil {
		logrus.Fatalf("database: %v", err)
	}
	defer database.Close()

	rdb, err := cache.Connect(ctx, cfg.Redis)
	if err != nil {
		logrus.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	svc := historian.New(rdb, database.InsertGameRecords, historian.Config{
		QueueName:  cfg.Historian.QueueName,
		BatchSize:  cfg.Historian.BatchSize,
		FlushDelay: cfg.Historian.FlushDelay,
	}, logrus.StandardLogger())

	if err := svc.Run(ctx); err != nil {
		logrus.Errorf("historian: %v", err)
	}
}
