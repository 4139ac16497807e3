// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/throneroom/internal/auth"
	"github.com/jason-s-yu/throneroom/internal/cache"
	"github.com/jason-s-yu/throneroom/internal/config"
	"github.com/jason-s-yu/throneroom/internal/database"
	"github.com/jason-s-yu/throneroom/internal/handlers"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := auth.Init(cfg.TokenTTL); err != nil {
		logger.Fatalf("auth: %v", err)
	}
	if err := database.Connect(ctx, cfg.Postgres); err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer database.Close()
	if err := database.Migrate(ctx); err != nil {
		logger.Fatalf("database: %v", err)
	}

	rdb, err := cache.Connect(ctx, cfg.Redis)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	ls := handlers.NewLobbyServer(
		handlers.PostgresAccounts{},
		cache.NewRecordPublisher(rdb, cfg.Historian.QueueName),
		cfg.NodeName,
		logger,
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handlers.NewRouter(ls),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.WithField("node", cfg.NodeName).Infof("Running on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server exited: %v", err)
	}
}
