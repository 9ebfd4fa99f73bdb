package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"family-meal-planner/internal/app"
	"family-meal-planner/internal/config"
	"family-meal-planner/internal/database"
	"family-meal-planner/internal/httpapi"
	"family-meal-planner/internal/logging"
	"family-meal-planner/internal/share"
	"family-meal-planner/internal/telegram"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.NewDB(cfg.DBPath, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	var signer *share.Signer
	if cfg.ShareTokenSecret != "" {
		signer, err = share.NewSigner(cfg.ShareTokenSecret, cfg.ShareTokenTTL, nil)
		if err != nil {
			logger.Fatal("failed to initialize share signer", zap.Error(err))
		}
	} else {
		logger.Info("share links disabled, SHARE_TOKEN_SECRET not set")
	}

	application := app.NewApp(cfg, logger, db, signer)
	if err := application.LoadCatalog(context.Background()); err != nil {
		logger.Fatal("failed to load recipe catalog", zap.Error(err))
	}

	var webhook http.Handler
	if cfg.TelegramBotToken != "" {
		bot, err := telegram.NewBot(cfg, logger.Named("telegram"), application)
		if err != nil {
			logger.Fatal("failed to initialize telegram bot", zap.Error(err))
		}
		webhook = bot.Handler()
	}

	srv := httpapi.NewServer(cfg.Port, logger.Named("http"), application, webhook)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exiting")
}
