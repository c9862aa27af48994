package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/queensconnect/civic-navigate/internal/alert"
	"github.com/queensconnect/civic-navigate/internal/classifier"
	"github.com/queensconnect/civic-navigate/internal/metrics"
	"github.com/queensconnect/civic-navigate/internal/oracle"
	"github.com/queensconnect/civic-navigate/internal/pipeline"
	"github.com/queensconnect/civic-navigate/internal/prompts"
	"github.com/queensconnect/civic-navigate/internal/quota"
	"github.com/queensconnect/civic-navigate/internal/server"
	"github.com/queensconnect/civic-navigate/internal/storage"
	"github.com/queensconnect/civic-navigate/internal/vocab"
	"github.com/queensconnect/civic-navigate/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		store, err = storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Prompt templates, grounded in the home region
	library, err := prompts.New(cfg.Region.Name)
	if err != nil {
		logger.Fatal("Failed to load prompt templates", zap.Error(err))
	}

	// Text-completion oracle
	llm := oracle.NewOpenAIOracle(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		time.Duration(cfg.OpenAI.TimeoutSeconds)*time.Second,
		logger,
	)

	// Optional ops alerter
	var alerter alert.Alerter
	if cfg.Alerts.TelegramToken != "" {
		tg, err := alert.NewTelegramAlerter(cfg.Alerts.TelegramToken, cfg.Alerts.TelegramChatID, logger)
		if err != nil {
			logger.Warn("Failed to create telegram alerter, continuing without alerts", zap.Error(err))
		} else {
			alerter = tg
		}
	}

	// Assemble the pipeline
	p := pipeline.New(pipeline.Config{
		Guard:      quota.NewGuard(store, cfg.Quota.DailyLimit, logger),
		Loader:     vocab.NewLoader(store, logger),
		Crisis:     classifier.NewCrisisClassifier(llm, library, logger),
		Router:     classifier.NewRouter(llm, library, logger),
		Answerer:   classifier.NewAnswerer(llm, library, logger),
		Alerter:    alerter,
		Region:     cfg.Region.Name,
		SafetyText: pipeline.SafetyMessage(cfg.Region.CrisisHotline, cfg.Region.ResourcesSection),
		Logger:     logger,
	})

	metrics.Init()

	handler := server.NewNavigateHandler(p, logger)
	router := server.NewRouter(handler, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
}
