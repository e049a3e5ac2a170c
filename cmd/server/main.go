package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/cache"
	"github.com/SAP-F-2025/evaluation-service/internal/config"
	"github.com/SAP-F-2025/evaluation-service/internal/evaluation"
	"github.com/SAP-F-2025/evaluation-service/internal/events"
	"github.com/SAP-F-2025/evaluation-service/internal/handlers"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/evaluation-service/internal/services"
	"github.com/SAP-F-2025/evaluation-service/internal/utils"
	"github.com/SAP-F-2025/evaluation-service/internal/validator"
	"github.com/SAP-F-2025/evaluation-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.Environment)
	slog.SetDefault(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	repo := postgres.NewRepository(db)

	serviceCfg := services.EvaluationServiceConfig{
		CacheTTL:    cfg.QuestionCacheTTL,
		Concurrency: cfg.EvaluationConcurrency,
	}
	if cfg.CacheEnabled {
		zapLogger, err := utils.NewZapLogger(cfg.Environment)
		if err != nil {
			logger.Error("Failed to build cache logger", "error", err)
			os.Exit(1)
		}
		defer zapLogger.Sync()

		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			// questions are read straight from the database without a cache
			logger.Warn("Redis unavailable, question cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			serviceCfg.Cache = cache.NewRedisCache(redisClient, zapLogger)
		}
	}

	publisher, err := cfg.Events.NewPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		// evaluations still succeed; events are only logged
		publisher = events.NewMockEventPublisher(logger)
	}
	defer publisher.Close()

	evaluationService := services.NewEvaluationService(repo, evaluation.NewEngine(), publisher, logger, validator.New(), serviceCfg)
	exportService := services.NewExportService(repo, logger)

	router := handlers.NewHandlerManager(evaluationService, exportService, utils.NewSlogLogger(logger)).NewRouter()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting evaluation service", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
