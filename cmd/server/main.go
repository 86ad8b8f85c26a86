package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizcraft/quiz-session-service/internal/bank"
	"github.com/quizcraft/quiz-session-service/internal/cache"
	"github.com/quizcraft/quiz-session-service/internal/config"
	"github.com/quizcraft/quiz-session-service/internal/handlers"
	"github.com/quizcraft/quiz-session-service/internal/services"
	"github.com/quizcraft/quiz-session-service/internal/utils"
	"github.com/quizcraft/quiz-session-service/internal/validator"
	"github.com/quizcraft/quiz-session-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	slogger := utils.ToSlogLogger(logger)

	// Bank caching is optional; without Redis the bank is parsed on every
	// startup, which is fine for small files.
	cacheService := cache.NewNoop()
	if cfg.RedisURL != "" {
		client, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, continuing without bank cache", "error", err)
		} else {
			defer client.Close()
			cacheService = cache.NewRedisCache(client, slogger)
		}
	}

	v := validator.New()
	loader := bank.NewLoader(v, cacheService, slogger)
	b, err := loader.Load(context.Background(), cfg.BankPath)
	if err != nil {
		logger.Error("Failed to load question bank", "path", cfg.BankPath, "error", err)
		os.Exit(1)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	sessionService := services.NewSessionService(services.SessionServiceConfig{
		Bank:           b,
		EventPublisher: publisher,
		Logger:         slogger,
		ShuffleSeed:    cfg.ShuffleSeed,
	})
	defer sessionService.Close()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlers.NewHandlerManager(sessionService, v, logger).SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting quiz session service", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
}
