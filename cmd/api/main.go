// @title Quiz Sentinel API
// @version 1.0
// @description Adaptive quiz generation and panic-button alerts.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_ALERT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quiz-sentinel/internal/adapter"
	"quiz-sentinel/internal/adapter/notifier"
	"quiz-sentinel/internal/adapter/quizgen"
	"quiz-sentinel/internal/cache"
	"quiz-sentinel/internal/config"
	"quiz-sentinel/internal/database"
	"quiz-sentinel/internal/domain"
	"quiz-sentinel/internal/handler"
	"quiz-sentinel/internal/logger"
	"quiz-sentinel/internal/middleware"
	"quiz-sentinel/internal/repository"
	"quiz-sentinel/internal/service"

	_ "quiz-sentinel/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	source, err := quizgen.NewQuestionSource(startCtx, cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create question source", zap.Error(err))
	}
	appLogger.Info("Question source initialized", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))

	// Redis is optional; without it session history lives in memory.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(startCtx, cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("RedisCacheAdapter initialized", zap.String("address", cfg.Redis.Address))
	}
	history := service.NewSessionHistoryService(cacheAdapter, cfg.Quiz.HistoryTTL)

	var runRepository domain.RunRepository
	if dsn := cfg.GetDSN(); dsn != "" {
		db, err := database.NewSQLXOracleDB(startCtx, dsn)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		runRepository = repository.NewRunDatabaseAdapter(db, repository.NewTransactionManagerAdapter(db))
		appLogger.Info("Run repository initialized")
	} else {
		appLogger.Warn("No database configured, quiz runs are kept only in the session history")
	}

	quizService := service.NewQuizService(source, history, runRepository, cfg.Quiz)

	alertNotifier, err := notifier.New(cfg.Notifier, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create notifier", zap.Error(err))
	}
	dispatcher := service.NewAlertDispatcher(alertNotifier, cfg.Alert)
	alertController := service.NewAlertControllerService(dispatcher, cfg.Alert)
	defer alertController.Close()

	tokenService, err := service.NewTokenService(cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create TokenService", zap.Error(err))
	}

	quizHandler := handler.NewQuizHandler(quizService)
	alertHandler := handler.NewAlertHandler(alertController, tokenService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	handler.RegisterRoutes(app, quizHandler, alertHandler, tokenService)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
