package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/config"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/database"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/handler"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/interfaces"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/messaging"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/middleware"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/service"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/worker"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()
	appLogger.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	dbPool, err := setupDatabase(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()
	appLogger.Info("Connected to PostgreSQL")

	if err := database.RunMigrations(dbPool, appLogger); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Repositories
	storyRepo := database.NewPgStoryRepository(appLogger)
	sessionRepo := database.NewPgSessionRepository(appLogger)

	var pageRepo interfaces.PageRepository = database.NewPgPageRepository(appLogger)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			appLogger.Warn("Redis unreachable, page cache disabled", zap.Error(err))
		} else {
			pageRepo = database.NewRedisPageCache(pageRepo, redisClient, cfg.PageCacheTTL, appLogger)
			appLogger.Info("Redis page cache enabled", zap.String("addr", cfg.RedisAddr))
		}
		cancel()
	}

	// Event publisher (optional)
	publisher := messaging.NewNopSessionEventPublisher()
	if cfg.RabbitMQURL != "" {
		rabbitConn, err := connectRabbitMQ(cfg.RabbitMQURL, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer rabbitConn.Close()

		publisher, err = messaging.NewRabbitMQSessionEventPublisher(rabbitConn, cfg.SessionEventsQueue, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create session event publisher", zap.Error(err))
		}
		appLogger.Info("Connected to RabbitMQ", zap.String("queue", cfg.SessionEventsQueue))
	}

	txManager := database.NewPgxTxManager(dbPool)
	gameService := service.NewGameService(storyRepo, pageRepo, sessionRepo, txManager, dbPool, publisher, appLogger)
	statsService := service.NewStatsService(storyRepo, pageRepo, sessionRepo, dbPool, appLogger)
	gameHandler := handler.NewGameHandler(gameService, statsService, appLogger, cfg.JWTSecret)

	// Background sweeper for idle sessions
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	sweeper := worker.NewSessionSweeper(sessionRepo, dbPool, cfg.SweepInterval, cfg.SessionIdleTimeout, appLogger)
	go sweeper.Run(sweeperCtx)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewCustomValidator()
	e.Use(middleware.EchoZapLogger(appLogger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		if err := dbPool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	gameHandler.RegisterRoutes(e)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()
	appLogger.Info("Server listening", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutdown signal received")

	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		appLogger.Error("Graceful shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}

// setupDatabase builds the pgx pool from config and verifies connectivity.
func setupDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MaxConnIdleTime = cfg.DBIdleTimeout

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	dbPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err = dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return dbPool, nil
}

// connectRabbitMQ dials the broker with a few retries before giving up.
func connectRabbitMQ(url string, logger *zap.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	maxRetries := 5
	retryDelay := 5 * time.Second
	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_delay", retryDelay),
			zap.Error(err),
		)
		time.Sleep(retryDelay)
	}
	return nil, err
}
