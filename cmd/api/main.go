package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/eventhub/internal/config"
	"github.com/joshua-takyi/eventhub/internal/connect"
	"github.com/joshua-takyi/eventhub/internal/container"
	"github.com/joshua-takyi/eventhub/internal/lib/logger/sl"
	"github.com/joshua-takyi/eventhub/internal/routes"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables; later files do not override earlier ones
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", sl.Err(err))
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting EventHub API server", "environment", cfg.Environment)

	mongoClient, err := connect.MongoDBConnect(context.Background(), cfg.MongoDBURI, cfg.MongoDBPassword)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("Connected to MongoDB successfully", "database", cfg.MongoDBDatabase)

	var redisClient *redis.Client
	if cfg.RateLimitEnabled() {
		redisClient, err = connect.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to configure Redis", sl.Err(err))
			os.Exit(1)
		}
		if err := connect.RedisHealthCheck(context.Background(), redisClient); err != nil {
			logger.Warn("Redis unreachable, rate limiting will fail open", sl.Err(err))
		} else {
			logger.Info("Connected to Redis successfully", "limit_per_minute", cfg.RateLimitPerMinute)
		}
	}

	appContainer := container.NewContainer(logger, cfg, mongoClient, redisClient)
	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", sl.Err(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", sl.Err(err))
	}

	appContainer.Close()
	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	switch {
	case cfg.IsProduction():
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		})
	case cfg.IsDevelopment():
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		})
	}

	return slog.New(handler)
}
