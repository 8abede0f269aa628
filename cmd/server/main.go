// cmd/server/main.go
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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"taskkeeper/internal/config"
	"taskkeeper/internal/handlers"
	"taskkeeper/internal/service"
	"taskkeeper/internal/session"
	"taskkeeper/internal/storage"
	"taskkeeper/pkg/auth"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Storage
	userStore, err := storage.NewUserStore(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Fatal("init user store", zap.Error(err))
	}
	taskStore, err := storage.NewTaskStore(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Fatal("init task store", zap.Error(err))
	}

	// Sessions
	sessions, err := newSessionStore(cfg)
	if err != nil {
		logger.Fatal("init session store", zap.Error(err))
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logger.Warn("close session store", zap.Error(err))
		}
	}()
	logger.Info("session store ready", zap.String("backend", cfg.Session.Backend))

	// Services
	passwords := auth.NewPasswordManagerWithCost(cfg.Auth.BcryptCost)
	authService := service.NewAuthService(userStore, sessions, passwords)
	taskService := service.NewTaskService(taskStore)

	router := handlers.NewRouter(cfg, logger, authService, taskService, sessions)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("taskkeeper listening", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("server shutdown complete")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newSessionStore(cfg *config.Config) (session.Store, error) {
	if cfg.Session.Backend == config.SessionBackendRedis {
		return session.NewRedisStore(cfg.Session.RedisAddr, cfg.Session.TTL)
	}
	return session.NewMemoryStore(cfg.Session.TTL), nil
}
