package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/centrex/auth-service/config"
	"github.com/centrex/auth-service/internal/handler"
	"github.com/centrex/auth-service/internal/middleware"
	"github.com/centrex/auth-service/internal/repository"
	"github.com/centrex/auth-service/internal/router"
	"github.com/centrex/auth-service/internal/service"
	"github.com/centrex/auth-service/pkg/database"
	"github.com/centrex/auth-service/pkg/logger"
	redisclient "github.com/centrex/auth-service/pkg/redis"
	"github.com/centrex/auth-service/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	zlog := logger.GetLogger()
	zlog.Info("Starting auth service",
		zap.String("environment", cfg.App.Environment),
		zap.String("port", cfg.App.Port),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.CloseDB(db); err != nil {
			zlog.Error("Failed to close database", zap.Error(err))
		}
	}()

	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}

	cache := redisclient.NewClient(redisclient.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		Enabled:      cfg.Redis.Enabled,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, zlog)
	defer func() {
		if err := cache.Close(); err != nil {
			zlog.Error("Failed to close Redis client", zap.Error(err))
		}
	}()

	if err := validation.RegisterCustomValidators(); err != nil {
		zlog.Fatal("Failed to register validators", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	tokenService := service.NewTokenService(tokenRepo, cache, cfg.Token.Secret, cfg.Token.Expiration)
	auditService := service.NewAuditService(auditRepo)
	authService := service.NewAuthService(userRepo, deviceRepo, tokenService, auditService)

	handlers := router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Health: handler.NewHealthHandler(db, cache),
	}
	authMW := middleware.NewAuthMiddleware(tokenService)

	engine := router.Setup(cfg, handlers, authMW)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info("HTTP server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Expired session tokens are dead weight once past their expiry;
	// sweep them in the background.
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go runTokenCleanup(cleanupCtx, tokenRepo, zlog)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}

	zlog.Info("Server stopped")
}

func runTokenCleanup(ctx context.Context, tokens *repository.TokenRepository, zlog *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := tokens.DeleteExpired(ctx)
			if err != nil {
				zlog.Warn("Expired token sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				zlog.Info("Expired tokens removed", zap.Int64("count", removed))
			}
		}
	}
}
