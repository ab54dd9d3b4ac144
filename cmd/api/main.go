package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"mediatube/internal/config"
	"mediatube/internal/db"
	apihttp "mediatube/internal/http"
	"mediatube/internal/repository"
	"mediatube/internal/service"
	"mediatube/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	objectStore, err := storage.NewMinioStorage(cfg)
	if err != nil {
		logger.Fatal("object storage init", zap.Error(err))
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Fatal("ensure bucket", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		logger.Fatal("temp dir", zap.Error(err))
	}

	var loginLimiter service.LoginRateLimiter = service.NewLoginRateLimiter(time.Minute, 10)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, time.Minute, 10)
		}
		cancel()
	}

	userRepo := repository.NewPgUserRepository(pool)
	tokenSvc := service.NewTokenService(service.TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessTTL:     time.Duration(cfg.AccessTokenTTLMinutes) * time.Minute,
		RefreshTTL:    time.Duration(cfg.RefreshTokenTTLMinutes) * time.Minute,
	})
	mediaSvc := service.NewMediaService(logger, objectStore)
	sessionSvc := service.NewSessionService(logger, userRepo, tokenSvc, loginLimiter)
	registrationSvc := service.NewRegistrationService(logger, userRepo, mediaSvc)
	userSvc := service.NewUserService(logger, userRepo, mediaSvc)

	userHandler := apihttp.NewUserHandler(logger, registrationSvc, sessionSvc, userSvc, apihttp.UserHandlerOptions{
		TempDir:       cfg.TempDir,
		SecureCookies: cfg.IsProduction(),
		AccessTTL:     time.Duration(cfg.AccessTokenTTLMinutes) * time.Minute,
		RefreshTTL:    time.Duration(cfg.RefreshTokenTTLMinutes) * time.Minute,
	})
	healthHandler := apihttp.NewHealthHandler(pool)
	router := apihttp.NewRouter(logger, tokenSvc, userHandler, healthHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
