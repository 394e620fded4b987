package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/nourabuild/contacts-service/internal/app"
	"github.com/nourabuild/contacts-service/internal/config"
	"github.com/nourabuild/contacts-service/internal/limiter"
	"github.com/nourabuild/contacts-service/internal/metrics"
	"github.com/nourabuild/contacts-service/internal/migrate"
	"github.com/nourabuild/contacts-service/internal/sdk/sqldb"
	"github.com/nourabuild/contacts-service/internal/services/avatar"
	"github.com/nourabuild/contacts-service/internal/services/hash"
	"github.com/nourabuild/contacts-service/internal/services/mail"
	"github.com/nourabuild/contacts-service/internal/services/sentry"
	"github.com/nourabuild/contacts-service/internal/services/token"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func run() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	logger.Info("GOMAXPROCS", "cpu", runtime.GOMAXPROCS(0))

	// 1. Load Configuration
	cfg := config.Load()

	ctx := context.Background()

	// 2. Initialize Database
	dbService, err := sqldb.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer dbService.Close()

	if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// 3. Initialize Rate Limiter
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// The limiter fails open, so a missing Redis degrades instead of blocking startup.
		logger.Warn("redis unavailable, rate limiting disabled", "error", err)
	}
	rateLimiter := limiter.NewRedis(redisClient, cfg.RateLimit, cfg.RateLimitWindow)

	// 4. Initialize Services
	hashService := hash.NewHashService()
	tokenService := token.NewTokenService()
	mailService := mail.NewMailService()
	sentryService := sentry.NewSentryService()
	defer sentryService.Close()

	avatarService := avatar.NewAvatarService()
	if avatarService == nil {
		return errors.New("initializing avatar storage: invalid minio configuration")
	}
	if err := avatarService.EnsureBucket(ctx); err != nil {
		logger.Warn("avatar bucket unavailable", "error", err)
	}

	httpMetrics := metrics.New(prometheus.DefaultRegisterer)

	// 5. Initialize App
	app := app.NewApp(
		cfg,
		dbService,
		tokenService,
		hashService,
		mailService,
		avatarService,
		sentryService,
		rateLimiter,
		httpMetrics,
	)

	// 6. Configure Server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// 7. Graceful Shutdown Logic
	done := make(chan bool, 1)
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down gracefully, press Ctrl+C again to force")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server forced to shutdown", "error", err)
		}
		done <- true
	}()

	// 8. Start Server
	logger.Info("Starting server", "port", srv.Addr)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}

	<-done
	logger.Info("Graceful shutdown complete")
	return nil
}
