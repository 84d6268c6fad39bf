package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/patrimonia/portal/application/usecase"
	"github.com/patrimonia/portal/infrastructure/config"
	gatewayhttp "github.com/patrimonia/portal/infrastructure/http"
	"github.com/patrimonia/portal/infrastructure/http/handler"
	"github.com/patrimonia/portal/infrastructure/http/middleware"
	"github.com/patrimonia/portal/infrastructure/persistence/memory"
	"github.com/patrimonia/portal/infrastructure/persistence/postgres"
	"github.com/patrimonia/portal/infrastructure/persistence/redis"
	"github.com/patrimonia/portal/infrastructure/service/logger"
	"github.com/patrimonia/portal/infrastructure/service/ratelimit"
	"github.com/patrimonia/portal/infrastructure/session"
	"github.com/patrimonia/portal/pkg/backend"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "portal-gateway",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env":     cfg.Environment,
		"backend": cfg.BackendBaseURL,
		"store":   cfg.SessionStore,
	})

	factory, cleanup, err := buildStorageFactory(cfg)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize session storage", err, map[string]interface{}{
			"store": cfg.SessionStore,
		})
		os.Exit(1)
	}
	defer cleanup()

	expiredCode := cfg.BackendExpiredCode
	template := backend.Config{
		BaseURL:        cfg.BackendBaseURL,
		LoginPath:      cfg.BackendLoginPath,
		CSRFPath:       cfg.BackendCSRFPath,
		RefreshPath:    cfg.BackendRefreshPath,
		RequestTimeout: cfg.BackendRequestTimeout,
		RefreshTimeout: cfg.BackendRefreshTimeout,
		Expired: func(status int, env backend.Envelope) bool {
			return status == http.StatusUnauthorized && env.Code == expiredCode
		},
	}

	sessions, err := session.NewManager(template, factory, logger.Logrus(structuredLogger), cfg.SessionTTL)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize session manager", err, nil)
		os.Exit(1)
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	sessions.StartSweeper(sweepCtx, cfg.SessionTTL/4)

	limiter, err := ratelimit.New(ratelimit.Config{
		Enabled:  cfg.RateLimitEnabled,
		RedisURL: cfg.RedisURL,
	}, logger.Logrus(structuredLogger))
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize rate limiter", err, nil)
		os.Exit(1)
	}

	authUC := usecase.NewAuthUseCase(sessions, sessions, structuredLogger)
	appointmentUC := usecase.NewAppointmentUseCase(sessions, structuredLogger)
	messagingUC := usecase.NewMessagingUseCase(sessions, structuredLogger)
	educationUC := usecase.NewEducationUseCase(sessions, structuredLogger)
	contactUC := usecase.NewContactUseCase(sessions, structuredLogger)
	adminUC := usecase.NewAdminUseCase(sessions, sessions, structuredLogger)
	poller := usecase.NewPoller(messagingUC, cfg.PollInterval, structuredLogger)

	handlers := gatewayhttp.Handlers{
		Auth:        handler.NewAuthHandler(authUC),
		Appointment: handler.NewAppointmentHandler(appointmentUC),
		Messaging:   handler.NewMessagingHandler(messagingUC, poller, cfg.PollTimeout),
		Education:   handler.NewEducationHandler(educationUC),
		Contact:     handler.NewContactHandler(contactUC),
		Admin:       handler.NewAdminHandler(adminUC),
	}
	middlewares := gatewayhttp.Middlewares{
		Auth: middleware.NewAuthMiddleware(sessions),
		RateLimit: middleware.NewRateLimitMiddleware(limiter, middleware.RateLimitConfig{
			IPAttempts:    cfg.RateLimitIPAttempts,
			IPWindow:      cfg.RateLimitIPWindow,
			LoginAttempts: cfg.RateLimitLoginAttempts,
			LoginWindow:   cfg.RateLimitLoginWindow,
			BlockDuration: cfg.RateLimitBlockDuration,
		}, structuredLogger),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      gatewayhttp.NewRouter(cfg, handlers, middlewares),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.PollTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		structuredLogger.Info(ctx, "HTTP server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			structuredLogger.Error(ctx, "HTTP server failed", err, nil)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	structuredLogger.Info(ctx, "Shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Graceful shutdown failed", err, nil)
	}
}

// buildStorageFactory selects the session storage driver. The factory hands
// each browser session its own storage namespace; cleanup closes whatever
// connection the driver holds.
func buildStorageFactory(cfg *config.Config) (session.StorageFactory, func(), error) {
	switch cfg.SessionStore {
	case "redis":
		store, err := redis.NewStore(cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		return store.Namespace, func() { store.Close() }, nil

	case "postgres":
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		store, err := postgres.NewStore(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store.Namespace, func() { db.Close() }, nil

	default:
		store := memory.NewStore()
		return store.Namespace, func() {}, nil
	}
}
