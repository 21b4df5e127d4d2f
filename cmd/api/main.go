package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/blood4life/internal/api/http"
	"github.com/spec-kit/blood4life/internal/api/http/handlers"
	"github.com/spec-kit/blood4life/internal/auth"
	"github.com/spec-kit/blood4life/internal/config"
	"github.com/spec-kit/blood4life/internal/events"
	"github.com/spec-kit/blood4life/internal/observability"
	"github.com/spec-kit/blood4life/internal/persistence"
	"github.com/spec-kit/blood4life/internal/realtime"
	"github.com/spec-kit/blood4life/internal/repository"
	"github.com/spec-kit/blood4life/internal/service"
	"github.com/spec-kit/blood4life/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	donorRepo := repository.NewDonorRepository(pool)
	hospitalRepo := repository.NewHospitalRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	publisher := realtime.NewRedisPublisher(redis.Client, logger)
	hub := realtime.NewHub(redis.Client, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		DonorRepo:    donorRepo,
		HospitalRepo: hospitalRepo,
		AdminRepo:    adminRepo,
		Dispatcher:   dispatcher,
	})
	notificationService := service.NewNotificationService(notificationRepo, publisher, logger)
	statsService := service.NewStatsService(donorRepo, publisher, logger)

	worker.NewNotificationWorker(notificationService, statsService, logger).Register(dispatcher)

	resolver := auth.NewPrincipalResolver(donorRepo, hospitalRepo, adminRepo)
	gate := auth.NewGate(authService.TokenCodec(), resolver, logger)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:          handlers.NewAuthHandler(authService),
		Notifications: handlers.NewNotificationsHandler(notificationService),
		WS:            handlers.NewWSHandler(hub),
		Gate:          gate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
