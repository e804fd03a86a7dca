package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/vamsrich/sap-itsm-platform-sub000/internal/api/http"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/api/http/handlers"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/config"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/events"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/observability"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/persistence"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/repository"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/service"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/sla/tracker"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/worker"
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
	contractRepo := repository.NewContractRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	trackingRepo := repository.NewSLATrackingRepository(pool)
	pauseRepo := repository.NewPauseEventRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	scheduleCache := persistence.NewScheduleCache(redis, cfg.SLA.ScheduleCacheTTL(), logger)

	slaService := service.NewSLAService(service.SLADependencies{
		Engine:       tracker.NewEngine(cfg.SLA.LookaheadDays),
		ContractRepo: contractRepo,
		TrackingRepo: trackingRepo,
		PauseRepo:    pauseRepo,
		TicketRepo:   ticketRepo,
		Cache:        scheduleCache,
		Dispatcher:   dispatcher,
		Logger:       logger,
		Metrics:      metrics,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		ContractRepo: contractRepo,
		SLA:          slaService,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	sweepWorker, err := worker.NewSweepWorker(slaService, cfg.SLA.SweepCron, logger)
	if err != nil {
		logger.Fatal("failed to init sweep worker", zap.Error(err))
	}
	sweepWorker.Start()
	defer sweepWorker.Stop()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets: handlers.NewTicketsHandler(ticketService),
		SLA:     handlers.NewSLAHandler(slaService),
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
