package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/netdesk/internal/api/http"
	"github.com/spec-kit/netdesk/internal/api/http/handlers"
	"github.com/spec-kit/netdesk/internal/auth"
	"github.com/spec-kit/netdesk/internal/config"
	"github.com/spec-kit/netdesk/internal/events"
	"github.com/spec-kit/netdesk/internal/observability"
	"github.com/spec-kit/netdesk/internal/persistence"
	"github.com/spec-kit/netdesk/internal/repository"
	"github.com/spec-kit/netdesk/internal/service"
	"github.com/spec-kit/netdesk/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	slaRepo := repository.NewSLARepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	addressRepo := repository.NewAddressRepository(pool)
	categoryRepo := repository.NewIssueCategoryRepository(pool)
	refreshRepo := repository.NewRefreshTokenRepository(pool)
	txManager := repository.NewTxManager(pool)

	revoker := persistence.NewTokenRevoker(redis)
	dispatcher := events.NewInMemoryDispatcher()

	metrics := observability.NewMetrics()
	if cfg.Metrics.Enabled {
		go metrics.Serve(ctx, cfg.Metrics.Addr, logger)
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:         userRepo,
		RefreshTokenRepo: refreshRepo,
		Revoker:          revoker,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		UserRepo:       userRepo,
		SLARepo:        slaRepo,
		AssignmentRepo: assignmentRepo,
		CategoryRepo:   categoryRepo,
		AddressRepo:    addressRepo,
		TxManager:      txManager,
		Dispatcher:     dispatcher,
	})
	feedbackService := service.NewFeedbackService(service.FeedbackDependencies{
		FeedbackRepo: feedbackRepo,
		TicketRepo:   ticketRepo,
		TxManager:    txManager,
		Dispatcher:   dispatcher,
	})
	userService := service.NewUserService(userRepo)
	slaService := service.NewSLAService(slaRepo)
	addressService := service.NewAddressService(addressRepo, userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, revoker)
	loginLimiter := auth.NewLoginRateLimiter(cfg.App.LoginRatePerMinute, cfg.App.LoginBurst)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:           handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:             handlers.NewAuthHandler(authService),
		Users:            handlers.NewUsersHandler(userService, authService),
		Tickets:          handlers.NewTicketsHandler(ticketService, feedbackService),
		SLA:              handlers.NewSLAHandler(slaService),
		Address:          handlers.NewAddressHandler(addressService),
		Category:         handlers.NewCategoryHandler(categoryService),
		AuthMiddleware:   authMiddleware,
		LoginRateLimiter: loginLimiter,
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
