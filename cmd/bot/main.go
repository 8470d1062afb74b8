package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/timetable_bot/internal/app"
	"github.com/Freeeeeet/timetable_bot/internal/config"
	"github.com/Freeeeeet/timetable_bot/internal/controller"
	"github.com/Freeeeeet/timetable_bot/internal/controller/handlers"
	"github.com/Freeeeeet/timetable_bot/internal/repository"
	"github.com/Freeeeeet/timetable_bot/internal/repository/base"
	"github.com/Freeeeeet/timetable_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Sugar().Infow("Starting timetable bot",
		"environment", cfg.Environment,
		"token_length", len(cfg.TelegramToken))

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	offeringRepo := repository.NewCourseOfferingRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	txManager := base.NewTxManager(pool, cfg.TxMaxRetries, cfg.TxRetryBaseDelay, logger)

	// Сервисы
	capacity := service.NewCapacityTracker(enrollmentRepo)
	detector := service.NewConflictDetector(slotRepo, offeringRepo, logger)
	userService := service.NewUserService(userRepo, logger)
	enrollmentService := service.NewEnrollmentService(txManager, offeringRepo, userRepo, enrollmentRepo, capacity, logger)
	bulkService := service.NewBulkEnrollmentService(enrollmentService, offeringRepo, userRepo, logger)
	scheduleService := service.NewScheduleService(txManager, slotRepo, detector, logger)
	offeringService := service.NewOfferingService(txManager, offeringRepo, catalogRepo, capacity, logger)

	cmdHandlers := handlers.NewHandlers(
		userService,
		enrollmentService,
		bulkService,
		scheduleService,
		offeringService,
		cfg.BulkEnrollTimeout,
		logger,
	)

	opts := []bot.Option{
		bot.WithDefaultHandler(cmdHandlers.HandleUnknown),
		bot.WithErrorsHandler(func(err error) {
			logger.Error("Telegram client error", zap.Error(err))
		}),
	}
	if !cfg.IsProduction() {
		opts = append(opts, bot.WithDebug())
	}

	b, err := bot.New(cfg.TelegramToken, opts...)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(b, cmdHandlers, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		return err
	}

	return botController.Start(ctx)
}
