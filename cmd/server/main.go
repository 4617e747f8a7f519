package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/app"
	"github.com/Freeeeeet/tutor_scheduler/internal/auth"
	"github.com/Freeeeeet/tutor_scheduler/internal/config"
	"github.com/Freeeeeet/tutor_scheduler/internal/controller/rest"
	"github.com/Freeeeeet/tutor_scheduler/internal/events"
	"github.com/Freeeeeet/tutor_scheduler/internal/realtime"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/Freeeeeet/tutor_scheduler/internal/telegram"
	"github.com/Freeeeeet/tutor_scheduler/migrations"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting tutor scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("timezone", cfg.Location.String()),
		zap.Bool("notify_in_same_tx", cfg.NotifyInSameTx))

	pool, err := app.Connect(ctx, cfg.GetDBDSN(), logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.MigrationsAuto {
		migrator, err := app.NewMigrator(pool, migrations.FS, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		_ = migrator.Close()
		if err != nil {
			return err
		}
	}

	// Репозитории
	users := repository.NewUserRepository(pool)
	subjects := repository.NewSubjectRepository(pool)
	assignments := repository.NewAssignmentRepository(pool)
	availability := repository.NewAvailabilityRepository(pool, logger)
	bookings := repository.NewBookingRepository(pool)
	notificationsRepo := repository.NewNotificationRepository(pool)
	txManager := repository.NewTxManager(pool)

	// Каналы доставки
	hub := realtime.NewHub(logger)
	defer hub.CloseAll()

	verifier := auth.NewVerifier(cfg.JWTSecret)

	notifications := service.NewNotificationService(notificationsRepo, cfg.Location, logger, hub)
	notifications.SetPushTimeout(cfg.PushTimeout)

	if cfg.TelegramToken != "" {
		tg, err := telegram.NewBot(cfg.TelegramToken, verifier, users, logger)
		if err != nil {
			return err
		}
		notifications.AddPusher(telegram.NewNotifier(tg.Sender(), users, logger))
		go tg.Start(ctx)
	}

	if cfg.NATSURL != "" {
		nc, err := events.Connect(cfg.NATSURL, logger)
		if err != nil {
			return err
		}
		defer nc.Drain()
		notifications.AddPusher(events.NewPublisher(nc, logger))
	}

	// Сервисы
	bookingService := service.NewBookingService(txManager, assignments, availability, bookings, notifications,
		service.BookingConfig{Location: cfg.Location, NotifyInSameTx: cfg.NotifyInSameTx}, logger)
	availabilityService := service.NewAvailabilityService(assignments, availability, bookings, cfg.Location, logger)
	assignmentService := service.NewAssignmentService(users, subjects, assignments, logger)

	scheduler := app.NewScheduler(hub, cfg.WSPingInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := rest.NewRouter(rest.Deps{
		Bookings:      bookingService,
		Availability:  availabilityService,
		Assignments:   assignmentService,
		Notifications: notifications,
		Verifier:      verifier,
		Hub:           hub,
		Location:      cfg.Location,
		CORSOrigins:   cfg.CORSOrigins,
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	hub.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
