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

	"github.com/Freeeeeet/tutor_match/internal/api"
	"github.com/Freeeeeet/tutor_match/internal/app"
	"github.com/Freeeeeet/tutor_match/internal/auth"
	"github.com/Freeeeeet/tutor_match/internal/config"
	"github.com/Freeeeeet/tutor_match/internal/controller"
	"github.com/Freeeeeet/tutor_match/internal/controller/state"
	"github.com/Freeeeeet/tutor_match/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting tutor_match",
		zap.String("storage", cfg.Storage),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Bool("telegram", cfg.TelegramToken != ""))

	storage, err := app.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer storage.Close()

	if cfg.SeedFile != "" {
		n, err := app.SeedUsers(ctx, cfg.SeedFile, storage.Users, logger)
		if err != nil {
			return err
		}
		logger.Info("Seed file applied", zap.String("path", cfg.SeedFile), zap.Int("created", n))
	}

	// Сервисы
	userService := service.NewUserService(storage.Profiles, logger)
	bookingService := service.NewBookingService(storage.Bookings, storage.Profiles, cfg.Booking, logger)
	matchService := service.NewMatchService(storage.Profiles, logger)
	bookmarkService := service.NewBookmarkService(storage.Bookmarks, storage.Profiles, logger)

	router := api.NewRouter(api.Deps{
		Bookings:  bookingService,
		Matches:   matchService,
		Bookmarks: bookmarkService,
		Identity:  auth.NewTokenResolver(cfg.JWTSecret, cfg.TokenTTL),
		Policy:    cfg.Booking,
		Limiter:   api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:    logger,
	})

	// Бот собираем до запуска HTTP, чтобы ошибка конструктора не оставляла сервер работать
	var botController *controller.BotController
	if cfg.TelegramToken != "" {
		botController, err = controller.NewBotController(
			cfg.TelegramToken,
			controller.Services{
				Users:     userService,
				Bookings:  bookingService,
				Matches:   matchService,
				Bookmarks: bookmarkService,
			},
			cfg.Booking,
			cfg.Location,
			logger,
		)
		if err != nil {
			return err
		}
	} else {
		logger.Info("TELEGRAM_TOKEN is empty, bot disabled")
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var scheduler *app.Scheduler
	if botController != nil {
		if err := botController.RegisterHandlers(ctx); err != nil {
			// меню команд не критично для работы бота
			logger.Warn("Bot commands were not registered", zap.Error(err))
		}

		scheduler = app.NewScheduler(logger, app.Job{
			Name:     "sweep_dialogs",
			Interval: state.DefaultTTL,
			Run:      botController.SweepDialogs,
		})
		scheduler.Start(ctx)

		go func() {
			if err := botController.Start(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case runErr = <-errCh:
		logger.Error("Component failed, shutting down", zap.Error(runErr))
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server stopped")
	return runErr
}
