package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/rs/zerolog"

	"schoolku_backend/internals/cache"
	"schoolku_backend/internals/configs"
	database "schoolku_backend/internals/databases"
	notificationScheduler "schoolku_backend/internals/features/notifications/notifications/scheduler"
	authScheduler "schoolku_backend/internals/features/users/auth/scheduler"
	authService "schoolku_backend/internals/features/users/auth/service"
	helper "schoolku_backend/internals/helpers"
	middlewares "schoolku_backend/internals/middlewares"
	requestLogger "schoolku_backend/internals/middlewares/logger"
	"schoolku_backend/internals/persistence/uow"
	routes "schoolku_backend/internals/route"
	"schoolku_backend/internals/scheduler"
	"schoolku_backend/internals/seeds"
	"schoolku_backend/internals/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs.LoadEnv()

	cfg, err := configs.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	log := configs.InitLogger(cfg)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("❌ server stopped")
	}
}

func run(cfg *configs.Config, log zerolog.Logger) error {
	ctx := context.Background()

	// 🔌 DB connect + pool + migrate
	db, err := database.Connect(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn().Err(err).Msg("⚠️ close database")
		}
	}()
	if err := database.Migrate(db); err != nil {
		return err
	}

	uows := uow.NewFactory(db, log)

	store := cache.New(cfg.Cache.Capacity, cfg.Cache.TTL(), log)
	store.Start()
	defer store.Stop()

	backend, err := storage.NewBackend(cfg, log)
	if err != nil {
		return err
	}
	files := storage.NewUploader(backend, cfg.Upload, log)

	tokens, err := authService.NewTokenService(cfg.JWT)
	if err != nil {
		return err
	}

	if cfg.SeedOnStart {
		admin := seeds.Admin{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword}
		if _, err := seeds.RunAllSeeds(ctx, uows, admin, log); err != nil {
			return err
		}
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          helper.ErrorHandler(cfg.IsProduction(), log),
		ProxyHeader:           fiber.HeaderXForwardedFor,
		BodyLimit:             (cfg.Upload.MaxAssignmentMB + 1) << 20,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
	})

	// ⚙️ middleware dasar + performa
	app.Use(requestLogger.RequestLogger(log, cfg.RequestTimeout))
	app.Use(middlewares.RecoveryMiddleware(log))
	app.Use(middlewares.CorsMiddleware(cfg.CORSOrigins))
	app.Use(middlewares.GlobalRateLimiter())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	if _, ok := backend.(*storage.LocalBackend); ok {
		app.Static(cfg.Upload.PublicBaseURL, cfg.Upload.Dir)
	}

	svcs := routes.SetupRoutes(app, routes.Deps{
		Config: cfg,
		DB:     db,
		Uows:   uows,
		Cache:  store,
		Files:  files,
		Tokens: tokens,
		Logger: log,
	})

	// ⏱ scheduler setelah DB siap
	jobs := scheduler.New(log)
	if err := authScheduler.RegisterRefreshTokenCleanup(jobs, cfg.Jobs.CleanupSchedule, svcs.Auth, log); err != nil {
		return err
	}
	retention := time.Duration(cfg.Jobs.NotificationRetentionDays) * 24 * time.Hour
	if err := notificationScheduler.RegisterReadPurge(jobs, cfg.Jobs.CleanupSchedule, retention, svcs.Notifications, log); err != nil {
		return err
	}
	jobs.Start()

	// Start server non-blocking
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("✅ Listening")
		serverErr <- app.Listen("0.0.0.0:" + cfg.Port)
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("🛑 Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("⚠️ http shutdown")
	}
	jobs.Stop(shutdownCtx)
	return nil
}
