// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Artistphere HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (and .env if present).
//  3. Connect to PostgreSQL (pgxpool) and start the health monitor.
//  4. Connect to Redis when configured.
//  5. Run database migrations (idempotent).
//  6. Wire image ingestion and the artist domain.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/artistphere/data/migrations"
	"github.com/taibuivan/artistphere/internal/api"
	"github.com/taibuivan/artistphere/internal/core/artist"
	"github.com/taibuivan/artistphere/internal/platform/config"
	"github.com/taibuivan/artistphere/internal/platform/constants"
	"github.com/taibuivan/artistphere/internal/platform/media"
	"github.com/taibuivan/artistphere/internal/platform/migration"
	pgstore "github.com/taibuivan/artistphere/internal/platform/postgres"
	redisstore "github.com/taibuivan/artistphere/internal/platform/redis"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("[Artistphere] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("dotenv_load_failed", slog.Any("error", err))
	}

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("image_host", cfg.ImageHost.Enabled()),
		slog.Bool("cache", cfg.RedisURL != ""),
	)

	// Process-lifetime context for background workers (monitor, rate limiter).
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(appCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	monitor := pgstore.NewMonitor(pool, cfg.StorageProbeInterval, log)
	go monitor.Run(appCtx)

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, migrations.FS, log), "run migrations")

	// ── 6. Image ingestion ────────────────────────────────────────────────
	localStore, err := media.NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix)
	must(log, err, "prepare upload directory")

	var uploader media.Uploader = media.NewLocalUploader(localStore)
	if cfg.ImageHost.Enabled() {
		imageHost, err := media.NewImageHost(media.ImageHostOptions{
			APIURL:    cfg.ImageHost.APIURL,
			CloudName: cfg.ImageHost.CloudName,
			APIKey:    cfg.ImageHost.APIKey,
			APISecret: cfg.ImageHost.APISecret,
			Folder:    cfg.ImageHost.Folder,
			Timeout:   cfg.ImageUploadTimeout,
		})
		must(log, err, "configure image host")
		uploader = imageHost
	} else {
		log.Warn("image_host_disabled", slog.String("fallback", "inline images are saved to "+cfg.UploadDir))
	}
	resolver := media.NewResolver(uploader, localStore, log)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	health := api.HealthDependencies{CheckDatabase: monitor.Check}
	if rdb != nil {
		health.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	}
	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	var artistRepository artist.Repository = artist.NewPostgresRepository(pool)
	if rdb != nil {
		artistRepository = artist.NewCachedRepository(artistRepository, rdb, cfg.CacheTTL, log)
	}
	artistService := artist.NewService(artistRepository, resolver, log)
	artistHandler := artist.NewHandler(artistService, cfg.DefaultPageSize)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(appCtx, cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Artist:    artistHandler,
		Storage:   monitor,
	})

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// newLogger builds the JSON logger every component receives.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With(slog.String("app", "artistphere"))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
