package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/trailhub/internal/adapters/http"
	natsadapter "github.com/samirrijal/trailhub/internal/adapters/nats"
	"github.com/samirrijal/trailhub/internal/adapters/postgres"
	"github.com/samirrijal/trailhub/internal/adapters/valkey"
	"github.com/samirrijal/trailhub/internal/core/ports"
	"github.com/samirrijal/trailhub/internal/core/usecases"
	"github.com/samirrijal/trailhub/internal/pkg/config"
	"github.com/samirrijal/trailhub/internal/pkg/logging"
	"github.com/samirrijal/trailhub/internal/pkg/metrics"
	"github.com/samirrijal/trailhub/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("trailhub-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Report pool stats to Prometheus
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Cache. Services get a nil CacheService when valkey is down and skip
	// caching entirely.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Publisher for HTTP fix ingest. Handlers report 500 when it is absent.
	var events ports.EventPublisher
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats publisher unavailable", "error", err)
	} else {
		defer publisher.Close()
		events = publisher
	}

	// Repos
	trackerRepo := postgres.NewTrackerRepo(db)
	trailRepo := postgres.NewTrailRepo(db)
	fixRepo := postgres.NewFixRepo(db)
	regionRepo := postgres.NewRegionRepo(db)
	eventRepo := postgres.NewGeofenceEventRepo(db)

	// Use cases
	trackerSvc := usecases.NewTrackerService(trackerRepo, fixRepo, cacheSvc)
	trailSvc := usecases.NewTrailService(trailRepo, fixRepo, cacheSvc)
	regionSvc := usecases.NewRegionService(regionRepo, eventRepo, trailSvc)

	deps := &http.Dependencies{
		Trackers: trackerSvc,
		Trails:   trailSvc,
		Regions:  regionSvc,
		Events:   events,
		NATS:     natsConn,
		DB:       db,
		Cache:    cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "TrailHub API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.trailhub.example.com",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
