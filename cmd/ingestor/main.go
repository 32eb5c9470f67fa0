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

	natsadapter "github.com/samirrijal/trailhub/internal/adapters/nats"
	"github.com/samirrijal/trailhub/internal/adapters/postgres"
	"github.com/samirrijal/trailhub/internal/core/domain"
	"github.com/samirrijal/trailhub/internal/core/usecases"
	"github.com/samirrijal/trailhub/internal/pkg/config"
	"github.com/samirrijal/trailhub/internal/pkg/logging"
	"github.com/samirrijal/trailhub/internal/pkg/metrics"
)

// The ingestor consumes raw position fixes from the track.ingest work queue,
// persists them, detects geofence crossings, and relays processed fixes to
// live subscribers.
func main() {
	cfg, err := config.Load("trailhub-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// NATS publisher (relay + geofence events) and subscriber (ingest queue)
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer publisher.Close()

	subscriber, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer subscriber.Close()

	// Repos and ingest pipeline
	fixRepo := postgres.NewFixRepo(db)
	regionRepo := postgres.NewRegionRepo(db)
	eventRepo := postgres.NewGeofenceEventRepo(db)
	ingest := usecases.NewIngestService(fixRepo, regionRepo, eventRepo, publisher)

	err = subscriber.SubscribeFixes(ctx, func(ctx context.Context, fix *domain.Fix) error {
		start := time.Now()
		if err := ingest.ProcessFix(ctx, fix); err != nil {
			metrics.FixProcessErrors.Inc()
			slog.Error("process fix", "tracker", fix.TrackerID, "error", err)
			return err
		}
		metrics.FixesIngested.WithLabelValues(fix.TrackerID).Inc()
		metrics.FixProcessDuration.Observe(time.Since(start).Seconds())
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe fixes: %v", err)
	}

	// Expose /metrics and a liveness endpoint
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/metrics", metrics.Handler())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("ingestor started", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received", "signal", sig.String())
	cancel()
	_ = app.Shutdown()
	slog.Info("ingestor stopped")
}
