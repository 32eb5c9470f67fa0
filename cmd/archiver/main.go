package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/trailhub/internal/adapters/nats"
	"github.com/samirrijal/trailhub/internal/adapters/postgres"
	"github.com/samirrijal/trailhub/internal/core/usecases"
	"github.com/samirrijal/trailhub/internal/pkg/config"
	"github.com/samirrijal/trailhub/internal/pkg/logging"
	"github.com/samirrijal/trailhub/internal/workflows"
)

// The archiver runs the trail archive workflow: close the trail, compute and
// persist its stats, and announce the archived trail. Stats are rolled back
// when the announcement cannot be published.
func main() {
	cfg, err := config.Load("trailhub-archiver")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer publisher.Close()

	trailRepo := postgres.NewTrailRepo(db)
	fixRepo := postgres.NewFixRepo(db)
	trailSvc := usecases.NewTrailService(trailRepo, fixRepo, nil)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.TrailArchiveWorkflow)
	w.RegisterActivity(&workflows.ArchiveActivities{
		Trails:    trailSvc,
		Publisher: publisher,
	})

	slog.Info("archiver worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
