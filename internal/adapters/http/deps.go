package http

import (
	"github.com/nats-io/nats.go"
	"github.com/samirrijal/trailhub/internal/adapters/postgres"
	"github.com/samirrijal/trailhub/internal/adapters/valkey"
	"github.com/samirrijal/trailhub/internal/core/ports"
	"github.com/samirrijal/trailhub/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Trackers *usecases.TrackerService
	Trails   *usecases.TrailService
	Regions  *usecases.RegionService
	Events   ports.EventPublisher
	NATS     *nats.Conn
	DB       *postgres.DB
	Cache    *valkey.Cache
}
