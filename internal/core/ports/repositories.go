package ports

import (
	"context"
	"time"

	"github.com/samirrijal/trailhub/internal/core/domain"
)

// TrackerRepository persists trackers.
type TrackerRepository interface {
	Upsert(ctx context.Context, tracker *domain.Tracker) error
	GetByID(ctx context.Context, id string) (*domain.Tracker, error)
	List(ctx context.Context) ([]domain.Tracker, error)
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Tracker, error)
}

// TrailRepository persists trails.
type TrailRepository interface {
	Create(ctx context.Context, trail *domain.Trail) error
	GetByID(ctx context.Context, id string) (*domain.Trail, error)
	ListByTracker(ctx context.Context, trackerID string) ([]domain.Trail, error)
	Close(ctx context.Context, id string, endedAt time.Time) error
	SaveStats(ctx context.Context, stats *domain.TrailStats) error
	GetStats(ctx context.Context, trailID string) (*domain.TrailStats, error)
	DeleteStats(ctx context.Context, trailID string) error
}

// FixRepository persists real-time position fixes.
type FixRepository interface {
	Insert(ctx context.Context, fix *domain.Fix) error
	LatestByTracker(ctx context.Context, trackerID string) (*domain.Fix, error)
	// PathForTrail returns the fixes of a trail ordered by time ascending.
	PathForTrail(ctx context.Context, trailID string) ([]domain.Fix, error)
}

// RegionRepository persists geofence regions.
type RegionRepository interface {
	Upsert(ctx context.Context, region *domain.Region) error
	GetBySlug(ctx context.Context, slug string) (*domain.Region, error)
	List(ctx context.Context) ([]domain.Region, error)
	ListActive(ctx context.Context) ([]domain.Region, error)
	Delete(ctx context.Context, slug string) error
}

// GeofenceEventRepository persists geofence enter/exit events.
type GeofenceEventRepository interface {
	Insert(ctx context.Context, event *domain.GeofenceEvent) error
	ListByTracker(ctx context.Context, trackerID string, since time.Time, limit int) ([]domain.GeofenceEvent, error)
}
