package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/trailhub/internal/core/domain"
	"github.com/samirrijal/trailhub/internal/core/ports"
	"github.com/samirrijal/trailhub/internal/pkg/metrics"
)

// TrackerService handles tracker-related business logic.
type TrackerService struct {
	trackers ports.TrackerRepository
	fixes    ports.FixRepository
	cache    ports.CacheService
}

// NewTrackerService creates a new TrackerService.
func NewTrackerService(trackers ports.TrackerRepository, fixes ports.FixRepository, cache ports.CacheService) *TrackerService {
	return &TrackerService{trackers: trackers, fixes: fixes, cache: cache}
}

// List returns all registered trackers.
func (s *TrackerService) List(ctx context.Context) ([]domain.Tracker, error) {
	return s.trackers.List(ctx)
}

// GetByID returns a single tracker.
func (s *TrackerService) GetByID(ctx context.Context, id string) (*domain.Tracker, error) {
	cacheKey := "trackers:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var tracker domain.Tracker
			if err := json.Unmarshal(data, &tracker); err == nil {
				metrics.CacheHits.WithLabelValues("tracker_get").Inc()
				return &tracker, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("tracker_get").Inc()
	}

	tracker, err := s.trackers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(tracker); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}

	return tracker, nil
}

// FindNearby returns trackers whose latest fix is within radiusMeters of
// the given point.
func (s *TrackerService) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Tracker, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("trackers:nearby:%.4f:%.4f:%.0f:%d", lat, lon, radiusMeters, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var trackers []domain.Tracker
			if err := json.Unmarshal(data, &trackers); err == nil {
				metrics.CacheHits.WithLabelValues("trackers_nearby").Inc()
				return trackers, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("trackers_nearby").Inc()
	}

	trackers, err := s.trackers.FindNearby(ctx, lat, lon, radiusMeters, limit)
	if err != nil {
		return nil, err
	}

	// Cache for 30 seconds only: positions move
	if s.cache != nil {
		if data, err := json.Marshal(trackers); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 30)
		}
	}

	return trackers, nil
}

// LatestFix returns the most recent position reading of a tracker.
func (s *TrackerService) LatestFix(ctx context.Context, trackerID string) (*domain.Fix, error) {
	return s.fixes.LatestByTracker(ctx, trackerID)
}
