package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samirrijal/trailhub/internal/core/domain"
	"github.com/samirrijal/trailhub/internal/core/ports"
	"github.com/samirrijal/trailhub/internal/pkg/geospatial"
	"github.com/samirrijal/trailhub/internal/pkg/metrics"
)

// TrailService handles trail-related business logic.
type TrailService struct {
	trails ports.TrailRepository
	fixes  ports.FixRepository
	cache  ports.CacheService
}

// NewTrailService creates a new TrailService.
func NewTrailService(trails ports.TrailRepository, fixes ports.FixRepository, cache ports.CacheService) *TrailService {
	return &TrailService{trails: trails, fixes: fixes, cache: cache}
}

// Start opens a new trail for a tracker. StartedAt defaults to now when
// the caller leaves it zero.
func (s *TrailService) Start(ctx context.Context, trail *domain.Trail) error {
	if trail.TrailID == "" {
		return fmt.Errorf("trail_id is required")
	}
	if trail.TrackerID == "" {
		return fmt.Errorf("tracker_id is required")
	}
	if trail.StartedAt.IsZero() {
		trail.StartedAt = time.Now().UTC()
	}
	return s.trails.Create(ctx, trail)
}

// GetByID returns a trail with its path and bounds populated.
func (s *TrailService) GetByID(ctx context.Context, id string) (*domain.Trail, error) {
	trail, err := s.trails.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	path, err := s.path(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load trail path: %w", err)
	}
	trail.Path = path

	if bounds, ok := domain.BoundsOf(path); ok {
		trail.Bounds = &bounds
	}
	return trail, nil
}

// ListByTracker returns all trails recorded by a tracker.
func (s *TrailService) ListByTracker(ctx context.Context, trackerID string) ([]domain.Trail, error) {
	return s.trails.ListByTracker(ctx, trackerID)
}

// Bounds returns the axis-aligned bounding box of a trail's path.
// A nil result with a nil error means the trail has no fixes yet: there is
// no meaningful box for an empty path, and that absence is not an error.
func (s *TrailService) Bounds(ctx context.Context, trailID string) (*domain.Bounds, error) {
	cacheKey := "trails:bounds:" + trailID
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var bounds domain.Bounds
			if err := json.Unmarshal(data, &bounds); err == nil {
				metrics.CacheHits.WithLabelValues("trail_bounds").Inc()
				return &bounds, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("trail_bounds").Inc()
	}

	path, err := s.path(ctx, trailID)
	if err != nil {
		return nil, err
	}

	bounds, ok := domain.BoundsOf(path)
	if !ok {
		return nil, nil
	}

	// Cache for 5 minutes (closed trails never change; open ones grow slowly)
	if s.cache != nil {
		if data, err := json.Marshal(bounds); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return &bounds, nil
}

// Fixes returns the raw ordered fixes of a trail.
func (s *TrailService) Fixes(ctx context.Context, trailID string) ([]domain.Fix, error) {
	return s.fixes.PathForTrail(ctx, trailID)
}

// Stats computes a summary of a trail: length, duration, average speed,
// and bounds. Results are cached.
func (s *TrailService) Stats(ctx context.Context, trailID string) (*domain.TrailStats, error) {
	cacheKey := "trails:stats:" + trailID
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var stats domain.TrailStats
			if err := json.Unmarshal(data, &stats); err == nil {
				metrics.CacheHits.WithLabelValues("trail_stats").Inc()
				return &stats, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("trail_stats").Inc()
	}

	// Archived trails already have a persisted summary; prefer it over
	// recomputing from raw fixes.
	stats, err := s.trails.GetStats(ctx, trailID)
	if err != nil || stats == nil {
		stats, err = s.ComputeStats(ctx, trailID)
		if err != nil {
			return nil, err
		}
	}

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return stats, nil
}

// ComputeStats builds trail statistics from the stored fixes, bypassing the
// cache. Used directly by the archival workflow.
func (s *TrailService) ComputeStats(ctx context.Context, trailID string) (*domain.TrailStats, error) {
	fixes, err := s.fixes.PathForTrail(ctx, trailID)
	if err != nil {
		return nil, fmt.Errorf("load fixes: %w", err)
	}

	stats := &domain.TrailStats{
		TrailID:    trailID,
		FixCount:   len(fixes),
		ComputedAt: time.Now(),
	}

	if len(fixes) == 0 {
		return stats, nil
	}

	var length float64
	for i := 1; i < len(fixes); i++ {
		a, b := fixes[i-1].Location, fixes[i].Location
		length += geospatial.Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
	}
	stats.LengthMeters = length
	stats.Duration = fixes[len(fixes)-1].Time.Sub(fixes[0].Time)
	if secs := stats.Duration.Seconds(); secs > 0 {
		stats.AvgSpeed = length / secs
	}

	if bounds, ok := domain.BoundsOf(pathOf(fixes)); ok {
		stats.Bounds = &bounds
	}

	return stats, nil
}

// SaveStats persists a computed summary.
func (s *TrailService) SaveStats(ctx context.Context, stats *domain.TrailStats) error {
	return s.trails.SaveStats(ctx, stats)
}

// DeleteStats removes a persisted summary (archival rollback).
func (s *TrailService) DeleteStats(ctx context.Context, trailID string) error {
	return s.trails.DeleteStats(ctx, trailID)
}

// Close marks a trail as finished.
func (s *TrailService) Close(ctx context.Context, trailID string, endedAt time.Time) error {
	if err := s.trails.Close(ctx, trailID, endedAt); err != nil {
		return err
	}
	// Drop stale cached values; the next read recomputes.
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "trails:bounds:"+trailID)
		_ = s.cache.Delete(ctx, "trails:stats:"+trailID)
	}
	return nil
}

func (s *TrailService) path(ctx context.Context, trailID string) (domain.GeoLineString, error) {
	fixes, err := s.fixes.PathForTrail(ctx, trailID)
	if err != nil {
		return domain.GeoLineString{}, err
	}
	return pathOf(fixes), nil
}

func pathOf(fixes []domain.Fix) domain.GeoLineString {
	coords := make([]domain.GeoPoint, len(fixes))
	for i, f := range fixes {
		coords[i] = f.Location
	}
	return domain.GeoLineString{Coordinates: coords}
}
