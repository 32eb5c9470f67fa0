package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samirrijal/trailhub/internal/core/domain"
	"github.com/samirrijal/trailhub/internal/core/ports"
)

// RegionService handles geofence region business logic.
type RegionService struct {
	regions ports.RegionRepository
	events  ports.GeofenceEventRepository
	trails  *TrailService
}

// NewRegionService creates a new RegionService.
func NewRegionService(regions ports.RegionRepository, events ports.GeofenceEventRepository, trails *TrailService) *RegionService {
	return &RegionService{regions: regions, events: events, trails: trails}
}

// List returns all regions.
func (s *RegionService) List(ctx context.Context) ([]domain.Region, error) {
	return s.regions.List(ctx)
}

// GetBySlug returns a region by its slug.
func (s *RegionService) GetBySlug(ctx context.Context, slug string) (*domain.Region, error) {
	return s.regions.GetBySlug(ctx, slug)
}

// Save validates and upserts a region.
func (s *RegionService) Save(ctx context.Context, region *domain.Region) error {
	if strings.TrimSpace(region.Slug) == "" {
		return fmt.Errorf("region slug must not be empty")
	}
	b := region.Bounds
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return fmt.Errorf("region bounds are inverted: min must not exceed max")
	}
	if b.MinLat < -90 || b.MaxLat > 90 || b.MinLon < -180 || b.MaxLon > 180 {
		return fmt.Errorf("region bounds outside WGS 84 range")
	}
	return s.regions.Upsert(ctx, region)
}

// Delete removes a region by slug.
func (s *RegionService) Delete(ctx context.Context, slug string) error {
	return s.regions.Delete(ctx, slug)
}

// EventsForTracker returns the geofence enter/exit events recorded for a
// tracker since the given time, newest first.
func (s *RegionService) EventsForTracker(ctx context.Context, trackerID string, since time.Time, limit int) ([]domain.GeofenceEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	return s.events.ListByTracker(ctx, trackerID, since, limit)
}

// TrailsIntersecting returns the tracker's trails whose bounding box
// overlaps the region. Bounding boxes are a coarse filter: a trail may
// overlap the box without entering the region's true extent, which is
// acceptable for map prefiltering.
func (s *RegionService) TrailsIntersecting(ctx context.Context, slug, trackerID string) ([]domain.Trail, error) {
	region, err := s.regions.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	trails, err := s.trails.ListByTracker(ctx, trackerID)
	if err != nil {
		return nil, err
	}

	var out []domain.Trail
	for _, trail := range trails {
		// Fixes are keyed by the external trail id, not the row UUID.
		bounds, err := s.trails.Bounds(ctx, trail.TrailID)
		if err != nil {
			return nil, err
		}
		if bounds == nil {
			continue // empty trail, nothing to intersect
		}
		if bounds.Intersects(region.Bounds) {
			trail.Bounds = bounds
			out = append(out, trail)
		}
	}
	return out, nil
}
