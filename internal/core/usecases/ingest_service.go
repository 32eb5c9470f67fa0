package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/samirrijal/trailhub/internal/core/domain"
	"github.com/samirrijal/trailhub/internal/core/ports"
	"github.com/samirrijal/trailhub/internal/pkg/metrics"
)

// IngestService processes incoming position fixes.
type IngestService struct {
	fixes     ports.FixRepository
	regions   ports.RegionRepository
	events    ports.GeofenceEventRepository
	publisher ports.EventPublisher

	// lastInside remembers, per tracker, which regions the previous fix was
	// inside so enter/exit transitions can be detected.
	lastInside map[string]map[string]bool
}

// NewIngestService creates a new IngestService.
func NewIngestService(
	fixes ports.FixRepository,
	regions ports.RegionRepository,
	events ports.GeofenceEventRepository,
	publisher ports.EventPublisher,
) *IngestService {
	return &IngestService{
		fixes:      fixes,
		regions:    regions,
		events:     events,
		publisher:  publisher,
		lastInside: make(map[string]map[string]bool),
	}
}

// ProcessFix stores a fix, relays it to subscribers, and emits geofence
// events for region boundaries crossed since the tracker's previous fix.
// Not safe for concurrent calls with the same tracker ID; the ingestor
// runs one consumer per stream.
func (s *IngestService) ProcessFix(ctx context.Context, fix *domain.Fix) error {
	if fix.Time.IsZero() {
		fix.Time = time.Now()
	}

	if err := s.fixes.Insert(ctx, fix); err != nil {
		return fmt.Errorf("insert fix: %w", err)
	}

	// Broadcast to WebSocket clients. Best effort: a dropped relay message
	// is recovered by the next fix.
	_ = s.publisher.PublishFix(ctx, fix)

	return s.checkGeofences(ctx, fix)
}

func (s *IngestService) checkGeofences(ctx context.Context, fix *domain.Fix) error {
	regions, err := s.regions.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list regions: %w", err)
	}

	prev := s.lastInside[fix.TrackerID]
	now := make(map[string]bool, len(regions))

	for _, region := range regions {
		inside := region.Bounds.Contains(fix.Location)
		now[region.Slug] = inside

		wasInside := prev[region.Slug]
		if inside == wasInside {
			continue
		}

		kind := "enter"
		if !inside {
			kind = "exit"
		}
		event := &domain.GeofenceEvent{
			Time:      fix.Time,
			TrackerID: fix.TrackerID,
			RegionID:  region.Slug,
			Kind:      kind,
			Location:  fix.Location,
		}
		if err := s.events.Insert(ctx, event); err != nil {
			return fmt.Errorf("insert geofence event: %w", err)
		}
		metrics.GeofenceEventsDetected.WithLabelValues(kind).Inc()
		_ = s.publisher.PublishGeofenceEvent(ctx, event)
	}

	s.lastInside[fix.TrackerID] = now
	return nil
}
