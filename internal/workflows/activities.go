package workflows

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/samirrijal/trailhub/internal/core/domain"
	"github.com/samirrijal/trailhub/internal/core/ports"
	"github.com/samirrijal/trailhub/internal/core/usecases"
	"github.com/samirrijal/trailhub/internal/pkg/metrics"
)

// ArchiveActivities holds the activity implementations for the trail
// archival workflow.
type ArchiveActivities struct {
	Trails    *usecases.TrailService
	Publisher ports.EventPublisher
}

// CloseTrail marks a trail as finished.
func (a *ArchiveActivities) CloseTrail(ctx context.Context, trailID string, endedAt time.Time) error {
	if endedAt.IsZero() {
		endedAt = time.Now()
	}
	if err := a.Trails.Close(ctx, trailID, endedAt); err != nil {
		return fmt.Errorf("close trail %s: %w", trailID, err)
	}
	return nil
}

// ComputeTrailStats builds the trail summary from its stored fixes.
func (a *ArchiveActivities) ComputeTrailStats(ctx context.Context, trailID string) (*domain.TrailStats, error) {
	stats, err := a.Trails.ComputeStats(ctx, trailID)
	if err != nil {
		return nil, fmt.Errorf("compute stats for %s: %w", trailID, err)
	}
	return stats, nil
}

// SaveTrailStats persists a computed summary.
func (a *ArchiveActivities) SaveTrailStats(ctx context.Context, stats domain.TrailStats) error {
	if err := a.Trails.SaveStats(ctx, &stats); err != nil {
		return fmt.Errorf("save stats for %s: %w", stats.TrailID, err)
	}
	return nil
}

// PublishTrailArchived announces the archived trail on the message broker.
func (a *ArchiveActivities) PublishTrailArchived(ctx context.Context, trailID string) error {
	if a.Publisher == nil {
		log.Printf("ARCHIVED (no publisher) → trail=%s", trailID)
		return nil
	}
	if err := a.Publisher.PublishTrailArchived(ctx, trailID); err != nil {
		return fmt.Errorf("publish archived %s: %w", trailID, err)
	}
	metrics.TrailsArchived.Inc()
	return nil
}

// DeleteTrailStats removes a persisted summary (saga compensation / rollback).
func (a *ArchiveActivities) DeleteTrailStats(ctx context.Context, trailID string) error {
	if err := a.Trails.DeleteStats(ctx, trailID); err != nil {
		return fmt.Errorf("delete stats for %s: %w", trailID, err)
	}
	log.Printf("Stats for trail %s deleted (saga compensation)", trailID)
	return nil
}
