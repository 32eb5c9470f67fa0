package ports

import (
	"context"

	"github.com/samirrijal/trailhub/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
// PublishRawFix enqueues an unprocessed fix for the ingest pipeline;
// PublishFix relays an already-processed fix to live subscribers.
type EventPublisher interface {
	PublishRawFix(ctx context.Context, fix *domain.Fix) error
	PublishFix(ctx context.Context, fix *domain.Fix) error
	PublishGeofenceEvent(ctx context.Context, event *domain.GeofenceEvent) error
	PublishTrailArchived(ctx context.Context, trailID string) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeFixes(ctx context.Context, handler func(ctx context.Context, fix *domain.Fix) error) error
	SubscribeGeofenceEvents(ctx context.Context, handler func(ctx context.Context, event *domain.GeofenceEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// NotificationService sends notifications (push, email, etc.).
type NotificationService interface {
	SendPush(ctx context.Context, userID, title, body string) error
}
