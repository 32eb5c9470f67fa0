package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/samirrijal/trailhub/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "TRACK_FIXES",
			Subjects:  []string{"track.ingest.>"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "GEOFENCE_EVENTS",
			Subjects:  []string{"track.geofence.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "TRAIL_EVENTS",
			Subjects:  []string{"track.trail.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist — try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishFix relays a processed fix on plain NATS for live subscribers
// (WebSocket clients). Raw device fixes arrive on track.ingest.> instead,
// so relayed fixes never re-enter the ingest work queue.
func (p *Publisher) PublishFix(ctx context.Context, fix *domain.Fix) error {
	data, err := json.Marshal(fix)
	if err != nil {
		return err
	}
	return p.conn.Publish("track.fix."+fix.TrackerID, data)
}

// PublishRawFix enqueues an unprocessed fix on the ingest work queue,
// where the ingestor's durable consumer picks it up.
func (p *Publisher) PublishRawFix(ctx context.Context, fix *domain.Fix) error {
	data, err := json.Marshal(fix)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("track.ingest."+fix.TrackerID, data)
	return err
}

func (p *Publisher) PublishGeofenceEvent(ctx context.Context, event *domain.GeofenceEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("track.geofence."+event.RegionID, data)
	return err
}

func (p *Publisher) PublishTrailArchived(ctx context.Context, trailID string) error {
	_, err := p.js.Publish("track.trail.archived", []byte(trailID))
	return err
}

func (p *Publisher) PublishBroadcast(ctx context.Context, data []byte) error {
	return p.conn.Publish("track.updates.broadcast", data)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
