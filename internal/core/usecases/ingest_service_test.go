package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/samirrijal/trailhub/internal/core/domain"
	"github.com/samirrijal/trailhub/internal/core/usecases"
)

// --- Mock RegionRepository ---

type mockRegionRepo struct {
	regions   []domain.Region
	getBySlug func(ctx context.Context, slug string) (*domain.Region, error)
}

func (m *mockRegionRepo) Upsert(ctx context.Context, r *domain.Region) error { return nil }
func (m *mockRegionRepo) GetBySlug(ctx context.Context, slug string) (*domain.Region, error) {
	if m.getBySlug != nil {
		return m.getBySlug(ctx, slug)
	}
	return nil, nil
}
func (m *mockRegionRepo) List(ctx context.Context) ([]domain.Region, error) {
	return m.regions, nil
}
func (m *mockRegionRepo) ListActive(ctx context.Context) ([]domain.Region, error) {
	var out []domain.Region
	for _, r := range m.regions {
		if r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}
func (m *mockRegionRepo) Delete(ctx context.Context, slug string) error { return nil }

// --- Mock GeofenceEventRepository ---

type mockEventRepo struct {
	inserted        []*domain.GeofenceEvent
	listByTrackerFn func(ctx context.Context, trackerID string, since time.Time, limit int) ([]domain.GeofenceEvent, error)
}

func (m *mockEventRepo) Insert(ctx context.Context, e *domain.GeofenceEvent) error {
	m.inserted = append(m.inserted, e)
	return nil
}
func (m *mockEventRepo) ListByTracker(ctx context.Context, trackerID string, since time.Time, limit int) ([]domain.GeofenceEvent, error) {
	if m.listByTrackerFn != nil {
		return m.listByTrackerFn(ctx, trackerID, since, limit)
	}
	return nil, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	fixes  []*domain.Fix
	events []*domain.GeofenceEvent
}

func (m *mockPublisher) PublishRawFix(ctx context.Context, f *domain.Fix) error { return nil }
func (m *mockPublisher) PublishFix(ctx context.Context, f *domain.Fix) error {
	m.fixes = append(m.fixes, f)
	return nil
}
func (m *mockPublisher) PublishGeofenceEvent(ctx context.Context, e *domain.GeofenceEvent) error {
	m.events = append(m.events, e)
	return nil
}
func (m *mockPublisher) PublishTrailArchived(ctx context.Context, trailID string) error { return nil }
func (m *mockPublisher) PublishBroadcast(ctx context.Context, data []byte) error        { return nil }

func testRegion(id string, minLat, minLon, maxLat, maxLon float64) domain.Region {
	return domain.Region{
		ID:     id,
		Slug:   id,
		Active: true,
		Bounds: domain.Bounds{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon},
	}
}

func TestIngestService_ProcessFix_StoresAndPublishes(t *testing.T) {
	fixes := &mockFixRepo{}
	pub := &mockPublisher{}
	svc := usecases.NewIngestService(fixes, &mockRegionRepo{}, &mockEventRepo{}, pub)

	fix := &domain.Fix{TrackerID: "bus-17", Location: domain.GeoPoint{Lat: 43.26, Lon: -2.93}}
	if err := svc.ProcessFix(context.Background(), fix); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fixes.inserted) != 1 {
		t.Fatalf("expected 1 stored fix, got %d", len(fixes.inserted))
	}
	if len(pub.fixes) != 1 {
		t.Fatalf("expected 1 published fix, got %d", len(pub.fixes))
	}
	if fixes.inserted[0].Time.IsZero() {
		t.Error("expected fix time to be stamped")
	}
}

func TestIngestService_GeofenceEnterExit(t *testing.T) {
	regions := &mockRegionRepo{regions: []domain.Region{
		testRegion("old-town", 43.25, -2.93, 43.26, -2.92),
	}}
	events := &mockEventRepo{}
	pub := &mockPublisher{}
	svc := usecases.NewIngestService(&mockFixRepo{}, regions, events, pub)

	ctx := context.Background()
	outside := &domain.Fix{TrackerID: "bus-17", Location: domain.GeoPoint{Lat: 43.20, Lon: -2.93}}
	inside := &domain.Fix{TrackerID: "bus-17", Location: domain.GeoPoint{Lat: 43.255, Lon: -2.925}}

	// outside -> no event
	if err := svc.ProcessFix(ctx, outside); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events.inserted) != 0 {
		t.Fatalf("expected no events yet, got %d", len(events.inserted))
	}

	// outside -> inside: enter
	if err := svc.ProcessFix(ctx, inside); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events.inserted) != 1 || events.inserted[0].Kind != "enter" {
		t.Fatalf("expected one enter event, got %+v", events.inserted)
	}

	// inside -> inside: no new event
	if err := svc.ProcessFix(ctx, inside); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events.inserted) != 1 {
		t.Fatalf("expected still one event, got %d", len(events.inserted))
	}

	// inside -> outside: exit
	if err := svc.ProcessFix(ctx, outside); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events.inserted) != 2 || events.inserted[1].Kind != "exit" {
		t.Fatalf("expected an exit event, got %+v", events.inserted)
	}

	if len(pub.events) != 2 {
		t.Errorf("expected 2 published geofence events, got %d", len(pub.events))
	}
}

func TestIngestService_BoundaryIsInside(t *testing.T) {
	regions := &mockRegionRepo{regions: []domain.Region{
		testRegion("box", 0, 0, 1, 1),
	}}
	events := &mockEventRepo{}
	svc := usecases.NewIngestService(&mockFixRepo{}, regions, events, &mockPublisher{})

	// A fix exactly on the region boundary counts as inside.
	onEdge := &domain.Fix{TrackerID: "t-1", Location: domain.GeoPoint{Lat: 1, Lon: 0}}
	if err := svc.ProcessFix(context.Background(), onEdge); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events.inserted) != 1 || events.inserted[0].Kind != "enter" {
		t.Fatalf("expected boundary fix to trigger enter, got %+v", events.inserted)
	}
}
