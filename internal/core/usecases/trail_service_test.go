package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/samirrijal/trailhub/internal/core/domain"
	"github.com/samirrijal/trailhub/internal/core/usecases"
)

// --- Mock TrailRepository ---

type mockTrailRepo struct {
	getByIDFn       func(ctx context.Context, id string) (*domain.Trail, error)
	listByTrackerFn func(ctx context.Context, trackerID string) ([]domain.Trail, error)
	getStatsFn      func(ctx context.Context, trailID string) (*domain.TrailStats, error)
	created         []*domain.Trail
	savedStats      []*domain.TrailStats
	deletedStats    []string
}

func (m *mockTrailRepo) Create(ctx context.Context, t *domain.Trail) error {
	m.created = append(m.created, t)
	return nil
}
func (m *mockTrailRepo) GetByID(ctx context.Context, id string) (*domain.Trail, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Trail{ID: id}, nil
}
func (m *mockTrailRepo) ListByTracker(ctx context.Context, trackerID string) ([]domain.Trail, error) {
	if m.listByTrackerFn != nil {
		return m.listByTrackerFn(ctx, trackerID)
	}
	return nil, nil
}
func (m *mockTrailRepo) Close(ctx context.Context, id string, endedAt time.Time) error { return nil }
func (m *mockTrailRepo) SaveStats(ctx context.Context, stats *domain.TrailStats) error {
	m.savedStats = append(m.savedStats, stats)
	return nil
}
func (m *mockTrailRepo) GetStats(ctx context.Context, trailID string) (*domain.TrailStats, error) {
	if m.getStatsFn != nil {
		return m.getStatsFn(ctx, trailID)
	}
	return nil, nil
}
func (m *mockTrailRepo) DeleteStats(ctx context.Context, trailID string) error {
	m.deletedStats = append(m.deletedStats, trailID)
	return nil
}

// --- Mock FixRepository ---

type mockFixRepo struct {
	pathForTrailFn    func(ctx context.Context, trailID string) ([]domain.Fix, error)
	latestByTrackerFn func(ctx context.Context, trackerID string) (*domain.Fix, error)
	inserted          []*domain.Fix
}

func (m *mockFixRepo) Insert(ctx context.Context, fix *domain.Fix) error {
	m.inserted = append(m.inserted, fix)
	return nil
}
func (m *mockFixRepo) LatestByTracker(ctx context.Context, trackerID string) (*domain.Fix, error) {
	if m.latestByTrackerFn != nil {
		return m.latestByTrackerFn(ctx, trackerID)
	}
	return nil, nil
}
func (m *mockFixRepo) PathForTrail(ctx context.Context, trailID string) ([]domain.Fix, error) {
	if m.pathForTrailFn != nil {
		return m.pathForTrailFn(ctx, trailID)
	}
	return nil, nil
}

// --- Mock CacheService ---

type mockCache struct {
	store map[string][]byte
	sets  int
	hits  int
}

func newMockCache() *mockCache { return &mockCache{store: make(map[string][]byte)} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if data, ok := m.store[key]; ok {
		m.hits++
		return data, nil
	}
	return nil, context.Canceled // any non-nil error means miss
}
func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.store[key] = value
	m.sets++
	return nil
}
func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.store, key)
	return nil
}

func fixAt(lat, lon float64, at time.Time) domain.Fix {
	return domain.Fix{Time: at, Location: domain.GeoPoint{Lat: lat, Lon: lon}}
}

func TestTrailService_Bounds(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	fixes := &mockFixRepo{
		pathForTrailFn: func(ctx context.Context, trailID string) ([]domain.Fix, error) {
			return []domain.Fix{
				fixAt(1, 1, base),
				fixAt(-2, 2, base.Add(time.Minute)),
				fixAt(-3, -3, base.Add(2*time.Minute)),
				fixAt(4, -4, base.Add(3*time.Minute)),
			}, nil
		},
	}

	svc := usecases.NewTrailService(&mockTrailRepo{}, fixes, nil)
	bounds, err := svc.Bounds(context.Background(), "trail-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bounds == nil {
		t.Fatal("expected bounds for a non-empty trail")
	}

	want := domain.Bounds{MinLat: -3, MinLon: -4, MaxLat: 4, MaxLon: 2}
	if *bounds != want {
		t.Errorf("expected %+v, got %+v", want, *bounds)
	}
}

func TestTrailService_Bounds_EmptyTrail(t *testing.T) {
	fixes := &mockFixRepo{
		pathForTrailFn: func(ctx context.Context, trailID string) ([]domain.Fix, error) {
			return nil, nil
		},
	}

	svc := usecases.NewTrailService(&mockTrailRepo{}, fixes, nil)
	bounds, err := svc.Bounds(context.Background(), "trail-empty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bounds != nil {
		t.Errorf("expected absent bounds for an empty trail, got %+v", *bounds)
	}
}

func TestTrailService_Bounds_SingleFix(t *testing.T) {
	fixes := &mockFixRepo{
		pathForTrailFn: func(ctx context.Context, trailID string) ([]domain.Fix, error) {
			return []domain.Fix{fixAt(116.34, 40.02, time.Now())}, nil
		},
	}

	svc := usecases.NewTrailService(&mockTrailRepo{}, fixes, nil)
	bounds, err := svc.Bounds(context.Background(), "trail-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.Bounds{MinLat: 116.34, MaxLat: 116.34, MinLon: 40.02, MaxLon: 40.02}
	if bounds == nil || *bounds != want {
		t.Errorf("expected degenerate bounds %+v, got %+v", want, bounds)
	}
}

func TestTrailService_Bounds_Cached(t *testing.T) {
	calls := 0
	fixes := &mockFixRepo{
		pathForTrailFn: func(ctx context.Context, trailID string) ([]domain.Fix, error) {
			calls++
			return []domain.Fix{fixAt(1, 1, time.Now()), fixAt(2, 2, time.Now())}, nil
		},
	}
	cache := newMockCache()

	svc := usecases.NewTrailService(&mockTrailRepo{}, fixes, cache)
	if _, err := svc.Bounds(context.Background(), "trail-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Bounds(context.Background(), "trail-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected 1 repository call, got %d", calls)
	}
	if cache.hits != 1 {
		t.Errorf("expected 1 cache hit, got %d", cache.hits)
	}
}

func TestTrailService_ComputeStats(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	fixes := &mockFixRepo{
		pathForTrailFn: func(ctx context.Context, trailID string) ([]domain.Fix, error) {
			return []domain.Fix{
				fixAt(43.2630, -2.9350, base),
				fixAt(43.2640, -2.9350, base.Add(1*time.Minute)),
				fixAt(43.2650, -2.9350, base.Add(2*time.Minute)),
			}, nil
		},
	}

	svc := usecases.NewTrailService(&mockTrailRepo{}, fixes, nil)
	stats, err := svc.ComputeStats(context.Background(), "trail-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.FixCount != 3 {
		t.Errorf("expected 3 fixes, got %d", stats.FixCount)
	}
	// Two segments of 0.001 degrees latitude each, ~111 m per segment.
	if stats.LengthMeters < 200 || stats.LengthMeters > 250 {
		t.Errorf("expected ~222 m, got %.1f", stats.LengthMeters)
	}
	if stats.Duration != 2*time.Minute {
		t.Errorf("expected 2m duration, got %s", stats.Duration)
	}
	if stats.Bounds == nil {
		t.Error("expected bounds on stats")
	}
	if stats.AvgSpeed <= 0 {
		t.Errorf("expected positive average speed, got %f", stats.AvgSpeed)
	}
}

func TestTrailService_ComputeStats_EmptyTrail(t *testing.T) {
	svc := usecases.NewTrailService(&mockTrailRepo{}, &mockFixRepo{}, nil)
	stats, err := svc.ComputeStats(context.Background(), "trail-empty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.FixCount != 0 || stats.LengthMeters != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
	if stats.Bounds != nil {
		t.Error("expected no bounds for an empty trail")
	}
}

func TestTrailService_Stats_PrefersPersistedSummary(t *testing.T) {
	stored := &domain.TrailStats{
		TrailID:      "trail-1",
		FixCount:     42,
		LengthMeters: 1234.5,
		Duration:     30 * time.Minute,
		Bounds:       &domain.Bounds{MinLat: -3, MinLon: -4, MaxLat: 4, MaxLon: 2},
		ComputedAt:   time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
	trails := &mockTrailRepo{
		getStatsFn: func(ctx context.Context, trailID string) (*domain.TrailStats, error) {
			return stored, nil
		},
	}
	fixes := &mockFixRepo{
		pathForTrailFn: func(ctx context.Context, trailID string) ([]domain.Fix, error) {
			t.Fatal("fixes should not be loaded when a saved summary exists")
			return nil, nil
		},
	}

	svc := usecases.NewTrailService(trails, fixes, nil)
	stats, err := svc.Stats(context.Background(), "trail-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.FixCount != 42 || stats.LengthMeters != 1234.5 {
		t.Errorf("expected the saved summary, got %+v", stats)
	}
}

func TestTrailService_Start(t *testing.T) {
	trails := &mockTrailRepo{}
	svc := usecases.NewTrailService(trails, &mockFixRepo{}, nil)

	trail := &domain.Trail{TrailID: "trail-9", TrackerID: "beacon-1"}
	if err := svc.Start(context.Background(), trail); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trails.created) != 1 {
		t.Fatalf("expected one created trail, got %d", len(trails.created))
	}
	if trails.created[0].StartedAt.IsZero() {
		t.Error("expected StartedAt to be defaulted")
	}

	if err := svc.Start(context.Background(), &domain.Trail{TrackerID: "beacon-1"}); err == nil {
		t.Error("expected an error for a missing trail_id")
	}
	if err := svc.Start(context.Background(), &domain.Trail{TrailID: "trail-9"}); err == nil {
		t.Error("expected an error for a missing tracker_id")
	}
}

func TestTrailService_Close_InvalidatesCache(t *testing.T) {
	cache := newMockCache()
	cache.store["trails:bounds:trail-1"] = []byte(`{}`)
	cache.store["trails:stats:trail-1"] = []byte(`{}`)

	svc := usecases.NewTrailService(&mockTrailRepo{}, &mockFixRepo{}, cache)
	if err := svc.Close(context.Background(), "trail-1", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := cache.store["trails:bounds:trail-1"]; ok {
		t.Error("expected bounds cache entry to be dropped")
	}
	if _, ok := cache.store["trails:stats:trail-1"]; ok {
		t.Error("expected stats cache entry to be dropped")
	}
}
