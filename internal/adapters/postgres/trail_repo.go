package postgres

import (
	"context"
	"time"

	"github.com/samirrijal/trailhub/internal/core/domain"
)

// TrailRepo implements ports.TrailRepository.
type TrailRepo struct {
	db *DB
}

func NewTrailRepo(db *DB) *TrailRepo { return &TrailRepo{db: db} }

func (r *TrailRepo) Create(ctx context.Context, t *domain.Trail) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO trails (trail_id, tracker_id, name, started_at, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, t.TrailID, t.TrackerID, t.Name, t.StartedAt, t.Metadata).Scan(&t.ID, &t.CreatedAt)
}

func (r *TrailRepo) GetByID(ctx context.Context, id string) (*domain.Trail, error) {
	var t domain.Trail
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, trail_id, tracker_id, COALESCE(name, ''), started_at, ended_at,
		       COALESCE(metadata, '{}'), created_at
		FROM trails WHERE trail_id = $1
	`, id).Scan(&t.ID, &t.TrailID, &t.TrackerID, &t.Name, &t.StartedAt, &t.EndedAt,
		&t.Metadata, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TrailRepo) ListByTracker(ctx context.Context, trackerID string) ([]domain.Trail, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, trail_id, tracker_id, COALESCE(name, ''), started_at, ended_at,
		       COALESCE(metadata, '{}'), created_at
		FROM trails WHERE tracker_id = $1 ORDER BY started_at DESC
	`, trackerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trails []domain.Trail
	for rows.Next() {
		var t domain.Trail
		if err := rows.Scan(&t.ID, &t.TrailID, &t.TrackerID, &t.Name, &t.StartedAt,
			&t.EndedAt, &t.Metadata, &t.CreatedAt); err != nil {
			return nil, err
		}
		trails = append(trails, t)
	}
	return trails, rows.Err()
}

func (r *TrailRepo) Close(ctx context.Context, id string, endedAt time.Time) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE trails SET ended_at = $2 WHERE trail_id = $1 AND ended_at IS NULL
	`, id, endedAt)
	return err
}

// SaveStats upserts a computed trail summary. Bounds are stored as four
// plain columns rather than a PostGIS envelope so they round-trip exactly.
func (r *TrailRepo) SaveStats(ctx context.Context, s *domain.TrailStats) error {
	var minLat, minLon, maxLat, maxLon *float64
	if s.Bounds != nil {
		minLat, minLon = &s.Bounds.MinLat, &s.Bounds.MinLon
		maxLat, maxLon = &s.Bounds.MaxLat, &s.Bounds.MaxLon
	}
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO trail_stats (trail_id, fix_count, length_meters, duration_seconds,
		                         avg_speed, min_lat, min_lon, max_lat, max_lon, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (trail_id) DO UPDATE
		SET fix_count = EXCLUDED.fix_count, length_meters = EXCLUDED.length_meters,
		    duration_seconds = EXCLUDED.duration_seconds, avg_speed = EXCLUDED.avg_speed,
		    min_lat = EXCLUDED.min_lat, min_lon = EXCLUDED.min_lon,
		    max_lat = EXCLUDED.max_lat, max_lon = EXCLUDED.max_lon,
		    computed_at = EXCLUDED.computed_at
	`, s.TrailID, s.FixCount, s.LengthMeters, int(s.Duration.Seconds()),
		s.AvgSpeed, minLat, minLon, maxLat, maxLon, s.ComputedAt)
	return err
}

func (r *TrailRepo) GetStats(ctx context.Context, trailID string) (*domain.TrailStats, error) {
	var s domain.TrailStats
	var durationSecs int
	var minLat, minLon, maxLat, maxLon *float64
	err := r.db.Pool.QueryRow(ctx, `
		SELECT trail_id, fix_count, length_meters, duration_seconds, avg_speed,
		       min_lat, min_lon, max_lat, max_lon, computed_at
		FROM trail_stats WHERE trail_id = $1
	`, trailID).Scan(&s.TrailID, &s.FixCount, &s.LengthMeters, &durationSecs,
		&s.AvgSpeed, &minLat, &minLon, &maxLat, &maxLon, &s.ComputedAt)
	if err != nil {
		return nil, err
	}
	s.Duration = time.Duration(durationSecs) * time.Second
	if minLat != nil && minLon != nil && maxLat != nil && maxLon != nil {
		s.Bounds = &domain.Bounds{MinLat: *minLat, MinLon: *minLon, MaxLat: *maxLat, MaxLon: *maxLon}
	}
	return &s, nil
}

func (r *TrailRepo) DeleteStats(ctx context.Context, trailID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM trail_stats WHERE trail_id = $1`, trailID)
	return err
}
