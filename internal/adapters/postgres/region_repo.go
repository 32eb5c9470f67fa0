package postgres

import (
	"context"
	"time"

	"github.com/samirrijal/trailhub/internal/core/domain"
)

// RegionRepo implements ports.RegionRepository.
type RegionRepo struct {
	db *DB
}

func NewRegionRepo(db *DB) *RegionRepo { return &RegionRepo{db: db} }

func (r *RegionRepo) Upsert(ctx context.Context, reg *domain.Region) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO regions (slug, name, min_lat, min_lon, max_lat, max_lon, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (slug) DO UPDATE
		SET name = EXCLUDED.name, min_lat = EXCLUDED.min_lat, min_lon = EXCLUDED.min_lon,
		    max_lat = EXCLUDED.max_lat, max_lon = EXCLUDED.max_lon, active = EXCLUDED.active
	`, reg.Slug, reg.Name, reg.Bounds.MinLat, reg.Bounds.MinLon,
		reg.Bounds.MaxLat, reg.Bounds.MaxLon, reg.Active)
	return err
}

func (r *RegionRepo) GetBySlug(ctx context.Context, slug string) (*domain.Region, error) {
	var reg domain.Region
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, slug, name, min_lat, min_lon, max_lat, max_lon, active, created_at
		FROM regions WHERE slug = $1
	`, slug).Scan(&reg.ID, &reg.Slug, &reg.Name,
		&reg.Bounds.MinLat, &reg.Bounds.MinLon, &reg.Bounds.MaxLat, &reg.Bounds.MaxLon,
		&reg.Active, &reg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *RegionRepo) List(ctx context.Context) ([]domain.Region, error) {
	return r.list(ctx, `
		SELECT id, slug, name, min_lat, min_lon, max_lat, max_lon, active, created_at
		FROM regions ORDER BY slug
	`)
}

func (r *RegionRepo) ListActive(ctx context.Context) ([]domain.Region, error) {
	return r.list(ctx, `
		SELECT id, slug, name, min_lat, min_lon, max_lat, max_lon, active, created_at
		FROM regions WHERE active ORDER BY slug
	`)
}

func (r *RegionRepo) Delete(ctx context.Context, slug string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM regions WHERE slug = $1`, slug)
	return err
}

func (r *RegionRepo) list(ctx context.Context, query string) ([]domain.Region, error) {
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []domain.Region
	for rows.Next() {
		var reg domain.Region
		if err := rows.Scan(&reg.ID, &reg.Slug, &reg.Name,
			&reg.Bounds.MinLat, &reg.Bounds.MinLon, &reg.Bounds.MaxLat, &reg.Bounds.MaxLon,
			&reg.Active, &reg.CreatedAt); err != nil {
			return nil, err
		}
		regions = append(regions, reg)
	}
	return regions, rows.Err()
}

// GeofenceEventRepo implements ports.GeofenceEventRepository.
type GeofenceEventRepo struct {
	db *DB
}

func NewGeofenceEventRepo(db *DB) *GeofenceEventRepo { return &GeofenceEventRepo{db: db} }

func (r *GeofenceEventRepo) Insert(ctx context.Context, e *domain.GeofenceEvent) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO geofence_events (time, tracker_id, region_id, kind, location)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography)
		RETURNING id
	`, e.Time, e.TrackerID, e.RegionID, e.Kind, e.Location.Lon, e.Location.Lat).Scan(&e.ID)
}

func (r *GeofenceEventRepo) ListByTracker(ctx context.Context, trackerID string, since time.Time, limit int) ([]domain.GeofenceEvent, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, time, tracker_id, region_id, kind,
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon
		FROM geofence_events
		WHERE tracker_id = $1 AND time >= $2
		ORDER BY time DESC
		LIMIT $3
	`, trackerID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.GeofenceEvent
	for rows.Next() {
		var e domain.GeofenceEvent
		if err := rows.Scan(&e.ID, &e.Time, &e.TrackerID, &e.RegionID, &e.Kind,
			&e.Location.Lat, &e.Location.Lon); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
