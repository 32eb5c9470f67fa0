package postgres

import (
	"context"

	"github.com/samirrijal/trailhub/internal/core/domain"
)

// TrackerRepo implements ports.TrackerRepository with pgx.
type TrackerRepo struct {
	db *DB
}

// NewTrackerRepo creates a new TrackerRepo.
func NewTrackerRepo(db *DB) *TrackerRepo {
	return &TrackerRepo{db: db}
}

// Upsert inserts or updates a single tracker.
func (r *TrackerRepo) Upsert(ctx context.Context, t *domain.Tracker) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO trackers (tracker_id, name, kind, owner, active, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tracker_id) DO UPDATE
		SET name = EXCLUDED.name, kind = EXCLUDED.kind,
		    owner = EXCLUDED.owner, active = EXCLUDED.active,
		    metadata = EXCLUDED.metadata
	`, t.TrackerID, t.Name, t.Kind, t.Owner, t.Active, t.Metadata)
	return err
}

// GetByID returns a tracker by its external tracker id, with its latest
// known fix location.
func (r *TrackerRepo) GetByID(ctx context.Context, id string) (*domain.Tracker, error) {
	var t domain.Tracker
	var lat, lon *float64
	err := r.db.Pool.QueryRow(ctx, `
		SELECT t.id, t.tracker_id, t.name, t.kind, COALESCE(t.owner, ''), t.active,
		       COALESCE(t.metadata, '{}'), t.created_at,
		       ST_Y(f.location::geometry), ST_X(f.location::geometry)
		FROM trackers t
		LEFT JOIN LATERAL (
			SELECT location FROM fixes
			WHERE tracker_id = t.tracker_id ORDER BY time DESC LIMIT 1
		) f ON true
		WHERE t.tracker_id = $1
	`, id).Scan(&t.ID, &t.TrackerID, &t.Name, &t.Kind, &t.Owner, &t.Active,
		&t.Metadata, &t.CreatedAt, &lat, &lon)
	if err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		t.Location = &domain.GeoPoint{Lat: *lat, Lon: *lon}
	}
	return &t, nil
}

// List returns all trackers ordered by name.
func (r *TrackerRepo) List(ctx context.Context) ([]domain.Tracker, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, tracker_id, name, kind, COALESCE(owner, ''), active,
		       COALESCE(metadata, '{}'), created_at
		FROM trackers ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trackers []domain.Tracker
	for rows.Next() {
		var t domain.Tracker
		if err := rows.Scan(&t.ID, &t.TrackerID, &t.Name, &t.Kind, &t.Owner,
			&t.Active, &t.Metadata, &t.CreatedAt); err != nil {
			return nil, err
		}
		trackers = append(trackers, t)
	}
	return trackers, rows.Err()
}

// FindNearby returns active trackers whose latest fix is within radiusMeters
// of the given point, nearest first.
func (r *TrackerRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Tracker, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT t.id, t.tracker_id, t.name, t.kind, COALESCE(t.owner, ''), t.active,
		       COALESCE(t.metadata, '{}'), t.created_at,
		       ST_Y(f.location::geometry), ST_X(f.location::geometry),
		       ST_Distance(f.location, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography) AS distance
		FROM trackers t
		JOIN LATERAL (
			SELECT location FROM fixes
			WHERE tracker_id = t.tracker_id ORDER BY time DESC LIMIT 1
		) f ON true
		WHERE t.active
		  AND ST_DWithin(f.location, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography, $3)
		ORDER BY distance
		LIMIT $4
	`, lat, lon, radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trackers []domain.Tracker
	for rows.Next() {
		var t domain.Tracker
		var p domain.GeoPoint
		var dist float64
		if err := rows.Scan(&t.ID, &t.TrackerID, &t.Name, &t.Kind, &t.Owner,
			&t.Active, &t.Metadata, &t.CreatedAt, &p.Lat, &p.Lon, &dist); err != nil {
			return nil, err
		}
		t.Location = &p
		t.Distance = &dist
		trackers = append(trackers, t)
	}
	return trackers, rows.Err()
}
