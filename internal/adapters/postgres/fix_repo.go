package postgres

import (
	"context"
	"database/sql"

	"github.com/samirrijal/trailhub/internal/core/domain"
)

// FixRepo implements ports.FixRepository.
type FixRepo struct {
	db *DB
}

func NewFixRepo(db *DB) *FixRepo {
	return &FixRepo{db: db}
}

func (r *FixRepo) Insert(ctx context.Context, f *domain.Fix) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO fixes (time, tracker_id, trail_id, location, elevation, speed, heading, accuracy, metadata)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography, $6, $7, $8, $9, $10)
	`, f.Time, f.TrackerID, nilIfEmpty(f.TrailID),
		f.Location.Lon, f.Location.Lat, f.Elevation, f.Speed, f.Heading,
		f.Accuracy, f.Metadata)
	return err
}

func (r *FixRepo) LatestByTracker(ctx context.Context, trackerID string) (*domain.Fix, error) {
	var f domain.Fix
	var trailID sql.NullString
	err := r.db.Pool.QueryRow(ctx, `
		SELECT time, tracker_id, trail_id,
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       elevation, speed, heading, accuracy
		FROM fixes
		WHERE tracker_id = $1
		ORDER BY time DESC
		LIMIT 1
	`, trackerID).Scan(&f.Time, &f.TrackerID, &trailID,
		&f.Location.Lat, &f.Location.Lon,
		&f.Elevation, &f.Speed, &f.Heading, &f.Accuracy)
	if err != nil {
		return nil, err
	}
	f.TrailID = trailID.String
	return &f, nil
}

// PathForTrail returns the fixes of a trail ordered by time ascending, which
// is the insertion order of the recorded path.
func (r *FixRepo) PathForTrail(ctx context.Context, trailID string) ([]domain.Fix, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT time, tracker_id, trail_id,
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       elevation, speed, heading, accuracy
		FROM fixes
		WHERE trail_id = $1
		ORDER BY time ASC
	`, trailID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fixes []domain.Fix
	for rows.Next() {
		var f domain.Fix
		var tid sql.NullString
		if err := rows.Scan(&f.Time, &f.TrackerID, &tid,
			&f.Location.Lat, &f.Location.Lon,
			&f.Elevation, &f.Speed, &f.Heading, &f.Accuracy); err != nil {
			return nil, err
		}
		f.TrailID = tid.String
		fixes = append(fixes, f)
	}
	return fixes, rows.Err()
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
