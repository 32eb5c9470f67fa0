package domain

import (
	"time"
)

// Tracker represents a GPS device reporting position fixes
// (e.g. a delivery van, a rental bike, a hiker's beacon).
type Tracker struct {
	ID        string         `json:"id"`
	TrackerID string         `json:"tracker_id"`
	Name      string         `json:"name"`
	Kind      string         `json:"kind"` // vehicle | person | asset
	Owner     string         `json:"owner,omitempty"`
	Active    bool           `json:"active"`
	Location  *GeoPoint      `json:"location,omitempty"` // latest known fix
	Metadata  map[string]any `json:"metadata,omitempty"`
	Distance  *float64       `json:"distance,omitempty"` // computed field
	CreatedAt time.Time      `json:"created_at"`
}

// Trail is a recorded track: the ordered path a tracker followed
// between a start and an end time.
type Trail struct {
	ID        string         `json:"id"`
	TrailID   string         `json:"trail_id"`
	TrackerID string         `json:"tracker_id"`
	Name      string         `json:"name,omitempty"`
	Path      GeoLineString  `json:"path"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"` // nil while recording
	Bounds    *Bounds        `json:"bounds,omitempty"`   // computed field
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Fix is a single real-time position reading from a tracker.
type Fix struct {
	Time      time.Time      `json:"time"`
	TrackerID string         `json:"tracker_id"`
	TrailID   string         `json:"trail_id,omitempty"`
	Location  GeoPoint       `json:"location"`
	Elevation float64        `json:"elevation"` // meters above sea level
	Speed     float64        `json:"speed"`     // m/s
	Heading   float64        `json:"heading"`   // degrees clockwise from north
	Accuracy  float64        `json:"accuracy"`  // horizontal error estimate, meters
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Region is a named geofence expressed as a geographic bounding box.
type Region struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Bounds    Bounds    `json:"bounds"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// GeofenceEvent records a tracker entering or leaving a region.
type GeofenceEvent struct {
	ID        string    `json:"id"`
	Time      time.Time `json:"time"`
	TrackerID string    `json:"tracker_id"`
	RegionID  string    `json:"region_id"`
	Kind      string    `json:"kind"` // enter | exit
	Location  GeoPoint  `json:"location"`
}

// TrailStats is a computed summary of a trail.
type TrailStats struct {
	TrailID      string        `json:"trail_id"`
	FixCount     int           `json:"fix_count"`
	LengthMeters float64       `json:"length_meters"`
	Duration     time.Duration `json:"duration"`
	AvgSpeed     float64       `json:"avg_speed"` // m/s over moving time
	Bounds       *Bounds       `json:"bounds,omitempty"`
	ComputedAt   time.Time     `json:"computed_at"`
}
