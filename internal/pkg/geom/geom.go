// Package geom provides planar geometry primitives used across TrailHub.
// Coordinates are plain float64 pairs; for geographic data the convention
// is X = longitude, Y = latitude (WGS 84).
package geom

// Point is a 2-D coordinate pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LineString is an ordered sequence of points describing a path.
// It carries no implied closure or area. A LineString may be empty.
type LineString []Point

// Len returns the number of points in the line string.
func (ls LineString) Len() int { return len(ls) }

// IsEmpty reports whether the line string contains no points.
func (ls LineString) IsEmpty() bool { return len(ls) == 0 }
