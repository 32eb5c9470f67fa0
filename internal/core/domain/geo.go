package domain

import "github.com/samirrijal/trailhub/internal/pkg/geom"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Planar converts the coordinate to a planar point (X = lon, Y = lat).
func (p GeoPoint) Planar() geom.Point {
	return geom.Point{X: p.Lon, Y: p.Lat}
}

// GeoLineString represents an ordered sequence of geographic coordinates.
type GeoLineString struct {
	Coordinates []GeoPoint `json:"coordinates"`
}

// Planar converts the path to a planar line string (X = lon, Y = lat).
func (ls GeoLineString) Planar() geom.LineString {
	out := make(geom.LineString, len(ls.Coordinates))
	for i, p := range ls.Coordinates {
		out[i] = p.Planar()
	}
	return out
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// BoundsOf computes the bounding box of a path. The second return value is
// false for an empty path, which has no bounds.
func BoundsOf(ls GeoLineString) (Bounds, bool) {
	box, ok := ls.Planar().BoundingBox()
	if !ok {
		return Bounds{}, false
	}
	return boundsFromBox(box), true
}

// Contains reports whether the coordinate lies inside the bounds,
// boundary included.
func (b Bounds) Contains(p GeoPoint) bool {
	return b.box().Contains(p.Planar())
}

// Intersects reports whether the two bounds overlap.
func (b Bounds) Intersects(o Bounds) bool {
	return b.box().Intersects(o.box())
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return boundsFromBox(b.box().Union(o.box()))
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() GeoPoint {
	c := b.box().Center()
	return GeoPoint{Lat: c.Y, Lon: c.X}
}

func (b Bounds) box() geom.BoundingBox {
	return geom.BoundingBox{XMin: b.MinLon, XMax: b.MaxLon, YMin: b.MinLat, YMax: b.MaxLat}
}

func boundsFromBox(box geom.BoundingBox) Bounds {
	return Bounds{MinLat: box.YMin, MinLon: box.XMin, MaxLat: box.YMax, MaxLon: box.XMax}
}
