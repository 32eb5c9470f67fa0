package geom

import "math"

// BoundingBox is the smallest axis-aligned rectangle containing a set of
// points. XMin <= XMax and YMin <= YMax always hold for a box produced by
// this package; a single-point input yields a degenerate box with zero
// width and height.
type BoundingBox struct {
	XMin float64 `json:"xmin"`
	XMax float64 `json:"xmax"`
	YMin float64 `json:"ymin"`
	YMax float64 `json:"ymax"`
}

// BoundingBox returns the axis-aligned bounding box of the line string.
// The second return value is false when the line string is empty: there is
// no meaningful box for zero points, and callers must handle the absence.
//
// Extremes are computed independently per axis, so the minimum X and the
// minimum Y need not come from the same point. The scan is a single O(n)
// pass with O(1) extra space. NaN coordinates produce unspecified results.
func (ls LineString) BoundingBox() (BoundingBox, bool) {
	if len(ls) == 0 {
		return BoundingBox{}, false
	}
	if len(ls) == 1 {
		p := ls[0]
		return BoundingBox{XMin: p.X, XMax: p.X, YMin: p.Y, YMax: p.Y}, true
	}

	box := BoundingBox{
		XMin: math.Inf(1), XMax: math.Inf(-1),
		YMin: math.Inf(1), YMax: math.Inf(-1),
	}
	for _, p := range ls {
		box.XMin = math.Min(box.XMin, p.X)
		box.XMax = math.Max(box.XMax, p.X)
		box.YMin = math.Min(box.YMin, p.Y)
		box.YMax = math.Max(box.YMax, p.Y)
	}
	return box, true
}

// Width returns the extent of the box along the X axis.
func (b BoundingBox) Width() float64 { return b.XMax - b.XMin }

// Height returns the extent of the box along the Y axis.
func (b BoundingBox) Height() float64 { return b.YMax - b.YMin }

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Point {
	return Point{X: (b.XMin + b.XMax) / 2, Y: (b.YMin + b.YMax) / 2}
}

// Contains reports whether p lies inside the box. The comparison is
// inclusive, so boundary points are inside.
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.XMin && p.X <= b.XMax && p.Y >= b.YMin && p.Y <= b.YMax
}

// Intersects reports whether the two boxes share at least one point.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return b.XMin <= o.XMax && b.XMax >= o.XMin && b.YMin <= o.YMax && b.YMax >= o.YMin
}

// Union returns the smallest box containing both b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		XMin: math.Min(b.XMin, o.XMin),
		XMax: math.Max(b.XMax, o.XMax),
		YMin: math.Min(b.YMin, o.YMin),
		YMax: math.Max(b.YMax, o.YMax),
	}
}

// Corners returns the four corner points of the box in counter-clockwise
// order starting from (XMin, YMin).
func (b BoundingBox) Corners() [4]Point {
	return [4]Point{
		{X: b.XMin, Y: b.YMin},
		{X: b.XMax, Y: b.YMin},
		{X: b.XMax, Y: b.YMax},
		{X: b.XMin, Y: b.YMax},
	}
}
