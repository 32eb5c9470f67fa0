package geom_test

import (
	"math/rand"
	"testing"

	"github.com/samirrijal/trailhub/internal/pkg/geom"
)

func TestBoundingBox_Empty(t *testing.T) {
	var ls geom.LineString
	if _, ok := ls.BoundingBox(); ok {
		t.Fatal("expected no bounding box for an empty line string")
	}
}

func TestBoundingBox_SinglePoint(t *testing.T) {
	ls := geom.LineString{{X: 40.02, Y: 116.34}}
	box, ok := ls.BoundingBox()
	if !ok {
		t.Fatal("expected a bounding box")
	}
	want := geom.BoundingBox{XMin: 40.02, XMax: 40.02, YMin: 116.34, YMax: 116.34}
	if box != want {
		t.Errorf("expected degenerate box %+v, got %+v", want, box)
	}
}

func TestBoundingBox_MultiPoint(t *testing.T) {
	ls := geom.LineString{
		{X: 1, Y: 1},
		{X: 2, Y: -2},
		{X: -3, Y: -3},
		{X: -4, Y: 4},
	}
	box, ok := ls.BoundingBox()
	if !ok {
		t.Fatal("expected a bounding box")
	}
	want := geom.BoundingBox{XMin: -4, XMax: 2, YMin: -3, YMax: 4}
	if box != want {
		t.Errorf("expected %+v, got %+v", want, box)
	}
}

func TestBoundingBox_MinMaxOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for range 100 {
		ls := randomLineString(rng, 1+rng.Intn(20))
		box, ok := ls.BoundingBox()
		if !ok {
			t.Fatal("non-empty line string must have a box")
		}
		if box.XMin > box.XMax || box.YMin > box.YMax {
			t.Fatalf("min/max out of order: %+v", box)
		}
	}
}

func TestBoundingBox_Idempotent(t *testing.T) {
	ls := geom.LineString{
		{X: 1, Y: 1},
		{X: 2, Y: -2},
		{X: -3, Y: -3},
		{X: -4, Y: 4},
	}
	box, _ := ls.BoundingBox()

	corners := box.Corners()
	again, ok := geom.LineString(corners[:]).BoundingBox()
	if !ok {
		t.Fatal("expected a bounding box of the corners")
	}
	if again != box {
		t.Errorf("box of corners %+v differs from original %+v", again, box)
	}
}

func TestBoundingBox_OrderInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ls := randomLineString(rng, 12)
	box, _ := ls.BoundingBox()

	shuffled := make(geom.LineString, len(ls))
	copy(shuffled, ls)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	got, _ := shuffled.BoundingBox()
	if got != box {
		t.Errorf("permuted input changed box: %+v vs %+v", got, box)
	}
}

func TestBoundingBox_TranslationEquivariant(t *testing.T) {
	ls := geom.LineString{
		{X: 1, Y: 1},
		{X: 2, Y: -2},
		{X: -3, Y: -3},
		{X: -4, Y: 4},
	}
	box, _ := ls.BoundingBox()

	const dx, dy = 10.5, -3.25
	moved := make(geom.LineString, len(ls))
	for i, p := range ls {
		moved[i] = geom.Point{X: p.X + dx, Y: p.Y + dy}
	}
	got, _ := moved.BoundingBox()

	want := geom.BoundingBox{
		XMin: box.XMin + dx, XMax: box.XMax + dx,
		YMin: box.YMin + dy, YMax: box.YMax + dy,
	}
	if got != want {
		t.Errorf("expected translated box %+v, got %+v", want, got)
	}
}

func TestBoundingBox_Contains(t *testing.T) {
	box := geom.BoundingBox{XMin: -1, XMax: 1, YMin: -1, YMax: 1}

	inside := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: -1, Y: 0.5}}
	for _, p := range inside {
		if !box.Contains(p) {
			t.Errorf("expected %+v inside %+v", p, box)
		}
	}
	outside := []geom.Point{{X: 1.01, Y: 0}, {X: 0, Y: -2}}
	for _, p := range outside {
		if box.Contains(p) {
			t.Errorf("expected %+v outside %+v", p, box)
		}
	}
}

func TestBoundingBox_Union(t *testing.T) {
	a := geom.BoundingBox{XMin: 0, XMax: 1, YMin: 0, YMax: 1}
	b := geom.BoundingBox{XMin: -2, XMax: 0.5, YMin: 0.5, YMax: 3}

	got := a.Union(b)
	want := geom.BoundingBox{XMin: -2, XMax: 1, YMin: 0, YMax: 3}
	if got != want {
		t.Errorf("expected union %+v, got %+v", want, got)
	}
}

func TestBoundingBox_Intersects(t *testing.T) {
	a := geom.BoundingBox{XMin: 0, XMax: 2, YMin: 0, YMax: 2}

	if !a.Intersects(geom.BoundingBox{XMin: 2, XMax: 3, YMin: 2, YMax: 3}) {
		t.Error("boxes touching at a corner should intersect")
	}
	if a.Intersects(geom.BoundingBox{XMin: 2.1, XMax: 3, YMin: 0, YMax: 1}) {
		t.Error("disjoint boxes should not intersect")
	}
}

func randomLineString(rng *rand.Rand, n int) geom.LineString {
	ls := make(geom.LineString, n)
	for i := range ls {
		ls[i] = geom.Point{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
	}
	return ls
}
