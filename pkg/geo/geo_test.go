package geo

import (
	"image/color"
	"math"
	"testing"
)

const tolerance = 0.01

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// --- Point tests ---

func TestPointDistance(t *testing.T) {
	a := Pt(0, 0)
	b := Pt(3, 4)
	if !approxEqual(a.Distance(b), 5.0, tolerance) {
		t.Errorf("expected distance 5.0, got %f", a.Distance(b))
	}
}

func TestPointNormalize(t *testing.T) {
	n := Pt(3, 4).Normalize()
	if !approxEqual(n.Length(), 1.0, tolerance) {
		t.Errorf("expected unit length, got %f", n.Length())
	}
	if z := Pt(0, 0).Normalize(); z != (Point{}) {
		t.Errorf("expected zero vector, got %v", z)
	}
}

func TestPointLerp(t *testing.T) {
	mid := Pt(0, 0).Lerp(Pt(10, 10), 0.5)
	if !approxEqual(mid.X, 5, tolerance) || !approxEqual(mid.Y, 5, tolerance) {
		t.Errorf("expected (5,5), got (%f,%f)", mid.X, mid.Y)
	}
}

func TestPointClamp(t *testing.T) {
	got := Pt(500, -900).Clamp(100, 150)
	if got != Pt(100, -150) {
		t.Errorf("expected (100,-150), got %v", got)
	}
	inside := Pt(-20, 30).Clamp(100, 150)
	if inside != Pt(-20, 30) {
		t.Errorf("expected point unchanged, got %v", inside)
	}
}

// --- Polygon tests ---

func TestPolygonAreaSquare(t *testing.T) {
	sq := Rect(0, 0, 10, 10)
	if !approxEqual(sq.Area(), 100, tolerance) {
		t.Errorf("expected area 100, got %f", sq.Area())
	}
}

func TestPolygonEnsureCCW(t *testing.T) {
	cw := Rect(0, 0, 10, 10).Reverse()
	if cw.SignedArea() >= 0 {
		t.Fatalf("expected negative signed area for reversed rect, got %f", cw.SignedArea())
	}
	if cw.EnsureCCW().SignedArea() <= 0 {
		t.Error("expected EnsureCCW to flip winding")
	}
}

func TestPolygonContains(t *testing.T) {
	sq := Rect(0, 0, 10, 10)
	if !sq.Contains(Pt(5, 5)) {
		t.Error("expected (5,5) inside square")
	}
	if sq.Contains(Pt(15, 5)) {
		t.Error("expected (15,5) outside square")
	}
}

func TestPolygonBoundingBox(t *testing.T) {
	p := NewPolygon(Pt(-5, -3), Pt(10, 0), Pt(7, 12))
	mn, mx := p.BoundingBox()
	if !approxEqual(mn.X, -5, tolerance) || !approxEqual(mn.Y, -3, tolerance) {
		t.Errorf("expected min (-5,-3), got (%f,%f)", mn.X, mn.Y)
	}
	if !approxEqual(mx.X, 10, tolerance) || !approxEqual(mx.Y, 12, tolerance) {
		t.Errorf("expected max (10,12), got (%f,%f)", mx.X, mx.Y)
	}
}

// --- Clipping tests ---

func TestApproximateCircleArea(t *testing.T) {
	c := ApproximateCircle(Pt(0, 0), 10, 128)
	expected := math.Pi * 100
	if !approxEqual(c.Area(), expected, 1.0) {
		t.Errorf("expected area ~%f, got %f", expected, c.Area())
	}
}

func TestApproximateEllipseBounds(t *testing.T) {
	e := ApproximateEllipse(Pt(50, 50), 20, 10, 0)
	mn, mx := e.BoundingBox()
	if !approxEqual(mn.X, 30, tolerance) || !approxEqual(mx.X, 70, tolerance) {
		t.Errorf("unexpected x extent [%f,%f]", mn.X, mx.X)
	}
	if !approxEqual(mn.Y, 40, 0.1) || !approxEqual(mx.Y, 60, 0.1) {
		t.Errorf("unexpected y extent [%f,%f]", mn.Y, mx.Y)
	}
}

func TestClipToConvexPartialOverlap(t *testing.T) {
	subject := Rect(-5, -5, 10, 10)
	clipper := Rect(0, 0, 100, 100)
	got := ClipToConvex(subject, clipper)
	if !approxEqual(got.Area(), 25, tolerance) {
		t.Errorf("expected clipped area 25, got %f", got.Area())
	}
}

func TestClipToConvexNoOverlap(t *testing.T) {
	got := ClipToConvex(Rect(200, 200, 10, 10), Rect(0, 0, 100, 100))
	if !got.IsEmpty() {
		t.Errorf("expected empty polygon, got %d vertices", got.Len())
	}
}

func TestSegmentQuad(t *testing.T) {
	q := SegmentQuad(Pt(0, 0), Pt(10, 0), 4)
	if !approxEqual(q.Area(), 40, tolerance) {
		t.Errorf("expected quad area 40, got %f", q.Area())
	}
	if !SegmentQuad(Pt(1, 1), Pt(1, 1), 4).IsEmpty() {
		t.Error("expected zero-length segment to yield empty polygon")
	}
}

// --- Polyline tests ---

func TestPolylineLength(t *testing.T) {
	pl := NewPolyline(Pt(0, 0), Pt(3, 4), Pt(3, 10))
	if !approxEqual(pl.Length(), 11, tolerance) {
		t.Errorf("expected length 11, got %f", pl.Length())
	}
}

func TestPolylinePointAt(t *testing.T) {
	pl := NewPolyline(Pt(0, 0), Pt(10, 0), Pt(10, 10))
	mid := pl.PointAt(0.5)
	if !approxEqual(mid.X, 10, tolerance) || !approxEqual(mid.Y, 0, tolerance) {
		t.Errorf("expected (10,0), got (%f,%f)", mid.X, mid.Y)
	}
	if end := pl.PointAt(2); end != Pt(10, 10) {
		t.Errorf("expected clamp to last point, got %v", end)
	}
}

func TestPolylineNearestPoint(t *testing.T) {
	pl := NewPolyline(Pt(0, 0), Pt(10, 0))
	pt, d := pl.NearestPoint(Pt(5, 3))
	if !approxEqual(pt.X, 5, tolerance) || !approxEqual(d, 3, tolerance) {
		t.Errorf("expected (5,0) at 3, got %v at %f", pt, d)
	}
}

func TestPolylineDashes(t *testing.T) {
	pl := NewPolyline(Pt(0, 0), Pt(100, 0))
	dashes := pl.Dashes(10, 10)
	if len(dashes) != 5 {
		t.Fatalf("expected 5 dashes, got %d", len(dashes))
	}
	for i, d := range dashes {
		if !approxEqual(d.Length(), 10, tolerance) {
			t.Errorf("dash %d: expected length 10, got %f", i, d.Length())
		}
		if !approxEqual(d.Points[0].X, float64(i*20), tolerance) {
			t.Errorf("dash %d: expected start x %d, got %f", i, i*20, d.Points[0].X)
		}
	}
}

func TestPolylineDashesAcrossCorner(t *testing.T) {
	pl := NewPolyline(Pt(0, 0), Pt(15, 0), Pt(15, 15))
	dashes := pl.Dashes(20, 5)
	if len(dashes) != 2 {
		t.Fatalf("expected 2 dashes, got %d", len(dashes))
	}
	if len(dashes[0].Points) != 3 {
		t.Errorf("expected first dash to bend around the corner, got %d points", len(dashes[0].Points))
	}
	if !approxEqual(dashes[0].Length(), 20, tolerance) {
		t.Errorf("expected first dash length 20, got %f", dashes[0].Length())
	}
	if !approxEqual(dashes[1].Length(), 5, tolerance) {
		t.Errorf("expected trailing dash length 5, got %f", dashes[1].Length())
	}
}

// --- Colour tests ---

func TestColorSpecRGBA(t *testing.T) {
	cases := []struct {
		spec ColorSpec
		want color.RGBA
	}{
		{ColorSpec{Hue: 0, Saturation: 100, Lightness: 50}, color.RGBA{255, 0, 0, 255}},
		{ColorSpec{Hue: 120, Saturation: 100, Lightness: 50}, color.RGBA{0, 255, 0, 255}},
		{ColorSpec{Hue: 240, Saturation: 100, Lightness: 50}, color.RGBA{0, 0, 255, 255}},
		{ColorSpec{Hue: 210, Saturation: 0, Lightness: 100}, color.RGBA{255, 255, 255, 255}},
	}
	for _, tc := range cases {
		if got := tc.spec.RGBA(); got != tc.want {
			t.Errorf("%+v: expected %v, got %v", tc.spec, tc.want, got)
		}
	}
}
