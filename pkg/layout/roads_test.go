package layout

import (
	"math"
	"reflect"
	"testing"
)

func TestGenerateRoadGridCounts(t *testing.T) {
	grid := GenerateRoadGrid(1200, 1200)
	if len(grid.Horizontal) != 12 {
		t.Errorf("expected 12 horizontal lines, got %d", len(grid.Horizontal))
	}
	if len(grid.Vertical) != 8 {
		t.Errorf("expected 8 vertical lines, got %d", len(grid.Vertical))
	}
	if len(grid.Segments) != 22 {
		t.Errorf("expected 22 segments (12+8+2 diagonals), got %d", len(grid.Segments))
	}
}

func TestGenerateRoadGridDeterministic(t *testing.T) {
	a := GenerateRoadGrid(1200, 900)
	b := GenerateRoadGrid(1200, 900)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("road grid differs between runs with identical extent")
	}
}

func TestGenerateRoadGridScalesWithExtent(t *testing.T) {
	small := GenerateRoadGrid(600, 300)
	large := GenerateRoadGrid(1200, 600)
	for i := range small.Horizontal {
		if math.Abs(large.Horizontal[i]-2*small.Horizontal[i]) > 1e-9 {
			t.Errorf("horizontal %d: expected %f, got %f", i, 2*small.Horizontal[i], large.Horizontal[i])
		}
	}
	for i := range small.Vertical {
		if math.Abs(large.Vertical[i]-2*small.Vertical[i]) > 1e-9 {
			t.Errorf("vertical %d: expected %f, got %f", i, 2*small.Vertical[i], large.Vertical[i])
		}
	}
}

func TestLatticeCoverage(t *testing.T) {
	const w, h = 1200.0, 1200.0
	grid := GenerateRoadGrid(w, h)

	for _, y := range grid.Horizontal {
		matches := 0
		for _, s := range grid.Segments {
			a, b := s.Points[0], s.Points[len(s.Points)-1]
			if a.Y == y && b.Y == y && a.X == 0 && b.X == w {
				matches++
			}
		}
		if matches != 1 {
			t.Errorf("horizontal line y=%f matched %d segments, expected 1", y, matches)
		}
	}
	for _, x := range grid.Vertical {
		matches := 0
		for _, s := range grid.Segments {
			a, b := s.Points[0], s.Points[len(s.Points)-1]
			if a.X == x && b.X == x && a.Y == 0 && b.Y == h {
				matches++
			}
		}
		if matches != 1 {
			t.Errorf("vertical line x=%f matched %d segments, expected 1", x, matches)
		}
	}
}

func TestMainRoadsEveryThirdLine(t *testing.T) {
	grid := GenerateRoadGrid(1200, 1200)
	for i := range grid.Horizontal {
		seg := grid.Segments[i]
		wantMain := i%3 == 0
		if seg.IsMain != wantMain {
			t.Errorf("horizontal %d: expected main=%v, got %v", i, wantMain, seg.IsMain)
		}
		if wantMain && seg.Width != MainRoadWidth {
			t.Errorf("horizontal %d: expected main width %f, got %f", i, MainRoadWidth, seg.Width)
		}
	}
	for i := range grid.Vertical {
		seg := grid.Segments[len(grid.Horizontal)+i]
		if seg.IsMain != (i%3 == 0) {
			t.Errorf("vertical %d: expected main=%v, got %v", i, i%3 == 0, seg.IsMain)
		}
	}
}

func TestRoadSegmentsValid(t *testing.T) {
	grid := GenerateRoadGrid(800, 600)
	for i, s := range grid.Segments {
		if len(s.Points) < 2 {
			t.Errorf("segment %d: expected at least 2 points, got %d", i, len(s.Points))
		}
		if s.Width <= 0 {
			t.Errorf("segment %d: expected positive width, got %f", i, s.Width)
		}
	}
}
