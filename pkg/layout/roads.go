package layout

import "github.com/ChicagoDave/ridemap/pkg/geo"

// Lattice positions as fractions of the extent. Horizontal roads are scaled
// by height, vertical roads by width.
var (
	horizontalFractions = [12]float64{0.04, 0.12, 0.20, 0.29, 0.37, 0.46, 0.54, 0.63, 0.71, 0.80, 0.88, 0.96}
	verticalFractions   = [8]float64{0.06, 0.18, 0.31, 0.44, 0.56, 0.69, 0.82, 0.94}
)

// diagonalFractions holds the two fixed diagonal avenues as
// {x0, y0, x1, y1} fractions of the extent.
var diagonalFractions = [2][4]float64{
	{0.00, 0.70, 0.62, 0.00},
	{0.35, 1.00, 1.00, 0.38},
}

// Road widths in virtual map units.
const (
	MainRoadWidth      = 14.0
	SecondaryRoadWidth = 8.0
	DiagonalRoadWidth  = 10.0
)

// RoadGrid is the generated road network plus the snapping lattice.
// Horizontal holds the y of every horizontal road, Vertical the x of every
// vertical road; each lattice value has exactly one segment in Segments.
type RoadGrid struct {
	Segments   []geo.RoadSegment `json:"segments"`
	Horizontal []float64         `json:"horizontal_lines"`
	Vertical   []float64         `json:"vertical_lines"`
}

// GenerateRoadGrid lays out the road network for an extent in virtual map
// space. The result depends only on w and h.
func GenerateRoadGrid(w, h float64) RoadGrid {
	grid := RoadGrid{
		Segments:   make([]geo.RoadSegment, 0, len(horizontalFractions)+len(verticalFractions)+len(diagonalFractions)),
		Horizontal: make([]float64, 0, len(horizontalFractions)),
		Vertical:   make([]float64, 0, len(verticalFractions)),
	}

	for i, f := range horizontalFractions {
		y := f * h
		grid.Horizontal = append(grid.Horizontal, y)
		grid.Segments = append(grid.Segments, latticeRoad(i, geo.Pt(0, y), geo.Pt(w, y)))
	}
	for i, f := range verticalFractions {
		x := f * w
		grid.Vertical = append(grid.Vertical, x)
		grid.Segments = append(grid.Segments, latticeRoad(i, geo.Pt(x, 0), geo.Pt(x, h)))
	}
	for _, d := range diagonalFractions {
		grid.Segments = append(grid.Segments, geo.RoadSegment{
			Points: []geo.Point{geo.Pt(d[0]*w, d[1]*h), geo.Pt(d[2]*w, d[3]*h)},
			Width:  DiagonalRoadWidth,
		})
	}
	return grid
}

// latticeRoad builds the segment for the i-th line of one axis. Every third
// line is a main road.
func latticeRoad(i int, from, to geo.Point) geo.RoadSegment {
	main := i%3 == 0
	width := SecondaryRoadWidth
	if main {
		width = MainRoadWidth
	}
	return geo.RoadSegment{
		Points: []geo.Point{from, to},
		Width:  width,
		IsMain: main,
	}
}
