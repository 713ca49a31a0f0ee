package routing

import (
	"math"

	"github.com/ChicagoDave/ridemap/pkg/geo"
)

// Summary describes a route for display.
type Summary struct {
	Points int       `json:"points"`
	Turns  int       `json:"turns"`
	Length float64   `json:"length"`
	Min    geo.Point `json:"min"`
	Max    geo.Point `json:"max"`
}

// turnTolerance is the smallest normalised cross product counted as a turn.
const turnTolerance = 1e-6

// Summarize computes point count, number of turns, length and bounds.
func Summarize(r Route) Summary {
	s := Summary{Points: len(r), Length: r.Length()}
	if len(r) == 0 {
		return s
	}
	s.Min, s.Max = geo.NewPolygon(r...).BoundingBox()

	for i := 1; i+1 < len(r); i++ {
		in := r[i].Sub(r[i-1]).Normalize()
		out := r[i+1].Sub(r[i]).Normalize()
		if in == (geo.Point{}) || out == (geo.Point{}) {
			continue
		}
		if math.Abs(in.Cross(out)) > turnTolerance {
			s.Turns++
		}
	}
	return s
}
