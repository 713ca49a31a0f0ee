package routing

import (
	"math"

	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/ChicagoDave/ridemap/pkg/layout"
)

// Tunables are the shape parameters of the grid router. The defaults were
// tuned against a 1200x1200 extent and reproduce the reference routes.
type Tunables struct {
	// Blend positions the crossing street at Blend*(start.y+end.y), biased
	// toward the start so routes turn early.
	Blend float64 `yaml:"blend" json:"blend"`
	// JogThreshold is the minimum distance between the crossing street and
	// the destination street that warrants a second jog.
	JogThreshold float64 `yaml:"jog_threshold" json:"jog_threshold"`
	// SnapThreshold is the largest offset from a road that is treated as
	// already being on it.
	SnapThreshold float64 `yaml:"snap_threshold" json:"snap_threshold"`
}

// DefaultTunables returns the reference router parameters.
func DefaultTunables() Tunables {
	return Tunables{
		Blend:         0.45,
		JogThreshold:  20,
		SnapThreshold: 3,
	}
}

// MaxRoutePoints bounds the length of any route BuildGridRoute returns:
// start, up to five waypoints, and end. A route needing both jogs plus the
// final snap uses all seven; the reference trip (580,850)->(260,120) is one.
// Do not lower it to six.
const MaxRoutePoints = 7

// pointEpsilon is the distance under which consecutive waypoints collapse.
const pointEpsilon = 1e-9

// Route is an ordered path in virtual map space. The first point is the
// requested start, the last the requested end, and every interior point lies
// on a lattice line of the grid it was built from.
type Route []geo.Point

// BuildGridRoute snaps start and end onto the lattice of grid and returns a
// Manhattan-style route between them. All coordinates are virtual map space.
// The route always has the same fixed shape:
//
//	start -> (v1, start.y) -> (v1, hMid) -> (v2, hMid) -> (v2, hEnd) -> (end.x, hEnd) -> end
//
// where v1/v2 are the vertical lines nearest start.x/end.x, hMid the
// horizontal line nearest Blend*(start.y+end.y) and hEnd the one nearest
// end.y. Optional legs are skipped when the offset is within the snap or jog
// thresholds, and consecutive identical points collapse. Lines are chosen
// globally, so points outside the extent still produce a route.
func BuildGridRoute(start, end geo.Point, grid layout.RoadGrid, _, _ float64, t Tunables) Route {
	route := Route{start}
	push := func(p geo.Point) {
		if route[len(route)-1].Near(p, pointEpsilon) {
			return
		}
		route = append(route, p)
	}

	vRoad1 := nearestLine(grid.Vertical, start.X)
	if math.Abs(start.X-vRoad1) > t.SnapThreshold {
		push(geo.Pt(vRoad1, start.Y))
	}

	hMid := nearestLine(grid.Horizontal, t.Blend*(start.Y+end.Y))
	push(geo.Pt(vRoad1, hMid))

	vRoad2 := nearestLine(grid.Vertical, end.X)
	push(geo.Pt(vRoad2, hMid))

	hEnd := nearestLine(grid.Horizontal, end.Y)
	if math.Abs(hEnd-hMid) > t.JogThreshold {
		push(geo.Pt(vRoad2, hEnd))
		if math.Abs(end.X-vRoad2) > t.SnapThreshold {
			push(geo.Pt(end.X, hEnd))
		}
	}

	// The endpoints are kept verbatim even when a waypoint already sits on them.
	if n := len(route); n > 1 && route[n-1].Near(end, pointEpsilon) {
		route[n-1] = end
	} else {
		route = append(route, end)
	}
	return route
}

// nearestLine returns the lattice value closest to v. Ties go to the first
// candidate in lattice order. An empty lattice leaves v unsnapped.
func nearestLine(lines []float64, v float64) float64 {
	if len(lines) == 0 {
		return v
	}
	best := lines[0]
	bestDist := math.Abs(v - best)
	for _, l := range lines[1:] {
		if d := math.Abs(v - l); d < bestDist {
			best = l
			bestDist = d
		}
	}
	return best
}

// Polyline returns the route as a polyline.
func (r Route) Polyline() geo.Polyline {
	return geo.NewPolyline(r...)
}

// Length returns the total travelled distance along the route.
func (r Route) Length() float64 {
	return r.Polyline().Length()
}

// PointAt returns the position at fraction t in [0,1] of the route length.
func (r Route) PointAt(t float64) geo.Point {
	return r.Polyline().PointAt(t)
}

// Start returns the first point, or the origin for an empty route.
func (r Route) Start() geo.Point {
	if len(r) == 0 {
		return geo.Origin
	}
	return r[0]
}

// End returns the last point, or the origin for an empty route.
func (r Route) End() geo.Point {
	if len(r) == 0 {
		return geo.Origin
	}
	return r[len(r)-1]
}
