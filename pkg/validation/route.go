package validation

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/ChicagoDave/ridemap/pkg/layout"
	"github.com/ChicagoDave/ridemap/pkg/routing"
	"github.com/ChicagoDave/ridemap/pkg/spec"
)

// ValidateRoute routes the configured trip on the generated grid and
// reports its shape. Call it only on a spec that passed
// ValidateSchema.
func ValidateRoute(s *spec.SceneSpec) *Report {
	r := NewReport()

	grid := layout.GenerateRoadGrid(s.Map.Width, s.Map.Height)
	route := routing.BuildGridRoute(s.Route.Start, s.Route.End, grid, s.Map.Width, s.Map.Height, s.Route.Router.Tunables())
	sum := routing.Summarize(route)

	r.AddInfo(Result{
		Level:       LevelRoute,
		Message:     fmt.Sprintf("route has %d points, %d turns, length %.0f", sum.Points, sum.Turns, sum.Length),
		SpecPath:    "route",
		ActualValue: sum,
	})

	if s.Route.Start.Near(s.Route.End, s.Route.Router.Tunables().SnapThreshold) {
		r.AddWarning(Result{
			Level:        LevelRoute,
			Message:      "route start and end coincide; only the pins will be visible",
			SpecPath:     "route.end",
			ConflictWith: "route.start",
		})
	}
	if len(route) > routing.MaxRoutePoints {
		r.AddError(Result{
			Level:       LevelRoute,
			Message:     fmt.Sprintf("route has %d points, more than the router maximum %d", len(route), routing.MaxRoutePoints),
			SpecPath:    "route",
			ActualValue: len(route),
			Expected:    fmt.Sprintf("<= %d", routing.MaxRoutePoints),
		})
	}
	for i := 1; i < len(route)-1; i++ {
		if d := distanceToGrid(route[i], grid); d > latticeTolerance {
			r.AddWarning(Result{
				Level:       LevelRoute,
				Message:     fmt.Sprintf("route point %d (%.0f, %.0f) is %.1f off the road lattice", i, route[i].X, route[i].Y, d),
				SpecPath:    fmt.Sprintf("route[%d]", i),
				ActualValue: d,
			})
		}
	}
	if !s.Render.ShowRoute {
		r.AddInfo(Result{
			Level:    LevelRoute,
			Message:  "render.show_route is off; the route is used for tracking only",
			SpecPath: "render.show_route",
		})
	}

	return r
}

// Validate runs schema validation and, when it passes, route analysis.
func Validate(s *spec.SceneSpec) *Report {
	r := ValidateSchema(s)
	if r.Valid {
		r.Merge(ValidateRoute(s))
	}
	return r
}

// latticeTolerance is how far a waypoint may sit from a road centerline.
const latticeTolerance = 1e-6

// distanceToGrid returns how far p lies from the nearest road centerline.
func distanceToGrid(p geo.Point, grid layout.RoadGrid) float64 {
	best := math.MaxFloat64
	for _, seg := range grid.Segments {
		if _, d := seg.Polyline().NearestPoint(p); d < best {
			best = d
		}
	}
	return best
}
