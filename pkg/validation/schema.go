package validation

import (
	"fmt"
	"math"
	"net/url"

	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/ChicagoDave/ridemap/pkg/spec"
)

// maxSeed is the largest seed the building generator uses unchanged.
const maxSeed = 1<<31 - 2

// ValidateSchema performs Level 1 (schema) validation on a parsed SceneSpec.
// It checks structural correctness before any generation.
func ValidateSchema(s *spec.SceneSpec) *Report {
	r := NewReport()

	validateVersion(s, r)
	validateMap(s, r)
	validateRoute(s, r)
	validateRender(s, r)
	validateCamera(s, r)
	validateScreen(s, r)
	validateDrift(s, r)

	return r
}

func validateVersion(s *spec.SceneSpec, r *Report) {
	if s.SpecVersion != spec.Version {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("spec_version %q differs from supported version %q", s.SpecVersion, spec.Version),
			SpecPath:    "spec_version",
			ActualValue: s.SpecVersion,
			Expected:    spec.Version,
		})
	}
}

func validateMap(s *spec.SceneSpec, r *Report) {
	m := s.Map
	if !positive(m.Width) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "map.width must be greater than 0",
			SpecPath:    "map.width",
			ActualValue: m.Width,
			Expected:    "> 0",
		})
	}
	if !positive(m.Height) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "map.height must be greater than 0",
			SpecPath:    "map.height",
			ActualValue: m.Height,
			Expected:    "> 0",
		})
	}
	if m.Buildings < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "map.buildings must be non-negative",
			SpecPath:    "map.buildings",
			ActualValue: m.Buildings,
			Expected:    ">= 0",
		})
	} else if m.Buildings == 0 {
		r.AddInfo(Result{
			Level:    LevelSchema,
			Message:  "map.buildings is 0; the map will show roads only",
			SpecPath: "map.buildings",
		})
	}
	if m.Seed < 1 || m.Seed > maxSeed {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("map.seed %d is outside [1, %d] and will be normalised", m.Seed, maxSeed),
			SpecPath:    "map.seed",
			ActualValue: m.Seed,
			Expected:    fmt.Sprintf("1-%d", maxSeed),
		})
	}
}

func validateRoute(s *spec.SceneSpec, r *Report) {
	checkPoint(r, "route.start", s.Route.Start, s.Map)
	checkPoint(r, "route.end", s.Route.End, s.Map)

	rt := s.Route.Router.Tunables()
	if !(rt.Blend >= 0 && rt.Blend <= 1) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("route.router.blend %.3f must be within [0, 1]", rt.Blend),
			SpecPath:    "route.router.blend",
			ActualValue: rt.Blend,
			Expected:    "0-1",
		})
	}
	if !(rt.JogThreshold >= 0) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "route.router.jog_threshold must be non-negative",
			SpecPath:    "route.router.jog_threshold",
			ActualValue: rt.JogThreshold,
			Expected:    ">= 0",
		})
	}
	if !(rt.SnapThreshold >= 0) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "route.router.snap_threshold must be non-negative",
			SpecPath:    "route.router.snap_threshold",
			ActualValue: rt.SnapThreshold,
			Expected:    ">= 0",
		})
	}
}

func checkPoint(r *Report, path string, p geo.Point, m spec.MapDef) {
	if !finite(p.X) || !finite(p.Y) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s must have finite coordinates", path),
			SpecPath:    path,
			ActualValue: p,
		})
		return
	}
	if p.X < 0 || p.Y < 0 || p.X > m.Width || p.Y > m.Height {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s (%.0f, %.0f) lies outside the %.0fx%.0f map", path, p.X, p.Y, m.Width, m.Height),
			SpecPath:    path,
			ActualValue: p,
			Suggestions: []string{"Move the point inside the map so the route end is visible"},
		})
	}
}

func validateRender(s *spec.SceneSpec, r *Report) {
	extent := geo.Rect(0, 0, s.Map.Width, s.Map.Height)
	for i, p := range s.Render.Parks {
		if !positive(p.R) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("render.parks[%d]: radius must be > 0", i),
				SpecPath:    fmt.Sprintf("render.parks[%d].r", i),
				ActualValue: p.R,
				Expected:    "> 0",
			})
			continue
		}
		if !extent.Contains(geo.Pt(p.X, p.Y)) {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("render.parks[%d] is centred outside the map", i),
				SpecPath:    fmt.Sprintf("render.parks[%d]", i),
				ActualValue: geo.Pt(p.X, p.Y),
			})
		}
	}
	for i, l := range s.Render.Labels {
		if l.Text == "" {
			r.AddWarning(Result{
				Level:    LevelSchema,
				Message:  fmt.Sprintf("render.labels[%d] has no text and will not be drawn", i),
				SpecPath: fmt.Sprintf("render.labels[%d].text", i),
			})
		}
	}
}

func validateCamera(s *spec.SceneSpec, r *Report) {
	c := s.Camera
	if !positive(c.Zoom) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "camera.zoom must be greater than 0",
			SpecPath:    "camera.zoom",
			ActualValue: c.Zoom,
			Expected:    "> 0",
		})
	}
	if c.DriftMaxX < 0 || !finite(c.DriftMaxX) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "camera.drift_max_x must be a non-negative number",
			SpecPath:    "camera.drift_max_x",
			ActualValue: c.DriftMaxX,
			Expected:    ">= 0",
		})
	}
	if c.DriftMaxY < 0 || !finite(c.DriftMaxY) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "camera.drift_max_y must be a non-negative number",
			SpecPath:    "camera.drift_max_y",
			ActualValue: c.DriftMaxY,
			Expected:    ">= 0",
		})
	}
}

func validateScreen(s *spec.SceneSpec, r *Report) {
	if s.Screen.Width <= 0 || s.Screen.Height <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "screen width and height must be greater than 0",
			SpecPath:    "screen",
			ActualValue: fmt.Sprintf("%dx%d", s.Screen.Width, s.Screen.Height),
			Expected:    "> 0",
		})
	}
}

func validateDrift(s *spec.SceneSpec, r *Report) {
	d := s.Drift
	for _, f := range []struct {
		path string
		v    any
		neg  bool
	}{
		{"drift.interval", d.Interval, d.Interval < 0},
		{"drift.max_age", d.MaxAge, d.MaxAge < 0},
		{"drift.timeout", d.Timeout, d.Timeout < 0},
	} {
		if f.neg {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s must not be negative", f.path),
				SpecPath:    f.path,
				ActualValue: f.v,
				Expected:    ">= 0",
			})
		}
	}

	switch d.Source {
	case "", spec.DriftNone, spec.DriftPush:
	case spec.DriftTrack:
		if len(d.Track) == 0 {
			r.AddError(Result{
				Level:    LevelSchema,
				Message:  "drift.track must contain at least one offset when source is track",
				SpecPath: "drift.track",
				Expected: "at least 1 point",
			})
		}
	case spec.DriftWebSocket:
		u, err := url.Parse(d.URL)
		if d.URL == "" || err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "drift.url must be a ws:// or wss:// URL when source is websocket",
				SpecPath:    "drift.url",
				ActualValue: d.URL,
				Expected:    "ws://host/path",
			})
		}
	default:
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown drift.source %q", d.Source),
			SpecPath:    "drift.source",
			ActualValue: d.Source,
			Expected:    "none, push, track or websocket",
		})
	}
}

func positive(v float64) bool {
	return v > 0 && finite(v)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
