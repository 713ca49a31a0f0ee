// Package scene ties generation, routing, rendering and the camera into one
// navigation scene that can be rendered frame by frame.
package scene

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"
	"sync"

	"github.com/ChicagoDave/ridemap/pkg/camera"
	"github.com/ChicagoDave/ridemap/pkg/drift"
	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/ChicagoDave/ridemap/pkg/layout"
	"github.com/ChicagoDave/ridemap/pkg/render"
	"github.com/ChicagoDave/ridemap/pkg/routing"
	"github.com/ChicagoDave/ridemap/pkg/scene2d"
	"github.com/ChicagoDave/ridemap/pkg/spec"
	"github.com/ChicagoDave/ridemap/pkg/validation"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"
)

// ErrInvalidSpec is returned by Assemble when the scene config fails schema
// validation.
var ErrInvalidSpec = errors.New("invalid scene spec")

// Scene is one generated map with a trip on it. The map itself is immutable;
// the route, pins and camera change as the trip is rerouted and advanced.
// A Scene is safe for concurrent use.
type Scene struct {
	ID        string
	Spec      *spec.SceneSpec
	Grid      layout.RoadGrid
	Buildings []geo.Building
	Camera    *camera.Controller

	log *logrus.Entry

	mu       sync.RWMutex
	route    routing.Route
	opts     render.Options
	progress float64
	mapImage *image.RGBA
	detach   func()
}

// Assemble generates the map described by s and places the configured trip
// on it. The camera starts on the pickup point with no drift.
func Assemble(s *spec.SceneSpec, log *logrus.Entry) (*Scene, error) {
	if r := validation.ValidateSchema(s); !r.Valid {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidSpec, r.Summary, r.Errors[0].Message)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	id := uuid.NewString()
	sc := &Scene{
		ID:        id,
		Spec:      s,
		Grid:      layout.GenerateRoadGrid(s.Map.Width, s.Map.Height),
		Buildings: layout.GenerateBuildings(s.Map.Width, s.Map.Height, s.Map.Seed, s.Map.Buildings),
		Camera: camera.NewController(s.Camera.Zoom, camera.DriftBounds{
			MaxX: s.Camera.DriftMaxX,
			MaxY: s.Camera.DriftMaxY,
		}),
		log: log.WithField("scene_id", id),
	}
	sc.Reroute(s.Route.Start, s.Route.End)

	sc.log.WithFields(logrus.Fields{
		"width":     s.Map.Width,
		"height":    s.Map.Height,
		"seed":      s.Map.Seed,
		"buildings": len(sc.Buildings),
	}).Info("scene assembled")
	return sc, nil
}

// Reroute replaces the trip. The camera is reset onto the new start, drift
// is cleared and any attached drift source is released; callers re-attach
// one if they still want drift.
func (sc *Scene) Reroute(start, end geo.Point) routing.Route {
	s := sc.Spec
	route := routing.BuildGridRoute(start, end, sc.Grid, s.Map.Width, s.Map.Height, s.Route.Router.Tunables())

	opts := render.Options{
		ShowWater: s.Render.ShowWater,
		Parks:     s.Render.Parks,
		Labels:    s.Render.Labels,
	}
	if s.Render.ShowRoute {
		opts.Route = route
	}
	if s.Render.ShowPins {
		pickup, drop := start, end
		opts.PickupPin = &pickup
		opts.DropPin = &drop
	}

	sc.mu.Lock()
	detach := sc.detach
	sc.detach = nil
	sc.route = route
	sc.opts = opts
	sc.progress = 0
	sc.mapImage = nil
	sc.mu.Unlock()

	if detach != nil {
		detach()
	}
	sc.Camera.Reset(start)

	sc.log.WithFields(logrus.Fields{
		"start":  start,
		"end":    end,
		"points": len(route),
	}).Debug("route built")
	return route
}

// Route returns the current route.
func (sc *Scene) Route() routing.Route {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.route
}

// Options returns the render options for the current trip.
func (sc *Scene) Options() render.Options {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.opts
}

// Progress returns the fraction of the route travelled, in [0, 1].
func (sc *Scene) Progress() float64 {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.progress
}

// Advance moves the tracked position to fraction t of the route, clamped to
// [0, 1], and returns the new position.
func (sc *Scene) Advance(t float64) geo.Point {
	if math.IsNaN(t) {
		t = 0
	}
	t = math.Max(0, math.Min(1, t))

	sc.mu.Lock()
	sc.progress = t
	p := sc.route.PointAt(t)
	sc.mu.Unlock()

	sc.Camera.SetTrackedPosition(p)
	return p
}

// MapImage returns the rendered map at one pixel per map unit. The image is
// rendered on first use after each reroute and must not be modified.
func (sc *Scene) MapImage() *image.RGBA {
	sc.mu.RLock()
	img := sc.mapImage
	sc.mu.RUnlock()
	if img != nil {
		return img
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.mapImage == nil {
		s := sc.Spec
		img := render.NewSurface(s.Map.Width, s.Map.Height)
		render.Render(img, s.Map.Width, s.Map.Height, sc.Grid, sc.Buildings, sc.opts)
		sc.mapImage = img
	}
	return sc.mapImage
}

// Transform returns the current camera transform for a screen of the given
// size.
func (sc *Scene) Transform(screenW, screenH int) camera.Transform {
	return sc.Camera.Transform(float64(screenW), float64(screenH))
}

// Frame renders what the camera sees on a screen of the given size.
func (sc *Scene) Frame(screenW, screenH int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, screenW, screenH))
	sc.FrameInto(dst)
	return dst
}

// FrameInto renders the camera view into dst, sized by dst's bounds.
func (sc *Scene) FrameInto(dst *image.RGBA) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(render.Background()), image.Point{}, draw.Src)

	src := sc.MapImage()
	tr := sc.Transform(b.Dx(), b.Dy())
	xdraw.ApproxBiLinear.Transform(dst, tr.Aff3(), src, src.Bounds(), xdraw.Over, nil)
}

// AttachDrift subscribes the camera to src, replacing any previous source.
// onUpdate, if set, runs after every accepted offset.
func (sc *Scene) AttachDrift(src drift.Source, onUpdate func()) {
	detach := drift.Attach(src, sc.Camera, onUpdate)

	sc.mu.Lock()
	prev := sc.detach
	sc.detach = detach
	sc.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// DetachDrift releases the current drift source, if any. Drift keeps its
// last value.
func (sc *Scene) DetachDrift() {
	sc.mu.Lock()
	detach := sc.detach
	sc.detach = nil
	sc.mu.Unlock()

	if detach != nil {
		detach()
	}
}

// Close releases the scene's drift subscription.
func (sc *Scene) Close() {
	sc.DetachDrift()
	sc.log.Debug("scene closed")
}

// Scene2D returns the flattened 2D description of the scene.
func (sc *Scene) Scene2D() *scene2d.Scene2D {
	return scene2d.Assemble2D(scene2d.Input{
		SceneID:   sc.ID,
		Width:     sc.Spec.Map.Width,
		Height:    sc.Spec.Map.Height,
		Seed:      sc.Spec.Map.Seed,
		Grid:      sc.Grid,
		Buildings: sc.Buildings,
		Options:   sc.Options(),
	})
}
