// Package camera keeps a tracked position centred on screen while an
// external drift signal nudges the view.
package camera

import (
	"math"
	"sync"

	"github.com/ChicagoDave/ridemap/pkg/geo"
	"golang.org/x/image/math/f64"
)

// DefaultZoom is the zoom used when a scene does not set one.
const DefaultZoom = 1.0

// DriftBounds limits the stored drift offset, in screen pixels, on each axis.
type DriftBounds struct {
	MaxX float64 `yaml:"max_x" json:"max_x"`
	MaxY float64 `yaml:"max_y" json:"max_y"`
}

// DefaultDriftBounds returns the reference clamp of +/-100 x and +/-150 y.
func DefaultDriftBounds() DriftBounds {
	return DriftBounds{MaxX: 100, MaxY: 150}
}

// State is the camera of one scene. Tracked is in virtual map space, Drift
// in screen pixels.
type State struct {
	Tracked geo.Point `json:"tracked"`
	Drift   geo.Point `json:"drift"`
	Zoom    float64   `json:"zoom"`
}

// Transform maps virtual map space to screen space: screen = p*Scale + T.
// Applied to a surface it is translate-then-scale from the top-left origin.
type Transform struct {
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
	Scale      float64 `json:"scale"`
}

// ComputeTransform returns the transform that puts s.Tracked at the centre
// of a screenW x screenH screen, offset by s.Drift.
func ComputeTransform(screenW, screenH float64, s State) Transform {
	return Transform{
		TranslateX: screenW/2 - s.Tracked.X*s.Zoom + s.Drift.X,
		TranslateY: screenH/2 - s.Tracked.Y*s.Zoom + s.Drift.Y,
		Scale:      s.Zoom,
	}
}

// Apply maps a virtual map space point to screen space.
func (t Transform) Apply(p geo.Point) geo.Point {
	return geo.Pt(p.X*t.Scale+t.TranslateX, p.Y*t.Scale+t.TranslateY)
}

// Invert maps a screen space point back to virtual map space.
func (t Transform) Invert(p geo.Point) geo.Point {
	if t.Scale == 0 {
		return geo.Origin
	}
	return geo.Pt((p.X-t.TranslateX)/t.Scale, (p.Y-t.TranslateY)/t.Scale)
}

// Aff3 returns the transform as a source-to-destination matrix for
// golang.org/x/image/draw.
func (t Transform) Aff3() f64.Aff3 {
	return f64.Aff3{
		t.Scale, 0, t.TranslateX,
		0, t.Scale, t.TranslateY,
	}
}

// Controller owns a scene's camera state. The tracked position is written
// by the scene loop and the drift by a drift source; both may run on other
// goroutines than the reader. Readers always observe a whole State, never a
// mix of old and new fields.
type Controller struct {
	mu     sync.RWMutex
	state  State
	bounds DriftBounds
	// epoch counts resets. Drift written for an older epoch is dropped.
	epoch uint64
}

// NewController creates a camera at the origin with no drift. A zoom that
// is not positive falls back to DefaultZoom, and non-positive bounds fall
// back to DefaultDriftBounds.
func NewController(zoom float64, bounds DriftBounds) *Controller {
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		zoom = DefaultZoom
	}
	if !(bounds.MaxX > 0) || !(bounds.MaxY > 0) {
		bounds = DefaultDriftBounds()
	}
	return &Controller{
		state:  State{Zoom: zoom},
		bounds: bounds,
	}
}

// Reset recentres the camera on start and clears the drift, as when a new
// route is shown.
func (c *Controller) Reset(start geo.Point) {
	c.mu.Lock()
	c.state.Tracked = start
	c.state.Drift = geo.Origin
	c.epoch++
	c.mu.Unlock()
}

// Epoch identifies the camera state since the last Reset.
func (c *Controller) Epoch() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch
}

// SetTrackedPosition moves the logical vehicle position (virtual map space).
func (c *Controller) SetTrackedPosition(p geo.Point) {
	c.mu.Lock()
	c.state.Tracked = p
	c.mu.Unlock()
}

// ApplyDrift clamps raw into the drift bounds and stores it. Non-finite
// offsets are dropped and the previous drift is kept. It reports whether the
// drift was updated.
func (c *Controller) ApplyDrift(raw geo.Point) bool {
	if !finite(raw.X) || !finite(raw.Y) {
		return false
	}
	clamped := raw.Clamp(c.bounds.MaxX, c.bounds.MaxY)
	c.mu.Lock()
	c.state.Drift = clamped
	c.mu.Unlock()
	return true
}

// ApplyDriftAt is ApplyDrift for a writer bound to epoch. Once the camera
// has been Reset past that epoch the offset is dropped.
func (c *Controller) ApplyDriftAt(epoch uint64, raw geo.Point) bool {
	if !finite(raw.X) || !finite(raw.Y) {
		return false
	}
	clamped := raw.Clamp(c.bounds.MaxX, c.bounds.MaxY)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return false
	}
	c.state.Drift = clamped
	return true
}

// State returns a snapshot of the camera.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Transform computes the screen transform from the current snapshot.
func (c *Controller) Transform(screenW, screenH float64) Transform {
	return ComputeTransform(screenW, screenH, c.State())
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
