// Package viewer is a desktop window that plays a scene: the tracked
// position drives along the route while the camera follows it.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/ChicagoDave/ridemap/pkg/drift"
	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/ChicagoDave/ridemap/pkg/render"
	"github.com/ChicagoDave/ridemap/pkg/scene"
	"github.com/hajimehoshi/bitmapfont/v4"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
)

// Config controls playback.
type Config struct {
	// TripSeconds is how long a full trip takes at normal speed.
	TripSeconds float64
	// DriftStep is how far one arrow key press nudges the drift.
	DriftStep float64
}

// DefaultConfig returns a 45 second trip and 10px drift nudges.
func DefaultConfig() Config {
	return Config{TripSeconds: 45, DriftStep: 10}
}

var (
	carColor = color.RGBA{66, 133, 244, 255}
	carRim   = color.RGBA{255, 255, 255, 255}
	hudColor = color.RGBA{235, 238, 245, 255}
)

// Game implements ebiten.Game for one scene.
type Game struct {
	scene  *scene.Scene
	cfg    Config
	feed   *drift.Feed
	nudge  geo.Point
	mapImg *ebiten.Image
	face   text.Face
	paused bool
	t      float64
	w, h   int
	done   <-chan struct{}
	log    *logrus.Entry
}

// NewGame prepares a game for sc. Keyboard drift is pushed through its own
// feed, attached to the scene camera.
func NewGame(sc *scene.Scene, cfg Config, log *logrus.Entry) *Game {
	def := DefaultConfig()
	if cfg.TripSeconds <= 0 {
		cfg.TripSeconds = def.TripSeconds
	}
	if cfg.DriftStep <= 0 {
		cfg.DriftStep = def.DriftStep
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	g := &Game{
		scene:  sc,
		cfg:    cfg,
		feed:   drift.NewFeed(),
		mapImg: ebiten.NewImageFromImage(sc.MapImage()),
		face:   text.NewGoXFace(bitmapfont.Face),
		w:      sc.Spec.Screen.Width,
		h:      sc.Spec.Screen.Height,
		log:    log.WithField("scene_id", sc.ID),
	}
	sc.AttachDrift(g.feed, nil)
	return g
}

// Update advances the trip and handles input.
// Update is called every tick (1/60 [s] by default).
func (g *Game) Update() error {
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.t = 0
		g.nudge = geo.Point{}
		g.feed.Push(g.nudge)
	}
	g.handleDriftKeys()

	if !g.paused && g.t < 1 {
		g.t += 1 / (g.cfg.TripSeconds * float64(ebiten.TPS()))
		if g.t >= 1 {
			g.t = 1
			g.log.Info("trip complete")
		}
	}
	g.scene.Advance(g.t)
	return nil
}

func (g *Game) handleDriftKeys() {
	step := g.cfg.DriftStep
	var d geo.Point
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		d.X = -step
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		d.X = step
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		d.Y = -step
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		d.Y = step
	default:
		return
	}
	// Nudges start from the clamped drift so they can always be undone.
	g.nudge = g.scene.Camera.State().Drift.Add(d)
	g.feed.Push(g.nudge)
}

// Draw paints the camera view, the car marker and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(render.Background())

	st := g.scene.Camera.State()
	tr := g.scene.Transform(g.w, g.h)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(tr.Scale, tr.Scale)
	op.GeoM.Translate(tr.TranslateX, tr.TranslateY)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.mapImg, op)

	car := tr.Apply(st.Tracked)
	vector.DrawFilledCircle(screen, float32(car.X), float32(car.Y), 9, carRim, true)
	vector.DrawFilledCircle(screen, float32(car.X), float32(car.Y), 7, carColor, true)

	status := "driving"
	switch {
	case g.paused:
		status = "paused"
	case g.t >= 1:
		status = "arrived"
	}
	hud := fmt.Sprintf("%s  %3.0f%%  drift %+.0f,%+.0f", status, g.t*100, st.Drift.X, st.Drift.Y)
	hop := &text.DrawOptions{}
	hop.GeoM.Translate(8, 8)
	hop.ColorScale.ScaleWithColor(hudColor)
	text.Draw(screen, hud, g.face, hop)
}

// Layout fixes the logical screen to the scene's configured screen size.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.w, g.h
}

// Run opens a window and plays sc until the window is closed or ctx is
// cancelled. The scene's external drift source, if any, runs alongside.
func Run(ctx context.Context, sc *scene.Scene, cfg Config, log *logrus.Entry) error {
	g := NewGame(sc, cfg, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g.done = ctx.Done()
	if src := sc.ExternalDrift(g.log); src != nil {
		src.Subscribe(func(off geo.Point) { g.feed.Push(off) })
		go func() {
			if err := src.Run(ctx); err != nil {
				g.log.WithError(err).Warn("drift source stopped")
			}
		}()
	}

	ebiten.SetWindowSize(g.w, g.h)
	ebiten.SetWindowTitle("ridemap")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
