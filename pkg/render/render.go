// Package render draws a generated map and its overlays onto a raster
// surface in virtual map space (one map unit per pixel).
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/ChicagoDave/ridemap/pkg/layout"
	"github.com/ChicagoDave/ridemap/pkg/routing"
	"github.com/hajimehoshi/bitmapfont/v4"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Options selects the optional layers. The zero value draws only the
// background, buildings and roads.
type Options struct {
	ShowWater bool
	Parks     []geo.Park
	// Route is omitted when it has fewer than two points.
	Route     routing.Route
	DropPin   *geo.Point
	PickupPin *geo.Point
	Labels    []geo.Label
}

// Layer geometry.
const (
	windowMinW   = 22.0
	windowMinH   = 18.0
	windowInset  = 3.0
	windowPitchX = 7.0
	windowPitchY = 6.0
	windowW      = 3.0
	windowH      = 2.0

	centerLineWidth = 2.0
	centerLineDash  = 16.0
	centerLineGap   = 12.0

	routeGlowWidth = 22.0
	routeWidth     = 6.0

	dropPinOuter   = 12.0
	dropPinInner   = 5.0
	pickupPinOuter = 10.0
	pickupPinInner = 4.0
	pinRingWidth   = 2.0
)

// NewSurface allocates a surface covering a w x h extent.
func NewSurface(w, h float64) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, int(math.Ceil(w)), int(math.Ceil(h))))
}

// Render draws the map onto dst. Coordinates are virtual map space mapped
// 1:1 onto dst pixels. Layers are painted back to front: background, water,
// buildings, parks, roads, route, pins, labels. Rendering the same inputs
// twice produces identical pixels.
func Render(dst *image.RGBA, w, h float64, grid layout.RoadGrid, buildings []geo.Building, opts Options) {
	c := newCanvas(dst)

	draw.Draw(dst, dst.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	if opts.ShowWater {
		drawWater(c, w, h)
	}
	drawBuildings(c, buildings)
	if len(opts.Parks) > 0 {
		drawParks(c, opts.Parks)
	}
	drawRoads(c, grid.Segments)
	if len(opts.Route) >= 2 {
		drawRoute(c, opts.Route)
	}
	if opts.DropPin != nil {
		drawPin(c, *opts.DropPin, dropPinOuter, dropPinInner, dropPinColor)
	}
	if opts.PickupPin != nil {
		drawPin(c, *opts.PickupPin, pickupPinOuter, pickupPinInner, pickupPinColor)
	}
	drawLabels(dst, opts.Labels)
}

// WaterBody returns the water ellipse for an extent as (center, rx, ry).
func WaterBody(w, h float64) (geo.Point, float64, float64) {
	return geo.Pt(0.80*w, 0.16*h), 0.24 * w, 0.14 * h
}

func drawWater(c *canvas, w, h float64) {
	center, rx, ry := WaterBody(w, h)
	c.fill([]geo.Polygon{geo.ApproximateEllipse(center, rx, ry, 96)}, waterColor)
}

func drawBuildings(c *canvas, buildings []geo.Building) {
	for _, b := range buildings {
		c.fillRect(b.X, b.Y, b.W, b.H, b.Color.RGBA())
		c.strokeRect(b.X, b.Y, b.W, b.H, outlineColor)
		if b.Lit && b.W > windowMinW && b.H > windowMinH {
			drawWindows(c, b)
		}
	}
}

// drawWindows lays a fixed grid of lit windows over a building.
func drawWindows(c *canvas, b geo.Building) {
	right := b.X + b.W - windowInset
	bottom := b.Y + b.H - windowInset
	for wy := b.Y + windowInset; wy+windowH <= bottom; wy += windowPitchY {
		for wx := b.X + windowInset; wx+windowW <= right; wx += windowPitchX {
			c.fillRect(wx, wy, windowW, windowH, windowColor)
		}
	}
}

func drawParks(c *canvas, parks []geo.Park) {
	polys := make([]geo.Polygon, 0, len(parks))
	for _, p := range parks {
		if p.R > 0 {
			polys = append(polys, geo.ApproximateCircle(geo.Pt(p.X, p.Y), p.R, 0))
		}
	}
	c.fill(polys, parkColor)
}

func drawRoads(c *canvas, segments []geo.RoadSegment) {
	for _, s := range segments {
		col := secondaryRoadColor
		if s.IsMain {
			col = mainRoadColor
		}
		c.stroke(s.Points, s.Width, col, false)
	}
	for _, s := range segments {
		if !s.IsMain {
			continue
		}
		var dashes []geo.Polygon
		for _, d := range s.Polyline().Dashes(centerLineDash, centerLineGap) {
			dashes = append(dashes, strokePolygons(d.Points, centerLineWidth, false)...)
		}
		c.fill(dashes, centerLineColor)
	}
}

func drawRoute(c *canvas, r routing.Route) {
	c.stroke(r, routeGlowWidth, routeGlowColor, true)
	c.stroke(r, routeWidth, routeColor, true)
}

// drawPin paints a coloured disc with a white rim and a white centre dot.
func drawPin(c *canvas, at geo.Point, outer, inner float64, col color.Color) {
	c.fill([]geo.Polygon{geo.ApproximateCircle(at, outer, 0)}, col)
	c.fill(ring(at, outer-pinRingWidth, outer), pinRingColor)
	c.fill([]geo.Polygon{geo.ApproximateCircle(at, inner, 0)}, pinRingColor)
}

func drawLabels(dst *image.RGBA, labels []geo.Label) {
	if len(labels) == 0 {
		return
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelColor),
		Face: bitmapfont.Face,
	}
	for _, l := range labels {
		d.Dot = fixed.P(int(math.Round(l.X)), int(math.Round(l.Y)))
		d.DrawString(l.Text)
	}
}
