package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/ChicagoDave/ridemap/pkg/geo"
	"golang.org/x/image/vector"
)

// joinSegments is the polygon resolution of round joins and caps.
const joinSegments = 12

// canvas rasterises polygons onto an RGBA surface. Each fill call
// rasterises a batch of polygons into one coverage mask, so overlapping
// pieces of a translucent stroke are composited once.
type canvas struct {
	dst  *image.RGBA
	clip geo.Polygon
	z    *vector.Rasterizer
}

func newCanvas(dst *image.RGBA) *canvas {
	b := dst.Bounds()
	return &canvas{
		dst:  dst,
		clip: geo.Rect(float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy())),
		z:    vector.NewRasterizer(0, 0),
	}
}

// fill composites the union of polys over the surface.
func (c *canvas) fill(polys []geo.Polygon, col color.Color) {
	clipped := make([]geo.Polygon, 0, len(polys))
	var minP, maxP geo.Point
	for _, p := range polys {
		if p.IsEmpty() {
			continue
		}
		cp := geo.ClipToConvex(p.EnsureCCW(), c.clip)
		if cp.IsEmpty() {
			continue
		}
		lo, hi := cp.BoundingBox()
		if len(clipped) == 0 {
			minP, maxP = lo, hi
		} else {
			minP = geo.Pt(math.Min(minP.X, lo.X), math.Min(minP.Y, lo.Y))
			maxP = geo.Pt(math.Max(maxP.X, hi.X), math.Max(maxP.Y, hi.Y))
		}
		clipped = append(clipped, cp.EnsureCCW())
	}
	if len(clipped) == 0 {
		return
	}

	r := image.Rect(
		int(math.Floor(minP.X)), int(math.Floor(minP.Y)),
		int(math.Ceil(maxP.X)), int(math.Ceil(maxP.Y)),
	).Intersect(c.dst.Bounds())
	if r.Empty() {
		return
	}

	c.z.Reset(r.Dx(), r.Dy())
	c.z.DrawOp = draw.Over
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	for _, p := range clipped {
		v0 := p.Vertices[0]
		c.z.MoveTo(float32(v0.X-ox), float32(v0.Y-oy))
		for _, v := range p.Vertices[1:] {
			c.z.LineTo(float32(v.X-ox), float32(v.Y-oy))
		}
		c.z.ClosePath()
	}
	c.z.Draw(c.dst, r, image.NewUniform(col), image.Point{})
}

// stroke draws a polyline of the given width with round joins. With caps,
// the ends are rounded too.
func (c *canvas) stroke(pts []geo.Point, width float64, col color.Color, caps bool) {
	c.fill(strokePolygons(pts, width, caps), col)
}

func strokePolygons(pts []geo.Point, width float64, caps bool) []geo.Polygon {
	if len(pts) < 2 || width <= 0 {
		return nil
	}
	polys := make([]geo.Polygon, 0, 2*len(pts))
	for i := 1; i < len(pts); i++ {
		polys = append(polys, geo.SegmentQuad(pts[i-1], pts[i], width))
	}
	for i := 1; i < len(pts)-1; i++ {
		polys = append(polys, geo.ApproximateCircle(pts[i], width/2, joinSegments))
	}
	if caps {
		polys = append(polys,
			geo.ApproximateCircle(pts[0], width/2, joinSegments),
			geo.ApproximateCircle(pts[len(pts)-1], width/2, joinSegments))
	}
	return polys
}

// ring returns the quads of an annulus between inner and outer radii.
func ring(center geo.Point, inner, outer float64) []geo.Polygon {
	in := geo.ApproximateCircle(center, inner, 0).Vertices
	out := geo.ApproximateCircle(center, outer, 0).Vertices
	quads := make([]geo.Polygon, 0, len(out))
	for i := range out {
		j := (i + 1) % len(out)
		quads = append(quads, geo.NewPolygon(out[i], out[j], in[j], in[i]))
	}
	return quads
}

// fillRect composites a pixel-aligned rectangle. Axis-aligned blocks skip
// the rasteriser; edges are rounded to the nearest pixel.
func (c *canvas) fillRect(x, y, w, h float64, col color.Color) {
	r := image.Rect(
		int(math.Round(x)), int(math.Round(y)),
		int(math.Round(x+w)), int(math.Round(y+h)),
	).Intersect(c.dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.dst, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// strokeRect outlines a rectangle with a one pixel border.
func (c *canvas) strokeRect(x, y, w, h float64, col color.Color) {
	c.fillRect(x, y, w, 1, col)
	c.fillRect(x, y+h-1, w, 1, col)
	c.fillRect(x, y+1, 1, h-2, col)
	c.fillRect(x+w-1, y+1, 1, h-2, col)
}
