package geo

import (
	"image/color"
	"math"
)

// RoadSegment is a drawn road: a connected polyline with a stroke width.
// Segments are immutable once generated.
type RoadSegment struct {
	Points []Point `json:"points"`
	Width  float64 `json:"width"`
	IsMain bool    `json:"is_main"`
}

// Polyline returns the segment geometry.
func (s RoadSegment) Polyline() Polyline {
	return Polyline{Points: s.Points}
}

// ColorSpec is an HSL colour. Hue is in degrees, saturation and lightness
// in percent.
type ColorSpec struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Lightness  float64 `json:"lightness"`
}

// RGBA converts the colour to opaque sRGB.
func (c ColorSpec) RGBA() color.RGBA {
	h := math.Mod(c.Hue, 360)
	if h < 0 {
		h += 360
	}
	s := clamp01(c.Saturation / 100)
	l := clamp01(c.Lightness / 100)

	chroma := (1 - math.Abs(2*l-1)) * s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - chroma/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = chroma, x, 0
	case h < 120:
		r, g, b = x, chroma, 0
	case h < 180:
		r, g, b = 0, chroma, x
	case h < 240:
		r, g, b = 0, x, chroma
	case h < 300:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}
	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Building is a decorative block in virtual map space with its top-left
// corner at (X, Y).
type Building struct {
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	W     float64   `json:"w"`
	H     float64   `json:"h"`
	Color ColorSpec `json:"color"`
	Lit   bool      `json:"lit"`
}

// Footprint returns the building outline.
func (b Building) Footprint() Polygon {
	return Rect(b.X, b.Y, b.W, b.H)
}

// Label is a text annotation anchored at (X, Y) in virtual map space.
type Label struct {
	Text string  `json:"text" yaml:"text"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
}

// Park is a circular green area in virtual map space.
type Park struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	R float64 `json:"r" yaml:"r"`
}
