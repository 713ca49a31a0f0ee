package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/ChicagoDave/ridemap/pkg/layout"
	"github.com/ChicagoDave/ridemap/pkg/routing"
)

const colorTolerance = 2

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -colorTolerance && d <= colorTolerance
}

func assertPixel(t *testing.T, img *image.RGBA, x, y int, want color.Color) {
	t.Helper()
	got := img.RGBAAt(x, y)
	w := color.RGBAModel.Convert(want).(color.RGBA)
	if !near(got.R, w.R) || !near(got.G, w.G) || !near(got.B, w.B) || !near(got.A, w.A) {
		t.Errorf("pixel (%d,%d): expected %v, got %v", x, y, w, got)
	}
}

func assertNotPixel(t *testing.T, img *image.RGBA, x, y int, notWant color.Color) {
	t.Helper()
	got := img.RGBAAt(x, y)
	w := color.RGBAModel.Convert(notWant).(color.RGBA)
	if near(got.R, w.R) && near(got.G, w.G) && near(got.B, w.B) {
		t.Errorf("pixel (%d,%d): expected something other than %v", x, y, w)
	}
}

func TestNewSurfaceRoundsUp(t *testing.T) {
	s := NewSurface(1200.5, 10)
	if s.Bounds().Dx() != 1201 || s.Bounds().Dy() != 10 {
		t.Errorf("expected 1201x10, got %v", s.Bounds())
	}
}

func TestRenderBackgroundOnly(t *testing.T) {
	dst := NewSurface(64, 48)
	Render(dst, 64, 48, layout.RoadGrid{}, nil, Options{})
	for _, p := range []image.Point{{0, 0}, {63, 47}, {30, 20}} {
		assertPixel(t, dst, p.X, p.Y, backgroundColor)
	}
}

func TestRenderClearsPreviousContent(t *testing.T) {
	dst := NewSurface(32, 32)
	for i := range dst.Pix {
		dst.Pix[i] = 0xff
	}
	Render(dst, 32, 32, layout.RoadGrid{}, nil, Options{})
	assertPixel(t, dst, 16, 16, backgroundColor)
}

func TestRenderIdempotent(t *testing.T) {
	const w, h = 600.0, 600.0
	grid := layout.GenerateRoadGrid(w, h)
	buildings := layout.GenerateBuildings(w, h, 77, 60)
	route := routing.BuildGridRoute(geo.Pt(300, 420), geo.Pt(130, 60), grid, w, h, routing.DefaultTunables())
	pickup, drop := route.Start(), route.End()
	opts := Options{
		ShowWater: true,
		Parks:     []geo.Park{{X: 200, Y: 300, R: 40}},
		Route:     route,
		PickupPin: &pickup,
		DropPin:   &drop,
		Labels:    []geo.Label{{Text: "Market St", X: 40, Y: 100}},
	}

	a := NewSurface(w, h)
	b := NewSurface(w, h)
	Render(a, w, h, grid, buildings, opts)
	Render(b, w, h, grid, buildings, opts)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("identical inputs rendered different pixels")
	}
	Render(a, w, h, grid, buildings, opts)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("re-rendering onto a used surface changed the output")
	}
}

func TestRenderWater(t *testing.T) {
	const w, h = 400.0, 400.0
	dst := NewSurface(w, h)
	Render(dst, w, h, layout.RoadGrid{}, nil, Options{ShowWater: true})
	center, _, _ := WaterBody(w, h)
	assertPixel(t, dst, int(center.X), int(center.Y), waterColor)
	assertPixel(t, dst, 10, 390, backgroundColor)

	Render(dst, w, h, layout.RoadGrid{}, nil, Options{})
	assertPixel(t, dst, int(center.X), int(center.Y), backgroundColor)
}

func TestRenderRouteTwoPass(t *testing.T) {
	dst := NewSurface(300, 200)
	route := routing.Route{geo.Pt(50, 100), geo.Pt(250, 100)}
	Render(dst, 300, 200, layout.RoadGrid{}, nil, Options{Route: route})

	assertPixel(t, dst, 150, 99, routeColor)
	// Inside the glow, outside the solid stroke.
	assertNotPixel(t, dst, 150, 107, backgroundColor)
	assertNotPixel(t, dst, 150, 107, routeColor)
	assertPixel(t, dst, 150, 130, backgroundColor)
}

func TestRenderSinglePointRouteOmitted(t *testing.T) {
	dst := NewSurface(100, 100)
	Render(dst, 100, 100, layout.RoadGrid{}, nil, Options{Route: routing.Route{geo.Pt(50, 50)}})
	assertPixel(t, dst, 50, 50, backgroundColor)
}

func TestRenderPins(t *testing.T) {
	dst := NewSurface(200, 100)
	drop := geo.Pt(50, 50)
	pickup := geo.Pt(150, 50)
	Render(dst, 200, 100, layout.RoadGrid{}, nil, Options{DropPin: &drop, PickupPin: &pickup})

	assertPixel(t, dst, 50, 50, pinRingColor)
	assertPixel(t, dst, 57, 50, dropPinColor)
	assertPixel(t, dst, 150, 50, pinRingColor)
	assertPixel(t, dst, 156, 50, pickupPinColor)
	assertPixel(t, dst, 100, 50, backgroundColor)
}

func TestRenderMainRoadCenterline(t *testing.T) {
	grid := layout.RoadGrid{
		Segments: []geo.RoadSegment{
			{Points: []geo.Point{geo.Pt(0, 100), geo.Pt(400, 100)}, Width: 14, IsMain: true},
			{Points: []geo.Point{geo.Pt(0, 150), geo.Pt(400, 150)}, Width: 8},
		},
	}
	dst := NewSurface(400, 200)
	Render(dst, 400, 200, grid, nil, Options{})

	assertPixel(t, dst, 8, 99, centerLineColor)  // inside the first dash
	assertPixel(t, dst, 22, 99, mainRoadColor)   // inside the first gap
	assertPixel(t, dst, 8, 104, mainRoadColor)   // off the centre line
	assertPixel(t, dst, 8, 149, secondaryRoadColor)
	assertPixel(t, dst, 8, 125, backgroundColor)
}

func TestRenderBuildingWindows(t *testing.T) {
	lit := geo.Building{X: 10, Y: 10, W: 30, H: 24, Color: geo.ColorSpec{Hue: 210, Saturation: 22, Lightness: 18}, Lit: true}
	dark := lit
	dark.X = 60
	dark.Lit = false
	small := lit
	small.X = 110
	small.W = 20

	dst := NewSurface(160, 60)
	Render(dst, 160, 60, layout.RoadGrid{}, []geo.Building{lit, dark, small}, Options{})

	body := lit.Color.RGBA()
	assertNotPixel(t, dst, 14, 13, body) // first window
	assertPixel(t, dst, 64, 13, body)    // same spot, unlit
	assertPixel(t, dst, 114, 13, body)   // lit but too narrow for windows
	assertPixel(t, dst, 10, 20, outlineColor)
}

func TestRenderParks(t *testing.T) {
	dst := NewSurface(100, 100)
	Render(dst, 100, 100, layout.RoadGrid{}, nil, Options{Parks: []geo.Park{{X: 50, Y: 50, R: 20}}})
	assertNotPixel(t, dst, 50, 50, backgroundColor)
	assertPixel(t, dst, 5, 5, backgroundColor)
}

func TestRenderLabels(t *testing.T) {
	dst := NewSurface(200, 60)
	Render(dst, 200, 60, layout.RoadGrid{}, nil, Options{Labels: []geo.Label{{Text: "Pickup", X: 20, Y: 40}}})
	bg := color.RGBAModel.Convert(backgroundColor).(color.RGBA)
	changed := 0
	for y := 25; y < 45; y++ {
		for x := 20; x < 80; x++ {
			if dst.RGBAAt(x, y) != bg {
				changed++
			}
		}
	}
	if changed == 0 {
		t.Error("expected label glyphs to be drawn")
	}
}

func TestRenderOffSurfaceGeometry(t *testing.T) {
	// Buildings overflow the extent; drawing must not panic.
	dst := NewSurface(100, 100)
	far := geo.Pt(-500, -500)
	Render(dst, 100, 100, layout.GenerateRoadGrid(100, 100), []geo.Building{{X: -15, Y: 90, W: 40, H: 30, Lit: true}}, Options{
		DropPin: &far,
		Route:   routing.Route{geo.Pt(-50, 50), geo.Pt(150, 50)},
	})
}
