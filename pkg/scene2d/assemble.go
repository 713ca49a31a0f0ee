package scene2d

import (
	"fmt"
	"image/color"
	"time"

	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/ChicagoDave/ridemap/pkg/layout"
	"github.com/ChicagoDave/ridemap/pkg/render"
	"github.com/ChicagoDave/ridemap/pkg/routing"
)

// Input is everything a scene has generated.
type Input struct {
	SceneID   string
	Width     float64
	Height    float64
	Seed      int64
	Grid      layout.RoadGrid
	Buildings []geo.Building
	Options   render.Options
}

// Assemble2D converts generated map data and overlays into a 2D scene.
// Layers absent from the render options are absent from the output.
func Assemble2D(in Input) *Scene2D {
	s := &Scene2D{
		Metadata: Metadata{
			SceneID:     in.SceneID,
			Width:       in.Width,
			Height:      in.Height,
			Seed:        in.Seed,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Roads:     assembleRoads(in.Grid.Segments),
		Buildings: assembleBuildings(in.Buildings),
		Summary:   assembleBuildingSummary(in.Buildings),
		Parks:     assembleParks(in.Options.Parks),
		Pins:      assemblePins(in.Options),
		Labels:    assembleLabels(in.Options.Labels),
	}
	if in.Options.ShowWater {
		c, rx, ry := render.WaterBody(in.Width, in.Height)
		s.Water = &Water2D{Center: coord(c), RX: rx, RY: ry}
	}
	if len(in.Options.Route) >= 2 {
		sum := routing.Summarize(in.Options.Route)
		s.Route = &Route2D{
			Points: pointsToCoords(in.Options.Route),
			Length: sum.Length,
			Turns:  sum.Turns,
		}
	}
	return s
}

func assembleRoads(segments []geo.RoadSegment) []Road2D {
	roads := make([]Road2D, 0, len(segments))
	for i, seg := range segments {
		kind := RoadSecondary
		if seg.IsMain {
			kind = RoadMain
		}
		roads = append(roads, Road2D{
			ID:     fmt.Sprintf("road-%d", i),
			Kind:   kind,
			Points: pointsToCoords(seg.Points),
			Width:  seg.Width,
		})
	}
	return roads
}

func assembleBuildings(buildings []geo.Building) []Building2D {
	out := make([]Building2D, 0, len(buildings))
	for i, b := range buildings {
		out = append(out, Building2D{
			ID:       fmt.Sprintf("bld-%d", i),
			Position: [2]float64{b.X, b.Y},
			Size:     [2]float64{b.W, b.H},
			Fill:     hexColor(b.Color.RGBA()),
			Lit:      b.Lit,
		})
	}
	return out
}

func assembleBuildingSummary(buildings []geo.Building) BuildingSummary {
	var sum BuildingSummary
	for _, b := range buildings {
		sum.Total++
		if b.Lit {
			sum.Lit++
		}
		sum.Area += b.W * b.H
	}
	return sum
}

func assembleParks(parks []geo.Park) []Park2D {
	out := make([]Park2D, 0, len(parks))
	for i, p := range parks {
		out = append(out, Park2D{
			ID:     fmt.Sprintf("park-%d", i),
			Center: [2]float64{p.X, p.Y},
			Radius: p.R,
		})
	}
	return out
}

func assemblePins(opts render.Options) []Pin2D {
	pins := []Pin2D{}
	if opts.PickupPin != nil {
		pins = append(pins, Pin2D{Kind: PinPickup, Position: coord(*opts.PickupPin)})
	}
	if opts.DropPin != nil {
		pins = append(pins, Pin2D{Kind: PinDrop, Position: coord(*opts.DropPin)})
	}
	return pins
}

func assembleLabels(labels []geo.Label) []Label2D {
	out := make([]Label2D, 0, len(labels))
	for _, l := range labels {
		out = append(out, Label2D{Text: l.Text, Position: [2]float64{l.X, l.Y}})
	}
	return out
}

func coord(p geo.Point) [2]float64 {
	return [2]float64{p.X, p.Y}
}

func pointsToCoords(pts []geo.Point) [][2]float64 {
	coords := make([][2]float64, len(pts))
	for i, p := range pts {
		coords[i] = coord(p)
	}
	return coords
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
