package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/ChicagoDave/ridemap/pkg/render"
	"github.com/ChicagoDave/ridemap/pkg/routing"
)

// Graph converts the scene into a scene graph, one entity per drawn
// element, in draw order.
func (sc *Scene) Graph() *Graph {
	g := NewGraph()
	opts := sc.Options()
	s := sc.Spec

	if opts.ShowWater {
		assembleWater(s.Map.Width, s.Map.Height, g)
	}
	assembleBuildings(sc.Buildings, g)
	assembleParks(opts.Parks, g)
	assembleRoads(sc.Grid.Segments, g)
	if len(opts.Route) >= 2 {
		assembleRoute(opts.Route, g)
	}
	assemblePins(opts, g)
	assembleLabels(opts.Labels, g)

	g.Metadata = Metadata{
		SceneID:     sc.ID,
		SpecVersion: s.SpecVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		MapBounds:   computeBounds(g.Entities),
	}
	return g
}

func assembleWater(w, h float64, g *Graph) {
	center, rx, ry := render.WaterBody(w, h)
	addEntity(g, Entity{
		ID:         "water",
		Type:       EntityWater,
		Position:   vec(center),
		Dimensions: Vec2{X: 2 * rx, Y: 2 * ry},
		Material:   "water",
		Layer:      LayerBase,
	})
}

func assembleBuildings(buildings []geo.Building, g *Graph) {
	for i, b := range buildings {
		c := b.Color.RGBA()
		addEntity(g, Entity{
			ID:         fmt.Sprintf("bld-%d", i),
			Type:       EntityBuilding,
			Position:   Vec2{X: b.X + b.W/2, Y: b.Y + b.H/2},
			Dimensions: Vec2{X: b.W, Y: b.H},
			Material:   fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
			Layer:      LayerBase,
			Metadata:   map[string]any{"lit": b.Lit, "area": b.Footprint().Area()},
		})
	}
}

func assembleParks(parks []geo.Park, g *Graph) {
	for i, p := range parks {
		addEntity(g, Entity{
			ID:         fmt.Sprintf("park-%d", i),
			Type:       EntityPark,
			Position:   Vec2{X: p.X, Y: p.Y},
			Dimensions: Vec2{X: 2 * p.R, Y: 2 * p.R},
			Material:   "grass",
			Layer:      LayerBase,
			Metadata:   map[string]any{"radius": p.R},
		})
	}
}

func assembleRoads(segments []geo.RoadSegment, g *Graph) {
	for i, seg := range segments {
		bbMin, bbMax := geo.NewPolygon(seg.Points...).BoundingBox()
		mat := "asphalt"
		if seg.IsMain {
			mat = "asphalt_marked"
		}
		addEntity(g, Entity{
			ID:   fmt.Sprintf("road-%d", i),
			Type: EntityRoad,
			Position: Vec2{
				X: (bbMin.X + bbMax.X) / 2,
				Y: (bbMin.Y + bbMax.Y) / 2,
			},
			Dimensions: Vec2{
				X: math.Max(bbMax.X-bbMin.X, seg.Width),
				Y: math.Max(bbMax.Y-bbMin.Y, seg.Width),
			},
			Material: mat,
			Layer:    LayerBase,
			Metadata: map[string]any{
				"width":   seg.Width,
				"is_main": seg.IsMain,
				"length":  seg.Polyline().Length(),
			},
		})
	}
}

func assembleRoute(r routing.Route, g *Graph) {
	bbMin, bbMax := geo.NewPolygon(r...).BoundingBox()
	sum := routing.Summarize(r)
	addEntity(g, Entity{
		ID:         "route",
		Type:       EntityRoute,
		Position:   Vec2{X: (bbMin.X + bbMax.X) / 2, Y: (bbMin.Y + bbMax.Y) / 2},
		Dimensions: Vec2{X: bbMax.X - bbMin.X, Y: bbMax.Y - bbMin.Y},
		Material:   "route",
		Layer:      LayerOverlay,
		Metadata: map[string]any{
			"points": sum.Points,
			"turns":  sum.Turns,
			"length": sum.Length,
		},
	})
}

func assemblePins(opts render.Options, g *Graph) {
	if opts.DropPin != nil {
		addEntity(g, Entity{
			ID:       "pin-drop",
			Type:     EntityPin,
			Position: vec(*opts.DropPin),
			Material: "drop",
			Layer:    LayerOverlay,
		})
	}
	if opts.PickupPin != nil {
		addEntity(g, Entity{
			ID:       "pin-pickup",
			Type:     EntityPin,
			Position: vec(*opts.PickupPin),
			Material: "pickup",
			Layer:    LayerOverlay,
		})
	}
}

func assembleLabels(labels []geo.Label, g *Graph) {
	for i, l := range labels {
		addEntity(g, Entity{
			ID:       fmt.Sprintf("label-%d", i),
			Type:     EntityLabel,
			Position: Vec2{X: l.X, Y: l.Y},
			Material: "text",
			Layer:    LayerAnnotation,
			Metadata: map[string]any{"text": l.Text},
		})
	}
}

// addEntity appends an entity and updates all group indices.
func addEntity(g *Graph, e Entity) {
	g.Entities = append(g.Entities, e)
	g.Groups.Layers[e.Layer] = append(g.Groups.Layers[e.Layer], e.ID)
	g.Groups.EntityTypes[e.Type] = append(g.Groups.EntityTypes[e.Type], e.ID)
}

// computeBounds calculates the AABB of all entities.
func computeBounds(entities []Entity) BoundingBox {
	if len(entities) == 0 {
		return BoundingBox{}
	}
	minV := Vec2{X: math.MaxFloat64, Y: math.MaxFloat64}
	maxV := Vec2{X: -math.MaxFloat64, Y: -math.MaxFloat64}

	for _, e := range entities {
		halfX := e.Dimensions.X / 2
		halfY := e.Dimensions.Y / 2

		minV.X = math.Min(minV.X, e.Position.X-halfX)
		minV.Y = math.Min(minV.Y, e.Position.Y-halfY)
		maxV.X = math.Max(maxV.X, e.Position.X+halfX)
		maxV.Y = math.Max(maxV.Y, e.Position.Y+halfY)
	}
	return BoundingBox{Min: minV, Max: maxV}
}

func vec(p geo.Point) Vec2 {
	return Vec2{X: p.X, Y: p.Y}
}
