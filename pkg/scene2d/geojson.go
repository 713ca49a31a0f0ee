package scene2d

import (
	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature layer names, set as the "layer" property of every feature.
const (
	LayerRoad     = "road"
	LayerBuilding = "building"
	LayerPark     = "park"
	LayerWater    = "water"
	LayerRoute    = "route"
	LayerPin      = "pin"
	LayerLabel    = "label"
)

// circleSegments is the vertex count used for parks and water.
const circleSegments = 48

// GeoJSON exports the scene as a feature collection. Coordinates stay in
// virtual map units (x east, y down); consumers should treat them as planar.
func (s *Scene2D) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{
		"scene_id": s.Metadata.SceneID,
		"extent":   []float64{s.Metadata.Width, s.Metadata.Height},
	}

	if s.Water != nil {
		f := geojson.NewFeature(ellipse(s.Water.Center, s.Water.RX, s.Water.RY))
		f.Properties["layer"] = LayerWater
		fc.Append(f)
	}
	for _, b := range s.Buildings {
		x, y, w, h := b.Position[0], b.Position[1], b.Size[0], b.Size[1]
		f := geojson.NewFeature(orb.Polygon{orb.Ring{
			{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}, {x, y},
		}})
		f.ID = b.ID
		f.Properties["layer"] = LayerBuilding
		f.Properties["fill"] = b.Fill
		f.Properties["lit"] = b.Lit
		fc.Append(f)
	}
	for _, p := range s.Parks {
		f := geojson.NewFeature(ellipse(p.Center, p.Radius, p.Radius))
		f.ID = p.ID
		f.Properties["layer"] = LayerPark
		f.Properties["radius"] = p.Radius
		fc.Append(f)
	}
	for _, r := range s.Roads {
		f := geojson.NewFeature(lineString(r.Points))
		f.ID = r.ID
		f.Properties["layer"] = LayerRoad
		f.Properties["kind"] = r.Kind
		f.Properties["width"] = r.Width
		fc.Append(f)
	}
	if s.Route != nil {
		f := geojson.NewFeature(lineString(s.Route.Points))
		f.ID = "route"
		f.Properties["layer"] = LayerRoute
		f.Properties["length"] = s.Route.Length
		f.Properties["turns"] = s.Route.Turns
		fc.Append(f)
	}
	for _, p := range s.Pins {
		f := geojson.NewFeature(orb.Point(p.Position))
		f.ID = p.Kind
		f.Properties["layer"] = LayerPin
		f.Properties["kind"] = p.Kind
		fc.Append(f)
	}
	for _, l := range s.Labels {
		f := geojson.NewFeature(orb.Point(l.Position))
		f.Properties["layer"] = LayerLabel
		f.Properties["text"] = l.Text
		fc.Append(f)
	}
	return fc
}

func lineString(coords [][2]float64) orb.LineString {
	ls := make(orb.LineString, len(coords))
	for i, c := range coords {
		ls[i] = orb.Point(c)
	}
	return ls
}

func ellipse(center [2]float64, rx, ry float64) orb.Polygon {
	poly := geo.ApproximateEllipse(geo.Pt(center[0], center[1]), rx, ry, circleSegments)
	closed := poly.Closed()
	ring := make(orb.Ring, len(closed))
	for i, v := range closed {
		ring[i] = orb.Point{v.X, v.Y}
	}
	return orb.Polygon{ring}
}
