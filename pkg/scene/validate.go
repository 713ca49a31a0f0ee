package scene

import (
	"fmt"

	"github.com/ChicagoDave/ridemap/pkg/validation"
)

// layerOf is the layer each entity type is drawn on.
var layerOf = map[EntityType]LayerType{
	EntityWater:    LayerBase,
	EntityBuilding: LayerBase,
	EntityPark:     LayerBase,
	EntityRoad:     LayerBase,
	EntityRoute:    LayerOverlay,
	EntityPin:      LayerOverlay,
	EntityLabel:    LayerAnnotation,
}

var layerRank = map[LayerType]int{
	LayerBase:       0,
	LayerOverlay:    1,
	LayerAnnotation: 2,
}

// pointEntities carry no extent.
var pointEntities = map[EntityType]bool{
	EntityPin:   true,
	EntityLabel: true,
	EntityRoute: true,
}

// boundsTolerance is how far an entity may poke past the map bounds.
const boundsTolerance = 1.0

// ValidateGraph checks a scene graph for structural consistency: entity IDs,
// group indices, layer assignment and draw order, extents and bounds.
func ValidateGraph(g *Graph) *validation.Report {
	r := validation.NewReport()
	if g == nil {
		r.AddError(spatial("scene graph is nil", ""))
		return r
	}

	ids := checkIDs(g, r)
	checkGroups(g, ids, r)
	checkLayers(g, r)
	checkExtents(g, r)
	return r
}

func spatial(msg, path string) validation.Result {
	return validation.Result{Level: validation.LevelSpatial, Message: msg, SpecPath: path}
}

// checkIDs reports empty and duplicate IDs and returns the set of IDs seen.
func checkIDs(g *Graph, r *validation.Report) map[string]bool {
	first := make(map[string]int, len(g.Entities))
	for i, e := range g.Entities {
		path := fmt.Sprintf("entities[%d].id", i)
		if e.ID == "" {
			res := spatial(fmt.Sprintf("entity at index %d has empty ID", i), path)
			res.Expected = "non-empty string"
			r.AddError(res)
			continue
		}
		if j, dup := first[e.ID]; dup {
			res := spatial(fmt.Sprintf("entity ID %q used at indices %d and %d", e.ID, j, i), path)
			res.ActualValue = e.ID
			r.AddError(res)
			continue
		}
		first[e.ID] = i
	}

	ids := make(map[string]bool, len(first))
	for id := range first {
		ids[id] = true
	}
	return ids
}

// checkGroups verifies the group indices both ways: every listed ID exists,
// and every entity is listed under its own layer and type.
func checkGroups(g *Graph, ids map[string]bool, r *validation.Report) {
	layers := make(map[string]map[string]bool, len(g.Groups.Layers))
	for name, members := range g.Groups.Layers {
		layers[string(name)] = indexGroup("layers", string(name), members, ids, r)
	}
	types := make(map[string]map[string]bool, len(g.Groups.EntityTypes))
	for name, members := range g.Groups.EntityTypes {
		types[string(name)] = indexGroup("entity_types", string(name), members, ids, r)
	}

	for _, e := range g.Entities {
		if e.ID == "" {
			continue
		}
		checkMember("layers", string(e.Layer), e.ID, layers, r)
		checkMember("entity_types", string(e.Type), e.ID, types, r)
	}
}

func indexGroup(kind, name string, members []string, ids map[string]bool, r *validation.Report) map[string]bool {
	set := make(map[string]bool, len(members))
	for _, id := range members {
		if !ids[id] {
			res := spatial(fmt.Sprintf("group %s.%s lists unknown entity %q", kind, name, id),
				fmt.Sprintf("groups.%s.%s", kind, name))
			res.ActualValue = id
			res.Expected = "existing entity ID"
			r.AddError(res)
		}
		set[id] = true
	}
	return set
}

func checkMember(kind, name, id string, groups map[string]map[string]bool, r *validation.Report) {
	if name == "" {
		return
	}
	set, ok := groups[name]
	switch {
	case !ok:
		res := spatial(fmt.Sprintf("entity %q is in %s %q but no such group exists", id, kind, name),
			"groups."+kind)
		res.ActualValue = name
		r.AddError(res)
	case !set[id]:
		res := spatial(fmt.Sprintf("entity %q is missing from group %s.%s", id, kind, name),
			fmt.Sprintf("groups.%s.%s", kind, name))
		res.ActualValue = id
		r.AddError(res)
	}
}

// checkLayers verifies each known entity type sits on its layer and that
// entities, which are stored in draw order, never step back a layer.
func checkLayers(g *Graph, r *validation.Report) {
	highest, highestID := -1, ""
	for i, e := range g.Entities {
		if want, ok := layerOf[e.Type]; ok && e.Layer != want {
			res := spatial(fmt.Sprintf("%s %q drawn on layer %q", e.Type, e.ID, e.Layer),
				fmt.Sprintf("entities[%d].layer", i))
			res.ActualValue = string(e.Layer)
			res.Expected = string(want)
			r.AddError(res)
		}

		rank, ok := layerRank[e.Layer]
		if !ok {
			continue
		}
		if rank < highest {
			res := spatial(fmt.Sprintf("entity %q on layer %q follows %q on a higher layer", e.ID, e.Layer, highestID),
				fmt.Sprintf("entities[%d]", i))
			res.ConflictWith = highestID
			r.AddWarning(res)
			continue
		}
		highest, highestID = rank, e.ID
	}
}

// checkExtents warns about area entities with no size and about the first
// entity found outside the map bounds.
func checkExtents(g *Graph, r *validation.Report) {
	b := g.Metadata.MapBounds
	outside := false

	for _, e := range g.Entities {
		hx, hy := e.Dimensions.X/2, e.Dimensions.Y/2

		if !pointEntities[e.Type] && (e.Dimensions.X <= 0 || e.Dimensions.Y <= 0) {
			res := spatial(fmt.Sprintf("entity %q has zero or negative dimension (%.2f, %.2f)", e.ID, e.Dimensions.X, e.Dimensions.Y),
				fmt.Sprintf("entities.%s.dimensions", e.ID))
			res.ActualValue = fmt.Sprintf("%.2f x %.2f", e.Dimensions.X, e.Dimensions.Y)
			res.Expected = "all dimensions > 0"
			r.AddWarning(res)
		}

		if outside {
			continue
		}
		if e.Position.X-hx < b.Min.X-boundsTolerance || e.Position.X+hx > b.Max.X+boundsTolerance ||
			e.Position.Y-hy < b.Min.Y-boundsTolerance || e.Position.Y+hy > b.Max.Y+boundsTolerance {
			res := spatial(fmt.Sprintf("entity %q extent [%.1f,%.1f]-[%.1f,%.1f] outside map bounds [%.1f,%.1f]-[%.1f,%.1f]",
				e.ID, e.Position.X-hx, e.Position.Y-hy, e.Position.X+hx, e.Position.Y+hy,
				b.Min.X, b.Min.Y, b.Max.X, b.Max.Y), "metadata.map_bounds")
			res.ActualValue = fmt.Sprintf("(%.1f, %.1f)", e.Position.X, e.Position.Y)
			r.AddWarning(res)
			outside = true
		}
	}
}
