package scene

// LayerType identifies a drawing layer, back to front.
type LayerType string

const (
	LayerBase       LayerType = "base"
	LayerOverlay    LayerType = "overlay"
	LayerAnnotation LayerType = "annotation"
)

// EntityType identifies the kind of entity.
type EntityType string

const (
	EntityWater    EntityType = "water"
	EntityBuilding EntityType = "building"
	EntityPark     EntityType = "park"
	EntityRoad     EntityType = "road"
	EntityRoute    EntityType = "route"
	EntityPin      EntityType = "pin"
	EntityLabel    EntityType = "label"
)

// Vec2 is a 2D vector in virtual map space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox defines an axis-aligned bounding box.
type BoundingBox struct {
	Min Vec2 `json:"min"`
	Max Vec2 `json:"max"`
}

// Entity is a single element in the scene graph. Position is the centre of
// the entity's bounding box and Dimensions its size; point-like entities
// (pins, labels) have zero dimensions.
type Entity struct {
	ID         string         `json:"id"`
	Type       EntityType     `json:"type"`
	Position   Vec2           `json:"position"`
	Dimensions Vec2           `json:"dimensions"`
	Material   string         `json:"material"`
	Layer      LayerType      `json:"layer"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Graph is the complete scene graph of an assembled scene.
type Graph struct {
	Metadata Metadata `json:"metadata"`
	Entities []Entity `json:"entities"`
	Groups   Groups   `json:"groups"`
}

// Metadata holds scene-level information.
type Metadata struct {
	SceneID     string      `json:"scene_id"`
	SpecVersion string      `json:"spec_version"`
	GeneratedAt string      `json:"generated_at"`
	MapBounds   BoundingBox `json:"map_bounds"`
}

// Groups organizes entity IDs by layer and type for fast filtering.
type Groups struct {
	Layers      map[LayerType][]string  `json:"layers"`
	EntityTypes map[EntityType][]string `json:"entity_types"`
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{
		Entities: []Entity{},
		Groups: Groups{
			Layers:      make(map[LayerType][]string),
			EntityTypes: make(map[EntityType][]string),
		},
	}
}
