package scene2d

// Scene2D is the flattened 2D description of a navigation scene for
// clients that draw the map themselves (SVG, canvas, map widgets).
// Coordinates are virtual map units with Y growing downward.
type Scene2D struct {
	Metadata  Metadata        `json:"metadata"`
	Roads     []Road2D        `json:"roads"`
	Buildings []Building2D    `json:"buildings"`
	Summary   BuildingSummary `json:"building_summary"`
	Parks     []Park2D        `json:"parks"`
	Water     *Water2D        `json:"water,omitempty"`
	Route     *Route2D        `json:"route,omitempty"`
	Pins      []Pin2D         `json:"pins"`
	Labels    []Label2D       `json:"labels"`
}

// Metadata holds scene-level summary data.
type Metadata struct {
	SceneID     string  `json:"scene_id"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Seed        int64   `json:"seed"`
	GeneratedAt string  `json:"generated_at"`
}

// Road kinds.
const (
	RoadMain      = "main"
	RoadSecondary = "secondary"
)

// Road2D is one road polyline.
type Road2D struct {
	ID     string       `json:"id"`
	Kind   string       `json:"kind"`
	Points [][2]float64 `json:"points"`
	Width  float64      `json:"width"`
}

// Building2D is one building rectangle.
type Building2D struct {
	ID       string     `json:"id"`
	Position [2]float64 `json:"position"`
	Size     [2]float64 `json:"size"`
	Fill     string     `json:"fill"`
	Lit      bool       `json:"lit"`
}

// BuildingSummary holds aggregate building data.
type BuildingSummary struct {
	Total int     `json:"total"`
	Lit   int     `json:"lit"`
	Area  float64 `json:"area"`
}

// Park2D is a circular park.
type Park2D struct {
	ID     string     `json:"id"`
	Center [2]float64 `json:"center"`
	Radius float64    `json:"radius"`
}

// Water2D is the decorative water ellipse.
type Water2D struct {
	Center [2]float64 `json:"center"`
	RX     float64    `json:"rx"`
	RY     float64    `json:"ry"`
}

// Route2D is the drawn route with its summary.
type Route2D struct {
	Points [][2]float64 `json:"points"`
	Length float64      `json:"length"`
	Turns  int          `json:"turns"`
}

// Pin kinds.
const (
	PinPickup = "pickup"
	PinDrop   = "drop"
)

// Pin2D marks the pickup or drop-off point.
type Pin2D struct {
	Kind     string     `json:"kind"`
	Position [2]float64 `json:"position"`
}

// Label2D is a text annotation.
type Label2D struct {
	Text     string     `json:"text"`
	Position [2]float64 `json:"position"`
}
