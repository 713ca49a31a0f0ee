package spec

import (
	"time"

	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/ChicagoDave/ridemap/pkg/routing"
)

// SceneSpec is the top-level description of one navigation scene.
type SceneSpec struct {
	SpecVersion string    `yaml:"spec_version" json:"spec_version"`
	Map         MapDef    `yaml:"map" json:"map"`
	Route       RouteDef  `yaml:"route" json:"route"`
	Render      RenderDef `yaml:"render" json:"render"`
	Camera      CameraDef `yaml:"camera" json:"camera"`
	Screen      ScreenDef `yaml:"screen" json:"screen"`
	Drift       DriftDef  `yaml:"drift" json:"drift"`
}

// MapDef sets the virtual map extent and the building generator inputs.
type MapDef struct {
	Width     float64 `yaml:"width" json:"width"`
	Height    float64 `yaml:"height" json:"height"`
	Seed      int64   `yaml:"seed" json:"seed"`
	Buildings int     `yaml:"buildings" json:"buildings"`
}

// RouteDef is the trip to draw. Start is the pickup, End the drop-off.
type RouteDef struct {
	Start  geo.Point `yaml:"start" json:"start"`
	End    geo.Point `yaml:"end" json:"end"`
	Router RouterDef `yaml:"router" json:"router"`
}

// RouterDef overrides the grid router's tunables. A nil field keeps the
// router default; an explicit zero is used as given.
type RouterDef struct {
	Blend         *float64 `yaml:"blend,omitempty" json:"blend,omitempty"`
	JogThreshold  *float64 `yaml:"jog_threshold,omitempty" json:"jog_threshold,omitempty"`
	SnapThreshold *float64 `yaml:"snap_threshold,omitempty" json:"snap_threshold,omitempty"`
}

// RenderDef selects the optional map layers.
type RenderDef struct {
	ShowWater bool        `yaml:"show_water" json:"show_water"`
	ShowRoute bool        `yaml:"show_route" json:"show_route"`
	ShowPins  bool        `yaml:"show_pins" json:"show_pins"`
	Parks     []geo.Park  `yaml:"parks" json:"parks"`
	Labels    []geo.Label `yaml:"labels" json:"labels"`
}

// CameraDef configures the tracking camera.
type CameraDef struct {
	Zoom      float64 `yaml:"zoom" json:"zoom"`
	DriftMaxX float64 `yaml:"drift_max_x" json:"drift_max_x"`
	DriftMaxY float64 `yaml:"drift_max_y" json:"drift_max_y"`
}

// ScreenDef is the default viewport size in pixels.
type ScreenDef struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Drift source kinds.
const (
	DriftNone      = "none"
	DriftPush      = "push"
	DriftTrack     = "track"
	DriftWebSocket = "websocket"
)

// DriftDef selects where camera drift comes from.
type DriftDef struct {
	Source   string        `yaml:"source" json:"source"`
	Interval time.Duration `yaml:"interval" json:"interval"`
	MaxAge   time.Duration `yaml:"max_age" json:"max_age"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
	Track    []geo.Point   `yaml:"track" json:"track"`
	Loop     bool          `yaml:"loop" json:"loop"`
	URL      string        `yaml:"url" json:"url"`
}

// Tunables merges the overrides onto the router defaults.
func (d RouterDef) Tunables() routing.Tunables {
	t := routing.DefaultTunables()
	if d.Blend != nil {
		t.Blend = *d.Blend
	}
	if d.JogThreshold != nil {
		t.JogThreshold = *d.JogThreshold
	}
	if d.SnapThreshold != nil {
		t.SnapThreshold = *d.SnapThreshold
	}
	return t
}

// Float returns a pointer to v, for setting RouterDef fields in code.
func Float(v float64) *float64 {
	return &v
}
