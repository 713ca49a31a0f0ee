package spec

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ChicagoDave/ridemap/pkg/geo"
	"gopkg.in/yaml.v3"
)

// Version is the scene file format this package writes.
const Version = "0.1.0"

// ProjectFile is the scene file looked up inside a project directory.
const ProjectFile = "scene.yaml"

// Load reads a scene spec from a YAML file. Sections missing from the file
// keep the values of Default.
func Load(path string) (*SceneSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scene spec from YAML on top of Default.
func Parse(data []byte) (*SceneSpec, error) {
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing scene YAML: %w", err)
	}
	return s, nil
}

// LoadProject loads a scene spec from a project directory.
// It looks for scene.yaml in the given directory.
func LoadProject(projectDir string) (*SceneSpec, error) {
	return Load(filepath.Join(projectDir, ProjectFile))
}

// Marshal encodes s as YAML.
func Marshal(s *SceneSpec) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding scene YAML: %w", err)
	}
	return data, nil
}

// Default returns the reference scenario: a 1200x1200 map with a trip from
// the lower middle of the city to the upper left.
func Default() *SceneSpec {
	return &SceneSpec{
		SpecVersion: Version,
		Map: MapDef{
			Width:     1200,
			Height:    1200,
			Seed:      77,
			Buildings: 110,
		},
		Route: RouteDef{
			Start: geo.Pt(580, 850),
			End:   geo.Pt(260, 120),
		},
		Render: RenderDef{
			ShowWater: true,
			ShowRoute: true,
			ShowPins:  true,
			Parks: []geo.Park{
				{X: 310, Y: 640, R: 70},
				{X: 900, Y: 980, R: 55},
			},
			Labels: []geo.Label{
				{Text: "DOWNTOWN", X: 560, Y: 520},
				{Text: "HARBOR", X: 930, Y: 200},
				{Text: "OLD TOWN", X: 160, Y: 300},
			},
		},
		Camera: CameraDef{
			Zoom:      1.6,
			DriftMaxX: 100,
			DriftMaxY: 150,
		},
		Screen: ScreenDef{Width: 390, Height: 844},
		Drift: DriftDef{
			Source:   DriftPush,
			Interval: time.Second,
			MaxAge:   time.Second,
			Timeout:  5 * time.Second,
		},
	}
}
