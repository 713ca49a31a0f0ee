package layout

import "github.com/ChicagoDave/ridemap/pkg/geo"

// DefaultBuildingCount is the number of buildings in the reference scene.
const DefaultBuildingCount = 110

// Building generation parameters. Positions overflow the extent by
// buildingOverflow on every side so the map edge is not a hard clip line.
const (
	buildingOverflow = 20.0

	buildingMinW   = 16.0
	buildingSpanW  = 40.0
	buildingMinH   = 14.0
	buildingSpanH  = 34.0
	buildingHue    = 205.0
	buildingHueVar = 30.0
	buildingSat    = 22.0
	buildingLight  = 13.0
	buildingLVar   = 11.0
	litProbability = 0.35
)

// GenerateBuildings places count buildings over a w x h extent. The output is
// a pure function of (w, h, seed, count): each building consumes seven
// draws from a Lehmer stream in the order x, y, w, h, hue, lightness, lit.
func GenerateBuildings(w, h float64, seed int64, count int) []geo.Building {
	if count <= 0 {
		return []geo.Building{}
	}
	rng := NewLehmer(seed)
	buildings := make([]geo.Building, 0, count)

	for i := 0; i < count; i++ {
		x := rng.Float64()*(w+2*buildingOverflow) - buildingOverflow
		y := rng.Float64()*(h+2*buildingOverflow) - buildingOverflow
		bw := buildingMinW + rng.Float64()*buildingSpanW
		bh := buildingMinH + rng.Float64()*buildingSpanH
		hue := buildingHue + rng.Float64()*buildingHueVar
		light := buildingLight + rng.Float64()*buildingLVar
		lit := rng.Float64() < litProbability

		buildings = append(buildings, geo.Building{
			X: x,
			Y: y,
			W: bw,
			H: bh,
			Color: geo.ColorSpec{
				Hue:        hue,
				Saturation: buildingSat,
				Lightness:  light,
			},
			Lit: lit,
		})
	}
	return buildings
}
