package render

import "image/color"

// Night-mode navigation palette.
var (
	backgroundColor = color.RGBA{22, 26, 36, 255}
	waterColor      = color.RGBA{20, 46, 74, 255}
	outlineColor    = color.RGBA{58, 66, 84, 255}
	windowColor     = color.NRGBA{255, 214, 120, 90}
	parkColor       = color.NRGBA{36, 92, 60, 150}

	mainRoadColor      = color.RGBA{74, 82, 100, 255}
	secondaryRoadColor = color.RGBA{52, 58, 74, 255}
	centerLineColor    = color.RGBA{148, 156, 174, 255}

	routeGlowColor  = color.NRGBA{66, 133, 244, 60}
	routeColor      = color.RGBA{66, 133, 244, 255}
	dropPinColor    = color.RGBA{234, 67, 53, 255}
	pickupPinColor  = color.RGBA{52, 168, 83, 255}
	pinRingColor    = color.RGBA{255, 255, 255, 255}
	labelColor      = color.NRGBA{235, 238, 245, 170}
)

// Background is the colour behind the map, also used to clear frames
// outside the map extent.
func Background() color.Color {
	return backgroundColor
}
