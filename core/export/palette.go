package export

import (
	"fmt"
	"math"

	"github.com/bonuspoints/thelist/schema"
)

// ColorSpacing is how many items share a marker before the cycle advances.
// It also divides the hue wheel so neighbouring items get distinct colors.
const ColorSpacing = 4

// FadedColor is used for items that are no longer on the latest list.
const FadedColor = "#808080"

// Style is the color and marker attached to an item in the chart.
type Style struct {
	Color  string
	Marker schema.MarkerKind
}

// Palette assigns a style to every item of the latest list, in rank order.
// The hue advances by (360 - 360/n) / ColorSpacing per item at full saturation and value.
func Palette(latest []string) map[string]Style {
	styles := make(map[string]Style, len(latest))
	if len(latest) == 0 {
		return styles
	}
	n := float64(len(latest))
	dangle := (360 - 360/n) / ColorSpacing
	for i, id := range latest {
		styles[id] = Style{
			Color:  hsvHex(dangle*float64(i), 1, 1),
			Marker: schema.MarkerCycle[(i/ColorSpacing)%len(schema.MarkerCycle)],
		}
	}
	return styles
}

// StyleFor returns the style of an item, falling back to the faded style.
func StyleFor(styles map[string]Style, id string) Style {
	if s, ok := styles[id]; ok {
		return s
	}
	return Style{Color: FadedColor, Marker: schema.CrossMarker}
}

// ScaledY places a rank in [0, 1] relative to the size of its own snapshot.
// The first episode and single-item snapshots sit at 0.5.
func ScaledY(rank, size int, first bool) float64 {
	if first || size <= 1 {
		return 0.5
	}
	return float64(rank-1) / float64(size-1)
}

// hsvHex converts an HSV color to a #rrggbb string. Hue is in degrees and wraps.
func hsvHex(h, s, v float64) string {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return fmt.Sprintf("#%02x%02x%02x", uint8((r+m)*255), uint8((g+m)*255), uint8((b+m)*255))
}
