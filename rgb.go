package mediancut

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB represents a color in the RGB color space with 8-bit channels,
// where each channel ranges from 0 to 255.
type RGB struct {
	R, G, B uint8
}

// codeDivisor converts an 8-bit channel into the 0-31 scale used by
// in-game palette editors.
const codeDivisor = 8.21

// channel returns the value of the color along the given channel.
func (c RGB) channel(ch Channel) uint8 {
	switch ch {
	case Green:
		return c.G
	case Blue:
		return c.B
	default:
		return c.R
	}
}

// Hex returns the color formatted as "#rrggbb".
func (c RGB) Hex() string {
	return c.toColorful().Hex()
}

func (c RGB) toColorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// ParseHex parses a "#rrggbb" or "#rgb" string into an RGB color.
func ParseHex(s string) (RGB, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("error parsing color %s: %w", s, err)
	}
	r, g, b := col.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Code returns the color on the 0-31 per-channel scale shown next to
// each swatch, suitable for entering into a game's palette editor.
func (c RGB) Code() [3]int {
	return [3]int{
		int(math.Round(float64(c.R) / codeDivisor)),
		int(math.Round(float64(c.G) / codeDivisor)),
		int(math.Round(float64(c.B) / codeDivisor)),
	}
}

// colorDistance calculates the Euclidean distance between two RGB colors
// in the RGB color space.
func (c RGB) colorDistance(other RGB) float64 {
	dr := int(c.R) - int(other.R)
	dg := int(c.G) - int(other.G)
	db := int(c.B) - int(other.B)
	return math.Sqrt(float64(dr*dr + dg*dg + db*db))
}
