package mediancut

import (
	"fmt"
	"strings"
)

const (
	ESC = "\u001b"

	upperHalfBlock = "▀"
)

// fgCode returns the 24-bit foreground ANSI code for a color.
func fgCode(c RGB) string {
	return fmt.Sprintf("38;2;%d;%d;%d", c.R, c.G, c.B)
}

// bgCode returns the 24-bit background ANSI code for a color.
func bgCode(c RGB) string {
	return fmt.Sprintf("48;2;%d;%d;%d", c.R, c.G, c.B)
}

// formatANSICode formats an ANSI color code with the given foreground and
// background colors followed by block repeated count times.
func formatANSICode(fg, bg, block string, count int) string {
	var code strings.Builder
	code.WriteString(ESC)
	code.WriteByte('[')
	code.WriteString(fg)
	if fg != "" && bg != "" {
		code.WriteByte(';')
	}
	code.WriteString(bg)
	code.WriteByte('m')
	code.WriteString(strings.Repeat(block, count))
	return code.String()
}

func pixelAt(pixels []byte, width, x, y int) RGB {
	p := (y*width + x) * 4
	return RGB{R: pixels[p], G: pixels[p+1], B: pixels[p+2]}
}

// RenderANSI renders a packed RGBA buffer as 24-bit color ANSI text. Each
// character cell is an upper half block carrying two pixel rows: the top
// pixel as foreground and the bottom pixel as background. Runs of
// identical cells share one escape sequence.
func RenderANSI(pixels []byte, width, height int) (string, error) {
	if err := validateBuffer(pixels, width, height); err != nil {
		return "", err
	}

	var sb strings.Builder
	for y := 0; y < height; y += 2 {
		var currentFg, currentBg string
		count := 0
		for x := 0; x < width; x++ {
			fg := fgCode(pixelAt(pixels, width, x, y))
			bg := "49"
			if y+1 < height {
				bg = bgCode(pixelAt(pixels, width, x, y+1))
			}
			if fg != currentFg || bg != currentBg {
				if count > 0 {
					sb.WriteString(formatANSICode(currentFg, currentBg, upperHalfBlock, count))
				}
				currentFg, currentBg = fg, bg
				count = 0
			}
			count++
		}
		if count > 0 {
			sb.WriteString(formatANSICode(currentFg, currentBg, upperHalfBlock, count))
		}
		sb.WriteString(ESC + "[0m\n")
	}
	return sb.String(), nil
}

// RenderPaletteANSI renders the palette as a row of colored swatches, each
// labelled with its palette index.
func RenderPaletteANSI(palette Palette) string {
	var sb strings.Builder
	for i, c := range palette {
		label := fmt.Sprintf(" %2d ", i)
		sb.WriteString(formatANSICode(fgCode(labelColor(c)), bgCode(c), label, 1))
	}
	sb.WriteString(ESC + "[0m\n")
	return sb.String()
}

// labelColor picks black or white, whichever reads better on c.
func labelColor(c RGB) RGB {
	// BT.601 luminance, integer math scaled by 1000
	lum := (299*int(c.R) + 587*int(c.G) + 114*int(c.B) + 500) / 1000
	if lum > 127 {
		return RGB{}
	}
	return RGB{R: 255, G: 255, B: 255}
}
