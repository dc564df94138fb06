package mediancut

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/wbrown/mediancut/imageutil"
)

var (
	labelFontOnce sync.Once
	labelFont     *truetype.Font
	labelFontErr  error
)

// loadLabelFont parses the embedded Go Regular font once.
func loadLabelFont() (*truetype.Font, error) {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = freetype.ParseFont(goregular.TTF)
	})
	return labelFont, labelFontErr
}

func toRGBA(c RGB) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// GridImage scales a packed RGBA buffer up so that every pixel becomes a
// cell×cell square.
func GridImage(pixels []byte, width, height, cell int) (*imageutil.RGBAImage, error) {
	if err := validateBuffer(pixels, width, height); err != nil {
		return nil, err
	}
	if cell < 1 {
		return nil, fmt.Errorf("%w: cell size %d", ErrInvalidInput, cell)
	}
	img := imageutil.NewRGBAImage(width*cell, height*cell)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.FillRect(x*cell, y*cell, cell, cell, toRGBA(pixelAt(pixels, width, x, y)))
		}
	}
	return img, nil
}

// HighlightImage renders the grid with every cell that does not belong to
// paletteIndex dimmed by a 70% black overlay and every selected cell
// outlined in white.
func HighlightImage(
	pixels []byte,
	width, height int,
	index []int,
	paletteIndex int,
	cell int,
) (*imageutil.RGBAImage, error) {
	if len(index) != width*height {
		return nil, fmt.Errorf("%w: %d palette indices for %dx%d pixels",
			ErrInvalidInput, len(index), width, height)
	}
	img, err := GridImage(pixels, width, height, cell)
	if err != nil {
		return nil, err
	}

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for i, selected := range Highlight(index, paletteIndex) {
		x0, y0 := (i%width)*cell, (i/width)*cell
		if selected {
			for d := 0; d < cell; d++ {
				img.SetRGBA(x0+d, y0, white)
				img.SetRGBA(x0+d, y0+cell-1, white)
				img.SetRGBA(x0, y0+d, white)
				img.SetRGBA(x0+cell-1, y0+d, white)
			}
			continue
		}
		c := pixelAt(pixels, width, i%width, i/width)
		img.FillRect(x0, y0, cell, cell, dim(c))
	}
	return img, nil
}

// dim blends c with 70% black.
func dim(c RGB) color.RGBA {
	return color.RGBA{
		R: uint8((int(c.R)*3 + 5) / 10),
		G: uint8((int(c.G)*3 + 5) / 10),
		B: uint8((int(c.B)*3 + 5) / 10),
		A: 255,
	}
}

// DrawSwatches draws the palette as a row of cell×cell swatches, each
// labelled with its palette index. When counts is given, a bar along the
// bottom of each swatch shows its share of the image.
func DrawSwatches(palette Palette, counts []int, cell int) (*imageutil.RGBAImage, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrInvalidInput)
	}
	if cell < 8 {
		return nil, fmt.Errorf("%w: swatch size %d is below 8", ErrInvalidInput, cell)
	}
	ttf, err := loadLabelFont()
	if err != nil {
		return nil, fmt.Errorf("error loading label font: %w", err)
	}

	img := imageutil.NewRGBAImage(len(palette)*cell, cell)
	for i, c := range palette {
		img.FillRect(i*cell, 0, cell, cell, toRGBA(c))
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total > 0 {
		barHeight := cell / 8
		for i := range palette {
			if i >= len(counts) {
				break
			}
			w := counts[i] * cell / total
			img.FillRect(i*cell, cell-barHeight, w, barHeight,
				toRGBA(labelColor(palette[i])))
		}
	}

	size := float64(cell) / 3
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(size)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img.RGBA)
	ctx.SetHinting(font.HintingFull)

	ascent := face.Metrics().Ascent.Ceil()
	for i, c := range palette {
		label := strconv.Itoa(i)
		width := font.MeasureString(face, label)
		x := fixed.I(i*cell) + (fixed.I(cell)-width)/2
		ctx.SetSrc(image.NewUniform(toRGBA(labelColor(c))))
		pt := fixed.Point26_6{X: x, Y: fixed.I((cell + ascent) / 2)}
		if _, err := ctx.DrawString(label, pt); err != nil {
			return nil, fmt.Errorf("error drawing label %s: %w", label, err)
		}
	}
	return img, nil
}
