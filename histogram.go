package mediancut

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// WeightedColor is one distinct color together with the number of pixels
// that carry it.
type WeightedColor struct {
	RGB
	Weight int
}

// validateBuffer checks that pixels is a packed RGBA buffer of exactly
// width*height pixels.
func validateBuffer(pixels []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive",
			ErrInvalidInput, width, height)
	}
	if width > math.MaxInt/4/height {
		return fmt.Errorf("%w: dimensions %dx%d are too large",
			ErrInvalidInput, width, height)
	}
	if len(pixels)%4 != 0 || len(pixels) != width*height*4 {
		return fmt.Errorf("%w: buffer length %d does not match %dx%d RGBA",
			ErrInvalidInput, len(pixels), width, height)
	}
	return nil
}

// Histogram groups the pixels of a packed RGBA buffer by their (r,g,b)
// value and counts how many pixels carry each color. Alpha is ignored.
// Colors are returned in the order they are first seen walking the buffer
// row-major, so identical input always yields identical output.
func Histogram(pixels []byte, width, height int) ([]WeightedColor, error) {
	if err := validateBuffer(pixels, width, height); err != nil {
		return nil, err
	}
	counts := NewOrderedMap[RGB, int]()
	for i := 0; i < len(pixels); i += 4 {
		c := RGB{R: pixels[i], G: pixels[i+1], B: pixels[i+2]}
		n, _ := counts.Get(c)
		counts.Set(c, n+1)
	}
	return collect(counts), nil
}

// HistogramImage builds the histogram of an arbitrary image, walking it
// top-to-bottom, left-to-right. Colors are taken non-premultiplied, as
// they would appear in a packed RGBA buffer.
func HistogramImage(img image.Image) ([]WeightedColor, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidInput)
	}
	counts := NewOrderedMap[RGB, int]()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			c := RGB{R: px.R, G: px.G, B: px.B}
			n, _ := counts.Get(c)
			counts.Set(c, n+1)
		}
	}
	return collect(counts), nil
}

func collect(counts *OrderedMap[RGB, int]) []WeightedColor {
	colors := make([]WeightedColor, 0, counts.Len())
	counts.Iterate(func(c RGB, n int) {
		colors = append(colors, WeightedColor{RGB: c, Weight: n})
	})
	return colors
}
