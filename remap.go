package mediancut

import "fmt"

// NoSelection is the palette index reported for a pixel whose color does
// not belong to any box.
const NoSelection = -1

// Remapper replaces pixel colors with the representative color of the box
// that owns them. The color lookup table is built once per Result.
type Remapper struct {
	palette         Palette
	index           map[RGB]int
	nearestFallback bool
	tree            *paletteNode
}

// RemapperOption is a functional option for configuring a Remapper.
type RemapperOption func(*Remapper)

// WithNearestFallback resolves colors that no box owns to the closest
// palette entry instead of leaving them unmapped.
func WithNearestFallback() RemapperOption {
	return func(r *Remapper) {
		r.nearestFallback = true
	}
}

// NewRemapper builds the color lookup for a quantization result.
func NewRemapper(result *Result, opts ...RemapperOption) *Remapper {
	r := &Remapper{
		palette: result.Palette,
		index:   result.ColorIndex(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.nearestFallback && len(r.palette) > 0 {
		r.tree = buildPaletteTree(r.palette)
	}
	return r
}

// Palette returns the palette the remapper maps onto.
func (r *Remapper) Palette() Palette {
	return r.palette
}

// Lookup returns the palette index for a color, or NoSelection.
func (r *Remapper) Lookup(c RGB) int {
	if idx, ok := r.index[c]; ok {
		return idx
	}
	if r.tree != nil {
		return r.tree.nearest(c)
	}
	return NoSelection
}

// Remap returns a new buffer with every pixel replaced by its palette
// color, plus the palette index of every pixel. Alpha is copied through.
// Unmapped pixels keep their color and get NoSelection.
func (r *Remapper) Remap(pixels []byte, width, height int) ([]byte, []int, error) {
	out := make([]byte, len(pixels))
	index, err := r.RemapInto(out, pixels, width, height)
	if err != nil {
		return nil, nil, err
	}
	return out, index, nil
}

// RemapInto writes the remapped pixels of src into dst and returns the
// per-pixel palette index. dst may be src itself, in which case the
// buffer is rewritten in place.
func (r *Remapper) RemapInto(dst, src []byte, width, height int) ([]int, error) {
	if err := validateBuffer(src, width, height); err != nil {
		return nil, err
	}
	if len(dst) != len(src) {
		return nil, fmt.Errorf("%w: destination length %d, source length %d",
			ErrInvalidInput, len(dst), len(src))
	}

	index := make([]int, width*height)
	for i := range index {
		p := i * 4
		c := RGB{R: src[p], G: src[p+1], B: src[p+2]}
		idx := r.Lookup(c)
		index[i] = idx
		if idx != NoSelection {
			c = r.palette[idx]
		}
		dst[p], dst[p+1], dst[p+2], dst[p+3] = c.R, c.G, c.B, src[p+3]
	}
	return index, nil
}

// Counts returns how many pixels map to each of n palette entries.
// NoSelection and out-of-range indices are skipped.
func Counts(index []int, n int) []int {
	counts := make([]int, n)
	for _, idx := range index {
		if idx >= 0 && idx < n {
			counts[idx]++
		}
	}
	return counts
}

// Highlight returns a mask that is true for every pixel mapped to the
// given palette index.
func Highlight(index []int, paletteIndex int) []bool {
	mask := make([]bool, len(index))
	for i, idx := range index {
		mask[i] = idx == paletteIndex && idx != NoSelection
	}
	return mask
}
