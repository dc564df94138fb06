package mediancut

import "fmt"

// DefaultMaxColors is the largest palette a Quantizer accepts unless
// configured otherwise.
const DefaultMaxColors = 256

// Palette is an ordered list of representative colors. The position of a
// color is its palette index.
type Palette []RGB

// Result is the outcome of a median-cut run: the final boxes, one
// representative color per box, and any diagnostics recorded along the
// way. Partial is set when splitting stopped before the requested size
// was reached.
type Result struct {
	Boxes       []ColorBox
	Palette     Palette
	Diagnostics []string
	Partial     bool
}

// Quantizer reduces a weighted color list to a palette by median cut.
// A Quantizer holds only configuration and is safe for concurrent use.
type Quantizer struct {
	MaxColors   int
	Diagnostics bool
}

// QuantizerOption is a functional option for configuring a Quantizer.
type QuantizerOption func(*Quantizer)

// NewQuantizer creates a new Quantizer with the given options.
// Default values: MaxColors=256, Diagnostics=true.
func NewQuantizer(opts ...QuantizerOption) *Quantizer {
	q := &Quantizer{
		MaxColors:   DefaultMaxColors,
		Diagnostics: true,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// WithMaxColors sets the largest target size the quantizer accepts.
func WithMaxColors(n int) QuantizerOption {
	return func(q *Quantizer) {
		q.MaxColors = n
	}
}

// WithDiagnostics enables or disables diagnostic messages on results.
// Result.Partial is set either way.
func WithDiagnostics(enabled bool) QuantizerOption {
	return func(q *Quantizer) {
		q.Diagnostics = enabled
	}
}

// Quantize runs median cut with a default Quantizer.
func Quantize(colors []WeightedColor, targetSize int) (*Result, error) {
	return NewQuantizer().Quantize(colors, targetSize)
}

// Quantize partitions colors into at most targetSize boxes and derives a
// representative color for each. The caller's slice is not modified.
//
// Each round splits the heaviest box that has more than one member. When
// no box can be split the run ends early with a smaller palette; that is
// reported through Result.Partial, never as an error.
func (q *Quantizer) Quantize(colors []WeightedColor, targetSize int) (*Result, error) {
	if targetSize < 1 {
		return nil, fmt.Errorf("%w: target size %d must be at least 1",
			ErrInvalidInput, targetSize)
	}
	if q.MaxColors > 0 && targetSize > q.MaxColors {
		return nil, fmt.Errorf("%w: target size %d exceeds maximum %d",
			ErrInvalidInput, targetSize, q.MaxColors)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("%w: no colors to quantize", ErrInvalidInput)
	}
	for _, c := range colors {
		if c.Weight <= 0 {
			return nil, fmt.Errorf("%w: color %s has weight %d",
				ErrInvalidInput, c.Hex(), c.Weight)
		}
	}

	result := &Result{}
	if len(colors) <= targetSize {
		q.note(result, "already reduced to %d colors", len(colors))
	}

	working := make([]WeightedColor, len(colors))
	copy(working, colors)
	boxes := []ColorBox{newColorBox(working)}

	for len(boxes) < targetSize {
		idx := selectBox(boxes)
		selected := boxes[idx]
		if !selected.splittable() {
			result.Partial = true
			q.note(result, "could not split boxes down to %d colors", targetSize)
			break
		}
		low, high := selected.split()
		boxes = append(boxes[:idx], boxes[idx+1:]...)
		boxes = append(boxes, low, high)
	}

	result.Boxes = boxes
	result.Palette = make(Palette, len(boxes))
	for i, box := range boxes {
		result.Palette[i] = box.Representative()
	}
	return result, nil
}

func (q *Quantizer) note(result *Result, format string, args ...interface{}) {
	if q.Diagnostics {
		result.Diagnostics = append(result.Diagnostics, fmt.Sprintf(format, args...))
	}
}

// selectBox returns the index of the heaviest box with other than one
// member. The first box wins ties. When no box qualifies it returns 0.
func selectBox(boxes []ColorBox) int {
	index, heaviest := 0, 0
	for i, box := range boxes {
		if box.TotalWeight > heaviest && len(box.Members) != 1 {
			index = i
			heaviest = box.TotalWeight
		}
	}
	return index
}

// ColorIndex maps every member color of every box to the palette index of
// the box that owns it.
func (r *Result) ColorIndex() map[RGB]int {
	index := make(map[RGB]int)
	for i, box := range r.Boxes {
		for _, m := range box.Members {
			index[m.RGB] = i
		}
	}
	return index
}

// TotalWeight returns the number of pixels accounted for by all boxes.
func (r *Result) TotalWeight() int {
	total := 0
	for _, box := range r.Boxes {
		total += box.TotalWeight
	}
	return total
}
