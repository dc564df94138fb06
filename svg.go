package mediancut

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
)

// majorGridEvery is the spacing, in cells, of the thick grid lines.
const majorGridEvery = 8

// errWriter remembers the first write error so the svgo canvas, which
// does not report errors, can be checked once at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

// WriteSVG writes the pixel grid as SVG: one cell×cell rectangle per pixel
// with thin white grid lines between cells and thick ones every eight
// cells. If palette is non-empty a row of labelled swatches is added
// below the grid.
func WriteSVG(w io.Writer, pixels []byte, width, height int, palette Palette, cell int) error {
	if err := validateBuffer(pixels, width, height); err != nil {
		return err
	}
	if cell < 1 {
		return fmt.Errorf("%w: cell size %d", ErrInvalidInput, cell)
	}

	gridW, gridH := width*cell, height*cell
	canvasH := gridH
	if len(palette) > 0 {
		canvasH += cell * 2
	}
	canvasW := gridW
	if len(palette)*cell > canvasW {
		canvasW = len(palette) * cell
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(canvasW, canvasH)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := (y*width + x) * 4
			canvas.Rect(x*cell, y*cell, cell, cell,
				fmt.Sprintf("fill:rgb(%d,%d,%d);fill-opacity:%.3f",
					pixels[p], pixels[p+1], pixels[p+2], float64(pixels[p+3])/255))
		}
	}

	canvas.Gstyle("stroke:rgb(255,255,255)")
	for i := 1; i < width; i++ {
		canvas.Line(i*cell, 0, i*cell, gridH, strokeWidth(i))
	}
	for i := 1; i < height; i++ {
		canvas.Line(0, i*cell, gridW, i*cell, strokeWidth(i))
	}
	canvas.Gend()

	if len(palette) > 0 {
		top := gridH + cell/2
		for i, c := range palette {
			canvas.Rect(i*cell, top, cell, cell,
				fmt.Sprintf("fill:%s", c.Hex()))
			canvas.Text(i*cell+cell/2, top+cell*2/3, fmt.Sprintf("%d", i),
				fmt.Sprintf("text-anchor:middle;font-size:%dpx;fill:%s",
					cell/2, labelColor(c).Hex()))
		}
	}

	canvas.End()
	return ew.err
}

func strokeWidth(line int) string {
	if line%majorGridEvery == 0 {
		return "stroke-width:3"
	}
	return "stroke-width:1"
}
