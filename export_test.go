package mediancut

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"
)

func solidPixels(width, height int, c RGB) []byte {
	pix := make([]byte, 0, width*height*4)
	for i := 0; i < width*height; i++ {
		pix = append(pix, c.R, c.G, c.B, 255)
	}
	return pix
}

func TestRenderANSI(t *testing.T) {
	pixels := []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	}
	out, err := RenderANSI(pixels, 2, 2)
	if err != nil {
		t.Fatalf("RenderANSI failed: %v", err)
	}
	for _, want := range []string{"38;2;255;0;0", "48;2;0;0;255", "38;2;0;255;0", "48;2;255;255;255"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output %q", want, out)
		}
	}
	if n := strings.Count(out, upperHalfBlock); n != 2 {
		t.Errorf("Expected 2 blocks, got %d", n)
	}
	if n := strings.Count(out, "\n"); n != 1 {
		t.Errorf("Expected 1 line, got %d", n)
	}
}

func TestRenderANSIRuns(t *testing.T) {
	out, err := RenderANSI(solidPixels(5, 3, RGB{R: 7, G: 8, B: 9}), 5, 3)
	if err != nil {
		t.Fatalf("RenderANSI failed: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if strings.Count(lines[0], "38;2;7;8;9") != 1 {
		t.Errorf("Expected a single escape for a run of identical cells: %q", lines[0])
	}
	if !strings.Contains(lines[1], ";49m") {
		t.Errorf("Expected default background on odd last row: %q", lines[1])
	}
	if _, err := RenderANSI([]byte{1, 2, 3}, 1, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if _, err := RenderANSI(nil, 1<<62, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for overflowing dimensions, got %v", err)
	}
}

func TestRenderPaletteANSI(t *testing.T) {
	out := RenderPaletteANSI(Palette{{}, {R: 255, G: 255, B: 255}})
	if !strings.Contains(out, "38;2;255;255;255;48;2;0;0;0m  0 ") {
		t.Errorf("Expected white label on black swatch: %q", out)
	}
	if !strings.Contains(out, "38;2;0;0;0;48;2;255;255;255m  1 ") {
		t.Errorf("Expected black label on white swatch: %q", out)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteSVG(t *testing.T) {
	pixels := solidPixels(10, 2, RGB{R: 1, G: 2, B: 3})
	palette := Palette{{R: 1, G: 2, B: 3}, {R: 200, G: 100, B: 0}}

	var buf bytes.Buffer
	if err := WriteSVG(&buf, pixels, 10, 2, palette, 4); err != nil {
		t.Fatalf("WriteSVG failed: %v", err)
	}
	out := buf.String()
	if n := strings.Count(out, "<rect"); n != 10*2+len(palette) {
		t.Errorf("Expected %d rects, got %d", 10*2+len(palette), n)
	}
	if !strings.Contains(out, "fill:rgb(1,2,3)") {
		t.Error("Expected pixel fill in output")
	}
	if strings.Count(out, "stroke-width:3") != 1 {
		t.Error("Expected one thick grid line at column 8")
	}
	if !strings.Contains(out, "#c86400") {
		t.Error("Expected palette swatch fill in output")
	}
}

func TestWriteSVGErrors(t *testing.T) {
	pixels := solidPixels(2, 2, RGB{})
	if err := WriteSVG(failingWriter{}, pixels, 2, 2, nil, 4); err == nil {
		t.Error("Expected write error")
	}
	if err := WriteSVG(&bytes.Buffer{}, nil, 1<<62, 1, nil, 4); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for overflowing dimensions, got %v", err)
	}
	if err := WriteSVG(&bytes.Buffer{}, pixels, 2, 2, nil, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for zero cell, got %v", err)
	}
}

func TestGridImage(t *testing.T) {
	pixels := []byte{10, 20, 30, 255, 40, 50, 60, 255}
	img, err := GridImage(pixels, 2, 1, 3)
	if err != nil {
		t.Fatalf("GridImage failed: %v", err)
	}
	if img.Width() != 6 || img.Height() != 3 {
		t.Fatalf("Expected 6x3 image, got %dx%d", img.Width(), img.Height())
	}
	if got := img.RGBAAt(2, 2); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("Expected first cell color, got %v", got)
	}
	if got := img.RGBAAt(3, 0); got != (color.RGBA{R: 40, G: 50, B: 60, A: 255}) {
		t.Errorf("Expected second cell color, got %v", got)
	}
	if _, err := GridImage(nil, 1<<62, 1, 3); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for overflowing dimensions, got %v", err)
	}
}

func TestHighlightImage(t *testing.T) {
	pixels := []byte{100, 200, 50, 255, 10, 10, 10, 255}
	img, err := HighlightImage(pixels, 2, 1, []int{0, 1}, 1, 4)
	if err != nil {
		t.Fatalf("HighlightImage failed: %v", err)
	}

	if got := img.RGBAAt(1, 1); got != (color.RGBA{R: 30, G: 60, B: 15, A: 255}) {
		t.Errorf("Expected dimmed cell, got %v", got)
	}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if got := img.RGBAAt(4, 0); got != white {
		t.Errorf("Expected white outline, got %v", got)
	}
	if got := img.RGBAAt(5, 2); got != (color.RGBA{R: 10, G: 10, B: 10, A: 255}) {
		t.Errorf("Expected selected cell interior unchanged, got %v", got)
	}

	if _, err := HighlightImage(pixels, 2, 1, []int{0}, 0, 4); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for short index, got %v", err)
	}
}

func TestDrawSwatches(t *testing.T) {
	palette := Palette{{}, {R: 255, G: 255, B: 255}, {R: 0, G: 0, B: 200}}
	img, err := DrawSwatches(palette, []int{1, 1, 2}, 24)
	if err != nil {
		t.Fatalf("DrawSwatches failed: %v", err)
	}
	if img.Width() != 72 || img.Height() != 24 {
		t.Fatalf("Expected 72x24 image, got %dx%d", img.Width(), img.Height())
	}

	labelled := false
	for y := 0; y < 24 && !labelled; y++ {
		for x := 0; x < 24; x++ {
			if img.RGBAAt(x, y) != (color.RGBA{A: 255}) {
				labelled = true
				break
			}
		}
	}
	if !labelled {
		t.Error("Expected label or share bar pixels on the black swatch")
	}
	if got := img.RGBAAt(48, 0); got != (color.RGBA{B: 200, A: 255}) {
		t.Errorf("Expected blue swatch corner, got %v", got)
	}
}

func TestDrawSwatchesErrors(t *testing.T) {
	if _, err := DrawSwatches(nil, nil, 24); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty palette, got %v", err)
	}
	if _, err := DrawSwatches(Palette{{}}, nil, 4); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for small swatch, got %v", err)
	}
}
