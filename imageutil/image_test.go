package imageutil

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRGBAImage(t *testing.T) {
	img := NewRGBAImage(100, 50)
	if img.Width() != 100 {
		t.Errorf("Expected width 100, got %d", img.Width())
	}
	if img.Height() != 50 {
		t.Errorf("Expected height 50, got %d", img.Height())
	}
}

func TestRGBAImageGetSetRGB(t *testing.T) {
	img := NewRGBAImage(10, 10)
	c := RGB{R: 100, G: 150, B: 200}
	img.SetRGB(5, 5, c)

	got := img.GetRGB(5, 5)
	if got != c {
		t.Errorf("Expected %v, got %v", c, got)
	}
}

func TestFillRect(t *testing.T) {
	img := NewRGBAImage(10, 10)
	img.FillRect(2, 2, 3, 3, color.RGBA{R: 9, G: 8, B: 7, A: 255})

	if got := img.GetRGB(4, 4); got != (RGB{R: 9, G: 8, B: 7}) {
		t.Errorf("Expected filled pixel, got %v", got)
	}
	if got := img.GetRGB(5, 5); got != (RGB{}) {
		t.Errorf("Pixel outside rectangle should be untouched, got %v", got)
	}
}

func TestPixelsRoundTrip(t *testing.T) {
	img := CreateColorBarsImage(16, 4)
	pix := Pixels(img)

	if len(pix) != 16*4*4 {
		t.Fatalf("Expected %d bytes, got %d", 16*4*4, len(pix))
	}
	// Second bar is yellow and every pixel is opaque
	if pix[2*4] != 255 || pix[2*4+1] != 255 || pix[2*4+2] != 0 || pix[2*4+3] != 255 {
		t.Errorf("Expected opaque yellow at x=2, got %v", pix[8:12])
	}

	wrapped := FromPixels(pix, 16, 4)
	if wrapped.Bounds().Dx() != 16 || wrapped.Bounds().Dy() != 4 {
		t.Errorf("Expected 16x4, got %v", wrapped.Bounds())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 16; x++ {
			c := wrapped.NRGBAAt(x, y)
			want := img.GetRGB(x, y)
			if c.R != want.R || c.G != want.G || c.B != want.B || c.A != 255 {
				t.Fatalf("Pixel (%d,%d): expected %v, got %v", x, y, want, c)
			}
		}
	}

	// FromPixels must not copy
	pix[0] = 42
	if wrapped.NRGBAAt(0, 0).R != 42 {
		t.Error("FromPixels should share the caller's buffer")
	}
}

func TestResize(t *testing.T) {
	img := CreateGradientImage(100, 100)

	// Downscale
	resized := Resize(img, 50, 50, InterpolationArea)
	if resized.Width() != 50 || resized.Height() != 50 {
		t.Errorf("Expected 50x50, got %dx%d", resized.Width(), resized.Height())
	}

	// Upscale
	resized = Resize(img, 200, 200, InterpolationLinear)
	if resized.Width() != 200 || resized.Height() != 200 {
		t.Errorf("Expected 200x200, got %dx%d", resized.Width(), resized.Height())
	}
}

func TestResizeNearestKeepsColors(t *testing.T) {
	img := CreateCheckerboardImage(64, 64, 8)
	resized := Resize(img, 8, 8, InterpolationNearest)

	if n := CountColors(resized); n > 2 {
		t.Errorf("Nearest-neighbor resize should not invent colors, got %d", n)
	}
}

func TestCrop(t *testing.T) {
	// Eight bars of 10 pixels; the third is cyan
	img := CreateColorBarsImage(80, 10)

	cropped, err := Crop(img, image.Rect(20, 0, 30, 10))
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if cropped.Width() != 10 || cropped.Height() != 10 {
		t.Fatalf("Expected 10x10, got %dx%d", cropped.Width(), cropped.Height())
	}
	if n := CountColors(cropped); n != 1 {
		t.Errorf("Expected a single color, got %d", n)
	}
	if got := cropped.GetRGB(0, 0); got != (RGB{R: 0, G: 255, B: 255}) {
		t.Errorf("Expected cyan, got %v", got)
	}

	_, err = Crop(img, image.Rect(100, 100, 120, 120))
	if err == nil {
		t.Fatal("Expected error for crop outside the image")
	}
	if !strings.Contains(err.Error(), "(100,100)-(120,120)") {
		t.Errorf("Expected requested rectangle in error, got %v", err)
	}
}

func TestCropSquare(t *testing.T) {
	img := CreateGradientImage(100, 50)
	square := CropSquare(img)
	if square.Width() != 50 || square.Height() != 50 {
		t.Errorf("Expected 50x50, got %dx%d", square.Width(), square.Height())
	}
}

func TestGrid(t *testing.T) {
	img := CreateSolidImage(120, 90, RGB{R: 10, G: 20, B: 30})

	grid, err := Grid(img, image.Rectangle{}, 32, InterpolationNearest)
	if err != nil {
		t.Fatalf("Grid failed: %v", err)
	}
	if grid.Width() != 32 || grid.Height() != 32 {
		t.Errorf("Expected 32x32, got %dx%d", grid.Width(), grid.Height())
	}
	if got := grid.GetRGB(31, 31); got != (RGB{R: 10, G: 20, B: 30}) {
		t.Errorf("Expected solid color, got %v", got)
	}

	if _, err := Grid(img, image.Rectangle{}, 0, InterpolationNearest); err == nil {
		t.Error("Expected error for zero grid size")
	}
}

func TestIsSupportedImage(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.png", true},
		{"a.JPG", true},
		{"a.jpeg", true},
		{"a.gif", true},
		{"a.tiff", true},
		{"a.webp", true},
		{"a.bmp", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsSupportedImage(tt.name); got != tt.want {
			t.Errorf("IsSupportedImage(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLoadSaveImage(t *testing.T) {
	tmpDir := t.TempDir()

	img := CreateColorBarsImage(64, 64)

	pngPath := filepath.Join(tmpDir, "test.png")
	if err := SavePNG(img.RGBA, pngPath); err != nil {
		t.Fatalf("Failed to save PNG: %v", err)
	}

	loaded, err := LoadImage(pngPath)
	if err != nil {
		t.Fatalf("Failed to load PNG: %v", err)
	}

	// PNG should be lossless
	mse := CalculateMSE(img, loaded)
	if mse > 0.01 {
		t.Errorf("PNG should be lossless, MSE=%f", mse)
	}
}

func TestLoadImageErrors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := LoadImage(filepath.Join(tmpDir, "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}

	bogus := filepath.Join(tmpDir, "bogus.png")
	if err := os.WriteFile(bogus, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImage(bogus); err == nil {
		t.Error("Expected error for undecodable file")
	}
}

func TestCalculateMSE(t *testing.T) {
	img1 := NewRGBAImage(10, 10)
	img2 := NewRGBAImage(10, 10)

	// Same images should have MSE of 0
	mse := CalculateMSE(img1, img2)
	if mse != 0 {
		t.Errorf("Identical images should have MSE=0, got %f", mse)
	}

	// Different images
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img1.SetRGB(x, y, RGB{R: 0, G: 0, B: 0})
			img2.SetRGB(x, y, RGB{R: 10, G: 10, B: 10})
		}
	}
	mse = CalculateMSE(img1, img2)
	expected := 100.0 // 10^2 = 100
	if mse != expected {
		t.Errorf("Expected MSE=%f, got %f", expected, mse)
	}
	if d := CalculateMaxDiff(img1, img2); d != 10 {
		t.Errorf("Expected max diff 10, got %d", d)
	}
}
