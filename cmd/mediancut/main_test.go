package main

import (
	"image"
	"testing"

	"github.com/wbrown/mediancut/imageutil"
)

func TestParseCrop(t *testing.T) {
	tests := []struct {
		in      string
		want    image.Rectangle
		wantErr bool
	}{
		{"", image.Rectangle{}, false},
		{"10,20,32,32", image.Rect(10, 20, 42, 52), false},
		{" 0, 0, 8, 8", image.Rect(0, 0, 8, 8), false},
		{"1,2,3", image.Rectangle{}, true},
		{"a,2,3,4", image.Rectangle{}, true},
		{"0,0,0,4", image.Rectangle{}, true},
		{"0,0,8,4", image.Rectangle{}, true},
	}
	for _, tt := range tests {
		got, err := parseCrop(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCrop(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseCrop(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseInterpolation(t *testing.T) {
	tests := []struct {
		in   string
		want imageutil.Interpolation
	}{
		{"area", imageutil.InterpolationArea},
		{"Linear", imageutil.InterpolationLinear},
		{"nearest", imageutil.InterpolationNearest},
	}
	for _, tt := range tests {
		got, err := parseInterpolation(tt.in)
		if err != nil {
			t.Errorf("parseInterpolation(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseInterpolation(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := parseInterpolation("cubic"); err == nil {
		t.Error("Expected error for unknown interpolation")
	}
}
