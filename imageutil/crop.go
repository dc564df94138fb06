package imageutil

import (
	"fmt"
	"image"

	"github.com/disintegration/gift"
)

// Crop returns the part of img inside rect. rect is clipped to the image
// bounds; an empty intersection is an error.
func Crop(img *RGBAImage, rect image.Rectangle) (*RGBAImage, error) {
	clipped := rect.Intersect(img.Bounds())
	if clipped.Empty() {
		return nil, fmt.Errorf("crop rectangle %v is outside the image", rect)
	}
	return apply(img, gift.Crop(clipped)), nil
}

// CropSquare returns the largest centered square of img.
func CropSquare(img *RGBAImage) *RGBAImage {
	side := img.Width()
	if img.Height() < side {
		side = img.Height()
	}
	return apply(img, gift.CropToSize(side, side, gift.CenterAnchor))
}

// Grid crops img to rect (or to its centered square when rect is empty)
// and resamples the result to a size×size working grid.
func Grid(img *RGBAImage, rect image.Rectangle, size int, interp Interpolation) (*RGBAImage, error) {
	if size <= 0 {
		return nil, fmt.Errorf("grid size %d must be positive", size)
	}
	var cropped *RGBAImage
	if rect.Empty() {
		cropped = CropSquare(img)
	} else {
		var err error
		cropped, err = Crop(img, rect)
		if err != nil {
			return nil, err
		}
	}
	return Resize(cropped, size, size, interp), nil
}

func apply(img *RGBAImage, filters ...gift.Filter) *RGBAImage {
	g := gift.New(filters...)
	dst := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img.RGBA)
	return &RGBAImage{RGBA: dst}
}
