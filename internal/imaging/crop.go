package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Crop extracts an axis-aligned rectangle from an image.
//
// It is the manual fallback when automatic detection reports that no
// document outline was found: the caller picks the page bounds by hand. A
// scale other than 1 resizes the crop with Lanczos resampling.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*ImageResult, error) {
	bounds := img.Bounds()

	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %.3f collapses crop to %dx%d", scale, newWidth, newHeight)
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	return NewImageResult(cropped)
}

// TrimMargin removes the same number of pixels from every side. Corrected
// pages often keep a sliver of desk along the edge; a margin of a few
// pixels removes it without a second detection pass.
func TrimMargin(img image.Image, margin int) (image.Image, error) {
	b := img.Bounds()
	if margin < 0 || 2*margin >= b.Dx() || 2*margin >= b.Dy() {
		return nil, fmt.Errorf("margin %d too large for %dx%d image", margin, b.Dx(), b.Dy())
	}
	if margin == 0 {
		return img, nil
	}
	return imaging.Crop(img, image.Rect(b.Min.X+margin, b.Min.Y+margin, b.Max.X-margin, b.Max.Y-margin)), nil
}
