package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// BinarizeMode selects the last step of Enhance.
type BinarizeMode string

const (
	// BinarizeAdaptive thresholds each pixel against its local mean.
	BinarizeAdaptive BinarizeMode = "adaptive"
	// BinarizeGlobal thresholds every pixel against one level.
	BinarizeGlobal BinarizeMode = "global"
	// BinarizeNone keeps the enhanced grayscale image.
	BinarizeNone BinarizeMode = "none"
)

// EnhanceOptions tunes the scan enhancement chain.
type EnhanceOptions struct {
	Contrast      float64      // percent change passed to imaging.AdjustContrast (-100..100)
	Sharpen       float64      // sigma for imaging.Sharpen; 0 disables
	DenoiseRadius float64      // Gaussian radius; 0 disables
	Binarize      BinarizeMode // final thresholding step
	BlockSize     int          // adaptive window side, odd
	C             int          // adaptive offset subtracted from the local mean
	Level         uint8        // global threshold level
}

// DefaultEnhanceOptions returns settings tuned for printed text on paper.
func DefaultEnhanceOptions() EnhanceOptions {
	return EnhanceOptions{
		Contrast:      50,
		Sharpen:       1.0,
		DenoiseRadius: 1.0,
		Binarize:      BinarizeAdaptive,
		BlockSize:     11,
		C:             2,
		Level:         128,
	}
}

// Enhance turns a corrected document photo into a clean scan.
//
// The chain is grayscale, contrast boost, sharpen, light Gaussian denoise and
// finally binarization. Adaptive binarization copes with the uneven lighting
// typical of handheld photos; global is faster and fine for flat scans.
func Enhance(img image.Image, opts EnhanceOptions) (*image.Gray, error) {
	if opts.Binarize == "" {
		opts.Binarize = BinarizeAdaptive
	}
	if opts.Binarize == BinarizeAdaptive && (opts.BlockSize < 3 || opts.BlockSize%2 == 0) {
		return nil, fmt.Errorf("adaptive block size must be odd and >= 3, got %d", opts.BlockSize)
	}

	g := imaging.Grayscale(img)
	if opts.Contrast != 0 {
		g = imaging.AdjustContrast(g, opts.Contrast)
	}
	if opts.Sharpen > 0 {
		g = imaging.Sharpen(g, opts.Sharpen)
	}

	var cur image.Image = g
	if opts.DenoiseRadius > 0 {
		cur = blur.Gaussian(cur, opts.DenoiseRadius)
	}

	switch opts.Binarize {
	case BinarizeGlobal:
		return segment.Threshold(cur, opts.Level), nil
	case BinarizeAdaptive:
		gray := Grayscale(FromImage(cur))
		return AdaptiveThreshold(gray, opts.BlockSize, opts.C, false).Image().(*image.Gray), nil
	case BinarizeNone:
		return Grayscale(FromImage(cur)).Image().(*image.Gray), nil
	default:
		return nil, fmt.Errorf("unknown binarize mode: %s", opts.Binarize)
	}
}

// AdaptiveThreshold compares every pixel of a grayscale raster with the mean
// of the block x block window around it (clipped at the borders). A pixel
// brighter than mean - c becomes 255, anything else 0; invert swaps the two
// outputs so that dark ink or dark borders become the foreground.
func AdaptiveThreshold(gray *Raster, block, c int, invert bool) *Raster {
	w, h := gray.Width, gray.Height
	stride := w + 1
	integral := make([]int64, stride*(h+1))
	for y := 0; y < h; y++ {
		var row int64
		for x := 0; x < w; x++ {
			row += int64(gray.Pix[y*w+x])
			integral[(y+1)*stride+x+1] = integral[y*stride+x+1] + row
		}
	}

	half := block / 2
	out := NewRaster(w, h, 1)
	for y := 0; y < h; y++ {
		y0, y1 := clamp(y-half, 0, h-1), clamp(y+half, 0, h-1)+1
		for x := 0; x < w; x++ {
			x0, x1 := clamp(x-half, 0, w-1), clamp(x+half, 0, w-1)+1
			sum := integral[y1*stride+x1] - integral[y0*stride+x1] - integral[y1*stride+x0] + integral[y0*stride+x0]
			count := int64((x1 - x0) * (y1 - y0))

			above := int64(gray.Pix[y*w+x])*count > sum-int64(c)*count
			if above != invert {
				out.Pix[y*w+x] = 255
			}
		}
	}
	return out
}

// Close applies a morphological close (dilate, then erode) to a binary
// raster, bridging small gaps in white foreground strokes.
func Close(bin *Raster, radius float64) *Raster {
	dilated := effect.Dilate(bin.Image(), radius)
	closed := effect.Erode(dilated, radius)
	return Grayscale(FromImage(closed))
}
