package detection

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

// EdgeDetector turns an RGBA raster into a single-channel binary edge map
// (0 or 255). The scanner traces document outlines from whatever
// implementation it is given.
type EdgeDetector interface {
	Edges(src *imaging.Raster) (*imaging.Raster, error)
}

// CannyDetector is the default EdgeDetector.
type CannyDetector struct {
	Low  float64
	High float64

	// Auto derives both thresholds from the median intensity of the blurred
	// image instead of using Low and High.
	Auto bool

	// Sigma is the spread around the median used by Auto; 0 means 0.33.
	Sigma float64
}

// Edges implements EdgeDetector.
func (d CannyDetector) Edges(src *imaging.Raster) (*imaging.Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	low, high := d.Low, d.High
	blurred := imaging.GaussianBlur(imaging.Grayscale(src))
	if d.Auto {
		low, high = AutoThresholds(blurred, d.Sigma)
	}
	if low > high {
		return nil, fmt.Errorf("low threshold %.1f above high threshold %.1f", low, high)
	}
	return imaging.Hysteresis(imaging.SuppressNonMaxima(imaging.Sobel(blurred)), low, high), nil
}

// AutoThresholds picks hysteresis thresholds around the median intensity:
// (1-sigma)*median and (1+sigma)*median, clamped to [0, 255].
func AutoThresholds(gray *imaging.Raster, sigma float64) (low, high float64) {
	if sigma <= 0 {
		sigma = 0.33
	}
	values := make([]float64, len(gray.Pix))
	for i, v := range gray.Pix {
		values[i] = float64(v)
	}
	sort.Float64s(values)
	median := stat.Quantile(0.5, stat.Empirical, values, nil)

	low = math.Max(0, (1-sigma)*median)
	high = math.Min(255, (1+sigma)*median)
	return low, high
}

// AdaptiveDetector finds outlines by local-mean thresholding rather than by
// gradients. Pixels darker than their neighbourhood become foreground, and a
// morphological close joins the resulting fragments. It copes with pages
// whose edge against the background is too soft for Canny.
type AdaptiveDetector struct {
	BlockSize   int     // odd window side; 0 means 11
	C           int     // offset below the local mean; 0 means 2
	CloseRadius float64 // 0 disables the close
}

// Edges implements EdgeDetector.
func (d AdaptiveDetector) Edges(src *imaging.Raster) (*imaging.Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	block, c := d.BlockSize, d.C
	if block == 0 {
		block = 11
	}
	if c == 0 {
		c = 2
	}
	if block < 3 || block%2 == 0 {
		return nil, fmt.Errorf("adaptive block size must be odd and >= 3, got %d", block)
	}

	gray := imaging.GaussianBlur(imaging.Grayscale(src))
	bin := imaging.AdaptiveThreshold(gray, block, c, true)
	if d.CloseRadius > 0 {
		bin = imaging.Close(bin, d.CloseRadius)
	}
	return bin, nil
}
