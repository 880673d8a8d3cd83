package imaging

import (
	"image"
	"math"
)

const (
	edgeStrong = 255
	edgeWeak   = 100
)

// GradientField holds per-pixel Sobel magnitude and direction.
//
// Magnitude is clamped to [0, 255]. Direction is atan2(gy, gx) in radians.
// Both are zero on the one-pixel image border.
type GradientField struct {
	Magnitude *Field
	Direction *Field
}

// EdgeDetect performs Canny-style edge detection on an image.
//
// The result is a grayscale PNG where white pixels (255) are edges and black
// pixels (0) are not. It is the same binary map the document scanner traces
// contours from, which makes it the first thing to look at when a photo
// fails to produce a document outline.
//
// Parameters:
//   - img: Source image (color or grayscale).
//   - thresholdLow: Suppressed magnitudes at or above this value (0-255) are
//     weak edges. Typical value: 50.
//   - thresholdHigh: Suppressed magnitudes at or above this value (0-255) are
//     strong edges. Typical value: 150.
//
// # Threshold Selection
//
// Lower thresholds detect more edges but increase noise. Higher thresholds
// produce cleaner results but may miss the faint boundary between a white
// page and a light desk.
//
// Recommended starting points:
//   - Document on dark background: thresholdLow=50, thresholdHigh=150
//   - Low-contrast photographs: thresholdLow=25, thresholdHigh=75
//   - Noisy images: thresholdLow=75, thresholdHigh=200
func EdgeDetect(img image.Image, thresholdLow, thresholdHigh int) (*ImageResult, error) {
	edges := Canny(FromImage(img), float64(thresholdLow), float64(thresholdHigh))
	return NewImageResult(edges.Image())
}

// Canny runs grayscale conversion, blur, Sobel, non-maximum suppression and
// hysteresis and returns a binary edge raster.
func Canny(src *Raster, low, high float64) *Raster {
	blurred := GaussianBlur(Grayscale(src))
	return Hysteresis(SuppressNonMaxima(Sobel(blurred)), low, high)
}

// Grayscale converts an RGBA raster to single-channel luminance using
// ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B), truncated. Alpha is
// ignored. A single-channel input is copied.
func Grayscale(src *Raster) *Raster {
	if src.Channels == 1 {
		return src.Clone()
	}
	out := NewRaster(src.Width, src.Height, 1)
	for i := range out.Pix {
		p := src.Pix[i*src.Channels : i*src.Channels+3]
		out.Pix[i] = uint8((299*int(p[0]) + 587*int(p[1]) + 114*int(p[2])) / 1000)
	}
	return out
}

// blurKernel is the outer product of {1,4,6,4,1}; it sums to 256.
var blurKernel = [5]int{1, 4, 6, 4, 1}

// GaussianBlur applies a 5x5 binomial blur to a grayscale raster.
//
// Pixels within 2px of the border are copied unchanged rather than
// sampled from padding.
func GaussianBlur(gray *Raster) *Raster {
	out := gray.Clone()
	w, h := gray.Width, gray.Height
	for y := 2; y < h-2; y++ {
		for x := 2; x < w-2; x++ {
			sum := 0
			for ky := -2; ky <= 2; ky++ {
				row := (y + ky) * w
				for kx := -2; kx <= 2; kx++ {
					sum += int(gray.Pix[row+x+kx]) * blurKernel[ky+2] * blurKernel[kx+2]
				}
			}
			out.Pix[y*w+x] = uint8(sum >> 8)
		}
	}
	return out
}

// Sobel computes the gradient field of a grayscale raster.
func Sobel(gray *Raster) *GradientField {
	w, h := gray.Width, gray.Height
	mag := NewField(w, h)
	dir := NewField(w, h)
	at := func(x, y int) float64 { return float64(gray.Pix[y*w+x]) }

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) -
				2*at(x-1, y) + 2*at(x+1, y) -
				at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)

			i := y*w + x
			mag.Values[i] = math.Min(255, math.Sqrt(gx*gx+gy*gy))
			dir.Values[i] = math.Atan2(gy, gx)
		}
	}
	return &GradientField{Magnitude: mag, Direction: dir}
}

// SuppressNonMaxima thins ridges of the gradient magnitude.
//
// The direction is quantized to a multiple of 45 degrees, folded into
// [0, 180]. A pixel keeps its magnitude only when it is at least as large as
// both neighbours along that direction. Image rows grow downward, so a 45
// degree gradient points toward (+x, +y).
func SuppressNonMaxima(g *GradientField) *Field {
	mag := g.Magnitude
	w, h := mag.Width, mag.Height
	out := NewField(w, h)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			m := mag.Values[i]
			if m == 0 {
				continue
			}

			q := math.Round(g.Direction.Values[i]*180/math.Pi/45) * 45
			if q < 0 {
				q += 180
			}

			var n1, n2 float64
			switch q {
			case 45:
				n1, n2 = mag.At(x+1, y+1), mag.At(x-1, y-1)
			case 90:
				n1, n2 = mag.At(x, y-1), mag.At(x, y+1)
			case 135:
				n1, n2 = mag.At(x-1, y+1), mag.At(x+1, y-1)
			default: // 0 and 180
				n1, n2 = mag.At(x-1, y), mag.At(x+1, y)
			}

			if m >= n1 && m >= n2 {
				out.Values[i] = m
			}
		}
	}
	return out
}

// Hysteresis classifies suppressed magnitudes into a binary edge raster.
//
// Non-zero values at or above high are strong edges, non-zero values at or
// above low are weak. Zero magnitudes never become edges, even when both
// thresholds are 0.
// One raster-order pass then promotes each weak pixel touching an already
// strong 8-neighbour and drops the rest. Promotions made earlier in the pass
// count for later pixels, but chains that run against the scan order are
// not followed; this is not a full connected-component hysteresis.
func Hysteresis(suppressed *Field, low, high float64) *Raster {
	w, h := suppressed.Width, suppressed.Height
	out := NewRaster(w, h, 1)
	for i, v := range suppressed.Values {
		switch {
		case v <= 0:
		case v >= high:
			out.Pix[i] = edgeStrong
		case v >= low:
			out.Pix[i] = edgeWeak
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if out.Pix[i] != edgeWeak {
				continue
			}
			out.Pix[i] = 0
			if hasStrongNeighbor(out, x, y) {
				out.Pix[i] = edgeStrong
			}
		}
	}
	return out
}

func hasStrongNeighbor(r *Raster, x, y int) bool {
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			if kx == 0 && ky == 0 {
				continue
			}
			px, py := x+kx, y+ky
			if px < 0 || py < 0 || px >= r.Width || py >= r.Height {
				continue
			}
			if r.Pix[py*r.Width+px] == edgeStrong {
				return true
			}
		}
	}
	return false
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
